// Command boardgen prints a freshly dealt board as comma-separated
// word:agent pairs, in row-major order.
package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"os"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/bcspragu/codenames-table/boardgen"
	"github.com/bcspragu/codenames-table/cryptorand"
	"github.com/bcspragu/codenames-table/words"
	"github.com/namsral/flag"
	"github.com/rs/zerolog/log"
)

var (
	agentNames = map[codenames.Agent]string{
		codenames.RedAgent:  "red",
		codenames.BlueAgent: "blue",
		codenames.Bystander: "bystander",
		codenames.Assassin:  "assassin",
	}
)

func main() {
	fs := flag.NewFlagSetWithEnvPrefix("boardgen", "BOARDGEN", flag.ExitOnError)
	var (
		wordsFile = fs.String("words", "words.txt", "Whitespace-separated file of words to deal from")
		size      = fs.Int("size", codenames.DefaultSize, "Number of rows and columns on the board")
		seed      = fs.Int64("seed", 0, "Seed for a reproducible board, random if zero")
	)
	if err := fs.Parse(os.Args[1:]); err != nil {
		log.Fatal().Err(err).Msg("failed to parse flags")
	}

	r := cryptorand.New()
	if *seed != 0 {
		r = rand.New(rand.NewSource(*seed))
	}

	pool, err := words.LoadFile(*wordsFile)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load words")
	}

	l, err := boardgen.NewLegend(*size, r)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to generate legend")
	}
	bd, _, err := boardgen.Assign(pool, l, r)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to deal board")
	}

	fmt.Print(format(bd))
}

func format(bd *codenames.Board) string {
	var buf bytes.Buffer
	for i, card := range bd.Cards {
		buf.WriteString(fmt.Sprintf("%s:%s", card.Codename, agentNames[card.Agent]))
		if i != len(bd.Cards)-1 {
			buf.WriteString(",")
		}
	}
	return buf.String()
}
