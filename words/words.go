// Package words turns free-form text into a pool of candidate codenames.
package words

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/rs/zerolog/log"
)

// punctuation is deleted before the text is split, so "Hello," still counts
// as a word but "co-op" doesn't.
var punctuation = strings.NewReplacer(",", "", ".", "", "?", "", "!", "")

// Pool is a set of unique, upper-cased codenames.
type Pool struct {
	words map[string]struct{}
}

// LoadFile reads a pool of words from the given file.
func LoadFile(file string) (*Pool, error) {
	log.Info().Str("file", file).Msg("Opening word list...")
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open word file %q: %w", file, err)
	}
	defer f.Close()

	p, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file %q: %w", file, err)
	}
	log.Info().Int("words", p.Len()).Msg("Read word list")

	return p, nil
}

// Load reads whitespace-separated text and keeps the tokens that are purely
// alphabetic and shorter than codenames.MaxWordLen.
func Load(r io.Reader) (*Pool, error) {
	dat, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &Pool{words: make(map[string]struct{})}
	for _, tok := range strings.Fields(punctuation.Replace(string(dat))) {
		if !valid(tok) {
			continue
		}
		p.words[strings.ToUpper(tok)] = struct{}{}
	}
	return p, nil
}

// New builds a pool directly from a list of words, applying the same filter
// as Load.
func New(ws ...string) *Pool {
	p := &Pool{words: make(map[string]struct{})}
	for _, w := range ws {
		if valid(w) {
			p.words[strings.ToUpper(w)] = struct{}{}
		}
	}
	return p
}

func valid(tok string) bool {
	if tok == "" || utf8.RuneCountInString(tok) >= codenames.MaxWordLen {
		return false
	}
	for _, r := range tok {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Len returns the number of distinct words in the pool.
func (p *Pool) Len() int {
	return len(p.words)
}

// Contains reports whether the word is in the pool.
func (p *Pool) Contains(word string) bool {
	_, ok := p.words[strings.ToUpper(word)]
	return ok
}

// Words returns the pool in sorted order. Sorting doesn't matter for the
// game, but it makes seeded draws reproducible.
func (p *Pool) Words() []string {
	out := make([]string, 0, len(p.words))
	for w := range p.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}
