// Package io renders games on a terminal.
package io

import (
	"fmt"
	"io"
	"strings"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/olekukonko/tablewriter"
)

// legendSymbols are the single-letter markers used when printing a legend.
var legendSymbols = map[codenames.Agent]string{
	codenames.RedAgent:  "R",
	codenames.BlueAgent: "B",
	codenames.Bystander: "O",
	codenames.Assassin:  "X",
}

func teamStr(t codenames.Team) string {
	switch t {
	case codenames.BlueTeam:
		return "Blue"
	case codenames.RedTeam:
		return "Red"
	default:
		return "Unknown"
	}
}

func agentColors(a codenames.Agent) tablewriter.Colors {
	switch a {
	case codenames.BlueAgent:
		return tablewriter.Colors{tablewriter.FgBlueColor}
	case codenames.RedAgent:
		return tablewriter.Colors{tablewriter.FgHiRedColor}
	case codenames.Bystander:
		return tablewriter.Colors{tablewriter.FgYellowColor}
	case codenames.Assassin:
		return tablewriter.Colors{tablewriter.BgHiRedColor}
	}
	return tablewriter.Colors{}
}

// PrintLegend writes the secret legend, one row per board row, for the
// spymasters.
func PrintLegend(w io.Writer, l *codenames.Legend) {
	fmt.Fprintf(w, "%s team goes first!\n", strings.ToUpper(teamStr(l.FirstMover)))

	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	for i := 0; i < l.Size; i++ {
		var (
			row    []string
			colors []tablewriter.Colors
		)
		for j := 0; j < l.Size; j++ {
			a := l.At(i, j)
			row = append(row, legendSymbols[a])
			colors = append(colors, agentColors(a))
		}
		table.Rich(row, colors)
	}
	table.Render()
}

// PrintBoard writes the words on the board. Revealed cards are underlined and
// colored by agent. If spymaster is true, unrevealed cards are colored too.
func PrintBoard(w io.Writer, gs *codenames.GameState, spymaster bool) {
	b := gs.Board
	table := tablewriter.NewWriter(w)
	table.SetAlignment(tablewriter.ALIGN_CENTER)
	table.SetRowLine(true)

	for i := 0; i < b.Size; i++ {
		var (
			row    []string
			colors []tablewriter.Colors
		)
		for j := 0; j < b.Size; j++ {
			card := b.Cards[i*b.Size+j]
			var c tablewriter.Colors
			if card.Revealed || spymaster {
				c = append(c, agentColors(card.Agent)...)
			}
			if card.Revealed {
				c = append(c, tablewriter.UnderlineSingle)
			}
			colors = append(colors, c)
			row = append(row, card.Codename)
		}
		table.Rich(row, colors)
	}

	table.Render()
	fmt.Fprintln(w, ScoreLine(gs))
}

// ScoreLine summarizes where the game is at, e.g. "RED: 9 | BLUE: 8".
func ScoreLine(gs *codenames.GameState) string {
	switch gs.Result {
	case codenames.Assassinated:
		return "ASSASSINATED! -- GAME OVER!!!"
	case codenames.TeamWin:
		return fmt.Sprintf("%s WINS!", strings.ToUpper(teamStr(gs.Winner)))
	}
	return fmt.Sprintf("RED: %d | BLUE: %d", gs.Score.Red, gs.Score.Blue)
}
