package game

import (
	"errors"
	"fmt"
	"strings"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/bcspragu/codenames-table/boardgen"
)

// Game represents a single game of Codenames on one machine. It starts in the
// substitution phase, where words on the board can be swapped out, moves to
// playing once StartPlaying is called, and finishes when a team has found all
// of its agents or someone reveals the assassin. A finished game can't be
// changed.
//
// A *Game isn't safe for concurrent use, callers serialize access.
type Game struct {
	legend    *codenames.Legend
	state     *codenames.GameState
	remaining []string

	reveals       int
	substitutions int

	cfg *Config
}

// Config holds optional hooks into a game.
type Config struct {
	// OnChange, if set, is called with a snapshot of the game after every
	// successful move.
	OnChange func(*codenames.GameState)
}

// New validates and initializes a game of Codenames. The board is expected to
// come from boardgen.Assign with the same legend.
func New(l *codenames.Legend, b *codenames.Board, remaining []string, cfg *Config) (*Game, error) {
	if err := validateBoard(l, b); err != nil {
		return nil, fmt.Errorf("invalid board given: %w", err)
	}
	if err := validateRemaining(b, remaining); err != nil {
		return nil, fmt.Errorf("invalid spare words given: %w", err)
	}
	if cfg == nil {
		cfg = &Config{}
	}

	rem := make([]string, len(remaining))
	copy(rem, remaining)

	return &Game{
		legend: l.Clone(),
		state: &codenames.GameState{
			Phase:          codenames.PhaseSubstitution,
			FirstMover:     l.FirstMover,
			Board:          b.Clone(),
			Score:          l.Score(),
			RemainingWords: len(rem),
		},
		remaining: rem,
		cfg:       cfg,
	}, nil
}

// validateBoard validates that the legend has the right split of agents, and
// that the board has one card per legend entry, with matching agents and no
// repeated words.
func validateBoard(l *codenames.Legend, b *codenames.Board) error {
	cells, err := boardgen.Cells(l.Size)
	if err != nil {
		return err
	}
	if b.Size != l.Size {
		return fmt.Errorf("board is %dx%d, legend is %dx%d", b.Size, b.Size, l.Size, l.Size)
	}
	if len(l.Agents) != cells {
		return fmt.Errorf("legend must contain %d agents, found %d", cells, len(l.Agents))
	}
	if len(b.Cards) != cells {
		return fmt.Errorf("board must contain %d codenames, found %d", cells, len(b.Cards))
	}

	counts := l.Counts()
	for a, n := range want(l.Size, l.FirstMover) {
		if counts[a] != n {
			return fmt.Errorf("legend has %d %s cards, want %d", counts[a], a, n)
		}
	}

	seen := make(map[string]bool)
	for i, c := range b.Cards {
		if c.Agent != l.Agents[i] {
			return fmt.Errorf("card %d is a %q, legend says %q", i, c.Agent, l.Agents[i])
		}
		w := strings.ToUpper(c.Codename)
		if seen[w] {
			return fmt.Errorf("codename %q appears more than once", c.Codename)
		}
		seen[w] = true
	}

	return nil
}

// want returns how many of each agent a size x size legend has when the given
// team goes first.
func want(size int, starter codenames.Team) map[codenames.Agent]int {
	first := 3 * (size - 2)
	second := first - 1
	return map[codenames.Agent]int{
		starter.Agent():         first,
		starter.Other().Agent(): second,
		codenames.Bystander:     size*size - first - second - 1,
		codenames.Assassin:      1,
	}
}

// validateRemaining checks that the spare words are distinct from each other
// and from the words on the board.
func validateRemaining(b *codenames.Board, remaining []string) error {
	seen := make(map[string]bool)
	for _, w := range remaining {
		uw := strings.ToUpper(w)
		if seen[uw] {
			return fmt.Errorf("spare word %q appears more than once", w)
		}
		if b.Index(w) >= 0 {
			return fmt.Errorf("spare word %q is already on the board", w)
		}
		seen[uw] = true
	}
	return nil
}

type Action string

const (
	ActionSubstitute = Action("SUBSTITUTE")
	ActionStart      = Action("START")
	ActionReveal     = Action("REVEAL")
)

// Move is a single command from the presentation layer.
type Move struct {
	Action Action
	// Only populated for ActionSubstitute and ActionReveal.
	Word string
}

type OutcomeKind string

const (
	// Substituted means a word on the board was swapped for a new one.
	Substituted = OutcomeKind("SUBSTITUTED")
	// Started means the game moved into the playing phase.
	Started = OutcomeKind("STARTED")
	// Revealed means a card was revealed and the game goes on.
	Revealed = OutcomeKind("REVEALED")
	// Won means the revealed card was the last one for its team.
	Won = OutcomeKind("WON")
	// Assassinated means the assassin was revealed, and the game is over.
	Assassinated = OutcomeKind("ASSASSINATED")
)

// Outcome describes what a move did.
type Outcome struct {
	Kind OutcomeKind
	// Card is the card that was revealed or substituted, after the move.
	Card codenames.Card
	// Winner is only set for Won.
	Winner codenames.Team
	// Score is the score after the move.
	Score codenames.Score
	Phase codenames.Phase
}

// Move applies a command to the game.
func (g *Game) Move(mv *Move) (*Outcome, error) {
	switch mv.Action {
	case ActionSubstitute:
		return g.Substitute(mv.Word)
	case ActionStart:
		return g.StartPlaying()
	case ActionReveal:
		return g.Reveal(mv.Word)
	default:
		return nil, fmt.Errorf("unknown action %q", mv.Action)
	}
}

// Substitute replaces a word on the board with an unused one. It's only
// allowed before the game starts, and fails with
// codenames.ErrSubstitutionExhausted once the spare words run out.
func (g *Game) Substitute(word string) (*Outcome, error) {
	switch g.state.Phase {
	case codenames.PhaseFinished:
		return nil, codenames.ErrSessionOver
	case codenames.PhasePlaying:
		return nil, codenames.ErrSubstitutionClosed
	}

	idx := g.state.Board.Index(word)
	rem, err := boardgen.Substitute(g.state.Board, g.remaining, word)
	if err != nil {
		return nil, err
	}
	g.remaining = rem
	g.state.RemainingWords = len(g.remaining)
	g.substitutions++

	return g.done(Substituted, g.state.Board.Cards[idx]), nil
}

// StartPlaying ends the substitution phase.
func (g *Game) StartPlaying() (*Outcome, error) {
	switch g.state.Phase {
	case codenames.PhaseFinished:
		return nil, codenames.ErrSessionOver
	case codenames.PhasePlaying:
		return nil, codenames.ErrAlreadyPlaying
	}

	g.state.Phase = codenames.PhasePlaying
	return g.done(Started, codenames.Card{}), nil
}

// Reveal exposes the agent behind a word. Revealing the assassin ends the game
// immediately, revealing a team's last agent wins the game for that team.
func (g *Game) Reveal(word string) (*Outcome, error) {
	switch g.state.Phase {
	case codenames.PhaseFinished:
		return nil, codenames.ErrSessionOver
	case codenames.PhaseSubstitution:
		return nil, codenames.ErrNotPlaying
	}

	c, err := g.reveal(word)
	if err != nil {
		return nil, err
	}
	g.reveals++

	// The assassin trumps everything else.
	if c.Agent == codenames.Assassin {
		g.finish(codenames.Assassinated, codenames.NoTeam)
		return g.done(Assassinated, c), nil
	}

	team := c.Agent.Team()
	switch team {
	case codenames.RedTeam:
		g.state.Score.Red--
	case codenames.BlueTeam:
		g.state.Score.Blue--
	default:
		// Bystanders don't count for anyone.
		return g.done(Revealed, c), nil
	}

	if g.state.Score.Remaining(team) <= 0 {
		g.finish(codenames.TeamWin, team)
		out := g.done(Won, c)
		out.Winner = team
		return out, nil
	}

	return g.done(Revealed, c), nil
}

func (g *Game) reveal(word string) (codenames.Card, error) {
	idx := g.state.Board.Index(word)
	if idx < 0 {
		return codenames.Card{}, fmt.Errorf("%q: %w", word, codenames.ErrUnknownWord)
	}

	card := &g.state.Board.Cards[idx]
	if card.Revealed {
		return codenames.Card{}, fmt.Errorf("%q: %w", word, codenames.ErrAlreadyRevealed)
	}

	card.Revealed = true
	return *card, nil
}

func (g *Game) finish(res codenames.Result, winner codenames.Team) {
	g.state.Phase = codenames.PhaseFinished
	g.state.Result = res
	g.state.Winner = winner
}

func (g *Game) done(kind OutcomeKind, c codenames.Card) *Outcome {
	if g.cfg.OnChange != nil {
		g.cfg.OnChange(g.State())
	}
	return &Outcome{
		Kind:  kind,
		Card:  c,
		Score: g.state.Score,
		Phase: g.state.Phase,
	}
}

// State returns a snapshot of the game.
func (g *Game) State() *codenames.GameState {
	return g.state.Clone()
}

// Legend returns a copy of the secret legend, for the spymasters.
func (g *Game) Legend() *codenames.Legend {
	return g.legend.Clone()
}

// Stats returns how many cards have been revealed and words substituted so
// far.
func (g *Game) Stats() (reveals, substitutions int) {
	return g.reveals, g.substitutions
}

// IsRejection reports whether err is one of the errors a move returns when
// it's not allowed, as opposed to something going wrong.
func IsRejection(err error) bool {
	for _, target := range []error{
		codenames.ErrUnknownWord,
		codenames.ErrWordNotFound,
		codenames.ErrAlreadyRevealed,
		codenames.ErrSubstitutionExhausted,
		codenames.ErrSubstitutionClosed,
		codenames.ErrNotPlaying,
		codenames.ErrAlreadyPlaying,
		codenames.ErrSessionOver,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
