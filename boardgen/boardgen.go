package boardgen

import (
	"fmt"
	"math/rand"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/bcspragu/codenames-table/words"
)

// NewLegend picks a starting team and shuffles the agents for a size x size
// board. The starting team gets 3*(size-2) cards, the other team one fewer,
// there's a single assassin and the rest are bystanders.
func NewLegend(size int, r *rand.Rand) (*codenames.Legend, error) {
	cells, err := Cells(size)
	if err != nil {
		return nil, err
	}

	starter := codenames.RedTeam
	if r.Intn(2) == 0 {
		starter = codenames.BlueTeam
	}

	first := 3 * (size - 2)
	second := first - 1
	bystanders := cells - first - second - 1

	agents := make([]codenames.Agent, 0, cells)
	agents = appendN(agents, starter.Agent(), first)
	agents = appendN(agents, starter.Other().Agent(), second)
	agents = appendN(agents, codenames.Bystander, bystanders)
	agents = append(agents, codenames.Assassin)

	shuffled := make([]codenames.Agent, cells)
	for i, idx := range r.Perm(cells) {
		shuffled[i] = agents[idx]
	}

	return &codenames.Legend{
		Size:       size,
		FirstMover: starter,
		Agents:     shuffled,
	}, nil
}

// Cells returns the number of cells on a size x size board, or
// codenames.ErrInvalidSize if size is out of range.
func Cells(size int) (int, error) {
	if size < codenames.MinSize || size > codenames.MaxSize {
		return 0, fmt.Errorf("got size %d: %w", size, codenames.ErrInvalidSize)
	}
	return size * size, nil
}

// CheckVocabulary reports whether the pool has enough words for a size x size
// board, without generating anything.
func CheckVocabulary(p *words.Pool, size int) error {
	cells, err := Cells(size)
	if err != nil {
		return err
	}
	if p.Len() < cells {
		return fmt.Errorf("have %d words for a %dx%d board: %w", p.Len(), size, size, codenames.ErrInsufficientVocabulary)
	}
	return nil
}

func appendN(agents []codenames.Agent, a codenames.Agent, n int) []codenames.Agent {
	for i := 0; i < n; i++ {
		agents = append(agents, a)
	}
	return agents
}

// Assign draws a unique word for every cell of the legend. The words that
// weren't drawn are returned, and can be used to replace words on the board
// before the game starts.
func Assign(p *words.Pool, l *codenames.Legend, r *rand.Rand) (*codenames.Board, []string, error) {
	if err := CheckVocabulary(p, l.Size); err != nil {
		return nil, nil, err
	}
	cells := l.Size * l.Size
	if len(l.Agents) != cells {
		return nil, nil, fmt.Errorf("legend has %d agents for a %dx%d board", len(l.Agents), l.Size, l.Size)
	}

	pool := p.Words()
	r.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})

	cards := make([]codenames.Card, cells)
	for i := range cards {
		cards[i] = codenames.Card{
			Codename: pool[i],
			Agent:    l.Agents[i],
			Row:      i / l.Size,
			Col:      i % l.Size,
		}
	}

	remaining := make([]string, len(pool)-cells)
	copy(remaining, pool[cells:])

	return &codenames.Board{Size: l.Size, Cards: cards}, remaining, nil
}

// Substitute swaps the given word on the board for one of the remaining
// words. Only the codename changes; the card keeps its agent and position.
// The shortened list of remaining words is returned.
func Substitute(b *codenames.Board, remaining []string, word string) ([]string, error) {
	idx := b.Index(word)
	if idx < 0 {
		return remaining, fmt.Errorf("%q: %w", word, codenames.ErrWordNotFound)
	}
	if len(remaining) == 0 {
		return remaining, codenames.ErrSubstitutionExhausted
	}

	last := len(remaining) - 1
	b.Cards[idx].Codename = remaining[last]
	return remaining[:last], nil
}
