package boardgen

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/bcspragu/codenames-table/words"
	"github.com/google/go-cmp/cmp"
)

func TestNewLegend(t *testing.T) {
	for size := 3; size <= 8; size++ {
		for seed := int64(0); seed < 10; seed++ {
			t.Run(fmt.Sprintf("size %d seed %d", size, seed), func(t *testing.T) {
				l, err := NewLegend(size, rand.New(rand.NewSource(seed)))
				if err != nil {
					t.Fatalf("NewLegend: %v", err)
				}

				if len(l.Agents) != size*size {
					t.Fatalf("got %d agents, want %d", len(l.Agents), size*size)
				}

				first := 3 * (size - 2)
				want := map[codenames.Agent]int{
					l.FirstMover.Agent():         first,
					l.FirstMover.Other().Agent(): first - 1,
					codenames.Bystander:          size*size - 2*first,
					codenames.Assassin:           1,
				}
				if diff := cmp.Diff(want, l.Counts()); diff != "" {
					t.Errorf("unexpected agent counts (-want +got)\n%s", diff)
				}

				score := l.Score()
				if got := score.Total(); got != 2*first-1 {
					t.Errorf("initial score total = %d, want %d", got, 2*first-1)
				}
				if got := score.Remaining(l.FirstMover); got != first {
					t.Errorf("first mover has %d cards, want %d", got, first)
				}
			})
		}
	}
}

func TestNewLegendInvalidSize(t *testing.T) {
	for _, size := range []int{-1, 0, 1, 2, codenames.MaxSize + 1, 3037000500} {
		if _, err := NewLegend(size, rand.New(rand.NewSource(0))); !errors.Is(err, codenames.ErrInvalidSize) {
			t.Errorf("NewLegend(%d) = %v, want ErrInvalidSize", size, err)
		}
	}
}

func TestCheckVocabulary(t *testing.T) {
	tests := []struct {
		size    int
		words   int
		wantErr error
	}{
		{size: 5, words: 25},
		{size: 5, words: 24, wantErr: codenames.ErrInsufficientVocabulary},
		{size: 2, words: 25, wantErr: codenames.ErrInvalidSize},
		// Way too big to allocate, must be caught before anything is built.
		{size: 3037000500, words: 25, wantErr: codenames.ErrInvalidSize},
		{size: codenames.MaxSize, words: 25, wantErr: codenames.ErrInsufficientVocabulary},
	}

	for _, test := range tests {
		err := CheckVocabulary(testPool(test.words), test.size)
		if test.wantErr == nil && err != nil {
			t.Errorf("CheckVocabulary(%d words, size %d): %v", test.words, test.size, err)
		}
		if test.wantErr != nil && !errors.Is(err, test.wantErr) {
			t.Errorf("CheckVocabulary(%d words, size %d) = %v, want %v", test.words, test.size, err, test.wantErr)
		}
	}
}

func TestNewLegendPicksBothStarters(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	seen := make(map[codenames.Team]bool)
	for i := 0; i < 100; i++ {
		l, err := NewLegend(5, r)
		if err != nil {
			t.Fatalf("NewLegend: %v", err)
		}
		seen[l.FirstMover] = true
	}
	if !seen[codenames.RedTeam] || !seen[codenames.BlueTeam] {
		t.Errorf("expected both teams to go first at some point, got %v", seen)
	}
}

func TestNewLegendDeterministic(t *testing.T) {
	a, err := NewLegend(5, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewLegend: %v", err)
	}
	b, err := NewLegend(5, rand.New(rand.NewSource(42)))
	if err != nil {
		t.Fatalf("NewLegend: %v", err)
	}
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed gave different legends (-first +second)\n%s", diff)
	}
}

func TestAssign(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	l, err := NewLegend(5, r)
	if err != nil {
		t.Fatalf("NewLegend: %v", err)
	}

	p := testPool(40)
	b, remaining, err := Assign(p, l, r)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	if len(b.Cards) != 25 {
		t.Fatalf("got %d cards, want 25", len(b.Cards))
	}
	if len(remaining) != 15 {
		t.Errorf("got %d remaining words, want 15", len(remaining))
	}

	seen := make(map[string]bool)
	for i, c := range b.Cards {
		if seen[c.Codename] {
			t.Errorf("word %q assigned twice", c.Codename)
		}
		seen[c.Codename] = true

		if c.Agent != l.Agents[i] {
			t.Errorf("card %d has agent %v, legend says %v", i, c.Agent, l.Agents[i])
		}
		if c.Row != i/5 || c.Col != i%5 {
			t.Errorf("card %d at (%d, %d), want (%d, %d)", i, c.Row, c.Col, i/5, i%5)
		}
		if c.Revealed {
			t.Errorf("card %d starts revealed", i)
		}
	}
	for _, w := range remaining {
		if seen[w] {
			t.Errorf("word %q is both on the board and remaining", w)
		}
		seen[w] = true
	}
	if len(seen) != p.Len() {
		t.Errorf("board and remaining cover %d words, pool has %d", len(seen), p.Len())
	}
	for w := range seen {
		if !p.Contains(w) {
			t.Errorf("word %q didn't come from the pool", w)
		}
	}
}

func TestAssignInsufficientVocabulary(t *testing.T) {
	r := rand.New(rand.NewSource(0))
	l, err := NewLegend(5, r)
	if err != nil {
		t.Fatalf("NewLegend: %v", err)
	}

	if _, _, err := Assign(testPool(24), l, r); !errors.Is(err, codenames.ErrInsufficientVocabulary) {
		t.Errorf("Assign = %v, want ErrInsufficientVocabulary", err)
	}

	// Exactly enough is fine, with nothing left over.
	_, remaining, err := Assign(testPool(25), l, r)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}
	if len(remaining) != 0 {
		t.Errorf("got %d remaining words, want 0", len(remaining))
	}
}

func TestSubstitute(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	l, err := NewLegend(3, r)
	if err != nil {
		t.Fatalf("NewLegend: %v", err)
	}
	b, remaining, err := Assign(testPool(11), l, r)
	if err != nil {
		t.Fatalf("Assign: %v", err)
	}

	target := b.Cards[4]
	for n := len(remaining); n > 0; n-- {
		cur := b.Cards[4].Codename
		remaining, err = Substitute(b, remaining, cur)
		if err != nil {
			t.Fatalf("Substitute(%q): %v", cur, err)
		}
		if len(remaining) != n-1 {
			t.Errorf("got %d remaining words, want %d", len(remaining), n-1)
		}

		got := b.Cards[4]
		if got.Codename == cur {
			t.Errorf("word %q wasn't replaced", cur)
		}
		if got.Agent != target.Agent || got.Row != target.Row || got.Col != target.Col {
			t.Errorf("substitution changed card from %+v to %+v", target, got)
		}
	}

	before := b.Clone()
	if _, err := Substitute(b, remaining, b.Cards[0].Codename); !errors.Is(err, codenames.ErrSubstitutionExhausted) {
		t.Errorf("Substitute = %v, want ErrSubstitutionExhausted", err)
	}
	if diff := cmp.Diff(before, b); diff != "" {
		t.Errorf("exhausted substitution changed the board (-want +got)\n%s", diff)
	}
}

func TestSubstituteUnknownWord(t *testing.T) {
	b := &codenames.Board{Size: 1, Cards: []codenames.Card{{Codename: "APPLE"}}}
	if _, err := Substitute(b, []string{"PEAR"}, "BANANA"); !errors.Is(err, codenames.ErrWordNotFound) {
		t.Errorf("Substitute = %v, want ErrWordNotFound", err)
	}

	// Lookups ignore case.
	remaining, err := Substitute(b, []string{"PEAR"}, "apple")
	if err != nil {
		t.Fatalf("Substitute: %v", err)
	}
	if b.Cards[0].Codename != "PEAR" || len(remaining) != 0 {
		t.Errorf("got card %+v and remaining %v", b.Cards[0], remaining)
	}
}

// testPool returns a pool of n distinct words.
func testPool(n int) *words.Pool {
	var ws []string
	for i := 0; i < n; i++ {
		ws = append(ws, word(i))
	}
	return words.New(ws...)
}

// word spells out i in letters, since pool words can't contain digits.
func word(i int) string {
	w := []byte("WORD")
	for {
		w = append(w, byte('A'+i%26))
		i /= 26
		if i == 0 {
			return string(w)
		}
	}
}
