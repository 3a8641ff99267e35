package memdb

import (
	"fmt"
	"sort"
	"sync"

	codenames "github.com/bcspragu/codenames-table"
)

// DB is an in-memory implementation of codenames.DB. History is lost when the
// process exits.
type DB struct {
	mu    sync.Mutex
	ids   int
	games map[codenames.GameID]*codenames.GameRecord
}

func New() *DB {
	return &DB{
		games: make(map[codenames.GameID]*codenames.GameRecord),
	}
}

func (db *DB) RecordGame(gr *codenames.GameRecord) (codenames.GameID, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	gc := gr.Clone()
	if gc.ID == "" {
		gc.ID = codenames.GameID(fmt.Sprintf("game_%d", db.ids))
		db.ids++
	}
	if _, ok := db.games[gc.ID]; ok {
		return "", fmt.Errorf("game %q has already been recorded", gc.ID)
	}
	db.games[gc.ID] = gc

	return gc.ID, nil
}

func (db *DB) Game(gID codenames.GameID) (*codenames.GameRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	g, ok := db.games[gID]
	if !ok {
		return nil, codenames.ErrGameNotFound
	}

	return g.Clone(), nil
}

func (db *DB) Games() ([]*codenames.GameRecord, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	out := make([]*codenames.GameRecord, 0, len(db.games))
	for _, g := range db.games {
		out = append(out, g.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FinishedAt.Equal(out[j].FinishedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].FinishedAt.After(out[j].FinishedAt)
	})
	return out, nil
}
