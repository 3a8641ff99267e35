package codenames

import (
	"errors"
	"time"
)

var ErrGameNotFound = errors.New("codenames: game not found")

type GameID string

// GameRecord is what we keep around about a finished game.
type GameRecord struct {
	ID         GameID `json:"id"`
	Size       int    `json:"size"`
	FirstMover Team   `json:"first_mover"`
	Result     Result `json:"result"`
	// Winner is NoTeam when the game ended on the assassin.
	Winner        Team      `json:"winner"`
	Reveals       int       `json:"reveals"`
	Substitutions int       `json:"substitutions"`
	StartedAt     time.Time `json:"started_at"`
	FinishedAt    time.Time `json:"finished_at"`
}

func (gr *GameRecord) Clone() *GameRecord {
	out := *gr
	return &out
}

// DB stores the history of played games.
type DB interface {
	RecordGame(*GameRecord) (GameID, error)
	Game(GameID) (*GameRecord, error)
	// Games returns every recorded game, most recently finished first.
	Games() ([]*GameRecord, error)
}
