package sqldb

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/google/uuid"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id            TEXT PRIMARY KEY,
	size          INTEGER NOT NULL,
	first_mover   INTEGER NOT NULL,
	result        TEXT NOT NULL,
	winner        INTEGER NOT NULL,
	reveals       INTEGER NOT NULL,
	substitutions INTEGER NOT NULL,
	started_at    INTEGER NOT NULL,
	finished_at   INTEGER NOT NULL
)`

// DB implements codenames.DB, backed by a SQLite database.
// NOTE: Since the database doesn't support concurrent writers, we don't
// actually hold the *sql.DB in this struct, we force all callers to get a
// handle via channels.
type DB struct {
	dbChan   chan func(*sql.DB)
	doneChan chan struct{}
}

// New creates a new *DB that is stored on disk at the given filename.
func New(fn string) (*DB, error) {
	sdb, err := sql.Open("sqlite3", fn)
	if err != nil {
		return nil, err
	}
	sdb.SetMaxOpenConns(1)

	if _, err := sdb.Exec(schema); err != nil {
		sdb.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	db := &DB{
		dbChan:   make(chan func(*sql.DB)),
		doneChan: make(chan struct{}),
	}
	go db.run(sdb)
	return db, nil
}

// run handles all database calls, and ensures that only one thing is happening
// against the database at a time.
func (s *DB) run(sdb *sql.DB) {
	for {
		select {
		case dbFn := <-s.dbChan:
			dbFn(sdb)
		case <-s.doneChan:
			sdb.Close()
			return
		}
	}
}

// do runs fn on the database goroutine and waits for it to finish.
func (s *DB) do(fn func(*sql.DB) error) error {
	errC := make(chan error, 1)
	select {
	case s.dbChan <- func(sdb *sql.DB) { errC <- fn(sdb) }:
	case <-s.doneChan:
		return errors.New("database is closed")
	}
	return <-errC
}

func (s *DB) Close() error {
	close(s.doneChan)
	return nil
}

func (s *DB) RecordGame(gr *codenames.GameRecord) (codenames.GameID, error) {
	id := gr.ID
	if id == "" {
		id = codenames.GameID(uuid.NewString())
	}

	err := s.do(func(sdb *sql.DB) error {
		_, err := sdb.Exec(`INSERT INTO games
			(id, size, first_mover, result, winner, reveals, substitutions, started_at, finished_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			string(id), gr.Size, int(gr.FirstMover), string(gr.Result), int(gr.Winner),
			gr.Reveals, gr.Substitutions, gr.StartedAt.UnixNano(), gr.FinishedAt.UnixNano())
		return err
	})
	if err != nil {
		return "", fmt.Errorf("failed to record game %q: %w", id, err)
	}
	return id, nil
}

func (s *DB) Game(gID codenames.GameID) (*codenames.GameRecord, error) {
	var gr *codenames.GameRecord
	err := s.do(func(sdb *sql.DB) error {
		row := sdb.QueryRow(`SELECT
			id, size, first_mover, result, winner, reveals, substitutions, started_at, finished_at
			FROM games WHERE id = ?`, string(gID))
		var err error
		gr, err = scanGame(row)
		return err
	})
	if errors.Is(err, sql.ErrNoRows) {
		return nil, codenames.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load game %q: %w", gID, err)
	}
	return gr, nil
}

func (s *DB) Games() ([]*codenames.GameRecord, error) {
	var out []*codenames.GameRecord
	err := s.do(func(sdb *sql.DB) error {
		rows, err := sdb.Query(`SELECT
			id, size, first_mover, result, winner, reveals, substitutions, started_at, finished_at
			FROM games ORDER BY finished_at DESC, id DESC`)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			gr, err := scanGame(rows)
			if err != nil {
				return err
			}
			out = append(out, gr)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load games: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(sc scanner) (*codenames.GameRecord, error) {
	var (
		gr                  codenames.GameRecord
		id, result          string
		firstMover, winner  int
		startedAt, finished int64
	)
	if err := sc.Scan(&id, &gr.Size, &firstMover, &result, &winner, &gr.Reveals, &gr.Substitutions, &startedAt, &finished); err != nil {
		return nil, err
	}
	gr.ID = codenames.GameID(id)
	gr.FirstMover = codenames.Team(firstMover)
	gr.Result = codenames.Result(result)
	gr.Winner = codenames.Team(winner)
	gr.StartedAt = time.Unix(0, startedAt).UTC()
	gr.FinishedAt = time.Unix(0, finished).UTC()
	return &gr, nil
}
