package redisdb

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	codenames "github.com/bcspragu/codenames-table"
)

type DBSuite struct {
	suite.Suite
	mini *miniredis.Miniredis
	db   *DB
}

func TestDBSuite(t *testing.T) {
	suite.Run(t, new(DBSuite))
}

func (s *DBSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})
	s.db = NewWithClient(client, DefaultConfig())
}

func (s *DBSuite) TearDownTest() {
	if s.db != nil {
		_ = s.db.Close()
	}
}

func record(id codenames.GameID, finished time.Time) *codenames.GameRecord {
	return &codenames.GameRecord{
		ID:         id,
		Size:       5,
		FirstMover: codenames.RedTeam,
		Result:     codenames.Assassinated,
		Reveals:    4,
		StartedAt:  finished.Add(-time.Minute),
		FinishedAt: finished,
	}
}

func (s *DBSuite) TestRecordAndLoad() {
	gr := record("g1", time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC))

	id, err := s.db.RecordGame(gr)
	s.Require().NoError(err)
	s.Equal(codenames.GameID("g1"), id)

	got, err := s.db.Game(id)
	s.Require().NoError(err)
	s.Equal(gr.Result, got.Result)
	s.Equal(gr.FirstMover, got.FirstMover)
	s.Equal(gr.Reveals, got.Reveals)
	s.True(gr.FinishedAt.Equal(got.FinishedAt))

	s.True(s.mini.Exists(gameKey("g1")))
}

func (s *DBSuite) TestRecordGeneratesID() {
	id, err := s.db.RecordGame(record("", time.Now()))
	s.Require().NoError(err)
	s.NotEmpty(id)
}

func (s *DBSuite) TestDuplicateID() {
	_, err := s.db.RecordGame(record("same", time.Now()))
	s.Require().NoError(err)

	_, err = s.db.RecordGame(record("same", time.Now()))
	s.Error(err)
}

func (s *DBSuite) TestGameNotFound() {
	_, err := s.db.Game("missing")
	s.ErrorIs(err, codenames.ErrGameNotFound)
}

func (s *DBSuite) TestGamesNewestFirst() {
	base := time.Date(2022, 3, 4, 5, 6, 7, 0, time.UTC)
	_, err := s.db.RecordGame(record("a", base))
	s.Require().NoError(err)
	_, err = s.db.RecordGame(record("c", base.Add(2*time.Hour)))
	s.Require().NoError(err)
	_, err = s.db.RecordGame(record("b", base.Add(time.Hour)))
	s.Require().NoError(err)

	games, err := s.db.Games()
	s.Require().NoError(err)

	var ids []codenames.GameID
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	s.Equal([]codenames.GameID{"c", "b", "a"}, ids)
}

func (s *DBSuite) TestGamesSkipsExpired() {
	s.db.cfg.TTL = time.Minute
	_, err := s.db.RecordGame(record("short", time.Now()))
	s.Require().NoError(err)

	s.mini.FastForward(2 * time.Minute)

	games, err := s.db.Games()
	s.Require().NoError(err)
	s.Empty(games)
}
