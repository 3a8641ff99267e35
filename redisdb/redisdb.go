// Package redisdb stores game history in Redis.
package redisdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "codenames"
	// gamesIndexKey is a sorted set of game IDs, scored by finish time.
	gamesIndexKey = keyPrefix + ":idx:games"
)

func gameKey(id codenames.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// Config holds Redis connection settings.
type Config struct {
	// URL is the Redis connection URL (e.g., redis://localhost:6379)
	URL string
	// Timeout bounds every call to Redis.
	Timeout time.Duration
	// TTL, if non-zero, expires game records after the given duration.
	TTL time.Duration
}

// DefaultConfig returns sensible defaults for Redis configuration.
func DefaultConfig() Config {
	return Config{
		URL:     "redis://localhost:6379",
		Timeout: 5 * time.Second,
	}
}

// DB implements codenames.DB on top of Redis.
type DB struct {
	client *redis.Client
	cfg    Config
}

// New connects to Redis and verifies the connection.
func New(cfg Config) (*DB, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL %q: %w", cfg.URL, err)
	}

	client := redis.NewClient(opts)
	db := NewWithClient(client, cfg)

	ctx, cancel := db.ctx()
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach redis: %w", err)
	}

	return db, nil
}

// NewWithClient creates a DB with an existing client.
func NewWithClient(client *redis.Client, cfg Config) *DB {
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &DB{client: client, cfg: cfg}
}

func (db *DB) Close() error {
	return db.client.Close()
}

func (db *DB) ctx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), db.cfg.Timeout)
}

func (db *DB) RecordGame(gr *codenames.GameRecord) (codenames.GameID, error) {
	gc := gr.Clone()
	if gc.ID == "" {
		gc.ID = codenames.GameID(uuid.NewString())
	}

	data, err := json.Marshal(gc)
	if err != nil {
		return "", err
	}

	ctx, cancel := db.ctx()
	defer cancel()

	ok, err := db.client.SetNX(ctx, gameKey(gc.ID), data, db.cfg.TTL).Result()
	if err != nil {
		return "", fmt.Errorf("failed to record game %q: %w", gc.ID, err)
	}
	if !ok {
		return "", fmt.Errorf("game %q has already been recorded", gc.ID)
	}

	err = db.client.ZAdd(ctx, gamesIndexKey, redis.Z{
		Score:  float64(gc.FinishedAt.Unix()),
		Member: string(gc.ID),
	}).Err()
	if err != nil {
		return "", fmt.Errorf("failed to index game %q: %w", gc.ID, err)
	}

	return gc.ID, nil
}

func (db *DB) Game(gID codenames.GameID) (*codenames.GameRecord, error) {
	ctx, cancel := db.ctx()
	defer cancel()
	return db.game(ctx, gID)
}

func (db *DB) game(ctx context.Context, gID codenames.GameID) (*codenames.GameRecord, error) {
	data, err := db.client.Get(ctx, gameKey(gID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, codenames.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}

	var gr codenames.GameRecord
	if err := json.Unmarshal(data, &gr); err != nil {
		return nil, fmt.Errorf("malformed game %q: %w", gID, err)
	}
	return &gr, nil
}

func (db *DB) Games() ([]*codenames.GameRecord, error) {
	ctx, cancel := db.ctx()
	defer cancel()

	ids, err := db.client.ZRevRange(ctx, gamesIndexKey, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}

	var out []*codenames.GameRecord
	for _, id := range ids {
		gr, err := db.game(ctx, codenames.GameID(id))
		if errors.Is(err, codenames.ErrGameNotFound) {
			// Expired, drop it from the index.
			db.client.ZRem(ctx, gamesIndexKey, id)
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, gr)
	}
	return out, nil
}
