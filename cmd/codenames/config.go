package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bcspragu/codenames-table/mailer"
	"github.com/bcspragu/codenames-table/redisdb"
)

// Config holds everything the table needs to run, from flags and the
// environment.
type Config struct {
	// Button size on the board page.
	Height int
	Width  int

	// Codemasters get the legend by e-mail instead of having it printed.
	Codemasters []string

	Addr     string
	Seed     int64
	LogLevel string

	// History is one of "memory", "sqlite" or "redis".
	History  string
	DBPath   string
	RedisURL string

	Mail mailer.Config
}

func defaultConfig() *Config {
	return &Config{
		Height:   3,
		Width:    15,
		Addr:     getEnvOrDefault("CODENAMES_ADDR", "localhost:8080"),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		History:  "memory",
		DBPath:   "codenames.db",
		RedisURL: getEnvOrDefault("REDIS_URL", redisdb.DefaultConfig().URL),
		Mail: mailer.Config{
			Host:     getEnvOrDefault("SMTP_HOST", mailer.DefaultHost),
			Port:     getEnvIntOrDefault("SMTP_PORT", mailer.DefaultPort),
			Addr:     os.Getenv("EMAIL_ADDR"),
			Password: os.Getenv("EMAIL_PW"),
		},
	}
}

func (c *Config) validate() error {
	if c.Height < 2 || c.Height > 7 {
		return fmt.Errorf("--height must be between 2 and 7, got %d", c.Height)
	}
	if c.Width < 15 || c.Width > 29 {
		return fmt.Errorf("--width must be between 15 and 29, got %d", c.Width)
	}
	switch c.History {
	case "memory", "sqlite", "redis":
	default:
		return fmt.Errorf("unknown --history %q, want memory, sqlite or redis", c.History)
	}
	return nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvIntOrDefault(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
