// Command codenames runs a game of Codenames for people sitting around the
// same table. The board is served to a browser, the legend goes to the
// spymasters by e-mail or is printed to the terminal.
package main

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	codenames "github.com/bcspragu/codenames-table"
	"github.com/bcspragu/codenames-table/boardgen"
	"github.com/bcspragu/codenames-table/cryptorand"
	"github.com/bcspragu/codenames-table/game"
	"github.com/bcspragu/codenames-table/hub"
	cio "github.com/bcspragu/codenames-table/io"
	"github.com/bcspragu/codenames-table/legend"
	"github.com/bcspragu/codenames-table/mailer"
	"github.com/bcspragu/codenames-table/memdb"
	"github.com/bcspragu/codenames-table/redisdb"
	"github.com/bcspragu/codenames-table/sqldb"
	"github.com/bcspragu/codenames-table/web"
	"github.com/bcspragu/codenames-table/words"
	"github.com/gorilla/securecookie"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	// A missing .env is fine, everything can come from the real environment.
	_ = godotenv.Load()
	cfg := defaultConfig()

	cmd := &cobra.Command{
		Use:   "codenames SIZE WORDS_FILE",
		Short: "Run a game of Codenames for the people around the table",
		Long: `codenames deals a SIZE x SIZE board from the words in WORDS_FILE and
serves it to a browser. The legend is e-mailed to the --codemasters, or
printed to the terminal if none are given.

E-mail credentials are read from EMAIL_ADDR and EMAIL_PW, optionally from a
.env file.`,
		Args: cobra.ExactArgs(2),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cfg.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			size, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid size %q: %w", args[0], err)
			}

			var r *rand.Rand
			if cmd.Flags().Changed("seed") {
				r = rand.New(rand.NewSource(cfg.Seed))
			} else {
				r = cryptorand.New()
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cfg, size, args[1], r)
		},
		SilenceUsage: true,
	}

	cmd.Flags().IntVar(&cfg.Height, "height", cfg.Height, "Height of the word buttons, 2 to 7")
	cmd.Flags().IntVar(&cfg.Width, "width", cfg.Width, "Width of the word buttons, 15 to 29")
	cmd.Flags().StringSliceVar(&cfg.Codemasters, "codemasters", nil, "E-mail addresses to send the legend to")
	cmd.Flags().StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP service address (env: CODENAMES_ADDR)")
	cmd.Flags().Int64Var(&cfg.Seed, "seed", 0, "Seed for a reproducible board, random if unset")
	cmd.Flags().StringVar(&cfg.History, "history", cfg.History, "Where to keep finished games: memory, sqlite or redis")
	cmd.Flags().StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Path to the SQLite DB file, for --history=sqlite")
	cmd.Flags().StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL, for --history=redis (env: REDIS_URL)")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (env: LOG_LEVEL)")

	return cmd
}

func setupLogging(level string) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	return nil
}

func run(ctx context.Context, cfg *Config, size int, wordsFile string, r *rand.Rand) error {
	pool, err := words.LoadFile(wordsFile)
	if err != nil {
		return err
	}
	if err := boardgen.CheckVocabulary(pool, size); err != nil {
		return err
	}

	l, err := boardgen.NewLegend(size, r)
	if err != nil {
		return err
	}
	b, remaining, err := boardgen.Assign(pool, l, r)
	if err != nil {
		return err
	}

	g, err := game.New(l, b, remaining, &game.Config{OnChange: logChange})
	if err != nil {
		return err
	}

	if len(cfg.Codemasters) > 0 {
		sendLegend(ctx, cfg, l)
	} else {
		cio.PrintLegend(os.Stdout, l)
	}

	db, closeDB, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	sc := securecookie.New(securecookie.GenerateRandomKey(32), securecookie.GenerateRandomKey(32))
	key := hex.EncodeToString(securecookie.GenerateRandomKey(16))

	h := hub.New()
	defer h.Close()

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.New(g, db, h, sc, &web.Config{
			ButtonHeight: cfg.Height,
			ButtonWidth:  cfg.Width,
			SpymasterKey: key,
		}),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.ListenAndServe()
	}()

	fmt.Printf("Board: http://%s/\n", cfg.Addr)
	fmt.Printf("Spymasters: http://%s/spymaster?key=%s\n", cfg.Addr, key)

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("failed to serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func logChange(gs *codenames.GameState) {
	log.Info().Str("phase", string(gs.Phase)).Msg(cio.ScoreLine(gs))
	if gs.Phase == codenames.PhaseFinished {
		cio.PrintBoard(os.Stdout, gs, true)
	}
}

// sendLegend e-mails the legend image to the codemasters. The image is
// removed afterwards either way, and a failure doesn't stop the game.
func sendLegend(ctx context.Context, cfg *Config, l *codenames.Legend) {
	if err := legend.ExportFile(legend.DefaultFile, l); err != nil {
		log.Error().Err(err).Msg("failed to export legend")
		return
	}
	defer func() {
		if err := os.Remove(legend.DefaultFile); err != nil {
			log.Warn().Err(err).Msg("failed to remove legend file")
		}
	}()

	m, err := mailer.New(cfg.Mail)
	if err != nil {
		log.Error().Err(err).Msg("can't send the legend")
		return
	}

	sendCtx, cancel := context.WithTimeout(ctx, time.Minute)
	defer cancel()
	if err := m.SendLegend(sendCtx, cfg.Codemasters, legend.DefaultFile); err != nil {
		log.Error().Err(err).Strs("to", cfg.Codemasters).Msg("failed to send legend")
	}
}

func openHistory(cfg *Config) (codenames.DB, func(), error) {
	switch cfg.History {
	case "sqlite":
		db, err := sqldb.New(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize datastore: %w", err)
		}
		return db, closer(db.Close), nil
	case "redis":
		rcfg := redisdb.DefaultConfig()
		rcfg.URL = cfg.RedisURL
		db, err := redisdb.New(rcfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize datastore: %w", err)
		}
		return db, closer(db.Close), nil
	default:
		return memdb.New(), func() {}, nil
	}
}

func closer(fn func() error) func() {
	return func() {
		if err := fn(); err != nil {
			log.Warn().Err(err).Msg("failed to close history")
		}
	}
}
