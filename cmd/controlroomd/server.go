package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/gofrs/flock"
	"gopkg.in/natefinch/lumberjack.v2"
	_ "modernc.org/sqlite"

	v1 "github.com/vmunix/controlroom/internal/api/v1"
	"github.com/vmunix/controlroom/internal/auth"
	"github.com/vmunix/controlroom/internal/config"
	"github.com/vmunix/controlroom/internal/diary"
	"github.com/vmunix/controlroom/internal/events"
	"github.com/vmunix/controlroom/internal/finance"
	"github.com/vmunix/controlroom/internal/library"
	"github.com/vmunix/controlroom/internal/mediasync"
	"github.com/vmunix/controlroom/internal/migrations"
	"github.com/vmunix/controlroom/internal/notes"
	"github.com/vmunix/controlroom/internal/plex"
	"github.com/vmunix/controlroom/internal/server"
)

// errLocked is returned when another daemon already owns the database.
var errLocked = errors.New("database is in use by another controlroomd")

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// newLogger writes to stdout and, when file is set, to a rotated log file.
func newLogger(level, file string) (*slog.Logger, func()) {
	var out io.Writer = os.Stdout
	closeFn := func() {}
	if file != "" {
		lj := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    20, // megabytes
			MaxBackups: 5,
			MaxAge:     28, // days
			Compress:   true,
		}
		out = io.MultiWriter(os.Stdout, lj)
		closeFn = func() { _ = lj.Close() }
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: parseLogLevel(level)})), closeFn
}

func openDatabase(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", library.DSN(path))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(migrations.InitialSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}
	return db, nil
}

// lockDatabase takes an exclusive lock next to the database file.
func lockDatabase(dbPath string) (*flock.Flock, error) {
	lock := flock.New(dbPath + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock database: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s", errLocked, lock.Path())
	}
	return lock, nil
}

func syncConfig(p *config.PlexConfig) mediasync.Config {
	return mediasync.Config{Timeout: p.SyncTimeout, MovieSection: p.MovieSection}
}

// buildDeps wires stores, auth and the optional Plex sync into API dependencies.
func buildDeps(cfg *config.Config, db *sql.DB, bus *events.Bus, eventLog *events.EventLog, logger *slog.Logger) (v1.ServerDeps, error) {
	tokens, err := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.SessionTTL)
	if err != nil {
		return v1.ServerDeps{}, fmt.Errorf("auth: %w", err)
	}

	libraryStore := library.NewStore(db)
	deps := v1.ServerDeps{
		Library:  libraryStore,
		Accounts: auth.NewService(auth.NewUserStore(db), tokens, auth.Options{BcryptCost: cfg.Auth.BcryptCost}, logger),
		Auth:     auth.NewAuthenticator(tokens, cfg.Auth.CookieName, cfg.Auth.SecureCookie, logger),
		Diary:    diary.NewStore(db),
		Notes:    notes.NewStore(db),
		Finance:  finance.NewStore(db),
		EventLog: eventLog,
		Registry: events.DefaultRegistry(),
	}

	if cfg.Plex == nil {
		logger.Info("plex not configured, sync disabled")
		return deps, nil
	}

	client, err := plex.NewClient(plex.Options{
		URL:               cfg.Plex.URL,
		Token:             cfg.Plex.Token,
		ClientIdentifier:  cfg.Plex.ClientIdentifier,
		Languages:         cfg.Plex.Languages,
		RequestTimeout:    cfg.Plex.RequestTimeout,
		DetailConcurrency: cfg.Plex.DetailConcurrency,
	}, logger)
	if err != nil {
		return v1.ServerDeps{}, fmt.Errorf("plex: %w", err)
	}
	deps.Plex = client
	deps.Syncer = mediasync.New(client, libraryStore, bus, syncConfig(cfg.Plex), logger)
	logger.Info("plex configured", "url", cfg.Plex.URL)

	return deps, nil
}

func runServer(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	logger, closeLog := newLogger(cfg.Server.LogLevel, cfg.Server.LogFile)
	defer closeLog()

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0755); err != nil {
		return fmt.Errorf("create database dir: %w", err)
	}

	lock, err := lockDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Unlock() }()

	db, err := openDatabase(cfg.Database.Path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	eventLog := events.NewEventLog(db)
	bus := events.NewBus(eventLog, logger)
	defer func() { _ = bus.Close() }()

	deps, err := buildDeps(cfg, db, bus, eventLog, logger)
	if err != nil {
		return err
	}

	api, err := v1.New(deps, logger)
	if err != nil {
		return fmt.Errorf("api: %w", err)
	}

	runner := server.NewRunner(server.Config{
		Addr:           net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		EventRetention: cfg.Server.EventRetention,
	}, api.Handler(), bus, eventLog, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("controlroomd starting", "version", version, "config", configPath, "database", cfg.Database.Path)
	if err := runner.Run(ctx); err != nil {
		return err
	}
	logger.Info("controlroomd stopped")
	return nil
}
