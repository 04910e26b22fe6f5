package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"raven_news/internal/config"
	"raven_news/internal/db"
	"raven_news/internal/fetcher"
	"raven_news/internal/ingest"
	"raven_news/internal/logger"
	"raven_news/internal/server"

	"github.com/joho/godotenv"
)

const usage = `raven-news: financial news RSS ingestion

Usage:
  raven-news fetch-once [-config PATH]   Fetch all active feeds once and insert into the database
  raven-news run [-config PATH]          Run the continuous ingestion loop and the ops HTTP server
  raven-news stats total                 Print the total number of stored items
  raven-news stats daily                 Print the number of items published today
  raven-news stats source NAME           Print the number of stored items for one source

DATABASE_URL selects the PostgreSQL instance; a .env file is honoured.
Feeds and intervals come from the config file (default config.json), or the
built-in catalogue when the file is absent.
`

func main() {
	godotenv.Load()
	logger.Init()

	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Print(usage)
		return
	}

	defer logger.Log.Info("Application stopped")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		logger.Log.Fatal("DATABASE_URL must be set")
	}

	database, err := db.NewDB(ctx, connString)
	if err != nil {
		logger.Log.Fatalf("DB connection error: %v", err)
	}
	defer database.Close()

	if err := database.Ensure(ctx); err != nil {
		logger.Log.Fatalf("Schema bootstrap error: %v", err)
	}

	switch args[0] {
	case "fetch-once":
		if err := fetchOnce(ctx, database, args[1:]); err != nil {
			logger.Log.Fatalf("Snapshot error: %v", err)
		}
	case "run":
		if err := run(ctx, database, args[1:]); err != nil {
			logger.Log.Fatalf("Run error: %v", err)
		}
	case "stats":
		if err := stats(ctx, database, args[1:]); err != nil {
			logger.Log.Fatalf("Stats error: %v", err)
		}
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
}

// loadConfig parses the subcommand's -config flag and reads the file it
// names, falling back to the built-in catalogue when the default file does
// not exist.
func loadConfig(name string, args []string) (*config.Config, error) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	path := fs.String("config", "config.json", "path to the feed catalogue")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfig(*path)
	switch {
	case errors.Is(err, os.ErrNotExist) && *path == "config.json":
		logger.Log.Info("No config.json found, using built-in feed catalogue")
		cfg = config.Default()
	case err != nil:
		return nil, fmt.Errorf("config load error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation error: %w", err)
	}
	return cfg, nil
}

func newScheduler(cfg *config.Config, database *db.Database) (*ingest.Scheduler, error) {
	f := fetcher.New(cfg.Timeout())
	return ingest.NewScheduler(database, f.Fetch, cfg.ActiveFeeds(), cfg.Interval(), cfg.Timeout())
}

// fetchOnce runs a single ingestion tick and prints the outcome. It fails
// only when no feed produced anything, that is when every unit errored.
func fetchOnce(ctx context.Context, database *db.Database, args []string) error {
	cfg, err := loadConfig("fetch-once", args)
	if err != nil {
		return err
	}
	sched, err := newScheduler(cfg, database)
	if err != nil {
		return err
	}

	report, _ := sched.RunOnce(ctx)
	fmt.Printf("Inserted %d new items (%d duplicates, %d entries skipped, %d failed feeds)\n",
		report.Inserted(), report.Duplicates(), report.Skipped(), report.Failed())

	if n := len(report.Units); n > 0 && report.Failed() == n {
		return fmt.Errorf("all %d feeds failed", n)
	}
	return nil
}

// run starts the scheduler and the ops HTTP server, then blocks until SIGINT
// or SIGTERM. The in-flight tick drains before the process exits.
func run(ctx context.Context, database *db.Database, args []string) error {
	cfg, err := loadConfig("run", args)
	if err != nil {
		return err
	}
	sched, err := newScheduler(cfg, database)
	if err != nil {
		return err
	}
	if err := sched.Start(); err != nil {
		return err
	}

	var httpServer *http.Server
	if cfg.ListenAddr != "" {
		srv := server.NewServer(database)
		httpServer = &http.Server{Addr: cfg.ListenAddr, Handler: srv.Handler()}
		go func() {
			logger.Log.Infof("Starting HTTP server on %s", cfg.ListenAddr)
			if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
				logger.Log.Fatalf("Server error: %v", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down...")
	sched.Stop()

	if httpServer == nil {
		return nil
	}
	ctxShutdown, cancelShutdown := context.WithTimeout(ctx, 5*time.Second)
	defer cancelShutdown()
	return httpServer.Shutdown(ctxShutdown)
}

// stats prints one counter per invocation, mirroring the HTTP stats surface.
func stats(ctx context.Context, database *db.Database, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: raven-news stats total|daily|source NAME")
	}

	switch args[0] {
	case "total":
		cnt, err := database.CountTotal(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Total RSS items: %d\n", cnt)
	case "daily":
		cnt, err := database.CountDaily(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Daily RSS items: %d\n", cnt)
	case "source":
		if len(args) < 2 {
			return errors.New("usage: raven-news stats source NAME")
		}
		cnt, err := database.CountBySource(ctx, args[1])
		if err != nil {
			return err
		}
		fmt.Printf("RSS items for %s: %d\n", args[1], cnt)
	default:
		return fmt.Errorf("unknown stats category: %s", args[0])
	}
	return nil
}
