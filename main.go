package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/camden-git/moviearchive/catalog"
	"github.com/camden-git/moviearchive/config"
	"github.com/camden-git/moviearchive/database"
	"github.com/camden-git/moviearchive/repository"
	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var (
	version = "0.1.0-dev"
	dbPath  string
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	rootCmd := &cobra.Command{
		Use:           "moviearchive",
		Short:         "Movie catalog service",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides DATABASE_PATH)")

	rootCmd.AddCommand(
		newServeCmd(),
		newImportCmd(),
		newInitDBCmd(),
	)

	return rootCmd.ExecuteContext(ctx)
}

// app holds what every subcommand needs once config is loaded.
type app struct {
	cfg config.Config
	log hclog.Logger
	db  *gorm.DB
}

// withApp loads config, opens the database, makes sure the schema exists and
// calls fn. The database is closed when fn returns.
func withApp(ctx context.Context, fn func(*app) error) error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "warning: loading .env: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if dbPath != "" {
		cfg.DatabasePath = dbPath
	}
	log := cfg.NewLogger()

	if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	db, err := database.InitGormDB(cfg.DatabasePath, database.Options{
		LogLevel:      database.ParseLogLevel(cfg.DBLogLevel),
		SlowThreshold: cfg.DBSlowThreshold,
	}, log.Named("store"))
	if err != nil {
		return err
	}
	defer func() {
		if err := database.Close(db); err != nil {
			log.Error("closing database", "error", err)
		}
	}()

	if err := database.EnsureSchema(ctx, db); err != nil {
		return err
	}

	return fn(&app{cfg: cfg, log: log, db: db})
}

func (a *app) catalog() *catalog.Service {
	return catalog.NewService(repository.NewMovieRepository(a.db), a.log.Named("catalog"))
}
