// Package cli implements the wordnet commands.
package cli

import (
	"context"
	"encoding/json"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/example/wordnet/internal/config"
	"github.com/example/wordnet/internal/database"
	"github.com/example/wordnet/internal/review"
	"github.com/example/wordnet/internal/spaced_repetition"
)

var (
	dbFlag     string
	driverFlag string
	envFlag    string
	formatFlag string
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "wordnet",
	Short:         "Spaced-repetition vocabulary trainer",
	Long:          "Learn words by their roots. Words are scheduled with SM-2 and stored in SQLite or PostgreSQL.",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbFlag, "db", "d", "", "Database path or DSN (default: $DB_PATH or $DATABASE_URL)")
	RootCmd.PersistentFlags().StringVar(&driverFlag, "driver", "", "Database type: sqlite or postgres (default: $DB_TYPE)")
	RootCmd.PersistentFlags().StringVar(&envFlag, "env", ".env", "Environment file to load")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: text or json")
}

// loadConfig applies command-line overrides on top of the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(envFlag)
	if err != nil {
		return nil, err
	}
	if driverFlag != "" {
		cfg.DBType = driverFlag
	}
	if dbFlag != "" {
		if cfg.DBType == "postgres" {
			cfg.DatabaseURL = dbFlag
		} else {
			cfg.DBPath = dbFlag
		}
	}
	return cfg, nil
}

// app is an opened engine and the resources behind it.
type app struct {
	cfg    *config.Config
	db     *sqlx.DB
	engine *review.Engine
}

func (a *app) Close() error { return a.db.Close() }

// openRaw connects to the database and builds the engine without touching
// the review queue.
func openRaw(ctx context.Context, cfg *config.Config) (*app, error) {
	db, err := database.Connect(ctx, cfg.Driver(), cfg.DSN())
	if err != nil {
		return nil, err
	}

	sm := spaced_repetition.NewSM2()
	sm.MaxInterval = cfg.MaxIntervalDays
	engine := review.NewEngine(
		database.NewWordRepository(db),
		database.NewReviewRepository(db),
		review.WithSM2(sm),
	)
	return &app{cfg: cfg, db: db, engine: engine}, nil
}

// openApp opens the engine and reconciles the review queue before anything
// reads from it.
func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a, err := openRaw(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if n, err := a.engine.Reconcile(ctx); err != nil {
		a.Close()
		return nil, err
	} else if n > 0 {
		log.Printf("Scheduled %d word(s) missing from the review queue", n)
	}
	return a, nil
}

// withApp opens the app for the duration of fn.
func withApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}

func printJSON(cmd *cobra.Command, v interface{}) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// withRawApp is withApp without the startup reconcile.
func withRawApp(cmd *cobra.Command, fn func(ctx context.Context, a *app) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := commandContext(cmd)
	a, err := openRaw(ctx, cfg)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(ctx, a)
}
