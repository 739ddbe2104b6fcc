package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/reorder-advisor/internal/app"
	"github.com/andresuchdata/reorder-advisor/internal/config"
	"github.com/andresuchdata/reorder-advisor/internal/repository/postgres"
	"github.com/andresuchdata/reorder-advisor/pkg/logger"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type ctxKey struct{}

var dbKey ctxKey

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	raw, err := sql.Open("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := raw.PingContext(c.Context); err != nil {
		raw.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, postgres.Wrap(sqlx.NewDb(raw, "pgx")))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database connection not initialized")
	}
	return db, nil
}

func buildApp(c *cli.Context) (*app.App, error) {
	db, err := dbFrom(c)
	if err != nil {
		return nil, err
	}
	return app.New(c.Context, config.Load(), db)
}

func main() {
	logger.SetLevel(os.Getenv("LOG_LEVEL"))

	cliApp := &cli.App{
		Name:  "advisor",
		Usage: "Operate the reorder advisor from the command line",
		Commands: []*cli.Command{
			{
				Name:   "migrate",
				Usage:  "Apply pending database migrations",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runMigrate,
			},
			{
				Name:   "sync",
				Usage:  "Refresh the product catalog from the inventory source",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runSync,
			},
			{
				Name:  "advise",
				Usage: "Print a reorder recommendation for one SKU as JSON",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "sku",
						Usage:    "Product SKU to analyze",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runAdvise,
			},
			{
				Name:   "cleanup-sessions",
				Usage:  "Delete expired chat sessions",
				Flags:  []cli.Flag{newDBURLFlag()},
				Before: initDB,
				After:  closeDB,
				Action: runCleanup,
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("advisor command failed")
	}
}

func runMigrate(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}
	version, err := postgres.Migrate(c.Context, db)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "schema at version %d\n", version)
	return nil
}

func runSync(c *cli.Context) error {
	a, err := buildApp(c)
	if err != nil {
		return err
	}
	start := time.Now()
	report, err := a.Sync.SyncProducts(c.Context)
	if err != nil {
		return fmt.Errorf("sync products: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "fetched=%d synced=%d failed=%d in %s\n",
		report.Fetched, report.Synced, report.Failed, time.Since(start).Round(time.Millisecond))
	return nil
}

func runAdvise(c *cli.Context) error {
	a, err := buildApp(c)
	if err != nil {
		return err
	}
	resp, err := a.Advice.Advise(c.Context, c.String("sku"))
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func runCleanup(c *cli.Context) error {
	a, err := buildApp(c)
	if err != nil {
		return err
	}
	removed, err := a.Chat.CleanupExpired(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "removed %d expired session(s)\n", removed)
	return nil
}
