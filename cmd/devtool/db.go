package main

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/urfave/cli/v2"

	"github.com/osse101/luckydraw/internal/database"
)

const (
	defaultWaitTimeout = 30 * time.Second
	pollInterval       = time.Second
)

func connect(c *cli.Context) (*pgxpool.Pool, error) {
	url := dbURL(c)
	PrintInfo("Connecting to %s", redactPassword(url))
	return database.NewPool(c.Context, url, database.PoolOptions{MaxConns: 2})
}

func runMigrateUp(c *cli.Context) error {
	pool, err := connect(c)
	if err != nil {
		return err
	}
	defer pool.Close()

	PrintHeader("Applying migrations")
	if err := database.Migrate(c.Context, pool); err != nil {
		return err
	}
	return printVersion(c.Context, pool)
}

func runMigrateDown(c *cli.Context) error {
	pool, err := connect(c)
	if err != nil {
		return err
	}
	defer pool.Close()

	PrintHeader("Rolling back one migration")
	if err := database.MigrateDown(c.Context, pool); err != nil {
		return err
	}
	return printVersion(c.Context, pool)
}

func runMigrateStatus(c *cli.Context) error {
	pool, err := connect(c)
	if err != nil {
		return err
	}
	defer pool.Close()
	return printVersion(c.Context, pool)
}

func printVersion(ctx context.Context, pool *pgxpool.Pool) error {
	version, err := database.MigrationStatus(ctx, pool)
	if err != nil {
		return err
	}
	PrintSuccess("Schema version %d", version)
	return nil
}

// runCheckDB polls until the database answers or the timeout passes
func runCheckDB(c *cli.Context) error {
	PrintHeader("Checking database")
	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	url := dbURL(c)
	for attempt := 1; ; attempt++ {
		pool, err := database.NewPool(ctx, url, database.PoolOptions{MaxConns: 1})
		if err == nil {
			pool.Close()
			PrintSuccess("Database is ready (attempt %d)", attempt)
			return nil
		}
		PrintWarning("Attempt %d: %v", attempt, err)

		select {
		case <-ctx.Done():
			return errors.New("database did not become ready in time")
		case <-time.After(pollInterval):
		}
	}
}
