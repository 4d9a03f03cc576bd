package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		PrintError("%v", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "devtool"
	app.Usage = "Lucky draw development helpers"
	app.Action = cli.ShowAppHelp
	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db-url",
			Usage:   "PostgreSQL connection string, built from DB_* variables when empty",
			EnvVars: []string{"DB_URL"},
		},
	}
	app.Commands = []*cli.Command{
		{
			Name:     "migrate",
			Usage:    "Apply or inspect schema migrations",
			Category: "Database",
			Subcommands: []*cli.Command{
				{Name: "up", Usage: "Apply all pending migrations", Action: runMigrateUp},
				{Name: "down", Usage: "Roll back the latest migration", Action: runMigrateDown},
				{Name: "status", Usage: "Print the current schema version", Action: runMigrateStatus},
			},
		},
		{
			Name:     "seed",
			Usage:    "Insert a demo campaign",
			Category: "Database",
			Action:   runSeed,
			Flags: []cli.Flag{
				&cli.IntFlag{Name: "participants", Value: 10, Usage: "number of participants to create"},
				&cli.IntFlag{Name: "spins", Value: 5, Usage: "spins granted to each participant"},
				&cli.IntFlag{Name: "days", Value: 30, Usage: "campaign length in days"},
			},
		},
		{
			Name:     "check-env",
			Usage:    "Validate required environment variables",
			Category: "Environment",
			Action:   runCheckEnv,
		},
		{
			Name:     "check-db",
			Usage:    "Check that the database accepts connections",
			Category: "Database",
			Action:   runCheckDB,
			Flags: []cli.Flag{
				&cli.DurationFlag{Name: "timeout", Value: defaultWaitTimeout, Usage: "how long to keep retrying"},
			},
		},
	}
	return app
}

func dbURL(c *cli.Context) string {
	if url := c.String("db-url"); url != "" {
		return url
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		getEnv("DB_USER", "postgres"),
		getEnv("DB_PASSWORD", "postgres"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "luckydraw"),
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
