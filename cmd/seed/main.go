// Command seed wipes the ballot and reloads the sample positions and
// candidates. Existing votes are deleted with them.
package main

import (
	"flag"
	"log/slog"
	"os"

	"campus-election-backend/config"
	"campus-election-backend/database"

	"gorm.io/gorm/logger"
)

func main() {
	withUsers := flag.Bool("users", false, "also create the sample student accounts")
	flag.Parse()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, nil)))

	if err := run(*withUsers); err != nil {
		slog.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(withUsers bool) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.Database, logger.Warn)
	if err != nil {
		return err
	}
	defer database.Close(db)

	if err := database.ResetSampleData(db); err != nil {
		return err
	}
	slog.Info("sample ballot loaded")

	if withUsers {
		created, err := database.SeedUsers(db)
		if err != nil {
			return err
		}
		slog.Info("sample users ready", "created", created)
	}
	return nil
}
