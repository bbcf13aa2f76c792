package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"paramanu/internal/config"
	"paramanu/internal/database"
	"paramanu/internal/logging"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the inquiry tables",
	Long: `Create or update the inquiries and registrations tables in the database
named by DATABASE_URL.

Examples:
  # Migrate the local SQLite database
  leadctl migrate

  # Migrate a PostgreSQL database
  DATABASE_URL=postgres://user:pass@db:5432/paramanu leadctl migrate`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger, err := logging.New(cfg.App)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	conn, err := database.Open(&cfg.Database, logger)
	if err != nil {
		return err
	}
	defer func() {
		if sqlDB, err := conn.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}()

	if err := database.Migrate(conn); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
	defer cancel()
	store := database.NewInquiryStore(conn)
	for _, collection := range database.Collections {
		n, err := store.Count(ctx, collection)
		if err != nil {
			return fmt.Errorf("failed to count %s: %w", collection, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%-15s %d rows\n", collection, n)
	}
	return nil
}
