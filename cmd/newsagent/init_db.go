package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-news/internal/db"
)

var initDBCmd = &cobra.Command{
	Use:   "init-db",
	Short: "Create the news tables and indexes",
	Long:  "Applies the embedded schema: news_articles with its unique (owner_id, source_url) index, and news_runs. Safe to run repeatedly.",
	RunE:  runInitDB,
}

var (
	initDBFlags     commonFlags
	initDBPrintOnly bool
)

func init() {
	initDBFlags.register(initDBCmd.Flags())
	initDBCmd.Flags().BoolVar(&initDBPrintOnly, "print", false, "Print the schema instead of applying it")
	rootCmd.AddCommand(initDBCmd)
}

func runInitDB(cmd *cobra.Command, _ []string) error {
	if initDBPrintOnly {
		_, err := fmt.Fprint(cmd.OutOrStdout(), db.Schema())
		return err
	}

	cfg, err := initDBFlags.resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	ctx := context.Background()
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(os.Stdout, "Schema applied")
	return nil
}
