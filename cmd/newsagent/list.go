package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/career-news/internal/db"
	"github.com/jonathan/career-news/internal/observability"
	"github.com/jonathan/career-news/internal/types"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "Show an owner's most recently stored articles",
	RunE:  runList,
}

var (
	listFlags    commonFlags
	listLimit    int
	listCategory string
	listSince    time.Duration
)

func init() {
	listFlags.register(listCmd.Flags())
	listCmd.Flags().IntVarP(&listLimit, "limit", "l", 20, "Number of records to show")
	listCmd.Flags().StringVar(&listCategory, "category", "", "Only show this category: IT, economy, society, politics, other")
	listCmd.Flags().DurationVar(&listSince, "since", 0, "Only show records stored within this duration, e.g. 72h")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	cfg, err := listFlags.resolveConfig(cmd, nil)
	if err != nil {
		return err
	}
	if cfg.OwnerID == "" {
		return fmt.Errorf("--owner is required (via flag or config)")
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

	filter, err := listFilter(cfg.OwnerID, time.Now())
	if err != nil {
		return err
	}
	records, err := database.List(ctx, filter)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		_, _ = fmt.Fprintf(os.Stdout, "No stored articles for %s\n", cfg.OwnerID)
		return nil
	}
	observability.NewPrinter(os.Stdout).PrintRecords(records)
	return nil
}

func listFilter(ownerID string, now time.Time) (db.ListFilter, error) {
	filter := db.ListFilter{OwnerID: ownerID, Limit: listLimit}
	if listCategory != "" {
		c := types.Category(listCategory)
		switch c {
		case types.CategoryIT, types.CategoryEconomy, types.CategorySociety, types.CategoryPolitics, types.CategoryOther:
			filter.Category = c
		default:
			return db.ListFilter{}, fmt.Errorf("unknown --category %q", listCategory)
		}
	}
	if listSince > 0 {
		filter.Since = now.Add(-listSince)
	}
	return filter, nil
}
