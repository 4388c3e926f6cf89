// Package main provides loadtmdb, which replaces the movie catalog with the
// contents of a TMDB CSV export.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/school-workshop/movie-review-challenge/internal/config"
	"github.com/school-workshop/movie-review-challenge/internal/database"
	"github.com/school-workshop/movie-review-challenge/internal/importer"
	"github.com/school-workshop/movie-review-challenge/internal/logging"
)

var (
	// limit is set by --limit; 0 loads every record.
	limit int
	// source is set by --source: a file path or an http(s) URL.
	source string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "loadtmdb",
	Short: "Replace the movie catalog with a TMDB CSV export",
	Long: `loadtmdb deletes every movie and review in the configured store and
loads movies from a CSV with the columns Title, Release_Date, Genre, Overview
and Poster_Url. Records without a title, a four digit year or an overview are
skipped.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runLoad,
}

func init() {
	rootCmd.Flags().IntVar(&limit, "limit", 0, "only read the first N records (default: all)")
	rootCmd.Flags().StringVar(&source, "source", "mymoviedb.csv", "CSV file path or http(s) URL")
}

func runLoad(cmd *cobra.Command, _ []string) error {
	if limit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: "console"})

	ctx := cmd.Context()
	db, err := database.Open(cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	if err := database.CreateSchema(ctx, db); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}

	src, err := importer.OpenCSV(ctx, source)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Loading movies from %s...\n", source)
	res, err := importer.BulkLoad(ctx, db, src, limit)
	if err != nil {
		return fmt.Errorf("bulk load: %w", err)
	}
	fmt.Fprintf(out, "\nDone! Loaded %d movies (%d skipped due to missing data)\n", res.Loaded, res.Skipped)
	return nil
}
