package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/comments-curator/internal/config"
	"github.com/jonathan/comments-curator/internal/pipeline"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest comment opinion files and merge them into the master table",
	Long: `Scans the input directory for *_COMMENTS.txt files, repairs and parses each
one, quarantines files with unrecoverable JSON, and merges the valid records
into the deduplicated master CSV.

Configuration can be loaded from a YAML file using --config. Command-line
arguments override config file values.`,
	RunE: runIngest,
}

var (
	ingestConfigPath  string
	ingestInDir       string
	ingestOutDir      string
	ingestMasterName  string
	ingestDatabaseURL string
	ingestStrict      bool
	ingestVerbose     bool
)

func init() {
	ingestCmd.Flags().StringVarP(&ingestConfigPath, "config", "c", "", "Path to YAML config file (values can be overridden by other flags)")
	ingestCmd.Flags().StringVarP(&ingestInDir, "in", "i", "", "Directory containing *_COMMENTS.txt files")
	ingestCmd.Flags().StringVarP(&ingestOutDir, "out", "o", "", "Directory for the master CSV (default: current directory)")
	ingestCmd.Flags().StringVarP(&ingestMasterName, "master", "m", "", "Master CSV filename (default: "+config.DefaultMasterName+")")
	ingestCmd.Flags().BoolVar(&ingestStrict, "strict", false, "Drop records that fail JSON Schema validation")
	ingestCmd.Flags().BoolVarP(&ingestVerbose, "verbose", "v", false, "Print a boxed run summary")

	// Database URL for row archiving; optional, falls back to DATABASE_URL
	ingestCmd.Flags().StringVar(&ingestDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")

	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if ingestConfigPath != "" {
		loadedCfg, err := config.LoadFile(ingestConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
		if ingestVerbose {
			fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", ingestConfigPath)
		}
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	if cmd.Flags().Changed("in") {
		cfg.InDir = ingestInDir
	}
	if cmd.Flags().Changed("out") {
		cfg.OutDir = ingestOutDir
	}
	if cmd.Flags().Changed("master") {
		cfg.MasterName = ingestMasterName
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = ingestDatabaseURL
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = ingestStrict
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = ingestVerbose
	}

	// Step 3: Apply defaults for unset values
	cfg = cfg.MergeWithDefaults(config.Config{
		OutDir:      ".",
		MasterName:  config.DefaultMasterName,
		DatabaseURL: os.Getenv("DATABASE_URL"),
	})

	// Step 4: Validate required fields
	if cfg.InDir == "" {
		return fmt.Errorf("--in is required (via flag or config)")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	summary, err := pipeline.RunPipeline(ctx, pipeline.RunOptions{
		InDir:       cfg.InDir,
		OutDir:      cfg.OutDir,
		MasterName:  cfg.MasterName,
		DatabaseURL: cfg.DatabaseURL,
		Strict:      cfg.Strict,
		Verbose:     cfg.Verbose,
	})
	if err != nil {
		return err
	}

	if summary.Quarantined > 0 {
		fmt.Fprintf(os.Stdout, "%d file(s) quarantined under %s\n", summary.Quarantined, cfg.InDir)
	}
	return nil
}
