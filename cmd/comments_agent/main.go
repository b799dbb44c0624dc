// Package main provides the entry point for the comments curation CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "comments_agent",
	Short: "Video comment opinion curation pipeline",
	Long:  "Comments Curator repairs and validates LLM-produced JSON opinion files, then merges the surviving records into a deduplicated master CSV table.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
