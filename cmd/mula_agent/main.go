// Package main provides the mula_agent CLI for decoding obfuscated
// company names and enriching them with contacts, reviews, salaries,
// and job openings.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "mula_agent",
	Short: "Company name decoder and enrichment toolkit",
	Long:  "mula_agent decodes leet-speak obfuscated company names from review sites, rewrites whole pages in place, and enriches companies with contact links, review sentiment, salary data, and job openings.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
