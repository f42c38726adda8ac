package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tahsin/mula-lens/internal/observability"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <name>",
	Short: "Resolve contact, sentiment, salary, and openings data for a company",
	Long:  "Decodes the given company name and assembles its enrichment record from the Gemini API and the review site. Fresh records are served from the store without any network call.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnrich,
}

var (
	enrichConfigPath string
	enrichAPIKey     string
	enrichModel      string
	enrichStore      string
	enrichTTL        string
	enrichSiteRoot   string
	enrichUseBrowser bool
	enrichNoCache    bool
	enrichVerbose    bool
	enrichJSON       bool
)

func init() {
	enrichCmd.Flags().StringVarP(&enrichConfigPath, "config", "c", "", "Path to JSON config file")
	enrichCmd.Flags().StringVar(&enrichAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	enrichCmd.Flags().StringVar(&enrichModel, "model", "", "Gemini model name")
	enrichCmd.Flags().StringVar(&enrichStore, "store", "", "Store backend: session, redis, or postgres (default: session)")
	enrichCmd.Flags().StringVar(&enrichTTL, "ttl", "", "Record lifetime, e.g. 12h")
	enrichCmd.Flags().StringVar(&enrichSiteRoot, "site-root", "", "Base URL of the review site")
	enrichCmd.Flags().BoolVar(&enrichUseBrowser, "use-browser", false, "Use a headless browser for JS-only careers pages")
	enrichCmd.Flags().BoolVar(&enrichNoCache, "no-cache", false, "Disable the fetched-page cache")
	enrichCmd.Flags().BoolVarP(&enrichVerbose, "verbose", "v", false, "Print detailed progress information")
	enrichCmd.Flags().BoolVar(&enrichJSON, "json", false, "Print the record as JSON instead of a summary")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(_ *cobra.Command, args []string) error {
	cfg, err := loadAppConfig(enrichConfigPath)
	if err != nil {
		return err
	}
	if enrichAPIKey != "" {
		cfg.APIKey = enrichAPIKey
	}
	if enrichModel != "" {
		cfg.Model = enrichModel
	}
	if enrichStore != "" {
		cfg.StoreBackend = enrichStore
	}
	if enrichTTL != "" {
		cfg.StoreTTL = enrichTTL
	}
	if enrichSiteRoot != "" {
		cfg.SiteRoot = enrichSiteRoot
	}
	cfg.UseBrowser = cfg.UseBrowser || enrichUseBrowser
	cfg.NoCache = cfg.NoCache || enrichNoCache
	cfg.Verbose = cfg.Verbose || enrichVerbose
	if err := cfg.Validate(); err != nil {
		return err
	}

	decoder, err := buildDecoder(cfg)
	if err != nil {
		return err
	}

	pages, err := buildPages(cfg)
	if err != nil {
		return fmt.Errorf("failed to create page cache: %w", err)
	}
	defer func() { _ = pages.Close() }()

	ctx := context.Background()
	resolver, st, err := buildResolver(ctx, cfg, pages)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	name := decoder.Decode(args[0])
	record, err := resolver.Resolve(ctx, name)
	if err != nil {
		return fmt.Errorf("failed to enrich %q: %w", name, err)
	}

	if enrichJSON {
		out, err := json.MarshalIndent(record, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal record: %w", err)
		}
		_, _ = fmt.Fprintln(os.Stdout, string(out))
		return nil
	}

	observability.NewPrinter(os.Stdout).PrintEnrichment(record)
	return nil
}
