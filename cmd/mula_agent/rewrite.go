package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/spf13/cobra"

	"github.com/tahsin/mula-lens/internal/badge"
	"github.com/tahsin/mula-lens/internal/rewrite"
)

var rewriteCmd = &cobra.Command{
	Use:   "rewrite",
	Short: "Decode company names across a whole HTML page",
	Long:  "Fetches a page (or reads a local file), decodes obfuscated company names in the configured elements, strips ad containers, and writes the rewritten HTML.",
	RunE:  runRewrite,
}

var (
	rewriteConfigPath string
	rewriteURL        string
	rewriteFile       string
	rewriteOut        string
	rewriteEnrich     bool
)

func init() {
	rewriteCmd.Flags().StringVarP(&rewriteConfigPath, "config", "c", "", "Path to JSON config file")
	rewriteCmd.Flags().StringVarP(&rewriteURL, "url", "u", "", "Page URL to fetch and rewrite")
	rewriteCmd.Flags().StringVarP(&rewriteFile, "file", "f", "", "Local HTML file to rewrite")
	rewriteCmd.Flags().StringVarP(&rewriteOut, "out", "o", "", "Output file (default: stdout)")
	rewriteCmd.Flags().BoolVar(&rewriteEnrich, "enrich", false, "Resolve each company on the page and inject its badges")

	rootCmd.AddCommand(rewriteCmd)
}

func runRewrite(_ *cobra.Command, _ []string) error {
	if (rewriteURL == "") == (rewriteFile == "") {
		return fmt.Errorf("exactly one of --url or --file is required")
	}

	cfg, err := loadAppConfig(rewriteConfigPath)
	if err != nil {
		return err
	}

	decoder, err := buildDecoder(cfg)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var src string
	if rewriteFile != "" {
		data, err := os.ReadFile(rewriteFile)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", rewriteFile, err)
		}
		src = string(data)
	} else {
		pages, err := buildPages(cfg)
		if err != nil {
			return fmt.Errorf("failed to create page cache: %w", err)
		}
		defer func() { _ = pages.Close() }()

		src, err = pages.Fetch(ctx, rewriteURL, nil)
		if err != nil {
			return fmt.Errorf("failed to fetch %s: %w", rewriteURL, err)
		}
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(src))
	if err != nil {
		return fmt.Errorf("failed to parse page: %w", err)
	}

	changed := rewrite.New(decoder, cfg.Selectors).Document(doc)
	rewrite.RemoveAds(doc)

	if rewriteEnrich {
		resolver, st, err := buildResolver(ctx, cfg, nil)
		if err != nil {
			return err
		}
		defer func() { _ = st.Close() }()

		decorated := badge.Decorate(ctx, doc, resolver, "")
		_, _ = fmt.Fprintf(os.Stderr, "Decorated %d companies\n", decorated)
	}

	out, err := doc.Html()
	if err != nil {
		return fmt.Errorf("failed to serialize page: %w", err)
	}

	if rewriteOut != "" {
		if err := os.WriteFile(rewriteOut, []byte(out), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", rewriteOut, err)
		}
		_, _ = fmt.Fprintf(os.Stderr, "Rewrote %d text nodes -> %s\n", changed, rewriteOut)
		return nil
	}

	_, _ = fmt.Fprint(os.Stdout, out)
	_, _ = fmt.Fprintf(os.Stderr, "Rewrote %d text nodes\n", changed)
	return nil
}
