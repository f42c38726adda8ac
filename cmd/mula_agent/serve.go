package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tahsin/mula-lens/internal/rewrite"
	"github.com/tahsin/mula-lens/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  `Start an HTTP server exposing decode, page rewrite, and enrichment endpoints.`,
	RunE:  runServe,
}

var (
	servePort       int
	serveConfigPath string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVarP(&serveConfigPath, "config", "c", "", "Path to JSON config file")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, err := loadAppConfig(serveConfigPath)
	if err != nil {
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

	resolver, st, err := buildResolver(context.Background(), cfg, pages)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	srv, err := server.New(server.Config{
		Port:     servePort,
		Decoder:  decoder,
		Rewriter: rewrite.New(decoder, cfg.Selectors),
		Resolver: resolver,
		Pages:    pages,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
