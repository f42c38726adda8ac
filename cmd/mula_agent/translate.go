package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var translateCmd = &cobra.Command{
	Use:   "translate <text>...",
	Short: "Translate text between English and Bangla",
	Long:  "Translates the given text using the Gemini API. Intended for review summaries, which are produced in both English and Bangla.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runTranslate,
}

var (
	translateConfigPath string
	translateAPIKey     string
	translateLanguage   string
)

func init() {
	translateCmd.Flags().StringVarP(&translateConfigPath, "config", "c", "", "Path to JSON config file")
	translateCmd.Flags().StringVar(&translateAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	translateCmd.Flags().StringVarP(&translateLanguage, "lang", "l", "English", "Target language: English or Bangla")

	rootCmd.AddCommand(translateCmd)
}

func runTranslate(_ *cobra.Command, args []string) error {
	cfg, err := loadAppConfig(translateConfigPath)
	if err != nil {
		return err
	}
	if translateAPIKey != "" {
		cfg.APIKey = translateAPIKey
	}
	if cfg.APIKey == "" {
		return fmt.Errorf("API key required: set --api-key flag or GEMINI_API_KEY environment variable")
	}

	ctx := context.Background()
	resolver, st, err := buildResolver(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer func() { _ = st.Close() }()

	translated, err := resolver.Translate(ctx, strings.Join(args, " "), translateLanguage)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(os.Stdout, translated)
	return nil
}
