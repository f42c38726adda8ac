package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var decodeCmd = &cobra.Command{
	Use:   "decode <name>...",
	Short: "Decode obfuscated company names",
	Long:  "Decodes one or more leet-speak obfuscated company names (e.g. '8etopia' becomes 'Betopia') using the ordered substitution rules.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDecode,
}

var (
	decodeConfigPath string
	decodeStyle      string
	decodeRuleFile   string
	decodeRaw        bool
)

func init() {
	decodeCmd.Flags().StringVarP(&decodeConfigPath, "config", "c", "", "Path to JSON config file")
	decodeCmd.Flags().StringVar(&decodeStyle, "style", "", "Casing style: sentence, title, or upper (default: title)")
	decodeCmd.Flags().StringVar(&decodeRuleFile, "rules", "", "Path to a JSON rule override file")
	decodeCmd.Flags().BoolVar(&decodeRaw, "raw", false, "Print only the decoded names, without the input")

	rootCmd.AddCommand(decodeCmd)
}

func runDecode(_ *cobra.Command, args []string) error {
	cfg, err := loadAppConfig(decodeConfigPath)
	if err != nil {
		return err
	}
	if decodeStyle != "" {
		cfg.CaseStyle = decodeStyle
	}
	if decodeRuleFile != "" {
		cfg.RuleFile = decodeRuleFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	decoder, err := buildDecoder(cfg)
	if err != nil {
		return err
	}

	for _, name := range args {
		decoded := decoder.Decode(name)
		if decodeRaw {
			_, _ = fmt.Fprintln(os.Stdout, decoded)
			continue
		}
		_, _ = fmt.Fprintf(os.Stdout, "%s  ->  %s\n", name, decoded)
	}

	return nil
}
