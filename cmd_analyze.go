package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alpha-assistant/server/internal/analysis"
	"github.com/alpha-assistant/server/internal/settings"
)

var (
	analyzeLang     string
	analyzeEmphasis bool
)

// analyzeCmd runs one analysis without a chat session, so no API key is needed.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Analyze text with the worker and print the formatted result",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeLang, "lang", settings.DefaultLanguage, "target language code for translated results")
	analyzeCmd.Flags().BoolVar(&analyzeEmphasis, "emphasis", false, "underline key terms in the output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	toggles := settings.Defaults()
	req, err := analysis.NewRequest(strings.Join(args, " "), analyzeLang, &toggles)
	if err != nil {
		return err
	}

	res, err := newAnalyzer(cfg).Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	fmt.Fprint(cmd.OutOrStdout(), analysis.Format(res, analysis.FormatOptions{Emphasis: analyzeEmphasis}))
	return nil
}
