package main

import (
	"encoding/json"
	"errors"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-qualifier/internal/lead"
)

var (
	analyzeEmail  string
	analyzeSource string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <url>",
	Short: "Analyze one lead and print the report as JSON",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeSource != "" {
			cfg.Source.Name = analyzeSource
		}

		env, err := initAnalyzer(cfg, "analyze")
		if err != nil {
			return err
		}

		report, err := env.Analyzer.Analyze(cmd.Context(), lead.Request{URL: args[0], Email: analyzeEmail})
		if err != nil {
			var verr *lead.ValidationError
			if errors.As(err, &verr) {
				return eris.Errorf("invalid lead: %s", verr.Message)
			}
			return eris.Wrap(err, "analyze")
		}

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

func init() {
	analyzeCmd.Flags().StringVar(&analyzeEmail, "email", "", "contact email to validate alongside the lead")
	analyzeCmd.Flags().StringVar(&analyzeSource, "source", "", "raw score source: mock, scrape or ai (default from config)")
	rootCmd.AddCommand(analyzeCmd)
}
