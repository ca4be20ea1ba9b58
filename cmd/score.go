package main

import (
	"encoding/json"
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
)

var (
	scoreProfile string
	scoreFile    string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score raw metric values without assessing a website",
	Long: `Reads a JSON object of raw metric scores and prints the full scoring
result, including normalized and weighted scores and every penalty.

Examples:
  # Score from a file with the configured profile
  score --file scores.json

  # Score from stdin with the legacy weights
  echo '{"dealPotential":40,"revenue":30}' | score --profile legacy-mock`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreProfile, "profile", "", "scoring profile (default from config)")
	f.StringVar(&scoreFile, "file", "-", "raw scores JSON file, or - for stdin")
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	name := scoreProfile
	if name == "" {
		if err := cfg.Validate("score"); err != nil {
			return err
		}
		name = cfg.Scoring.Profile
	}
	profile, err := leadscore.Lookup(name)
	if err != nil {
		return err
	}

	in := cmd.InOrStdin()
	if scoreFile != "" && scoreFile != "-" {
		f, err := os.Open(scoreFile)
		if err != nil {
			return eris.Wrap(err, "score: open input")
		}
		defer f.Close() //nolint:errcheck
		in = f
	}

	raw, err := readRawScores(in)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(profile.Compute(raw))
}

// readRawScores decodes a JSON object of raw scores. Numbers are kept as
// json.Number so values reach the engine unrounded.
func readRawScores(r io.Reader) (leadscore.RawScores, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var raw leadscore.RawScores
	if err := dec.Decode(&raw); err != nil {
		if eris.Is(err, io.EOF) {
			return leadscore.RawScores{}, nil
		}
		return nil, eris.Wrap(err, "score: decode raw scores")
	}
	return raw, nil
}
