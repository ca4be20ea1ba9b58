package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sells-group/lead-qualifier/internal/leadscore"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List scoring profiles with their weights and thresholds",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printProfiles(cmd.OutOrStdout(), cfg.Scoring.Profile)
	},
}

func init() {
	rootCmd.AddCommand(profilesCmd)
}

func printProfiles(out io.Writer, active string) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "PROFILE\tVERSION\tWEIGHTS\tTHRESHOLDS\tDEFAULT\tSTEP\tRATE")
	_, _ = fmt.Fprintln(w, "-------\t-------\t-------\t----------\t-------\t----\t----")

	for _, name := range leadscore.Profiles() {
		p, err := leadscore.Lookup(name)
		if err != nil {
			return err
		}
		label := p.Name
		if p.Name == active {
			label += " *"
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%g\t%g\t%g\n",
			label, p.Version, formatMetrics(p.Weights), formatMetrics(p.Thresholds),
			p.Default, p.PenaltyStep, p.PenaltyRate)
	}
	return w.Flush()
}

// formatMetrics renders a metric map in enumeration order.
func formatMetrics(m map[leadscore.Metric]float64) string {
	var parts []string
	for _, metric := range leadscore.AllMetrics() {
		v, ok := m[metric]
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%g", metric, v))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ",")
}
