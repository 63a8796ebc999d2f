package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/lazypower/halflife/internal/engine"
	"github.com/spf13/cobra"
)

var (
	statusTopics []string
	statusAtRisk int
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show deck counts and the spread of predicted recall",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringSliceVarP(&statusTopics, "topic", "t", nil, "restrict to facts under every listed topic")
	statusCmd.Flags().IntVar(&statusAtRisk, "at-risk", 5, "number of at-risk facts to list")
}

func runStatus(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	printStatus(cmd.OutOrStdout(), eng.StatusOf(statusTopics, statusAtRisk))
	return nil
}

const histWidth = 40

func printStatus(w io.Writer, s engine.Status) {
	if len(s.Topics) > 0 {
		fmt.Fprintf(w, "topics: %s\n", strings.Join(s.Topics, ", "))
	}
	fmt.Fprintf(w, "facts: %d (new %d, learned %d: got %d, forgot %d)\n", s.Total, s.New, s.Old, s.Got, s.Forgot)
	for _, sk := range s.Skipped {
		fmt.Fprintf(w, "  unscored %s: %s\n", sk.Key, sk.Error)
	}
	if s.Old == 0 {
		return
	}

	peak := 0
	for _, n := range s.Histogram {
		peak = max(peak, n)
	}
	fmt.Fprintln(w, "\npredicted recall:")
	for i, n := range s.Histogram {
		lo, hi := float64(i)/engine.Bins, float64(i+1)/engine.Bins
		bar := 0
		if peak > 0 {
			bar = n * histWidth / peak
		}
		fmt.Fprintf(w, "  [%.2f, %.2f) %4d %s\n", lo, hi, n, strings.Repeat("█", bar))
	}

	if len(s.AtRisk) > 0 {
		fmt.Fprintln(w, "\nmost at risk:")
		for _, f := range s.AtRisk {
			fmt.Fprintf(w, "  %5.1f%%  %s\n", percent(deref(f.Recall)), f.Key)
		}
	}
}

func percent(p float64) float64 { return 100 * p }

func deref(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
