package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/lazypower/halflife/internal/engine"
	"github.com/spf13/cobra"
)

var infoCmd = &cobra.Command{
	Use:   "info SUBSTRING...",
	Short: "Show the memory model of facts whose key contains every substring",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	out := cmd.OutOrStdout()
	facts := eng.Match(args...)
	if len(facts) == 0 {
		fmt.Fprintln(out, "No matching facts.")
		return nil
	}
	for _, f := range facts {
		info, err := eng.Info(f.Key)
		if err != nil {
			return err
		}
		printInfo(out, info)
	}
	return nil
}

func printInfo(w io.Writer, info engine.Info) {
	f := info.Fact
	fmt.Fprintf(w, "%s\n  status: %s\n", f.Key, f.Status)
	if f.Belief == nil {
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintf(w, "  belief: %s  drills: %d\n", f.Belief, f.Drills)
	fmt.Fprintf(w, "  last review: %s (%s ago)\n",
		time.Unix(f.LastReview, 0).Format(time.DateTime), time.Duration(f.Elapsed)*time.Second)
	if f.Recall != nil {
		fmt.Fprintf(w, "  recall: %.1f%%\n", percent(*f.Recall))
	}
	if len(info.Density) > 0 {
		peak := 0.0
		for _, d := range info.Density {
			peak = max(peak, d.Density)
		}
		fmt.Fprintln(w, "  density:")
		for _, d := range info.Density {
			bar := 0
			if peak > 0 {
				bar = int(d.Density / peak * histWidth)
			}
			fmt.Fprintf(w, "    %.3f %8.3f %s\n", d.P, d.Density, strings.Repeat("█", bar))
		}
	}
	fmt.Fprintf(w, "  events: %d\n\n", len(info.Events))
}
