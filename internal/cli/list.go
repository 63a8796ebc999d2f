package cli

import (
	"fmt"

	"github.com/lazypower/halflife/internal/deck"
	"github.com/spf13/cobra"
)

var (
	listTopics []string
	listNew    bool
	listOld    bool
	listForgot bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the facts in the loaded decks",
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringSliceVarP(&listTopics, "topic", "t", nil, "restrict to facts under every listed topic")
	listCmd.Flags().BoolVar(&listNew, "new", false, "only facts not yet learned")
	listCmd.Flags().BoolVar(&listOld, "old", false, "only facts already learned")
	listCmd.Flags().BoolVar(&listForgot, "forgot", false, "only facts missed at their last drill")
	listCmd.MarkFlagsMutuallyExclusive("new", "old")
}

func runList(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	q := deck.Query{Topics: listTopics, ForgotOnly: listForgot}
	switch {
	case listNew:
		q.New = deck.Flag(true)
	case listOld:
		q.New = deck.Flag(false)
	}

	out := cmd.OutOrStdout()
	for _, f := range eng.Facts(q) {
		if f.Recall != nil {
			fmt.Fprintf(out, "%-9s %5.1f%%  %s\n", f.Status, percent(*f.Recall), f.Key)
		} else {
			fmt.Fprintf(out, "%-9s         %s\n", f.Status, f.Key)
		}
	}
	return nil
}
