package cli

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/lazypower/halflife/internal/engine"
	"github.com/lazypower/halflife/internal/scheduler"
	"github.com/lazypower/halflife/internal/store"
	"github.com/spf13/cobra"
)

var (
	drillNum    int
	drillTopics []string
	drillForgot bool
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Drill the facts most at risk of being forgotten",
	Long: "Draw the learned facts with the lowest predicted recall and type each answer.\n" +
		"A missed fact can still be committed as got it, or skipped without grading.",
	RunE: runDrill,
}

func init() {
	drillCmd.Flags().IntVarP(&drillNum, "num", "n", 0, "number of facts (default from config, -1 for all)")
	drillCmd.Flags().StringSliceVarP(&drillTopics, "topic", "t", nil, "restrict to facts under every listed topic")
	drillCmd.Flags().BoolVar(&drillForgot, "forgot", false, "only facts missed at their last drill")
}

func runDrill(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	return drillSession(eng, p, scheduler.Request{
		Topics:     drillTopics,
		Count:      handSize(drillNum),
		ForgotOnly: drillForgot,
	})
}

// commit is what a drilled fact is recorded as.
type commit int

const (
	commitForgot commit = iota
	commitGot
	commitSkip
)

// shuffle orders a drawn hand before it is drilled.
var shuffle = func(hand []engine.FactView) {
	rand.Shuffle(len(hand), func(i, j int) { hand[i], hand[j] = hand[j], hand[i] })
}

// drillSession shows each fact of a shuffled hand once. A wrong guess can
// still be committed as got it or skipped, which reviews the fact without
// grading it.
func drillSession(eng *engine.Engine, p *prompter, req scheduler.Request) error {
	hand := eng.Queue(req)
	for _, s := range hand.Skipped {
		p.printf("skipping %s: %s\n", s.Key, s.Error)
	}
	if len(hand.Facts) == 0 {
		p.printf("Nothing to drill.\n")
		return nil
	}
	shuffle(hand.Facts)

	sess, err := eng.StartSession(store.ModeDrill)
	if err != nil {
		return err
	}
	defer eng.EndSession(sess.SessionID)

	graded, right, skipped := 0, 0, 0
	summary := func() {
		p.printf("Drilled %d facts, %d right, %d skipped.\n", graded, right, skipped)
	}
	for i, f := range hand.Facts {
		p.printf("** drill %d/%d **\n", i+1, len(hand.Facts))
		c, err := play(p, f)
		if errors.Is(err, errQuit) {
			summary()
			return nil
		}
		if err != nil {
			return err
		}
		if c == commitSkip {
			if _, err := eng.Skip(sess.SessionID, f.Key); err != nil {
				return fmt.Errorf("skip %s: %w", f.Key, err)
			}
			skipped++
			continue
		}
		if _, err := eng.Drill(sess.SessionID, f.Key, c == commitGot); err != nil {
			return fmt.Errorf("drill %s: %w", f.Key, err)
		}
		graded++
		if c == commitGot {
			right++
		}
	}
	summary()
	return nil
}

func play(p *prompter, f engine.FactView) (commit, error) {
	if f.Topic != "" {
		p.printf("topics: %s\n", f.Topic)
	}
	p.printf("prompt: %s\n", f.Prompt)
	guess, err := p.ask("recall: ")
	if err != nil {
		return commitForgot, err
	}
	p.printf("answer: %s\n", f.Answer)
	if f.Accepts(guess) {
		return commitGot, nil
	}
	choice, err := p.ask("commit: forgot (enter) | got it (g) | skip (s)? ")
	if err != nil {
		return commitForgot, err
	}
	switch choice {
	case "g":
		p.printf("got it!\n")
		return commitGot, nil
	case "s":
		return commitSkip, nil
	}
	return commitForgot, nil
}
