package cli

import (
	"errors"
	"fmt"

	"github.com/lazypower/halflife/internal/engine"
	"github.com/lazypower/halflife/internal/scheduler"
	"github.com/lazypower/halflife/internal/store"
	"github.com/spf13/cobra"
)

var (
	learnNum    int
	learnTopics []string
)

var learnCmd = &cobra.Command{
	Use:   "learn",
	Short: "Introduce new facts",
	Long:  "Show the next unseen facts in deck order and rate each one to choose how fast it is expected to fade.",
	RunE:  runLearn,
}

func init() {
	learnCmd.Flags().IntVarP(&learnNum, "num", "n", 0, "number of facts (default from config, -1 for all)")
	learnCmd.Flags().StringSliceVarP(&learnTopics, "topic", "t", nil, "restrict to facts under every listed topic")
}

func runLearn(cmd *cobra.Command, args []string) error {
	eng, closeFn, err := openEngine()
	if err != nil {
		return err
	}
	defer closeFn()

	p := newPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
	return learnSession(eng, p, scheduler.Request{Topics: learnTopics, Count: handSize(learnNum), New: true})
}

// learnSession shows each new fact and learns it with the rating given.
func learnSession(eng *engine.Engine, p *prompter, req scheduler.Request) error {
	hand := eng.Queue(req)
	if len(hand.Facts) == 0 {
		p.printf("Nothing new to learn.\n")
		return nil
	}

	sess, err := eng.StartSession(store.ModeLearn)
	if err != nil {
		return err
	}
	defer eng.EndSession(sess.SessionID)

	learned := 0
	for i, f := range hand.Facts {
		p.printf("[%d/%d] %s\n", i+1, len(hand.Facts), f.Topic)
		p.printf("  %s\n  %s\n", f.Prompt, f.Answer)
		for {
			choice, err := p.ask("rate: [e]asy [m]edium [h]ard, [s]kip, [q]uit? ")
			if errors.Is(err, errQuit) || choice == "q" {
				p.printf("Learned %d facts.\n", learned)
				return nil
			}
			if err != nil {
				return err
			}
			if choice == "s" {
				break
			}
			rating, err := engine.ParseRating(choice)
			if err != nil {
				continue
			}
			if _, err := eng.LearnRated(sess.SessionID, f.Key, rating); err != nil {
				return fmt.Errorf("learn %s: %w", f.Key, err)
			}
			learned++
			break
		}
	}
	p.printf("Learned %d facts.\n", learned)
	return nil
}
