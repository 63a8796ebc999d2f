package deck

import (
	"fmt"
	"strings"

	"github.com/lazypower/halflife/internal/memory"
)

// Triple is a fact as loaded, before indexing.
type Triple struct {
	Prompt Node
	Answer Node
	Topic  string
}

// Key is the identity key of the fact the triple describes:
// "prompt-[topic]-answer", or "prompt--answer" without a topic.
func (t Triple) Key() string {
	topic := ""
	if t.Topic != "" {
		topic = "[" + t.Topic + "]"
	}
	return fmt.Sprintf("%s-%s-%s", t.Prompt.IdentityKey(), topic, t.Answer.IdentityKey())
}

// Reversed swaps prompt and answer.
func (t Triple) Reversed() Triple {
	return Triple{Prompt: t.Answer, Answer: t.Prompt, Topic: t.Topic}
}

// Fact is an indexed triple with its memory record.
type Fact struct {
	Prompt Node
	Answer Node
	Topic  string
	Order  int
	Record *memory.Record

	key       string
	promptNum int
	answerNum int
}

// Key returns the fact's identity key.
func (f *Fact) Key() string { return f.key }

// Topics splits the dotted topic into its components.
func (f *Fact) Topics() []string {
	return splitTopic(f.Topic)
}

// PromptLabel is the prompt's display label, numbered when another fact
// shares the same label.
func (f *Fact) PromptLabel() string { return numbered(f.Prompt.DisplayLabel(), f.promptNum) }

// AnswerLabel is the answer's display label, numbered like PromptLabel.
func (f *Fact) AnswerLabel() string { return numbered(f.Answer.DisplayLabel(), f.answerNum) }

func (f *Fact) String() string {
	return f.Prompt.IdentityKey() + "--" + f.Answer.IdentityKey()
}

func numbered(label string, n int) string {
	if n == 0 {
		return label
	}
	return fmt.Sprintf("%s (%d)", label, n)
}

func splitTopic(topic string) []string {
	var out []string
	for _, part := range strings.Split(topic, ".") {
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
