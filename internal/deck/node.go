// Package deck indexes the facts of a knowledge graph by topic and by
// review status.
package deck

// Node is one side of a fact. The index depends only on IdentityKey;
// DisplayLabel and Matches are used by whoever presents the fact.
type Node interface {
	IdentityKey() string
	DisplayLabel() string
	Matches(guess string) bool
}

// Text is a node whose identity, label and expected answer are one string.
type Text string

func (t Text) IdentityKey() string { return string(t) }
func (t Text) DisplayLabel() string { return string(t) }
func (t Text) Matches(guess string) bool { return string(t) == guess }

// Rich is a node with separate strings for indexing, matching and display.
// Empty Match or Print fall back to Index.
type Rich struct {
	Index string `json:"index" yaml:"index"`
	Match string `json:"match,omitempty" yaml:"match,omitempty"`
	Print string `json:"print,omitempty" yaml:"print,omitempty"`
}

func (r Rich) IdentityKey() string { return r.Index }

func (r Rich) DisplayLabel() string {
	if r.Print != "" {
		return r.Print
	}
	return r.Index
}

func (r Rich) Matches(guess string) bool {
	if r.Match != "" {
		return r.Match == guess
	}
	return r.Index == guess
}
