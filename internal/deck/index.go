package deck

import (
	"slices"
	"strings"

	"github.com/lazypower/halflife/internal/memory"
)

// Synthetic tokens maintained alongside topic tokens.
const (
	TokenAll    = ".all"
	TokenNew    = ".new"
	TokenOld    = ".old"
	TokenGot    = ".got"
	TokenForgot = ".forgot"
)

var statusTokens = []string{TokenNew, TokenOld, TokenGot, TokenForgot}

type factSet map[*Fact]struct{}

// Index maps tokens to the facts carrying them.
//
// Every fact is in .all, in exactly one of .new and .old, and, when old, in
// exactly one of .got and .forgot. Each fact is also filed under its dotted
// topic, every topic component, and its own key.
//
// An Index is not safe for concurrent mutation.
type Index struct {
	facts   []*Fact
	byKey   map[string]*Fact
	sets    map[string]factSet
	labels  [2]map[string]*labelGroup
	loaded  int
	skipped int
}

// NewIndex returns an empty index.
func NewIndex() *Index {
	return &Index{
		byKey:  make(map[string]*Fact),
		sets:   make(map[string]factSet),
		labels: [2]map[string]*labelGroup{make(map[string]*labelGroup), make(map[string]*labelGroup)},
	}
}

// Load adds the triples in order and returns the number indexed.
func (ix *Index) Load(triples []Triple) int {
	added := 0
	for _, t := range triples {
		if _, ok := ix.Add(t); ok {
			added++
		}
	}
	return added
}

// Add indexes one triple with a new record. A triple whose key is already
// indexed is skipped and reported with ok == false; the existing fact is
// returned. Every triple seen, skipped or not, consumes a load order slot.
func (ix *Index) Add(t Triple) (f *Fact, ok bool) {
	order := ix.loaded
	ix.loaded++

	key := t.Key()
	if existing, dup := ix.byKey[key]; dup {
		ix.skipped++
		return existing, false
	}

	f = &Fact{
		Prompt: t.Prompt,
		Answer: t.Answer,
		Topic:  t.Topic,
		Order:  order,
		Record: &memory.Record{},
		key:    key,
	}
	ix.facts = append(ix.facts, f)
	ix.byKey[key] = f

	ix.file(TokenAll, f)
	ix.file(key, f)
	if t.Topic != "" && !strings.HasPrefix(t.Topic, ".") {
		ix.file(t.Topic, f)
	}
	for _, topic := range f.Topics() {
		ix.file(topic, f)
	}
	ix.fileStatus(f)
	ix.number(f)
	return f, true
}

// Refresh re-files a fact under the status tokens matching its record.
// Call it after initialising, grading or replacing the record.
func (ix *Index) Refresh(f *Fact) {
	for _, tok := range statusTokens {
		delete(ix.sets[tok], f)
	}
	ix.fileStatus(f)
}

// Len is the number of indexed facts.
func (ix *Index) Len() int { return len(ix.facts) }

// Skipped is the number of duplicate triples dropped.
func (ix *Index) Skipped() int { return ix.skipped }

// Facts returns every fact in load order.
func (ix *Index) Facts() []*Fact { return slices.Clone(ix.facts) }

// Lookup returns the fact with the given key.
func (ix *Index) Lookup(key string) (*Fact, bool) {
	f, ok := ix.byKey[key]
	return f, ok
}

// Query selects facts by status and topic.
type Query struct {
	// Topics restricts to facts carrying every listed token.
	Topics []string
	// New restricts to new (true) or old (false) facts when set.
	New *bool
	// ForgotOnly restricts to facts whose last drill failed.
	ForgotOnly bool
}

// Flag returns a pointer to v, for Query.New.
func Flag(v bool) *bool { return &v }

// Query returns the intersection of the sets the query names, in load order.
// An empty query returns every fact.
func (ix *Index) Query(q Query) []*Fact {
	names := []string{TokenAll}
	if q.New != nil {
		if *q.New {
			names = append(names, TokenNew)
		} else {
			names = append(names, TokenOld)
		}
	}
	if q.ForgotOnly {
		names = append(names, TokenForgot)
	}
	names = append(names, q.Topics...)

	sets := make([]factSet, len(names))
	for i, name := range names {
		sets[i] = ix.sets[name]
		if len(sets[i]) == 0 {
			return nil
		}
	}
	slices.SortFunc(sets, func(a, b factSet) int { return len(a) - len(b) })

	var out []*Fact
	for f := range sets[0] {
		if inAll(f, sets[1:]) {
			out = append(out, f)
		}
	}
	slices.SortFunc(out, func(a, b *Fact) int { return a.Order - b.Order })
	return out
}

// Count returns len(ix.Query(q)).
func (ix *Index) Count(q Query) int {
	return len(ix.Query(q))
}

// Match returns the facts whose keys contain every substring, in load order.
func (ix *Index) Match(substrings ...string) []*Fact {
	var out []*Fact
	for _, f := range ix.facts {
		matched := true
		for _, s := range substrings {
			if !strings.Contains(f.key, s) {
				matched = false
				break
			}
		}
		if matched {
			out = append(out, f)
		}
	}
	return out
}

func inAll(f *Fact, sets []factSet) bool {
	for _, s := range sets {
		if _, ok := s[f]; !ok {
			return false
		}
	}
	return true
}

func (ix *Index) file(token string, f *Fact) {
	s, ok := ix.sets[token]
	if !ok {
		s = make(factSet)
		ix.sets[token] = s
	}
	s[f] = struct{}{}
}

func (ix *Index) fileStatus(f *Fact) {
	switch f.Record.Status() {
	case memory.New:
		ix.file(TokenNew, f)
	case memory.Forgotten:
		ix.file(TokenOld, f)
		ix.file(TokenForgot, f)
	default:
		ix.file(TokenOld, f)
		ix.file(TokenGot, f)
	}
}

// labelGroup holds the facts showing one label on one side, and the distinct
// node identities behind that label in first-seen order.
type labelGroup struct {
	ids   []string
	facts []*Fact
}

// number assigns display ordinals to nodes that share a label with a node of
// a different identity. Facts with the same node share its ordinal.
func (ix *Index) number(f *Fact) {
	sides := [2]struct {
		node func(*Fact) Node
		num  func(*Fact) *int
	}{
		{func(g *Fact) Node { return g.Prompt }, func(g *Fact) *int { return &g.promptNum }},
		{func(g *Fact) Node { return g.Answer }, func(g *Fact) *int { return &g.answerNum }},
	}
	for i, side := range sides {
		node := side.node(f)
		g, ok := ix.labels[i][node.DisplayLabel()]
		if !ok {
			g = &labelGroup{}
			ix.labels[i][node.DisplayLabel()] = g
		}
		g.facts = append(g.facts, f)
		if id := node.IdentityKey(); !slices.Contains(g.ids, id) {
			g.ids = append(g.ids, id)
		}
		if len(g.ids) < 2 {
			continue
		}
		for _, h := range g.facts {
			*side.num(h) = slices.Index(g.ids, side.node(h).IdentityKey()) + 1
		}
	}
}
