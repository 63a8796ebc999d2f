// Package loader reads decks of facts from text and YAML files.
package loader

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/lazypower/halflife/internal/deck"
)

// ErrMalformed is returned for a deck line or document that does not
// describe a fact.
var ErrMalformed = errors.New("malformed deck")

const (
	separator = "--"
	comment   = "#"
)

// Options control how decks are turned into triples.
type Options struct {
	// Reverse swaps prompt and answer of every fact.
	Reverse bool
}

func (o Options) apply(ts []deck.Triple) []deck.Triple {
	if !o.Reverse {
		return ts
	}
	out := make([]deck.Triple, len(ts))
	for i, t := range ts {
		out[i] = t.Reversed()
	}
	return out
}

// ParseText reads a text deck. The first line is a header and is skipped.
// Each following line holds "prompt -- answer [-- topic]"; anything after
// '#' is a comment. A line ending in an empty field sets a prefix, and a
// line starting with an empty field is completed from that prefix.
func ParseText(r io.Reader) ([]deck.Triple, error) {
	var (
		out    []deck.Triple
		prefix []string
		lineNo int
	)
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		lineNo++
		if lineNo == 1 {
			continue
		}
		line, _, _ := strings.Cut(sc.Text(), comment)
		if !strings.Contains(line, separator) {
			continue
		}
		fields := strings.Split(line, separator)
		for i := range fields {
			fields[i] = strings.TrimSpace(fields[i])
		}
		if fields[0] == "" {
			if prefix == nil {
				return nil, fmt.Errorf("line %d: continuation without prefix: %w", lineNo, ErrMalformed)
			}
			fields = append(slices.Clone(prefix), fields[1:]...)
		}
		if fields[len(fields)-1] == "" {
			prefix = fields[:len(fields)-1]
			continue
		}
		t, err := textTriple(fields)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		out = append(out, t)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read deck: %w", err)
	}
	return out, nil
}

func textTriple(fields []string) (deck.Triple, error) {
	switch len(fields) {
	case 2:
		return deck.Triple{Prompt: deck.Text(fields[0]), Answer: deck.Text(fields[1])}, nil
	case 3:
		return deck.Triple{Prompt: deck.Text(fields[0]), Answer: deck.Text(fields[1]), Topic: fields[2]}, nil
	}
	return deck.Triple{}, fmt.Errorf("%d fields, want 2 or 3: %w", len(fields), ErrMalformed)
}

// LoadFile reads one deck file, choosing the format by extension.
func LoadFile(path string, opts Options) ([]deck.Triple, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open deck: %w", err)
	}
	defer f.Close()

	var ts []deck.Triple
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		ts, err = ParseYAML(f)
	default:
		ts, err = ParseText(f)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opts.apply(ts), nil
}

// Patterns are the file globs LoadDir reads.
var Patterns = []string{"*.deck", "*.yaml", "*.yml"}

// LoadDir reads every deck in dir, in file name order, and concatenates
// their triples.
func LoadDir(dir string, opts Options) ([]deck.Triple, error) {
	var paths []string
	for _, p := range Patterns {
		m, err := filepath.Glob(filepath.Join(dir, p))
		if err != nil {
			return nil, fmt.Errorf("glob decks: %w", err)
		}
		paths = append(paths, m...)
	}
	slices.Sort(paths)

	var out []deck.Triple
	for _, p := range paths {
		ts, err := LoadFile(p, opts)
		if err != nil {
			return nil, err
		}
		out = append(out, ts...)
	}
	return out, nil
}
