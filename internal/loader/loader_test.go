package loader

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lazypower/halflife/internal/deck"
)

func keys(ts []deck.Triple) []string {
	out := make([]string, len(ts))
	for i, t := range ts {
		out[i] = t.Key()
	}
	return out
}

func equal(t *testing.T, got, want []string) {
	t.Helper()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestParseText(t *testing.T) {
	src := `german numbers -- header
1 -- eins -- de.num
2 -- zwei   # two
no separator here
# 3 -- drei
hund --
 -- dog -- de.animal
 -- hound
`
	ts, err := ParseText(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseText: %v", err)
	}
	equal(t, keys(ts), []string{
		"1-[de.num]-eins",
		"2--zwei",
		"hund-[de.animal]-dog",
		"hund--hound",
	})
}

func TestParseTextSkipsHeader(t *testing.T) {
	ts, err := ParseText(strings.NewReader("a -- b\nc -- d\n"))
	if err != nil {
		t.Fatal(err)
	}
	equal(t, keys(ts), []string{"c--d"})
}

func TestParseTextMalformed(t *testing.T) {
	for name, src := range map[string]string{
		"continuation": "h\n -- orphan\n",
		"too many":     "h\na -- b -- c -- d\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := ParseText(strings.NewReader(src))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
			if !strings.Contains(err.Error(), "line 2") {
				t.Errorf("err %q does not name the line", err)
			}
		})
	}
}

func TestParseYAML(t *testing.T) {
	src := `
topic: de.num
links:
  - prompt: "1"
    answer: eins
  - prompt: {index: "2", print: two}
    answer: {index: zwei, match: zwo}
    topic: de.num.even
`
	ts, err := ParseYAML(strings.NewReader(src))
	if err != nil {
		t.Fatalf("ParseYAML: %v", err)
	}
	equal(t, keys(ts), []string{"1-[de.num]-eins", "2-[de.num.even]-zwei"})

	if got := ts[1].Prompt.DisplayLabel(); got != "two" {
		t.Errorf("label = %q, want two", got)
	}
	if !ts[1].Answer.Matches("zwo") || ts[1].Answer.Matches("zwei") {
		t.Error("rich answer should match its match string only")
	}
}

func TestParseYAMLErrors(t *testing.T) {
	for name, src := range map[string]string{
		"missing answer": "links:\n  - prompt: a\n",
		"no index":       "links:\n  - prompt: {print: a}\n    answer: b\n",
		"sequence node":  "links:\n  - prompt: [a]\n    answer: b\n",
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseYAML(strings.NewReader(src)); !errors.Is(err, ErrMalformed) {
				t.Fatalf("err = %v, want ErrMalformed", err)
			}
		})
	}

	ts, err := ParseYAML(strings.NewReader(""))
	if err != nil || len(ts) != 0 {
		t.Fatalf("empty document: %v, %v", ts, err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("b.yaml", "topic: fr\nlinks:\n  - prompt: \"1\"\n    answer: un\n")
	write("a.deck", "header\n1 -- eins -- de\n")
	write("notes.txt", "header\nx -- y\n")

	ts, err := LoadDir(dir, Options{})
	if err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	equal(t, keys(ts), []string{"1-[de]-eins", "1-[fr]-un"})

	ts, err = LoadDir(dir, Options{Reverse: true})
	if err != nil {
		t.Fatal(err)
	}
	equal(t, keys(ts), []string{"eins-[de]-1", "un-[fr]-1"})
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "nope.deck"), Options{}); err == nil {
		t.Fatal("expected error for missing file")
	}
}
