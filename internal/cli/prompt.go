package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errQuit ends an interactive session early.
var errQuit = errors.New("quit")

// prompter reads answers line by line. End of input counts as quitting.
type prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewScanner(in), out: out}
}

func (p *prompter) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		fmt.Fprintln(p.out)
		return "", errQuit
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *prompter) printf(format string, args ...any) {
	fmt.Fprintf(p.out, format, args...)
}
