package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Test seams for the terminal.
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

var errPasswordMismatch = errors.New("passwords do not match")

// prompter reads secrets either from a terminal without echo or, when input
// is piped, one line at a time.
type prompter struct {
	in        io.Reader
	out       io.Writer
	fromStdin bool
	lines     *bufio.Reader
}

func newPrompter(in io.Reader, out io.Writer, fromStdin bool) *prompter {
	return &prompter{in: in, out: out, fromStdin: fromStdin}
}

func (p *prompter) interactive() bool {
	if p.fromStdin {
		return false
	}
	f, ok := p.in.(*os.File)
	return ok && isTerminal(int(f.Fd()))
}

// secret reads one password. Only the line terminator is stripped, so
// passwords may start or end with spaces.
func (p *prompter) secret(prompt string) (string, error) {
	if p.interactive() {
		if _, err := fmt.Fprint(p.out, prompt+": "); err != nil {
			return "", err
		}
		f := p.in.(*os.File)
		pw, err := readPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", err
		}
		return string(pw), nil
	}

	if p.lines == nil {
		p.lines = bufio.NewReader(p.in)
	}
	line, err := p.lines.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) || len(line) == 0 {
			return "", fmt.Errorf("read %s: %w", strings.ToLower(prompt), err)
		}
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// newSecret reads a new password. On a terminal it asks twice.
func (p *prompter) newSecret(prompt string) (string, error) {
	pw, err := p.secret(prompt)
	if err != nil {
		return "", err
	}
	if !p.interactive() {
		return pw, nil
	}
	again, err := p.secret("Repeat " + strings.ToLower(prompt))
	if err != nil {
		return "", err
	}
	if again != pw {
		return "", errPasswordMismatch
	}
	return pw, nil
}
