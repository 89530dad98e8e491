package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/sys/unix"
)

// prompter asks the user for input line by line.
type prompter interface {
	Prompt(label string) (string, error)
	PasswordPrompt(label string) (string, error)
	Close() error
}

// newPrompter returns an interactive liner prompt when in is a terminal and
// a plain line reader otherwise (pipes, tests).
func newPrompter(in io.Reader, out io.Writer) prompter {
	if f, ok := in.(*os.File); ok && isTerminal(f) && liner.TerminalSupported() {
		state := liner.NewLiner()
		state.SetCtrlCAborts(true)

		return &linerPrompter{state: state}
	}

	if in == nil {
		in = strings.NewReader("")
	}

	return &linePrompter{scanner: bufio.NewScanner(in), out: out}
}

func isTerminal(f *os.File) bool {
	_, err := unix.IoctlGetTermios(int(f.Fd()), unix.TCGETS)

	return err == nil
}

type linerPrompter struct {
	state *liner.State
}

func (p *linerPrompter) Prompt(label string) (string, error) {
	line, err := p.state.Prompt(label)

	return line, promptErr(err)
}

func (p *linerPrompter) PasswordPrompt(label string) (string, error) {
	line, err := p.state.PasswordPrompt(label)

	return line, promptErr(err)
}

func (p *linerPrompter) Close() error { return p.state.Close() }

func promptErr(err error) error {
	if errors.Is(err, liner.ErrPromptAborted) {
		return fmt.Errorf("%w: aborted", ErrEmptyInput)
	}

	return err
}

// linePrompter reads answers from successive lines of a non-interactive
// input. Labels are still written so transcripts stay readable.
type linePrompter struct {
	scanner *bufio.Scanner
	out     io.Writer
}

func (p *linePrompter) Prompt(label string) (string, error) {
	if p.out != nil {
		_, _ = fmt.Fprint(p.out, label)
	}

	if !p.scanner.Scan() {
		if err := p.scanner.Err(); err != nil {
			return "", err
		}

		return "", fmt.Errorf("%w: expected %s", ErrEmptyInput, strings.TrimRight(label, ": "))
	}

	return strings.TrimRight(p.scanner.Text(), "\r"), nil
}

func (p *linePrompter) PasswordPrompt(label string) (string, error) {
	return p.Prompt(label)
}

func (p *linePrompter) Close() error { return nil }
