package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Prompter asks the user for values on a terminal.
type Prompter struct {
	writer io.Writer
	lines  *LineReader
	secret func() (string, error)
}

// NewPrompter creates a prompter. When input is a terminal, secrets are
// read without echo; otherwise they are read as plain lines.
func NewPrompter(input io.Reader, writer io.Writer) *Prompter {
	if input == nil {
		input = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}

	p := &Prompter{
		writer: writer,
		lines:  NewLineReader(input),
	}

	if f, ok := input.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fd := int(f.Fd())
		p.secret = func() (string, error) {
			data, err := term.ReadPassword(fd)
			_, _ = fmt.Fprintln(p.writer)
			return string(data), err
		}
	}
	return p
}

// Ask prompts for a value, returning fallback when the answer is empty.
func (p *Prompter) Ask(ctx context.Context, label, fallback string) (string, error) {
	prompt := label
	if fallback != "" {
		prompt = fmt.Sprintf("%s [%s]", label, fallback)
	}
	if _, err := fmt.Fprint(p.writer, FormatPrompt(prompt)); err != nil {
		return "", err
	}

	answer, err := p.lines.ReadLine(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	if answer == "" {
		return fallback, nil
	}
	return answer, nil
}

// Secret prompts for a value that should not be echoed.
func (p *Prompter) Secret(ctx context.Context, label string) (string, error) {
	if _, err := fmt.Fprint(p.writer, FormatPrompt(label)); err != nil {
		return "", err
	}

	if p.secret != nil {
		value, err := p.secret()
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
		}
		return value, nil
	}

	value, err := p.lines.ReadLine(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return value, nil
}

// Confirm asks a yes/no question; anything but y or yes is no.
func (p *Prompter) Confirm(ctx context.Context, question string) (bool, error) {
	answer, err := p.Ask(ctx, question+" (y/N)", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
