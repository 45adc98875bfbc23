package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
)

// Prompter renders questions on a terminal and waits for a choice.
type Prompter struct {
	in  io.Reader
	out io.Writer
}

// New returns a Prompter reading keys from in and drawing to out.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: in, out: out}
}

// Select shows q and blocks until the operator picks a row.
func (p *Prompter) Select(ctx context.Context, q Question) (Answer, error) {
	if q.rows() == 0 {
		return Answer{}, errors.New("nothing to choose from")
	}

	prog := tea.NewProgram(newModel(q, defaultPageSize),
		tea.WithContext(ctx),
		tea.WithInput(p.in),
		tea.WithOutput(p.out),
	)
	final, err := prog.Run()
	if err != nil {
		return Answer{}, fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := final.(model)
	if !ok {
		return Answer{}, fmt.Errorf("unexpected prompt model %T", final)
	}
	if m.interrupted {
		return Answer{}, ErrInterrupted
	}
	return m.answer, nil
}
