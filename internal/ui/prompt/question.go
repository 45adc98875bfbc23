// Package prompt implements the single-choice terminal prompt used at every
// step of the selection flow.
package prompt

import "errors"

// ErrInterrupted is returned when the operator aborts a prompt with ctrl+c.
var ErrInterrupted = errors.New("prompt interrupted")

// Sentinel is an extra row shown below the options, after a separator.
type Sentinel int

const (
	NoSentinel Sentinel = iota
	Cancel
	GoBack
)

// Label is the text shown for the sentinel row.
func (s Sentinel) Label() string {
	switch s {
	case Cancel:
		return "Cancel"
	case GoBack:
		return "Go Back"
	default:
		return ""
	}
}

// Question is one single-choice prompt.
type Question struct {
	Message  string
	Options  []string
	Sentinel Sentinel
}

// Answer is the operator's choice. When Sentinel is true the sentinel row was
// chosen and Index is -1.
type Answer struct {
	Index    int
	Sentinel bool
}

func (q Question) rows() int {
	if q.Sentinel == NoSentinel {
		return len(q.Options)
	}
	return len(q.Options) + 1
}

func (q Question) label(row int) string {
	if row < len(q.Options) {
		return q.Options[row]
	}
	return q.Sentinel.Label()
}

func (q Question) answer(row int) Answer {
	if row < len(q.Options) {
		return Answer{Index: row}
	}
	return Answer{Index: -1, Sentinel: true}
}
