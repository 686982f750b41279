package ghx

import (
	"fmt"
)

// Decision is the outcome of resolving a destination conflict.
type Decision int

const (
	// Proceed writes the entry, replacing whatever is there.
	Proceed Decision = iota
	// Skip leaves the existing file alone.
	Skip
	// Prompt means the user has to be asked.
	Prompt
)

func (d Decision) String() string {
	switch d {
	case Proceed:
		return "proceed"
	case Skip:
		return "skip"
	case Prompt:
		return "prompt"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// Prompter asks the user what to do with an existing destination
// and returns the raw answer. Implementations block until the user
// answers.
type Prompter interface {
	Ask(name string) (string, error)
}

// ConflictState holds the sticky overwrite preferences of one
// extraction run. The zero value asks about every conflict.
//
// If both flags end up set, AlwaysSkip wins.
type ConflictState struct {
	AlwaysOverwrite bool
	AlwaysSkip      bool
}

// Resolve decides what to do with an entry whose destination does
// or does not exist yet.
func (s *ConflictState) Resolve(exists bool) Decision {
	switch {
	case !exists:
		return Proceed
	case s.AlwaysSkip:
		return Skip
	case s.AlwaysOverwrite:
		return Proceed
	default:
		return Prompt
	}
}

// Answer applies a user answer. y and n decide for this entry only,
// Y and N also decide for every remaining conflict of the run.
// valid is false for anything else, in which case s is unchanged.
func (s *ConflictState) Answer(answer string) (proceed, valid bool) {
	switch answer {
	case "y":
		return true, true
	case "Y":
		s.AlwaysOverwrite = true
		return true, true
	case "n":
		return false, true
	case "N":
		s.AlwaysSkip = true
		return false, true
	}
	return false, false
}

// Confirm asks p about name until it gets a valid answer and
// reports whether the entry should be written.
func (s *ConflictState) Confirm(p Prompter, name string) (bool, error) {
	if p == nil {
		return false, fmt.Errorf("%s: destination exists and no prompter is configured", name)
	}
	for {
		answer, err := p.Ask(name)
		if err != nil {
			return false, fmt.Errorf("%s: asking for overwrite: %w", name, err)
		}
		if proceed, ok := s.Answer(answer); ok {
			return proceed, nil
		}
	}
}
