package enhance

import (
	"strings"

	"git.home.luguber.info/inful/docapply/internal/lint"
)

// State is the position of one file in the enhancement loop.
type State int

const (
	StatePending State = iota
	StateGenerating
	StateValidating
	StateAccepted
	StateRetry
	StateExhausted
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateGenerating:
		return "generating"
	case StateValidating:
		return "validating"
	case StateAccepted:
		return "accepted"
	case StateRetry:
		return "retry"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Terminal reports whether the loop stops in s.
func (s State) Terminal() bool { return s == StateAccepted || s == StateExhausted }

// Outcome summarizes what the last step observed.
type Outcome int

const (
	// OutcomeNone carries no observation. Pending and Retry advance on it.
	OutcomeNone Outcome = iota
	// OutcomeNoMarker means the file has nothing to generate.
	OutcomeNoMarker
	// OutcomeEmpty means generation gave nothing usable: no text, or the input unchanged.
	OutcomeEmpty
	// OutcomeRejected means the candidate has critical lint errors or residual placeholders.
	OutcomeRejected
	// OutcomeClean means the candidate passed every check.
	OutcomeClean
)

func (o Outcome) String() string {
	switch o {
	case OutcomeNoMarker:
		return "no_marker"
	case OutcomeEmpty:
		return "empty"
	case OutcomeRejected:
		return "rejected"
	case OutcomeClean:
		return "clean"
	default:
		return "none"
	}
}

// Evaluate classifies a generation attempt. Lint errors that are not
// critical never reject a candidate.
func Evaluate(original, generated string, lintErrs []lint.Error, residual []string) Outcome {
	if strings.TrimSpace(generated) == "" || generated == original {
		return OutcomeEmpty
	}
	if len(lint.Critical(lintErrs)) > 0 || len(residual) > 0 {
		return OutcomeRejected
	}
	return OutcomeClean
}

// Next is the transition function of the loop. attempt counts the
// generation requests made so far for the file.
func Next(state State, attempt, maxAttempts int, o Outcome) State {
	failed := func() State {
		if attempt >= maxAttempts {
			return StateExhausted
		}
		return StateRetry
	}

	switch state {
	case StatePending:
		if o == OutcomeNoMarker {
			return StateAccepted
		}
		if maxAttempts <= 0 {
			return StateExhausted
		}
		return StateGenerating
	case StateGenerating:
		if o == OutcomeEmpty {
			return failed()
		}
		return StateValidating
	case StateValidating:
		if o == OutcomeClean {
			return StateAccepted
		}
		return failed()
	case StateRetry:
		return StateGenerating
	default:
		return state
	}
}

// Residual returns the tokens from tokens that content still contains.
func Residual(content string, tokens ...string) []string {
	var found []string
	for _, tok := range tokens {
		if tok != "" && strings.Contains(content, tok) {
			found = append(found, tok)
		}
	}
	return found
}
