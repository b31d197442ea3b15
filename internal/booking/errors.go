// AngelaMos | 2026
// errors.go

package booking

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrPastDate             = errors.New("past date")
	ErrTodayCutoff          = errors.New("today cutoff")
	ErrWindowRestriction    = errors.New("window restriction")
	ErrLunchCutoff          = errors.New("lunch cutoff")
	ErrMenuNotSet           = errors.New("menu not set")
	ErrInvalidMenuSelection = errors.New("invalid menu selection")
	ErrMessInactive         = errors.New("mess inactive")
)

// RuleError is a rejected booking action. Kind is one of the sentinels
// above, core.ErrNotFound or core.ErrConflict; Reason is shown to the user.
type RuleError struct {
	Kind   error
	Reason string
}

func (e *RuleError) Error() string {
	return e.Reason
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

func reject(kind error, format string, args ...any) *RuleError {
	return &RuleError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

func invalidSelection(meal string, offenders []string) *RuleError {
	return reject(
		ErrInvalidMenuSelection,
		"One or more of your %s picks are not valid options on this day: %s.",
		meal,
		strings.Join(offenders, ", "),
	)
}
