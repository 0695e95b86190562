package dictionary

import "fmt"

// DuplicateTokenError is returned when a token is inserted twice.
type DuplicateTokenError struct {
	Token string
	// Line is the 1-based source line, or 0 when the token was added programmatically.
	Line int
}

func (e *DuplicateTokenError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("duplicate token %q (line %d)", e.Token, e.Line)
	}
	return fmt.Sprintf("duplicate token %q", e.Token)
}

// DuplicateIndexError is returned when an explicit index is already owned by another token.
type DuplicateIndexError struct {
	Index int
	Token string
	Owner string
	Line  int
}

func (e *DuplicateIndexError) Error() string {
	return fmt.Sprintf("index %d for token %q already assigned to %q (line %d)", e.Index, e.Token, e.Owner, e.Line)
}

// UnknownTokenError is returned when a lookup misses in either direction.
type UnknownTokenError struct {
	Token string
	Index int
}

func (e *UnknownTokenError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("unknown token %q", e.Token)
	}
	return fmt.Sprintf("unknown index %d", e.Index)
}

// InvalidLineError is returned when a dictionary line is neither `token` nor `token index`.
type InvalidLineError struct {
	Line int
	Text string
}

func (e *InvalidLineError) Error() string {
	return fmt.Sprintf("invalid dictionary line %d: %q", e.Line, e.Text)
}

// CollapseCycleError is returned when a collapse table maps a token back onto itself
// through a chain of aliases.
type CollapseCycleError struct {
	Token string
}

func (e *CollapseCycleError) Error() string {
	return fmt.Sprintf("collapse table cycles through %q", e.Token)
}
