package rulelang

import "errors"

// ParsingErrorKind tags why a transformation command failed to parse (§7).
type ParsingErrorKind uint8

const (
	UnknownKeyword ParsingErrorKind = iota
	MalformedCommand
)

func (k ParsingErrorKind) String() string {
	if k == UnknownKeyword {
		return "UnknownKeyword"
	}
	return "MalformedCommand"
}

// ParsingError is the §7 ParsingError{kind, command} error.
type ParsingError struct {
	Kind    ParsingErrorKind
	Command string
}

func (e *ParsingError) Error() string {
	return "rulelang: " + e.Kind.String() + ": " + e.Command
}

func (e *ParsingError) Is(target error) bool {
	return target == ErrParsing
}

// ErrParsing is the errors.Is sentinel matching any *ParsingError.
var ErrParsing = errors.New("rulelang: cannot parse command")
