package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine matches any *MalformedLineError via errors.Is.
	ErrMalformedLine = errors.New("malformed accident line")

	// ErrEncoding matches any *EncodingError via errors.Is.
	ErrEncoding = errors.New("invalid line encoding")
)

// MalformedLineError reports an accident line that does not follow the
// "<location> - <narrative> MM/DD/YY HHMM" layout.
type MalformedLineError struct {
	Source string
	Number int
	Line   string
	Reason string
}

func (e *MalformedLineError) Error() string {
	return fmt.Sprintf("%s: bad parse: %s: %q", position(e.Source, e.Number), e.Reason, e.Line)
}

func (e *MalformedLineError) Is(target error) bool {
	return target == ErrMalformedLine
}

// EncodingError reports a line whose bytes are not valid UTF-8.
type EncodingError struct {
	Source string
	Number int
	Line   string
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("%s: line is not valid UTF-8: %q", position(e.Source, e.Number), e.Line)
}

func (e *EncodingError) Is(target error) bool {
	return target == ErrEncoding
}

func position(source string, number int) string {
	if source == "" {
		source = "input"
	}
	if number <= 0 {
		return source
	}
	return fmt.Sprintf("%s:%d", source, number)
}
