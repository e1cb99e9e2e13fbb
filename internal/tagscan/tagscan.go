// Package tagscan extracts values enclosed between fixed markers in a text blob.
//
// It is deliberately not a parser: the input is never checked for well-formedness
// beyond marker matching, which is all the vswhere report needs.
package tagscan

import (
	"fmt"
	"strings"

	"github.com/quantmind-br/vcfind/internal/core"
)

// StructuralError reports that a marker pair did not occur the expected number of times
type StructuralError struct {
	Open  string
	Close string
	Want  string
	Found int
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("expected %s %s...%s, found %d", e.Want, e.Open, e.Close, e.Found)
}

// Unwrap lets callers match structural errors with errors.Is(err, core.ErrMalformedReport)
func (e *StructuralError) Unwrap() error {
	return core.ErrMalformedReport
}

// FindAll returns every disjoint span enclosed by open and close, in input order.
// An open marker without a matching close marker ends the scan.
func FindAll(text, open, close string) []string {
	var spans []string

	rest := text
	for {
		start := strings.Index(rest, open)
		if start < 0 {
			return spans
		}
		rest = rest[start+len(open):]

		end := strings.Index(rest, close)
		if end < 0 {
			return spans
		}
		spans = append(spans, rest[:end])
		rest = rest[end+len(close):]
	}
}

// FindAtMostOne returns the single enclosed span, if any.
// More than one match is a structural error.
func FindAtMostOne(text, open, close string) (string, bool, error) {
	spans := FindAll(text, open, close)
	switch len(spans) {
	case 0:
		return "", false, nil
	case 1:
		return spans[0], true, nil
	default:
		return "", false, &StructuralError{Open: open, Close: close, Want: "at most one", Found: len(spans)}
	}
}

// FindExactlyOne returns the enclosed span, failing unless exactly one exists
func FindExactlyOne(text, open, close string) (string, error) {
	spans := FindAll(text, open, close)
	if len(spans) != 1 {
		return "", &StructuralError{Open: open, Close: close, Want: "exactly one", Found: len(spans)}
	}
	return spans[0], nil
}
