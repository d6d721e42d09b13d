// Package validation screens raw job descriptions before they reach
// the classifier. All checks are pure functions over the input string.
package validation

import (
	"errors"
	"strings"
	"unicode"
)

const (
	// MinWords is the minimum number of whitespace-separated tokens a
	// description must contain.
	MinWords = 5
	// MinLetterRatio is the minimum share of alphabetic characters.
	// Strings dominated by digits and symbols fall below it while
	// normally punctuated prose stays above.
	MinLetterRatio = 0.40
)

var (
	ErrEmpty   = errors.New("Description cannot be empty.")
	ErrTooFew  = errors.New("Please enter at least 5 words.")
	ErrNonText = errors.New("Input seems non-text (too many numbers/symbols).")
)

// IsRejection reports whether err is one of the validation rejections,
// as opposed to an internal failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrEmpty) || errors.Is(err, ErrTooFew) || errors.Is(err, ErrNonText)
}

// Validate checks a job description and returns nil if it is
// acceptable for classification. The caller is expected to pass the
// already-trimmed text on to the classifier; Validate trims its own
// copy and never modifies the input otherwise.
//
// Checks run in order and stop at the first failure: empty after
// trimming, fewer than MinWords tokens, letter ratio below
// MinLetterRatio.
func Validate(raw string) error {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ErrEmpty
	}

	if len(strings.Fields(text)) < MinWords {
		return ErrTooFew
	}

	letters := 0
	total := 0
	for _, r := range text {
		total++
		if unicode.IsLetter(r) {
			letters++
		}
	}
	if total == 0 {
		total = 1
	}
	if float64(letters)/float64(total) < MinLetterRatio {
		return ErrNonText
	}

	return nil
}
