package validation

import (
	"errors"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrEmpty},
		{"whitespace only", "   \t\n  ", ErrEmpty},
		{"one word", "hello", ErrTooFew},
		{"four words", "this is four words", ErrTooFew},
		{"five words accepted", "this job is fully legitimate", nil},
		{"digits only", "12345 67890", ErrTooFew},
		{"digits five tokens", "111 222 333 444 555", ErrNonText},
		{"mostly symbols", "$$$ 100% @@@ ### !!! profit $$$", ErrNonText},
		{"normal posting", "Software Engineer needed urgently for remote data entry job today", nil},
		{"punctuated prose", "We are hiring: apply now, today!", nil},
		{"leading whitespace trimmed", "   remote work available apply immediately now   ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.input)
			if !errors.Is(err, tt.want) {
				t.Errorf("Validate(%q) = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestValidate_ChecksWordCountBeforeRatio(t *testing.T) {
	// Fewer than five tokens short-circuits before the letter-ratio
	// check even when the ratio would also fail.
	if err := Validate("12 34"); !errors.Is(err, ErrTooFew) {
		t.Errorf("Validate = %v, want ErrTooFew", err)
	}
}

func TestValidate_RatioBoundary(t *testing.T) {
	// 10 letters out of 25 characters is exactly 0.40 and passes.
	pass := "aa aa aa aa aa 1111111111"
	if err := Validate(pass); err != nil {
		t.Errorf("Validate(%q) = %v, want nil", pass, err)
	}

	// Long numeric string with five tokens stays below the ratio.
	fail := strings.Repeat("1234567890 ", 5)
	if err := Validate(fail); !errors.Is(err, ErrNonText) {
		t.Errorf("Validate(%q) = %v, want ErrNonText", fail, err)
	}
}
