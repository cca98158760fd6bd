package domain

import (
	"errors"
	"unicode/utf8"
)

// MaxChars bounds the material handed to course generation.
const MaxChars = 20000

var (
	ErrUnsupportedKind = errors.New("unsupported source kind")
	ErrEmptySource     = errors.New("source is empty")
)

// Truncate keeps at most MaxChars characters of text.
func Truncate(text string) (string, bool) {
	if utf8.RuneCountInString(text) <= MaxChars {
		return text, false
	}
	n := 0
	for i := range text {
		if n == MaxChars {
			return text[:i], true
		}
		n++
	}
	return text, false
}
