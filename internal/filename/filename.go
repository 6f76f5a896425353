// Package filename validates and sanitizes document titles, which double as
// file names in the notebook tree.
package filename

import (
	"errors"
	"regexp"
	"unicode/utf8"
)

// MaxTitleLength is the longest accepted title, in runes.
const MaxTitleLength = 512

var (
	ErrIllegalChar = errors.New("name contains illegal characters")
	ErrTooLong     = errors.New("name is too long")
)

var illegal = regexp.MustCompile(`\r\n|\r|\n|\x{2028}|\x{2029}|\t|/`)

// ValidateName reports whether name can be persisted as a title as-is.
func ValidateName(name string) error {
	if illegal.MatchString(name) {
		return ErrIllegalChar
	}
	if utf8.RuneCountInString(name) > MaxTitleLength {
		return ErrTooLong
	}
	return nil
}

// ReplaceFileName strips characters ValidateName rejects and truncates the
// result to MaxTitleLength runes. The output always passes ValidateName and
// applying it twice yields the same string.
func ReplaceFileName(name string) string {
	name = illegal.ReplaceAllString(name, "")
	if utf8.RuneCountInString(name) <= MaxTitleLength {
		return name
	}
	runes := []rune(name)
	return string(runes[:MaxTitleLength])
}
