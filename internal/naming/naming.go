// Package naming derives the case forms of a model name used by templates.
//
// Normalize performs no word splitting, pluralization or sanitization: the
// caller supplies a name that is already a valid identifier and path segment.
package naming

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.eggybyte.com/egg/crudgen/internal/core/errors"
)

// Name holds the normalized forms of a model name.
type Name struct {
	Lower  string `json:"lower"`  // fully lowercased, e.g. "user"
	Pascal string `json:"pascal"` // first character uppercased, rest untouched, e.g. "User"
}

// Normalize derives the Lower and Pascal forms of raw.
// An empty raw name is an INVALID_INPUT error.
func Normalize(raw string) (Name, error) {
	if raw == "" {
		return Name{}, errors.New(errors.CodeInvalidInput, "missing required name")
	}

	pascal := raw
	if first, size := utf8.DecodeRuneInString(raw); first != utf8.RuneError {
		pascal = string(unicode.ToUpper(first)) + raw[size:]
	}

	return Name{
		Lower:  strings.ToLower(raw),
		Pascal: pascal,
	}, nil
}

// Plural returns the route prefix form: Lower with a plain "s" suffix.
func (n Name) Plural() string {
	return n.Lower + "s"
}
