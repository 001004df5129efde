// utils/normalize.go
package utils

import (
	"strings"

	"github.com/gosimple/slug"
	"github.com/gosimple/unidecode"
	"golang.org/x/text/unicode/norm"
)

// NormalizeName trims and NFC-normalizes a meal name so "Crêpe" typed with
// a combining accent and with a precomposed one compare equal.
func NormalizeName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// Slugify produces the URL-safe, ASCII-folded form stored on each meal.
func Slugify(name string) string {
	return slug.Make(name)
}

// Fold lowercases and strips diacritics for accent-insensitive search.
func Fold(s string) string {
	return strings.ToLower(unidecode.Unidecode(strings.TrimSpace(s)))
}
