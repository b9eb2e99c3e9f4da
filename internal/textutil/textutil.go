// Package textutil normalises panel text before it is matched against status
// keywords.
package textutil

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

var lower = cases.Lower(language.Spanish)

// Fold returns s in NFC, lower-cased with Spanish rules and with runs of
// whitespace collapsed to single spaces.
func Fold(s string) string {
	return lower.String(Clean(s))
}

// Clean applies NFC and collapses whitespace without changing case.
func Clean(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// ContainsFold reports whether needle occurs in haystack after folding both.
func ContainsFold(haystack, needle string) bool {
	return strings.Contains(Fold(haystack), Fold(needle))
}

// Truncate cuts s to at most n runes and appends "..." when it had to cut.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + "..."
}
