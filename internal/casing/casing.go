// Package casing converts IDL identifiers to C symbol spelling.
package casing

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Words splits s into words. Any non-alphanumeric rune separates words, as
// does a lower-to-upper transition ("fdWrite") and the last capital of an
// acronym run ("HTTPServer" -> HTTP, Server). Digits stick to the current word.
func Words(s string) []string {
	var words []string
	runes := []rune(s)
	start := -1

	flush := func(end int) {
		if start >= 0 && end > start {
			words = append(words, string(runes[start:end]))
		}
		start = -1
	}

	for i, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			flush(i)
			continue
		}
		if start < 0 {
			start = i
			continue
		}
		if unicode.IsUpper(r) {
			prev := lastCased(runes[start:i])
			if prev == caseLower {
				flush(i)
				start = i
				continue
			}
			if prev == caseUpper && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
				flush(i)
				start = i
			}
		}
	}
	flush(len(runes))

	return words
}

type letterCase int

const (
	caseNone letterCase = iota
	caseLower
	caseUpper
)

// lastCased returns the case of the last cased rune in word
func lastCased(word []rune) letterCase {
	for i := len(word) - 1; i >= 0; i-- {
		switch {
		case unicode.IsLower(word[i]):
			return caseLower
		case unicode.IsUpper(word[i]):
			return caseUpper
		}
	}
	return caseNone
}

// Snake returns s in snake_case: words lower-cased and joined with '_'.
func Snake(s string) string {
	words := Words(s)
	lower := cases.Lower(language.Und)
	for i, w := range words {
		words[i] = lower.String(w)
	}
	return strings.Join(words, "_")
}
