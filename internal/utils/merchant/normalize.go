// Package merchant canonicalizes free-text merchant descriptions from bank
// statements so that duplicate detection and pattern detection always group
// the same merchant the same way.
package merchant

import (
	"regexp"
	"strings"
)

var (
	refNumberRe = regexp.MustCompile(`#\d+`)
	// Standalone runs of four or more digits are transaction references,
	// card fragments or terminal ids, never part of the merchant name.
	longDigitsRe = regexp.MustCompile(`\b\d{4,}\b`)
	whitespaceRe = regexp.MustCompile(`\s+`)
)

// cityTokens are location suffixes banks append to merchant descriptors.
var cityTokens = []string{
	"kyiv", "kiev", "київ",
	"lviv", "львів",
	"odesa", "odessa", "одеса",
	"kharkiv", "харків",
	"dnipro", "дніпро",
	"zaporizhzhia", "запоріжжя",
	"vinnytsia", "вінниця",
	"ukraine", "ukr", "ua",
}

// Normalize canonicalizes a merchant description: lower-case, strip
// transaction reference numbers and location tokens, collapse whitespace.
// It is idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(s string) string {
	out := strings.ToLower(s)
	out = refNumberRe.ReplaceAllString(out, " ")
	out = longDigitsRe.ReplaceAllString(out, " ")

	words := strings.Fields(out)
	kept := words[:0]
	for _, w := range words {
		if isCityToken(w) {
			continue
		}
		kept = append(kept, w)
	}
	out = strings.Join(kept, " ")
	out = whitespaceRe.ReplaceAllString(out, " ")
	return strings.TrimSpace(out)
}

func isCityToken(word string) bool {
	trimmed := strings.Trim(word, ".,;:")
	for _, city := range cityTokens {
		if trimmed == city {
			return true
		}
	}
	return false
}
