package utils

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// tokenPunctuation is trimmed from both ends of every token
const tokenPunctuation = "?!.,;:\"'()"

// Normalize lowercases and trims the input. Vietnamese diacritics typed as
// combining sequences are composed (NFC) so patterns written with precomposed
// letters still match. Safe for any string, including "".
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(text)))
}

// Tokenize normalizes text and splits it on whitespace.
// Surrounding punctuation is stripped and tokens left empty are dropped.
func Tokenize(text string) []string {
	fields := strings.Fields(Normalize(text))
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		token := strings.Trim(field, tokenPunctuation)
		if token == "" {
			continue
		}
		tokens = append(tokens, token)
	}
	return tokens
}

// ContainsAny reports whether any keyword occurs as a substring of text.
// Both sides are expected to be normalized already.
func ContainsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if keyword != "" && strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}

// RemoveTokens drops every token found in one of the given sets and
// rejoins the rest with single spaces.
func RemoveTokens(text string, sets ...map[string]struct{}) string {
	kept := make([]string, 0)
	for _, token := range Tokenize(text) {
		if inAny(token, sets) {
			continue
		}
		kept = append(kept, token)
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

// ToSet builds a lookup set of normalized words
func ToSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[Normalize(w)] = struct{}{}
	}
	return set
}

// Truncate cuts s to at most max runes, appending "..." when something was cut
func Truncate(s string, max int) string {
	if max <= 0 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max]) + "..."
}

func inAny(token string, sets []map[string]struct{}) bool {
	for _, set := range sets {
		if _, ok := set[token]; ok {
			return true
		}
	}
	return false
}
