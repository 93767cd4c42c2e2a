package model

import (
	"strings"
	"unicode"
)

// acronyms keeps clinical abbreviations readable when field names are
// turned into labels.
var acronyms = map[string]string{
	"bmi":  "BMI",
	"bp":   "BP",
	"bpm":  "BPM",
	"hr":   "HR",
	"id":   "ID",
	"spo2": "SpO2",
}

// DefaultLabeler converts a field name into a human-friendly label. Words
// are split on underscores, dashes, spaces and camelCase boundaries.
func DefaultLabeler(name string) string {
	words := splitWords(name)
	for i, word := range words {
		lower := strings.ToLower(word)
		if acronym, ok := acronyms[lower]; ok {
			words[i] = acronym
			continue
		}
		runes := []rune(lower)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}

func splitWords(name string) []string {
	var (
		words   []string
		current []rune
	)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	runes := []rune(name)
	for i, r := range runes {
		if r == '_' || r == '-' || unicode.IsSpace(r) {
			flush()
			continue
		}
		if i > 0 && len(current) > 0 && unicode.IsUpper(r) && unicode.IsLower(runes[i-1]) {
			flush()
		}
		current = append(current, r)
	}
	flush()
	return words
}
