package widgets

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Language parses the Locale prop, falling back to English for empty or
// malformed tags.
func (p Props) Language() language.Tag {
	raw := strings.TrimSpace(p.Locale)
	if raw == "" {
		return language.English
	}
	tag, err := language.Parse(raw)
	if err != nil {
		return language.English
	}
	return tag
}

// Printer returns a locale-aware printer for display strings.
func (p Props) Printer() *message.Printer {
	return message.NewPrinter(p.Language())
}
