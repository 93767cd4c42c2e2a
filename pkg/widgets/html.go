package widgets

import (
	"html"
	"strings"
)

// Attr writes ` name="value"` with the value escaped. Empty values are
// skipped.
func Attr(b *strings.Builder, name, value string) {
	if value == "" {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
	b.WriteString(`="`)
	b.WriteString(html.EscapeString(value))
	b.WriteByte('"')
}

// BoolAttr writes a bare boolean attribute when on is true.
func BoolAttr(b *strings.Builder, name string, on bool) {
	if !on {
		return
	}
	b.WriteByte(' ')
	b.WriteString(name)
}

// StateAttrs writes the disabled/readonly/required attributes and the
// aria-invalid flag.
func StateAttrs(b *strings.Builder, p Props) {
	BoolAttr(b, "disabled", p.Disabled)
	BoolAttr(b, "readonly", p.Readonly)
	BoolAttr(b, "required", p.Required)
	if len(p.RawErrors) > 0 {
		Attr(b, "aria-invalid", "true")
		Attr(b, "aria-describedby", p.ErrorsID())
	}
}

// WriteErrors renders the host-supplied validation messages verbatim.
func WriteErrors(b *strings.Builder, p Props) {
	messages := make([]string, 0, len(p.RawErrors))
	for _, msg := range p.RawErrors {
		if msg = strings.TrimSpace(msg); msg != "" {
			messages = append(messages, msg)
		}
	}
	if len(messages) == 0 {
		return
	}
	b.WriteString(`<ul class="fg-errors"`)
	Attr(b, "id", p.ErrorsID())
	b.WriteString(` role="alert">`)
	for _, msg := range messages {
		b.WriteString(`<li>`)
		b.WriteString(html.EscapeString(msg))
		b.WriteString(`</li>`)
	}
	b.WriteString(`</ul>`)
}

// SanitizeClassList drops reserved `fg-` classes from user-supplied class
// hints.
func SanitizeClassList(value string) string {
	tokens := strings.Fields(value)
	keep := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if strings.HasPrefix(token, "fg-") {
			continue
		}
		keep = append(keep, token)
	}
	return strings.Join(keep, " ")
}

// ClassList joins base with the sanitized cssClass hint.
func ClassList(base string, p Props) string {
	if extra := SanitizeClassList(p.Hint("cssClass")); extra != "" {
		return base + " " + extra
	}
	return base
}
