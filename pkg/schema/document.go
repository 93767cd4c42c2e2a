package schema

import (
	"errors"
	"path"
	"strings"
)

// Document wraps a raw JSON or YAML schema payload and its origin.
type Document struct {
	source Source
	raw    []byte
}

// NewDocument copies raw and pairs it with src.
func NewDocument(src Source, raw []byte) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is required")
	}
	if len(strings.TrimSpace(string(raw))) == 0 {
		return Document{}, errors.New("schema: raw document is empty")
	}
	return Document{source: src, raw: append([]byte(nil), raw...)}, nil
}

// MustNewDocument panics if the document cannot be created.
func MustNewDocument(src Source, raw []byte) Document {
	doc, err := NewDocument(src, raw)
	if err != nil {
		panic(err)
	}
	return doc
}

// Source returns the origin of the document.
func (d Document) Source() Source {
	return d.source
}

// Raw returns a copy of the payload.
func (d Document) Raw() []byte {
	return append([]byte(nil), d.raw...)
}

// Location returns the string identifier for the origin.
func (d Document) Location() string {
	if d.source == nil {
		return ""
	}
	return d.source.Location()
}

// ID derives a form identifier from the location: the final path element
// without its extension. "schemas/vitals.schema.json" becomes "vitals".
func (d Document) ID() string {
	base := path.Base(strings.ReplaceAll(d.Location(), "\\", "/"))
	if idx := strings.Index(base, "."); idx > 0 {
		base = base[:idx]
	}
	if base == "." || base == "/" {
		return ""
	}
	return base
}
