package validation

import (
	"context"
	"regexp"
	"strings"

	"github.com/goliatone/go-formgen-clinical/pkg/schema"
)

// Issue is a single problem found in a schema document.
type Issue struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// SchemaResult captures the outcome of ValidateSchema.
type SchemaResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// ValidateSchema parses raw the way the form builder would and reports the
// first problem found. A nil src is treated as an anonymous JSON document.
func ValidateSchema(ctx context.Context, src schema.Source, raw []byte, options ...schema.ParseOption) SchemaResult {
	if src == nil {
		src = schema.SourceFromData("schema.json")
	}
	doc, err := schema.NewDocument(src, raw)
	if err == nil {
		_, _, err = schema.NewBuilder(schema.WithParseOptions(options...)).Build(ctx, doc)
	}
	if err != nil {
		return SchemaResult{Issues: []Issue{issueFromError(err, src.Location())}}
	}
	return SchemaResult{Valid: true}
}

var fieldSuffix = regexp.MustCompile(` at "([^"]*)"$`)

func issueFromError(err error, location string) Issue {
	msg := strings.TrimSpace(err.Error())
	msg = strings.TrimPrefix(msg, "schema: ")
	if location != "" {
		msg = strings.TrimPrefix(msg, location+": ")
	}

	issue := Issue{Message: msg}
	if match := fieldSuffix.FindStringSubmatch(msg); match != nil {
		issue.Field = match[1]
		issue.Message = strings.TrimSuffix(msg, match[0])
	}
	return issue
}
