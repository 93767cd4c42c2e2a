package formgen

import "github.com/goliatone/go-formgen-clinical/pkg/schema"

// NewLoader constructs a schema loader.
func NewLoader(options ...schema.LoaderOption) *schema.Loader {
	return schema.NewLoader(options...)
}

// NewBuilder constructs the schema to form model builder.
func NewBuilder(options ...schema.Option) *schema.Builder {
	return schema.NewBuilder(options...)
}
