package main

import "errors"

var (
	errSchemaRequired      = errors.New("a schema path is required")
	errConvertArgs         = errors.New("convert expects <value> <from> <to>")
	errInvalidMagnitude    = errors.New("value must be a finite number")
	errUnknownOutputFormat = errors.New("format must be one of: json, form, pretty")
	errLintFailed          = errors.New("lint found problems")
)
