package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/urfave/cli/v3"

	"github.com/goliatone/go-formgen-clinical/internal/logging"
	"github.com/goliatone/go-formgen-clinical/pkg/measurement"
	"github.com/goliatone/go-formgen-clinical/pkg/model"
	"github.com/goliatone/go-formgen-clinical/pkg/schema"
	"github.com/goliatone/go-formgen-clinical/pkg/validation"
)

const (
	extensionNamespace       = "x-formgen"
	measurementTypeExtension = "x-measurement-type"
)

type violation struct {
	file     string
	location string
	message  string
}

func newLintCommand() *cli.Command {
	return &cli.Command{
		Name:      "lint",
		Usage:     "Check schemas and their x-formgen extensions",
		ArgsUsage: "<schema>...",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "component",
				Usage: "schema name under components.schemas for OpenAPI documents",
			},
		},
		Action: runLint,
	}
}

func runLint(ctx context.Context, cmd *cli.Command) error {
	paths := cmd.Args().Slice()
	if len(paths) == 0 {
		return errSchemaRequired
	}
	var parseOpts []schema.ParseOption
	if component := strings.TrimSpace(cmd.String("component")); component != "" {
		parseOpts = append(parseOpts, schema.WithComponent(component))
	}

	var violations []violation
	for _, path := range paths {
		linted, err := lintFile(ctx, path, parseOpts)
		if err != nil {
			return fmt.Errorf("lint %s: %w", path, err)
		}
		violations = append(violations, linted...)
	}

	logging.Logger(logging.SourceCLI).Debug("lint finished", "files", len(paths), "violations", len(violations))
	if len(violations) == 0 {
		return nil
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].file == violations[j].file {
			if violations[i].location == violations[j].location {
				return violations[i].message < violations[j].message
			}
			return violations[i].location < violations[j].location
		}
		return violations[i].file < violations[j].file
	})
	out := stdout(cmd)
	for _, v := range violations {
		fmt.Fprintf(out, "%s: %s -> %s\n", v.file, v.location, v.message)
	}
	return errLintFailed
}

func lintFile(ctx context.Context, path string, parseOpts []schema.ParseOption) ([]violation, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	src := schema.SourceFromFile(path)

	result := validation.ValidateSchema(ctx, src, raw, parseOpts...)
	if !result.Valid {
		out := make([]violation, 0, len(result.Issues))
		for _, issue := range result.Issues {
			out = append(out, violation{file: path, location: formatLocation(issue.Field), message: issue.Message})
		}
		return out, nil
	}

	doc, err := schema.NewDocument(src, raw)
	if err != nil {
		return nil, err
	}
	parsed, err := schema.Parse(ctx, doc, parseOpts...)
	if err != nil {
		return nil, err
	}
	return lintSchema(path, parsed, "", parsed.Root), nil
}

func lintSchema(file string, parsed *schema.Parsed, path string, s *openapi3.Schema) []violation {
	if s == nil {
		return nil
	}
	result := lintExtensions(file, path, s.Extensions)

	for _, name := range parsed.Properties(path, s) {
		ref := s.Properties[name]
		if ref == nil {
			continue
		}
		result = append(result, lintSchema(file, parsed, joinPath(path, name), ref.Value)...)
	}
	if s.Items != nil {
		result = append(result, lintSchema(file, parsed, joinPath(path, "items"), s.Items.Value)...)
	}
	return result
}

func lintExtensions(file, path string, extensions map[string]any) []violation {
	if len(extensions) == 0 {
		return nil
	}

	keys := make([]string, 0, len(extensions))
	for key := range extensions {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var result []violation
	for _, key := range keys {
		value := extensions[key]
		switch {
		case key == extensionNamespace:
			nested, ok := value.(map[string]any)
			if !ok {
				result = append(result, violation{
					file:     file,
					location: formatLocation(path),
					message:  fmt.Sprintf("%s must be an object, found %T", extensionNamespace, value),
				})
				continue
			}
			nestedKeys := make([]string, 0, len(nested))
			for nestedKey := range nested {
				nestedKeys = append(nestedKeys, nestedKey)
			}
			sort.Strings(nestedKeys)
			for _, nestedKey := range nestedKeys {
				result = append(result, validateHint(file, path, nestedKey, nested[nestedKey])...)
			}
		case strings.HasPrefix(key, extensionNamespace+"-"):
			result = append(result, validateHint(file, path, strings.TrimPrefix(key, extensionNamespace+"-"), value)...)
		case key == measurementTypeExtension:
			result = append(result, validateMeasurementType(file, path, value)...)
		}
	}
	return result
}

func validateHint(file, path, key string, value any) []violation {
	location := formatLocation(path)
	if key == "" {
		return []violation{{file: file, location: location, message: "extension key is empty"}}
	}
	if !model.IsAllowedUIHintKey(key) {
		return []violation{{
			file:     file,
			location: location,
			message:  fmt.Sprintf("unsupported UI extension key %q (supported: %s)", key, strings.Join(model.AllowedUIHintKeys(), ", ")),
		}}
	}
	if _, ok := model.CanonicalizeExtensionValue(value); !ok {
		return []violation{{
			file:     file,
			location: location,
			message:  fmt.Sprintf("value for %q must be a string, number, or boolean (got %T)", key, value),
		}}
	}
	if key == model.HintMeasurementType {
		return validateMeasurementType(file, path, value)
	}
	return nil
}

func validateMeasurementType(file, path string, value any) []violation {
	typ, _ := model.CanonicalizeExtensionValue(value)
	if _, ok := measurement.Builtin(typ); ok {
		return nil
	}
	return []violation{{
		file:     file,
		location: formatLocation(path),
		message:  fmt.Sprintf("unknown measurement type %q renders as %s (known: %s)", typ, measurement.DefaultType, strings.Join(measurement.Types(), ", ")),
	}}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func formatLocation(path string) string {
	if path == "" {
		return "(root)"
	}
	return path
}
