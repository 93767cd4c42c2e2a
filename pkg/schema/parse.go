package schema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Parsed is a decoded JSON Schema plus the declared order of every
// properties map, which openapi3.Schemas does not keep.
type Parsed struct {
	Root  *openapi3.Schema
	order map[string][]string
}

// ParseOption configures Parse.
type ParseOption func(*parseConfig)

type parseConfig struct {
	component string
	validate  bool
}

// WithComponent selects the schema under components.schemas when the
// document is an OpenAPI description rather than a bare JSON Schema.
func WithComponent(name string) ParseOption {
	return func(cfg *parseConfig) {
		cfg.component = strings.TrimSpace(name)
	}
}

// WithoutSchemaValidation skips the structural validation kin-openapi runs
// over the decoded schema.
func WithoutSchemaValidation() ParseOption {
	return func(cfg *parseConfig) {
		cfg.validate = false
	}
}

// Parse decodes a JSON or YAML schema. Bare JSON Schemas may reference
// "#/$defs/..." and "#/definitions/..."; OpenAPI documents are resolved by
// the kin-openapi loader and may reference any component.
func Parse(ctx context.Context, doc Document, options ...ParseOption) (*Parsed, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cfg := parseConfig{validate: true}
	for _, opt := range options {
		if opt != nil {
			opt(&cfg)
		}
	}

	raw := doc.Raw()
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		// JSON never carries raw tabs inside strings, but yaml.v3 rejects
		// them as indentation.
		raw = bytes.ReplaceAll(raw, []byte("\t"), []byte(" "))
	}
	var node yaml.Node
	if err := yaml.Unmarshal(raw, &node); err != nil {
		return nil, fmt.Errorf("schema: %s: decode: %w", doc.Location(), err)
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("schema: %s: document must be an object", doc.Location())
	}
	root := node.Content[0]

	var generic map[string]any
	if err := root.Decode(&generic); err != nil {
		return nil, fmt.Errorf("schema: %s: decode: %w", doc.Location(), err)
	}

	var (
		schema *openapi3.Schema
		target = root
		err    error
	)
	if _, ok := generic["openapi"]; ok {
		var name string
		schema, name, err = fromOpenAPI(ctx, generic, cfg.component)
		if err == nil {
			target = pointerNode(root, "#/components/schemas/"+escapePointer(name))
		}
	} else {
		schema, err = fromJSONSchema(generic)
	}
	if err != nil {
		return nil, fmt.Errorf("schema: %s: %w", doc.Location(), err)
	}

	if err := checkResolved(schema, "", nil); err != nil {
		return nil, fmt.Errorf("schema: %s: %w", doc.Location(), err)
	}
	if cfg.validate {
		err := schema.Validate(ctx,
			openapi3.DisableExamplesValidation(),
			openapi3.AllowExtraSiblingFields(documentKeywords...),
		)
		if err != nil {
			return nil, fmt.Errorf("schema: %s: validate: %w", doc.Location(), err)
		}
	}

	parsed := &Parsed{Root: schema, order: make(map[string][]string)}
	collectOrder(root, target, "", parsed.order, 0)
	return parsed, nil
}

// Order returns the declared property order of the object at a dotted field
// path ("" for the root). Nil means the order is unknown.
func (p *Parsed) Order(path string) []string {
	if p == nil {
		return nil
	}
	return append([]string(nil), p.order[path]...)
}

// Lookup returns the schema found at a dotted field path.
func (p *Parsed) Lookup(path string) (*openapi3.Schema, bool) {
	if p == nil || p.Root == nil {
		return nil, false
	}
	current := p.Root
	if path == "" {
		return current, true
	}
	for _, segment := range strings.Split(path, ".") {
		ref, ok := current.Properties[segment]
		if !ok || ref == nil || ref.Value == nil {
			return nil, false
		}
		current = ref.Value
	}
	return current, true
}

// Properties lists the property names of s in declared order, falling back
// to alphabetical order for names the document did not record.
func (p *Parsed) Properties(path string, s *openapi3.Schema) []string {
	if s == nil || len(s.Properties) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.Properties))
	seen := make(map[string]struct{}, len(s.Properties))
	for _, name := range p.Order(path) {
		if _, ok := s.Properties[name]; ok {
			out = append(out, name)
			seen[name] = struct{}{}
		}
	}
	rest := make([]string, 0, len(s.Properties)-len(out))
	for name := range s.Properties {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(out, rest...)
}

func fromOpenAPI(ctx context.Context, generic map[string]any, component string) (*openapi3.Schema, string, error) {
	components, _ := generic["components"].(map[string]any)
	declared, _ := components["schemas"].(map[string]any)
	if len(declared) == 0 {
		return nil, "", errors.New("openapi document has no components.schemas")
	}
	if component == "" {
		if len(declared) != 1 {
			return nil, "", errors.New("openapi document declares several schemas; pick one with WithComponent")
		}
		for name := range declared {
			component = name
		}
	}

	payload, err := json.Marshal(generic)
	if err != nil {
		return nil, "", fmt.Errorf("encode: %w", err)
	}
	loader := openapi3.NewLoader()
	loader.Context = ctx
	api, err := loader.LoadFromData(payload)
	if err != nil {
		return nil, "", fmt.Errorf("load openapi: %w", err)
	}
	ref, ok := api.Components.Schemas[component]
	if !ok || ref == nil || ref.Value == nil {
		return nil, "", fmt.Errorf("component %q not found", component)
	}
	return ref.Value, component, nil
}

// documentKeywords are JSON Schema keywords that only carry document
// structure; openapi3.Schema has no field for them.
var documentKeywords = []string{"$schema", "$id", "$defs", "$comment", "definitions"}

func fromJSONSchema(generic map[string]any) (*openapi3.Schema, error) {
	body := make(map[string]any, len(generic))
	for key, value := range generic {
		body[key] = value
	}
	for _, key := range documentKeywords {
		delete(body, key)
	}
	root, err := decodeSchema(body)
	if err != nil {
		return nil, err
	}
	r := &refResolver{
		root:     root,
		defs:     definitions(generic),
		resolved: make(map[string]*openapi3.Schema),
		walked:   make(map[*openapi3.Schema]struct{}),
	}
	if err := r.walk(root); err != nil {
		return nil, err
	}
	return root, nil
}

func decodeSchema(raw any) (*openapi3.Schema, error) {
	payload, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("encode: %w", err)
	}
	var out openapi3.Schema
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, fmt.Errorf("decode schema: %w", err)
	}
	return &out, nil
}

func definitions(generic map[string]any) map[string]any {
	out := make(map[string]any)
	for _, key := range []string{"definitions", "$defs"} {
		if defs, ok := generic[key].(map[string]any); ok {
			for name, def := range defs {
				out["#/"+key+"/"+escapePointer(name)] = def
			}
		}
	}
	return out
}

type refResolver struct {
	root     *openapi3.Schema
	defs     map[string]any
	resolved map[string]*openapi3.Schema
	walked   map[*openapi3.Schema]struct{}
}

func (r *refResolver) walk(s *openapi3.Schema) error {
	if s == nil {
		return nil
	}
	if _, ok := r.walked[s]; ok {
		return nil
	}
	r.walked[s] = struct{}{}

	for _, ref := range childRefs(s) {
		if ref == nil {
			continue
		}
		if ref.Value == nil && ref.Ref != "" {
			target, err := r.resolve(ref.Ref)
			if err != nil {
				return err
			}
			ref.Value = target
		}
		if err := r.walk(ref.Value); err != nil {
			return err
		}
	}
	return nil
}

func (r *refResolver) resolve(ref string) (*openapi3.Schema, error) {
	if ref == "#" {
		return r.root, nil
	}
	if s, ok := r.resolved[ref]; ok {
		return s, nil
	}
	raw, ok := r.defs[ref]
	if !ok {
		return nil, fmt.Errorf("unresolved reference %q", ref)
	}
	s, err := decodeSchema(raw)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ref, err)
	}
	r.resolved[ref] = s
	return s, nil
}

func childRefs(s *openapi3.Schema) []*openapi3.SchemaRef {
	var refs []*openapi3.SchemaRef
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		refs = append(refs, s.Properties[name])
	}
	refs = append(refs, s.Items, s.Not, s.AdditionalProperties.Schema)
	refs = append(refs, s.AllOf...)
	refs = append(refs, s.AnyOf...)
	refs = append(refs, s.OneOf...)
	return refs
}

// checkResolved rejects references nothing could satisfy and cycles through
// properties, which no form can render.
func checkResolved(s *openapi3.Schema, path string, stack []*openapi3.Schema) error {
	for _, seen := range stack {
		if seen == s {
			return fmt.Errorf("recursive schema at %q", path)
		}
	}
	stack = append(stack, s)

	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		ref := s.Properties[name]
		child := joinPath(path, name)
		if ref == nil || ref.Value == nil {
			if ref != nil && ref.Ref != "" {
				return fmt.Errorf("unresolved reference %q at %q", ref.Ref, child)
			}
			return fmt.Errorf("empty schema at %q", child)
		}
		if err := checkResolved(ref.Value, child, stack); err != nil {
			return err
		}
	}
	if s.Items != nil {
		if s.Items.Value == nil {
			return fmt.Errorf("unresolved reference %q at %q", s.Items.Ref, joinPath(path, "items"))
		}
		return checkResolved(s.Items.Value, path, stack)
	}
	return nil
}

// collectOrder records the key order of every properties mapping reachable
// from node. References are followed against the document root.
func collectOrder(root, node *yaml.Node, path string, out map[string][]string, depth int) {
	if node == nil || node.Kind != yaml.MappingNode || depth > 32 {
		return
	}
	if ref := mappingValue(node, "$ref"); ref != nil && ref.Kind == yaml.ScalarNode {
		collectOrder(root, pointerNode(root, ref.Value), path, out, depth+1)
	}
	props := mappingValue(node, "properties")
	if props == nil || props.Kind != yaml.MappingNode {
		return
	}
	keys := make([]string, 0, len(props.Content)/2)
	for i := 0; i+1 < len(props.Content); i += 2 {
		key := props.Content[i].Value
		keys = append(keys, key)
		collectOrder(root, props.Content[i+1], joinPath(path, key), out, depth+1)
	}
	if _, exists := out[path]; !exists {
		out[path] = keys
	}
}

func mappingValue(node *yaml.Node, key string) *yaml.Node {
	if node == nil || node.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	return nil
}

func pointerNode(root *yaml.Node, ref string) *yaml.Node {
	if !strings.HasPrefix(ref, "#") {
		return nil
	}
	current := root
	for _, segment := range strings.Split(strings.TrimPrefix(ref, "#"), "/") {
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		current = mappingValue(current, segment)
		if current == nil {
			return nil
		}
	}
	return current
}

func escapePointer(name string) string {
	name = strings.ReplaceAll(name, "~", "~0")
	return strings.ReplaceAll(name, "/", "~1")
}

func joinPath(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
