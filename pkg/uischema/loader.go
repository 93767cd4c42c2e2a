package uischema

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Store holds UI schema documents keyed by form id (the file stem).
type Store struct {
	forms map[string]*Node
}

// LoadFS walks fsys and parses every JSON/YAML UI schema file. A nil fsys
// yields an empty store.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := &Store{forms: make(map[string]*Node)}
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(name string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(name) {
			return nil
		}
		node, err := Load(fsys, name)
		if err != nil {
			return err
		}
		id := strings.TrimSuffix(path.Base(name), path.Ext(name))
		if _, exists := store.forms[id]; exists {
			return fmt.Errorf("uischema: form %q defined more than once (%s)", id, name)
		}
		store.forms[id] = node
		return nil
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Form returns the UI schema registered for id.
func (s *Store) Form(id string) (*Node, bool) {
	if s == nil {
		return nil, false
	}
	node, ok := s.forms[id]
	return node, ok
}

// IDs lists the form ids in sorted order.
func (s *Store) IDs() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.forms))
	for id := range s.forms {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// Load reads and parses a single UI schema file from fsys.
func Load(fsys fs.FS, name string) (*Node, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("uischema: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// LoadFile reads and parses a UI schema file from disk.
func LoadFile(filename string) (*Node, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("uischema: read %s: %w", filename, err)
	}
	return Parse(data, filename)
}

// Parse decodes a JSON or YAML UI schema document. source only labels errors.
func Parse(data []byte, source string) (*Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return &Node{}, nil
	}
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("uischema: parse %s: %w", source, err)
	}
	return parseNode(raw, source, "")
}

func parseNode(raw map[string]any, source, at string) (*Node, error) {
	node := &Node{}
	for key, value := range raw {
		where := joinPath(at, key)
		if !strings.HasPrefix(key, "ui:") {
			child, ok := value.(map[string]any)
			if !ok {
				if value == nil {
					continue
				}
				return nil, fmt.Errorf("uischema: %s: %s: expected an object, got %T", source, where, value)
			}
			parsed, err := parseNode(child, source, where)
			if err != nil {
				return nil, err
			}
			if node.Children == nil {
				node.Children = make(map[string]*Node)
			}
			node.Children[key] = parsed
			continue
		}

		var err error
		switch key {
		case KeyWidget:
			node.Widget, err = stringValue(value)
		case KeyMeasurementType:
			node.MeasurementType, err = stringValue(value)
		case KeyHelp:
			node.Help, err = stringValue(value)
		case KeyPlaceholder:
			node.Placeholder, err = stringValue(value)
		case KeyIcon:
			node.Icon, err = stringValue(value)
		case KeyTitle:
			node.Title, err = stringValue(value)
		case KeyDescription:
			node.Description, err = stringValue(value)
		case KeySubmitLabel:
			node.SubmitLabel, err = stringValue(value)
		case KeyDisabled:
			node.Disabled, err = boolValue(value)
		case KeyReadonly:
			node.Readonly, err = boolValue(value)
		case KeyOrder:
			node.Order, err = orderValue(value)
		case KeyOptions:
			node.Options, err = optionsValue(value)
		default:
			// Unknown directives are ignored so documents written for richer
			// renderers still load.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("uischema: %s: %s: %w", source, where, err)
		}
	}
	return node, nil
}

func stringValue(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(v), nil
	default:
		return "", fmt.Errorf("expected a string, got %T", value)
	}
}

func boolValue(value any) (*bool, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case bool:
		return &v, nil
	default:
		return nil, fmt.Errorf("expected a boolean, got %T", value)
	}
}

func orderValue(value any) ([]string, error) {
	items, ok := value.([]any)
	if !ok {
		return nil, fmt.Errorf("expected a list, got %T", value)
	}
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		name, ok := item.(string)
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("order entries must be non-empty strings")
		}
		name = strings.TrimSpace(name)
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("order lists %q more than once", name)
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out, nil
}

func optionsValue(value any) (map[string]string, error) {
	raw, ok := value.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("expected an object, got %T", value)
	}
	out := make(map[string]string, len(raw))
	for key, item := range raw {
		switch v := item.(type) {
		case nil:
			continue
		case string:
			out[key] = strings.TrimSpace(v)
		case bool:
			out[key] = strconv.FormatBool(v)
		case int:
			out[key] = strconv.Itoa(v)
		case float64:
			out[key] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			return nil, fmt.Errorf("option %q must be a scalar, got %T", key, item)
		}
	}
	return out, nil
}

func isSchemaFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

func joinPath(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}
