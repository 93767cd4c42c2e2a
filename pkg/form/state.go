package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// State tracks field values and validation messages keyed by dotted paths.
// It is the owner of record for every widget value; widgets only mirror it.
type State struct {
	values map[string]any
	errors map[string][]string
}

// NewState seeds the state with prefilled values and errors. Both maps are
// deep-copied.
func NewState(prefill map[string]any, errs map[string][]string) *State {
	return &State{
		values: cloneValues(prefill),
		errors: cloneErrors(errs),
	}
}

// Values returns the current value tree. The map is shared with the state.
func (s *State) Values() map[string]any {
	if s == nil {
		return nil
	}
	return s.values
}

// Errors returns the current error lists keyed by path.
func (s *State) Errors() map[string][]string {
	if s == nil {
		return nil
	}
	return s.errors
}

// ErrorsFor returns the errors attached to a dotted path.
func (s *State) ErrorsFor(path string) []string {
	if s == nil || len(s.errors) == 0 {
		return nil
	}
	return s.errors[path]
}

// AddError appends message to the errors for path.
func (s *State) AddError(path, message string) {
	if s == nil || strings.TrimSpace(message) == "" {
		return
	}
	if s.errors == nil {
		s.errors = make(map[string][]string)
	}
	s.errors[path] = append(s.errors[path], message)
}

// SetErrors replaces every error list.
func (s *State) SetErrors(errs map[string][]string) {
	if s == nil {
		return
	}
	s.errors = cloneErrors(errs)
}

// ErrorPaths lists paths carrying at least one message, sorted.
func (s *State) ErrorPaths() []string {
	if s == nil {
		return nil
	}
	out := make([]string, 0, len(s.errors))
	for path, messages := range s.errors {
		if len(messages) > 0 {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// Get resolves a dotted path into the values tree.
func (s *State) Get(path string) (any, bool) {
	if s == nil {
		return nil, false
	}
	return getPath(s.values, path)
}

// Set writes a value using a dotted path, creating intermediate maps and
// slices as needed.
func (s *State) Set(path string, value any) error {
	if s == nil {
		return fmt.Errorf("form: state is nil")
	}
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("form: path is required")
	}
	if s.values == nil {
		s.values = make(map[string]any)
	}
	return setPath(s.values, path, value)
}

// OnChange returns a widget callback that stores its value at path.
func (s *State) OnChange(path string) func(value any) {
	return func(value any) {
		_ = s.Set(path, value)
	}
}

// Bind adapts the state to the path-aware OnChange of render options.
func (s *State) Bind() func(path string, value any) {
	return func(path string, value any) {
		_ = s.Set(path, value)
	}
}

func cloneValues(src map[string]any) map[string]any {
	if len(src) == 0 {
		return make(map[string]any)
	}
	out := make(map[string]any, len(src))
	for k, v := range src {
		out[k] = deepCopy(v)
	}
	return out
}

func cloneErrors(src map[string][]string) map[string][]string {
	if len(src) == 0 {
		return make(map[string][]string)
	}
	out := make(map[string][]string, len(src))
	for k, v := range src {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func deepCopy(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		clone := make(map[string]any, len(typed))
		for k, v := range typed {
			clone[k] = deepCopy(v)
		}
		return clone
	case []any:
		clone := make([]any, len(typed))
		for i, v := range typed {
			clone[i] = deepCopy(v)
		}
		return clone
	default:
		return typed
	}
}

func getPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	var current any = root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// setPath walks segments, growing slices for numeric segments and maps for
// everything else. A scalar sitting where a container is needed is replaced.
// root is updated in place.
func setPath(root map[string]any, path string, value any) error {
	segments := strings.Split(path, ".")
	for _, segment := range segments {
		if segment == "" {
			return fmt.Errorf("form: empty segment in path %q", path)
		}
	}
	_, err := assign(root, segments, value, path)
	return err
}

func assign(node any, segments []string, value any, path string) (any, error) {
	if len(segments) == 0 {
		return value, nil
	}
	segment := segments[0]

	if idx, err := strconv.Atoi(segment); err == nil {
		if idx < 0 {
			return nil, fmt.Errorf("form: negative index in path %q", path)
		}
		list, _ := node.([]any)
		if len(list) <= idx {
			list = append(list, make([]any, idx+1-len(list))...)
		}
		child, err := assign(list[idx], segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		list[idx] = child
		return list, nil
	}

	m, ok := node.(map[string]any)
	if !ok || m == nil {
		m = make(map[string]any)
	}
	child, err := assign(m[segment], segments[1:], value, path)
	if err != nil {
		return nil, err
	}
	m[segment] = child
	return m, nil
}
