package uischema

import (
	"fmt"

	pkgmodel "github.com/goliatone/go-formgen-clinical/pkg/model"
)

// HintSubmitLabel carries ui:submitLabel on the form model.
const HintSubmitLabel = "submitLabel"

const orderWildcard = "*"

// Decorator applies a UI schema node to a form model.
type Decorator struct {
	root *Node
}

var _ pkgmodel.Decorator = (*Decorator)(nil)

// NewDecorator builds a Decorator for root. A nil root makes it a no-op.
func NewDecorator(root *Node) *Decorator {
	return &Decorator{root: root}
}

// Decorator returns a decorator that picks the document matching form.ID and
// leaves forms without one untouched.
func (s *Store) Decorator() pkgmodel.Decorator {
	return pkgmodel.DecoratorFunc(func(form *pkgmodel.FormModel) error {
		if form == nil {
			return nil
		}
		node, ok := s.Form(form.ID)
		if !ok {
			return nil
		}
		return NewDecorator(node).Decorate(form)
	})
}

// Decorate overlays the UI schema onto form. Children naming fields the form
// does not have are reported as errors.
func (d *Decorator) Decorate(form *pkgmodel.FormModel) error {
	if d == nil || d.root.Empty() || form == nil {
		return nil
	}
	root := d.root

	if root.Title != "" {
		form.Title = root.Title
	}
	if root.Description != "" {
		form.Description = root.Description
	}
	if root.SubmitLabel != "" {
		if form.UIHints == nil {
			form.UIHints = make(map[string]string)
		}
		form.UIHints[HintSubmitLabel] = root.SubmitLabel
	}
	if len(root.Options) > 0 {
		form.UIHints = pkgmodel.MergeHints(form.UIHints, root.Options)
	}

	return applyChildren(form.Fields, root, "")
}

func applyChildren(fields []pkgmodel.Field, node *Node, parent string) error {
	for name, child := range node.Children {
		field := findField(fields, name)
		if field == nil {
			return fmt.Errorf("uischema: unknown field %q", joinPath(parent, name))
		}
		path := joinPath(parent, name)
		applyField(field, child)
		if len(child.Children) > 0 || len(child.Order) > 0 {
			if len(field.Nested) == 0 {
				return fmt.Errorf("uischema: field %q has no nested fields", path)
			}
			if err := applyChildren(field.Nested, child, path); err != nil {
				return err
			}
		}
	}
	if len(node.Order) > 0 {
		if err := reorder(fields, node.Order, parent); err != nil {
			return err
		}
	}
	return nil
}

func applyField(field *pkgmodel.Field, node *Node) {
	if node.Title != "" {
		field.Label = node.Title
	}
	if node.Description != "" {
		field.Description = node.Description
	}
	if node.Placeholder != "" {
		field.Placeholder = node.Placeholder
		field.SetHint(pkgmodel.HintPlaceholder, node.Placeholder)
	}
	if node.Widget != "" {
		field.SetHint(pkgmodel.HintWidget, node.Widget)
	}
	if node.MeasurementType != "" {
		field.SetHint(pkgmodel.HintMeasurementType, node.MeasurementType)
	}
	if node.Help != "" {
		field.SetHint(pkgmodel.HintHelpText, node.Help)
	}
	if node.Icon != "" {
		field.SetHint(pkgmodel.HintIcon, node.Icon)
	}
	if node.Disabled != nil {
		field.Disabled = *node.Disabled
	}
	if node.Readonly != nil {
		field.Readonly = *node.Readonly
	}
	for key, value := range node.Options {
		field.SetHint(key, value)
	}
}

// reorder sorts fields in place following order. Fields the list omits take
// the wildcard's position, or go last when there is no wildcard.
func reorder(fields []pkgmodel.Field, order []string, parent string) error {
	index := make(map[string]int, len(fields))
	for i, field := range fields {
		index[field.Name] = i
	}

	wildcard := -1
	listed := make(map[string]struct{}, len(order))
	for i, name := range order {
		if name == orderWildcard {
			wildcard = i
			continue
		}
		if _, ok := index[name]; !ok {
			return fmt.Errorf("uischema: order for %q lists unknown field %q", orderScope(parent), name)
		}
		listed[name] = struct{}{}
	}

	rest := make([]pkgmodel.Field, 0, len(fields))
	for _, field := range fields {
		if _, ok := listed[field.Name]; !ok {
			rest = append(rest, field)
		}
	}

	out := make([]pkgmodel.Field, 0, len(fields))
	for i, name := range order {
		if i == wildcard {
			out = append(out, rest...)
			continue
		}
		out = append(out, fields[index[name]])
	}
	if wildcard < 0 {
		out = append(out, rest...)
	}
	copy(fields, out)
	return nil
}

func findField(fields []pkgmodel.Field, name string) *pkgmodel.Field {
	for i := range fields {
		if fields[i].Name == name {
			return &fields[i]
		}
	}
	return nil
}

func orderScope(parent string) string {
	if parent == "" {
		return "form"
	}
	return parent
}
