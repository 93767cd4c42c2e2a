package uischema

// Recognised UI schema keywords.
const (
	KeyWidget          = "ui:widget"
	KeyMeasurementType = "ui:measurementType"
	KeyHelp            = "ui:help"
	KeyPlaceholder     = "ui:placeholder"
	KeyOptions         = "ui:options"
	KeyDisabled        = "ui:disabled"
	KeyReadonly        = "ui:readonly"
	KeyOrder           = "ui:order"
	KeyIcon            = "ui:icon"
	KeyTitle           = "ui:title"
	KeyDescription     = "ui:description"
	KeySubmitLabel     = "ui:submitLabel"
)

// Node is the UI schema for one field, or for the form at the root.
type Node struct {
	Widget          string
	MeasurementType string
	Help            string
	Placeholder     string
	Icon            string
	Title           string
	Description     string
	SubmitLabel     string
	Options         map[string]string
	Disabled        *bool
	Readonly        *bool
	Order           []string
	Children        map[string]*Node
}

// Child returns the node for a direct child property.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	return n.Children[name]
}

// Empty reports whether the node carries no directives and no children.
func (n *Node) Empty() bool {
	if n == nil {
		return true
	}
	return n.Widget == "" && n.MeasurementType == "" && n.Help == "" &&
		n.Placeholder == "" && n.Icon == "" && n.Title == "" &&
		n.Description == "" && n.SubmitLabel == "" && len(n.Options) == 0 &&
		n.Disabled == nil && n.Readonly == nil && len(n.Order) == 0 &&
		len(n.Children) == 0
}
