package widgets

import (
	"strings"

	"github.com/google/uuid"
)

var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/goliatone/go-formgen-clinical/widgets"))

// ControlID returns the DOM id for the control. An explicit ID wins, then
// the field name; anonymous fields get a stable name-based UUID so repeated
// renders keep the same id.
func (p Props) ControlID() string {
	if id := strings.TrimSpace(p.ID); id != "" {
		return id
	}
	if name := strings.TrimSpace(p.Name); name != "" {
		return "fg-" + strings.NewReplacer(".", "-", " ", "-").Replace(name)
	}
	seed := strings.Join([]string{p.Schema.Name, p.Label, string(p.Schema.Type)}, "|")
	return "fg-" + uuid.NewSHA1(idNamespace, []byte(seed)).String()
}

// LabelID returns the id of the control's label element.
func (p Props) LabelID() string {
	return p.ControlID() + "-label"
}

// ErrorsID returns the id of the control's error list.
func (p Props) ErrorsID() string {
	return p.ControlID() + "-errors"
}
