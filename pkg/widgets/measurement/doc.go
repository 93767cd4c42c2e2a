// Package measurement provides the clinical measurement input widget: a
// magnitude text box, a unit selector and a status badge derived from the
// measurement type's clinical ranges.
//
// Input is a small state machine. The host owns the field value; Input keeps
// a mirror of it plus the raw text being typed, and pushes every change
// through Props.OnChange as a {"value": number|null, "unit": string} object.
package measurement
