// Package registration holds the account registration form: its values, the
// validation schema, and the state machine that gates and records submits.
//
// Nothing in this package touches the terminal or the network. The UI feeds
// changes in through Form.Change, sends whatever Form.BeginSubmit hands back,
// and reports the response through Form.Succeed or Form.Fail.
package registration

import (
	"errors"
	"fmt"
)

// Field names a single form field. The string value is also the JSON key sent
// to the registration endpoint.
type Field string

const (
	FieldUsername    Field = "username"
	FieldFavLanguage Field = "favLanguage"
	FieldFavFood     Field = "favFood"
	FieldAgreement   Field = "agreement"
)

// fieldCount must match the number of Field constants.
const fieldCount = 4

var allFields = [fieldCount]Field{FieldUsername, FieldFavLanguage, FieldFavFood, FieldAgreement}

// ErrUnknownField is returned when a change names a field the form doesn't have.
var ErrUnknownField = errors.New("unknown field")

// ErrInputKind is returned when the input kind doesn't fit the field, e.g. a
// text value for the agreement checkbox.
var ErrInputKind = errors.New("input kind does not match field")

// Fields returns all fields in display order.
func Fields() []Field {
	out := make([]Field, fieldCount)
	copy(out, allFields[:])
	return out
}

func (f Field) index() int {
	for i, candidate := range allFields {
		if candidate == f {
			return i
		}
	}
	return -1
}

// IsBoolean reports whether the field is edited through a checkbox.
func (f Field) IsBoolean() bool {
	return f == FieldAgreement
}

// InputKind is the kind of control that produced a change.
type InputKind int

const (
	InputText InputKind = iota
	InputSelect
	InputRadio
	InputCheckbox
)

func (k InputKind) String() string {
	switch k {
	case InputText:
		return "text"
	case InputSelect:
		return "select"
	case InputRadio:
		return "radio"
	case InputCheckbox:
		return "checkbox"
	default:
		return "unknown"
	}
}

// Input is one change event from a form control. Checkbox inputs contribute
// Checked; every other kind contributes Value.
type Input struct {
	Kind    InputKind
	Value   string
	Checked bool
}

// TextInput builds an Input for a text box.
func TextInput(value string) Input { return Input{Kind: InputText, Value: value} }

// SelectInput builds an Input for a drop-down selection.
func SelectInput(value string) Input { return Input{Kind: InputSelect, Value: value} }

// RadioInput builds an Input for a radio option.
func RadioInput(value string) Input { return Input{Kind: InputRadio, Value: value} }

// CheckboxInput builds an Input for a checkbox.
func CheckboxInput(checked bool) Input { return Input{Kind: InputCheckbox, Checked: checked} }

// value returns what the input contributes to the record.
func (in Input) value() any {
	if in.Kind == InputCheckbox {
		return in.Checked
	}
	return in.Value
}

// Values is the flat record submitted to the endpoint.
type Values struct {
	Username    string `json:"username"`
	FavLanguage string `json:"favLanguage"`
	FavFood     string `json:"favFood"`
	Agreement   bool   `json:"agreement"`
}

// InitialValues returns the empty record a fresh or freshly submitted form
// starts from.
func InitialValues() Values {
	return Values{}
}

// Get returns the current value of a field: a string for text fields and a
// bool for the agreement. Unknown fields yield nil.
func (v Values) Get(f Field) any {
	switch f {
	case FieldUsername:
		return v.Username
	case FieldFavLanguage:
		return v.FavLanguage
	case FieldFavFood:
		return v.FavFood
	case FieldAgreement:
		return v.Agreement
	}
	return nil
}

// with returns a copy of v with one field replaced.
func (v Values) with(f Field, value any) (Values, error) {
	if f.index() < 0 {
		return v, fmt.Errorf("%w: %q", ErrUnknownField, string(f))
	}
	if f.IsBoolean() {
		b, ok := value.(bool)
		if !ok {
			return v, fmt.Errorf("%w: %s wants a checkbox", ErrInputKind, f)
		}
		v.Agreement = b
		return v, nil
	}

	s, ok := value.(string)
	if !ok {
		return v, fmt.Errorf("%w: %s wants a text value", ErrInputKind, f)
	}
	switch f {
	case FieldUsername:
		v.Username = s
	case FieldFavLanguage:
		v.FavLanguage = s
	case FieldFavFood:
		v.FavFood = s
	}
	return v, nil
}

// Errors holds at most one message per field. The zero value has no errors.
type Errors struct {
	msgs [fieldCount]string
}

// Get returns the message for a field, or "" when it passed or is untouched.
func (e Errors) Get(f Field) string {
	i := f.index()
	if i < 0 {
		return ""
	}
	return e.msgs[i]
}

// Any reports whether at least one field has a message.
func (e Errors) Any() bool {
	for _, m := range e.msgs {
		if m != "" {
			return true
		}
	}
	return false
}

// Map returns the non-empty messages keyed by field.
func (e Errors) Map() map[Field]string {
	out := make(map[Field]string)
	for i, m := range e.msgs {
		if m != "" {
			out[allFields[i]] = m
		}
	}
	return out
}

func (e *Errors) set(f Field, msg string) {
	if i := f.index(); i >= 0 {
		e.msgs[i] = msg
	}
}
