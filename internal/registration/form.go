package registration

import (
	"errors"
	"fmt"
)

var (
	// ErrSubmitDisabled is returned when a submit is attempted while the
	// record fails the schema.
	ErrSubmitDisabled = errors.New("submit disabled: form is invalid")
	// ErrSubmitInFlight is returned when a submit or change is attempted while
	// a request is still outstanding.
	ErrSubmitInFlight = errors.New("submit already in flight")
	// ErrNoSubmitInFlight is returned when an outcome arrives with no
	// outstanding request to attach it to.
	ErrNoSubmitInFlight = errors.New("no submit in flight")
)

// Form is the registration form state: values, per-field errors, the derived
// submit-enabled flag, the in-flight flag and the last outcome.
//
// Form is a value type; copies are independent. Mutating methods use pointer
// receivers so the owner (a Bubble Tea model) updates its own copy in place.
type Form struct {
	schema   *Schema
	values   Values
	errors   Errors
	enabled  bool
	inFlight bool
	outcome  Outcome
}

// NewForm returns a form at its initial state. A nil schema uses DefaultSchema.
func NewForm(schema *Schema) Form {
	if schema == nil {
		schema = defaultSchema
	}
	f := Form{schema: schema, values: InitialValues()}
	f.revalidate()
	return f
}

// Values returns the current record.
func (f Form) Values() Values { return f.values }

// Errors returns the current per-field messages.
func (f Form) Errors() Errors { return f.errors }

// Error returns the message for one field.
func (f Form) Error(field Field) string { return f.errors.Get(field) }

// SubmitEnabled reports whether the whole record passes the schema.
func (f Form) SubmitEnabled() bool { return f.enabled }

// InFlight reports whether a submit is awaiting its outcome.
func (f Form) InFlight() bool { return f.inFlight }

// CanSubmit reports whether BeginSubmit would succeed.
func (f Form) CanSubmit() bool { return f.enabled && !f.inFlight }

// Outcome returns the last resolved submit result.
func (f Form) Outcome() Outcome { return f.outcome }

// Change replaces one field's value, re-validates only that field, then
// re-derives the submit-enabled flag from the whole record. Other fields'
// messages are left alone.
func (f *Form) Change(field Field, in Input) error {
	if f.inFlight {
		return ErrSubmitInFlight
	}
	next, err := f.values.with(field, in.value())
	if err != nil {
		return err
	}
	msg, err := f.rules().ValidateField(field, next.Get(field))
	if err != nil {
		return err
	}
	f.values = next
	f.errors.set(field, msg)
	f.revalidate()
	return nil
}

// BeginSubmit marks a request as in flight and returns the record to send.
// It refuses when the form is invalid or a request is already outstanding.
func (f *Form) BeginSubmit() (Values, error) {
	if f.inFlight {
		return Values{}, ErrSubmitInFlight
	}
	if !f.enabled {
		return Values{}, ErrSubmitDisabled
	}
	f.inFlight = true
	return f.values, nil
}

// Succeed records a successful submit: the record returns to its initial
// state and the outcome becomes Success(message).
func (f *Form) Succeed(message string) error {
	if !f.inFlight {
		return ErrNoSubmitInFlight
	}
	f.inFlight = false
	f.values = InitialValues()
	f.errors = Errors{}
	f.outcome = Success(message)
	f.revalidate()
	return nil
}

// Fail records a failed submit. The record is kept as sent so the user can
// correct it and retry.
func (f *Form) Fail(message string) error {
	if !f.inFlight {
		return ErrNoSubmitInFlight
	}
	f.inFlight = false
	f.outcome = Failure(message)
	return nil
}

// revalidate is the form-level effect run after every values change.
func (f *Form) revalidate() {
	f.enabled = f.rules().IsValid(f.values)
}

// rules lets the zero Form behave like NewForm(nil).
func (f Form) rules() *Schema {
	if f.schema == nil {
		return defaultSchema
	}
	return f.schema
}

func (f Form) String() string {
	return fmt.Sprintf("form{values=%+v enabled=%t inFlight=%t outcome=%s}",
		f.values, f.enabled, f.inFlight, f.outcome)
}
