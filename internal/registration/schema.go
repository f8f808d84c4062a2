package registration

import (
	"fmt"
	"slices"
	"strings"

	"github.com/rivo/uniseg"
)

// Validation messages shown next to a field.
const (
	MsgUsernameRequired    = "username is required"
	MsgUsernameMin         = "username must be at least 3 characters"
	MsgUsernameMax         = "username cannot exceed 20 characters"
	MsgFavLanguageRequired = "favLanguage is required"
	MsgFavLanguageOptions  = "favLanguage must be either javascript or rust"
	MsgFavFoodRequired     = "favFood is required"
	MsgFavFoodOptions      = "favFood must be either broccoli, spaghetti or pizza"
	MsgAgreementRequired   = "agreement is required"
	MsgAgreementOptions    = "agreement must be accepted"
)

// Username length bounds, counted in characters after trimming.
const (
	UsernameMinLength = 3
	UsernameMaxLength = 20
)

// Allowed enum values.
var (
	Languages = []string{"javascript", "rust"}
	Foods     = []string{"broccoli", "spaghetti", "pizza"}
)

// Rule is one constraint on a field value. Check reports whether the value
// passes; Message is shown when it doesn't.
type Rule struct {
	Name    string
	Message string
	Check   func(value any) bool
}

// Required fails on a missing value or a string that is empty.
func Required(msg string) Rule {
	return Rule{Name: "required", Message: msg, Check: func(value any) bool {
		switch v := value.(type) {
		case nil:
			return false
		case string:
			return v != ""
		default:
			return true
		}
	}}
}

// MinLength fails on strings shorter than n characters.
func MinLength(n int, msg string) Rule {
	return Rule{Name: fmt.Sprintf("min(%d)", n), Message: msg, Check: func(value any) bool {
		s, ok := value.(string)
		return ok && charCount(s) >= n
	}}
}

// MaxLength fails on strings longer than n characters.
func MaxLength(n int, msg string) Rule {
	return Rule{Name: fmt.Sprintf("max(%d)", n), Message: msg, Check: func(value any) bool {
		s, ok := value.(string)
		return ok && charCount(s) <= n
	}}
}

// OneOf fails on strings outside allowed.
func OneOf(allowed []string, msg string) Rule {
	return Rule{Name: "oneOf", Message: msg, Check: func(value any) bool {
		s, ok := value.(string)
		return ok && slices.Contains(allowed, s)
	}}
}

// Equals fails on any value other than want.
func Equals(want any, msg string) Rule {
	return Rule{Name: fmt.Sprintf("equals(%v)", want), Message: msg, Check: func(value any) bool {
		return value == want
	}}
}

// charCount counts grapheme clusters, not bytes or UTF-16 units: "👍🏽" is one
// character and "👍🏽👍🏽" is too short for a username.
func charCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

// FieldSchema is the ordered rule list for one field.
type FieldSchema struct {
	Field Field
	// Trim strips surrounding whitespace from string values before any rule runs.
	Trim  bool
	Rules []Rule
}

// Check runs the rules in order and returns the first failing message, or ""
// when all pass.
func (fs FieldSchema) Check(value any) string {
	if s, ok := value.(string); ok && fs.Trim {
		value = strings.TrimSpace(s)
	}
	for _, r := range fs.Rules {
		if !r.Check(value) {
			return r.Message
		}
	}
	return ""
}

// Schema is the declarative rule set for the whole record.
type Schema struct {
	fields []FieldSchema
}

// NewSchema builds a schema from per-field rule lists. Every Field must be
// covered exactly once.
func NewSchema(fields ...FieldSchema) (*Schema, error) {
	var seen [fieldCount]bool
	for _, fs := range fields {
		i := fs.Field.index()
		if i < 0 {
			return nil, fmt.Errorf("%w: %q", ErrUnknownField, string(fs.Field))
		}
		if seen[i] {
			return nil, fmt.Errorf("field %s declared twice", fs.Field)
		}
		seen[i] = true
	}
	for i, ok := range seen {
		if !ok {
			return nil, fmt.Errorf("field %s has no rules", allFields[i])
		}
	}
	return &Schema{fields: slices.Clone(fields)}, nil
}

// DefaultSchema returns the registration rules.
func DefaultSchema() *Schema {
	s, err := NewSchema(
		FieldSchema{Field: FieldUsername, Trim: true, Rules: []Rule{
			Required(MsgUsernameRequired),
			MinLength(UsernameMinLength, MsgUsernameMin),
			MaxLength(UsernameMaxLength, MsgUsernameMax),
		}},
		FieldSchema{Field: FieldFavLanguage, Trim: true, Rules: []Rule{
			Required(MsgFavLanguageRequired),
			OneOf(Languages, MsgFavLanguageOptions),
		}},
		FieldSchema{Field: FieldFavFood, Trim: true, Rules: []Rule{
			Required(MsgFavFoodRequired),
			OneOf(Foods, MsgFavFoodOptions),
		}},
		FieldSchema{Field: FieldAgreement, Rules: []Rule{
			Required(MsgAgreementRequired),
			Equals(true, MsgAgreementOptions),
		}},
	)
	if err != nil {
		panic(err)
	}
	return s
}

// ValidateField checks a single value against its field's rules in isolation.
// It returns the first violated rule's message, or "" on pass.
func (s *Schema) ValidateField(f Field, value any) (string, error) {
	for _, fs := range s.fields {
		if fs.Field == f {
			return fs.Check(value), nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, string(f))
}

// Validate checks every field of v and returns the per-field messages along
// with whether the record as a whole passes.
func (s *Schema) Validate(v Values) (Errors, bool) {
	var errs Errors
	valid := true
	for _, fs := range s.fields {
		if msg := fs.Check(v.Get(fs.Field)); msg != "" {
			errs.set(fs.Field, msg)
			valid = false
		}
	}
	return errs, valid
}

// IsValid is the form-level pass/fail check.
func (s *Schema) IsValid(v Values) bool {
	_, ok := s.Validate(v)
	return ok
}

var defaultSchema = DefaultSchema()

// Validate runs the default schema over v.
func Validate(v Values) (Errors, bool) {
	return defaultSchema.Validate(v)
}
