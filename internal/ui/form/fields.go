package form

import (
	"fmt"

	"github.com/zjrosen/signup/internal/registration"
)

// focusTarget is one stop in the tab order.
type focusTarget int

const (
	focusUsername focusTarget = iota
	focusLanguage
	focusFood
	focusAgreement
	focusSubmit
	focusCount
)

func (f focusTarget) field() (registration.Field, bool) {
	switch f {
	case focusUsername:
		return registration.FieldUsername, true
	case focusLanguage:
		return registration.FieldFavLanguage, true
	case focusFood:
		return registration.FieldFavFood, true
	case focusAgreement:
		return registration.FieldAgreement, true
	}
	return "", false
}

// option is one choice in the language radio group or the food select.
type option struct {
	Label string
	Value string
}

var languageOptions = []option{
	{Label: "JavaScript", Value: "javascript"},
	{Label: "Rust", Value: "rust"},
}

// foodPlaceholder is shown until a food is picked and cannot be picked itself.
var foodPlaceholder = option{Label: "-- Select Favorite Food --", Value: ""}

var foodOptions = []option{
	{Label: "Pizza", Value: "pizza"},
	{Label: "Spaghetti", Value: "spaghetti"},
	{Label: "Broccoli", Value: "broccoli"},
}

// indexOf returns the position of value in opts, or -1.
func indexOf(opts []option, value string) int {
	for i, o := range opts {
		if o.Value == value {
			return i
		}
	}
	return -1
}

// Labels shown beside each field.
const (
	titleText           = "Create an Account"
	labelUsername       = "Username:"
	labelLanguage       = "Favorite Language:"
	labelFood           = "Favorite Food:"
	labelAgreement      = "Agree to our terms"
	submitLabel         = "Submit"
	submittingLabel     = "Submitting"
	usernamePlaceholder = "Type Username"
)

// Zone IDs for mouse hit-testing.
const (
	zoneUsername  = "signup-username"
	zoneAgreement = "signup-agreement"
	zoneSubmit    = "signup-submit"
	zoneFoodPrev  = "signup-food-prev"
	zoneFoodNext  = "signup-food-next"
)

func zoneLanguage(i int) string { return fmt.Sprintf("signup-language-%d", i) }
