package cmd

import (
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
	"github.com/spf13/cobra"

	"github.com/zjrosen/signup/internal/registration"
)

// askOne is replaced in tests.
var askOne = survey.AskOne

var promptCmd = &cobra.Command{
	Use:   "prompt",
	Short: "Register by answering line-by-line questions",
	Args:  cobra.NoArgs,
	RunE:  runPrompt,
}

func init() {
	rootCmd.AddCommand(promptCmd)
}

// choice pairs a prompt label with the value sent to the endpoint.
type choice struct {
	label string
	value string
}

var (
	languageChoices = []choice{{"JavaScript", "javascript"}, {"Rust", "rust"}}
	foodChoices     = []choice{{"Pizza", "pizza"}, {"Spaghetti", "spaghetti"}, {"Broccoli", "broccoli"}}
)

func labels(cs []choice) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.label
	}
	return out
}

func valueOf(cs []choice, label string) string {
	for _, c := range cs {
		if c.label == label {
			return c.value
		}
	}
	return ""
}

// fieldValidator checks one answer against the field's schema rules.
func fieldValidator(schema *registration.Schema, field registration.Field) survey.Validator {
	return func(ans interface{}) error {
		msg, err := schema.ValidateField(field, ans)
		if err != nil {
			return err
		}
		if msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func askValues() (registration.Values, error) {
	schema := registration.DefaultSchema()
	var (
		v        registration.Values
		language string
		food     string
	)

	if err := askOne(&survey.Input{Message: "Username:"}, &v.Username,
		survey.WithValidator(fieldValidator(schema, registration.FieldUsername))); err != nil {
		return v, err
	}
	if err := askOne(&survey.Select{
		Message: "Favorite Language:",
		Options: labels(languageChoices),
	}, &language); err != nil {
		return v, err
	}
	if err := askOne(&survey.Select{
		Message: "Favorite Food:",
		Options: labels(foodChoices),
	}, &food); err != nil {
		return v, err
	}
	if err := askOne(&survey.Confirm{
		Message: "Agree to our terms?",
		Help:    "Registration requires accepting the terms.",
	}, &v.Agreement, survey.WithValidator(fieldValidator(schema, registration.FieldAgreement))); err != nil {
		return v, err
	}

	v.FavLanguage = valueOf(languageChoices, language)
	v.FavFood = valueOf(foodChoices, food)
	return v, nil
}

func runPrompt(cmd *cobra.Command, _ []string) error {
	values, err := askValues()
	if errors.Is(err, terminal.InterruptErr) {
		return errors.New("cancelled")
	}
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	f, err := fillForm(values)
	if err != nil {
		return err
	}
	if !f.SubmitEnabled() {
		printFieldErrors(cmd.ErrOrStderr(), f)
		return errInvalidForm
	}

	s, err := openSession(cfg)
	if err != nil {
		return err
	}
	defer s.close()

	return send(cmd.Context(), cmd.OutOrStdout(), s.client, &f)
}
