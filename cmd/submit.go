package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zjrosen/signup/internal/api"
	"github.com/zjrosen/signup/internal/log"
	"github.com/zjrosen/signup/internal/registration"
)

// errInvalidForm is returned when a headless submit has field errors.
var errInvalidForm = errors.New("form is invalid; nothing was sent")

var submitCmd = &cobra.Command{
	Use:   "submit",
	Short: "Register without the form UI",
	Long: `Validates the given values with the same rules as the form and, when they
pass, posts them to the registration endpoint and prints the reply.`,
	Example: `  signup submit --username alice --language rust --food pizza --agree`,
	Args:    cobra.NoArgs,
	RunE:    runSubmit,
}

func init() {
	submitCmd.Flags().StringP("username", "u", "", "account username")
	submitCmd.Flags().StringP("language", "l", "", "favorite language (javascript, rust)")
	submitCmd.Flags().StringP("food", "f", "", "favorite food (pizza, spaghetti, broccoli)")
	submitCmd.Flags().Bool("agree", false, "agree to the terms")
	rootCmd.AddCommand(submitCmd)
}

func runSubmit(cmd *cobra.Command, _ []string) error {
	username, _ := cmd.Flags().GetString("username")
	language, _ := cmd.Flags().GetString("language")
	food, _ := cmd.Flags().GetString("food")
	agree, _ := cmd.Flags().GetBool("agree")

	f, err := fillForm(registration.Values{
		Username:    username,
		FavLanguage: strings.ToLower(language),
		FavFood:     strings.ToLower(food),
		Agreement:   agree,
	})
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

// fillForm applies every value through Form.Change so each field carries its
// own error, exactly as if it had been typed into the UI.
func fillForm(v registration.Values) (registration.Form, error) {
	f := registration.NewForm(nil)
	changes := []struct {
		field registration.Field
		in    registration.Input
	}{
		{registration.FieldUsername, registration.TextInput(v.Username)},
		{registration.FieldFavLanguage, registration.RadioInput(v.FavLanguage)},
		{registration.FieldFavFood, registration.SelectInput(v.FavFood)},
		{registration.FieldAgreement, registration.CheckboxInput(v.Agreement)},
	}
	for _, c := range changes {
		if err := f.Change(c.field, c.in); err != nil {
			return f, fmt.Errorf("setting %s: %w", c.field, err)
		}
	}
	return f, nil
}

func printFieldErrors(w io.Writer, f registration.Form) {
	for _, field := range registration.Fields() {
		if msg := f.Error(field); msg != "" {
			_, _ = fmt.Fprintf(w, "%s: %s\n", field, msg)
		}
	}
}

// send runs one submit on f and prints the success message, or "registered"
// when the server sent none. A failure is
// recorded on f and returned with the user-facing message as its text.
func send(ctx context.Context, w io.Writer, r api.Registrar, f *registration.Form) error {
	values, err := f.BeginSubmit()
	if err != nil {
		return err
	}

	message, err := r.Register(ctx, values)
	if err != nil {
		text := api.FailureMessage(err)
		if ferr := f.Fail(text); ferr != nil {
			log.Warn(log.CatForm, "Recording failure", "error", ferr)
		}
		return errors.New(text)
	}
	if err := f.Succeed(message); err != nil {
		return err
	}
	if message == "" {
		message = "registered"
	}
	_, _ = fmt.Fprintln(w, message)
	return nil
}
