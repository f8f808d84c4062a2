package registration

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOutcome_Variants(t *testing.T) {
	tests := []struct {
		name        string
		outcome     Outcome
		wantKind    OutcomeKind
		wantSuccess string
		wantFailure string
		wantString  string
	}{
		{name: "idle", outcome: Idle(), wantKind: OutcomeIdle, wantString: "idle"},
		{name: "success", outcome: Success("welcome"), wantKind: OutcomeSuccess, wantSuccess: "welcome", wantString: "success: welcome"},
		{name: "failure", outcome: Failure("taken"), wantKind: OutcomeFailure, wantFailure: "taken", wantString: "failure: taken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.wantKind, tt.outcome.Kind())
			require.Equal(t, tt.wantString, tt.outcome.String())

			msg, ok := tt.outcome.SuccessMessage()
			require.Equal(t, tt.wantKind == OutcomeSuccess, ok)
			require.Equal(t, tt.wantSuccess, msg)

			msg, ok = tt.outcome.FailureMessage()
			require.Equal(t, tt.wantKind == OutcomeFailure, ok)
			require.Equal(t, tt.wantFailure, msg)
		})
	}
}

func TestOutcome_ZeroIsIdle(t *testing.T) {
	var o Outcome
	require.Equal(t, Idle(), o)
	require.Empty(t, o.Message())
}

func TestInputKind_String(t *testing.T) {
	require.Equal(t, "text", InputText.String())
	require.Equal(t, "select", InputSelect.String())
	require.Equal(t, "radio", InputRadio.String())
	require.Equal(t, "checkbox", InputCheckbox.String())
	require.Equal(t, "unknown", InputKind(99).String())
}
