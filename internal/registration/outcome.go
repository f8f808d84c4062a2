package registration

// OutcomeKind tags the result of the last submit.
type OutcomeKind int

const (
	// OutcomeIdle means nothing has resolved yet.
	OutcomeIdle OutcomeKind = iota
	// OutcomeSuccess carries the server's success message.
	OutcomeSuccess
	// OutcomeFailure carries the server's (or transport's) failure message.
	OutcomeFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeIdle:
		return "idle"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailure:
		return "failure"
	default:
		return "unknown"
	}
}

// Outcome is Idle, Success(message) or Failure(message). A success and a
// failure message can never be held at the same time.
type Outcome struct {
	kind    OutcomeKind
	message string
}

// Idle returns the empty outcome.
func Idle() Outcome { return Outcome{} }

// Success returns a success outcome.
func Success(message string) Outcome { return Outcome{kind: OutcomeSuccess, message: message} }

// Failure returns a failure outcome.
func Failure(message string) Outcome { return Outcome{kind: OutcomeFailure, message: message} }

// Kind returns the tag.
func (o Outcome) Kind() OutcomeKind { return o.kind }

// Message returns the carried message; "" for Idle.
func (o Outcome) Message() string { return o.message }

// SuccessMessage returns the message if o is a success.
func (o Outcome) SuccessMessage() (string, bool) {
	if o.kind != OutcomeSuccess {
		return "", false
	}
	return o.message, true
}

// FailureMessage returns the message if o is a failure.
func (o Outcome) FailureMessage() (string, bool) {
	if o.kind != OutcomeFailure {
		return "", false
	}
	return o.message, true
}

func (o Outcome) String() string {
	if o.kind == OutcomeIdle {
		return "idle"
	}
	return o.kind.String() + ": " + o.message
}
