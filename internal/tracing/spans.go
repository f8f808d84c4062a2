package tracing

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanRegister is the client span around one registration POST.
const SpanRegister = "signup.register"

// Attribute keys set on registration spans.
const (
	AttrRequestID      = attribute.Key("signup.request_id")
	AttrUsernameLength = attribute.Key("signup.username_length")
	AttrHTTPMethod     = attribute.Key("http.request.method")
	AttrURL            = attribute.Key("url.full")
	AttrStatusCode     = attribute.Key("http.response.status_code")
)

// RecordError marks span failed with err.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
