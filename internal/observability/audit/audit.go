package audit

// Package audit implements the Auditor port: security-relevant events are
// logged structurally and counted in statsd. This is the external
// observability collaborator the auth flows notify.

import (
	"context"
	"log/slog"

	"github.com/linguahub/lingua-ui/internal/observability/statsd"
)

// Event names emitted by the auth and verification flows.
const (
	EventSignInSuccess = "auth.signin.success"
	EventSignInFailure = "auth.signin.failure"
	EventSignOut       = "auth.signout"
	EventCodeIssued    = "verify.code.issued"
	EventCodeVerified  = "verify.code.verified"
	EventCodeRejected  = "verify.code.rejected"
	EventGateRedirect  = "gate.redirect"
)

// Recorder emits audit events to slog and statsd.
type Recorder struct {
	logger *slog.Logger
	sink   statsd.Sink
}

// NewRecorder creates a Recorder. Both dependencies are optional; a nil sink
// drops metrics, a nil logger falls back to slog.Default.
func NewRecorder(logger *slog.Logger, sink statsd.Sink) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger, sink: sink}
}

// Event records one named event with its tags.
func (r *Recorder) Event(ctx context.Context, name string, tags map[string]string) {
	attrs := make([]any, 0, len(tags)*2+2)
	attrs = append(attrs, "event", name)
	for k, v := range tags {
		attrs = append(attrs, k, v)
	}
	r.logger.InfoContext(ctx, "audit", attrs...)

	if r.sink != nil {
		r.sink.Count(name, 1, tags)
	}
}
