// Package audit publishes an event for every mutating tool call so writes made
// by an agent can be reviewed outside the MCP session.
package audit

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/metrics"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/middleware"
)

// Actions recorded for mutations.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Outcomes recorded for mutations.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Publisher sends a payload to a subject. Implementations are
// fire-and-forget.
type Publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	Close() error
}

// Event describes one mutation attempted against IT Glue.
type Event struct {
	ID          string    `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Tool        string    `json:"tool"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	ResourceIDs []string  `json:"resource_ids,omitempty"`
	Outcome     string    `json:"outcome"`
	Error       string    `json:"error,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`
	Signature   string    `json:"signature,omitempty"`
}

// Recorder stamps and publishes events.
type Recorder struct {
	publisher Publisher
	prefix    string
	logger    *logging.Logger
	signer    *Signer
	now       func() time.Time
}

// NewRecorder publishes events under prefix, e.g. "itglue.audit".
func NewRecorder(publisher Publisher, prefix string, logger *logging.Logger) *Recorder {
	if publisher == nil {
		publisher = NoOpPublisher{}
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Recorder{
		publisher: publisher,
		prefix:    strings.Trim(prefix, "."),
		logger:    logger,
		now:       time.Now,
	}
}

// WithSigner signs every event recorded from now on.
func (r *Recorder) WithSigner(s *Signer) *Recorder {
	r.signer = s
	return r
}

// Subject returns <prefix>.<resource>.<action>.
func (r *Recorder) Subject(resource, action string) string {
	parts := make([]string, 0, 3)
	if r.prefix != "" {
		parts = append(parts, r.prefix)
	}
	return strings.Join(append(parts, subjectToken(resource), subjectToken(action)), ".")
}

// Record publishes ev. Publish failures are logged and counted but never
// returned: an unreachable broker must not fail a write that already reached
// IT Glue.
func (r *Recorder) Record(ctx context.Context, ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = r.now().UTC()
	}
	if ev.RequestID == "" {
		ev.RequestID = middleware.GetRequestID(ctx)
	}
	if r.signer != nil {
		ev.Signature = r.signer.Sign(ev)
	}

	data, err := json.Marshal(ev)
	if err != nil {
		metrics.AuditEventsPublished.WithLabelValues("error").Inc()
		r.logger.ErrorContext(ctx, "failed to encode audit event", logging.Error(err))
		return
	}

	subject := r.Subject(ev.Resource, ev.Action)
	if err := r.publisher.Publish(ctx, subject, data); err != nil {
		metrics.AuditEventsPublished.WithLabelValues("error").Inc()
		r.logger.WarnContext(ctx, "failed to publish audit event",
			logging.Tool(ev.Tool), "subject", subject, logging.Error(err))
		return
	}
	metrics.AuditEventsPublished.WithLabelValues("published").Inc()
}

// Close releases the publisher.
func (r *Recorder) Close() error {
	return r.publisher.Close()
}

// subjectToken keeps a value usable as one NATS subject token.
func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "unknown"
	}
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		}
		return r
	}, s)
}

// NoOpPublisher drops every event (auditing disabled).
type NoOpPublisher struct{}

func (NoOpPublisher) Publish(ctx context.Context, subject string, data []byte) error {
	return nil
}

func (NoOpPublisher) Close() error {
	return nil
}
