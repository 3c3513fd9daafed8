package itglue

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

// Kind names a class of failure a caller can act on.
type Kind string

const (
	KindBadRequest           Kind = "bad_request"
	KindAuthenticationFailed Kind = "authentication_failed"
	KindPermissionDenied     Kind = "permission_denied"
	KindNotFound             Kind = "not_found"
	KindUnsupportedMediaType Kind = "unsupported_media_type"
	KindValidationFailed     Kind = "validation_failed"
	KindRateLimited          Kind = "rate_limited"
	KindUpstreamServerError  Kind = "upstream_server_error"
	KindUnknownStatus        Kind = "unknown_status"
	KindTimeout              Kind = "timeout"
	KindConnectionRefused    Kind = "connection_refused"
	KindUnexpectedShape      Kind = "unexpected_shape"
	KindEmptyMutationResult  Kind = "empty_mutation_result"
	KindUnclassified         Kind = "unclassified"
)

// QuotaWindow is the documented IT Glue request quota.
const QuotaWindow = "3000 requests per 5 minutes"

// Error is a classified failure. Error() is the message shown to the agent.
type Error struct {
	Kind   Kind
	Status int
	Detail string
	Op     string
	Err    error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindBadRequest:
		return withDetail("Bad request: the IT Glue API rejected the request parameters", e.Detail)
	case KindAuthenticationFailed:
		return "Authentication failed: the IT Glue API key is invalid or has been revoked."
	case KindPermissionDenied:
		return "Permission denied: the IT Glue API key does not have access to this resource."
	case KindNotFound:
		return withDetail("Resource not found: check that the ID is correct", e.Detail)
	case KindUnsupportedMediaType:
		return "Unsupported media type: the server sent a request IT Glue could not accept. This is a bug in the MCP server, not in your input."
	case KindValidationFailed:
		return withDetail("Validation failed", e.Detail)
	case KindRateLimited:
		return fmt.Sprintf("Rate limit exceeded: IT Glue allows %s. Wait before retrying.", QuotaWindow)
	case KindUpstreamServerError:
		return fmt.Sprintf("IT Glue server error (HTTP %d). This is usually temporary; try again later.", e.Status)
	case KindUnknownStatus:
		return withDetail(fmt.Sprintf("Unexpected response from IT Glue (HTTP %d)", e.Status), e.Detail)
	case KindTimeout:
		return "Request timed out: IT Glue did not respond in time. Try again or narrow the request."
	case KindConnectionRefused:
		return withDetail("Could not connect to the IT Glue API; check the base URL, region and network access", e.Detail)
	case KindUnexpectedShape:
		return withDetail("Unexpected response shape: expected a single resource but IT Glue returned a collection", e.Detail)
	case KindEmptyMutationResult:
		if e.Op != "" {
			return fmt.Sprintf("Unexpected empty response: %s returned no resources.", e.Op)
		}
		return "Unexpected empty response: the mutation returned no resources."
	default:
		if e.Detail != "" {
			return e.Detail
		}
		if e.Err != nil {
			return e.Err.Error()
		}
		return "Unknown error"
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func withDetail(msg, detail string) string {
	if detail == "" {
		return msg + "."
	}
	return msg + ": " + detail
}

// FromStatus classifies a non-2xx response. The detail is the first upstream
// error's detail, falling back to its title.
func FromStatus(status int, errs []jsonapi.ErrorObject) *Error {
	e := &Error{Status: status, Detail: jsonapi.FirstErrorDetail(errs)}
	switch {
	case status == http.StatusBadRequest:
		e.Kind = KindBadRequest
	case status == http.StatusUnauthorized:
		e.Kind = KindAuthenticationFailed
	case status == http.StatusForbidden:
		e.Kind = KindPermissionDenied
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status == http.StatusUnsupportedMediaType:
		e.Kind = KindUnsupportedMediaType
	case status == http.StatusUnprocessableEntity:
		e.Kind = KindValidationFailed
	case status == http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case status >= 500 && status <= 599:
		e.Kind = KindUpstreamServerError
	default:
		e.Kind = KindUnknownStatus
	}
	return e
}

// Classify maps any error to an *Error. An error that is already classified
// is returned as is.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	var empty *jsonapi.EmptyMutationError
	var netErr net.Error
	switch {
	case errors.As(err, &empty):
		return &Error{Kind: KindEmptyMutationResult, Op: empty.Op, Err: err}
	case errors.Is(err, jsonapi.ErrEmptyMutationResult):
		return &Error{Kind: KindEmptyMutationResult, Err: err}
	case errors.Is(err, jsonapi.ErrUnexpectedShape):
		return &Error{Kind: KindUnexpectedShape, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Kind: KindTimeout, Err: err}
	case isConnectionFailure(err):
		return &Error{Kind: KindConnectionRefused, Err: err}
	case errors.As(err, &netErr) && netErr.Timeout():
		return &Error{Kind: KindTimeout, Err: err}
	default:
		return &Error{Kind: KindUnclassified, Detail: err.Error(), Err: err}
	}
}

// IsKind reports whether err classifies as kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return Classify(err).Kind == kind
}

// isConnectionFailure reports a refused, reset or unresolvable upstream.
func isConnectionFailure(err error) bool {
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && !dnsErr.IsTimeout {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" && !opErr.Timeout() {
		return true
	}
	return false
}
