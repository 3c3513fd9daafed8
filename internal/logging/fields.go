package logging

import (
	"log/slog"
	"time"
)

// Field names shared by the transport, tool and HTTP layers.
const (
	FieldService   = "service"
	FieldRequestID = "request_id"
	FieldSessionID = "session_id"
	FieldTool      = "tool"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldDuration  = "duration_ms"
	FieldAttempt   = "attempt"
	FieldError     = "error"
	FieldKind      = "error_kind"
)

// Service returns a slog attribute for the service name.
func Service(name string) slog.Attr {
	return slog.String(FieldService, name)
}

// SessionID returns a slog attribute for an MCP session ID.
func SessionID(id string) slog.Attr {
	return slog.String(FieldSessionID, id)
}

// Tool returns a slog attribute for a tool name.
func Tool(name string) slog.Attr {
	return slog.String(FieldTool, name)
}

// Method returns a slog attribute for the HTTP method.
func Method(method string) slog.Attr {
	return slog.String(FieldMethod, method)
}

// Path returns a slog attribute for the HTTP path.
func Path(path string) slog.Attr {
	return slog.String(FieldPath, path)
}

// Status returns a slog attribute for the HTTP status code.
func Status(code int) slog.Attr {
	return slog.Int(FieldStatus, code)
}

// Duration returns a slog attribute for d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(FieldDuration, d.Milliseconds())
}

// Attempt returns a slog attribute for a retry attempt number.
func Attempt(n int) slog.Attr {
	return slog.Int(FieldAttempt, n)
}

// Error returns a slog attribute for an error.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(FieldError, "")
	}
	return slog.String(FieldError, err.Error())
}

// Kind returns a slog attribute for a classified error kind.
func Kind(kind string) slog.Attr {
	return slog.String(FieldKind, kind)
}
