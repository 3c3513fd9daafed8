// Package tools exposes IT Glue operations as MCP tools. Handlers validate
// paging and output options, call the itglue service, render markdown or JSON
// and cut the result to the response budget. Failures become tool results
// with IsError set so the agent can read and act on them.
package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/audit"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/itglue"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/metrics"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/textfmt"
)

// Response formats accepted by every tool.
const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
)

// Toolset binds the IT Glue service to an MCP server.
type Toolset struct {
	svc    *itglue.Service
	audit  *audit.Recorder
	logger *logging.Logger
}

// New creates a Toolset. A nil recorder disables auditing.
func New(svc *itglue.Service, recorder *audit.Recorder, logger *logging.Logger) *Toolset {
	if logger == nil {
		logger = logging.Discard()
	}
	if recorder == nil {
		recorder = audit.NewRecorder(nil, "", logger)
	}
	return &Toolset{svc: svc, audit: recorder, logger: logger}
}

// Register adds every tool to server.
func (ts *Toolset) Register(server *mcp.Server) {
	ts.registerOrganizations(server)
	ts.registerConfigurations(server)
	ts.registerPasswords(server)
	ts.registerDocuments(server)
	ts.registerFlexibleAssets(server)
	ts.registerContacts(server)
	ts.registerLocations(server)
}

// handlerFunc is a tool body. It returns the text to show, or an error.
type handlerFunc[In any] func(ctx context.Context, in In) (string, error)

// add registers fn under tool, wrapping it with logging, metrics, truncation
// and error shaping.
func add[In any](ts *Toolset, server *mcp.Server, tool *mcp.Tool, hint string, fn handlerFunc[In]) {
	name := tool.Name
	mcp.AddTool(server, tool, func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, any, error) {
		start := time.Now()
		log := ts.logger.With(logging.Tool(name))
		if req != nil && req.Session != nil {
			log = log.With(logging.SessionID(req.Session.ID()))
		}

		text, err := fn(ctx, in)
		elapsed := time.Since(start)
		metrics.ToolCallDuration.WithLabelValues(name).Observe(elapsed.Seconds())

		if err != nil {
			classified := itglue.Classify(err)
			outcome := "error"
			if errors.Is(err, ErrInvalidArgument) {
				outcome = "invalid"
			}
			metrics.ToolCallsTotal.WithLabelValues(name, outcome).Inc()
			log.WarnContext(ctx, "tool call failed",
				logging.Kind(string(classified.Kind)), logging.Error(err), logging.Duration(elapsed))
			return errorResult(classified.Error()), nil, nil
		}

		out := textfmt.Truncate(text, hint)
		if len(out) != len(text) {
			metrics.ResponsesTruncated.WithLabelValues(name).Inc()
		}
		metrics.ToolCallsTotal.WithLabelValues(name, "ok").Inc()
		log.DebugContext(ctx, "tool call", logging.Duration(elapsed))
		return textResult(out), nil, nil
	})
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: "Error: " + text}},
		IsError: true,
	}
}

// ErrInvalidArgument marks arguments rejected before any upstream call.
var ErrInvalidArgument = errors.New("invalid argument")

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

func checkFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatMarkdown:
		return FormatMarkdown, nil
	case FormatJSON:
		return FormatJSON, nil
	}
	return "", invalidInput("response_format must be %q or %q, got %q", FormatMarkdown, FormatJSON, format)
}

func listOptions(pageNumber, pageSize int, sort string, filters map[string]any) (itglue.ListOptions, error) {
	if pageNumber < 0 {
		return itglue.ListOptions{}, invalidInput("page_number must be 1 or greater")
	}
	if pageSize < 0 || pageSize > itglue.MaxPageSize {
		return itglue.ListOptions{}, invalidInput("page_size must be between 1 and %d", itglue.MaxPageSize)
	}
	return itglue.ListOptions{
		PageNumber: pageNumber,
		PageSize:   pageSize,
		Sort:       strings.TrimSpace(sort),
		Filters:    filters,
	}, nil
}

func required(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return invalidInput("%s is required", name)
	}
	return nil
}

func requiredIDs(ids []string) error {
	if len(ids) == 0 {
		return invalidInput("ids must contain at least one id")
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return invalidInput("ids must not contain empty values")
		}
	}
	return nil
}

// mutation runs fn and records an audit event for it whatever the outcome.
func (ts *Toolset) mutation(ctx context.Context, tool, resource, action string, ids []string, fn func() (string, error)) (string, error) {
	text, err := fn()

	ev := audit.Event{
		Tool:        tool,
		Resource:    resource,
		Action:      action,
		ResourceIDs: ids,
		Outcome:     audit.OutcomeSuccess,
	}
	if err != nil {
		ev.Outcome = audit.OutcomeFailure
		ev.Error = itglue.Classify(err).Error()
	}
	ts.audit.Record(ctx, ev)

	return text, err
}

// listing renders a page, turning an empty page into the plain no-results
// message rather than an error.
func listing(v view, format string, page jsonapi.PageResult, err error) (string, error) {
	if errors.Is(err, itglue.ErrNoResults) || (err == nil && len(page.Data) == 0) {
		return noResults(v.plural), nil
	}
	if err != nil {
		return "", err
	}
	return renderPage(v, format, page)
}

func boolPtr(b bool) *bool {
	return &b
}

func readOnly(title string) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:         title,
		ReadOnlyHint:  true,
		OpenWorldHint: boolPtr(true),
	}
}

func writes(title string, destructive, idempotent bool) *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		Title:           title,
		DestructiveHint: boolPtr(destructive),
		IdempotentHint:  idempotent,
		OpenWorldHint:   boolPtr(true),
	}
}

// optional maps an empty string argument to an absent filter.
func optional(s string) any {
	if strings.TrimSpace(s) == "" {
		return jsonapi.Absent
	}
	return s
}

// anyProvided rejects an update that would change nothing.
func anyProvided(attrs map[string]any) error {
	for _, v := range attrs {
		if !jsonapi.IsAbsent(v) {
			return nil
		}
	}
	return invalidInput("provide at least one field to update")
}
