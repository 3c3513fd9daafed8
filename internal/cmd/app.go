package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/audit"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/config"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/itglue"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/ratelimit"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/server"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/tools"
)

// app holds the wired dependencies of a command.
type app struct {
	mcp     *mcp.Server
	limiter ratelimit.RateLimiter
	audit   *audit.Recorder
	logger  *logging.Logger
}

// newApp connects the optional quota guard and audit publisher and builds
// the MCP server. Either backing service being unreachable is logged and
// the feature is disabled, so the server still starts.
func newApp(c *config.Config, logger *logging.Logger) (*app, error) {
	var limiter ratelimit.RateLimiter = &ratelimit.NoOpRateLimiter{}
	if c.RateLimit.Enabled {
		l, err := ratelimit.NewRedisRateLimiter(c.RateLimit.RedisURL, c.RateLimit.Requests, c.RateLimit.Window)
		if err != nil {
			logger.Warn("rate limiter unavailable, quota guard disabled", logging.Error(err))
		} else {
			limiter = l
		}
	}

	var publisher audit.Publisher
	if c.Audit.Enabled {
		p, err := audit.NewNATSPublisher(audit.DefaultNATSConfig(c.Audit.NatsURL), logger)
		if err != nil {
			logger.Warn("audit publisher unavailable, audit events disabled", logging.Error(err))
		} else {
			publisher = p
		}
	}
	recorder := audit.NewRecorder(publisher, c.Audit.SubjectPrefix, logger)
	if c.Audit.SigningKey != "" {
		recorder.WithSigner(audit.NewSigner(c.Audit.SigningKey))
	}

	client, err := itglue.New(itglue.Options{
		BaseURL:    c.ResolvedBaseURL(),
		APIKey:     c.APIKey,
		Timeout:    c.Timeout,
		MaxRetries: c.MaxRetries,
		RetryDelay: c.RetryDelay,
		UserAgent:  fmt.Sprintf("%s/%s", server.Name, Version),
		Limiter:    limiter,
		Logger:     logger,
	})
	if err != nil {
		_ = limiter.Close()
		_ = recorder.Close()
		return nil, fmt.Errorf("create IT Glue client: %w", err)
	}

	ts := tools.New(itglue.NewService(client), recorder, logger)
	return &app{
		mcp:     server.NewMCPServer(ts, Version),
		limiter: limiter,
		audit:   recorder,
		logger:  logger,
	}, nil
}

// catalogServer registers the tools without any upstream connection. Its
// tools must not be called.
func catalogServer(logger *logging.Logger) *mcp.Server {
	return server.NewMCPServer(tools.New(itglue.NewService(nil), nil, logger), Version)
}

func (a *app) Close() {
	if err := a.limiter.Close(); err != nil {
		a.logger.Warn("failed to close rate limiter", logging.Error(err))
	}
	if err := a.audit.Close(); err != nil {
		a.logger.Warn("failed to close audit publisher", logging.Error(err))
	}
}

// connectInMemory opens a client session to s in the same process.
func connectInMemory(ctx context.Context, s *mcp.Server) (*mcp.ClientSession, func(), error) {
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := s.Connect(ctx, serverTransport, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("connect server: %w", err)
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "itglue-mcp-cli", Version: Version}, nil)
	cs, err := client.Connect(ctx, clientTransport, nil)
	if err != nil {
		_ = ss.Close()
		return nil, nil, fmt.Errorf("connect client: %w", err)
	}

	return cs, func() {
		_ = cs.Close()
		_ = ss.Close()
	}, nil
}

func toolMode(tool *mcp.Tool) string {
	a := tool.Annotations
	switch {
	case a == nil:
		return "unknown"
	case a.ReadOnlyHint:
		return "read"
	case a.DestructiveHint != nil && *a.DestructiveHint:
		return "destructive"
	default:
		return "write"
	}
}

func firstSentence(s string) string {
	if i := strings.Index(s, ". "); i >= 0 {
		return s[:i+1]
	}
	return s
}
