package server

import (
	"context"
	"net"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/config"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
)

func TestHTTPServer_ServeAndShutdown(t *testing.T) {
	mcpServer := newTestMCPServer(t, http.NotFoundHandler())
	srv := NewHTTPServer(mcpServer, config.ServerConfig{
		Port:            0,
		ReadTimeout:     time.Second,
		IdleTimeout:     time.Second,
		ShutdownTimeout: time.Second,
	}, logging.Discard())

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
		if err != nil {
			return false
		}
		_ = resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	assert.Equal(t, 0, srv.Sessions().Len())
}

func TestHTTPServer_EvictsIdleSessions(t *testing.T) {
	srv := NewHTTPServer(newTestMCPServer(t, http.NotFoundHandler()), config.ServerConfig{
		ShutdownTimeout:    time.Second,
		SessionIdleTimeout: 20 * time.Millisecond,
	}, logging.Discard())
	srv.Sessions().Insert("disconnected")

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	assert.Eventually(t, func() bool {
		return srv.Sessions().Len() == 0
	}, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestHTTPServer_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv := NewHTTPServer(newTestMCPServer(t, http.NotFoundHandler()), config.ServerConfig{
		Port: ln.Addr().(*net.TCPAddr).Port,
	}, logging.Discard())

	err = srv.Run(context.Background())
	assert.ErrorContains(t, err, "listen on")
}
