package server

import (
	"fmt"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/middleware"
)

// NewRouter serves mcpServer over streamable HTTP at /mcp, plus health and
// Prometheus endpoints.
func NewRouter(mcpServer *mcp.Server, store *SessionStore, cors middleware.CORSConfig, logger *logging.Logger) http.Handler {
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return mcpServer
	}, nil)

	mux := http.NewServeMux()
	mux.Handle("/mcp", TrackSessions(store)(streamable))
	mux.HandleFunc("/healthz", health(store))
	mux.Handle("/metrics", promhttp.Handler())

	return middleware.RequestID(middleware.CORS(cors)(LogRequests(logger)(mux)))
}

func health(store *SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, `{"status":"ok","sessions":%d}`+"\n", store.Len())
	}
}
