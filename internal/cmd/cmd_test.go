package cmd

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// execute runs the root command with args and returns what it printed.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	color.NoColor = true
	t.Setenv("ITGLUE_CONFIG_DIR", "")

	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
		_ = rootCmd.PersistentFlags().Set("log-level", "")
		_ = toolsCmd.Flags().Set("output", "table")
		_ = callCmd.Flags().Set("args", "{}")
		_ = serveCmd.Flags().Set("transport", "")
		_ = serveCmd.Flags().Set("port", "0")
	})

	err := Execute()
	return out.String(), errOut.String(), err
}

func fakeITGlue(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	t.Setenv("ITGLUE_API_KEY", "ITG.cmd-test-key")
	t.Setenv("ITGLUE_BASE_URL", srv.URL)
	t.Setenv("ITGLUE_MAX_RETRIES", "0")
	t.Setenv("ITGLUE_LOGGING_LEVEL", "error")
}

func TestCommandsRegistered(t *testing.T) {
	found := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		found[c.Name()] = true
	}
	for _, name := range []string{"serve", "tools", "call", "version"} {
		assert.True(t, found[name], "expected command %q", name)
	}
}

func TestToolsCommand_JSON(t *testing.T) {
	out, _, err := execute(t, "tools", "--output", "json")
	require.NoError(t, err)

	var infos []toolInfo
	require.NoError(t, json.Unmarshal([]byte(out), &infos))
	require.Len(t, infos, 24)

	modes := map[string]string{}
	for _, info := range infos {
		assert.True(t, strings.HasPrefix(info.Name, "itglue_"), info.Name)
		modes[info.Name] = info.Mode
	}
	assert.Equal(t, "read", modes["itglue_list_documents"])
	assert.Equal(t, "write", modes["itglue_create_password"])
	assert.Equal(t, "destructive", modes["itglue_delete_configurations"])
}

func TestToolsCommand_YAML(t *testing.T) {
	out, _, err := execute(t, "tools", "-o", "yaml")
	require.NoError(t, err)

	var infos []toolInfo
	require.NoError(t, yaml.Unmarshal([]byte(out), &infos))
	assert.Len(t, infos, 24)
	assert.Equal(t, "itglue_create_configuration", infos[0].Name)
}

func TestToolsCommand_Table(t *testing.T) {
	out, _, err := execute(t, "tools")
	require.NoError(t, err)

	assert.Contains(t, out, "Name")
	assert.Contains(t, out, "itglue_list_contacts")
	assert.Contains(t, out, "24 tools")
}

func TestToolsCommand_UnknownFormat(t *testing.T) {
	_, errOut, err := execute(t, "tools", "-o", "xml")

	require.Error(t, err)
	assert.Contains(t, errOut, "unknown output format")
}

func TestCallCommand(t *testing.T) {
	fakeITGlue(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/organizations", r.URL.Path)
		assert.Equal(t, "Acme", r.URL.Query().Get("filter[name]"))
		w.Header().Set("Content-Type", "application/vnd.api+json")
		_, _ = io.WriteString(w, `{"data":[{"id":"1","type":"organizations","attributes":{"name":"Acme"}}],"meta":{"total-count":1}}`)
	})

	out, _, err := execute(t, "call", "itglue_list_organizations", "--args", `{"name":"Acme"}`)

	require.NoError(t, err)
	assert.Contains(t, out, "## Acme (ID: 1)")
}

func TestCallCommand_ToolError(t *testing.T) {
	fakeITGlue(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"errors":[{"status":"404","title":"Not Found"}]}`)
	})

	out, _, err := execute(t, "call", "itglue_get_contact", "--args", `{"id":"404"}`)

	assert.ErrorIs(t, err, errToolFailed)
	assert.Contains(t, out, "Error: Resource not found")
}

func TestCallCommand_InvalidArgs(t *testing.T) {
	_, _, err := execute(t, "call", "itglue_list_organizations", "--args", `[1,2]`)

	assert.ErrorContains(t, err, "--args must be a JSON object")
}

func TestCallCommand_RequiresAPIKey(t *testing.T) {
	t.Setenv("ITGLUE_API_KEY", "")

	_, _, err := execute(t, "call", "itglue_list_organizations")

	assert.ErrorContains(t, err, "api_key is required")
}

func TestServeCommand_InvalidTransport(t *testing.T) {
	t.Setenv("ITGLUE_API_KEY", "ITG.cmd-test-key")

	_, _, err := execute(t, "serve", "--transport", "carrier-pigeon")

	assert.ErrorContains(t, err, "transport")
}

func TestVersionCommand(t *testing.T) {
	out, _, err := execute(t, "version")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "itglue-mcp "+Version))
}
