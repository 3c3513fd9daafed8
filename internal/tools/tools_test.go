package tools

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/audit"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/itglue"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/textfmt"
)

type capturePublisher struct {
	mu       sync.Mutex
	subjects []string
	events   []audit.Event
}

func (c *capturePublisher) Publish(ctx context.Context, subject string, data []byte) error {
	var ev audit.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subjects = append(c.subjects, subject)
	c.events = append(c.events, ev)
	return nil
}

func (c *capturePublisher) Close() error { return nil }

type harness struct {
	session   *mcp.ClientSession
	publisher *capturePublisher
}

// newHarness serves the toolset over an in-memory MCP session backed by a fake
// IT Glue API.
func newHarness(t *testing.T, mux *http.ServeMux) *harness {
	t.Helper()
	upstream := httptest.NewServer(mux)
	t.Cleanup(upstream.Close)

	client, err := itglue.New(itglue.Options{
		BaseURL:    upstream.URL,
		APIKey:     "ITG.tools-test-key",
		Timeout:    2 * time.Second,
		RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	publisher := &capturePublisher{}
	recorder := audit.NewRecorder(publisher, "itglue.audit", logging.Discard())

	server := mcp.NewServer(&mcp.Implementation{Name: "itglue", Version: "test"}, nil)
	New(itglue.NewService(client), recorder, logging.Discard()).Register(server)

	ctx := context.Background()
	serverTransport, clientTransport := mcp.NewInMemoryTransports()
	ss, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = ss.Close() })

	cs, err := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil).Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = cs.Close() })

	return &harness{session: cs, publisher: publisher}
}

func (h *harness) call(t *testing.T, name string, args map[string]any) (string, bool) {
	t.Helper()
	res, err := h.session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content")
	return text.Text, res.IsError
}

func respond(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/vnd.api+json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

func TestRegister_AllTools(t *testing.T) {
	h := newHarness(t, http.NewServeMux())

	res, err := h.session.ListTools(context.Background(), &mcp.ListToolsParams{})
	require.NoError(t, err)

	names := make([]string, 0, len(res.Tools))
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, tool.Name)
		require.NotNil(t, tool.Annotations, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"itglue_list_organizations", "itglue_get_organization",
		"itglue_create_organization", "itglue_update_organization",
		"itglue_list_configurations", "itglue_get_configuration",
		"itglue_create_configuration", "itglue_update_configuration",
		"itglue_delete_configurations",
		"itglue_list_passwords", "itglue_get_password",
		"itglue_create_password", "itglue_update_password", "itglue_delete_passwords",
		"itglue_list_documents", "itglue_get_document",
		"itglue_list_flexible_asset_types", "itglue_list_flexible_assets",
		"itglue_get_flexible_asset", "itglue_create_flexible_asset", "itglue_update_flexible_asset",
		"itglue_list_contacts", "itglue_get_contact",
		"itglue_list_locations",
	}, names)
}

func TestListOrganizations_Markdown(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Acme", r.URL.Query().Get("filter[name]"))
		assert.Equal(t, "2", r.URL.Query().Get("page[size]"))
		respond(w, http.StatusOK, `{
			"data":[
				{"id":"1","type":"organizations","attributes":{"name":"Acme","organization-type-name":"Customer"}},
				{"id":"2","type":"organizations","attributes":{"name":"Acme Labs"}}
			],
			"meta":{"current-page":1,"next-page":2,"total-count":7}
		}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_list_organizations", map[string]any{"name": "Acme", "page_size": 2})

	assert.False(t, isErr)
	assert.Contains(t, text, "# Organizations")
	assert.Contains(t, text, "## Acme (ID: 1)")
	assert.Contains(t, text, "- **Organization Type Name**: Customer")
	assert.Contains(t, text, "## Acme Labs (ID: 2)")
	assert.Contains(t, text, "page_number=2")
}

func TestListOrganizations_JSON(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"data":[{"id":"1","type":"organizations","attributes":{"name":"Acme"}}],"meta":{"total-count":1}}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_list_organizations", map[string]any{"response_format": "json"})
	require.False(t, isErr)

	var page struct {
		Data       []map[string]any `json:"data"`
		TotalCount int              `json:"total_count"`
		HasMore    bool             `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal([]byte(text), &page))
	require.Len(t, page.Data, 1)
	assert.Equal(t, "Acme", page.Data[0]["name"])
	assert.Equal(t, 1, page.TotalCount)
	assert.False(t, page.HasMore)
}

func TestList_EmptyIsNotAnError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /contacts", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"data":[],"meta":{"total-count":0}}`)
	})
	h := newHarness(t, mux)

	for _, format := range []string{"markdown", "json"} {
		text, isErr := h.call(t, "itglue_list_contacts", map[string]any{"response_format": format})
		assert.False(t, isErr)
		assert.Equal(t, "No contacts found matching the given criteria.", text)
	}
}

func TestGet_NotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /configurations/99", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusNotFound, `{"errors":[{"status":"404","title":"Record not found"}]}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_get_configuration", map[string]any{"id": "99"})

	assert.True(t, isErr)
	assert.True(t, strings.HasPrefix(text, "Error: "))
	assert.Contains(t, strings.ToLower(text), "not found")
}

func TestInvalidArguments(t *testing.T) {
	h := newHarness(t, http.NewServeMux())

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{"page size too large", "itglue_list_organizations", map[string]any{"page_size": 5000}, "page_size"},
		{"unknown format", "itglue_list_contacts", map[string]any{"response_format": "xml"}, "response_format"},
		{"blank id", "itglue_get_contact", map[string]any{"id": " "}, "id is required"},
		{"empty delete", "itglue_delete_passwords", map[string]any{"ids": []string{}}, "ids"},
		{"update without fields", "itglue_update_organization", map[string]any{"id": "1"}, "at least one field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text, isErr := h.call(t, tt.tool, tt.args)
			assert.True(t, isErr)
			assert.Contains(t, text, tt.want)
		})
	}
}

func TestList_Truncated(t *testing.T) {
	long := strings.Repeat("x", 300)
	var records []string
	for i := 0; i < 200; i++ {
		records = append(records, `{"id":"`+strings.Repeat("9", 3)+`","type":"locations","attributes":{"name":"`+long+`","city":"`+long+`"}}`)
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations/5/relationships/locations", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"data":[`+strings.Join(records, ",")+`],"meta":{"total-count":200}}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_list_locations", map[string]any{"organization_id": "5", "page_size": 200})

	assert.False(t, isErr)
	assert.Contains(t, text, "Response truncated at 25000 characters")
	assert.Contains(t, text, "Filter by name or city")
	assert.LessOrEqual(t, len([]rune(text)), textfmt.CharacterLimit+200)
}

func TestListDocuments_MergesPartitions(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations/3/relationships/documents", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("filter[document-folder-id]") == "null" {
			respond(w, http.StatusOK, `{"data":[{"id":"1","type":"documents","attributes":{"name":"Runbook"}}],"meta":{"total-count":1}}`)
			return
		}
		respond(w, http.StatusOK, `{"data":[
			{"id":"1","type":"documents","attributes":{"name":"Runbook"}},
			{"id":"2","type":"documents","attributes":{"name":"Network"}}
		],"meta":{"total-count":2}}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_list_documents", map[string]any{"organization_id": "3"})

	assert.False(t, isErr)
	assert.Equal(t, 1, strings.Count(text, "(ID: 1)"))
	assert.Contains(t, text, "## Network (ID: 2)")
	assert.Contains(t, text, "Showing 2 of 3 documents.")
}

func TestListDocuments_Empty(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations/3/relationships/documents", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"data":[],"meta":{"total-count":0}}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_list_documents", map[string]any{"organization_id": "3"})

	assert.False(t, isErr)
	assert.Equal(t, "No documents found matching the given criteria.", text)
}

func TestGetDocument_RendersSections(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /organizations/3/relationships/documents/8", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"data":{"id":"8","type":"documents","attributes":{"name":"Runbook"}}}`)
	})
	mux.HandleFunc("GET /documents/8/relationships/sections", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"data":[
			{"id":"b","type":"document-sections","attributes":{"resource-type":"Document::Text","sort":2,"content":"<p>Reboot &amp; wait</p>"}},
			{"id":"a","type":"document-sections","attributes":{"resource-type":"Document::Heading","sort":1,"level":1,"content":"Steps"}}
		]}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_get_document", map[string]any{"organization_id": "3", "id": "8"})

	require.False(t, isErr)
	assert.Contains(t, text, "# Runbook (ID: 8)")
	heading := strings.Index(text, "## Steps")
	body := strings.Index(text, "Reboot & wait")
	require.NotEqual(t, -1, heading)
	require.NotEqual(t, -1, body)
	assert.Less(t, heading, body)
	assert.NotContains(t, text, "<p>")
}

func TestPasswords_SecretHandling(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /passwords", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"data":[{"id":"4","type":"passwords","attributes":{"name":"Router","password":"hunter2"}}],"meta":{"total-count":1}}`)
	})
	mux.HandleFunc("GET /passwords/4", func(w http.ResponseWriter, r *http.Request) {
		attrs := `{"name":"Router","username":"admin"}`
		if r.URL.Query().Get("show_password") == "true" {
			attrs = `{"name":"Router","username":"admin","password":"hunter2"}`
		}
		respond(w, http.StatusOK, `{"data":{"id":"4","type":"passwords","attributes":`+attrs+`}}`)
	})
	h := newHarness(t, mux)

	for _, format := range []string{"markdown", "json"} {
		text, isErr := h.call(t, "itglue_list_passwords", map[string]any{"response_format": format})
		require.False(t, isErr)
		assert.NotContains(t, text, "hunter2", format)
	}

	text, isErr := h.call(t, "itglue_get_password", map[string]any{"id": "4"})
	require.False(t, isErr)
	assert.NotContains(t, text, "hunter2")

	text, isErr = h.call(t, "itglue_get_password", map[string]any{"id": "4", "show_password": true})
	require.False(t, isErr)
	assert.Contains(t, text, "- **Password**: hunter2")
}

func TestGetPassword_NullDataIsNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /passwords/4", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusOK, `{"data":null}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_get_password", map[string]any{"id": "4"})

	assert.True(t, isErr)
	assert.Contains(t, strings.ToLower(text), "not found")
}

func TestMutations_PublishAuditEvents(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /organizations", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusCreated, `{"data":[{"id":"11","type":"organizations","attributes":{"name":"Acme"}}]}`)
	})
	mux.HandleFunc("DELETE /configurations", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("PATCH /passwords/4", func(w http.ResponseWriter, r *http.Request) {
		respond(w, http.StatusUnprocessableEntity, `{"errors":[{"status":"422","detail":"Name can't be blank"}]}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_create_organization", map[string]any{"name": "Acme"})
	require.False(t, isErr)
	assert.Contains(t, text, `Created organization "Acme" (ID: 11).`)

	text, isErr = h.call(t, "itglue_delete_configurations", map[string]any{"ids": []string{"1", "2"}})
	require.False(t, isErr)
	assert.Equal(t, "Deleted 2 configurations: 1, 2.", text)

	text, isErr = h.call(t, "itglue_update_password", map[string]any{"id": "4", "name": ""})
	require.True(t, isErr)
	assert.Contains(t, text, "Name can't be blank")

	h.publisher.mu.Lock()
	defer h.publisher.mu.Unlock()
	require.Len(t, h.publisher.events, 3)

	assert.Equal(t, []string{
		"itglue.audit.organizations.create",
		"itglue.audit.configurations.delete",
		"itglue.audit.passwords.update",
	}, h.publisher.subjects)

	assert.Equal(t, audit.OutcomeSuccess, h.publisher.events[0].Outcome)
	assert.Equal(t, "itglue_create_organization", h.publisher.events[0].Tool)
	assert.Equal(t, []string{"1", "2"}, h.publisher.events[1].ResourceIDs)
	assert.Equal(t, audit.OutcomeFailure, h.publisher.events[2].Outcome)
	assert.Contains(t, h.publisher.events[2].Error, "Name can't be blank")
}

func TestListFlexibleAssets_SendsTypeFilter(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /flexible_assets", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "17", r.URL.Query().Get("filter[flexible-asset-type-id]"))
		assert.Equal(t, "3", r.URL.Query().Get("filter[organization-id]"))
		respond(w, http.StatusOK, `{"data":[{"id":"5","type":"flexible-assets","attributes":{"name":"Backup","traits":{"schedule":"nightly"}}}],"meta":{"total-count":1}}`)
	})
	h := newHarness(t, mux)

	text, isErr := h.call(t, "itglue_list_flexible_assets", map[string]any{"flexible_asset_type_id": "17", "organization_id": "3"})

	assert.False(t, isErr)
	assert.Contains(t, text, "## Backup (ID: 5)")
}
