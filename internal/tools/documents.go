package tools

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/itglue"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/textfmt"
)

var documentView = view{
	singular: "document",
	plural:   "documents",
	fields:   []string{"organization_name", "document_folder_id", "published", "updated_at"},
	hidden:   []string{"content"},
}

const headingSection = "Document::Heading"

// ListDocumentsInput holds the arguments of itglue_list_documents.
type ListDocumentsInput struct {
	OrganizationID string `json:"organization_id" jsonschema:"organization whose documents to list"`
	Name           string `json:"name,omitempty" jsonschema:"filter by document name"`
	PageNumber     int    `json:"page_number,omitempty" jsonschema:"page to fetch, starting at 1"`
	PageSize       int    `json:"page_size,omitempty" jsonschema:"results per page, 1 to 1000 (default 50)"`
	Sort           string `json:"sort,omitempty" jsonschema:"sort field such as name or -updated_at"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// GetDocumentInput identifies the document to fetch with its sections.
type GetDocumentInput struct {
	OrganizationID string `json:"organization_id" jsonschema:"organization that owns the document"`
	ID             string `json:"id" jsonschema:"document ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// documentBody is the json form of itglue_get_document.
type documentBody struct {
	Document jsonapi.Record   `json:"document"`
	Sections []jsonapi.Record `json:"sections"`
}

func (ts *Toolset) registerDocuments(server *mcp.Server) {
	add(ts, server, &mcp.Tool{
		Name:        "itglue_list_documents",
		Description: "List the documents of an IT Glue organization, both at the root and inside folders.",
		Annotations: readOnly("List Documents"),
	}, "Filter by name or request a smaller page_size.", ts.listDocuments)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_get_document",
		Description: "Get one IT Glue document with its sections. Section bodies are converted from HTML to plain text.",
		Annotations: readOnly("Get Document"),
	}, "The document is too long to return whole; use response_format json and read the sections you need.", ts.getDocument)
}

func (ts *Toolset) listDocuments(ctx context.Context, in ListDocumentsInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("organization_id", in.OrganizationID); err != nil {
		return "", err
	}
	opts, err := listOptions(in.PageNumber, in.PageSize, in.Sort, map[string]any{
		"name": optional(in.Name),
	})
	if err != nil {
		return "", err
	}

	page, err := ts.svc.ListDocuments(ctx, in.OrganizationID, opts)
	return listing(documentView, format, page, err)
}

func (ts *Toolset) getDocument(ctx context.Context, in GetDocumentInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("organization_id", in.OrganizationID); err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	doc, err := ts.svc.GetDocument(ctx, in.OrganizationID, in.ID)
	if err != nil {
		return "", err
	}
	sections, err := ts.svc.ListDocumentSections(ctx, in.ID, itglue.ListOptions{PageSize: itglue.MaxPageSize})
	if err != nil {
		return "", err
	}
	ordered := sortSections(sections.Data)

	if format == FormatJSON {
		return renderJSON(documentBody{Document: doc, Sections: ordered})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (ID: %s)\n\n", documentView.titleOf(doc), doc.ID())
	writeFields(&b, documentView, doc)

	// Older documents keep their body on the document itself.
	if body := textfmt.HTMLToText(doc.String("content")); body != "" {
		b.WriteString("\n")
		b.WriteString(body)
		b.WriteString("\n")
	}
	for _, section := range ordered {
		if text := renderSection(section); text != "" {
			b.WriteString("\n")
			b.WriteString(text)
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// sortSections orders sections by their sort attribute, keeping upstream
// order for ties and for sections without one.
func sortSections(sections []jsonapi.Record) []jsonapi.Record {
	ordered := make([]jsonapi.Record, len(sections))
	copy(ordered, sections)
	sort.SliceStable(ordered, func(i, j int) bool {
		return sectionSort(ordered[i]) < sectionSort(ordered[j])
	})
	return ordered
}

func sectionSort(rec jsonapi.Record) int {
	n, err := strconv.Atoi(rec.String("sort"))
	if err != nil {
		return 0
	}
	return n
}

// renderSection turns one section into text. Heading sections become a
// markdown heading one level below the document title.
func renderSection(rec jsonapi.Record) string {
	text := textfmt.HTMLToText(rec.String("content"))
	if rec.String("resource_type") != headingSection {
		return text
	}
	if text == "" {
		return ""
	}

	level, err := strconv.Atoi(rec.String("level"))
	if err != nil || level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	return strings.Repeat("#", level+1) + " " + strings.TrimLeft(text, "# ")
}
