package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

var contactView = view{
	singular: "contact",
	plural:   "contacts",
	fields:   []string{"organization_name", "title", "contact_type_name", "primary_email", "primary_phone", "important"},
	title: func(rec jsonapi.Record) string {
		if name := rec.String("name"); name != "" {
			return name
		}
		return strings.TrimSpace(rec.String("first_name") + " " + rec.String("last_name"))
	},
}

// ListContactsInput holds the arguments of itglue_list_contacts.
type ListContactsInput struct {
	OrganizationID string `json:"organization_id,omitempty" jsonschema:"only list contacts of this organization"`
	FirstName      string `json:"first_name,omitempty" jsonschema:"filter by first name"`
	LastName       string `json:"last_name,omitempty" jsonschema:"filter by last name"`
	Title          string `json:"title,omitempty" jsonschema:"filter by job title"`
	ContactTypeID  string `json:"contact_type_id,omitempty" jsonschema:"filter by contact type ID"`
	Important      *bool  `json:"important,omitempty" jsonschema:"filter by the important flag"`
	PrimaryEmail   string `json:"primary_email,omitempty" jsonschema:"filter by primary email address"`
	PageNumber     int    `json:"page_number,omitempty" jsonschema:"page to fetch, starting at 1"`
	PageSize       int    `json:"page_size,omitempty" jsonschema:"results per page, 1 to 1000 (default 50)"`
	Sort           string `json:"sort,omitempty" jsonschema:"sort field such as last_name or -updated_at"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// GetContactInput identifies the contact to fetch.
type GetContactInput struct {
	ID             string `json:"id" jsonschema:"contact ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

func (ts *Toolset) registerContacts(server *mcp.Server) {
	add(ts, server, &mcp.Tool{
		Name:        "itglue_list_contacts",
		Description: "List IT Glue contacts, optionally within one organization. Filter by name, title, type, email or the important flag.",
		Annotations: readOnly("List Contacts"),
	}, "Filter by organization_id or last_name, or request a smaller page_size.", ts.listContacts)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_get_contact",
		Description: "Get one IT Glue contact by ID with emails, phones and notes.",
		Annotations: readOnly("Get Contact"),
	}, "", ts.getContact)
}

func (ts *Toolset) listContacts(ctx context.Context, in ListContactsInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	opts, err := listOptions(in.PageNumber, in.PageSize, in.Sort, map[string]any{
		"first_name":      optional(in.FirstName),
		"last_name":       optional(in.LastName),
		"title":           optional(in.Title),
		"contact_type_id": optional(in.ContactTypeID),
		"important":       in.Important,
		"primary_email":   optional(in.PrimaryEmail),
	})
	if err != nil {
		return "", err
	}

	page, err := ts.svc.ListContacts(ctx, opts, in.OrganizationID)
	return listing(contactView, format, page, err)
}

func (ts *Toolset) getContact(ctx context.Context, in GetContactInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	rec, err := ts.svc.GetContact(ctx, in.ID)
	if err != nil {
		return "", err
	}
	return renderRecord(contactView, format, rec)
}
