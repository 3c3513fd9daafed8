package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/audit"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/itglue"
)

var organizationView = view{
	singular: "organization",
	plural:   "organizations",
	fields:   []string{"short_name", "organization_type_name", "organization_status_name", "primary", "alert"},
}

// ListOrganizationsInput holds the arguments of itglue_list_organizations.
type ListOrganizationsInput struct {
	Name                 string `json:"name,omitempty" jsonschema:"filter by exact organization name"`
	OrganizationTypeID   string `json:"organization_type_id,omitempty" jsonschema:"filter by organization type ID"`
	OrganizationStatusID string `json:"organization_status_id,omitempty" jsonschema:"filter by organization status ID"`
	PSAID                string `json:"psa_id,omitempty" jsonschema:"filter by PSA integration ID"`
	PageNumber           int    `json:"page_number,omitempty" jsonschema:"page to fetch, starting at 1"`
	PageSize             int    `json:"page_size,omitempty" jsonschema:"results per page, 1 to 1000 (default 50)"`
	Sort                 string `json:"sort,omitempty" jsonschema:"sort field such as name or -updated_at"`
	ResponseFormat       string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// GetOrganizationInput identifies the organization to fetch.
type GetOrganizationInput struct {
	ID             string `json:"id" jsonschema:"organization ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// CreateOrganizationInput holds the attributes of a new organization.
type CreateOrganizationInput struct {
	Name                 string  `json:"name" jsonschema:"organization name"`
	OrganizationTypeID   *string `json:"organization_type_id,omitempty" jsonschema:"organization type ID"`
	OrganizationStatusID *string `json:"organization_status_id,omitempty" jsonschema:"organization status ID"`
	ShortName            *string `json:"short_name,omitempty" jsonschema:"short name"`
	Description          *string `json:"description,omitempty" jsonschema:"description"`
	QuickNotes           *string `json:"quick_notes,omitempty" jsonschema:"quick notes (HTML)"`
	Alert                *string `json:"alert,omitempty" jsonschema:"alert text shown on the organization"`
	ResponseFormat       string  `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// UpdateOrganizationInput holds the organization attributes to change. Omitted fields are left as they are.
type UpdateOrganizationInput struct {
	ID                   string  `json:"id" jsonschema:"organization ID"`
	Name                 *string `json:"name,omitempty" jsonschema:"organization name"`
	OrganizationTypeID   *string `json:"organization_type_id,omitempty" jsonschema:"organization type ID"`
	OrganizationStatusID *string `json:"organization_status_id,omitempty" jsonschema:"organization status ID"`
	ShortName            *string `json:"short_name,omitempty" jsonschema:"short name"`
	Description          *string `json:"description,omitempty" jsonschema:"description"`
	QuickNotes           *string `json:"quick_notes,omitempty" jsonschema:"quick notes (HTML)"`
	Alert                *string `json:"alert,omitempty" jsonschema:"alert text shown on the organization"`
	ResponseFormat       string  `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

func (ts *Toolset) registerOrganizations(server *mcp.Server) {
	add(ts, server, &mcp.Tool{
		Name:        "itglue_list_organizations",
		Description: "List IT Glue organizations (customers and internal companies). Filter by name, type, status or PSA ID. Returns a page of results with a pagination footer.",
		Annotations: readOnly("List Organizations"),
	}, "Filter by name or organization_type_id, or request a smaller page_size.", ts.listOrganizations)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_get_organization",
		Description: "Get one IT Glue organization by ID with all of its attributes.",
		Annotations: readOnly("Get Organization"),
	}, "", ts.getOrganization)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_create_organization",
		Description: "Create an IT Glue organization. Only name is required.",
		Annotations: writes("Create Organization", false, false),
	}, "", ts.createOrganization)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_update_organization",
		Description: "Update an IT Glue organization. Only the fields provided are changed.",
		Annotations: writes("Update Organization", false, true),
	}, "", ts.updateOrganization)
}

func (ts *Toolset) listOrganizations(ctx context.Context, in ListOrganizationsInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	opts, err := listOptions(in.PageNumber, in.PageSize, in.Sort, map[string]any{
		"name":                   optional(in.Name),
		"organization_type_id":   optional(in.OrganizationTypeID),
		"organization_status_id": optional(in.OrganizationStatusID),
		"psa_id":                 optional(in.PSAID),
	})
	if err != nil {
		return "", err
	}

	page, err := ts.svc.ListOrganizations(ctx, opts)
	return listing(organizationView, format, page, err)
}

func (ts *Toolset) getOrganization(ctx context.Context, in GetOrganizationInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	rec, err := ts.svc.GetOrganization(ctx, in.ID)
	if err != nil {
		return "", err
	}
	return renderRecord(organizationView, format, rec)
}

func (ts *Toolset) createOrganization(ctx context.Context, in CreateOrganizationInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("name", in.Name); err != nil {
		return "", err
	}

	return ts.mutation(ctx, "itglue_create_organization", itglue.TypeOrganizations, audit.ActionCreate, nil, func() (string, error) {
		rec, err := ts.svc.CreateOrganization(ctx, map[string]any{
			"name":                   in.Name,
			"organization_type_id":   in.OrganizationTypeID,
			"organization_status_id": in.OrganizationStatusID,
			"short_name":             in.ShortName,
			"description":            in.Description,
			"quick_notes":            in.QuickNotes,
			"alert":                  in.Alert,
		})
		if err != nil {
			return "", err
		}
		return mutationSummary("Created", organizationView, rec, format)
	})
}

func (ts *Toolset) updateOrganization(ctx context.Context, in UpdateOrganizationInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	attrs := map[string]any{
		"name":                   in.Name,
		"organization_type_id":   in.OrganizationTypeID,
		"organization_status_id": in.OrganizationStatusID,
		"short_name":             in.ShortName,
		"description":            in.Description,
		"quick_notes":            in.QuickNotes,
		"alert":                  in.Alert,
	}
	if err := anyProvided(attrs); err != nil {
		return "", err
	}

	return ts.mutation(ctx, "itglue_update_organization", itglue.TypeOrganizations, audit.ActionUpdate, []string{in.ID}, func() (string, error) {
		rec, err := ts.svc.UpdateOrganization(ctx, in.ID, attrs)
		if err != nil {
			return "", err
		}
		return mutationSummary("Updated", organizationView, rec, format)
	})
}
