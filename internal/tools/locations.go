package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var locationView = view{
	singular: "location",
	plural:   "locations",
	fields:   []string{"organization_name", "primary", "address_1", "city", "region_name", "postal_code", "country_name", "phone"},
}

// ListLocationsInput holds the arguments of itglue_list_locations.
type ListLocationsInput struct {
	OrganizationID string `json:"organization_id" jsonschema:"organization whose locations to list"`
	Name           string `json:"name,omitempty" jsonschema:"filter by location name"`
	City           string `json:"city,omitempty" jsonschema:"filter by city"`
	RegionID       string `json:"region_id,omitempty" jsonschema:"filter by region ID"`
	CountryID      string `json:"country_id,omitempty" jsonschema:"filter by country ID"`
	PageNumber     int    `json:"page_number,omitempty" jsonschema:"page to fetch, starting at 1"`
	PageSize       int    `json:"page_size,omitempty" jsonschema:"results per page, 1 to 1000 (default 50)"`
	Sort           string `json:"sort,omitempty" jsonschema:"sort field such as name"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

func (ts *Toolset) registerLocations(server *mcp.Server) {
	add(ts, server, &mcp.Tool{
		Name:        "itglue_list_locations",
		Description: "List the locations (sites and offices) of an IT Glue organization.",
		Annotations: readOnly("List Locations"),
	}, "Filter by name or city, or request a smaller page_size.", ts.listLocations)
}

func (ts *Toolset) listLocations(ctx context.Context, in ListLocationsInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("organization_id", in.OrganizationID); err != nil {
		return "", err
	}
	opts, err := listOptions(in.PageNumber, in.PageSize, in.Sort, map[string]any{
		"name":       optional(in.Name),
		"city":       optional(in.City),
		"region_id":  optional(in.RegionID),
		"country_id": optional(in.CountryID),
	})
	if err != nil {
		return "", err
	}

	page, err := ts.svc.ListLocations(ctx, in.OrganizationID, opts)
	return listing(locationView, format, page, err)
}
