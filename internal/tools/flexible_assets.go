package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/audit"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/itglue"
)

var (
	flexibleAssetTypeView = view{
		singular: "flexible asset type",
		plural:   "flexible asset types",
		fields:   []string{"description", "enabled", "show_in_menu", "icon"},
	}
	flexibleAssetView = view{
		singular: "flexible asset",
		plural:   "flexible assets",
		fields:   []string{"organization_name", "flexible_asset_type_name", "updated_at"},
	}
)

// ListFlexibleAssetTypesInput holds the arguments of itglue_list_flexible_asset_types.
type ListFlexibleAssetTypesInput struct {
	Name           string `json:"name,omitempty" jsonschema:"filter by type name"`
	Enabled        *bool  `json:"enabled,omitempty" jsonschema:"filter by enabled state"`
	PageNumber     int    `json:"page_number,omitempty" jsonschema:"page to fetch, starting at 1"`
	PageSize       int    `json:"page_size,omitempty" jsonschema:"results per page, 1 to 1000 (default 50)"`
	Sort           string `json:"sort,omitempty" jsonschema:"sort field such as name"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// ListFlexibleAssetsInput holds the arguments of itglue_list_flexible_assets.
type ListFlexibleAssetsInput struct {
	FlexibleAssetTypeID string `json:"flexible_asset_type_id" jsonschema:"type of assets to list"`
	OrganizationID      string `json:"organization_id,omitempty" jsonschema:"only list assets of this organization"`
	Name                string `json:"name,omitempty" jsonschema:"filter by asset name"`
	PageNumber          int    `json:"page_number,omitempty" jsonschema:"page to fetch, starting at 1"`
	PageSize            int    `json:"page_size,omitempty" jsonschema:"results per page, 1 to 1000 (default 50)"`
	Sort                string `json:"sort,omitempty" jsonschema:"sort field such as name or -updated_at"`
	ResponseFormat      string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// GetFlexibleAssetInput identifies the flexible asset to fetch.
type GetFlexibleAssetInput struct {
	ID             string `json:"id" jsonschema:"flexible asset ID"`
	ResponseFormat string `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// CreateFlexibleAssetInput holds the type, organization and traits of a new flexible asset.
type CreateFlexibleAssetInput struct {
	OrganizationID      string         `json:"organization_id" jsonschema:"organization that owns the asset"`
	FlexibleAssetTypeID string         `json:"flexible_asset_type_id" jsonschema:"type of the asset"`
	Traits              map[string]any `json:"traits" jsonschema:"trait values keyed by the type's field names"`
	ResponseFormat      string         `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

// UpdateFlexibleAssetInput holds the complete trait set of a flexible asset.
type UpdateFlexibleAssetInput struct {
	ID             string         `json:"id" jsonschema:"flexible asset ID"`
	Traits         map[string]any `json:"traits" jsonschema:"trait values; traits left out are cleared by IT Glue"`
	ResponseFormat string         `json:"response_format,omitempty" jsonschema:"markdown (default) or json"`
}

func (ts *Toolset) registerFlexibleAssets(server *mcp.Server) {
	add(ts, server, &mcp.Tool{
		Name:        "itglue_list_flexible_asset_types",
		Description: "List the flexible asset types defined in IT Glue. Use the returned IDs with itglue_list_flexible_assets.",
		Annotations: readOnly("List Flexible Asset Types"),
	}, "Filter by name or request a smaller page_size.", ts.listFlexibleAssetTypes)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_list_flexible_assets",
		Description: "List IT Glue flexible assets of one type, optionally within one organization.",
		Annotations: readOnly("List Flexible Assets"),
	}, "Filter by organization_id or name, or request a smaller page_size.", ts.listFlexibleAssets)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_get_flexible_asset",
		Description: "Get one IT Glue flexible asset by ID with its traits.",
		Annotations: readOnly("Get Flexible Asset"),
	}, "", ts.getFlexibleAsset)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_create_flexible_asset",
		Description: "Create an IT Glue flexible asset of a given type in an organization.",
		Annotations: writes("Create Flexible Asset", false, false),
	}, "", ts.createFlexibleAsset)

	add(ts, server, &mcp.Tool{
		Name:        "itglue_update_flexible_asset",
		Description: "Replace the traits of an IT Glue flexible asset. Send every trait to keep; omitted traits are cleared.",
		Annotations: writes("Update Flexible Asset", true, true),
	}, "", ts.updateFlexibleAsset)
}

func (ts *Toolset) listFlexibleAssetTypes(ctx context.Context, in ListFlexibleAssetTypesInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	opts, err := listOptions(in.PageNumber, in.PageSize, in.Sort, map[string]any{
		"name":    optional(in.Name),
		"enabled": in.Enabled,
	})
	if err != nil {
		return "", err
	}

	page, err := ts.svc.ListFlexibleAssetTypes(ctx, opts)
	return listing(flexibleAssetTypeView, format, page, err)
}

func (ts *Toolset) listFlexibleAssets(ctx context.Context, in ListFlexibleAssetsInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("flexible_asset_type_id", in.FlexibleAssetTypeID); err != nil {
		return "", err
	}
	opts, err := listOptions(in.PageNumber, in.PageSize, in.Sort, map[string]any{
		"organization_id": optional(in.OrganizationID),
		"name":            optional(in.Name),
	})
	if err != nil {
		return "", err
	}

	page, err := ts.svc.ListFlexibleAssets(ctx, in.FlexibleAssetTypeID, opts)
	return listing(flexibleAssetView, format, page, err)
}

func (ts *Toolset) getFlexibleAsset(ctx context.Context, in GetFlexibleAssetInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}

	rec, err := ts.svc.GetFlexibleAsset(ctx, in.ID)
	if err != nil {
		return "", err
	}
	return renderRecord(flexibleAssetView, format, rec)
}

func (ts *Toolset) createFlexibleAsset(ctx context.Context, in CreateFlexibleAssetInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("organization_id", in.OrganizationID); err != nil {
		return "", err
	}
	if err := required("flexible_asset_type_id", in.FlexibleAssetTypeID); err != nil {
		return "", err
	}
	if len(in.Traits) == 0 {
		return "", invalidInput("traits must contain at least one trait")
	}

	return ts.mutation(ctx, "itglue_create_flexible_asset", itglue.TypeFlexibleAssets, audit.ActionCreate, nil, func() (string, error) {
		rec, err := ts.svc.CreateFlexibleAsset(ctx, in.OrganizationID, in.FlexibleAssetTypeID, in.Traits)
		if err != nil {
			return "", err
		}
		return mutationSummary("Created", flexibleAssetView, rec, format)
	})
}

func (ts *Toolset) updateFlexibleAsset(ctx context.Context, in UpdateFlexibleAssetInput) (string, error) {
	format, err := checkFormat(in.ResponseFormat)
	if err != nil {
		return "", err
	}
	if err := required("id", in.ID); err != nil {
		return "", err
	}
	if len(in.Traits) == 0 {
		return "", invalidInput("traits must contain at least one trait")
	}

	return ts.mutation(ctx, "itglue_update_flexible_asset", itglue.TypeFlexibleAssets, audit.ActionUpdate, []string{in.ID}, func() (string, error) {
		rec, err := ts.svc.UpdateFlexibleAsset(ctx, in.ID, in.Traits)
		if err != nil {
			return "", err
		}
		return mutationSummary("Updated", flexibleAssetView, rec, format)
	})
}
