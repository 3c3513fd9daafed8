package itglue

import (
	"context"
	"net/url"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

// ListFlexibleAssetTypes lists the flexible asset types defined in the account.
func (s *Service) ListFlexibleAssetTypes(ctx context.Context, opts ListOptions) (jsonapi.PageResult, error) {
	return s.list(ctx, "list flexible asset types", "/flexible_asset_types", opts)
}

// ListFlexibleAssets lists the assets of one type. IT Glue requires the type
// filter on this endpoint.
func (s *Service) ListFlexibleAssets(ctx context.Context, typeID string, opts ListOptions) (jsonapi.PageResult, error) {
	filters := make(map[string]any, len(opts.Filters)+1)
	for k, v := range opts.Filters {
		filters[k] = v
	}
	filters["flexible_asset_type_id"] = typeID
	opts.Filters = filters

	return s.list(ctx, "list flexible assets", "/flexible_assets", opts)
}

// GetFlexibleAsset fetches one flexible asset.
func (s *Service) GetFlexibleAsset(ctx context.Context, id string) (jsonapi.Record, error) {
	return s.get(ctx, "get flexible asset", "/flexible_assets/"+url.PathEscape(id), nil)
}

// CreateFlexibleAsset creates an asset of typeID in orgID. Trait keys are sent
// as given.
func (s *Service) CreateFlexibleAsset(ctx context.Context, orgID, typeID string, traits map[string]any) (jsonapi.Record, error) {
	attrs := map[string]any{
		"organization_id":        orgID,
		"flexible_asset_type_id": typeID,
		"traits":                 traits,
	}
	return s.create(ctx, "create flexible asset", "/flexible_assets", TypeFlexibleAssets, attrs)
}

// UpdateFlexibleAsset replaces the traits of an asset.
func (s *Service) UpdateFlexibleAsset(ctx context.Context, id string, traits map[string]any) (jsonapi.Record, error) {
	return s.update(ctx, "update flexible asset", "/flexible_assets/"+url.PathEscape(id), TypeFlexibleAssets, id, map[string]any{"traits": traits})
}
