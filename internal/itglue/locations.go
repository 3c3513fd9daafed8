package itglue

import (
	"context"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

// ListLocations lists the locations of an organization.
func (s *Service) ListLocations(ctx context.Context, orgID string, opts ListOptions) (jsonapi.PageResult, error) {
	return s.list(ctx, "list locations", scoped(orgID, "locations"), opts)
}
