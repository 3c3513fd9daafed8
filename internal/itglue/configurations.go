package itglue

import (
	"context"
	"net/url"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

// ListConfigurations lists configurations, within one organization when orgID
// is set.
func (s *Service) ListConfigurations(ctx context.Context, opts ListOptions, orgID string) (jsonapi.PageResult, error) {
	return s.list(ctx, "list configurations", scoped(orgID, "configurations"), opts)
}

// GetConfiguration fetches one configuration.
func (s *Service) GetConfiguration(ctx context.Context, id string) (jsonapi.Record, error) {
	return s.get(ctx, "get configuration", "/configurations/"+url.PathEscape(id), nil)
}

// CreateConfiguration creates a configuration in orgID.
func (s *Service) CreateConfiguration(ctx context.Context, orgID string, attrs map[string]any) (jsonapi.Record, error) {
	return s.create(ctx, "create configuration", "/configurations", TypeConfigurations, withOrganization(attrs, orgID))
}

// UpdateConfiguration patches a configuration.
func (s *Service) UpdateConfiguration(ctx context.Context, id string, attrs map[string]any) (jsonapi.Record, error) {
	return s.update(ctx, "update configuration", "/configurations/"+url.PathEscape(id), TypeConfigurations, id, attrs)
}

// DeleteConfigurations deletes configurations in one bulk request.
func (s *Service) DeleteConfigurations(ctx context.Context, ids []string) error {
	return s.bulkDelete(ctx, "delete configurations", "/configurations", TypeConfigurations, ids)
}
