package itglue

import (
	"context"
	"net/url"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

// ListOrganizations lists organizations.
func (s *Service) ListOrganizations(ctx context.Context, opts ListOptions) (jsonapi.PageResult, error) {
	return s.list(ctx, "list organizations", "/organizations", opts)
}

// GetOrganization fetches one organization.
func (s *Service) GetOrganization(ctx context.Context, id string) (jsonapi.Record, error) {
	return s.get(ctx, "get organization", "/organizations/"+url.PathEscape(id), nil)
}

// CreateOrganization creates an organization from record-cased attributes.
func (s *Service) CreateOrganization(ctx context.Context, attrs map[string]any) (jsonapi.Record, error) {
	return s.create(ctx, "create organization", "/organizations", TypeOrganizations, attrs)
}

// UpdateOrganization patches the given attributes of an organization.
func (s *Service) UpdateOrganization(ctx context.Context, id string, attrs map[string]any) (jsonapi.Record, error) {
	return s.update(ctx, "update organization", "/organizations/"+url.PathEscape(id), TypeOrganizations, id, attrs)
}
