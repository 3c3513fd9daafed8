package itglue

import (
	"context"
	"net/url"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

// ListContacts lists contacts, within one organization when orgID is set.
func (s *Service) ListContacts(ctx context.Context, opts ListOptions, orgID string) (jsonapi.PageResult, error) {
	return s.list(ctx, "list contacts", scoped(orgID, "contacts"), opts)
}

// GetContact fetches one contact.
func (s *Service) GetContact(ctx context.Context, id string) (jsonapi.Record, error) {
	return s.get(ctx, "get contact", "/contacts/"+url.PathEscape(id), nil)
}
