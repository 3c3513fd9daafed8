package itglue

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

// ListPasswords lists password entries, within one organization when orgID is
// set. Listings never include the secret itself.
func (s *Service) ListPasswords(ctx context.Context, opts ListOptions, orgID string) (jsonapi.PageResult, error) {
	return s.list(ctx, "list passwords", scoped(orgID, "passwords"), opts)
}

// GetPassword fetches one password. The secret is only returned when show is
// true. IT Glue answers an unknown or inaccessible id with empty data, which
// is reported as not found.
func (s *Service) GetPassword(ctx context.Context, id string, show bool) (jsonapi.Record, error) {
	params := url.Values{}
	params.Set("show_password", strconv.FormatBool(show))

	env, err := s.t.Get(ctx, "/passwords/"+url.PathEscape(id), params)
	if err != nil {
		return nil, annotate("get password", err)
	}
	rec, ok := jsonapi.ExpectOneOrNull(env)
	if !ok {
		return nil, &Error{Kind: KindNotFound, Status: 404, Detail: "password " + id + " does not exist or is not visible to this API key", Op: "get password"}
	}
	return rec, nil
}

// CreatePassword creates a password in orgID.
func (s *Service) CreatePassword(ctx context.Context, orgID string, attrs map[string]any) (jsonapi.Record, error) {
	return s.create(ctx, "create password", "/passwords", TypePasswords, withOrganization(attrs, orgID))
}

// UpdatePassword patches a password.
func (s *Service) UpdatePassword(ctx context.Context, id string, attrs map[string]any) (jsonapi.Record, error) {
	return s.update(ctx, "update password", "/passwords/"+url.PathEscape(id), TypePasswords, id, attrs)
}

// DeletePasswords deletes passwords in one bulk request.
func (s *Service) DeletePasswords(ctx context.Context, ids []string) error {
	return s.bulkDelete(ctx, "delete passwords", "/passwords", TypePasswords, ids)
}
