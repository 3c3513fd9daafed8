package itglue

import (
	"context"
	"net/url"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

const (
	// DefaultPageSize is used when a listing does not ask for a size.
	DefaultPageSize = 50
	// MaxPageSize is the largest page IT Glue serves.
	MaxPageSize = 1000
)

// Wire resource types.
const (
	TypeOrganizations      = "organizations"
	TypeConfigurations     = "configurations"
	TypePasswords          = "passwords"
	TypeDocuments          = "documents"
	TypeDocumentSections   = "document-sections"
	TypeFlexibleAssets     = "flexible-assets"
	TypeFlexibleAssetTypes = "flexible-asset-types"
	TypeContacts           = "contacts"
	TypeLocations          = "locations"
)

// ListOptions controls paging, ordering and filtering of a listing. Filter
// keys use record casing (organization_id) and are hyphenated on the wire.
type ListOptions struct {
	PageNumber int
	PageSize   int
	Sort       string
	Filters    map[string]any
}

func (o ListOptions) pageSize() int {
	if o.PageSize <= 0 {
		return DefaultPageSize
	}
	return min(o.PageSize, MaxPageSize)
}

func (o ListOptions) pageNumber() int {
	return max(o.PageNumber, 1)
}

func (o ListOptions) params() url.Values {
	return jsonapi.MergeParams(
		jsonapi.Pagination(o.pageNumber(), o.pageSize()),
		jsonapi.Sort(o.Sort),
		jsonapi.Filters(o.Filters),
	)
}

// Service exposes the supported IT Glue operations. It returns records and
// pages only; nothing from the transport escapes.
type Service struct {
	t Transport
}

// NewService wraps a transport.
func NewService(t Transport) *Service {
	return &Service{t: t}
}

func (s *Service) list(ctx context.Context, op, path string, opts ListOptions) (jsonapi.PageResult, error) {
	env, err := s.t.Get(ctx, path, opts.params())
	if err != nil {
		return jsonapi.PageResult{}, annotate(op, err)
	}
	return jsonapi.ExpectMany(env, opts.pageSize()), nil
}

func (s *Service) get(ctx context.Context, op, path string, params url.Values) (jsonapi.Record, error) {
	env, err := s.t.Get(ctx, path, params)
	if err != nil {
		return nil, annotate(op, err)
	}
	rec, err := jsonapi.ExpectOne(env)
	if err != nil {
		return nil, annotate(op, err)
	}
	return rec, nil
}

func (s *Service) create(ctx context.Context, op, path, resourceType string, attrs map[string]any) (jsonapi.Record, error) {
	env, err := s.t.Post(ctx, path, jsonapi.Encode(resourceType, attrs, ""))
	if err != nil {
		return nil, annotate(op, err)
	}
	rec, err := jsonapi.UnwrapMutationResult(env, op)
	if err != nil {
		return nil, annotate(op, err)
	}
	return rec, nil
}

func (s *Service) update(ctx context.Context, op, path, resourceType, id string, attrs map[string]any) (jsonapi.Record, error) {
	env, err := s.t.Patch(ctx, path, jsonapi.Encode(resourceType, attrs, id))
	if err != nil {
		return nil, annotate(op, err)
	}
	rec, err := jsonapi.UnwrapMutationResult(env, op)
	if err != nil {
		return nil, annotate(op, err)
	}
	return rec, nil
}

func (s *Service) bulkDelete(ctx context.Context, op, path, resourceType string, ids []string) error {
	if _, err := s.t.Delete(ctx, path, jsonapi.EncodeBulkDelete(resourceType, ids)); err != nil {
		return annotate(op, err)
	}
	return nil
}

// annotate classifies err and records the operation it came from.
func annotate(op string, err error) error {
	classified := *Classify(err)
	if classified.Op == "" {
		classified.Op = op
	}
	return &classified
}

func scoped(orgID, collection string) string {
	if orgID == "" {
		return "/" + collection
	}
	return "/organizations/" + url.PathEscape(orgID) + "/relationships/" + collection
}

func withOrganization(attrs map[string]any, orgID string) map[string]any {
	out := make(map[string]any, len(attrs)+1)
	for k, v := range attrs {
		out[k] = v
	}
	if orgID != "" {
		out["organization_id"] = orgID
	}
	return out
}
