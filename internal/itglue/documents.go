package itglue

import (
	"context"
	"errors"
	"net/url"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

const documentFolderFilter = "filter[document-folder-id]"

// ListDocuments lists the documents of an organization. IT Glue returns either
// root documents or foldered documents per query, never both, so the two
// partitions are fetched and merged. See MergePages for the total count
// caveat. An empty organization yields ErrNoResults.
func (s *Service) ListDocuments(ctx context.Context, orgID string, opts ListOptions) (jsonapi.PageResult, error) {
	root := url.Values{documentFolderFilter: {"null"}}
	foldered := url.Values{documentFolderFilter: {"!=null"}}

	page, err := ListPartitioned(ctx, s.t, scoped(orgID, "documents"), opts.params(), opts.pageSize(), root, foldered)
	if err != nil && !errors.Is(err, ErrNoResults) {
		return jsonapi.PageResult{}, annotate("list documents", err)
	}
	return page, err
}

// GetDocument fetches one document of an organization.
func (s *Service) GetDocument(ctx context.Context, orgID, id string) (jsonapi.Record, error) {
	return s.get(ctx, "get document", scoped(orgID, "documents")+"/"+url.PathEscape(id), nil)
}

// ListDocumentSections lists the sections of a document in display order.
func (s *Service) ListDocumentSections(ctx context.Context, documentID string, opts ListOptions) (jsonapi.PageResult, error) {
	return s.list(ctx, "list document sections", "/documents/"+url.PathEscape(documentID)+"/relationships/sections", opts)
}
