package itglue

import (
	"context"
	"errors"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
)

// ErrNoResults reports a merged listing with no records. It is an outcome, not
// a failure: callers render it as an empty result.
var ErrNoResults = errors.New("no results")

// MergePages concatenates a then b, keeping the first record seen for each id.
//
// TotalCount is the sum of both totals. A record present in both partitions is
// counted twice there while appearing once in Data; callers should treat the
// total as an upper bound.
func MergePages(a, b jsonapi.PageResult) jsonapi.PageResult {
	seen := make(map[string]struct{}, len(a.Data)+len(b.Data))
	data := make([]jsonapi.Record, 0, len(a.Data)+len(b.Data))
	for _, page := range [...][]jsonapi.Record{a.Data, b.Data} {
		for _, rec := range page {
			id := rec.ID()
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			data = append(data, rec)
		}
	}

	merged := jsonapi.PageResult{
		Data:       data,
		TotalCount: a.TotalCount + b.TotalCount,
		PageNumber: a.PageNumber,
		PageSize:   a.PageSize,
		HasMore:    a.HasMore || b.HasMore,
	}
	if merged.HasMore {
		next := merged.PageNumber + 1
		merged.NextPage = &next
	}
	return merged
}

// ListPartitioned lists one logical collection that IT Glue only exposes as
// two filtered queries. Both queries share base and differ by their partition
// parameters; they run concurrently but merge in A-then-B order. A failure of
// either fails the whole listing. An empty merge returns ErrNoResults together
// with the empty page.
func ListPartitioned(ctx context.Context, t Transport, path string, base url.Values, pageSize int, partitionA, partitionB url.Values) (jsonapi.PageResult, error) {
	var pages [2]jsonapi.PageResult

	g, gctx := errgroup.WithContext(ctx)
	for i, partition := range [2]url.Values{partitionA, partitionB} {
		g.Go(func() error {
			env, err := t.Get(gctx, path, jsonapi.MergeParams(base, partition))
			if err != nil {
				return err
			}
			pages[i] = jsonapi.ExpectMany(env, pageSize)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return jsonapi.PageResult{}, Classify(err)
	}

	merged := MergePages(pages[0], pages[1])
	if len(merged.Data) == 0 {
		return merged, ErrNoResults
	}
	return merged, nil
}
