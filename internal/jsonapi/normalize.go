package jsonapi

import (
	"errors"
	"fmt"
)

var (
	// ErrUnexpectedShape is returned when a single-resource endpoint answers
	// with a collection (of any length) or with no resource at all.
	ErrUnexpectedShape = errors.New("expected a single resource but received a collection")

	// ErrEmptyMutationResult is returned when a create or update reports zero
	// resources.
	ErrEmptyMutationResult = errors.New("mutation returned no resources")
)

// EmptyMutationError names the operation that came back empty.
type EmptyMutationError struct {
	Op string
}

func (e *EmptyMutationError) Error() string {
	return fmt.Sprintf("%s returned no resources", e.Op)
}

// Unwrap allows errors.Is(err, ErrEmptyMutationResult).
func (e *EmptyMutationError) Unwrap() error {
	return ErrEmptyMutationResult
}

// PageResult is one page of records. HasMore is true exactly when NextPage is
// set. PageSize echoes the requested size, not len(Data).
type PageResult struct {
	Data       []Record `json:"data"`
	TotalCount int      `json:"total_count"`
	PageNumber int      `json:"page_number"`
	PageSize   int      `json:"page_size"`
	HasMore    bool     `json:"has_more"`
	NextPage   *int     `json:"next_page"`
}

// ExpectOne decodes the single resource of env. Collections are rejected even
// when they hold exactly one element.
func ExpectOne(env *Envelope) (Record, error) {
	if env == nil {
		return nil, fmt.Errorf("%w: empty response", ErrUnexpectedShape)
	}
	switch env.Data.Shape() {
	case ShapeSingle:
		res, _ := env.Data.One()
		return Decode(res), nil
	case ShapeMany:
		return nil, ErrUnexpectedShape
	default:
		return nil, fmt.Errorf("%w: response contained %s data", ErrUnexpectedShape, env.Data.Shape())
	}
}

// ExpectMany decodes a listing. A single object is treated as a one-element
// page; missing metadata falls back to the element count and page 1.
func ExpectMany(env *Envelope, requestedPageSize int) PageResult {
	var resources []Resource
	if env != nil {
		switch env.Data.Shape() {
		case ShapeSingle:
			res, _ := env.Data.One()
			resources = []Resource{res}
		case ShapeMany:
			resources, _ = env.Data.All()
		}
	}

	records := DecodeAll(resources)
	result := PageResult{
		Data:       records,
		TotalCount: len(records),
		PageNumber: 1,
		PageSize:   len(records),
	}
	if requestedPageSize > 0 {
		result.PageSize = requestedPageSize
	}

	if env != nil && env.Meta != nil {
		if env.Meta.TotalCount != nil {
			result.TotalCount = *env.Meta.TotalCount
		}
		if env.Meta.CurrentPage != nil {
			result.PageNumber = *env.Meta.CurrentPage
		}
		if env.Meta.NextPage != nil {
			next := *env.Meta.NextPage
			result.NextPage = &next
			result.HasMore = true
		}
	}
	return result
}

// ExpectOneOrNull tolerates a nil envelope, null data and an empty collection,
// reporting false for all of them. Otherwise the object, or the first element
// of a collection, is decoded.
func ExpectOneOrNull(env *Envelope) (Record, bool) {
	if env == nil {
		return nil, false
	}
	switch env.Data.Shape() {
	case ShapeSingle:
		res, _ := env.Data.One()
		return Decode(res), true
	case ShapeMany:
		resources, _ := env.Data.All()
		if len(resources) == 0 {
			return nil, false
		}
		return Decode(resources[0]), true
	default:
		return nil, false
	}
}

// UnwrapMutationResult decodes the resource returned by a create or update.
// A collection yields its first element; an empty collection or missing data
// is an *EmptyMutationError for op.
func UnwrapMutationResult(env *Envelope, op string) (Record, error) {
	if env == nil {
		return nil, &EmptyMutationError{Op: op}
	}
	switch env.Data.Shape() {
	case ShapeSingle:
		res, _ := env.Data.One()
		return Decode(res), nil
	case ShapeMany:
		resources, _ := env.Data.All()
		if len(resources) == 0 {
			return nil, &EmptyMutationError{Op: op}
		}
		return Decode(resources[0]), nil
	default:
		return nil, &EmptyMutationError{Op: op}
	}
}
