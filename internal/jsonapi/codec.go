package jsonapi

import (
	"reflect"
	"strings"
)

type absent struct{}

// Absent marks an attribute or filter that was not provided. Encode and Filters
// drop it; zero values and nil are kept.
var Absent any = absent{}

// IsAbsent reports whether v means "not provided": the Absent sentinel or a
// typed nil pointer, slice or map (an optional argument left unset). An
// untyped nil is an explicit null and is not absent.
func IsAbsent(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(absent); ok {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// MutationBody is the outbound resource of a create, update or delete call.
type MutationBody struct {
	Type       string         `json:"type"`
	ID         string         `json:"id,omitempty"`
	Attributes map[string]any `json:"attributes"`
}

// Document wraps outbound data as {"data": ...}.
type Document struct {
	Data any `json:"data"`
}

// Decode flattens a wire resource into a Record. Only top-level attribute keys
// are translated; nested values pass through untouched.
func Decode(res Resource) Record {
	rec := make(Record, len(res.Attributes)+2)
	for k, v := range res.Attributes {
		rec[Underscore(k)] = v
	}
	rec["id"] = res.ID
	rec["type"] = res.Type
	return rec
}

// DecodeAll flattens every resource, preserving order.
func DecodeAll(resources []Resource) []Record {
	out := make([]Record, 0, len(resources))
	for _, res := range resources {
		out = append(out, Decode(res))
	}
	return out
}

// Encode builds a mutation body. Absent attributes are omitted and an empty id
// means no id is sent.
func Encode(resourceType string, attrs map[string]any, id string) MutationBody {
	out := make(map[string]any, len(attrs))
	for k, v := range attrs {
		if IsAbsent(v) {
			continue
		}
		out[Hyphenate(k)] = v
	}
	return MutationBody{
		Type:       resourceType,
		ID:         id,
		Attributes: out,
	}
}

// EncodeBulkDelete builds one {type, attributes: {id}} entry per id. Order is
// preserved and duplicates are kept.
func EncodeBulkDelete(resourceType string, ids []string) []MutationBody {
	out := make([]MutationBody, 0, len(ids))
	for _, id := range ids {
		out = append(out, MutationBody{
			Type:       resourceType,
			Attributes: map[string]any{"id": id},
		})
	}
	return out
}

// Underscore converts a wire key to record casing.
func Underscore(key string) string {
	return strings.ReplaceAll(key, "-", "_")
}

// Hyphenate converts a record key to wire casing.
func Hyphenate(key string) string {
	return strings.ReplaceAll(key, "_", "-")
}
