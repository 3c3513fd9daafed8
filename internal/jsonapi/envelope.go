package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// Shape tells which form the data member of an envelope took.
type Shape int

const (
	// ShapeMissing means the envelope had no data member.
	ShapeMissing Shape = iota
	// ShapeNull means data was JSON null.
	ShapeNull
	// ShapeSingle means data was one resource object.
	ShapeSingle
	// ShapeMany means data was an array of resources.
	ShapeMany
)

func (s Shape) String() string {
	switch s {
	case ShapeNull:
		return "null"
	case ShapeSingle:
		return "single"
	case ShapeMany:
		return "many"
	default:
		return "missing"
	}
}

// Data is the primary data of an envelope: one resource or a sequence of them.
// The shape is fixed when the envelope is decoded.
type Data struct {
	shape Shape
	one   Resource
	many  []Resource
}

// Single wraps one resource.
func Single(res Resource) Data {
	return Data{shape: ShapeSingle, one: res}
}

// Many wraps a sequence of resources. Many() is an empty collection.
func Many(resources ...Resource) Data {
	if resources == nil {
		resources = []Resource{}
	}
	return Data{shape: ShapeMany, many: resources}
}

// Shape returns the decoded shape.
func (d Data) Shape() Shape {
	return d.shape
}

// One returns the single resource and whether data had that shape.
func (d Data) One() (Resource, bool) {
	return d.one, d.shape == ShapeSingle
}

// All returns the resources of a collection and whether data had that shape.
func (d Data) All() ([]Resource, bool) {
	return d.many, d.shape == ShapeMany
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Data) UnmarshalJSON(b []byte) error {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*d = Data{shape: ShapeNull}
		return nil
	}

	switch trimmed[0] {
	case '{':
		var res Resource
		if err := decodeNumbers(trimmed, &res); err != nil {
			return fmt.Errorf("decode resource: %w", err)
		}
		*d = Single(res)
	case '[':
		var resources []Resource
		if err := decodeNumbers(trimmed, &resources); err != nil {
			return fmt.Errorf("decode resource collection: %w", err)
		}
		*d = Many(resources...)
	default:
		return fmt.Errorf("data must be an object, array or null, got %q", trimmed[:1])
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (d Data) MarshalJSON() ([]byte, error) {
	switch d.shape {
	case ShapeSingle:
		return json.Marshal(d.one)
	case ShapeMany:
		return json.Marshal(d.many)
	default:
		return []byte("null"), nil
	}
}

// Envelope is the top-level JSON:API document.
type Envelope struct {
	Data   Data           `json:"data"`
	Meta   *Meta          `json:"meta,omitempty"`
	Links  map[string]any `json:"links,omitempty"`
	Errors []ErrorObject  `json:"errors,omitempty"`
}

// Meta carries IT Glue pagination metadata.
type Meta struct {
	CurrentPage *int `json:"current-page,omitempty"`
	NextPage    *int `json:"next-page"`
	PrevPage    *int `json:"prev-page,omitempty"`
	TotalPages  *int `json:"total-pages,omitempty"`
	TotalCount  *int `json:"total-count,omitempty"`
}

// ErrorObject represents a JSON:API error object.
type ErrorObject struct {
	Status any            `json:"status,omitempty"`
	Code   any            `json:"code,omitempty"`
	Title  string         `json:"title,omitempty"`
	Detail string         `json:"detail,omitempty"`
	Source map[string]any `json:"source,omitempty"`
}

// FirstErrorDetail returns the detail of the first error object, falling back
// to its title.
func FirstErrorDetail(errs []ErrorObject) string {
	if len(errs) == 0 {
		return ""
	}
	if errs[0].Detail != "" {
		return errs[0].Detail
	}
	return errs[0].Title
}

// DecodeEnvelope reads one envelope. An empty body yields an envelope with no
// data.
func DecodeEnvelope(r io.Reader) (*Envelope, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	return ParseEnvelope(raw)
}

// ParseEnvelope decodes raw bytes into an envelope.
func ParseEnvelope(raw []byte) (*Envelope, error) {
	env := &Envelope{}
	if len(bytes.TrimSpace(raw)) == 0 {
		return env, nil
	}
	if err := decodeNumbers(raw, env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return env, nil
}
