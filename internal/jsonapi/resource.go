// Package jsonapi converts between IT Glue's JSON:API wire format and the flat
// records handed to tool handlers.
//
// Wire resources carry hyphenated attribute keys ("organization-name"). Records
// are flat maps holding id, type and the attributes with underscored keys
// ("organization_name"). Attribute values are never rewritten: they are decoded
// with json.Decoder.UseNumber, so a value is always one of string, json.Number,
// bool, nil, map[string]any or []any.
package jsonapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Resource represents a single JSON:API resource.
type Resource struct {
	ID            string                  `json:"id"`
	Type          string                  `json:"type"`
	Attributes    map[string]any          `json:"attributes,omitempty"`
	Relationships map[string]Relationship `json:"relationships,omitempty"`
}

// Relationship is a JSON:API relationship reference. Linkage is kept raw.
type Relationship struct {
	Data  json.RawMessage `json:"data,omitempty"`
	Links map[string]any  `json:"links,omitempty"`
}

// Record is the flattened form of a Resource.
type Record map[string]any

// ID returns the record identifier.
func (r Record) ID() string {
	return r.String("id")
}

// Type returns the record type.
func (r Record) Type() string {
	return r.String("type")
}

// String renders the value stored under key as text. Missing and null values
// render as the empty string.
func (r Record) String(key string) string {
	v, ok := r[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		if val {
			return "true"
		}
		return "false"
	case map[string]any, []any:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(b)
	default:
		return fmt.Sprint(val)
	}
}

// decodeNumbers unmarshals raw into v keeping numbers as json.Number.
func decodeNumbers(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}
