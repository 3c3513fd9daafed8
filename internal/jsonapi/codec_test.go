package jsonapi

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeResource generates a resource with hyphenated attribute keys built from
// lowercase words.
func fakeResource(f *gofakeit.Faker) Resource {
	attrs := map[string]any{}
	n := f.Number(0, 8)
	for i := 0; i < n; i++ {
		key := strings.ToLower(f.LetterN(4)) + "-" + strings.ToLower(f.LetterN(5))
		switch f.Number(0, 4) {
		case 0:
			attrs[key] = f.Company()
		case 1:
			attrs[key] = json.Number(f.Numerify("###"))
		case 2:
			attrs[key] = f.Bool()
		case 3:
			attrs[key] = nil
		default:
			attrs[key] = map[string]any{"nested-key": f.Word()}
		}
	}
	return Resource{
		ID:         f.Numerify("#######"),
		Type:       "organizations",
		Attributes: attrs,
	}
}

func TestDecode_KeysAreExactlyIDTypeAndUnderscoredAttributes(t *testing.T) {
	f := gofakeit.New(42)
	for i := 0; i < 200; i++ {
		res := fakeResource(f)
		rec := Decode(res)

		expected := map[string]bool{"id": true, "type": true}
		for k := range res.Attributes {
			expected[Underscore(k)] = true
		}

		require.Len(t, rec, len(expected))
		for k := range rec {
			assert.True(t, expected[k], "unexpected key %q", k)
			assert.NotContains(t, k, "-")
		}
		assert.Equal(t, res.ID, rec.ID())
		assert.Equal(t, res.Type, rec.Type())
	}
}

func TestDecode_NoAttributes(t *testing.T) {
	rec := Decode(Resource{ID: "7", Type: "contacts"})

	assert.Equal(t, Record{"id": "7", "type": "contacts"}, rec)
}

func TestDecode_NestedValuesAreNotTranslated(t *testing.T) {
	nested := map[string]any{"inner-key": []any{map[string]any{"deep-key": "v"}}}
	rec := Decode(Resource{
		ID:   "1",
		Type: "flexible-assets",
		Attributes: map[string]any{
			"trait-values": nested,
		},
	})

	assert.Equal(t, nested, rec["trait_values"])
}

func TestEncode_RoundTripRestoresWireKeys(t *testing.T) {
	f := gofakeit.New(7)
	for i := 0; i < 200; i++ {
		res := fakeResource(f)
		rec := Decode(res)

		attrs := map[string]any{}
		for k, v := range rec {
			if k == "id" || k == "type" {
				continue
			}
			attrs[k] = v
		}

		body := Encode(res.Type, attrs, res.ID)
		assert.Equal(t, res.Type, body.Type)
		assert.Equal(t, res.ID, body.ID)
		assert.Equal(t, len(res.Attributes), len(body.Attributes))
		for k, v := range res.Attributes {
			assert.Equal(t, v, body.Attributes[k])
		}
	}
}

func TestEncode_AbsentOmittedZeroValuesKept(t *testing.T) {
	var unset *string
	name := "Acme"

	body := Encode("organizations", map[string]any{
		"name":            &name,
		"short_name":      unset,
		"description":     Absent,
		"quick_notes":     nil,
		"alert":           false,
		"organization_id": 0,
	}, "")

	assert.Equal(t, "", body.ID)
	assert.NotContains(t, body.Attributes, "short-name")
	assert.NotContains(t, body.Attributes, "description")
	assert.Contains(t, body.Attributes, "quick-notes")
	assert.Nil(t, body.Attributes["quick-notes"])
	assert.Equal(t, false, body.Attributes["alert"])
	assert.Equal(t, 0, body.Attributes["organization-id"])
	assert.Equal(t, &name, body.Attributes["name"])
}

func TestEncode_IDOnlyWhenSupplied(t *testing.T) {
	withID, err := json.Marshal(Encode("passwords", map[string]any{"name": "x"}, "42"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"passwords","id":"42","attributes":{"name":"x"}}`, string(withID))

	withoutID, err := json.Marshal(Encode("passwords", map[string]any{"name": "x"}, ""))
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"passwords","attributes":{"name":"x"}}`, string(withoutID))
}

func TestEncodeBulkDelete(t *testing.T) {
	bodies := EncodeBulkDelete("configurations", []string{"3", "1", "3"})

	require.Len(t, bodies, 3)
	for i, id := range []string{"3", "1", "3"} {
		assert.Equal(t, "configurations", bodies[i].Type)
		assert.Equal(t, map[string]any{"id": id}, bodies[i].Attributes)
		assert.Empty(t, bodies[i].ID)
	}

	raw, err := json.Marshal(Document{Data: bodies[:1]})
	require.NoError(t, err)
	assert.JSONEq(t, `{"data":[{"type":"configurations","attributes":{"id":"3"}}]}`, string(raw))
}

func TestIsAbsent(t *testing.T) {
	var nilPtr *int
	var nilSlice []string
	zero := 0

	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{"sentinel", Absent, true},
		{"nil pointer", nilPtr, true},
		{"nil slice", nilSlice, true},
		{"untyped nil", nil, false},
		{"zero", 0, false},
		{"false", false, false},
		{"empty string", "", false},
		{"pointer to zero", &zero, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsAbsent(tt.value))
		})
	}
}

func TestRecord_String(t *testing.T) {
	rec := Record{
		"name":    "Acme",
		"count":   json.Number("12"),
		"enabled": true,
		"notes":   nil,
		"traits":  map[string]any{"a": "b"},
	}

	assert.Equal(t, "Acme", rec.String("name"))
	assert.Equal(t, "12", rec.String("count"))
	assert.Equal(t, "true", rec.String("enabled"))
	assert.Equal(t, "", rec.String("notes"))
	assert.Equal(t, "", rec.String("missing"))
	assert.Equal(t, `{"a":"b"}`, rec.String("traits"))
}
