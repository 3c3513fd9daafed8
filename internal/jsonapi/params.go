package jsonapi

import (
	"encoding/json"
	"fmt"
	"net/url"
	"reflect"
	"strconv"
	"strings"
)

// Pagination builds page[number] and page[size]. Non-positive values are left
// for the upstream default.
func Pagination(pageNumber, pageSize int) url.Values {
	params := url.Values{}
	if pageNumber > 0 {
		params.Set("page[number]", strconv.Itoa(pageNumber))
	}
	if pageSize > 0 {
		params.Set("page[size]", strconv.Itoa(pageSize))
	}
	return params
}

// Filters builds filter[<hyphenated-key>] for every present entry.
func Filters(filters map[string]any) url.Values {
	params := url.Values{}
	for k, v := range filters {
		if IsAbsent(v) {
			continue
		}
		params.Set("filter["+Hyphenate(k)+"]", formatParam(v))
	}
	return params
}

// Sort builds the sort parameter. Descending order uses a leading "-".
func Sort(field string) url.Values {
	params := url.Values{}
	if field != "" {
		params.Set("sort", field)
	}
	return params
}

// MergeParams combines parameter sets; later sets win on key collisions.
func MergeParams(sets ...url.Values) url.Values {
	out := url.Values{}
	for _, set := range sets {
		for k, v := range set {
			out[k] = append([]string(nil), v...)
		}
	}
	return out
}

func formatParam(v any) string {
	if v == nil {
		return "null"
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []string:
		return strings.Join(val, ",")
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer:
		return formatParam(rv.Elem().Interface())
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			parts = append(parts, formatParam(rv.Index(i).Interface()))
		}
		return strings.Join(parts, ",")
	}
	return fmt.Sprint(v)
}
