package tools

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/jsonapi"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/textfmt"
)

// view describes how one resource kind is rendered as markdown.
type view struct {
	singular string
	plural   string
	// fields are shown under each record of a listing, in order.
	fields []string
	// hidden fields are never rendered in markdown.
	hidden []string
	title  func(rec jsonapi.Record) string
}

func (v view) titleOf(rec jsonapi.Record) string {
	if v.title != nil {
		if t := v.title(rec); t != "" {
			return t
		}
	}
	if name := rec.String("name"); name != "" {
		return name
	}
	return "Untitled " + v.singular
}

func (v view) isHidden(key string) bool {
	for _, h := range v.hidden {
		if h == key {
			return true
		}
	}
	return false
}

func noResults(plural string) string {
	return fmt.Sprintf("No %s found matching the given criteria.", plural)
}

func renderJSON(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode response: %w", err)
	}
	return string(b), nil
}

func renderPage(v view, format string, page jsonapi.PageResult) (string, error) {
	if format == FormatJSON {
		return renderJSON(page)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", label(v.plural))
	fmt.Fprintf(&b, "Showing %d of %d %s.\n", len(page.Data), page.TotalCount, v.plural)

	for _, rec := range page.Data {
		fmt.Fprintf(&b, "\n## %s (ID: %s)\n", v.titleOf(rec), rec.ID())
		for _, key := range v.fields {
			if value := rec.String(key); value != "" {
				fmt.Fprintf(&b, "- **%s**: %s\n", label(key), value)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(textfmt.PaginationFooter(page.TotalCount, page.PageNumber, page.HasMore))
	return b.String(), nil
}

func renderRecord(v view, format string, rec jsonapi.Record) (string, error) {
	if format == FormatJSON {
		return renderJSON(rec)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# %s (ID: %s)\n\n", v.titleOf(rec), rec.ID())
	writeFields(&b, v, rec)
	return strings.TrimRight(b.String(), "\n"), nil
}

// writeFields lists the populated attributes of rec: the view's summary
// fields first, then the rest alphabetically.
func writeFields(b *strings.Builder, v view, rec jsonapi.Record) {
	seen := map[string]bool{"id": true, "type": true, "name": true}
	keys := make([]string, 0, len(rec))
	for _, key := range v.fields {
		if _, ok := rec[key]; ok && !seen[key] {
			keys = append(keys, key)
			seen[key] = true
		}
	}
	rest := make([]string, 0, len(rec))
	for key := range rec {
		if !seen[key] {
			rest = append(rest, key)
		}
	}
	sort.Strings(rest)

	for _, key := range append(keys, rest...) {
		if v.isHidden(key) {
			continue
		}
		if value := rec.String(key); value != "" {
			fmt.Fprintf(b, "- **%s**: %s\n", label(key), value)
		}
	}
}

// label turns a record key into a heading: "organization_type_name" becomes
// "Organization Type Name".
func label(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool { return r == '_' || r == '-' || r == ' ' })
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

func mutationSummary(verb string, v view, rec jsonapi.Record, format string) (string, error) {
	if format == FormatJSON {
		return renderJSON(rec)
	}
	body, err := renderRecord(v, format, rec)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s %q (ID: %s).\n\n%s", verb, v.singular, v.titleOf(rec), rec.ID(), body), nil
}
