package textfmt

import (
	"fmt"
	"unicode/utf8"
)

// CharacterLimit is the maximum number of characters a tool response may hold
// before it is cut.
const CharacterLimit = 25000

// DefaultTruncationHint is appended when the caller supplies no hint.
const DefaultTruncationHint = "Use filters or a smaller page_size to narrow the results."

// Truncate cuts text to CharacterLimit characters (runes, not bytes) and
// appends a footer naming the limit and how to narrow the request.
func Truncate(text, hint string) string {
	if utf8.RuneCountInString(text) <= CharacterLimit {
		return text
	}
	if hint == "" {
		hint = DefaultTruncationHint
	}

	cut := 0
	for i := range text {
		if cut == CharacterLimit {
			text = text[:i]
			break
		}
		cut++
	}
	return fmt.Sprintf("%s\n\n[Response truncated at %d characters. %s]", text, CharacterLimit, hint)
}

// PaginationFooter describes the current page. The next-page hint only
// appears when more results exist.
func PaginationFooter(totalCount, pageNumber int, hasMore bool) string {
	footer := fmt.Sprintf("Page %d (%d total results).", pageNumber, totalCount)
	if hasMore {
		footer += fmt.Sprintf(" More results are available: request page_number=%d for the next page.", pageNumber+1)
	}
	return footer
}
