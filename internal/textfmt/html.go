// Package textfmt renders upstream content for an agent: HTML document bodies
// become plain text with light markdown, and long responses are cut to a fixed
// character budget with a continuation hint.
package textfmt

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	lineBreakTag    = regexp.MustCompile(`(?i)<br\s*/?>`)
	paragraphClose  = regexp.MustCompile(`(?i)</p\s*>`)
	listItemClose   = regexp.MustCompile(`(?i)</li\s*>`)
	listItemOpen    = regexp.MustCompile(`(?i)<li(\s[^>]*)?>`)
	headingClose    = regexp.MustCompile(`(?i)</h[1-6]\s*>`)
	headingOpen     = regexp.MustCompile(`(?i)<h([1-6])(\s[^>]*)?>`)
	anyTag          = regexp.MustCompile(`<[^>]*>`)
	decimalEntity   = regexp.MustCompile(`&#(\d+);`)
	hexEntity       = regexp.MustCompile(`(?i)&#x([0-9a-f]+);`)
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
	namedEntityRepl = strings.NewReplacer(
		"&nbsp;", " ",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&apos;", "'",
		"&mdash;", "—",
		"&ndash;", "–",
		"&hellip;", "…",
		"&lsquo;", "‘",
		"&rsquo;", "’",
		"&ldquo;", "“",
		"&rdquo;", "”",
		"&copy;", "©",
		"&reg;", "®",
		"&trade;", "™",
	)
)

// HTMLToText converts the HTML subset IT Glue stores in documents and notes
// into plain text. Rules run in a fixed order, each on the previous output.
func HTMLToText(html string) string {
	if html == "" {
		return ""
	}

	text := lineBreakTag.ReplaceAllString(html, "\n")
	text = paragraphClose.ReplaceAllString(text, "\n\n")
	text = listItemClose.ReplaceAllString(text, "\n")
	text = listItemOpen.ReplaceAllString(text, "- ")
	text = headingClose.ReplaceAllString(text, "\n")
	text = headingOpen.ReplaceAllStringFunc(text, func(tag string) string {
		level, _ := strconv.Atoi(headingOpen.FindStringSubmatch(tag)[1])
		return strings.Repeat("#", level) + " "
	})
	text = anyTag.ReplaceAllString(text, "")

	// &amp; is decoded after the other named entities, so "&amp;lt;" stays
	// the literal "&lt;". Numeric references are decoded after it, so
	// "&amp;#60;" still becomes "<".
	text = namedEntityRepl.Replace(text)
	text = strings.ReplaceAll(text, "&amp;", "&")

	text = decimalEntity.ReplaceAllStringFunc(text, func(ref string) string {
		code, err := strconv.ParseInt(decimalEntity.FindStringSubmatch(ref)[1], 10, 32)
		return codePoint(ref, code, err)
	})
	text = hexEntity.ReplaceAllStringFunc(text, func(ref string) string {
		code, err := strconv.ParseInt(hexEntity.FindStringSubmatch(ref)[1], 16, 32)
		return codePoint(ref, code, err)
	})

	text = excessNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// codePoint returns the character for a numeric reference, or the reference
// itself when it does not name a valid code point.
func codePoint(ref string, code int64, err error) string {
	if err != nil || code <= 0 || code > 0x10FFFF || (code >= 0xD800 && code <= 0xDFFF) {
		return ref
	}
	return string(rune(code))
}
