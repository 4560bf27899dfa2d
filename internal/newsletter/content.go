package newsletter

import (
	"bytes"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

var (
	htmlTagRe  = regexp.MustCompile(`<([a-zA-Z][a-zA-Z0-9-]*)(\s[^>]*)?>`)
	codeFence  = regexp.MustCompile("^```[a-zA-Z]*\n")
	markdowner = goldmark.New()
)

// NormalizeContent turns provider output into an HTML fragment. Providers
// are instructed to answer in HTML, but models occasionally reply in
// Markdown or wrap the document in a code fence; both cases are repaired
// here so the stored content is always renderable email HTML.
func NormalizeContent(content string) string {
	content = strings.TrimSpace(content)
	if content == "" {
		return content
	}

	// Unwrap a single surrounding ```html fence.
	if codeFence.MatchString(content) && strings.HasSuffix(content, "```") {
		content = codeFence.ReplaceAllString(content, "")
		content = strings.TrimSuffix(content, "```")
		content = strings.TrimSpace(content)
	}

	if htmlTagRe.MatchString(content) {
		return content
	}

	var buf bytes.Buffer
	if err := markdowner.Convert([]byte(content), &buf); err != nil {
		// Unconvertible input is kept as-is; it renders as plain text.
		return content
	}
	return strings.TrimSpace(buf.String())
}
