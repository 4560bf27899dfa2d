// Package sanitizer wraps bluemonday policies for newsletter content.
//
// Stored newsletter bodies come from a rich-text editor and from language
// models, neither of which is a trusted HTML source. Sanitization happens at
// the render boundary so the stored content stays verbatim while anything
// that leaves the service as email or preview HTML is safe.
package sanitizer

import (
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	newsletterPolicy *bluemonday.Policy
	strictPolicy     *bluemonday.Policy
	initOnce         sync.Once
)

func initPolicies() {
	initOnce.Do(func() {
		// Mirrors what the rich-text editor can produce plus the tags models
		// are instructed to emit. Scripts, event handlers and javascript:
		// URLs are stripped.
		newsletterPolicy = bluemonday.NewPolicy()
		newsletterPolicy.AllowStandardURLs()
		newsletterPolicy.AllowElements(
			"h1", "h2", "h3", "h4",
			"p", "br", "hr",
			"strong", "b", "em", "i", "u", "s",
			"ul", "ol", "li",
			"code", "pre", "blockquote",
			"table", "thead", "tbody", "tr", "th", "td",
		)
		newsletterPolicy.AllowAttrs("href").OnElements("a")
		newsletterPolicy.AllowImages()
		newsletterPolicy.AllowAttrs("style").OnElements("p", "span", "div", "h1", "h2", "h3")
		newsletterPolicy.AllowStyles("color", "text-align", "font-weight").Globally()
		newsletterPolicy.RequireNoFollowOnLinks(true)

		// Strips all markup, leaving plain text.
		strictPolicy = bluemonday.StrictPolicy()
	})
}

// NewsletterHTML sanitizes rich newsletter content, keeping the formatting
// tags email clients render while removing anything executable.
func NewsletterHTML(s string) string {
	initPolicies()
	return newsletterPolicy.Sanitize(s)
}

// PlainText strips all HTML, returning text only. Used for the text/plain
// alternative part of outbound email.
func PlainText(s string) string {
	initPolicies()
	return strictPolicy.Sanitize(s)
}
