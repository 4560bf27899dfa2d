package newsletter

import (
	"fmt"
	htmltemplate "html/template"
	"strings"
)

// styleSet holds the inline CSS blocks for one template variant. Variants
// change presentation only, never content.
type styleSet struct {
	Body        htmltemplate.CSS
	Container   htmltemplate.CSS
	Header      htmltemplate.CSS
	HeaderTitle htmltemplate.CSS
	Content     htmltemplate.CSS
	Footer      htmltemplate.CSS
}

var styles = map[TemplateStyle]styleSet{
	StyleClassic: {
		Body:        "font-family: Arial, sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;",
		Container:   "",
		Header:      "background-color: #f5f5f5; padding: 15px; border-radius: 5px 5px 0 0; border-bottom: 2px solid #e0e0e0;",
		HeaderTitle: "margin: 0; color: #444; font-size: 20px;",
		Content:     "padding: 15px;",
		Footer:      "background-color: #f5f5f5; padding: 15px; border-radius: 0 0 5px 5px; border-top: 2px solid #e0e0e0; font-size: 12px; color: #666; text-align: center;",
	},
	StyleModern: {
		Body:        "font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; line-height: 1.6; color: #333; margin: 0 auto; padding: 20px; background-color: #F9FAFB;",
		Container:   "border-radius: 8px; overflow: hidden; box-shadow: 0 4px 12px rgba(0, 0, 0, 0.1); max-width: 600px; margin: 0 auto;",
		Header:      "background-color: #8B5CF6; color: white; padding: 20px; border-radius: 8px 8px 0 0; text-align: center;",
		HeaderTitle: "margin: 0; color: #ffffff; font-size: 20px;",
		Content:     "padding: 24px; background-color: #ffffff; color: #333; line-height: 1.8;",
		Footer:      "background-color: #F3F4F6; padding: 15px; border-radius: 0 0 8px 8px; font-size: 12px; color: #666; text-align: center;",
	},
	StyleMinimal: {
		Body:        "font-family: -apple-system, BlinkMacSystemFont, 'Helvetica Neue', sans-serif; line-height: 1.6; color: #333; margin: 0 auto; padding: 20px; background-color: #ffffff;",
		Container:   "max-width: 600px; margin: 0 auto; border: 1px solid #eaeaea;",
		Header:      "border-bottom: 1px solid #eaeaea; padding: 15px; text-align: left;",
		HeaderTitle: "margin: 0; color: #444; font-size: 20px;",
		Content:     "padding: 24px; background-color: #ffffff; color: #333; line-height: 1.8;",
		Footer:      "border-top: 1px solid #eaeaea; padding: 15px; font-size: 12px; color: #888; text-align: left;",
	},
}

var emailTmpl = htmltemplate.Must(htmltemplate.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
</head>
<body style="{{.Style.Body}}">
<div class="newsletter-container" style="{{.Style.Container}}">
<div class="newsletter-header" style="{{.Style.Header}}">
<h1 style="{{.Style.HeaderTitle}}">{{.Title}}</h1>
</div>
<div class="newsletter-content" style="{{.Style.Content}}">
{{.Content}}
{{- if .Citations}}
<div style="margin-top: 30px; padding-top: 15px; border-top: 1px solid #e0e0e0;">
<h3 style="font-size: 16px; font-weight: 600; margin-bottom: 10px;">Sources</h3>
<ol style="padding-left: 20px;">
{{- range .Citations}}
<li style="margin-bottom: 5px;"><a href="{{.}}" style="color: #0066cc; text-decoration: underline;">{{.}}</a></li>
{{- end}}
</ol>
</div>
{{- end}}
</div>
<div class="newsletter-footer" style="{{.Style.Footer}}">
<p>You received this newsletter because you subscribed to our mailing list.</p>
<p><a href="#" style="color: #0066cc;">Unsubscribe</a> | <a href="#" style="color: #0066cc;">View in browser</a></p>
</div>
</div>
</body>
</html>
`))

type emailData struct {
	Title     string
	Content   htmltemplate.HTML
	Citations []string
	Style     styleSet
}

// RenderEmail maps (title, HTML body, citations, style) to a complete
// standalone HTML document usable as email HTML or as a sandboxed preview.
// The title is escaped; contentHTML is embedded verbatim and is expected to
// be sanitized by the caller. Deterministic: identical inputs yield
// byte-identical output. A non-empty citations list is rendered as a
// numbered "Sources" section between content and footer.
func RenderEmail(title, contentHTML string, citations []string, style TemplateStyle) (string, error) {
	set, ok := styles[style]
	if !ok {
		set = styles[StyleClassic]
	}

	var b strings.Builder
	err := emailTmpl.Execute(&b, emailData{
		Title:     title,
		Content:   htmltemplate.HTML(contentHTML),
		Citations: citations,
		Style:     set,
	})
	if err != nil {
		return "", fmt.Errorf("newsletter: rendering email template: %w", err)
	}

	return b.String(), nil
}
