package newsletter

import (
	_ "embed"
	"regexp"
	"strings"
)

// Default configuration shipped with the service, used to prefill the
// generation form.
//
//go:embed default-config.md
var defaultConfigMarkdown string

// closingInstruction is appended to every prompt. The model must produce a
// ready-to-email HTML body and must not repeat the title, which is tracked
// separately on the record.
const closingInstruction = `Create a complete, well-structured newsletter that follows all the guidelines above. The newsletter should be formatted with HTML for email delivery. Begin directly with the newsletter content and do not repeat the title, as the title is tracked separately.`

// promptSections fixes the order and labels of the configuration sections.
var promptSections = []struct {
	label string
	value func(Config) string
}{
	{"Title", func(c Config) string { return c.Title }},
	{"Focus", func(c Config) string { return c.Focus }},
	{"Time Period", func(c Config) string { return c.TimePeriod }},
	{"Tone", func(c Config) string { return string(c.Tone) }},
	{"Structure", func(c Config) string { return c.Structure }},
	{"Additional Instructions", func(c Config) string { return c.AdditionalInstructions }},
}

// BuildPrompt converts a configuration into a single natural-language
// instruction block for the generation provider. Empty fields are omitted
// entirely rather than rendered as empty sections. Pure function, no I/O.
func BuildPrompt(cfg Config) string {
	var b strings.Builder
	b.WriteString("Please generate a newsletter based on the following configuration:\n")

	for _, s := range promptSections {
		v := strings.TrimSpace(s.value(cfg))
		if v == "" {
			continue
		}
		b.WriteString("\n## ")
		b.WriteString(s.label)
		b.WriteString("\n")
		b.WriteString(v)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(closingInstruction)
	return b.String()
}

var sectionRe = regexp.MustCompile(`(?m)^## (.+)$`)

// ParseConfigMarkdown extracts a configuration from a markdown document with
// "## Section" headings, the format the default config ships in. Unknown
// sections are ignored; a missing tone falls back to formal.
func ParseConfigMarkdown(doc string) Config {
	cfg := Config{Tone: ToneFormal}

	matches := sectionRe.FindAllStringSubmatchIndex(doc, -1)
	for i, m := range matches {
		label := strings.TrimSpace(doc[m[2]:m[3]])
		end := len(doc)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := strings.TrimSpace(doc[m[1]:end])

		switch label {
		case "Title":
			cfg.Title = body
		case "Focus":
			cfg.Focus = body
		case "Time Period":
			cfg.TimePeriod = body
		case "Tone":
			if t := Tone(body); t.Valid() {
				cfg.Tone = t
			}
		case "Structure":
			cfg.Structure = body
		case "Additional Instructions":
			cfg.AdditionalInstructions = body
		}
	}

	return cfg
}

// DefaultConfig returns the embedded default configuration.
func DefaultConfig() Config {
	return ParseConfigMarkdown(defaultConfigMarkdown)
}
