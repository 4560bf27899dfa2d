// Package newsletter contains the generation and delivery pipeline:
// configuration-to-prompt normalization, provider invocation, the newsletter
// record lifecycle, email template rendering and dispatch.
package newsletter

import (
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a newsletter. The only transition is
// draft to sent, performed by the send operation after the transport
// accepted the email.
type Status string

const (
	StatusDraft Status = "draft"
	StatusSent  Status = "sent"
)

// TemplateStyle selects the presentation of the rendered email document.
// It never affects the stored content.
type TemplateStyle string

const (
	StyleClassic TemplateStyle = "classic"
	StyleModern  TemplateStyle = "modern"
	StyleMinimal TemplateStyle = "minimal"
)

// Valid reports whether s is one of the known template styles.
func (s TemplateStyle) Valid() bool {
	switch s {
	case StyleClassic, StyleModern, StyleMinimal:
		return true
	}
	return false
}

// Newsletter is the persisted record of one newsletter.
type Newsletter struct {
	ID            uuid.UUID     `json:"id"`
	OwnerID       string        `json:"ownerId"`
	Title         string        `json:"title"`
	Content       string        `json:"content"`
	Status        Status        `json:"status"`
	TemplateStyle TemplateStyle `json:"templateStyle"`
	Citations     []string      `json:"citations"`
	Recipients    []string      `json:"recipients"`
	SentAt        *time.Time    `json:"sentAt"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Tone is the writing tone requested in a generation configuration.
type Tone string

const (
	ToneFormal    Tone = "Formal & Professional"
	ToneCasual    Tone = "Casual & Friendly"
	ToneTechnical Tone = "Technical & Detailed"
)

// Valid reports whether t is one of the supported tones.
func (t Tone) Valid() bool {
	switch t {
	case ToneFormal, ToneCasual, ToneTechnical:
		return true
	}
	return false
}

// Config is the structured input to prompt generation. It exists only
// between form submission and prompt assembly and is never persisted.
type Config struct {
	Title                  string `json:"title"`
	Focus                  string `json:"focus"`
	TimePeriod             string `json:"timePeriod"`
	Tone                   Tone   `json:"tone"`
	Structure              string `json:"structure"`
	AdditionalInstructions string `json:"additionalInstructions"`
}

// Patch names the fields eligible for partial update. Nil means "leave
// unchanged"; each present field is validated before the merge. Status and
// SentAt are deliberately absent: only the send operation moves them.
type Patch struct {
	Title         *string        `json:"title"`
	Content       *string        `json:"content"`
	Citations     *[]string      `json:"citations"`
	Recipients    *[]string      `json:"recipients"`
	TemplateStyle *TemplateStyle `json:"templateStyle"`
}

// IsEmpty reports whether the patch carries no fields.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Content == nil && p.Citations == nil &&
		p.Recipients == nil && p.TemplateStyle == nil
}
