package newsletter

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/lettergen/lettergen/pkg/llm"
	"github.com/lettergen/lettergen/pkg/logger"
	"github.com/lettergen/lettergen/pkg/mailer"
	"github.com/lettergen/lettergen/pkg/sanitizer"
)

// ProviderKind selects which generation provider backs a request.
type ProviderKind string

const (
	ProviderGeneral ProviderKind = "openai"
	ProviderSearch  ProviderKind = "perplexity"
)

// CreateParams are the fields persisted when the generation pipeline creates
// a draft.
type CreateParams struct {
	OwnerID       string
	Title         string
	Content       string
	Citations     []string
	TemplateStyle TemplateStyle
}

// Store is the persistence interface the pipeline consumes. Implementations
// return ErrNotFound when the record is absent.
type Store interface {
	Create(ctx context.Context, params CreateParams) (*Newsletter, error)
	Get(ctx context.Context, id uuid.UUID) (*Newsletter, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Newsletter, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Newsletter, error)
	MarkSent(ctx context.Context, id uuid.UUID, recipients []string, sentAt time.Time) (*Newsletter, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements the newsletter operations: generate, read, update,
// delete, preview and send. Every operation is owner-scoped.
type Service struct {
	store       Store
	general     llm.Provider
	search      llm.Provider
	mail        *mailer.Mailer
	senderEmail string
	log         *slog.Logger
	now         func() time.Time
}

// NewService wires the pipeline dependencies. The sender email is the
// outbound identity; the newsletter title becomes its display name on send.
func NewService(store Store, general, search llm.Provider, mail *mailer.Mailer, senderEmail string, log *slog.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		store:       store,
		general:     general,
		search:      search,
		mail:        mail,
		senderEmail: senderEmail,
		log:         log,
		now:         time.Now,
	}
}

// Generate runs the full generation pipeline: configuration is normalized
// into a prompt, the selected provider is invoked exactly once, the output is
// normalized to HTML, and a draft record is created. Provider failures leave
// no record behind.
func (s *Service) Generate(ctx context.Context, ownerID string, cfg Config, kind ProviderKind) (*Newsletter, error) {
	if ownerID == "" {
		return nil, ErrPermissionDenied
	}
	if cfg.Title == "" {
		return nil, errors.Join(ErrInvalidInput, errors.New("title is required"))
	}
	if cfg.Tone != "" && !cfg.Tone.Valid() {
		return nil, errors.Join(ErrInvalidInput, fmt.Errorf("unknown tone %q", cfg.Tone))
	}

	provider := s.general
	switch kind {
	case ProviderGeneral, "":
		provider = s.general
	case ProviderSearch:
		provider = s.search
	default:
		return nil, errors.Join(ErrInvalidInput, fmt.Errorf("unknown provider %q", kind))
	}

	prompt := BuildPrompt(cfg)
	res, err := provider.Generate(ctx, prompt)
	if err != nil {
		s.log.ErrorContext(ctx, "newsletter generation failed",
			slog.String("provider", string(kind)),
			slog.String("error", err.Error()))
		return nil, err
	}

	n, err := s.store.Create(ctx, CreateParams{
		OwnerID:       ownerID,
		Title:         cfg.Title,
		Content:       NormalizeContent(res.Content),
		Citations:     res.Citations,
		TemplateStyle: StyleClassic,
	})
	if err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "newsletter generated",
		slog.String("newsletter_id", n.ID.String()),
		slog.String("provider", string(kind)),
		slog.Int("citations", len(n.Citations)))
	return n, nil
}

// List returns the owner's newsletters, newest first.
func (s *Service) List(ctx context.Context, ownerID string) ([]Newsletter, error) {
	if ownerID == "" {
		return nil, ErrPermissionDenied
	}
	return s.store.ListByOwner(ctx, ownerID)
}

// Get returns one newsletter after the ownership check.
func (s *Service) Get(ctx context.Context, ownerID string, id uuid.UUID) (*Newsletter, error) {
	return s.authorized(ctx, ownerID, id)
}

// Update applies a validated partial update. Edits are last-write-wins and
// remain permitted after sending; status and sentAt are not reachable
// through a patch.
func (s *Service) Update(ctx context.Context, ownerID string, id uuid.UUID, patch Patch) (*Newsletter, error) {
	n, err := s.authorized(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if patch.IsEmpty() {
		return n, nil
	}
	if err := validatePatch(patch); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, patch)
}

// Delete removes a newsletter in either lifecycle state. Irreversible.
func (s *Service) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if _, err := s.authorized(ctx, ownerID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

// Preview renders the newsletter's current state into the complete HTML
// document the recipients would receive.
func (s *Service) Preview(ctx context.Context, ownerID string, id uuid.UUID) (string, error) {
	n, err := s.authorized(ctx, ownerID, id)
	if err != nil {
		return "", err
	}
	return renderDocument(n)
}

// Send renders the newsletter, dispatches one email addressing all
// recipients, and only then transitions the record to sent with the
// recipient list and send time. A transport failure leaves the record
// untouched in draft.
func (s *Service) Send(ctx context.Context, ownerID string, id uuid.UUID, recipients []string) (*Newsletter, error) {
	n, err := s.authorized(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if n.Status == StatusSent {
		return nil, ErrAlreadySent
	}
	if err := validateRecipients(recipients); err != nil {
		return nil, err
	}

	doc, err := renderDocument(n)
	if err != nil {
		return nil, err
	}

	email := &mailer.Email{
		To:      recipients,
		Subject: n.Title,
		HTML:    doc,
		Text:    sanitizer.PlainText(n.Content),
		From:    mailer.Recipient(n.Title, s.senderEmail),
	}
	if err := s.mail.Send(ctx, email); err != nil {
		s.log.ErrorContext(ctx, "newsletter dispatch failed",
			slog.String("newsletter_id", id.String()),
			slog.Int("recipients", len(recipients)),
			slog.String("error", err.Error()))
		return nil, err
	}

	sent, err := s.store.MarkSent(ctx, id, recipients, s.now().UTC())
	if err != nil {
		// The email already left the building; losing the transition is a
		// bookkeeping failure that must be visible in the logs.
		s.log.ErrorContext(ctx, "newsletter sent but status transition failed",
			slog.String("newsletter_id", id.String()),
			slog.String("error", err.Error()))
		return nil, err
	}

	s.log.InfoContext(ctx, "newsletter sent",
		slog.String("newsletter_id", id.String()),
		slog.Int("recipients", len(recipients)))
	return sent, nil
}

// authorized loads the record and verifies ownership. Not-found and
// permission-denied stay distinct for logging; the HTTP layer collapses them
// into one user-facing answer.
func (s *Service) authorized(ctx context.Context, ownerID string, id uuid.UUID) (*Newsletter, error) {
	if ownerID == "" {
		return nil, ErrPermissionDenied
	}
	n, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.OwnerID != ownerID {
		s.log.WarnContext(ctx, "newsletter access denied",
			slog.String("newsletter_id", id.String()))
		return nil, ErrPermissionDenied
	}
	return n, nil
}

// renderDocument sanitizes the stored content and renders the full document.
// Sanitization happens here, at the render boundary, so stored content stays
// verbatim while everything leaving the service is safe HTML.
func renderDocument(n *Newsletter) (string, error) {
	return RenderEmail(n.Title, sanitizer.NewsletterHTML(n.Content), n.Citations, n.TemplateStyle)
}

func validatePatch(patch Patch) error {
	if patch.Title != nil && *patch.Title == "" {
		return errors.Join(ErrInvalidInput, errors.New("title cannot be empty"))
	}
	if patch.TemplateStyle != nil && !patch.TemplateStyle.Valid() {
		return errors.Join(ErrInvalidInput, fmt.Errorf("unknown template style %q", *patch.TemplateStyle))
	}
	if patch.Citations != nil {
		for _, c := range *patch.Citations {
			if !validURL(c) {
				return errors.Join(ErrInvalidInput, fmt.Errorf("invalid citation URL %q", c))
			}
		}
	}
	if patch.Recipients != nil {
		for _, r := range *patch.Recipients {
			if !validEmail(r) {
				return errors.Join(ErrInvalidInput, fmt.Errorf("invalid recipient address %q", r))
			}
		}
	}
	return nil
}

func validateRecipients(recipients []string) error {
	if len(recipients) == 0 {
		return errors.Join(ErrInvalidInput, errors.New("recipient list is empty"))
	}
	for _, r := range recipients {
		if !validEmail(r) {
			return errors.Join(ErrInvalidInput, fmt.Errorf("invalid recipient address %q", r))
		}
	}
	return nil
}

func validEmail(addr string) bool {
	parsed, err := mail.ParseAddress(addr)
	return err == nil && parsed.Address == addr
}

func validURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
