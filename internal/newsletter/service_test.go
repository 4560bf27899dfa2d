package newsletter

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lettergen/lettergen/pkg/llm"
	"github.com/lettergen/lettergen/pkg/mailer"
)

// mockStore is a mock implementation of the Store interface.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) Create(ctx context.Context, params CreateParams) (*Newsletter, error) {
	args := m.Called(ctx, params)
	if n, ok := args.Get(0).(*Newsletter); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Get(ctx context.Context, id uuid.UUID) (*Newsletter, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*Newsletter); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) ListByOwner(ctx context.Context, ownerID string) ([]Newsletter, error) {
	args := m.Called(ctx, ownerID)
	if ns, ok := args.Get(0).([]Newsletter); ok {
		return ns, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Newsletter, error) {
	args := m.Called(ctx, id, patch)
	if n, ok := args.Get(0).(*Newsletter); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) MarkSent(ctx context.Context, id uuid.UUID, recipients []string, sentAt time.Time) (*Newsletter, error) {
	args := m.Called(ctx, id, recipients, sentAt)
	if n, ok := args.Get(0).(*Newsletter); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// stubProvider returns a canned result or error.
type stubProvider struct {
	res    *llm.Result
	err    error
	prompt string
}

func (p *stubProvider) Generate(ctx context.Context, prompt string) (*llm.Result, error) {
	p.prompt = prompt
	if p.err != nil {
		return nil, p.err
	}
	return p.res, nil
}

// recordingSender captures the dispatched email.
type recordingSender struct {
	email *mailer.Email
	err   error
}

func (s *recordingSender) Send(ctx context.Context, email *mailer.Email) error {
	if s.err != nil {
		return s.err
	}
	s.email = email
	return nil
}

const (
	ownerID  = "user_2abc"
	intruder = "user_9xyz"
	sender   = "news@lettergen.test"
)

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(store Store, general, search llm.Provider, out mailer.Sender) *Service {
	s := NewService(store, general, search, mailer.New(out), sender, nil)
	s.now = func() time.Time { return fixedNow }
	return s
}

func draftNewsletter(id uuid.UUID) *Newsletter {
	return &Newsletter{
		ID:            id,
		OwnerID:       ownerID,
		Title:         "Weekly Update",
		Content:       "<p>Original content</p>",
		Status:        StatusDraft,
		TemplateStyle: StyleClassic,
		CreatedAt:     fixedNow.Add(-time.Hour),
		UpdatedAt:     fixedNow.Add(-time.Hour),
	}
}

func TestService_Generate_GeneralProvider(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	general := &stubProvider{res: &llm.Result{Content: "<p>Generated body</p>"}}
	svc := newTestService(store, general, &stubProvider{}, &recordingSender{})

	store.On("Create", mock.Anything, mock.MatchedBy(func(p CreateParams) bool {
		return p.OwnerID == ownerID &&
			p.Title == "Weekly Update" &&
			p.Content == "<p>Generated body</p>" &&
			len(p.Citations) == 0 &&
			p.TemplateStyle == StyleClassic
	})).Return(&Newsletter{
		ID:      uuid.New(),
		OwnerID: ownerID,
		Title:   "Weekly Update",
		Content: "<p>Generated body</p>",
		Status:  StatusDraft,
	}, nil)

	n, err := svc.Generate(context.Background(), ownerID, Config{Title: "Weekly Update"}, ProviderGeneral)

	require.NoError(t, err)
	assert.Equal(t, StatusDraft, n.Status)
	assert.NotEmpty(t, n.Content)
	assert.Empty(t, n.Citations)
	assert.Empty(t, n.Recipients)
	assert.Contains(t, general.prompt, "## Title\nWeekly Update")
	store.AssertExpectations(t)
}

func TestService_Generate_SearchProviderKeepsCitationOrder(t *testing.T) {
	t.Parallel()

	citations := []string{"https://a.example.com", "https://b.example.com"}
	store := &mockStore{}
	search := &stubProvider{res: &llm.Result{Content: "<p>Researched</p>", Citations: citations}}
	svc := newTestService(store, &stubProvider{}, search, &recordingSender{})

	store.On("Create", mock.Anything, mock.MatchedBy(func(p CreateParams) bool {
		return len(p.Citations) == 2 &&
			p.Citations[0] == citations[0] &&
			p.Citations[1] == citations[1]
	})).Return(&Newsletter{Status: StatusDraft, Citations: citations}, nil)

	n, err := svc.Generate(context.Background(), ownerID, Config{Title: "T"}, ProviderSearch)

	require.NoError(t, err)
	assert.Equal(t, citations, n.Citations)
	store.AssertExpectations(t)
}

func TestService_Generate_MarkdownOutputIsNormalized(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	general := &stubProvider{res: &llm.Result{Content: "## Headline\n\nBody text."}}
	svc := newTestService(store, general, &stubProvider{}, &recordingSender{})

	store.On("Create", mock.Anything, mock.MatchedBy(func(p CreateParams) bool {
		return p.Content == "<h2>Headline</h2>\n<p>Body text.</p>"
	})).Return(&Newsletter{Status: StatusDraft}, nil)

	_, err := svc.Generate(context.Background(), ownerID, Config{Title: "T"}, ProviderGeneral)

	require.NoError(t, err)
	store.AssertExpectations(t)
}

func TestService_Generate_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		ownerID string
		cfg     Config
		kind    ProviderKind
		wantErr error
	}{
		{name: "missing title", ownerID: ownerID, cfg: Config{}, kind: ProviderGeneral, wantErr: ErrInvalidInput},
		{name: "unknown tone", ownerID: ownerID, cfg: Config{Title: "T", Tone: "Sarcastic"}, kind: ProviderGeneral, wantErr: ErrInvalidInput},
		{name: "unknown provider", ownerID: ownerID, cfg: Config{Title: "T"}, kind: "gemini", wantErr: ErrInvalidInput},
		{name: "no owner", ownerID: "", cfg: Config{Title: "T"}, kind: ProviderGeneral, wantErr: ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &mockStore{}
			svc := newTestService(store, &stubProvider{res: &llm.Result{}}, &stubProvider{res: &llm.Result{}}, &recordingSender{})

			_, err := svc.Generate(context.Background(), tt.ownerID, tt.cfg, tt.kind)

			require.ErrorIs(t, err, tt.wantErr)
			store.AssertNotCalled(t, "Create")
		})
	}
}

func TestService_Generate_ProviderFailureCreatesNothing(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	general := &stubProvider{err: llm.ErrRequestFailed}
	svc := newTestService(store, general, &stubProvider{}, &recordingSender{})

	_, err := svc.Generate(context.Background(), ownerID, Config{Title: "T"}, ProviderGeneral)

	require.ErrorIs(t, err, llm.ErrRequestFailed)
	store.AssertNotCalled(t, "Create")
}

func TestService_Send_Success(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	recipients := []string{"a@example.com"}
	out := &recordingSender{}
	store := &mockStore{}
	svc := newTestService(store, &stubProvider{}, &stubProvider{}, out)

	store.On("Get", mock.Anything, id).Return(draftNewsletter(id), nil)
	store.On("MarkSent", mock.Anything, id, recipients, fixedNow).Return(&Newsletter{
		ID:         id,
		OwnerID:    ownerID,
		Title:      "Weekly Update",
		Status:     StatusSent,
		Recipients: recipients,
		SentAt:     &fixedNow,
	}, nil)

	n, err := svc.Send(context.Background(), ownerID, id, recipients)

	require.NoError(t, err)
	assert.Equal(t, StatusSent, n.Status)
	require.NotNil(t, n.SentAt)
	assert.Equal(t, fixedNow, *n.SentAt)
	assert.Equal(t, recipients, n.Recipients)

	// One transport call addressing all recipients, subject and sender
	// display name taken from the title.
	require.NotNil(t, out.email)
	assert.Equal(t, recipients, out.email.To)
	assert.Equal(t, "Weekly Update", out.email.Subject)
	assert.Equal(t, "Weekly Update <news@lettergen.test>", out.email.From)
	assert.Contains(t, out.email.HTML, "<!DOCTYPE html>")
	assert.Contains(t, out.email.HTML, "Original content")
	store.AssertExpectations(t)
}

func TestService_Send_EmptyRecipients(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	store := &mockStore{}
	out := &recordingSender{}
	svc := newTestService(store, &stubProvider{}, &stubProvider{}, out)

	store.On("Get", mock.Anything, id).Return(draftNewsletter(id), nil)

	_, err := svc.Send(context.Background(), ownerID, id, nil)

	require.ErrorIs(t, err, ErrInvalidInput)
	assert.Nil(t, out.email)
	store.AssertNotCalled(t, "MarkSent")
}

func TestService_Send_InvalidRecipientAddress(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	store := &mockStore{}
	svc := newTestService(store, &stubProvider{}, &stubProvider{}, &recordingSender{})

	store.On("Get", mock.Anything, id).Return(draftNewsletter(id), nil)

	_, err := svc.Send(context.Background(), ownerID, id, []string{"not-an-email"})

	require.ErrorIs(t, err, ErrInvalidInput)
	store.AssertNotCalled(t, "MarkSent")
}

func TestService_Send_TransportFailureLeavesDraft(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	store := &mockStore{}
	out := &recordingSender{err: assert.AnError}
	svc := newTestService(store, &stubProvider{}, &stubProvider{}, out)

	store.On("Get", mock.Anything, id).Return(draftNewsletter(id), nil)

	_, err := svc.Send(context.Background(), ownerID, id, []string{"a@example.com"})

	require.ErrorIs(t, err, mailer.ErrSendFailed)
	store.AssertNotCalled(t, "MarkSent")
}

func TestService_Send_AlreadySent(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	sent := draftNewsletter(id)
	sent.Status = StatusSent
	sent.SentAt = &fixedNow
	sent.Recipients = []string{"a@example.com"}

	store := &mockStore{}
	svc := newTestService(store, &stubProvider{}, &stubProvider{}, &recordingSender{})
	store.On("Get", mock.Anything, id).Return(sent, nil)

	_, err := svc.Send(context.Background(), ownerID, id, []string{"b@example.com"})

	require.ErrorIs(t, err, ErrAlreadySent)
	store.AssertNotCalled(t, "MarkSent")
}

func TestService_OwnershipEnforced(t *testing.T) {
	t.Parallel()

	id := uuid.New()

	tests := []struct {
		name string
		op   func(svc *Service) error
	}{
		{name: "get", op: func(svc *Service) error {
			_, err := svc.Get(context.Background(), intruder, id)
			return err
		}},
		{name: "update", op: func(svc *Service) error {
			title := "hijacked"
			_, err := svc.Update(context.Background(), intruder, id, Patch{Title: &title})
			return err
		}},
		{name: "delete", op: func(svc *Service) error {
			return svc.Delete(context.Background(), intruder, id)
		}},
		{name: "send", op: func(svc *Service) error {
			_, err := svc.Send(context.Background(), intruder, id, []string{"a@example.com"})
			return err
		}},
		{name: "preview", op: func(svc *Service) error {
			_, err := svc.Preview(context.Background(), intruder, id)
			return err
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := &mockStore{}
			out := &recordingSender{}
			svc := newTestService(store, &stubProvider{}, &stubProvider{}, out)
			store.On("Get", mock.Anything, id).Return(draftNewsletter(id), nil)

			err := tt.op(svc)

			require.ErrorIs(t, err, ErrPermissionDenied)
			assert.Nil(t, out.email)
			store.AssertNotCalled(t, "Update")
			store.AssertNotCalled(t, "Delete")
			store.AssertNotCalled(t, "MarkSent")
		})
	}
}

func TestService_Get_NotFound(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	store := &mockStore{}
	svc := newTestService(store, &stubProvider{}, &stubProvider{}, &recordingSender{})
	store.On("Get", mock.Anything, id).Return(nil, ErrNotFound)

	_, err := svc.Get(context.Background(), ownerID, id)

	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_Update_PatchValidation(t *testing.T) {
	t.Parallel()

	empty := ""
	badStyle := TemplateStyle("neon")
	badCitations := []string{"ftp://files.example.com"}
	badRecipients := []string{"nope"}

	tests := []struct {
		name  string
		patch Patch
	}{
		{name: "empty title", patch: Patch{Title: &empty}},
		{name: "unknown style", patch: Patch{TemplateStyle: &badStyle}},
		{name: "bad citation url", patch: Patch{Citations: &badCitations}},
		{name: "bad recipient", patch: Patch{Recipients: &badRecipients}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			id := uuid.New()
			store := &mockStore{}
			svc := newTestService(store, &stubProvider{}, &stubProvider{}, &recordingSender{})
			store.On("Get", mock.Anything, id).Return(draftNewsletter(id), nil)

			_, err := svc.Update(context.Background(), ownerID, id, tt.patch)

			require.ErrorIs(t, err, ErrInvalidInput)
			store.AssertNotCalled(t, "Update")
		})
	}
}

func TestService_Update_ValidPatch(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	title := "Renamed"
	style := StyleModern
	store := &mockStore{}
	svc := newTestService(store, &stubProvider{}, &stubProvider{}, &recordingSender{})

	store.On("Get", mock.Anything, id).Return(draftNewsletter(id), nil)
	store.On("Update", mock.Anything, id, Patch{Title: &title, TemplateStyle: &style}).
		Return(&Newsletter{ID: id, Title: title, TemplateStyle: style, Status: StatusDraft}, nil)

	n, err := svc.Update(context.Background(), ownerID, id, Patch{Title: &title, TemplateStyle: &style})

	require.NoError(t, err)
	assert.Equal(t, "Renamed", n.Title)
	store.AssertExpectations(t)
}

func TestService_Preview_SanitizesContent(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	n := draftNewsletter(id)
	n.Content = `<p>safe</p><script>alert("xss")</script>`

	store := &mockStore{}
	svc := newTestService(store, &stubProvider{}, &stubProvider{}, &recordingSender{})
	store.On("Get", mock.Anything, id).Return(n, nil)

	doc, err := svc.Preview(context.Background(), ownerID, id)

	require.NoError(t, err)
	assert.Contains(t, doc, "<p>safe</p>")
	assert.NotContains(t, doc, "<script>")
}
