package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSender is a mock implementation of the Sender interface.
type MockSender struct {
	mock.Mock
}

func (m *MockSender) Send(ctx context.Context, email *Email) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func TestMailer_Send_Success(t *testing.T) {
	t.Parallel()

	mockSender := &MockSender{}
	m := New(mockSender)

	mockSender.On("Send", mock.Anything, mock.MatchedBy(func(email *Email) bool {
		return len(email.To) == 2 &&
			email.To[0] == "a@example.com" &&
			email.Subject == "Weekly Update" &&
			email.HTML != ""
	})).Return(nil)

	err := m.Send(context.Background(), &Email{
		To:      []string{"a@example.com", "b@example.com"},
		Subject: "Weekly Update",
		HTML:    "<p>hello</p>",
	})

	require.NoError(t, err)
	mockSender.AssertExpectations(t)
}

func TestMailer_Send_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		email   *Email
		wantErr error
	}{
		{
			name:    "no recipients",
			email:   &Email{Subject: "s", HTML: "<p>x</p>"},
			wantErr: ErrNoRecipient,
		},
		{
			name:    "no subject",
			email:   &Email{To: []string{"a@example.com"}, HTML: "<p>x</p>"},
			wantErr: ErrNoSubject,
		},
		{
			name:    "no content",
			email:   &Email{To: []string{"a@example.com"}, Subject: "s"},
			wantErr: ErrNoContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockSender := &MockSender{}
			err := New(mockSender).Send(context.Background(), tt.email)

			require.ErrorIs(t, err, tt.wantErr)
			mockSender.AssertNotCalled(t, "Send")
		})
	}
}

func TestMailer_Send_TransportFailure(t *testing.T) {
	t.Parallel()

	transportErr := errors.New("resend: 429 rate limited")
	mockSender := &MockSender{}
	mockSender.On("Send", mock.Anything, mock.Anything).Return(transportErr)

	err := New(mockSender).Send(context.Background(), &Email{
		To:      []string{"a@example.com"},
		Subject: "s",
		HTML:    "<p>x</p>",
	})

	require.ErrorIs(t, err, ErrSendFailed)
	require.ErrorIs(t, err, transportErr)
}

func TestRecipient(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Weekly <news@example.com>", Recipient("Weekly", "news@example.com"))
	require.Equal(t, "news@example.com", Recipient("", "news@example.com"))
}
