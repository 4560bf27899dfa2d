// Package mailer provides outbound email delivery behind a small Sender
// interface, with a Resend adapter in the resend subpackage.
package mailer

import (
	"context"
	"errors"
)

var (
	// ErrNoRecipient indicates no recipient was specified.
	ErrNoRecipient = errors.New("email must have at least one recipient")

	// ErrNoSubject indicates no subject was provided.
	ErrNoSubject = errors.New("email must have a subject")

	// ErrNoContent indicates no HTML content was provided.
	ErrNoContent = errors.New("email must have HTML content")

	// ErrSendFailed indicates the transport rejected the request.
	ErrSendFailed = errors.New("failed to send email")
)

// Sender is the minimal interface an email provider must implement.
type Sender interface {
	// Send delivers a fully-prepared email. To, Subject and HTML must be set.
	Send(ctx context.Context, email *Email) error
}

// Mailer validates and dispatches prepared email through a Sender.
type Mailer struct {
	sender Sender
}

// New creates a Mailer on top of the given sender.
func New(sender Sender) *Mailer {
	return &Mailer{sender: sender}
}

// Send dispatches one email addressing all recipients in a single transport
// request. Transport failures are wrapped in ErrSendFailed; the underlying
// provider error is preserved for logging.
func (m *Mailer) Send(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipient
	}
	if email.Subject == "" {
		return ErrNoSubject
	}
	if email.HTML == "" {
		return ErrNoContent
	}

	if err := m.sender.Send(ctx, email); err != nil {
		return errors.Join(ErrSendFailed, err)
	}

	return nil
}
