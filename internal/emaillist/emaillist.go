// Package emaillist manages reusable recipient lists. Lists are a
// convenience source for a newsletter's recipients and are copied by value
// at load time; they have no lifecycle coupling to newsletters.
package emaillist

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound indicates the list does not exist.
	ErrNotFound = errors.New("emaillist: not found")

	// ErrPermissionDenied indicates the acting user is not the owner.
	ErrPermissionDenied = errors.New("emaillist: permission denied")

	// ErrInvalidInput indicates a validation failure.
	ErrInvalidInput = errors.New("emaillist: invalid input")

	// ErrDuplicateName indicates the owner already has a list with this name
	// (names are unique per owner, case-insensitively).
	ErrDuplicateName = errors.New("emaillist: name already in use")
)

// EmailList is a named, owner-scoped list of recipient addresses.
type EmailList struct {
	ID        uuid.UUID `json:"id"`
	OwnerID   string    `json:"ownerId"`
	Name      string    `json:"name"`
	Emails    []string  `json:"emails"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Store is the persistence interface for email lists. Implementations
// return ErrNotFound when the record is absent.
type Store interface {
	Create(ctx context.Context, ownerID, name string, emails []string) (*EmailList, error)
	Get(ctx context.Context, id uuid.UUID) (*EmailList, error)
	ListByOwner(ctx context.Context, ownerID string) ([]EmailList, error)
	// GetByName matches case-insensitively within one owner's lists.
	GetByName(ctx context.Context, ownerID, name string) (*EmailList, error)
	Update(ctx context.Context, id uuid.UUID, name string, emails []string) (*EmailList, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Service implements owner-scoped email list operations.
type Service struct {
	store Store
}

// NewService creates the email list service.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Create validates the name and addresses, enforces per-owner name
// uniqueness and persists the list. The uniqueness check is advisory under
// concurrent creation; the unique index on the table is the backstop.
func (s *Service) Create(ctx context.Context, ownerID, name string, emails []string) (*EmailList, error) {
	if ownerID == "" {
		return nil, ErrPermissionDenied
	}
	if err := validate(name, emails); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, ownerID, name, uuid.Nil); err != nil {
		return nil, err
	}
	return s.store.Create(ctx, ownerID, strings.TrimSpace(name), emails)
}

// List returns the owner's lists.
func (s *Service) List(ctx context.Context, ownerID string) ([]EmailList, error) {
	if ownerID == "" {
		return nil, ErrPermissionDenied
	}
	return s.store.ListByOwner(ctx, ownerID)
}

// Get returns one list after the ownership check.
func (s *Service) Get(ctx context.Context, ownerID string, id uuid.UUID) (*EmailList, error) {
	return s.authorized(ctx, ownerID, id)
}

// Update replaces the list's name and addresses wholesale.
func (s *Service) Update(ctx context.Context, ownerID string, id uuid.UUID, name string, emails []string) (*EmailList, error) {
	if _, err := s.authorized(ctx, ownerID, id); err != nil {
		return nil, err
	}
	if err := validate(name, emails); err != nil {
		return nil, err
	}
	if err := s.checkNameFree(ctx, ownerID, name, id); err != nil {
		return nil, err
	}
	return s.store.Update(ctx, id, strings.TrimSpace(name), emails)
}

// Delete removes the list. Irreversible.
func (s *Service) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	if _, err := s.authorized(ctx, ownerID, id); err != nil {
		return err
	}
	return s.store.Delete(ctx, id)
}

func (s *Service) authorized(ctx context.Context, ownerID string, id uuid.UUID) (*EmailList, error) {
	if ownerID == "" {
		return nil, ErrPermissionDenied
	}
	l, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if l.OwnerID != ownerID {
		return nil, ErrPermissionDenied
	}
	return l, nil
}

// checkNameFree rejects a name already used by another of the owner's lists.
// exclude skips the list being updated.
func (s *Service) checkNameFree(ctx context.Context, ownerID, name string, exclude uuid.UUID) error {
	existing, err := s.store.GetByName(ctx, ownerID, strings.TrimSpace(name))
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != exclude {
		return ErrDuplicateName
	}
	return nil
}

func validate(name string, emails []string) error {
	if strings.TrimSpace(name) == "" {
		return errors.Join(ErrInvalidInput, errors.New("name is required"))
	}
	for _, e := range emails {
		parsed, err := mail.ParseAddress(e)
		if err != nil || parsed.Address != e {
			return errors.Join(ErrInvalidInput, fmt.Errorf("invalid email address %q", e))
		}
	}
	return nil
}
