package repository

import (
	"context"
	"errors"

	"github.com/tkarls/memberbase/internal/domain/entity"
)

// ErrDuplicateEmail is returned by Create when the email is already taken.
// The store enforces uniqueness itself, so concurrent registrations of the
// same address resolve to exactly one success.
var ErrDuplicateEmail = errors.New("email already registered")

// UserRepository defines the interface for user persistence.
// Lookups return (nil, nil) when no record matches.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	// UpdateProfile applies the non-nil fields of upd to the user's row in a
	// single transaction and returns the resulting record, or (nil, nil) if
	// the id is unknown.
	UpdateProfile(ctx context.Context, id string, upd entity.ProfileUpdate) (*entity.User, error)
}
