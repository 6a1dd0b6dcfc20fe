package user

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (*User, error)
	// ResolveIdentity maps a user id to its provider or customer profile.
	// Returns a not_found error when the user has neither.
	ResolveIdentity(ctx context.Context, userID int64) (*Identity, error)
}
