package provider

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Provider, error)
	GetByUserID(ctx context.Context, userID int64) (*Provider, error)
	// ListActive returns providers whose linked user account is active,
	// with category and city associations loaded.
	ListActive(ctx context.Context) ([]Provider, error)
	// ListByCategories returns ids of providers declaring at least one of
	// the given categories.
	ListByCategories(ctx context.Context, categoryIDs []int64) ([]int64, error)
}
