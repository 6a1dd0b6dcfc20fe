package offer

import "context"

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Offer, error)
	// ListActive returns non-deleted active offers.
	ListActive(ctx context.Context) ([]Offer, error)
}

type InterestRepository interface {
	// ListCategoryIDs returns the category ids of a customer's live
	// interests.
	ListCategoryIDs(ctx context.Context, customerID int64) ([]int64, error)
}
