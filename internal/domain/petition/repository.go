package petition

import "context"

type Repository interface {
	Create(ctx context.Context, petition Petition) (*Petition, error)
	GetByID(ctx context.Context, id int64) (*Petition, error)
	// ListOpen returns non-deleted open petitions with categories loaded.
	ListOpen(ctx context.Context) ([]Petition, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]Petition, error)
	// UpdateStatus moves the petition to the given status and appends a
	// state history row in the same transaction.
	UpdateStatus(ctx context.Context, id int64, status Status, changedBy int64, note string) (*Petition, error)
	ListHistory(ctx context.Context, petitionID int64) ([]StateHistory, error)
}
