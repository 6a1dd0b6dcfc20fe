package postulation

import "context"

type Repository interface {
	// Create persists the postulation with its budgets, materials and the
	// initial state history row in a single transaction. A violation of the
	// live-postulation unique index surfaces as a conflict error.
	Create(ctx context.Context, postulation Postulation) (*Postulation, error)
	GetByID(ctx context.Context, id int64) (*Postulation, error)
	// FindLive returns the non-deleted postulation for a (petition,
	// provider) pair, or a not_found error.
	FindLive(ctx context.Context, petitionID, providerID int64) (*Postulation, error)
	ListByProvider(ctx context.Context, providerID int64) ([]Postulation, error)
	ListByPetition(ctx context.Context, petitionID int64) ([]Postulation, error)
	// ListAcceptedByPetitions returns accepted postulations over the given
	// petitions, budgets and materials loaded (hire reporting).
	ListAcceptedByPetitions(ctx context.Context, petitionIDs []int64) ([]Postulation, error)
	ListAcceptedByProvider(ctx context.Context, providerID int64) ([]Postulation, error)
	// UpdateStatus writes the new status and appends a history row in the
	// same transaction.
	UpdateStatus(ctx context.Context, id int64, status Status, changedBy int64, notes string) (*Postulation, error)
	// SetWinner flips the winner flag. It returns the previous value so the
	// caller can keep the winner notification one-shot.
	SetWinner(ctx context.Context, id int64, changedBy int64) (wasWinner bool, err error)
	ListHistory(ctx context.Context, postulationID int64) ([]StateHistory, error)
}
