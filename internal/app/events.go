package app

import (
	"context"

	"github.com/nahuelmendez6/int-com-back/internal/domain/event"
)

// Notifier consumes the domain events the lifecycle services emit after their
// writes commit. Delivery is best-effort: handlers log their own failures and
// never fail the request that produced the event.
type Notifier interface {
	HandlePetitionCreated(ctx context.Context, e event.PetitionCreated)
	HandlePetitionClosed(ctx context.Context, e event.PetitionClosed)
	HandlePostulationCreated(ctx context.Context, e event.PostulationCreated)
	HandlePostulationStateChanged(ctx context.Context, e event.PostulationStateChanged)
	HandlePostulationMarkedWinner(ctx context.Context, e event.PostulationMarkedWinner)
}
