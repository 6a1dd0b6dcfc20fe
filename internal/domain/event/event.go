// Package event defines the domain events the lifecycle services hand to the
// notification dispatcher. Events are emitted explicitly after the owning
// write commits; nothing fires from inside a persistence hook.
package event

import (
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
	"github.com/nahuelmendez6/int-com-back/internal/domain/postulation"
)

type PetitionCreated struct {
	Petition petition.Petition
}

type PetitionClosed struct {
	Petition petition.Petition
}

type PostulationCreated struct {
	Postulation postulation.Postulation
	Petition    petition.Petition
}

type PostulationStateChanged struct {
	OldStatus   postulation.Status
	NewStatus   postulation.Status
	Postulation postulation.Postulation
	Petition    petition.Petition
}

type PostulationMarkedWinner struct {
	Postulation postulation.Postulation
	Petition    petition.Petition
}
