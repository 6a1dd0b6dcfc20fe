package app

import (
	"context"
	"strings"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/event"
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
	"github.com/nahuelmendez6/int-com-back/internal/domain/postulation"
	"github.com/nahuelmendez6/int-com-back/internal/domain/user"
)

type PostulationService struct {
	repo      postulation.Repository
	petitions petition.Repository
	notifier  Notifier
	now       func() time.Time
}

func NewPostulationService(repo postulation.Repository, petitions petition.Repository, notifier Notifier) *PostulationService {
	return &PostulationService{repo: repo, petitions: petitions, notifier: notifier, now: time.Now}
}

type CreatePostulationInput struct {
	PetitionID int64
	ProviderID int64
	Proposal   string
	Budgets    []postulation.Budget
	Materials  []postulation.Material
	CreatedBy  int64
}

func (s *PostulationService) Create(ctx context.Context, input CreatePostulationInput) (*postulation.Postulation, error) {
	pet, err := s.petitions.GetByID(ctx, input.PetitionID)
	if err != nil {
		return nil, err
	}
	if !pet.OpenOn(s.now()) {
		return nil, common.NewError(common.CodeValidation, "petition is closed for postulations", nil)
	}

	// Pre-check for the common case; the partial unique index closes the
	// race window and the repository reports it as the same conflict.
	if _, err := s.repo.FindLive(ctx, input.PetitionID, input.ProviderID); err == nil {
		return nil, common.NewError(common.CodeConflict, "provider already has a postulation on this petition", nil)
	} else if !common.Is(err, common.CodeNotFound) {
		return nil, err
	}

	materials := make([]postulation.Material, len(input.Materials))
	for i, m := range input.Materials {
		m.Total = m.Quantity * m.UnitPrice
		materials[i] = m
	}

	created, err := s.repo.Create(ctx, postulation.Postulation{
		PetitionID: input.PetitionID,
		ProviderID: input.ProviderID,
		Proposal:   strings.TrimSpace(input.Proposal),
		Budgets:    input.Budgets,
		Materials:  materials,
		CreatedBy:  input.CreatedBy,
		UpdatedBy:  input.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.HandlePostulationCreated(ctx, event.PostulationCreated{Postulation: *created, Petition: *pet})
	return created, nil
}

// ChangeState moves a pending postulation to accepted or rejected. Only the
// customer owning the related petition may do it, and both outcomes are
// terminal: a decided postulation never changes again, the provider creates a
// new one if the conversation reopens.
func (s *PostulationService) ChangeState(ctx context.Context, postulationID int64, newStatus postulation.Status, customerID, changedBy int64, note string) (*postulation.Postulation, error) {
	if newStatus != postulation.StatusAccepted && newStatus != postulation.StatusRejected {
		return nil, common.NewValidationError("invalid status", map[string]string{"status": "status must be accepted or rejected"})
	}
	current, err := s.repo.GetByID(ctx, postulationID)
	if err != nil {
		return nil, err
	}
	pet, err := s.petitions.GetByID(ctx, current.PetitionID)
	if err != nil {
		return nil, err
	}
	if pet.CustomerID != customerID {
		return nil, common.NewError(common.CodeForbidden, "postulation belongs to another customer's petition", nil)
	}
	if current.Status != postulation.StatusPending {
		return nil, common.NewError(common.CodeValidation, "postulation status is final", nil)
	}
	updated, err := s.repo.UpdateStatus(ctx, postulationID, newStatus, changedBy, note)
	if err != nil {
		return nil, err
	}
	s.notifier.HandlePostulationStateChanged(ctx, event.PostulationStateChanged{
		OldStatus:   current.Status,
		NewStatus:   updated.Status,
		Postulation: *updated,
		Petition:    *pet,
	})
	return updated, nil
}

// MarkWinner flags an accepted postulation as the selected bid. Marking twice
// is a no-op and does not re-fire the winner notification.
func (s *PostulationService) MarkWinner(ctx context.Context, postulationID, customerID, changedBy int64) (*postulation.Postulation, error) {
	current, err := s.repo.GetByID(ctx, postulationID)
	if err != nil {
		return nil, err
	}
	pet, err := s.petitions.GetByID(ctx, current.PetitionID)
	if err != nil {
		return nil, err
	}
	if pet.CustomerID != customerID {
		return nil, common.NewError(common.CodeForbidden, "postulation belongs to another customer's petition", nil)
	}
	if current.Status != postulation.StatusAccepted {
		return nil, common.NewError(common.CodeValidation, "only an accepted postulation can win", nil)
	}
	wasWinner, err := s.repo.SetWinner(ctx, postulationID, changedBy)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.GetByID(ctx, postulationID)
	if err != nil {
		return nil, err
	}
	if !wasWinner {
		s.notifier.HandlePostulationMarkedWinner(ctx, event.PostulationMarkedWinner{Postulation: *updated, Petition: *pet})
	}
	return updated, nil
}

func (s *PostulationService) Delete(ctx context.Context, postulationID, providerID, changedBy int64) error {
	current, err := s.repo.GetByID(ctx, postulationID)
	if err != nil {
		return err
	}
	if current.ProviderID != providerID {
		return common.NewError(common.CodeForbidden, "postulation belongs to another provider", nil)
	}
	_, err = s.repo.UpdateStatus(ctx, postulationID, postulation.StatusDeleted, changedBy, "deleted")
	return err
}

func (s *PostulationService) GetForProvider(ctx context.Context, postulationID, providerID int64) (*postulation.Postulation, error) {
	current, err := s.repo.GetByID(ctx, postulationID)
	if err != nil {
		return nil, err
	}
	if current.ProviderID != providerID {
		return nil, common.NewError(common.CodeNotFound, "postulation not found", nil)
	}
	return current, nil
}

func (s *PostulationService) ListByProvider(ctx context.Context, providerID int64) ([]postulation.Postulation, error) {
	return s.repo.ListByProvider(ctx, providerID)
}

// ListForPetition returns the postulations a customer received on one of
// their petitions.
func (s *PostulationService) ListForPetition(ctx context.Context, petitionID, customerID int64) ([]postulation.Postulation, error) {
	pet, err := s.petitions.GetByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}
	if pet.CustomerID != customerID {
		return nil, common.NewError(common.CodeForbidden, "petition belongs to another customer", nil)
	}
	return s.repo.ListByPetition(ctx, petitionID)
}

// History returns the state trail of a postulation. Only the bidding
// provider and the petition-owning customer may read it.
func (s *PostulationService) History(ctx context.Context, postulationID int64, caller user.Identity) ([]postulation.StateHistory, error) {
	current, err := s.repo.GetByID(ctx, postulationID)
	if err != nil {
		return nil, err
	}
	if caller.ProviderID == 0 || current.ProviderID != caller.ProviderID {
		pet, err := s.petitions.GetByID(ctx, current.PetitionID)
		if err != nil {
			return nil, err
		}
		if caller.CustomerID == 0 || pet.CustomerID != caller.CustomerID {
			return nil, common.NewError(common.CodeForbidden, "postulation belongs to another party", nil)
		}
	}
	return s.repo.ListHistory(ctx, postulationID)
}
