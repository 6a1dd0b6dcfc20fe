package app

import (
	"context"
	"strings"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/event"
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
)

type PetitionService struct {
	repo     petition.Repository
	matching *MatchingService
	notifier Notifier
}

func NewPetitionService(repo petition.Repository, matching *MatchingService, notifier Notifier) *PetitionService {
	return &PetitionService{repo: repo, matching: matching, notifier: notifier}
}

type CreatePetitionInput struct {
	CustomerID     int64
	Description    string
	TypeID         *int64
	ProfessionID   *int64
	TypeProviderID *int64
	CategoryIDs    []int64
	DateSince      *time.Time
	DateUntil      *time.Time
	CreatedBy      int64
}

func (s *PetitionService) Create(ctx context.Context, input CreatePetitionInput) (*petition.Petition, error) {
	if strings.TrimSpace(input.Description) == "" {
		return nil, common.NewError(common.CodeValidation, "description is required", nil)
	}
	if input.DateSince != nil && input.DateUntil != nil && input.DateUntil.Before(*input.DateSince) {
		return nil, common.NewValidationError("invalid petition window", map[string]string{"date_until": "date_until must not precede date_since"})
	}
	created, err := s.repo.Create(ctx, petition.Petition{
		CustomerID:     input.CustomerID,
		Description:    input.Description,
		TypeID:         input.TypeID,
		ProfessionID:   input.ProfessionID,
		TypeProviderID: input.TypeProviderID,
		CategoryIDs:    input.CategoryIDs,
		DateSince:      input.DateSince,
		DateUntil:      input.DateUntil,
		CreatedBy:      input.CreatedBy,
		UpdatedBy:      input.CreatedBy,
	})
	if err != nil {
		return nil, err
	}
	s.notifier.HandlePetitionCreated(ctx, event.PetitionCreated{Petition: *created})
	return created, nil
}

func (s *PetitionService) Get(ctx context.Context, id int64) (*petition.Petition, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *PetitionService) ListByCustomer(ctx context.Context, customerID int64) ([]petition.Petition, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

// ListForProvider is the provider-facing feed: open petitions the provider's
// profile matches.
func (s *PetitionService) ListForProvider(ctx context.Context, providerID int64) ([]petition.Petition, error) {
	return s.matching.PetitionsForProvider(ctx, providerID)
}

func (s *PetitionService) Close(ctx context.Context, petitionID, customerID, changedBy int64, note string) (*petition.Petition, error) {
	current, err := s.repo.GetByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}
	if current.CustomerID != customerID {
		return nil, common.NewError(common.CodeForbidden, "petition belongs to another customer", nil)
	}
	if current.Status != petition.StatusOpen {
		return nil, common.NewError(common.CodeValidation, "petition is not open", nil)
	}
	updated, err := s.repo.UpdateStatus(ctx, petitionID, petition.StatusClosed, changedBy, note)
	if err != nil {
		return nil, err
	}
	s.notifier.HandlePetitionClosed(ctx, event.PetitionClosed{Petition: *updated})
	return updated, nil
}

// Delete soft-deletes the petition. History stays; the petition simply stops
// existing for matching and reads.
func (s *PetitionService) Delete(ctx context.Context, petitionID, customerID, changedBy int64) error {
	current, err := s.repo.GetByID(ctx, petitionID)
	if err != nil {
		return err
	}
	if current.CustomerID != customerID {
		return common.NewError(common.CodeForbidden, "petition belongs to another customer", nil)
	}
	_, err = s.repo.UpdateStatus(ctx, petitionID, petition.StatusDeleted, changedBy, "deleted")
	return err
}

func (s *PetitionService) History(ctx context.Context, petitionID, customerID int64) ([]petition.StateHistory, error) {
	current, err := s.repo.GetByID(ctx, petitionID)
	if err != nil {
		return nil, err
	}
	if current.CustomerID != customerID {
		return nil, common.NewError(common.CodeForbidden, "petition belongs to another customer", nil)
	}
	return s.repo.ListHistory(ctx, petitionID)
}
