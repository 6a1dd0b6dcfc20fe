package app

import (
	"context"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/domain/customer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
	"github.com/nahuelmendez6/int-com-back/internal/domain/postulation"
	"github.com/nahuelmendez6/int-com-back/internal/domain/provider"
)

// Hire is the reporting view of an accepted postulation: the agreement
// between a customer and a provider, with the agreed price resolved from the
// postulation's budgets and materials.
type Hire struct {
	PostulationID int64                  `json:"postulation_id"`
	PetitionID    int64                  `json:"petition_id"`
	CustomerID    int64                  `json:"customer_id"`
	ProviderID    int64                  `json:"provider_id"`
	Description   string                 `json:"description"`
	Proposal      string                 `json:"proposal"`
	Winner        bool                   `json:"winner"`
	ApprovedAt    time.Time              `json:"approved_at"`
	FinalPrice    *float64               `json:"final_price,omitempty"`
	Budgets       []postulation.Budget   `json:"budgets,omitempty"`
	Materials     []postulation.Material `json:"materials,omitempty"`
}

type HireService struct {
	postulations postulation.Repository
	petitions    petition.Repository
	customers    customer.Repository
	providers    provider.Repository
}

func NewHireService(postulations postulation.Repository, petitions petition.Repository, customers customer.Repository, providers provider.Repository) *HireService {
	return &HireService{postulations: postulations, petitions: petitions, customers: customers, providers: providers}
}

// ListForCustomer returns the hires across all of the customer's petitions.
func (s *HireService) ListForCustomer(ctx context.Context, customerID int64) ([]Hire, error) {
	pets, err := s.petitions.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(pets) == 0 {
		return []Hire{}, nil
	}
	byID := make(map[int64]petition.Petition, len(pets))
	ids := make([]int64, 0, len(pets))
	for _, p := range pets {
		byID[p.ID] = p
		ids = append(ids, p.ID)
	}
	accepted, err := s.postulations.ListAcceptedByPetitions(ctx, ids)
	if err != nil {
		return nil, err
	}
	hires := make([]Hire, 0, len(accepted))
	for _, post := range accepted {
		hires = append(hires, toHire(post, byID[post.PetitionID]))
	}
	return hires, nil
}

// ListForProvider returns the jobs the provider was hired for.
func (s *HireService) ListForProvider(ctx context.Context, providerID int64) ([]Hire, error) {
	accepted, err := s.postulations.ListAcceptedByProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}
	hires := make([]Hire, 0, len(accepted))
	for _, post := range accepted {
		pet, err := s.petitions.GetByID(ctx, post.PetitionID)
		if err != nil {
			return nil, err
		}
		hires = append(hires, toHire(post, *pet))
	}
	return hires, nil
}

func toHire(post postulation.Postulation, pet petition.Petition) Hire {
	return Hire{
		PostulationID: post.ID,
		PetitionID:    pet.ID,
		CustomerID:    pet.CustomerID,
		ProviderID:    post.ProviderID,
		Description:   pet.Description,
		Proposal:      post.Proposal,
		Winner:        post.Winner,
		ApprovedAt:    post.UpdatedAt,
		FinalPrice:    post.FinalPrice(),
		Budgets:       post.Budgets,
		Materials:     post.Materials,
	}
}
