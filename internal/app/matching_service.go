package app

import (
	"context"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/customer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
	"github.com/nahuelmendez6/int-com-back/internal/domain/provider"
)

// MatchingService decides which open petitions a provider should see and
// which providers should hear about a petition. Matching is best-effort
// discovery: it re-reads current data on every call and degrades to an empty
// result instead of failing on dangling references.
type MatchingService struct {
	petitions petition.Repository
	providers provider.Repository
	customers customer.Repository
	now       func() time.Time
}

func NewMatchingService(petitions petition.Repository, providers provider.Repository, customers customer.Repository) *MatchingService {
	return &MatchingService{petitions: petitions, providers: providers, customers: customers, now: time.Now}
}

// PetitionsForProvider returns every open, in-window petition whose optional
// constraints the provider satisfies. Each filter passes when the petition
// does not carry that constraint.
func (s *MatchingService) PetitionsForProvider(ctx context.Context, providerID int64) ([]petition.Petition, error) {
	prov, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		return nil, err
	}
	open, err := s.petitions.ListOpen(ctx)
	if err != nil {
		return nil, err
	}

	today := s.now()
	cityCache := make(map[int64]*int64)
	var matched []petition.Petition
	for _, pet := range open {
		if !pet.OpenOn(today) {
			continue
		}
		if !petitionMatchesProfile(pet, *prov) {
			continue
		}
		if len(prov.CityIDs) > 0 {
			cityID := s.customerCity(ctx, cityCache, pet.CustomerID)
			if cityID == nil || !containsID(prov.CityIDs, *cityID) {
				continue
			}
		}
		matched = append(matched, pet)
	}
	return matched, nil
}

// ProvidersForPetition returns the active-user providers eligible for a
// notification about the petition. An unresolvable owning customer yields an
// empty set rather than an error: matching fails closed so nobody is paged
// about a petition that cannot be attributed.
func (s *MatchingService) ProvidersForPetition(ctx context.Context, pet petition.Petition) ([]provider.Provider, error) {
	owner, err := s.customers.GetByID(ctx, pet.CustomerID)
	if err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}

	active, err := s.providers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	var matched []provider.Provider
	for _, prov := range active {
		if !petitionMatchesProfile(pet, prov) {
			continue
		}
		if len(prov.CityIDs) > 0 {
			if owner.CityID == nil || !containsID(prov.CityIDs, *owner.CityID) {
				continue
			}
		}
		matched = append(matched, prov)
	}
	return matched, nil
}

// petitionMatchesProfile checks the profession, provider-type and category
// constraints. Category overlap is only demanded when both sides declare
// categories; a provider without categories is never filtered out for
// lacking them.
func petitionMatchesProfile(pet petition.Petition, prov provider.Provider) bool {
	if pet.ProfessionID != nil {
		if prov.ProfessionID == nil || *prov.ProfessionID != *pet.ProfessionID {
			return false
		}
	}
	if pet.TypeProviderID != nil {
		if prov.TypeProviderID == nil || *prov.TypeProviderID != *pet.TypeProviderID {
			return false
		}
	}
	if len(pet.CategoryIDs) > 0 && len(prov.CategoryIDs) > 0 {
		if !intersects(pet.CategoryIDs, prov.CategoryIDs) {
			return false
		}
	}
	return true
}

func (s *MatchingService) customerCity(ctx context.Context, cache map[int64]*int64, customerID int64) *int64 {
	if cityID, ok := cache[customerID]; ok {
		return cityID
	}
	owner, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		// Dangling customers exclude the petition from geo-constrained
		// providers; they never abort the whole match.
		cache[customerID] = nil
		return nil
	}
	cache[customerID] = owner.CityID
	return owner.CityID
}

func intersects(a, b []int64) bool {
	for _, x := range a {
		if containsID(b, x) {
			return true
		}
	}
	return false
}

func containsID(ids []int64, id int64) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}
