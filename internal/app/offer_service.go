package app

import (
	"context"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/domain/customer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/offer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/provider"
)

// OfferService matches active provider offers against a customer's declared
// interests and location.
type OfferService struct {
	offers    offer.Repository
	interests offer.InterestRepository
	customers customer.Repository
	providers provider.Repository
	now       func() time.Time
}

func NewOfferService(offers offer.Repository, interests offer.InterestRepository, customers customer.Repository, providers provider.Repository) *OfferService {
	return &OfferService{offers: offers, interests: interests, customers: customers, providers: providers, now: time.Now}
}

// OffersForCustomer returns the live offers relevant to the customer. A
// customer without a resolvable city or without any interest category sees no
// offers: both signals are required to scope the feed. The offering provider
// must declare at least one of the customer's interest categories and must
// explicitly list the customer's city; an offer without a provider is never
// shown.
func (s *OfferService) OffersForCustomer(ctx context.Context, customerID int64) ([]offer.Offer, error) {
	cust, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cust.CityID == nil {
		return []offer.Offer{}, nil
	}
	interestIDs, err := s.interests.ListCategoryIDs(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(interestIDs) == 0 {
		return []offer.Offer{}, nil
	}

	providers, err := s.providers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	eligible := make(map[int64]bool, len(providers))
	for _, p := range providers {
		if !intersects(p.CategoryIDs, interestIDs) {
			continue
		}
		if !containsID(p.CityIDs, *cust.CityID) {
			continue
		}
		eligible[p.ID] = true
	}
	if len(eligible) == 0 {
		return []offer.Offer{}, nil
	}

	active, err := s.offers.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	matched := make([]offer.Offer, 0, len(active))
	for _, o := range active {
		if o.ProviderID == nil || !eligible[*o.ProviderID] {
			continue
		}
		if !o.ActiveAt(now) {
			continue
		}
		matched = append(matched, o)
	}
	return matched, nil
}
