package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nahuelmendez6/int-com-back/internal/domain/customer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
	"github.com/nahuelmendez6/int-com-back/internal/domain/provider"
)

func seedPetition(t *testing.T, repo *fakePetitionRepo, p petition.Petition) petition.Petition {
	t.Helper()
	created, err := repo.Create(context.Background(), p)
	require.NoError(t, err)
	return *created
}

func TestPetitionsForProvider_ProfessionFilter(t *testing.T) {
	petitions := newFakePetitionRepo()
	providers := newFakeProviderRepo(
		provider.Provider{ID: 1, UserID: 10, ProfessionID: int64Ptr(7)},
	)
	customers := newFakeCustomerRepo(customer.Customer{ID: 1, UserID: 20})
	service := NewMatchingService(petitions, providers, customers)

	seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "fix sink", ProfessionID: int64Ptr(7)})
	seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "rewire panel", ProfessionID: int64Ptr(9)})
	unconstrained := seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "general help"})

	matched, err := service.PetitionsForProvider(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, matched, 2)
	descriptions := []string{matched[0].Description, matched[1].Description}
	require.Contains(t, descriptions, "fix sink")
	require.Contains(t, descriptions, unconstrained.Description)
}

func TestPetitionsForProvider_CategoryOverlapOnlyWhenBothDeclare(t *testing.T) {
	petitions := newFakePetitionRepo()
	providers := newFakeProviderRepo(
		provider.Provider{ID: 1, UserID: 10, CategoryIDs: []int64{1, 2}},
		provider.Provider{ID: 2, UserID: 11},
	)
	customers := newFakeCustomerRepo(customer.Customer{ID: 1, UserID: 20})
	service := NewMatchingService(petitions, providers, customers)

	seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "tiling", CategoryIDs: []int64{2, 3}})
	seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "gardening", CategoryIDs: []int64{5}})

	matched, err := service.PetitionsForProvider(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "tiling", matched[0].Description)

	// A provider without declared categories is never filtered on them.
	matched, err = service.PetitionsForProvider(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, matched, 2)
}

func TestPetitionsForProvider_GeographicFilter(t *testing.T) {
	petitions := newFakePetitionRepo()
	providers := newFakeProviderRepo(
		provider.Provider{ID: 1, UserID: 10, CityIDs: []int64{100}},
		provider.Provider{ID: 2, UserID: 11},
	)
	customers := newFakeCustomerRepo(
		customer.Customer{ID: 1, UserID: 20, CityID: int64Ptr(100)},
		customer.Customer{ID: 2, UserID: 21, CityID: int64Ptr(200)},
		customer.Customer{ID: 3, UserID: 22},
	)
	service := NewMatchingService(petitions, providers, customers)

	seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "in town"})
	seedPetition(t, petitions, petition.Petition{CustomerID: 2, Description: "out of town"})
	seedPetition(t, petitions, petition.Petition{CustomerID: 3, Description: "no city"})

	matched, err := service.PetitionsForProvider(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "in town", matched[0].Description)

	// A provider without declared cities serves everywhere.
	matched, err = service.PetitionsForProvider(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, matched, 3)
}

func TestPetitionsForProvider_WindowExcludes(t *testing.T) {
	petitions := newFakePetitionRepo()
	providers := newFakeProviderRepo(provider.Provider{ID: 1, UserID: 10})
	customers := newFakeCustomerRepo(customer.Customer{ID: 1, UserID: 20})
	service := NewMatchingService(petitions, providers, customers)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return now }

	seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "current", DateSince: timePtr(now.AddDate(0, 0, -1)), DateUntil: timePtr(now.AddDate(0, 0, 1))})
	seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "expired", DateUntil: timePtr(now.AddDate(0, 0, -1))})
	seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "not yet", DateSince: timePtr(now.AddDate(0, 0, 2))})

	matched, err := service.PetitionsForProvider(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, "current", matched[0].Description)
}

func TestProvidersForPetition(t *testing.T) {
	petitions := newFakePetitionRepo()
	providers := newFakeProviderRepo(
		provider.Provider{ID: 1, UserID: 10, ProfessionID: int64Ptr(7), CityIDs: []int64{100}},
		provider.Provider{ID: 2, UserID: 11, ProfessionID: int64Ptr(7), CityIDs: []int64{200}},
		provider.Provider{ID: 3, UserID: 12, ProfessionID: int64Ptr(9)},
		provider.Provider{ID: 4, UserID: 13},
	)
	customers := newFakeCustomerRepo(customer.Customer{ID: 1, UserID: 20, CityID: int64Ptr(100)})
	service := NewMatchingService(petitions, providers, customers)

	pet := seedPetition(t, petitions, petition.Petition{CustomerID: 1, Description: "plumbing", ProfessionID: int64Ptr(7)})

	matched, err := service.ProvidersForPetition(context.Background(), pet)
	require.NoError(t, err)
	require.Len(t, matched, 1)
	require.Equal(t, int64(1), matched[0].ID)
}

func TestProvidersForPetition_DanglingCustomerFailsClosed(t *testing.T) {
	petitions := newFakePetitionRepo()
	providers := newFakeProviderRepo(provider.Provider{ID: 1, UserID: 10})
	customers := newFakeCustomerRepo()
	service := NewMatchingService(petitions, providers, customers)

	pet := seedPetition(t, petitions, petition.Petition{CustomerID: 99, Description: "orphaned"})

	matched, err := service.ProvidersForPetition(context.Background(), pet)
	require.NoError(t, err)
	require.Empty(t, matched)
}
