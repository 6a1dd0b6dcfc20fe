package app

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/customer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
)

func newPetitionFixture(t *testing.T) (*PetitionService, *fakePetitionRepo, *recordingNotifier) {
	t.Helper()
	petitions := newFakePetitionRepo()
	providers := newFakeProviderRepo()
	customers := newFakeCustomerRepo(customer.Customer{ID: 1, UserID: 20})
	matching := NewMatchingService(petitions, providers, customers)
	notifier := &recordingNotifier{}
	return NewPetitionService(petitions, matching, notifier), petitions, notifier
}

func TestPetitionCreate(t *testing.T) {
	service, _, notifier := newPetitionFixture(t)

	created, err := service.Create(context.Background(), CreatePetitionInput{
		CustomerID:  1,
		Description: "repair gate",
		CategoryIDs: []int64{3},
		CreatedBy:   20,
	})
	require.NoError(t, err)
	require.Equal(t, petition.StatusOpen, created.Status)
	require.Len(t, notifier.created, 1)
	require.Equal(t, created.ID, notifier.created[0].Petition.ID)
}

func TestPetitionCreate_Validation(t *testing.T) {
	service, _, notifier := newPetitionFixture(t)

	_, err := service.Create(context.Background(), CreatePetitionInput{CustomerID: 1, Description: "   "})
	require.True(t, common.Is(err, common.CodeValidation))

	since := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	until := since.AddDate(0, 0, -3)
	_, err = service.Create(context.Background(), CreatePetitionInput{
		CustomerID:  1,
		Description: "backwards window",
		DateSince:   &since,
		DateUntil:   &until,
	})
	require.True(t, common.Is(err, common.CodeValidation))
	require.Empty(t, notifier.created)
}

func TestPetitionClose(t *testing.T) {
	service, _, notifier := newPetitionFixture(t)

	created, err := service.Create(context.Background(), CreatePetitionInput{CustomerID: 1, Description: "clean pool", CreatedBy: 20})
	require.NoError(t, err)

	_, err = service.Close(context.Background(), created.ID, 999, 30, "")
	require.True(t, common.Is(err, common.CodeForbidden))

	closed, err := service.Close(context.Background(), created.ID, 1, 20, "done elsewhere")
	require.NoError(t, err)
	require.Equal(t, petition.StatusClosed, closed.Status)
	require.Len(t, notifier.closed, 1)

	_, err = service.Close(context.Background(), created.ID, 1, 20, "")
	require.True(t, common.Is(err, common.CodeValidation))
}

func TestPetitionDelete_SoftHidesPetition(t *testing.T) {
	service, _, _ := newPetitionFixture(t)

	created, err := service.Create(context.Background(), CreatePetitionInput{CustomerID: 1, Description: "old job", CreatedBy: 20})
	require.NoError(t, err)

	require.NoError(t, service.Delete(context.Background(), created.ID, 1, 20))

	_, err = service.Get(context.Background(), created.ID)
	require.True(t, common.Is(err, common.CodeNotFound))

	mine, err := service.ListByCustomer(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestPetitionHistory_OwnerScoped(t *testing.T) {
	service, _, _ := newPetitionFixture(t)

	created, err := service.Create(context.Background(), CreatePetitionInput{CustomerID: 1, Description: "audit trail", CreatedBy: 20})
	require.NoError(t, err)
	_, err = service.Close(context.Background(), created.ID, 1, 20, "wrapping up")
	require.NoError(t, err)

	_, err = service.History(context.Background(), created.ID, 999)
	require.True(t, common.Is(err, common.CodeForbidden))

	history, err := service.History(context.Background(), created.ID, 1)
	require.NoError(t, err)
	require.Len(t, history, 2)
	require.Equal(t, petition.StatusOpen, history[0].Status)
	require.Equal(t, petition.StatusClosed, history[1].Status)
	require.Equal(t, "wrapping up", history[1].Note)
}
