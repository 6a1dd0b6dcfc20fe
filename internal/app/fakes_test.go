package app

import (
	"context"
	"sync"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/customer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/event"
	"github.com/nahuelmendez6/int-com-back/internal/domain/notification"
	"github.com/nahuelmendez6/int-com-back/internal/domain/offer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
	"github.com/nahuelmendez6/int-com-back/internal/domain/postulation"
	"github.com/nahuelmendez6/int-com-back/internal/domain/provider"
	"github.com/nahuelmendez6/int-com-back/internal/domain/user"
	"github.com/nahuelmendez6/int-com-back/internal/realtime"
)

func int64Ptr(v int64) *int64        { return &v }
func float64Ptr(v float64) *float64  { return &v }
func timePtr(v time.Time) *time.Time { return &v }

type fakePetitionRepo struct {
	mu        sync.Mutex
	nextID    int64
	petitions map[int64]*petition.Petition
	history   map[int64][]petition.StateHistory
}

func newFakePetitionRepo() *fakePetitionRepo {
	return &fakePetitionRepo{petitions: make(map[int64]*petition.Petition), history: make(map[int64][]petition.StateHistory)}
}

func (r *fakePetitionRepo) Create(ctx context.Context, p petition.Petition) (*petition.Petition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	p.ID = r.nextID
	p.Status = petition.StatusOpen
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.petitions[p.ID] = &p
	r.history[p.ID] = append(r.history[p.ID], petition.StateHistory{PetitionID: p.ID, Status: p.Status, ChangedBy: p.CreatedBy})
	out := p
	return &out, nil
}

func (r *fakePetitionRepo) GetByID(ctx context.Context, id int64) (*petition.Petition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.petitions[id]
	if !ok || p.Status == petition.StatusDeleted {
		return nil, common.NewError(common.CodeNotFound, "petition not found", nil)
	}
	out := *p
	return &out, nil
}

func (r *fakePetitionRepo) ListOpen(ctx context.Context) ([]petition.Petition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var open []petition.Petition
	for _, p := range r.petitions {
		if p.Status == petition.StatusOpen {
			open = append(open, *p)
		}
	}
	return open, nil
}

func (r *fakePetitionRepo) ListByCustomer(ctx context.Context, customerID int64) ([]petition.Petition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []petition.Petition
	for _, p := range r.petitions {
		if p.CustomerID == customerID && p.Status != petition.StatusDeleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePetitionRepo) UpdateStatus(ctx context.Context, id int64, status petition.Status, changedBy int64, note string) (*petition.Petition, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.petitions[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "petition not found", nil)
	}
	p.Status = status
	p.UpdatedBy = changedBy
	p.UpdatedAt = time.Now()
	r.history[id] = append(r.history[id], petition.StateHistory{PetitionID: id, Status: status, ChangedBy: changedBy, Note: note})
	out := *p
	return &out, nil
}

func (r *fakePetitionRepo) ListHistory(ctx context.Context, petitionID int64) ([]petition.StateHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]petition.StateHistory(nil), r.history[petitionID]...), nil
}

type fakePostulationRepo struct {
	mu           sync.Mutex
	nextID       int64
	postulations map[int64]*postulation.Postulation
	history      map[int64][]postulation.StateHistory
}

func newFakePostulationRepo() *fakePostulationRepo {
	return &fakePostulationRepo{postulations: make(map[int64]*postulation.Postulation), history: make(map[int64][]postulation.StateHistory)}
}

func (r *fakePostulationRepo) Create(ctx context.Context, p postulation.Postulation) (*postulation.Postulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.postulations {
		if existing.PetitionID == p.PetitionID && existing.ProviderID == p.ProviderID && existing.Status != postulation.StatusDeleted {
			return nil, common.NewError(common.CodeConflict, "provider already has a postulation on this petition", nil)
		}
	}
	r.nextID++
	p.ID = r.nextID
	p.Status = postulation.StatusPending
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.postulations[p.ID] = &p
	r.history[p.ID] = append(r.history[p.ID], postulation.StateHistory{PostulationID: p.ID, Status: p.Status, ChangedBy: p.CreatedBy})
	out := p
	return &out, nil
}

func (r *fakePostulationRepo) GetByID(ctx context.Context, id int64) (*postulation.Postulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.postulations[id]
	if !ok || p.Status == postulation.StatusDeleted {
		return nil, common.NewError(common.CodeNotFound, "postulation not found", nil)
	}
	out := *p
	return &out, nil
}

func (r *fakePostulationRepo) FindLive(ctx context.Context, petitionID, providerID int64) (*postulation.Postulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.postulations {
		if p.PetitionID == petitionID && p.ProviderID == providerID && p.Status != postulation.StatusDeleted {
			out := *p
			return &out, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "postulation not found", nil)
}

func (r *fakePostulationRepo) ListByProvider(ctx context.Context, providerID int64) ([]postulation.Postulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []postulation.Postulation
	for _, p := range r.postulations {
		if p.ProviderID == providerID && p.Status != postulation.StatusDeleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostulationRepo) ListByPetition(ctx context.Context, petitionID int64) ([]postulation.Postulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []postulation.Postulation
	for _, p := range r.postulations {
		if p.PetitionID == petitionID && p.Status != postulation.StatusDeleted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostulationRepo) ListAcceptedByPetitions(ctx context.Context, petitionIDs []int64) ([]postulation.Postulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make(map[int64]bool, len(petitionIDs))
	for _, id := range petitionIDs {
		ids[id] = true
	}
	var out []postulation.Postulation
	for _, p := range r.postulations {
		if ids[p.PetitionID] && p.Status == postulation.StatusAccepted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostulationRepo) ListAcceptedByProvider(ctx context.Context, providerID int64) ([]postulation.Postulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []postulation.Postulation
	for _, p := range r.postulations {
		if p.ProviderID == providerID && p.Status == postulation.StatusAccepted {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *fakePostulationRepo) UpdateStatus(ctx context.Context, id int64, status postulation.Status, changedBy int64, notes string) (*postulation.Postulation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.postulations[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "postulation not found", nil)
	}
	p.Status = status
	p.UpdatedBy = changedBy
	p.UpdatedAt = time.Now()
	r.history[id] = append(r.history[id], postulation.StateHistory{PostulationID: id, Status: status, ChangedBy: changedBy, Notes: notes})
	out := *p
	return &out, nil
}

func (r *fakePostulationRepo) SetWinner(ctx context.Context, id int64, changedBy int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.postulations[id]
	if !ok {
		return false, common.NewError(common.CodeNotFound, "postulation not found", nil)
	}
	was := p.Winner
	p.Winner = true
	p.UpdatedBy = changedBy
	p.UpdatedAt = time.Now()
	return was, nil
}

func (r *fakePostulationRepo) ListHistory(ctx context.Context, postulationID int64) ([]postulation.StateHistory, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]postulation.StateHistory(nil), r.history[postulationID]...), nil
}

type fakeProviderRepo struct {
	providers map[int64]*provider.Provider
}

func newFakeProviderRepo(providers ...provider.Provider) *fakeProviderRepo {
	r := &fakeProviderRepo{providers: make(map[int64]*provider.Provider)}
	for i := range providers {
		p := providers[i]
		r.providers[p.ID] = &p
	}
	return r
}

func (r *fakeProviderRepo) GetByID(ctx context.Context, id int64) (*provider.Provider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "provider not found", nil)
	}
	out := *p
	return &out, nil
}

func (r *fakeProviderRepo) GetByUserID(ctx context.Context, userID int64) (*provider.Provider, error) {
	for _, p := range r.providers {
		if p.UserID == userID {
			out := *p
			return &out, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "provider not found", nil)
}

func (r *fakeProviderRepo) ListActive(ctx context.Context) ([]provider.Provider, error) {
	var out []provider.Provider
	for _, p := range r.providers {
		out = append(out, *p)
	}
	return out, nil
}

func (r *fakeProviderRepo) ListByCategories(ctx context.Context, categoryIDs []int64) ([]int64, error) {
	var out []int64
	for _, p := range r.providers {
		if intersects(p.CategoryIDs, categoryIDs) {
			out = append(out, p.ID)
		}
	}
	return out, nil
}

type fakeCustomerRepo struct {
	customers map[int64]*customer.Customer
}

func newFakeCustomerRepo(customers ...customer.Customer) *fakeCustomerRepo {
	r := &fakeCustomerRepo{customers: make(map[int64]*customer.Customer)}
	for i := range customers {
		c := customers[i]
		r.customers[c.ID] = &c
	}
	return r
}

func (r *fakeCustomerRepo) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	c, ok := r.customers[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "customer not found", nil)
	}
	out := *c
	return &out, nil
}

func (r *fakeCustomerRepo) GetByUserID(ctx context.Context, userID int64) (*customer.Customer, error) {
	for _, c := range r.customers {
		if c.UserID == userID {
			out := *c
			return &out, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "customer not found", nil)
}

type fakeUserRepo struct {
	users map[int64]*user.User
}

func newFakeUserRepo(users ...user.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int64]*user.User)}
	for i := range users {
		u := users[i]
		r.users[u.ID] = &u
	}
	return r
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (*user.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	out := *u
	return &out, nil
}

func (r *fakeUserRepo) ResolveIdentity(ctx context.Context, userID int64) (*user.Identity, error) {
	if _, ok := r.users[userID]; !ok {
		return nil, common.NewError(common.CodeNotFound, "user not found", nil)
	}
	return &user.Identity{UserID: userID, Role: user.RoleCustomer, CustomerID: userID}, nil
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        int64
	notifications []*notification.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{}
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n notification.Notification) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	n.ID = r.nextID
	n.CreatedAt = time.Now()
	r.notifications = append(r.notifications, &n)
	out := n
	return &out, nil
}

func (r *fakeNotificationRepo) GetByUser(ctx context.Context, id, userID int64) (*notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			out := *n
			return &out, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "notification not found", nil)
}

func (r *fakeNotificationRepo) ListByUser(ctx context.Context, userID int64, limit int) ([]notification.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []notification.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].UserID != userID {
			continue
		}
		out = append(out, *r.notifications[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID != id || n.UserID != userID {
			continue
		}
		if n.IsRead {
			return false, nil
		}
		n.IsRead = true
		n.ReadAt = timePtr(time.Now())
		return true, nil
	}
	return false, common.NewError(common.CodeNotFound, "notification not found", nil)
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var updated int64
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			n.ReadAt = timePtr(time.Now())
			updated++
		}
	}
	return updated, nil
}

func (r *fakeNotificationRepo) Delete(ctx context.Context, id, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return common.NewError(common.CodeNotFound, "notification not found", nil)
}

func (r *fakeNotificationRepo) CountByType(ctx context.Context, userID int64) (map[notification.Type]int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[notification.Type]int64)
	for _, n := range r.notifications {
		if n.UserID == userID {
			out[n.Type]++
		}
	}
	return out, nil
}

func (r *fakeNotificationRepo) Count(ctx context.Context, userID int64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, n := range r.notifications {
		if n.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeSettingsRepo struct {
	mu       sync.Mutex
	settings map[int64]*notification.Settings
}

func newFakeSettingsRepo() *fakeSettingsRepo {
	return &fakeSettingsRepo{settings: make(map[int64]*notification.Settings)}
}

func (r *fakeSettingsRepo) GetOrCreate(ctx context.Context, userID int64) (*notification.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.settings[userID]; ok {
		out := *s
		return &out, nil
	}
	s := notification.DefaultSettings(userID)
	s.CreatedAt = time.Now()
	s.UpdatedAt = s.CreatedAt
	r.settings[userID] = &s
	out := s
	return &out, nil
}

func (r *fakeSettingsRepo) Update(ctx context.Context, s notification.Settings) (*notification.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s.UpdatedAt = time.Now()
	r.settings[s.UserID] = &s
	out := s
	return &out, nil
}

type fakeOfferRepo struct {
	offers []offer.Offer
}

func (r *fakeOfferRepo) GetByID(ctx context.Context, id int64) (*offer.Offer, error) {
	for _, o := range r.offers {
		if o.ID == id {
			out := o
			return &out, nil
		}
	}
	return nil, common.NewError(common.CodeNotFound, "offer not found", nil)
}

func (r *fakeOfferRepo) ListActive(ctx context.Context) ([]offer.Offer, error) {
	var out []offer.Offer
	for _, o := range r.offers {
		if o.Status == offer.StatusActive {
			out = append(out, o)
		}
	}
	return out, nil
}

type fakeInterestRepo struct {
	byCustomer map[int64][]int64
}

func (r *fakeInterestRepo) ListCategoryIDs(ctx context.Context, customerID int64) ([]int64, error) {
	return r.byCustomer[customerID], nil
}

type publishedEvent struct {
	group string
	event realtime.Event
}

type fakeChannel struct {
	mu     sync.Mutex
	events []publishedEvent
	err    error
}

func (c *fakeChannel) Publish(ctx context.Context, group string, event realtime.Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.events = append(c.events, publishedEvent{group: group, event: event})
	return nil
}

func (c *fakeChannel) published() []publishedEvent {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]publishedEvent(nil), c.events...)
}

// recordingNotifier captures the events a lifecycle service emits.
type recordingNotifier struct {
	mu           sync.Mutex
	created      []event.PetitionCreated
	closed       []event.PetitionClosed
	postulations []event.PostulationCreated
	stateChanges []event.PostulationStateChanged
	winners      []event.PostulationMarkedWinner
}

func (n *recordingNotifier) HandlePetitionCreated(ctx context.Context, e event.PetitionCreated) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, e)
}

func (n *recordingNotifier) HandlePetitionClosed(ctx context.Context, e event.PetitionClosed) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = append(n.closed, e)
}

func (n *recordingNotifier) HandlePostulationCreated(ctx context.Context, e event.PostulationCreated) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.postulations = append(n.postulations, e)
}

func (n *recordingNotifier) HandlePostulationStateChanged(ctx context.Context, e event.PostulationStateChanged) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stateChanges = append(n.stateChanges, e)
}

func (n *recordingNotifier) HandlePostulationMarkedWinner(ctx context.Context, e event.PostulationMarkedWinner) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.winners = append(n.winners, e)
}
