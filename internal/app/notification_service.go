package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/customer"
	"github.com/nahuelmendez6/int-com-back/internal/domain/event"
	"github.com/nahuelmendez6/int-com-back/internal/domain/notification"
	"github.com/nahuelmendez6/int-com-back/internal/domain/postulation"
	"github.com/nahuelmendez6/int-com-back/internal/domain/provider"
	"github.com/nahuelmendez6/int-com-back/internal/domain/user"
	"github.com/nahuelmendez6/int-com-back/internal/realtime"
)

const defaultRecentLimit = 10

// NotificationService persists notifications and pushes realtime events to
// connected clients. It also implements Notifier, reacting to the lifecycle
// events the other services emit.
type NotificationService struct {
	repo         notification.Repository
	settings     notification.SettingsRepository
	users        user.Repository
	customers    customer.Repository
	providers    provider.Repository
	postulations postulation.Repository
	matching     *MatchingService
	channel      realtime.Channel
	logger       *slog.Logger
}

func NewNotificationService(
	repo notification.Repository,
	settings notification.SettingsRepository,
	users user.Repository,
	customers customer.Repository,
	providers provider.Repository,
	postulations postulation.Repository,
	matching *MatchingService,
	channel realtime.Channel,
	logger *slog.Logger,
) *NotificationService {
	return &NotificationService{
		repo:         repo,
		settings:     settings,
		users:        users,
		customers:    customers,
		providers:    providers,
		postulations: postulations,
		matching:     matching,
		channel:      channel,
		logger:       logger,
	}
}

type NotifyInput struct {
	UserID        int64
	Title         string
	Message       string
	Type          notification.Type
	PetitionID    *int64
	PostulationID *int64
	Metadata      map[string]any
}

// Notify persists a notification for the user and pushes it over the realtime
// channel. An unknown user and a disabled notification type are both silent
// no-ops. The row is always written before the publish, so a push failure
// never loses the notification; it is logged and swallowed.
func (s *NotificationService) Notify(ctx context.Context, input NotifyInput) (*notification.Notification, error) {
	if _, err := s.users.GetByID(ctx, input.UserID); err != nil {
		if common.Is(err, common.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	settings, err := s.settings.GetOrCreate(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if !settings.Enabled(input.Type) {
		return nil, nil
	}

	created, err := s.repo.Create(ctx, notification.Notification{
		UserID:               input.UserID,
		Title:                input.Title,
		Message:              input.Message,
		Type:                 input.Type,
		RelatedPetitionID:    input.PetitionID,
		RelatedPostulationID: input.PostulationID,
		Metadata:             input.Metadata,
	})
	if err != nil {
		return nil, err
	}

	if settings.PushNotifications {
		s.publish(ctx, input.UserID, realtime.Event{
			Type:         realtime.EventNotificationCreated,
			Notification: created,
		})
	}
	return created, nil
}

func (s *NotificationService) publish(ctx context.Context, userID int64, ev realtime.Event) {
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		s.logger.Warn("unread count for publish failed", "user_id", userID, "error", err)
	} else {
		ev.UnreadCount = unread
	}
	if err := s.channel.Publish(ctx, realtime.Group(userID), ev); err != nil {
		s.logger.Warn("realtime publish failed", "user_id", userID, "event", ev.Type, "error", err)
	}
}

func (s *NotificationService) List(ctx context.Context, userID int64, limit int) ([]notification.Notification, error) {
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *NotificationService) Recent(ctx context.Context, userID int64, limit int) ([]notification.Notification, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return s.repo.ListByUser(ctx, userID, limit)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.repo.UnreadCount(ctx, userID)
}

// MarkAsRead marks the notification read. Repeated calls succeed without
// re-publishing the update event.
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID int64) (*notification.Notification, error) {
	changed, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	updated, err := s.repo.GetByUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if changed {
		s.publish(ctx, userID, realtime.Event{
			Type:         realtime.EventNotificationUpdated,
			Notification: updated,
		})
	}
	return updated, nil
}

func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID int64) (int64, error) {
	return s.repo.MarkAllRead(ctx, userID)
}

func (s *NotificationService) Delete(ctx context.Context, id, userID int64) error {
	if err := s.repo.Delete(ctx, id, userID); err != nil {
		return err
	}
	s.publish(ctx, userID, realtime.Event{
		Type:           realtime.EventNotificationDeleted,
		NotificationID: id,
	})
	return nil
}

func (s *NotificationService) Stats(ctx context.Context, userID int64) (*notification.Stats, error) {
	total, err := s.repo.Count(ctx, userID)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}
	byType, err := s.repo.CountByType(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.repo.ListByUser(ctx, userID, 5)
	if err != nil {
		return nil, err
	}
	return &notification.Stats{Total: total, Unread: unread, ByType: byType, Recent: recent}, nil
}

func (s *NotificationService) GetSettings(ctx context.Context, userID int64) (*notification.Settings, error) {
	return s.settings.GetOrCreate(ctx, userID)
}

func (s *NotificationService) UpdateSettings(ctx context.Context, settings notification.Settings) (*notification.Settings, error) {
	// Ensure the row exists so the update never races first access.
	if _, err := s.settings.GetOrCreate(ctx, settings.UserID); err != nil {
		return nil, err
	}
	return s.settings.Update(ctx, settings)
}

// HandlePetitionCreated fans out to every provider whose profile matches the
// new petition. Fan-out failures are logged per provider, one broken profile
// never blocks the rest.
func (s *NotificationService) HandlePetitionCreated(ctx context.Context, e event.PetitionCreated) {
	providers, err := s.matching.ProvidersForPetition(ctx, e.Petition)
	if err != nil {
		s.logger.Error("matching providers for petition failed", "petition_id", e.Petition.ID, "error", err)
		return
	}
	for _, p := range providers {
		_, err := s.Notify(ctx, NotifyInput{
			UserID:     p.UserID,
			Title:      "New petition available",
			Message:    fmt.Sprintf("A new petition matching your profile was published: %s", e.Petition.Description),
			Type:       notification.TypePetitionCreated,
			PetitionID: &e.Petition.ID,
		})
		if err != nil {
			s.logger.Warn("petition created notification failed", "petition_id", e.Petition.ID, "provider_id", p.ID, "error", err)
		}
	}
}

// HandlePetitionClosed notifies the owning customer and every provider with a
// live postulation on the petition.
func (s *NotificationService) HandlePetitionClosed(ctx context.Context, e event.PetitionClosed) {
	if c, err := s.customers.GetByID(ctx, e.Petition.CustomerID); err != nil {
		s.logger.Warn("petition closed: customer lookup failed", "petition_id", e.Petition.ID, "error", err)
	} else {
		_, err := s.Notify(ctx, NotifyInput{
			UserID:     c.UserID,
			Title:      "Petition closed",
			Message:    fmt.Sprintf("Your petition %q is now closed", e.Petition.Description),
			Type:       notification.TypePetitionClosed,
			PetitionID: &e.Petition.ID,
		})
		if err != nil {
			s.logger.Warn("petition closed notification failed", "petition_id", e.Petition.ID, "user_id", c.UserID, "error", err)
		}
	}

	posts, err := s.postulations.ListByPetition(ctx, e.Petition.ID)
	if err != nil {
		s.logger.Warn("petition closed: postulation listing failed", "petition_id", e.Petition.ID, "error", err)
		return
	}
	for _, post := range posts {
		p, err := s.providers.GetByID(ctx, post.ProviderID)
		if err != nil {
			s.logger.Warn("petition closed: provider lookup failed", "provider_id", post.ProviderID, "error", err)
			continue
		}
		_, err = s.Notify(ctx, NotifyInput{
			UserID:        p.UserID,
			Title:         "Petition closed",
			Message:       fmt.Sprintf("The petition %q you applied to is now closed", e.Petition.Description),
			Type:          notification.TypePetitionClosed,
			PetitionID:    &e.Petition.ID,
			PostulationID: &post.ID,
		})
		if err != nil {
			s.logger.Warn("petition closed notification failed", "petition_id", e.Petition.ID, "user_id", p.UserID, "error", err)
		}
	}
}

// HandlePostulationCreated notifies the customer owning the petition.
func (s *NotificationService) HandlePostulationCreated(ctx context.Context, e event.PostulationCreated) {
	c, err := s.customers.GetByID(ctx, e.Petition.CustomerID)
	if err != nil {
		s.logger.Warn("postulation created: customer lookup failed", "petition_id", e.Petition.ID, "error", err)
		return
	}
	_, err = s.Notify(ctx, NotifyInput{
		UserID:        c.UserID,
		Title:         "New postulation received",
		Message:       fmt.Sprintf("A provider applied to your petition %q", e.Petition.Description),
		Type:          notification.TypePostulationCreated,
		PetitionID:    &e.Petition.ID,
		PostulationID: &e.Postulation.ID,
	})
	if err != nil {
		s.logger.Warn("postulation created notification failed", "postulation_id", e.Postulation.ID, "error", err)
	}
}

// HandlePostulationStateChanged notifies the provider, with dedicated
// titles and types for the accepted and rejected outcomes.
func (s *NotificationService) HandlePostulationStateChanged(ctx context.Context, e event.PostulationStateChanged) {
	p, err := s.providers.GetByID(ctx, e.Postulation.ProviderID)
	if err != nil {
		s.logger.Warn("postulation state changed: provider lookup failed", "provider_id", e.Postulation.ProviderID, "error", err)
		return
	}

	title := "Postulation updated"
	message := fmt.Sprintf("Your postulation on %q changed from %s to %s", e.Petition.Description, e.OldStatus, e.NewStatus)
	notifType := notification.TypePostulationStateChanged
	switch e.NewStatus {
	case postulation.StatusAccepted:
		title = "Postulation accepted"
		message = fmt.Sprintf("Your postulation on %q was accepted", e.Petition.Description)
		notifType = notification.TypePostulationAccepted
	case postulation.StatusRejected:
		title = "Postulation rejected"
		message = fmt.Sprintf("Your postulation on %q was rejected", e.Petition.Description)
		notifType = notification.TypePostulationRejected
	}

	_, err = s.Notify(ctx, NotifyInput{
		UserID:        p.UserID,
		Title:         title,
		Message:       message,
		Type:          notifType,
		PetitionID:    &e.Petition.ID,
		PostulationID: &e.Postulation.ID,
		Metadata: map[string]any{
			"old_status": string(e.OldStatus),
			"new_status": string(e.NewStatus),
		},
	})
	if err != nil {
		s.logger.Warn("postulation state notification failed", "postulation_id", e.Postulation.ID, "error", err)
	}
}

// HandlePostulationMarkedWinner notifies the provider their bid was selected.
func (s *NotificationService) HandlePostulationMarkedWinner(ctx context.Context, e event.PostulationMarkedWinner) {
	p, err := s.providers.GetByID(ctx, e.Postulation.ProviderID)
	if err != nil {
		s.logger.Warn("postulation winner: provider lookup failed", "provider_id", e.Postulation.ProviderID, "error", err)
		return
	}
	_, err = s.Notify(ctx, NotifyInput{
		UserID:        p.UserID,
		Title:         "Your postulation was selected",
		Message:       fmt.Sprintf("The customer selected your postulation for %q", e.Petition.Description),
		Type:          notification.TypePostulationAccepted,
		PetitionID:    &e.Petition.ID,
		PostulationID: &e.Postulation.ID,
		Metadata:      map[string]any{"is_winner": true},
	})
	if err != nil {
		s.logger.Warn("postulation winner notification failed", "postulation_id", e.Postulation.ID, "error", err)
	}
}
