package handlers

import (
	"net/http"

	"github.com/nahuelmendez6/int-com-back/internal/app"
	"github.com/nahuelmendez6/int-com-back/internal/domain/notification"
	"github.com/nahuelmendez6/int-com-back/internal/http/middleware"
	"github.com/nahuelmendez6/int-com-back/internal/http/response"
)

type NotificationHandler struct {
	notifications *app.NotificationService
}

func NewNotificationHandler(notifications *app.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

type settingsRequest struct {
	PetitionCreated         bool `json:"petition_created"`
	PetitionClosed          bool `json:"petition_closed"`
	PostulationCreated      bool `json:"postulation_created"`
	PostulationStateChanged bool `json:"postulation_state_changed"`
	PostulationAccepted     bool `json:"postulation_accepted"`
	PostulationRejected     bool `json:"postulation_rejected"`
	EmailNotifications      bool `json:"email_notifications"`
	PushNotifications       bool `json:"push_notifications"`
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.notifications.List(r.Context(), identity.UserID, queryInt(r, "limit", 50))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) Recent(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	items, err := h.notifications.Recent(r.Context(), identity.UserID, queryInt(r, "limit", 0))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, items)
}

func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	count, err := h.notifications.UnreadCount(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int64{"unread_count": count})
}

func (h *NotificationHandler) Stats(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	stats, err := h.notifications.Stats(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, stats)
}

func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	notificationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.notifications.MarkAsRead(r.Context(), notificationID, identity.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	updated, err := h.notifications.MarkAllAsRead(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, map[string]int64{"updated": updated})
}

func (h *NotificationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	notificationID, err := idFromPath(r, 1)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.notifications.Delete(r.Context(), notificationID, identity.UserID); err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusNoContent, nil)
}

func (h *NotificationHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	settings, err := h.notifications.GetSettings(r.Context(), identity.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, settings)
}

func (h *NotificationHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		response.Error(w, errUnauthorized())
		return
	}
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.notifications.UpdateSettings(r.Context(), notification.Settings{
		UserID:                  identity.UserID,
		PetitionCreated:         req.PetitionCreated,
		PetitionClosed:          req.PetitionClosed,
		PostulationCreated:      req.PostulationCreated,
		PostulationStateChanged: req.PostulationStateChanged,
		PostulationAccepted:     req.PostulationAccepted,
		PostulationRejected:     req.PostulationRejected,
		EmailNotifications:      req.EmailNotifications,
		PushNotifications:       req.PushNotifications,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
