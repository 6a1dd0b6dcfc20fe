package realtime

import (
	"context"
	"strconv"
)

const (
	EventNotificationCreated = "notification_created"
	EventNotificationUpdated = "notification_updated"
	EventNotificationDeleted = "notification_deleted"
)

// Event is the payload pushed to a user's notification group. The shape
// matches what connected clients already consume: the event type, the
// serialized notification (or just its id for deletions) and the unread count
// as stored at publish time.
type Event struct {
	Type           string `json:"type"`
	Notification   any    `json:"notification,omitempty"`
	NotificationID int64  `json:"notification_id,omitempty"`
	UnreadCount    int64  `json:"unread_count"`
}

// Channel delivers events to every live connection subscribed to a group.
// At-most-once: there is no redelivery for offline clients, the persisted
// notification row remains the source of truth.
type Channel interface {
	Publish(ctx context.Context, group string, event Event) error
}

// Group returns the per-user logical group name.
func Group(userID int64) string {
	return "notifications_" + strconv.FormatInt(userID, 10)
}
