package notification

import "context"

type Repository interface {
	Create(ctx context.Context, n Notification) (*Notification, error)
	GetByUser(ctx context.Context, id, userID int64) (*Notification, error)
	ListByUser(ctx context.Context, userID int64, limit int) ([]Notification, error)
	UnreadCount(ctx context.Context, userID int64) (int64, error)
	// MarkRead sets is_read and stamps read_at once. It reports whether the
	// call actually transitioned the row.
	MarkRead(ctx context.Context, id, userID int64) (changed bool, err error)
	MarkAllRead(ctx context.Context, userID int64) (updated int64, err error)
	// Delete removes the row permanently. Notifications are the one entity
	// that is hard-deleted.
	Delete(ctx context.Context, id, userID int64) error
	CountByType(ctx context.Context, userID int64) (map[Type]int64, error)
	Count(ctx context.Context, userID int64) (int64, error)
}

type SettingsRepository interface {
	// GetOrCreate returns the user's settings, inserting the all-enabled
	// defaults on first access.
	GetOrCreate(ctx context.Context, userID int64) (*Settings, error)
	Update(ctx context.Context, s Settings) (*Settings, error)
}
