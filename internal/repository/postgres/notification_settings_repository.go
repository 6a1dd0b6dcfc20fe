package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/notification"
)

type NotificationSettingsRepository struct {
	db *sql.DB
}

func NewNotificationSettingsRepository(db *sql.DB) *NotificationSettingsRepository {
	return &NotificationSettingsRepository{db: db}
}

const settingsColumns = `id_user, petition_created, petition_closed, postulation_created, postulation_state_changed, postulation_accepted, postulation_rejected, email_notifications, push_notifications, created_at, updated_at`

func (r *NotificationSettingsRepository) GetOrCreate(ctx context.Context, userID int64) (*notification.Settings, error) {
	// Upsert keeps the lazy create race-free: two concurrent first reads
	// both land on the same all-enabled row.
	row := r.db.QueryRowContext(ctx, `INSERT INTO n_notification_settings (id_user)
		VALUES ($1)
		ON CONFLICT (id_user) DO UPDATE SET id_user = EXCLUDED.id_user
		RETURNING `+settingsColumns, userID)
	return scanSettings(row)
}

func (r *NotificationSettingsRepository) Update(ctx context.Context, s notification.Settings) (*notification.Settings, error) {
	row := r.db.QueryRowContext(ctx, `UPDATE n_notification_settings SET
		petition_created = $1,
		petition_closed = $2,
		postulation_created = $3,
		postulation_state_changed = $4,
		postulation_accepted = $5,
		postulation_rejected = $6,
		email_notifications = $7,
		push_notifications = $8,
		updated_at = $9
		WHERE id_user = $10
		RETURNING `+settingsColumns,
		s.PetitionCreated, s.PetitionClosed, s.PostulationCreated, s.PostulationStateChanged,
		s.PostulationAccepted, s.PostulationRejected, s.EmailNotifications, s.PushNotifications,
		time.Now().UTC(), s.UserID)
	return scanSettings(row)
}

func scanSettings(row rowScanner) (*notification.Settings, error) {
	var s notification.Settings
	if err := row.Scan(&s.UserID, &s.PetitionCreated, &s.PetitionClosed, &s.PostulationCreated,
		&s.PostulationStateChanged, &s.PostulationAccepted, &s.PostulationRejected,
		&s.EmailNotifications, &s.PushNotifications, &s.CreatedAt, &s.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "notification settings not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load notification settings", err)
	}
	return &s, nil
}
