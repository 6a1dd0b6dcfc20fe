package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/notification"
)

type NotificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

const notificationColumns = `id, id_user, title, message, notification_type, is_read, read_at, related_petition_id, related_postulation_id, metadata, created_at`

func (r *NotificationRepository) Create(ctx context.Context, n notification.Notification) (*notification.Notification, error) {
	if n.Metadata == nil {
		n.Metadata = map[string]any{}
	}
	metadata, err := json.Marshal(n.Metadata)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to encode notification metadata", err)
	}
	n.CreatedAt = time.Now().UTC()
	err = r.db.QueryRowContext(ctx, `INSERT INTO n_notification
		(id_user, title, message, notification_type, is_read, related_petition_id, related_postulation_id, metadata, created_at)
		VALUES ($1, $2, $3, $4, FALSE, $5, $6, $7, $8)
		RETURNING id`,
		n.UserID, n.Title, n.Message, n.Type, n.RelatedPetitionID, n.RelatedPostulationID, metadata, n.CreatedAt).Scan(&n.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create notification", err)
	}
	return &n, nil
}

func (r *NotificationRepository) GetByUser(ctx context.Context, id, userID int64) (*notification.Notification, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+notificationColumns+` FROM n_notification WHERE id = $1 AND id_user = $2`, id, userID)
	return scanNotification(row)
}

func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit int) ([]notification.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+notificationColumns+` FROM n_notification
		WHERE id_user = $1 ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notifications", err)
	}
	defer rows.Close()
	var items []notification.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list notifications", err)
	}
	return items, nil
}

func (r *NotificationRepository) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM n_notification WHERE id_user = $1 AND NOT is_read`, userID).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count unread notifications", err)
	}
	return count, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID int64) (bool, error) {
	// read_at is stamped only on the first transition; a second call matches
	// zero rows and the caller treats it as the idempotent no-op.
	result, err := r.db.ExecContext(ctx, `UPDATE n_notification SET is_read = TRUE, read_at = $1
		WHERE id = $2 AND id_user = $3 AND NOT is_read`, time.Now().UTC(), id, userID)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to mark notification read", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to mark notification read", err)
	}
	if affected > 0 {
		return true, nil
	}
	// Distinguish "already read" from "not yours / absent".
	var exists bool
	err = r.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM n_notification WHERE id = $1 AND id_user = $2)`, id, userID).Scan(&exists)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to check notification", err)
	}
	if !exists {
		return false, common.NewError(common.CodeNotFound, "notification not found", nil)
	}
	return false, nil
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, `UPDATE n_notification SET is_read = TRUE, read_at = $1
		WHERE id_user = $2 AND NOT is_read`, time.Now().UTC(), userID)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to mark notifications read", err)
	}
	updated, err := result.RowsAffected()
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to mark notifications read", err)
	}
	return updated, nil
}

func (r *NotificationRepository) Delete(ctx context.Context, id, userID int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM n_notification WHERE id = $1 AND id_user = $2`, id, userID)
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete notification", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to delete notification", err)
	}
	if affected == 0 {
		return common.NewError(common.CodeNotFound, "notification not found", nil)
	}
	return nil
}

func (r *NotificationRepository) CountByType(ctx context.Context, userID int64) (map[notification.Type]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT notification_type, COUNT(*) FROM n_notification
		WHERE id_user = $1 GROUP BY notification_type`, userID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count notifications by type", err)
	}
	defer rows.Close()
	result := make(map[notification.Type]int64)
	for rows.Next() {
		var t notification.Type
		var count int64
		if err := rows.Scan(&t, &count); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan notification count", err)
		}
		result[t] = count
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to count notifications by type", err)
	}
	return result, nil
}

func (r *NotificationRepository) Count(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM n_notification WHERE id_user = $1`, userID).Scan(&count)
	if err != nil {
		return 0, common.NewError(common.CodeInternal, "failed to count notifications", err)
	}
	return count, nil
}

func scanNotification(row rowScanner) (*notification.Notification, error) {
	var n notification.Notification
	var readAt sql.NullTime
	var petitionID, postulationID sql.NullInt64
	var metadata []byte
	if err := row.Scan(&n.ID, &n.UserID, &n.Title, &n.Message, &n.Type, &n.IsRead, &readAt, &petitionID, &postulationID, &metadata, &n.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "notification not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load notification", err)
	}
	if readAt.Valid {
		t := readAt.Time
		n.ReadAt = &t
	}
	n.RelatedPetitionID = nullableID(petitionID)
	n.RelatedPostulationID = nullableID(postulationID)
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &n.Metadata); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to decode notification metadata", err)
		}
	}
	return &n, nil
}
