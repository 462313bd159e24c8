package postgres

import (
	"context"
	"time"

	"github.com/dmehra2102/prod-golang-projects/carehub/internal/domain/notification"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	return conn(ctx, r.db).Create(n).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*notification.Notification, error) {
	var n notification.Notification
	if err := conn(ctx, r.db).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err, notification.ErrNotificationNotFound, nil)
	}
	return &n, nil
}

func (r *NotificationRepository) MarkRead(ctx context.Context, n *notification.Notification) error {
	return conn(ctx, r.db).Model(n).Updates(map[string]any{
		"is_read": n.IsRead,
		"read_at": n.ReadAt,
	}).Error
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	res := conn(ctx, r.db).Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]any{"is_read": true, "read_at": time.Now()})
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := conn(ctx, r.db).Delete(&notification.Notification{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notification.ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, q *notification.ListNotificationsQuery) (*notification.PagedNotifications, error) {
	db := conn(ctx, r.db).Model(&notification.Notification{}).Where("recipient_id = ?", q.RecipientID)
	if q.UnreadOnly {
		db = db.Where("is_read = ?", false)
	}
	return listPage[notification.Notification](db, q.PageRequest, "created_at DESC")
}

func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	var n int64
	err := conn(ctx, r.db).Model(&notification.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Count(&n).Error
	return n, err
}
