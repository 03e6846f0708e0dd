package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	domainRepo "github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"gorm.io/gorm"
)

type notificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *gorm.DB) domainRepo.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	return conn(ctx, r.db).Create(notification).Error
}

func (r *notificationRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Notification, error) {
	var notification entity.Notification
	err := conn(ctx, r.db).First(&notification, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &notification, err
}

func (r *notificationRepository) List(ctx context.Context, unreadOnly bool, params *pagination.PaginationParams) ([]entity.Notification, int64, error) {
	var notifications []entity.Notification
	var total int64

	query := conn(ctx, r.db).Model(&entity.Notification{})
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Order("created_at DESC").
		Find(&notifications).Error

	return notifications, total, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Model(&entity.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", time.Now()).Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context) (int64, error) {
	result := conn(ctx, r.db).Model(&entity.Notification{}).
		Where("read_at IS NULL").
		Update("read_at", time.Now())
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return conn(ctx, r.db).Delete(&entity.Notification{}, "id = ?", id).Error
}

func (r *notificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := conn(ctx, r.db).Model(&entity.Notification{}).
		Where("read_at IS NULL").
		Count(&count).Error
	return count, err
}
