package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/tavern-api/internal/domain/entity"
	"github.com/sangkips/tavern-api/internal/domain/repository"
	"github.com/sangkips/tavern-api/pkg/apperror"
	"github.com/sangkips/tavern-api/pkg/pagination"
	"github.com/sangkips/tavern-api/pkg/realtime"
	"go.uber.org/zap"
)

// NotificationService manages the admin inbox
type NotificationService struct {
	notificationRepo repository.NotificationRepository
	signals          Signals
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationRepo repository.NotificationRepository, signals Signals) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		signals:          signals,
	}
}

// Notify stores a notification for the admins. Failures are logged, never
// returned, so the write that triggered it is not affected.
func (s *NotificationService) Notify(ctx context.Context, kind, title, message string, resourceID *uuid.UUID) {
	notification := &entity.Notification{
		Type:       kind,
		Title:      title,
		Message:    message,
		ResourceID: resourceID,
	}
	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		zap.L().Warn("failed to store notification", zap.String("type", kind), zap.Error(err))
		return
	}
	s.signals.broadcast(realtime.NotificationsUpdated)
}

// NotificationList is a page of notifications with the unread count
type NotificationList struct {
	*pagination.PaginatedResult[entity.Notification]
	Unread int64 `json:"unread"`
}

// ListNotifications lists the inbox, optionally unread only
func (s *NotificationService) ListNotifications(ctx context.Context, unreadOnly bool, params *pagination.PaginationParams) (*NotificationList, error) {
	notifications, total, err := s.notificationRepo.List(ctx, unreadOnly, params)
	if err != nil {
		return nil, err
	}
	unread, err := s.notificationRepo.CountUnread(ctx)
	if err != nil {
		return nil, err
	}

	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return &NotificationList{
		PaginatedResult: pagination.NewPaginatedResult(notifications, pag),
		Unread:          unread,
	}, nil
}

// MarkRead marks one notification as read
func (s *NotificationService) MarkRead(ctx context.Context, id uuid.UUID) error {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return apperror.NewNotFoundError("Notification")
	}
	if err := s.notificationRepo.MarkRead(ctx, id); err != nil {
		return err
	}
	s.signals.broadcast(realtime.NotificationsUpdated)
	return nil
}

// MarkAllRead marks the whole inbox as read and returns how many changed
func (s *NotificationService) MarkAllRead(ctx context.Context) (int64, error) {
	updated, err := s.notificationRepo.MarkAllRead(ctx)
	if err != nil {
		return 0, err
	}
	if updated > 0 {
		s.signals.broadcast(realtime.NotificationsUpdated)
	}
	return updated, nil
}

// DeleteNotification removes a notification
func (s *NotificationService) DeleteNotification(ctx context.Context, id uuid.UUID) error {
	notification, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notification == nil {
		return apperror.NewNotFoundError("Notification")
	}
	if err := s.notificationRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.signals.broadcast(realtime.NotificationsUpdated)
	return nil
}
