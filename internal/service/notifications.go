package service

import (
	"context"

	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/notify"
	"github.com/Skotchmaster/kasir/internal/repo"
)

type NotificationService struct {
	Repo     *repo.GormRepo
	Notifier *notify.Notifier
}

func (s *NotificationService) List(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	items, err := s.Repo.ListNotifications(ctx, unreadOnly)
	return items, storeErr("list notifications", err)
}

func (s *NotificationService) UnreadCount(ctx context.Context) (int64, error) {
	n, err := s.Repo.UnreadCount(ctx)
	return n, storeErr("unread count", err)
}

func (s *NotificationService) MarkRead(ctx context.Context, id uint) error {
	return storeErr("mark notification read", s.Repo.MarkRead(ctx, id))
}

func (s *NotificationService) MarkAllRead(ctx context.Context) error {
	return storeErr("mark all notifications read", s.Repo.MarkAllRead(ctx))
}

func (s *NotificationService) Delete(ctx context.Context, id uint) error {
	return storeErr("delete notification", s.Repo.DeleteNotification(ctx, id))
}

func (s *NotificationService) DeleteAll(ctx context.Context) error {
	return storeErr("delete notifications", s.Repo.DeleteAllNotifications(ctx))
}

// WeeklyReport records the trailing seven days of revenue as a notification.
func (s *NotificationService) WeeklyReport(ctx context.Context) (*models.Notification, error) {
	return s.Notifier.WeeklyReport(ctx)
}

// SweepLowStock runs the daily low-stock pass; it is a no-op when disabled
// or already done today.
func (s *NotificationService) SweepLowStock(ctx context.Context) ([]models.Notification, error) {
	return s.Notifier.SweepLowStock(ctx)
}
