package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kasir/internal/models"
)

func (r *GormRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	return r.DB.WithContext(ctx).Create(n).Error
}

func (r *GormRepo) ListNotifications(ctx context.Context, unreadOnly bool) ([]models.Notification, error) {
	q := r.DB.WithContext(ctx).Model(&models.Notification{})
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var items []models.Notification
	if err := q.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) UnreadCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Notification{}).Where("is_read = ?", false).Count(&n).Error
	return n, err
}

func (r *GormRepo) MarkRead(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Model(&models.Notification{}).Where("id = ?", id).Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) MarkAllRead(ctx context.Context) error {
	return r.all(ctx).Model(&models.Notification{}).Update("is_read", true).Error
}

func (r *GormRepo) DeleteNotification(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Notification{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteAllNotifications(ctx context.Context) error {
	return r.all(ctx).Delete(&models.Notification{}).Error
}

// HasLowStockNotification reports whether a low-stock notification for the
// product was recorded in [from, to).
func (r *GormRepo) HasLowStockNotification(ctx context.Context, productID uint, from, to time.Time) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).
		Model(&models.Notification{}).
		Where("kind = ? AND product_id = ? AND created_at >= ? AND created_at < ?",
			models.KindLowStock, productID, from.UTC(), to.UTC()).
		Count(&n).Error
	return n > 0, err
}
