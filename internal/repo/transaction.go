package repo

import (
	"context"
	"time"

	"github.com/Skotchmaster/kasir/internal/models"
)

func (r *GormRepo) InsertTransaction(ctx context.Context, tx *models.Transaction) (uint, error) {
	if err := r.DB.WithContext(ctx).Create(tx).Error; err != nil {
		return 0, err
	}
	return tx.ID, nil
}

func (r *GormRepo) FindTransaction(ctx context.Context, id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&tx).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// ListRecentTransactions returns at most n transactions, newest first.
func (r *GormRepo) ListRecentTransactions(ctx context.Context, n int) ([]models.Transaction, error) {
	var items []models.Transaction
	if err := r.DB.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Limit(n).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	var items []models.Transaction
	if err := r.DB.WithContext(ctx).
		Order("timestamp DESC").
		Order("id DESC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) DeleteAllTransactions(ctx context.Context) error {
	return r.all(ctx).Delete(&models.Transaction{}).Error
}

// TransactionsBetween returns transactions with timestamp in [from, to), oldest first.
func (r *GormRepo) TransactionsBetween(ctx context.Context, from, to time.Time) ([]models.Transaction, error) {
	var items []models.Transaction
	if err := r.DB.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", from.UTC(), to.UTC()).
		Order("timestamp ASC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) RevenueBetween(ctx context.Context, from, to time.Time) (float64, int64, error) {
	var row struct {
		Total float64
		Count int64
	}
	if err := r.DB.WithContext(ctx).
		Model(&models.Transaction{}).
		Select("COALESCE(SUM(total), 0) AS total, COUNT(*) AS count").
		Where("timestamp >= ? AND timestamp < ?", from.UTC(), to.UTC()).
		Scan(&row).Error; err != nil {
		return 0, 0, err
	}
	return row.Total, row.Count, nil
}
