package repo

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kasir/internal/models"
)

func (r *GormRepo) FindProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) FindProductByBarcode(ctx context.Context, code string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).Where("barcode = ?", code).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// SearchProducts matches the query as a case-insensitive substring of name or category.
func (r *GormRepo) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	pattern := "%" + escapeLike(strings.ToLower(q)) + "%"

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Where(`LOWER(name) LIKE ? ESCAPE '\' OR LOWER(category) LIKE ? ESCAPE '\'`, pattern, pattern).
		Order("name ASC").
		Order("id ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DecrementStock subtracts quantity only while enough stock remains and reports
// the number of rows it touched: 1 on success, 0 when stock was insufficient
// or the product does not exist.
func (r *GormRepo) DecrementStock(ctx context.Context, id uint, quantity int) (int64, error) {
	if quantity <= 0 {
		return 0, fmt.Errorf("decrement stock: quantity must be positive, got %d", quantity)
	}
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ? AND stock >= ?", id, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) SaveProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Save(prod).Error
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) DeleteAllProducts(ctx context.Context) error {
	return r.all(ctx).Delete(&models.Product{}).Error
}

func (r *GormRepo) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	var total int64
	if err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Order("name ASC").
		Order("id ASC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CountProducts(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error
	return total, err
}

func (r *GormRepo) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	var items []models.Product
	if err := r.DB.WithContext(ctx).
		Where("stock <= ?", threshold).
		Order("stock ASC").
		Order("name ASC").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// InsertProducts stores every product, replacing rows that share an id.
func (r *GormRepo) InsertProducts(ctx context.Context, products []models.Product) error {
	return r.Transaction(ctx, func(tx *GormRepo) error {
		for i := range products {
			if err := tx.DB.Save(&products[i]).Error; err != nil {
				return fmt.Errorf("import product %q: %w", products[i].Name, err)
			}
		}
		return nil
	})
}

func (r *GormRepo) SetLowStockNotified(ctx context.Context, id uint, notified bool) error {
	return r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", id).
		Update("low_stock_notified", notified).Error
}

// ResetLowStockFlags clears the notified flag of products restocked above threshold.
func (r *GormRepo) ResetLowStockFlags(ctx context.Context, threshold int) (int64, error) {
	res := r.DB.WithContext(ctx).
		Model(&models.Product{}).
		Where("low_stock_notified = ? AND stock > ?", true, threshold).
		Update("low_stock_notified", false)
	return res.RowsAffected, res.Error
}

func (r *GormRepo) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&models.Product{}).Where("stock <= ?", threshold).Count(&n).Error
	return n, err
}
