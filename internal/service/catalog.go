package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/mykafka"
	"github.com/Skotchmaster/kasir/internal/notify"
	"github.com/Skotchmaster/kasir/internal/repo"
	"github.com/Skotchmaster/kasir/internal/service/search"
)

const minSearchLen = 2

type CatalogService struct {
	Repo      *repo.GormRepo
	Index     search.Index
	Producer  mykafka.Publisher
	Notifier  *notify.Notifier
	Threshold int
}

type productEvent struct {
	Type      string  `json:"type"`
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name,omitempty"`
	Price     float64 `json:"price,omitempty"`
	Stock     int     `json:"stock"`
	Time      int64   `json:"ts"`
}

func (s *CatalogService) publish(ctx context.Context, typ string, p *models.Product) {
	if s.Producer == nil {
		return
	}
	l := logging.FromContext(ctx).With("svc", "catalog")
	ev := productEvent{
		Type:      typ,
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Stock:     p.Stock,
		Time:      time.Now().Unix(),
	}
	if err := s.Producer.PublishEvent(ctx, mykafka.TopicProductEvents, strconv.FormatUint(uint64(p.ID), 10), ev); err != nil {
		l.Warn("product_publish_error", "type", typ, "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) index(ctx context.Context, p *models.Product) {
	if s.Index == nil {
		return
	}
	if err := s.Index.IndexProduct(ctx, *p); err != nil {
		logging.FromContext(ctx).Warn("product_index_error", "product_id", p.ID, "error", err)
	}
}

func (s *CatalogService) checkLowStock(ctx context.Context, products ...models.Product) {
	if s.Notifier == nil {
		return
	}
	if _, err := s.Notifier.CheckLowStock(ctx, products...); err != nil {
		logging.FromContext(ctx).Warn("low_stock_check_error", "error", err)
	}
}

// normalize trims text fields and turns blank optional fields into NULL.
func normalize(p *models.Product) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.TrimSpace(p.Category)
	p.Barcode = blankToNil(p.Barcode)
	p.Image = blankToNil(p.Image)
	p.Description = blankToNil(p.Description)

	switch {
	case p.Name == "":
		return validation("name is required")
	case p.Price < 0 || math.IsNaN(p.Price) || math.IsInf(p.Price, 0):
		return validation("price must be a non-negative number")
	case p.Stock < 0:
		return validation("stock cannot be negative")
	}
	return nil
}

func blankToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func (s *CatalogService) ensureBarcodeFree(ctx context.Context, p *models.Product) error {
	if p.Barcode == nil {
		return nil
	}
	other, err := s.Repo.FindProductByBarcode(ctx, *p.Barcode)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	if err != nil {
		return storeErr("check barcode", err)
	}
	if other.ID != p.ID {
		return fmt.Errorf("%w: barcode %s already belongs to %s", ErrConflict, *p.Barcode, other.Name)
	}
	return nil
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.FindProduct(ctx, id)
	return p, storeErr("get product", err)
}

func (s *CatalogService) FindByBarcode(ctx context.Context, code string) (*models.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, validation("barcode is required")
	}
	p, err := s.Repo.FindProductByBarcode(ctx, code)
	return p, storeErr("find by barcode", err)
}

func (s *CatalogService) ListProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	total, items, err := s.Repo.ListProducts(ctx, offset, limit)
	return total, items, storeErr("list products", err)
}

// SearchProducts returns nothing for queries shorter than two characters.
func (s *CatalogService) SearchProducts(ctx context.Context, q string) ([]models.Product, error) {
	q = strings.TrimSpace(q)
	if len([]rune(q)) < minSearchLen {
		return []models.Product{}, nil
	}
	items, err := s.Repo.SearchProducts(ctx, q)
	return items, storeErr("search products", err)
}

func (s *CatalogService) FullTextSearch(ctx context.Context, q string, from, size int) (int64, []models.Product, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return 0, nil, validation("query is required")
	}
	if s.Index == nil {
		return 0, nil, search.ErrDisabled
	}
	return s.Index.Search(ctx, q, from, size)
}

func (s *CatalogService) LowStock(ctx context.Context) ([]models.Product, error) {
	items, err := s.Repo.LowStockProducts(ctx, s.Threshold)
	return items, storeErr("low stock products", err)
}

func (s *CatalogService) CreateProduct(ctx context.Context, p *models.Product) error {
	p.ID = 0
	p.LowStockNotified = false
	if err := normalize(p); err != nil {
		return err
	}
	if err := s.ensureBarcodeFree(ctx, p); err != nil {
		return err
	}
	if err := s.Repo.CreateProduct(ctx, p); err != nil {
		return storeErr("create product", err)
	}

	s.index(ctx, p)
	s.publish(ctx, "product_created", p)
	if s.Notifier != nil {
		if _, err := s.Notifier.ProductAdded(ctx, p); err != nil {
			logging.FromContext(ctx).Warn("product_added_notify_error", "product_id", p.ID, "error", err)
		}
	}
	s.checkLowStock(ctx, *p)
	return nil
}

// UpdateProduct replaces the editable fields of product id with those of req.
func (s *CatalogService) UpdateProduct(ctx context.Context, id uint, req models.Product) (*models.Product, error) {
	cur, err := s.Repo.FindProduct(ctx, id)
	if err != nil {
		return nil, storeErr("update product", err)
	}

	req.ID = id
	req.LowStockNotified = cur.LowStockNotified
	if err := normalize(&req); err != nil {
		return nil, err
	}
	if err := s.ensureBarcodeFree(ctx, &req); err != nil {
		return nil, err
	}
	if err := s.Repo.SaveProduct(ctx, &req); err != nil {
		return nil, storeErr("update product", err)
	}

	s.index(ctx, &req)
	s.publish(ctx, "product_updated", &req)
	s.checkLowStock(ctx, req)
	return &req, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	if err := s.Repo.DeleteProduct(ctx, id); err != nil {
		return storeErr("delete product", err)
	}
	if s.Index != nil {
		if err := s.Index.DeleteProduct(ctx, id); err != nil {
			logging.FromContext(ctx).Warn("product_unindex_error", "product_id", id, "error", err)
		}
	}
	s.publish(ctx, "product_deleted", &models.Product{ID: id})
	return nil
}

// ImportProducts validates every product first and stores them in one
// transaction. Products with an id replace the stored row.
func (s *CatalogService) ImportProducts(ctx context.Context, products []models.Product) (int, error) {
	if len(products) == 0 {
		return 0, validation("nothing to import")
	}
	seen := make(map[string]int, len(products))
	for i := range products {
		if err := normalize(&products[i]); err != nil {
			return 0, fmt.Errorf("product %d: %w", i+1, err)
		}
		if b := products[i].Barcode; b != nil {
			if j, dup := seen[*b]; dup {
				return 0, validation("products %d and %d share barcode %s", j+1, i+1, *b)
			}
			seen[*b] = i
		}
	}

	if err := s.Repo.InsertProducts(ctx, products); err != nil {
		return 0, storeErr("import products", err)
	}
	for i := range products {
		s.index(ctx, &products[i])
		s.publish(ctx, "product_imported", &products[i])
	}
	return len(products), nil
}
