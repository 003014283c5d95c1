package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/Skotchmaster/kasir/internal/logging"
	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/repo"
)

const DefaultStoreName = "MiniKasir"

type StoreProfile struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type NotificationPrefs struct {
	LowStockDaily bool `json:"low_stock_daily"`
}

// ResetScope selects what Reset deletes.
type ResetScope string

const (
	ResetProducts     ResetScope = "products"
	ResetTransactions ResetScope = "transactions"
	ResetAll          ResetScope = "all"
)

type SettingsService struct {
	Repo *repo.GormRepo
}

func loadStoreProfile(ctx context.Context, r *repo.GormRepo) (StoreProfile, error) {
	vals, err := r.GetSettings(ctx, models.SettingStoreName, models.SettingStoreAddress, models.SettingStorePhone)
	if err != nil {
		return StoreProfile{}, storeErr("load store profile", err)
	}
	p := StoreProfile{
		Name:    vals[models.SettingStoreName],
		Address: vals[models.SettingStoreAddress],
		Phone:   vals[models.SettingStorePhone],
	}
	if p.Name == "" {
		p.Name = DefaultStoreName
	}
	return p, nil
}

func (s *SettingsService) StoreProfile(ctx context.Context) (StoreProfile, error) {
	return loadStoreProfile(ctx, s.Repo)
}

func (s *SettingsService) SaveStoreProfile(ctx context.Context, p StoreProfile) (StoreProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Address = strings.TrimSpace(p.Address)
	p.Phone = strings.TrimSpace(p.Phone)
	if p.Name == "" {
		return StoreProfile{}, validation("store name is required")
	}
	err := s.Repo.PutSettings(ctx, map[string]string{
		models.SettingStoreName:    p.Name,
		models.SettingStoreAddress: p.Address,
		models.SettingStorePhone:   p.Phone,
	})
	if err != nil {
		return StoreProfile{}, storeErr("save store profile", err)
	}
	return p, nil
}

func (s *SettingsService) NotificationPrefs(ctx context.Context) (NotificationPrefs, error) {
	vals, err := s.Repo.GetSettings(ctx, models.SettingLowStockDaily)
	if err != nil {
		return NotificationPrefs{}, storeErr("load notification prefs", err)
	}
	daily, _ := strconv.ParseBool(vals[models.SettingLowStockDaily])
	return NotificationPrefs{LowStockDaily: daily}, nil
}

func (s *SettingsService) SaveNotificationPrefs(ctx context.Context, p NotificationPrefs) error {
	err := s.Repo.PutSettings(ctx, map[string]string{
		models.SettingLowStockDaily: strconv.FormatBool(p.LowStockDaily),
	})
	return storeErr("save notification prefs", err)
}

// Reset deletes register data. ResetAll also drops notifications but keeps
// users and settings.
func (s *SettingsService) Reset(ctx context.Context, scope ResetScope) error {
	l := logging.FromContext(ctx).With("svc", "settings.reset", "scope", string(scope))

	var err error
	switch scope {
	case ResetProducts:
		err = s.Repo.DeleteAllProducts(ctx)
	case ResetTransactions:
		err = s.Repo.DeleteAllTransactions(ctx)
	case ResetAll:
		err = s.Repo.Transaction(ctx, func(tx *repo.GormRepo) error {
			if err := tx.DeleteAllTransactions(ctx); err != nil {
				return err
			}
			if err := tx.DeleteAllProducts(ctx); err != nil {
				return err
			}
			return tx.DeleteAllNotifications(ctx)
		})
	default:
		return validation("unknown reset scope %q", scope)
	}
	if err != nil {
		l.Error("reset_error", "error", err)
		return storeErr("reset "+string(scope), err)
	}
	l.Info("reset_done")
	return nil
}
