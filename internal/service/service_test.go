package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/kasir/internal/config"
	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()
	ctx := context.Background()
	db, err := config.InitDB(ctx, config.DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, config.Migrate(ctx, db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return repo.New(db)
}

type published struct {
	Topic, Key string
	Event      any
}

type recorder struct {
	mu   sync.Mutex
	msgs []published
}

func (r *recorder) PublishEvent(_ context.Context, topic, key string, event any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, published{Topic: topic, Key: key, Event: event})
	return nil
}

func (r *recorder) topic(name string) []published {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []published
	for _, m := range r.msgs {
		if m.Topic == name {
			out = append(out, m)
		}
	}
	return out
}

type fakeIndex struct {
	mu      sync.Mutex
	indexed map[uint]models.Product
	deleted []uint
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{indexed: map[uint]models.Product{}}
}

func (f *fakeIndex) IndexProduct(_ context.Context, p models.Product) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.indexed[p.ID] = p
	return nil
}

func (f *fakeIndex) DeleteProduct(_ context.Context, id uint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.indexed, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, q string, from, size int) (int64, []models.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Product, 0, len(f.indexed))
	for _, p := range f.indexed {
		out = append(out, p)
	}
	return int64(len(out)), out, nil
}

func strPtr(s string) *string { return &s }
