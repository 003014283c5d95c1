package service

import (
	"context"
	"sort"
	"time"

	"github.com/Skotchmaster/kasir/internal/models"
	"github.com/Skotchmaster/kasir/internal/repo"
)

const (
	dashboardBestSellers = 5
	dashboardRecent      = 5
)

type ReportService struct {
	Repo      *repo.GormRepo
	Threshold int
	Now       func() time.Time
	Location  *time.Location
}

type BestSeller struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	Revenue   float64 `json:"revenue"`
}

type Dashboard struct {
	Greeting          string               `json:"greeting"`
	TotalProducts     int64                `json:"total_products"`
	TodayTransactions int64                `json:"today_transactions"`
	TodayRevenue      float64              `json:"today_revenue"`
	LowStock          int64                `json:"low_stock"`
	BestSellers       []BestSeller         `json:"best_sellers"`
	Recent            []models.Transaction `json:"recent"`
}

type DailyRevenue struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

type RevenueReport struct {
	From    time.Time      `json:"from"`
	To      time.Time      `json:"to"`
	Total   float64        `json:"total"`
	Count   int            `json:"count"`
	Average float64        `json:"average"`
	Days    []DailyRevenue `json:"days"`
}

func (s *ReportService) now() time.Time {
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	loc := s.Location
	if loc == nil {
		loc = time.Local
	}
	return now().In(loc)
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func greeting(hour int) string {
	switch {
	case hour <= 10:
		return "Selamat Pagi"
	case hour <= 14:
		return "Selamat Siang"
	case hour <= 17:
		return "Selamat Sore"
	default:
		return "Selamat Malam"
	}
}

func (s *ReportService) Dashboard(ctx context.Context) (*Dashboard, error) {
	now := s.now()
	from := startOfDay(now)
	to := from.AddDate(0, 0, 1)

	profile, err := loadStoreProfile(ctx, s.Repo)
	if err != nil {
		return nil, err
	}
	products, err := s.Repo.CountProducts(ctx)
	if err != nil {
		return nil, storeErr("dashboard products", err)
	}
	revenue, count, err := s.Repo.RevenueBetween(ctx, from, to)
	if err != nil {
		return nil, storeErr("dashboard revenue", err)
	}
	low, err := s.Repo.CountLowStock(ctx, s.Threshold)
	if err != nil {
		return nil, storeErr("dashboard low stock", err)
	}
	all, err := s.Repo.ListTransactions(ctx)
	if err != nil {
		return nil, storeErr("dashboard best sellers", err)
	}
	recent, err := s.Repo.ListRecentTransactions(ctx, dashboardRecent)
	if err != nil {
		return nil, storeErr("dashboard recent", err)
	}

	return &Dashboard{
		Greeting:          greeting(now.Hour()) + ", " + profile.Name,
		TotalProducts:     products,
		TodayTransactions: count,
		TodayRevenue:      revenue,
		LowStock:          low,
		BestSellers:       rankBestSellers(all, dashboardBestSellers),
		Recent:            recent,
	}, nil
}

// Revenue summarizes transactions in [from, to) per local calendar day.
func (s *ReportService) Revenue(ctx context.Context, from, to time.Time) (*RevenueReport, error) {
	if !from.Before(to) {
		return nil, validation("from must be before to")
	}
	txs, err := s.Repo.TransactionsBetween(ctx, from, to)
	if err != nil {
		return nil, storeErr("revenue report", err)
	}

	loc := s.now().Location()
	rep := &RevenueReport{From: from, To: to, Days: []DailyRevenue{}}
	byDay := map[string]int{}
	for _, tx := range txs {
		rep.Total += tx.Total
		rep.Count++

		day := tx.Timestamp.In(loc).Format(time.DateOnly)
		i, ok := byDay[day]
		if !ok {
			i = len(rep.Days)
			byDay[day] = i
			rep.Days = append(rep.Days, DailyRevenue{Date: day})
		}
		rep.Days[i].Total += tx.Total
		rep.Days[i].Count++
	}
	if rep.Count > 0 {
		rep.Average = rep.Total / float64(rep.Count)
	}
	return rep, nil
}

// BestSellers ranks products sold in [from, to); zero times mean no bound.
func (s *ReportService) BestSellers(ctx context.Context, from, to time.Time, n int) ([]BestSeller, error) {
	var (
		txs []models.Transaction
		err error
	)
	if from.IsZero() && to.IsZero() {
		txs, err = s.Repo.ListTransactions(ctx)
	} else {
		if to.IsZero() {
			to = s.now().AddDate(100, 0, 0)
		}
		txs, err = s.Repo.TransactionsBetween(ctx, from, to)
	}
	if err != nil {
		return nil, storeErr("best sellers", err)
	}
	return rankBestSellers(txs, n), nil
}

// rankBestSellers orders by quantity sold, then revenue, then name.
func rankBestSellers(txs []models.Transaction, n int) []BestSeller {
	idx := map[uint]int{}
	out := []BestSeller{}
	for _, tx := range txs {
		for _, it := range tx.Items {
			i, ok := idx[it.ProductID]
			if !ok {
				i = len(out)
				idx[it.ProductID] = i
				out = append(out, BestSeller{ProductID: it.ProductID, Name: it.Name})
			}
			out[i].Quantity += it.Quantity
			out[i].Revenue += it.Subtotal
		}
	}

	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Quantity != out[b].Quantity {
			return out[a].Quantity > out[b].Quantity
		}
		if out[a].Revenue != out[b].Revenue {
			return out[a].Revenue > out[b].Revenue
		}
		return out[a].Name < out[b].Name
	})
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
