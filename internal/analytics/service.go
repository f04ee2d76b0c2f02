package analytics

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bazaarbuddy/bazaarbuddy-backend/pkg/enums"
	pkgerrors "github.com/bazaarbuddy/bazaarbuddy-backend/pkg/errors"
)

const (
	defaultPeriodDays = 30
	maxPeriodDays     = 365
	topProductsLimit  = 10
	dayFormat         = "2006-01-02"
)

// ServiceParams groups dependencies for the analytics service.
type ServiceParams struct {
	Repo *Repository
	Now  func() time.Time
}

// Service exposes the supplier analytics report.
type Service interface {
	Report(ctx context.Context, supplierID uuid.UUID, periodDays int) (Report, error)
}

type service struct {
	repo *Repository
	now  func() time.Time
}

// NewService builds an analytics service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "analytics repo is required")
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &service{repo: params.Repo, now: params.Now}, nil
}

// Report derives the supplier dashboard for the period. Cancelled
// orders count toward volume but never toward revenue.
func (s *service) Report(ctx context.Context, supplierID uuid.UUID, periodDays int) (Report, error) {
	if periodDays <= 0 {
		periodDays = defaultPeriodDays
	}
	if periodDays > maxPeriodDays {
		periodDays = maxPeriodDays
	}
	since := s.now().AddDate(0, 0, -periodDays)

	facts, err := s.repo.OrdersSince(ctx, supplierID, since)
	if err != nil {
		return Report{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order facts")
	}
	topProducts, err := s.repo.TopProducts(ctx, supplierID, since, topProductsLimit)
	if err != nil {
		return Report{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load top products")
	}
	if topProducts == nil {
		topProducts = []TopProduct{}
	}

	report := Report{
		PeriodDays:     periodDays,
		Overview:       deriveOverview(facts),
		OrdersByStatus: deriveStatusCounts(facts),
		TopProducts:    topProducts,
		DailySales:     deriveDailySales(facts),
	}
	return report, nil
}

func deriveOverview(facts []OrderFact) Overview {
	overview := Overview{TotalOrders: int64(len(facts))}
	var billed int64
	for _, fact := range facts {
		if fact.Status == enums.OrderStatusCancelled {
			continue
		}
		overview.TotalRevenue += fact.Total
		billed++
	}
	if billed > 0 {
		avg := decimal.NewFromFloat(overview.TotalRevenue).
			Div(decimal.NewFromInt(billed)).
			Round(2)
		overview.AvgOrderValue, _ = avg.Float64()
	}
	overview.TotalRevenue, _ = decimal.NewFromFloat(overview.TotalRevenue).Round(2).Float64()
	return overview
}

func deriveStatusCounts(facts []OrderFact) []StatusCount {
	counts := map[enums.OrderStatus]int64{}
	for _, fact := range facts {
		counts[fact.Status]++
	}
	out := make([]StatusCount, 0, len(counts))
	for status, count := range counts {
		out = append(out, StatusCount{Status: status, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Status < out[j].Status })
	return out
}

func deriveDailySales(facts []OrderFact) []DailySale {
	byDay := map[string]*DailySale{}
	for _, fact := range facts {
		day := fact.OrderDate.Format(dayFormat)
		entry, ok := byDay[day]
		if !ok {
			entry = &DailySale{Date: day}
			byDay[day] = entry
		}
		entry.Orders++
		if fact.Status != enums.OrderStatusCancelled {
			entry.Revenue += fact.Total
		}
	}
	out := make([]DailySale, 0, len(byDay))
	for _, entry := range byDay {
		entry.Revenue, _ = decimal.NewFromFloat(entry.Revenue).Round(2).Float64()
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
