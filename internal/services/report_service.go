package services

import (
	"context"
	"strings"
	"time"

	"resto/internal/models"
	"resto/internal/repositories"
)

const popularItemsLimit = 10

// ReportQuery holds optional YYYY-MM-DD bounds, both inclusive.
type ReportQuery struct {
	StartDate string
	EndDate   string
}

// ReportService builds the sales report and the dashboard.
type ReportService struct {
	reports     repositories.ReportRepository
	orders      repositories.OrderRepository
	restaurants repositories.RestaurantRepository
	now         func() time.Time
}

func NewReportService(reports repositories.ReportRepository, orders repositories.OrderRepository, restaurants repositories.RestaurantRepository) *ReportService {
	return &ReportService{
		reports:     reports,
		orders:      orders,
		restaurants: restaurants,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// ParseRange resolves the query against today's date. Missing bounds default to the first day
// of the current month and today.
func (s *ReportService) ParseRange(q ReportQuery) (models.ReportRange, error) {
	today := s.now()
	r := models.ReportRange{
		Start: time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC),
	}

	verr := &models.ValidationError{}
	if v := strings.TrimSpace(q.StartDate); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			verr.Add("start_date", "Start date must be a date in YYYY-MM-DD format")
		} else {
			r.Start = t
		}
	}
	if v := strings.TrimSpace(q.EndDate); v != "" {
		t, err := time.Parse(models.DateLayout, v)
		if err != nil {
			verr.Add("end_date", "End date must be a date in YYYY-MM-DD format")
		} else {
			r.End = t
		}
	}
	if len(verr.Errors) == 0 && r.Start.After(r.End) {
		verr.Add("start_date", "Start date must not be after end date")
	}
	if err := verr.OrNil(); err != nil {
		return models.ReportRange{}, err
	}
	return r, nil
}

// RunReport aggregates sales over the inclusive day range. Cancelled orders only count in the
// status summary.
func (s *ReportService) RunReport(ctx context.Context, q ReportQuery) (*models.Report, error) {
	ctx, span := tracer.Start(ctx, "ReportService.RunReport")
	defer span.End()

	r, err := s.ParseRange(q)
	if err != nil {
		return nil, spanError(span, err)
	}
	start, end := r.Bounds()

	report := &models.Report{
		StartDate: r.Start.Format(models.DateLayout),
		EndDate:   r.End.Format(models.DateLayout),
	}
	if report.RestaurantSales, err = s.reports.RestaurantSales(ctx, start, end); err != nil {
		return nil, spanError(span, err)
	}
	if report.PopularItems, err = s.reports.PopularItems(ctx, start, end, popularItemsLimit); err != nil {
		return nil, spanError(span, err)
	}
	if report.StatusSummary, err = s.reports.StatusSummary(ctx, start, end); err != nil {
		return nil, spanError(span, err)
	}
	if report.DailySales, err = s.reports.DailySales(ctx, start, end); err != nil {
		return nil, spanError(span, err)
	}
	return report, nil
}

// Dashboard returns all-time counters, the five latest orders and the five best rated
// restaurants.
func (s *ReportService) Dashboard(ctx context.Context) (*models.Dashboard, error) {
	stats, err := s.reports.DashboardStats(ctx)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.orders.List(ctx, models.OrderFilter{Limit: 5})
	if err != nil {
		return nil, err
	}
	top, err := s.restaurants.TopRated(ctx, 5)
	if err != nil {
		return nil, err
	}
	return &models.Dashboard{Stats: *stats, RecentOrders: recent, TopRestaurants: top}, nil
}
