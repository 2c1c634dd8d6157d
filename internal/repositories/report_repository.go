package repositories

import (
	"context"
	"time"

	"resto/internal/models"
)

// ReportRepository runs the read-only sales rollups. Ranges are half-open [start, end).
type ReportRepository interface {
	RestaurantSales(ctx context.Context, start, end time.Time) ([]models.RestaurantSales, error)
	PopularItems(ctx context.Context, start, end time.Time, limit int) ([]models.PopularItem, error)
	StatusSummary(ctx context.Context, start, end time.Time) ([]models.StatusSummary, error)
	DailySales(ctx context.Context, start, end time.Time) ([]models.DailySales, error)
	DashboardStats(ctx context.Context) (*models.DashboardStats, error)
}
