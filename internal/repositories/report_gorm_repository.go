package repositories

import (
	"context"
	"time"

	"resto/internal/models"

	"gorm.io/gorm"
)

const restaurantSalesSQL = `
SELECT r.id AS restaurant_id, r.name AS restaurant_name,
       COUNT(o.id) AS order_count, COALESCE(ROUND(SUM(o.total_amount), 2), 0) AS revenue
FROM restaurants r
LEFT JOIN orders o ON o.restaurant_id = r.id
     AND o.status <> ? AND o.created_at >= ? AND o.created_at < ?
GROUP BY r.id, r.name
ORDER BY revenue DESC, r.id ASC`

const popularItemsSQL = `
SELECT mi.id AS menu_item_id, mi.name AS name, COALESCE(r.name, '') AS restaurant_name,
       SUM(oi.quantity) AS quantity_sold, COALESCE(ROUND(SUM(oi.quantity * oi.price), 2), 0) AS revenue
FROM order_items oi
JOIN orders o ON o.id = oi.order_id
JOIN menu_items mi ON mi.id = oi.menu_item_id
LEFT JOIN restaurants r ON r.id = mi.restaurant_id
WHERE o.status <> ? AND o.created_at >= ? AND o.created_at < ?
GROUP BY mi.id, mi.name, r.name
ORDER BY quantity_sold DESC, mi.id ASC
LIMIT ?`

const statusSummarySQL = `
SELECT status, COUNT(*) AS order_count, COALESCE(ROUND(SUM(total_amount), 2), 0) AS total_amount
FROM orders
WHERE created_at >= ? AND created_at < ?
GROUP BY status
ORDER BY status`

const dailySalesSQL = `
SELECT DATE(created_at) AS order_day, COUNT(*) AS order_count, COALESCE(ROUND(SUM(total_amount), 2), 0) AS revenue
FROM orders
WHERE status <> ? AND created_at >= ? AND created_at < ?
GROUP BY DATE(created_at)
ORDER BY order_day ASC`

// Sums are rounded to cents in SQL. sqlite adds decimal columns as floats, and every stored
// amount has at most 2 decimals, so the rounded sum is exact.

// GORMReportRepository runs the report queries as raw SQL through gorm.
type GORMReportRepository struct {
	db *gorm.DB
}

func NewGORMReportRepository(db *gorm.DB) *GORMReportRepository {
	return &GORMReportRepository{db: db}
}

// RestaurantSales lists every restaurant, including those without orders in the range.
func (r *GORMReportRepository) RestaurantSales(ctx context.Context, start, end time.Time) ([]models.RestaurantSales, error) {
	rows := []models.RestaurantSales{}
	err := r.db.WithContext(ctx).Raw(restaurantSalesSQL, models.OrderStatusCancelled, start, end).Scan(&rows).Error
	if err != nil {
		return nil, storageError("query restaurant sales", err)
	}
	return rows, nil
}

func (r *GORMReportRepository) PopularItems(ctx context.Context, start, end time.Time, limit int) ([]models.PopularItem, error) {
	rows := []models.PopularItem{}
	err := r.db.WithContext(ctx).Raw(popularItemsSQL, models.OrderStatusCancelled, start, end, limit).Scan(&rows).Error
	if err != nil {
		return nil, storageError("query popular items", err)
	}
	return rows, nil
}

// StatusSummary counts every status, cancelled included.
func (r *GORMReportRepository) StatusSummary(ctx context.Context, start, end time.Time) ([]models.StatusSummary, error) {
	rows := []models.StatusSummary{}
	if err := r.db.WithContext(ctx).Raw(statusSummarySQL, start, end).Scan(&rows).Error; err != nil {
		return nil, storageError("query status summary", err)
	}
	return rows, nil
}

func (r *GORMReportRepository) DailySales(ctx context.Context, start, end time.Time) ([]models.DailySales, error) {
	rows := []models.DailySales{}
	err := r.db.WithContext(ctx).Raw(dailySalesSQL, models.OrderStatusCancelled, start, end).Scan(&rows).Error
	if err != nil {
		return nil, storageError("query daily sales", err)
	}
	return rows, nil
}

// DashboardStats returns all-time counters. Revenue excludes cancelled orders.
func (r *GORMReportRepository) DashboardStats(ctx context.Context) (*models.DashboardStats, error) {
	db := r.db.WithContext(ctx)
	stats := &models.DashboardStats{}

	if err := db.Model(&models.Restaurant{}).Count(&stats.TotalRestaurants).Error; err != nil {
		return nil, storageError("count restaurants", err)
	}
	if err := db.Model(&models.MenuItem{}).Count(&stats.TotalMenuItems).Error; err != nil {
		return nil, storageError("count menu items", err)
	}
	if err := db.Model(&models.Order{}).Count(&stats.TotalOrders).Error; err != nil {
		return nil, storageError("count orders", err)
	}
	row := db.Model(&models.Order{}).
		Select("COALESCE(ROUND(SUM(total_amount), 2), 0)").
		Where("status <> ?", models.OrderStatusCancelled).
		Row()
	if err := row.Scan(&stats.TotalRevenue); err != nil {
		return nil, storageError("sum revenue", err)
	}
	return stats, nil
}
