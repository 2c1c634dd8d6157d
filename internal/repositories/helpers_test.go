package repositories_test

import (
	"context"
	"testing"
	"time"

	"resto/internal/database"
	"resto/internal/models"
	"resto/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory sqlite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Open("sqlite", "file:"+uuid.New().String()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func seedRestaurant(t *testing.T, db *gorm.DB, name string) *models.Restaurant {
	t.Helper()
	r := &models.Restaurant{ID: uuid.New().String(), Name: name, Address: name + " street", Rating: 4}
	require.NoError(t, db.Create(r).Error)
	return r
}

func seedMenuItem(t *testing.T, db *gorm.DB, restaurantID, name, price string, available bool) *models.MenuItem {
	t.Helper()
	item := &models.MenuItem{
		ID:           uuid.New().String(),
		RestaurantID: restaurantID,
		Name:         name,
		Price:        dec(price),
		Availability: available,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}

func seedOrder(t *testing.T, db *gorm.DB, restaurantID string, status models.OrderStatus, createdAt time.Time, items ...models.OrderItem) *models.Order {
	t.Helper()
	order, err := models.NewOrder(restaurantID, "Customer", "", "", items, createdAt)
	require.NoError(t, err)
	order.Status = status
	require.NoError(t, repositories.NewGORMOrderRepository(db).Create(context.Background(), order))
	return order
}
