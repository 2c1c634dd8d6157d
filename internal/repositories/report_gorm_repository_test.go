package repositories_test

import (
	"context"
	"testing"
	"time"

	"resto/internal/models"
	"resto/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGORMReportRepository(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMReportRepository(db)
	ctx := context.Background()

	bistro := seedRestaurant(t, db, "Bistro")
	diner := seedRestaurant(t, db, "Diner")
	empty := seedRestaurant(t, db, "Empty")
	steak := seedMenuItem(t, db, bistro.ID, "Steak", "50.00", true)
	salad := seedMenuItem(t, db, bistro.ID, "Salad", "15.00", true)
	burger := seedMenuItem(t, db, diner.ID, "Burger", "6.00", true)

	day1 := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	day2 := time.Date(2024, 3, 6, 23, 30, 0, 0, time.UTC)
	outside := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	seedOrder(t, db, bistro.ID, models.OrderStatusCancelled, day1,
		models.OrderItem{MenuItemID: steak.ID, Quantity: 1, Price: steak.Price})
	seedOrder(t, db, bistro.ID, models.OrderStatusDelivered, day1,
		models.OrderItem{MenuItemID: salad.ID, Quantity: 2, Price: salad.Price})
	seedOrder(t, db, diner.ID, models.OrderStatusPending, day2,
		models.OrderItem{MenuItemID: burger.ID, Quantity: 2, Price: burger.Price})
	seedOrder(t, db, diner.ID, models.OrderStatusDelivered, outside,
		models.OrderItem{MenuItemID: burger.ID, Quantity: 9, Price: burger.Price})

	start, end := models.ReportRange{
		Start: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
	}.Bounds()

	t.Run("restaurant sales exclude cancelled orders", func(t *testing.T) {
		rows, err := repo.RestaurantSales(ctx, start, end)
		require.NoError(t, err)
		require.Len(t, rows, 3)

		assert.Equal(t, bistro.ID, rows[0].RestaurantID)
		assert.EqualValues(t, 1, rows[0].OrderCount)
		assert.True(t, dec("30").Equal(rows[0].Revenue), "revenue was %s", rows[0].Revenue)

		assert.Equal(t, diner.ID, rows[1].RestaurantID)
		assert.True(t, dec("12").Equal(rows[1].Revenue))

		assert.Equal(t, empty.ID, rows[2].RestaurantID)
		assert.Zero(t, rows[2].OrderCount)
		assert.True(t, rows[2].Revenue.IsZero())
	})

	t.Run("popular items", func(t *testing.T) {
		rows, err := repo.PopularItems(ctx, start, end, 10)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		ids := []string{rows[0].MenuItemID, rows[1].MenuItemID}
		assert.ElementsMatch(t, []string{salad.ID, burger.ID}, ids)
		assert.EqualValues(t, 2, rows[0].QuantitySold)
		if salad.ID < burger.ID {
			assert.Equal(t, salad.ID, rows[0].MenuItemID)
		} else {
			assert.Equal(t, burger.ID, rows[0].MenuItemID)
		}
	})

	t.Run("status summary keeps cancelled orders", func(t *testing.T) {
		rows, err := repo.StatusSummary(ctx, start, end)
		require.NoError(t, err)
		byStatus := map[models.OrderStatus]models.StatusSummary{}
		for _, row := range rows {
			byStatus[row.Status] = row
		}
		require.Contains(t, byStatus, models.OrderStatusCancelled)
		assert.EqualValues(t, 1, byStatus[models.OrderStatusCancelled].OrderCount)
		assert.True(t, dec("50").Equal(byStatus[models.OrderStatusCancelled].TotalAmount))
		assert.EqualValues(t, 1, byStatus[models.OrderStatusDelivered].OrderCount)
		assert.EqualValues(t, 1, byStatus[models.OrderStatusPending].OrderCount)
	})

	t.Run("daily sales", func(t *testing.T) {
		rows, err := repo.DailySales(ctx, start, end)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "2024-03-05", rows[0].OrderDay.String())
		assert.True(t, dec("30").Equal(rows[0].Revenue))
		assert.Equal(t, "2024-03-06", rows[1].OrderDay.String())
		assert.EqualValues(t, 1, rows[1].OrderCount)
	})

	t.Run("dashboard stats", func(t *testing.T) {
		stats, err := repo.DashboardStats(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 3, stats.TotalRestaurants)
		assert.EqualValues(t, 3, stats.TotalMenuItems)
		assert.EqualValues(t, 4, stats.TotalOrders)
		assert.True(t, dec("96").Equal(stats.TotalRevenue), "revenue was %s", stats.TotalRevenue)
	})
}

func TestGORMReportRepository_SumsAreExactCents(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMReportRepository(db)
	ctx := context.Background()

	cafe := seedRestaurant(t, db, "Cafe")
	mint := seedMenuItem(t, db, cafe.ID, "Mint", "0.10", true)
	tea := seedMenuItem(t, db, cafe.ID, "Tea", "0.20", true)

	day := time.Date(2024, 3, 5, 9, 0, 0, 0, time.UTC)
	seedOrder(t, db, cafe.ID, models.OrderStatusDelivered, day,
		models.OrderItem{MenuItemID: mint.ID, Quantity: 1, Price: mint.Price})
	seedOrder(t, db, cafe.ID, models.OrderStatusDelivered, day.Add(time.Hour),
		models.OrderItem{MenuItemID: tea.ID, Quantity: 1, Price: tea.Price})
	seedOrder(t, db, cafe.ID, models.OrderStatusDelivered, day.Add(2*time.Hour),
		models.OrderItem{MenuItemID: mint.ID, Quantity: 2, Price: mint.Price})

	start, end := models.ReportRange{Start: day, End: day}.Bounds()
	want := dec("0.50")

	sales, err := repo.RestaurantSales(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, sales, 1)
	assert.Equal(t, want.String(), sales[0].Revenue.String())

	daily, err := repo.DailySales(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, daily, 1)
	assert.Equal(t, want.String(), daily[0].Revenue.String())

	summary, err := repo.StatusSummary(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, summary, 1)
	assert.Equal(t, want.String(), summary[0].TotalAmount.String())

	items, err := repo.PopularItems(ctx, start, end, 10)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, mint.ID, items[0].MenuItemID)
	assert.Equal(t, "0.3", items[0].Revenue.String())

	stats, err := repo.DashboardStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, want.String(), stats.TotalRevenue.String())
}
