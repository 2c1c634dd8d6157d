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

func TestGORMRestaurantRepository_CRUD(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMRestaurantRepository(db)
	ctx := context.Background()

	r := &models.Restaurant{Name: "Trattoria", CuisineType: "Italian", Rating: 4.5}
	require.NoError(t, repo.Create(ctx, r))

	ok, err := repo.Exists(ctx, r.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	r.Address = "1 Main St"
	r.Rating = 0
	require.NoError(t, repo.Update(ctx, r))
	got, err := repo.GetByID(ctx, r.ID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", got.Address)
	assert.Zero(t, got.Rating)

	list, total, err := repo.List(ctx, models.ListParams{Search: "italian"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, list, 1)

	seedMenuItem(t, db, r.ID, "Pizza", "9.00", true)
	require.NoError(t, repo.Delete(ctx, r.ID))

	var items int64
	require.NoError(t, db.Model(&models.MenuItem{}).Where("restaurant_id = ?", r.ID).Count(&items).Error)
	assert.Zero(t, items)

	ok, err = repo.Exists(ctx, r.ID)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, repo.Delete(ctx, r.ID), models.ErrNotFound)
}

func TestGORMRestaurantRepository_DeleteWithOrders(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMRestaurantRepository(db)
	rest := seedRestaurant(t, db, "Bistro")
	item := seedMenuItem(t, db, rest.ID, "Pasta", "10.00", true)
	seedOrder(t, db, rest.ID, models.OrderStatusDelivered, time.Now().UTC(),
		models.OrderItem{MenuItemID: item.ID, Quantity: 1, Price: item.Price})

	err := repo.Delete(context.Background(), rest.ID)
	assert.ErrorIs(t, err, models.ErrConflict)

	var items int64
	require.NoError(t, db.Model(&models.MenuItem{}).Where("restaurant_id = ?", rest.ID).Count(&items).Error)
	assert.EqualValues(t, 1, items)
}

func TestGORMRestaurantRepository_TopRated(t *testing.T) {
	db := newTestDB(t)
	repo := repositories.NewGORMRestaurantRepository(db)
	ctx := context.Background()
	for _, r := range []models.Restaurant{
		{Name: "B", Rating: 4}, {Name: "A", Rating: 4}, {Name: "C", Rating: 5}, {Name: "D", Rating: 1},
	} {
		r := r
		require.NoError(t, repo.Create(ctx, &r))
	}

	top, err := repo.TopRated(ctx, 3)
	require.NoError(t, err)
	require.Len(t, top, 3)
	assert.Equal(t, []string{"C", "A", "B"}, []string{top[0].Name, top[1].Name, top[2].Name})
}

func TestGORMCategoryRepository(t *testing.T) {
	repo := repositories.NewGORMCategoryRepository(newTestDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Desserts"}))
	require.NoError(t, repo.Create(ctx, &models.Category{Name: "Appetizers"}))
	assert.ErrorIs(t, repo.Create(ctx, &models.Category{Name: "Desserts"}), models.ErrDuplicate)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Appetizers", list[0].Name)

	_, err = repo.GetByName(ctx, "Soups")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
