package services_test

import (
	"context"
	"testing"
	"time"

	"resto/internal/models"
	"resto/internal/services"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestReportService_RunReport(t *testing.T) {
	reports := new(MockReportRepository)
	svc := services.NewReportService(reports, new(MockOrderRepository), new(MockRestaurantRepository))

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)

	reports.On("RestaurantSales", mock.Anything, start, end).Return([]models.RestaurantSales{
		{RestaurantID: "rest-1", RestaurantName: "Bistro", OrderCount: 1, Revenue: decimal.NewFromInt(30)},
	}, nil).Once()
	reports.On("PopularItems", mock.Anything, start, end, 10).Return([]models.PopularItem{}, nil).Once()
	reports.On("StatusSummary", mock.Anything, start, end).Return([]models.StatusSummary{
		{Status: models.OrderStatusCancelled, OrderCount: 1, TotalAmount: decimal.NewFromInt(50)},
	}, nil).Once()
	reports.On("DailySales", mock.Anything, start, end).Return([]models.DailySales{}, nil).Once()

	report, err := svc.RunReport(context.Background(), services.ReportQuery{StartDate: "2024-03-01", EndDate: "2024-03-31"})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01", report.StartDate)
	assert.Equal(t, "2024-03-31", report.EndDate)
	require.Len(t, report.RestaurantSales, 1)
	assert.True(t, decimal.NewFromInt(30).Equal(report.RestaurantSales[0].Revenue))
	reports.AssertExpectations(t)
}

func TestReportService_RunReport_InvalidRange(t *testing.T) {
	reports := new(MockReportRepository)
	svc := services.NewReportService(reports, new(MockOrderRepository), new(MockRestaurantRepository))

	tests := map[string]services.ReportQuery{
		"malformed start": {StartDate: "03/01/2024", EndDate: "2024-03-31"},
		"malformed end":   {StartDate: "2024-03-01", EndDate: "tomorrow"},
		"start after end": {StartDate: "2024-04-01", EndDate: "2024-03-01"},
	}
	for name, q := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.RunReport(context.Background(), q)
			var verr *models.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
	reports.AssertNotCalled(t, "RestaurantSales", mock.Anything, mock.Anything, mock.Anything)
}

func TestReportService_Dashboard(t *testing.T) {
	reports := new(MockReportRepository)
	orders := new(MockOrderRepository)
	restaurants := new(MockRestaurantRepository)
	svc := services.NewReportService(reports, orders, restaurants)

	reports.On("DashboardStats", mock.Anything).Return(&models.DashboardStats{
		TotalRestaurants: 2,
		TotalOrders:      3,
		TotalRevenue:     decimal.RequireFromString("80.50"),
	}, nil).Once()
	orders.On("List", mock.Anything, models.OrderFilter{Limit: 5}).Return([]models.Order{{ID: "order-1"}}, int64(3), nil).Once()
	restaurants.On("TopRated", mock.Anything, 5).Return([]models.Restaurant{{ID: "rest-1", Rating: 4.8}}, nil).Once()

	dashboard, err := svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), dashboard.Stats.TotalOrders)
	assert.Len(t, dashboard.RecentOrders, 1)
	assert.Len(t, dashboard.TopRestaurants, 1)
	reports.AssertExpectations(t)
	orders.AssertExpectations(t)
	restaurants.AssertExpectations(t)
}
