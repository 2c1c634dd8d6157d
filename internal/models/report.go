package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the wire format of report range bounds and report days.
const DateLayout = "2006-01-02"

// Day is a calendar date read back from DATE(...) projections. Drivers disagree on the
// scanned type, so it accepts time.Time, string and []byte.
type Day struct {
	time.Time
}

func (d *Day) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		d.Time = time.Time{}
		return nil
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
		return nil
	case string:
		return d.parse(v)
	case []byte:
		return d.parse(string(v))
	}
	return fmt.Errorf("cannot scan %T into Day", value)
}

func (d *Day) parse(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return fmt.Errorf("cannot parse day %q: %w", s, err)
	}
	d.Time = t
	return nil
}

func (d Day) Value() (driver.Value, error) {
	return d.Format(DateLayout), nil
}

func (d Day) String() string {
	return d.Format(DateLayout)
}

func (d Day) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Day) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	return d.parse(s)
}

// ReportRange is an inclusive range of calendar days, evaluated in UTC.
type ReportRange struct {
	Start time.Time
	End   time.Time
}

// Bounds returns the half-open interval [Start 00:00, End+1 00:00).
func (r ReportRange) Bounds() (time.Time, time.Time) {
	start := time.Date(r.Start.Year(), r.Start.Month(), r.Start.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(r.End.Year(), r.End.Month(), r.End.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return start, end
}

type RestaurantSales struct {
	RestaurantID   string          `json:"restaurant_id"`
	RestaurantName string          `json:"restaurant_name"`
	OrderCount     int64           `json:"order_count"`
	Revenue        decimal.Decimal `json:"revenue"`
}

type PopularItem struct {
	MenuItemID     string          `json:"menu_item_id"`
	Name           string          `json:"name"`
	RestaurantName string          `json:"restaurant_name"`
	QuantitySold   int64           `json:"quantity_sold"`
	Revenue        decimal.Decimal `json:"revenue"`
}

type StatusSummary struct {
	Status      OrderStatus     `json:"status"`
	OrderCount  int64           `json:"order_count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

type DailySales struct {
	OrderDay   Day             `json:"day"`
	OrderCount int64           `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// Report is the sales rollup for one date range.
type Report struct {
	StartDate       string            `json:"start_date"`
	EndDate         string            `json:"end_date"`
	RestaurantSales []RestaurantSales `json:"restaurant_sales"`
	PopularItems    []PopularItem     `json:"popular_items"`
	StatusSummary   []StatusSummary   `json:"status_summary"`
	DailySales      []DailySales      `json:"daily_sales"`
}

// DashboardStats are the all-time counters shown on the dashboard.
type DashboardStats struct {
	TotalRestaurants int64           `json:"total_restaurants"`
	TotalMenuItems   int64           `json:"total_menu_items"`
	TotalOrders      int64           `json:"total_orders"`
	TotalRevenue     decimal.Decimal `json:"total_revenue"`
}

type Dashboard struct {
	Stats          DashboardStats `json:"stats"`
	RecentOrders   []Order        `json:"recent_orders"`
	TopRestaurants []Restaurant   `json:"top_restaurants"`
}
