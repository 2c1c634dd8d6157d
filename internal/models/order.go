package models

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfillment stage of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPreparing OrderStatus = "preparing"
	OrderStatusReady     OrderStatus = "ready"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// OrderStatuses lists every status in fulfillment order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// ParseOrderStatus accepts any of the six statuses, case-insensitively.
func ParseOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return "", NewValidationError("status", fmt.Sprintf("Invalid order status: %s", s))
	}
	return status, nil
}

func (s OrderStatus) Valid() bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether the status is an end state. Strict transitions never leave it.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

var strictTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed: {OrderStatusPreparing, OrderStatusCancelled},
	OrderStatusPreparing: {OrderStatusReady, OrderStatusCancelled},
	OrderStatusReady:     {OrderStatusDelivered, OrderStatusCancelled},
}

// CanTransition reports whether from -> to is part of the strict fulfillment graph.
// Setting the current status again is always allowed.
func CanTransition(from, to OrderStatus) bool {
	if from == to {
		return true
	}
	if from.Terminal() {
		return false
	}
	for _, next := range strictTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Quantity is an item count coerced from a JSON number or a numeric string.
// An empty string reads as zero.
type Quantity int

func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := string(bytes.Trim(bytes.TrimSpace(data), `"`))
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		*q = 0
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return NewValidationError("items", fmt.Sprintf("Quantity %q must be a whole number", raw))
	}
	*q = Quantity(n)
	return nil
}

// CandidateItem is a line item as submitted by a client, before filtering.
type CandidateItem struct {
	MenuItemID string          `json:"menu_item_id" form:"menu_item_id"`
	Quantity   Quantity        `json:"quantity" form:"quantity"`
	Price      decimal.Decimal `json:"price" form:"price"`
}

// OrderItem is a priced quantity of one menu item within one order. Price is copied at order
// time and never follows later catalog changes.
type OrderItem struct {
	ID         string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID    string          `json:"order_id" gorm:"type:varchar(36);not null;index"`
	MenuItemID string          `json:"menu_item_id" gorm:"type:varchar(36);not null;index"`
	Quantity   int             `json:"quantity" gorm:"not null"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	ItemName   string          `json:"item_name,omitempty" gorm:"->;-:migration"`
}

// Subtotal is price * quantity, unrounded.
func (i OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer purchase against one restaurant.
type Order struct {
	ID                string          `json:"id" gorm:"primaryKey;type:varchar(36)"`
	RestaurantID      string          `json:"restaurant_id" gorm:"type:varchar(36);not null;index"`
	CustomerName      string          `json:"customer_name" gorm:"type:varchar(100);not null"`
	CustomerPhone     string          `json:"customer_phone" gorm:"type:varchar(20)"`
	CustomerEmail     string          `json:"customer_email" gorm:"type:varchar(100)"`
	TotalAmount       decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null"`
	Status            OrderStatus     `json:"status" gorm:"type:varchar(20);not null;index"`
	CreatedAt         time.Time       `json:"created_at" gorm:"index"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Items             []OrderItem     `json:"items,omitempty" gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	RestaurantName    string          `json:"restaurant_name,omitempty" gorm:"->;-:migration"`
	RestaurantAddress string          `json:"restaurant_address,omitempty" gorm:"->;-:migration"`
}

// ComputeTotal sums price * quantity over items with a positive quantity. The result is exact.
func ComputeTotal(items []OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		total = total.Add(item.Subtotal())
	}
	return total
}

// FilterLineItems turns candidates into line items, dropping any with quantity <= 0.
func FilterLineItems(candidates []CandidateItem) []OrderItem {
	items := make([]OrderItem, 0, len(candidates))
	for _, c := range candidates {
		if c.Quantity <= 0 {
			continue
		}
		items = append(items, OrderItem{
			MenuItemID: strings.TrimSpace(c.MenuItemID),
			Quantity:   int(c.Quantity),
			Price:      c.Price,
		})
	}
	return items
}

// NewOrder validates the header fields and the already filtered line items and returns a
// pending order whose total is derived from the items.
func NewOrder(restaurantID, customerName, customerPhone, customerEmail string, items []OrderItem, createdAt time.Time) (*Order, error) {
	verr := &ValidationError{}
	if strings.TrimSpace(restaurantID) == "" {
		verr.Add("restaurant_id", "Restaurant id is required")
	}
	if strings.TrimSpace(customerName) == "" {
		verr.Add("customer_name", "Customer name is required")
	}

	kept := make([]OrderItem, 0, len(items))
	malformed := false
	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}
		if strings.TrimSpace(item.MenuItemID) == "" {
			verr.Add("items", "Menu item id is required for every ordered item")
			malformed = true
			continue
		}
		if item.Price.IsNegative() {
			verr.Add("items", fmt.Sprintf("Price for menu item %s must not be negative", item.MenuItemID))
			malformed = true
			continue
		}
		if !item.Price.Equal(item.Price.Round(2)) {
			verr.Add("items", fmt.Sprintf("Price for menu item %s must have at most 2 decimals", item.MenuItemID))
			malformed = true
			continue
		}
		kept = append(kept, item)
	}
	if len(kept) == 0 && !malformed {
		verr.Add("items", "At least one item with a quantity of 1 or more is required")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	return &Order{
		RestaurantID:  strings.TrimSpace(restaurantID),
		CustomerName:  strings.TrimSpace(customerName),
		CustomerPhone: strings.TrimSpace(customerPhone),
		CustomerEmail: strings.TrimSpace(customerEmail),
		Items:         kept,
		TotalAmount:   ComputeTotal(kept),
		Status:        OrderStatusPending,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}, nil
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	Search string
	Status OrderStatus
	Limit  int
	Offset int
}

// OrderCreatedEvent is published once an order and its items are committed.
type OrderCreatedEvent struct {
	Type         string          `json:"type"`
	OrderID      string          `json:"order_id"`
	RestaurantID string          `json:"restaurant_id"`
	CustomerName string          `json:"customer_name"`
	Total        decimal.Decimal `json:"total"`
	Items        []OrderItem     `json:"items"`
	Timestamp    time.Time       `json:"timestamp"`
}

// OrderStatusChangedEvent is published after a status update.
type OrderStatusChangedEvent struct {
	Type      string      `json:"type"`
	OrderID   string      `json:"order_id"`
	Status    OrderStatus `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
}
