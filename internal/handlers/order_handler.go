package handlers

import (
	"resto/internal/middleware"
	"resto/internal/models"
	"resto/internal/services"

	"github.com/gofiber/fiber/v2"
)

// OrderHandler handles HTTP requests for orders.
type OrderHandler struct {
	service *services.OrderService
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(service *services.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// RegisterRoutes registers the order routes with the Fiber app.
func (h *OrderHandler) RegisterRoutes(router fiber.Router) {
	orderRoutes := router.Group("/orders")
	orderRoutes.Get("/", h.HandleGetOrders)
	orderRoutes.Get("/:id", h.HandleGetOrderByID)
	orderRoutes.Post("/", h.HandleCreateOrder)
	orderRoutes.Patch("/:id/status", h.HandleUpdateOrderStatus)
	orderRoutes.Delete("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), h.HandleDeleteOrder)
}

// HandleGetOrders lists orders newest first. Supports search, status and page query parameters.
func (h *OrderHandler) HandleGetOrders(c *fiber.Ctx) error {
	page, err := h.service.ListOrders(c.UserContext(), services.OrderQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   c.QueryInt("page", 1),
	})
	if err != nil {
		return respondError(c, err, "retrieve orders")
	}
	return c.JSON(page)
}

// HandleGetOrderByID retrieves a single order with its items.
func (h *OrderHandler) HandleGetOrderByID(c *fiber.Ctx) error {
	order, err := h.service.GetOrder(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "retrieve order")
	}
	return c.JSON(order)
}

// HandleCreateOrder creates a new order.
func (h *OrderHandler) HandleCreateOrder(c *fiber.Ctx) error {
	var input services.CreateOrderInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	order, err := h.service.CreateOrder(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return respondError(c, err, "create order")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":       "Order created successfully",
		"id":            order.ID,
		"total_amount":  order.TotalAmount,
		"total_display": models.FormatCurrency(order.TotalAmount),
		"order":         order,
	})
}

// HandleUpdateOrderStatus sets an order's status. An expected_status in the body makes the
// update conditional.
func (h *OrderHandler) HandleUpdateOrderStatus(c *fiber.Ctx) error {
	var input services.UpdateStatusInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	orderID := c.Params("id")
	if err := h.service.UpdateStatus(c.UserContext(), middleware.CurrentUser(c), orderID, input); err != nil {
		return respondError(c, err, "update order status")
	}
	return c.JSON(fiber.Map{
		"message": "Order status updated successfully",
		"id":      orderID,
	})
}

func (h *OrderHandler) HandleDeleteOrder(c *fiber.Ctx) error {
	if err := h.service.DeleteOrder(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err, "delete order")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
