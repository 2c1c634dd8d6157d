package handlers

import (
	"resto/internal/middleware"
	"resto/internal/models"
	"resto/internal/services"

	"github.com/gofiber/fiber/v2"
)

// MenuItemHandler handles HTTP requests for menu items and categories.
type MenuItemHandler struct {
	service *services.CatalogService
}

func NewMenuItemHandler(service *services.CatalogService) *MenuItemHandler {
	return &MenuItemHandler{service: service}
}

func (h *MenuItemHandler) RegisterRoutes(router fiber.Router) {
	itemRoutes := router.Group("/menu-items")
	itemRoutes.Get("/", h.HandleGetMenuItems)
	itemRoutes.Get("/available", h.HandleGetAvailableItems)
	itemRoutes.Get("/:id", h.HandleGetMenuItemByID)
	itemRoutes.Post("/", h.HandleCreateMenuItem)
	itemRoutes.Put("/:id", h.HandleUpdateMenuItem)
	itemRoutes.Patch("/:id/availability", h.HandleSetAvailability)
	itemRoutes.Delete("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), h.HandleDeleteMenuItem)

	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleGetCategories)
	categoryRoutes.Post("/", h.HandleCreateCategory)
}

func (h *MenuItemHandler) HandleGetMenuItems(c *fiber.Ctx) error {
	page, err := h.service.ListMenuItems(c.UserContext(), services.MenuQuery{
		RestaurantID: c.Query("restaurant_id"),
		CategoryID:   c.Query("category_id"),
		Search:       c.Query("search"),
		Page:         c.QueryInt("page", 1),
	})
	if err != nil {
		return respondError(c, err, "retrieve menu items")
	}
	return c.JSON(page)
}

// HandleGetAvailableItems lists the orderable items of restaurant_id. A missing id yields [].
func (h *MenuItemHandler) HandleGetAvailableItems(c *fiber.Ctx) error {
	items, err := h.service.ListAvailableItems(c.UserContext(), c.Query("restaurant_id"))
	if err != nil {
		return respondError(c, err, "retrieve menu items")
	}
	return c.JSON(items)
}

func (h *MenuItemHandler) HandleGetMenuItemByID(c *fiber.Ctx) error {
	item, err := h.service.GetMenuItem(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "retrieve menu item")
	}
	return c.JSON(item)
}

func (h *MenuItemHandler) HandleCreateMenuItem(c *fiber.Ctx) error {
	var input services.MenuItemInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	item, err := h.service.CreateMenuItem(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return respondError(c, err, "create menu item")
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *MenuItemHandler) HandleUpdateMenuItem(c *fiber.Ctx) error {
	var input services.MenuItemInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	item, err := h.service.UpdateMenuItem(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), input)
	if err != nil {
		return respondError(c, err, "update menu item")
	}
	return c.JSON(item)
}

func (h *MenuItemHandler) HandleSetAvailability(c *fiber.Ctx) error {
	var body struct {
		Availability *bool `json:"availability"`
	}
	if err := c.BodyParser(&body); err != nil {
		return badBody(c, err)
	}
	if body.Availability == nil {
		return respondError(c, models.NewValidationError("availability", "Availability is required"), "update availability")
	}

	id := c.Params("id")
	if err := h.service.SetAvailability(c.UserContext(), middleware.CurrentUser(c), id, *body.Availability); err != nil {
		return respondError(c, err, "update availability")
	}
	return c.JSON(fiber.Map{
		"message":      "Availability updated",
		"id":           id,
		"availability": *body.Availability,
	})
}

// HandleDeleteMenuItem answers 409 for items that appear on orders.
func (h *MenuItemHandler) HandleDeleteMenuItem(c *fiber.Ctx) error {
	if err := h.service.DeleteMenuItem(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err, "delete menu item")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MenuItemHandler) HandleGetCategories(c *fiber.Ctx) error {
	categories, err := h.service.ListCategories(c.UserContext())
	if err != nil {
		return respondError(c, err, "retrieve categories")
	}
	return c.JSON(categories)
}

func (h *MenuItemHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var input services.CategoryInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	category, err := h.service.CreateCategory(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return respondError(c, err, "create category")
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}
