package handlers

import (
	"resto/internal/middleware"
	"resto/internal/models"
	"resto/internal/services"

	"github.com/gofiber/fiber/v2"
)

// RestaurantHandler handles HTTP requests for restaurants.
type RestaurantHandler struct {
	service *services.RestaurantService
}

func NewRestaurantHandler(service *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

func (h *RestaurantHandler) RegisterRoutes(router fiber.Router) {
	restaurantRoutes := router.Group("/restaurants")
	restaurantRoutes.Get("/", h.HandleGetRestaurants)
	restaurantRoutes.Get("/:id", h.HandleGetRestaurantByID)
	restaurantRoutes.Get("/:id/qrcode", h.HandleGetMenuQRCode)
	restaurantRoutes.Post("/", h.HandleCreateRestaurant)
	restaurantRoutes.Put("/:id", h.HandleUpdateRestaurant)
	restaurantRoutes.Delete("/:id", middleware.RequireRole(models.RoleAdmin, models.RoleManager), h.HandleDeleteRestaurant)
}

func (h *RestaurantHandler) HandleGetRestaurants(c *fiber.Ctx) error {
	page, err := h.service.ListRestaurants(c.UserContext(), c.Query("search"), c.QueryInt("page", 1))
	if err != nil {
		return respondError(c, err, "retrieve restaurants")
	}
	return c.JSON(page)
}

func (h *RestaurantHandler) HandleGetRestaurantByID(c *fiber.Ctx) error {
	restaurant, err := h.service.GetRestaurant(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "retrieve restaurant")
	}
	return c.JSON(restaurant)
}

// HandleGetMenuQRCode serves a PNG QR code pointing at the restaurant's public menu.
func (h *RestaurantHandler) HandleGetMenuQRCode(c *fiber.Ctx) error {
	png, err := h.service.MenuQRCode(c.UserContext(), c.Params("id"))
	if err != nil {
		return respondError(c, err, "render QR code")
	}
	c.Type("png")
	return c.Send(png)
}

func (h *RestaurantHandler) HandleCreateRestaurant(c *fiber.Ctx) error {
	var input services.RestaurantInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	restaurant, err := h.service.CreateRestaurant(c.UserContext(), middleware.CurrentUser(c), input)
	if err != nil {
		return respondError(c, err, "create restaurant")
	}
	return c.Status(fiber.StatusCreated).JSON(restaurant)
}

func (h *RestaurantHandler) HandleUpdateRestaurant(c *fiber.Ctx) error {
	var input services.RestaurantInput
	if err := c.BodyParser(&input); err != nil {
		return badBody(c, err)
	}

	restaurant, err := h.service.UpdateRestaurant(c.UserContext(), middleware.CurrentUser(c), c.Params("id"), input)
	if err != nil {
		return respondError(c, err, "update restaurant")
	}
	return c.JSON(restaurant)
}

// HandleDeleteRestaurant deletes a restaurant and its menu. Restaurants with orders answer 409.
func (h *RestaurantHandler) HandleDeleteRestaurant(c *fiber.Ctx) error {
	if err := h.service.DeleteRestaurant(c.UserContext(), middleware.CurrentUser(c), c.Params("id")); err != nil {
		return respondError(c, err, "delete restaurant")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
