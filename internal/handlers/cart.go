package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/middleware"
	"github.com/example/thaihana/internal/models"
)

// CartHandler manages the caller's pending product selections.
type CartHandler struct {
	db *gorm.DB
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(db *gorm.DB) *CartHandler {
	return &CartHandler{db: db}
}

// ListCartItems returns all cart items belonging to the caller.
func (h *CartHandler) ListCartItems(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var items []models.CartItem
	if err := h.db.Where("user_id = ?", user.ID).Find(&items).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": items})
}

// AddCartItem adds a product selection to the caller's cart.
func (h *CartHandler) AddCartItem(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
	}

	quantity, err := strconv.Atoi(c.Query("quantity"))
	if err != nil || quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}

	item := models.CartItem{UserID: user.ID, ProductID: productID, Quantity: quantity}
	if err := h.db.Create(&item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

type updateCartItemRequest struct {
	Quantity *int `json:"quantity"`
}

// UpdateCartItem changes the quantity of a cart item owned by the caller.
func (h *CartHandler) UpdateCartItem(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Query("cart_product_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart_product_id")
	}

	var req updateCartItemRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}
	if req.Quantity == nil || *req.Quantity <= 0 {
		return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
	}

	var item models.CartItem
	if err := h.db.Where("id = ? AND user_id = ?", itemID, user.ID).First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusBadRequest, "cart item doesn't exist")
		}
		return err
	}

	item.Quantity = *req.Quantity
	if err := h.db.Save(&item).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}

// RemoveCartItem deletes a cart item owned by the caller.
func (h *CartHandler) RemoveCartItem(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	itemID, err := uuid.Parse(c.Query("cart_product_id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid cart_product_id")
	}

	if err := h.db.
		Where("id = ? AND user_id = ?", itemID, user.ID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"status": "success"})
}
