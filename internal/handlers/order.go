package handlers

import (
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/example/thaihana/internal/middleware"
	"github.com/example/thaihana/internal/models"
	"github.com/example/thaihana/internal/services"
)

// orderNumberAttempts bounds the retry loop closing the read-then-increment
// race: two concurrent placements can compute the same sequence, the unique
// index rejects one, and the loser recomputes.
const orderNumberAttempts = 3

// OrderHandler manages order placement and listing.
type OrderHandler struct {
	db       *gorm.DB
	telegram *services.TelegramService
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(db *gorm.DB, telegram *services.TelegramService) *OrderHandler {
	return &OrderHandler{db: db, telegram: telegram}
}

type cartProductRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type createOrderRequest struct {
	CartProducts []cartProductRequest `json:"cart_products"`
}

// CreateOrder allocates the next daily order number and persists the order
// with all its line items in one transaction.
func (h *OrderHandler) CreateOrder(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var req createOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if len(req.CartProducts) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "cart_products must not be empty")
	}

	items := make([]models.OrderItem, 0, len(req.CartProducts))
	for _, line := range req.CartProducts {
		productID, err := uuid.Parse(line.ProductID)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid product_id")
		}
		if line.Quantity <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "quantity must be positive")
		}
		items = append(items, models.OrderItem{ProductID: productID, Quantity: line.Quantity})
	}

	var order models.Order
	var err error
	for attempt := 0; attempt < orderNumberAttempts; attempt++ {
		order = models.Order{
			Active:      true,
			MobilePhone: user.MobilePhone,
			UserID:      &user.ID,
			Items:       items,
		}
		err = h.db.Transaction(func(tx *gorm.DB) error {
			lastNumber := ""
			var last models.Order
			if err := tx.Order("created_at DESC").First(&last).Error; err == nil {
				lastNumber = last.OrderNumber
			} else if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			order.OrderNumber = nextOrderNumber(lastNumber, time.Now())
			return tx.Create(&order).Error
		})
		if err == nil || !isUniqueViolation(err) {
			break
		}
		log.Printf("[Order] number %s already taken, retrying", order.OrderNumber)
	}
	if err != nil {
		if isUniqueViolation(err) {
			return fiber.NewError(fiber.StatusConflict, "could not allocate order number, retry")
		}
		return err
	}

	// Notification is best effort and runs off the request path: the order
	// is committed whether or not the message goes out.
	go h.notifyNewOrder(order)

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": order})
}

// ListActiveOrders returns the caller's active orders.
func (h *OrderHandler) ListActiveOrders(c *fiber.Ctx) error {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "unauthorized")
	}

	var orders []models.Order
	if err := h.db.Preload("Items").
		Where("active = ?", true).
		Where("mobile_phone = ?", user.MobilePhone).
		Order("created_at desc").
		Find(&orders).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"success": true, "data": orders})
}

func (h *OrderHandler) notifyNewOrder(order models.Order) {
	ids := make([]uuid.UUID, 0, len(order.Items))
	quantities := make(map[uuid.UUID]int, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ProductID)
		quantities[item.ProductID] = item.Quantity
	}

	var products []models.Product
	if err := h.db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		log.Printf("[Order] failed to load products for notification: %v", err)
		return
	}

	notification := services.OrderNotification{
		OrderNumber: order.OrderNumber,
		MobilePhone: order.MobilePhone,
	}
	for _, product := range products {
		notification.Items = append(notification.Items, services.OrderItemNotification{
			Name:     product.Name,
			Price:    product.Price,
			Quantity: quantities[product.ID],
		})
	}

	if err := h.telegram.NotifyNewOrder(notification); err != nil {
		log.Printf("[Order] telegram notification failed for %s: %v", order.OrderNumber, err)
	}
}

// nextOrderNumber computes the successor of the most recent order number.
// Numbers have the form DDMMYYYYNNNNN; the five-digit sequence continues
// within a calendar day and resets to 1 on the first order of a new day.
func nextOrderNumber(last string, now time.Time) string {
	today := now.Format("02012006")

	sequence := 1
	if strings.HasPrefix(last, today) {
		if n, err := strconv.Atoi(last[len(today):]); err == nil {
			sequence = n + 1
		}
	}

	return fmt.Sprintf("%s%05d", today, sequence)
}

// isUniqueViolation reports whether err is a unique constraint violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return strings.Contains(err.Error(), "SQLSTATE 23505")
}
