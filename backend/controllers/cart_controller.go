package controllers

import (
	"errors"
	"strconv"

	"learnhub/backend/config"
	"learnhub/backend/middleware"
	"learnhub/backend/models"
	"learnhub/backend/services/email"
	"learnhub/backend/services/payment"
	"learnhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CartController struct {
	DB       *gorm.DB
	Cfg      *config.Config
	Payments *payment.Client
	Mailer   email.Mailer
	Logger   interface{ Printf(string, ...interface{}) }
}

func NewCartController(db *gorm.DB, cfg *config.Config, payments *payment.Client, mailer email.Mailer, logger interface{ Printf(string, ...interface{}) }) *CartController {
	return &CartController{DB: db, Cfg: cfg, Payments: payments, Mailer: mailer, Logger: logger}
}

// GetCart lists the user's cart with resolved titles and current prices.
func (cc *CartController) GetCart(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var items []models.CartItem
	if err := cc.DB.Where("user_id = ?", userID).Order("created_at ASC").Find(&items).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}

	result := make([]fiber.Map, 0, len(items))
	var total float64
	for _, item := range items {
		title, price, ok := cc.resolveItem(item.ItemType, item.ItemID)
		if !ok {
			continue // item was removed from the catalog
		}
		total += price
		result = append(result, fiber.Map{
			"id":        item.ID,
			"item_type": item.ItemType,
			"item_id":   item.ItemID,
			"title":     title,
			"price":     price,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"items": result,
		"total": total,
	})
}

type AddToCartRequest struct {
	ItemType string `json:"item_type" validate:"required,oneof=course note"`
	ItemID   uint   `json:"item_id" validate:"required"`
}

// AddToCart adds a course or note. Duplicates and already-owned items are
// rejected.
func (cc *CartController) AddToCart(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var input AddToCartRequest
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}
	if errs := utils.ValidateStruct(input); errs != nil {
		return utils.ValidationError(c, errs)
	}

	if _, _, ok := cc.resolveItem(input.ItemType, input.ItemID); !ok {
		return utils.NotFound(c, "Item not found")
	}

	if cc.owned(userID, input.ItemType, input.ItemID) {
		return utils.BadRequest(c, "Item already owned")
	}

	var count int64
	cc.DB.Model(&models.CartItem{}).
		Where("user_id = ? AND item_type = ? AND item_id = ?", userID, input.ItemType, input.ItemID).
		Count(&count)
	if count > 0 {
		return utils.BadRequest(c, "Item already in cart")
	}

	item := models.CartItem{UserID: userID, ItemType: input.ItemType, ItemID: input.ItemID}
	if err := cc.DB.Create(&item).Error; err != nil {
		return utils.InternalServerError(c, "Could not add to cart")
	}

	return utils.Created(c, item)
}

// RemoveFromCart deletes a single cart row.
func (cc *CartController) RemoveFromCart(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	itemID, err := strconv.Atoi(c.Params("itemId"))
	if err != nil {
		return utils.BadRequest(c, "Invalid cart item ID")
	}

	res := cc.DB.Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return utils.InternalServerError(c, "Could not remove from cart")
	}
	if res.RowsAffected == 0 {
		return utils.NotFound(c, "Cart item not found")
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{"deleted": itemID})
}

// Checkout turns the cart into an order, charges the payment gateway and on
// success grants enrollments and note purchases, empties the cart and sends
// a receipt.
func (cc *CartController) Checkout(c *fiber.Ctx) error {
	userID, _ := middleware.UserID(c)

	var user models.User
	if err := cc.DB.First(&user, userID).Error; err != nil {
		return utils.Unauthorized(c, "Unauthorized")
	}

	var cartItems []models.CartItem
	if err := cc.DB.Where("user_id = ?", userID).Find(&cartItems).Error; err != nil {
		return utils.InternalServerError(c, "Could not query database")
	}
	if len(cartItems) == 0 {
		return utils.BadRequest(c, "Cart is empty")
	}

	order := models.Order{
		UserID:      userID,
		OrderNumber: uuid.NewString(),
		Status:      models.OrderStatusPending,
	}
	for _, item := range cartItems {
		title, price, ok := cc.resolveItem(item.ItemType, item.ItemID)
		if !ok {
			return utils.BadRequest(c, "Cart contains an item that is no longer available")
		}
		order.Total += price
		order.Items = append(order.Items, models.OrderItem{
			ItemType: item.ItemType,
			ItemID:   item.ItemID,
			Title:    title,
			Price:    price,
		})
	}

	if err := cc.DB.Create(&order).Error; err != nil {
		return utils.InternalServerError(c, "Could not create order")
	}

	if order.Total > 0 {
		result, err := cc.Payments.Charge(payment.ChargeRequest{
			OrderNumber: order.OrderNumber,
			Amount:      order.Total,
			Currency:    "USD",
			Email:       user.Email,
		})
		if err != nil {
			cc.DB.Model(&order).Update("status", models.OrderStatusFailed)
			if errors.Is(err, payment.ErrDeclined) {
				return utils.PaymentRequired(c, "Payment was declined")
			}
			return utils.PaymentRequired(c, "Payment failed")
		}
		order.PaymentRef = result.Reference
	}

	tx := cc.DB.Begin()
	order.Status = models.OrderStatusPaid
	if err := tx.Save(&order).Error; err != nil {
		tx.Rollback()
		return utils.InternalServerError(c, "Could not finalize order")
	}
	for _, item := range order.Items {
		var err error
		switch item.ItemType {
		case models.ItemTypeCourse:
			err = tx.Create(&models.Enrollment{UserID: userID, CourseID: item.ItemID, OrderID: order.ID}).Error
		case models.ItemTypeNote:
			err = tx.Create(&models.NotePurchase{UserID: userID, NoteID: item.ItemID, OrderID: order.ID}).Error
		}
		if err != nil {
			tx.Rollback()
			return utils.InternalServerError(c, "Could not grant purchases")
		}
	}
	if err := tx.Where("user_id = ?", userID).Delete(&models.CartItem{}).Error; err != nil {
		tx.Rollback()
		return utils.InternalServerError(c, "Could not clear cart")
	}
	tx.Commit()

	if err := cc.Mailer.SendReceipt(user.Email, user.Username, &order); err != nil {
		cc.Logger.Printf("send receipt for order %s: %v", order.OrderNumber, err)
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"order_number": order.OrderNumber,
		"status":       order.Status,
		"total":        order.Total,
		"items":        order.Items,
	})
}

// resolveItem looks up the live title and effective price of a cart item.
func (cc *CartController) resolveItem(itemType string, itemID uint) (string, float64, bool) {
	switch itemType {
	case models.ItemTypeCourse:
		var course models.Course
		if err := cc.DB.First(&course, itemID).Error; err != nil || !course.IsPublished {
			return "", 0, false
		}
		return course.Title, course.EffectivePrice(), true
	case models.ItemTypeNote:
		var note models.Note
		if err := cc.DB.First(&note, itemID).Error; err != nil {
			return "", 0, false
		}
		price := note.Price
		if note.IsFree {
			price = 0
		}
		return note.Title, price, true
	}
	return "", 0, false
}

func (cc *CartController) owned(userID uint, itemType string, itemID uint) bool {
	var count int64
	switch itemType {
	case models.ItemTypeCourse:
		cc.DB.Model(&models.Enrollment{}).
			Where("user_id = ? AND course_id = ?", userID, itemID).
			Count(&count)
	case models.ItemTypeNote:
		cc.DB.Model(&models.NotePurchase{}).
			Where("user_id = ? AND note_id = ?", userID, itemID).
			Count(&count)
	}
	return count > 0
}
