package cart

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/logging"
	authmw "github.com/hraza-dev/shopping_center/internal/middleware/auth"
	"github.com/hraza-dev/shopping_center/internal/models"
	"github.com/hraza-dev/shopping_center/internal/mykafka"
)

type CartHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var items []models.Cart
	if err := h.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read cart")
	}

	return c.JSON(http.StatusOK, items)
}

// AddToCart merges repeated adds of the same product into one row by summing
// quantities.
func (h *CartHandler) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Quantity < 1 {
		req.Quantity = 1
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).First(&prod, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity, "product does not exist")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
	}

	var item models.Cart
	tx := h.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		First(&item)
	if tx.Error == nil {
		item.Quantity += req.Quantity
		if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
		}
		h.publish(c, map[string]any{
			"type":      "cart_item_added",
			"userID":    userID,
			"productID": req.ProductID,
			"quantity":  item.Quantity,
		})
		return c.JSON(http.StatusOK, item)
	}
	if !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read cart")
	}

	item = models.Cart{
		UserID:    userID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	}
	if err := h.DB.WithContext(ctx).Create(&item).Error; err != nil {
		l.Error("cart_add_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot add to cart")
	}

	h.publish(c, map[string]any{
		"type":      "cart_item_added",
		"userID":    userID,
		"productID": req.ProductID,
		"quantity":  item.Quantity,
	})
	return c.JSON(http.StatusCreated, item)
}

// DeleteOneFromCart decrements the row's quantity, removing the row entirely
// when it hits zero.
func (h *CartHandler) DeleteOneFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	var item models.Cart
	if err := h.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "cart item not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read cart")
	}

	if item.Quantity > 1 {
		item.Quantity--
		if err := h.DB.WithContext(ctx).Save(&item).Error; err != nil {
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot update cart")
		}
		h.publish(c, map[string]any{
			"type":         "cart_item_decremented",
			"userID":       userID,
			"id":           item.ID,
			"new_quantity": item.Quantity,
		})
		return c.JSON(http.StatusOK, item)
	}

	if err := h.DB.WithContext(ctx).Delete(&item).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete cart item")
	}

	h.publish(c, map[string]any{
		"type":         "cart_item_deleted",
		"userID":       userID,
		"deleted_item": id,
	})
	return c.JSON(http.StatusOK, map[string]any{"deleted_item": id})
}

func (h *CartHandler) DeleteAllFromCart(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	id, err := parseID(c)
	if err != nil {
		return err
	}

	if err := h.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Cart{}).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot delete cart item")
	}

	var remaining []models.Cart
	if err := h.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&remaining).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read cart")
	}

	h.publish(c, map[string]any{
		"type":         "cart_item_deleted",
		"userID":       userID,
		"deleted_item": id,
		"remaining":    len(remaining),
	})
	return c.JSON(http.StatusOK, remaining)
}

// Checkout converts every cart row into a pending purchase and clears the
// cart, all in one transaction.
func (h *CartHandler) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.checkout")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var (
		purchases []models.UserPurchase
		total     float64
	)

	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var items []models.Cart
		if err := tx.Where("user_id = ?", userID).Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return echo.NewHTTPError(http.StatusBadRequest, "no items in cart")
		}

		purchases = make([]models.UserPurchase, 0, len(items))
		for _, it := range items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return echo.NewHTTPError(http.StatusUnprocessableEntity, "product no longer exists")
				}
				return err
			}
			total += float64(it.Quantity) * p.Price

			for i := 0; i < it.Quantity; i++ {
				purchase := models.UserPurchase{
					UserID:    userID,
					ProductID: it.ProductID,
					Status:    "pending",
				}
				if err := tx.Create(&purchase).Error; err != nil {
					return err
				}
				purchases = append(purchases, purchase)
			}
		}

		return tx.Where("user_id = ?", userID).Delete(&models.Cart{}).Error
	})
	if txErr != nil {
		var he *echo.HTTPError
		if errors.As(txErr, &he) {
			return he
		}
		l.Error("checkout_failed", "error", txErr)
		return echo.NewHTTPError(http.StatusInternalServerError, "checkout failed")
	}

	h.publish(c, map[string]any{
		"type":      "order_created",
		"userID":    userID,
		"total":     total,
		"purchases": len(purchases),
	})

	l.Info("checkout_success", "user_id", userID, "purchases", len(purchases))
	return c.JSON(http.StatusOK, map[string]any{
		"total":     total,
		"status":    "pending",
		"purchases": purchases,
	})
}
