package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/logging"
	authmw "github.com/hraza-dev/shopping_center/internal/middleware/auth"
	"github.com/hraza-dev/shopping_center/internal/models"
)

type PurchaseHandler struct {
	DB *gorm.DB
}

var purchaseStatuses = map[string]bool{
	"pending":   true,
	"paid":      true,
	"shipped":   true,
	"delivered": true,
	"cancelled": true,
}

func (h *PurchaseHandler) CreatePurchase(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.create")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).First(&prod, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("product %d does not exist", req.ProductID))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
	}

	purchase := models.UserPurchase{
		UserID:    userID,
		ProductID: req.ProductID,
		Status:    "pending",
	}
	if err := h.DB.WithContext(ctx).Create(&purchase).Error; err != nil {
		l.Error("purchase_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create purchase")
	}

	l.Info("purchase_create_success", "id", purchase.ID, "product_id", req.ProductID)
	return c.JSON(http.StatusCreated, purchase)
}

func (h *PurchaseHandler) GetPurchases(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var purchases []models.UserPurchase
	if err := h.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Find(&purchases).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read purchases")
	}
	return c.JSON(http.StatusOK, purchases)
}

// UpdatePurchaseStatus is an admin operation that moves an order through its
// lifecycle.
func (h *PurchaseHandler) UpdatePurchaseStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "purchase.status")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !purchaseStatuses[req.Status] {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown purchase status")
	}

	var purchase models.UserPurchase
	if err := h.DB.WithContext(ctx).First(&purchase, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("purchase with id %d does not exist", id))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read purchase")
	}

	purchase.Status = req.Status
	if err := h.DB.WithContext(ctx).Save(&purchase).Error; err != nil {
		l.Error("purchase_status_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot update purchase")
	}

	return c.JSON(http.StatusOK, purchase)
}
