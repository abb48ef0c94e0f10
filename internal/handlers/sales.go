package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/logging"
	"github.com/hraza-dev/shopping_center/internal/models"
)

type SaleHandler struct {
	DB *gorm.DB
}

// CreateSale appends a discount row to the product's sales history. The sale
// date defaults to now; the newest row per product is the current discount.
func (h *SaleHandler) CreateSale(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sale.create")

	var req struct {
		ProductID       uint       `json:"product_id"`
		DiscountPercent float64    `json:"discount_percent"`
		SaleDate        *time.Time `json:"sale_date"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return echo.NewHTTPError(http.StatusBadRequest, "discount_percent must be between 0 and 100")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).First(&prod, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("product %d does not exist", req.ProductID))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
	}

	saleDate := time.Now()
	if req.SaleDate != nil {
		saleDate = *req.SaleDate
	}

	sale := models.Sale{
		ProductID:       &req.ProductID,
		DiscountPercent: req.DiscountPercent,
		SaleDate:        saleDate,
	}
	if err := h.DB.WithContext(ctx).Create(&sale).Error; err != nil {
		l.Error("sale_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create sale")
	}

	l.Info("sale_create_success", "id", sale.ID, "product_id", req.ProductID)
	return c.JSON(http.StatusCreated, sale)
}

func (h *SaleHandler) UpdateSale(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "sale.update")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		DiscountPercent float64 `json:"discount_percent"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var sale models.Sale
	if err := h.DB.WithContext(ctx).First(&sale, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("sale with id %d does not exist", id))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read sale")
	}

	sale.DiscountPercent = req.DiscountPercent
	if err := h.DB.WithContext(ctx).Save(&sale).Error; err != nil {
		l.Error("sale_update_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot update sale")
	}

	return c.JSON(http.StatusOK, sale)
}

func (h *SaleHandler) DeleteSale(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	res := h.DB.WithContext(ctx).Delete(&models.Sale{}, id)
	if res.Error != nil {
		return translate(catalog.ClassifyWriteError(res.Error), "cannot delete sale")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("sale with id %d does not exist", id))
	}
	return c.NoContent(http.StatusNoContent)
}
