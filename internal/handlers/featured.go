package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/logging"
	"github.com/hraza-dev/shopping_center/internal/models"
)

type FeaturedHandler struct {
	DB *gorm.DB
}

// CreateFeatured marks a product as featured; the insertion order of the
// markers is the ranking order of the featured view.
func (h *FeaturedHandler) CreateFeatured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "featured.create")

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

	featured := models.FeaturedProduct{ProductID: req.ProductID}
	if err := h.DB.WithContext(ctx).Create(&featured).Error; err != nil {
		l.Error("featured_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create featured product")
	}

	return c.JSON(http.StatusCreated, featured)
}

func (h *FeaturedHandler) DeleteFeatured(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	res := h.DB.WithContext(ctx).Delete(&models.FeaturedProduct{}, id)
	if res.Error != nil {
		return translate(catalog.ClassifyWriteError(res.Error), "cannot delete featured product")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("featured product with id %d does not exist", id))
	}
	return c.NoContent(http.StatusNoContent)
}
