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

type ImageHandler struct {
	DB *gorm.DB
}

func (h *ImageHandler) CreateImage(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "image.create")

	var req struct {
		ProductID uint   `json:"product_id"`
		ImagePath string `json:"image_path"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ImagePath == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "image_path is required")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).First(&prod, req.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusUnprocessableEntity,
				fmt.Sprintf("product %d does not exist", req.ProductID))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
	}

	img := models.ProductImage{
		ProductID: &req.ProductID,
		ImagePath: req.ImagePath,
	}
	if err := h.DB.WithContext(ctx).Create(&img).Error; err != nil {
		l.Error("image_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create image")
	}

	return c.JSON(http.StatusCreated, img)
}

func (h *ImageHandler) DeleteImage(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	res := h.DB.WithContext(ctx).Delete(&models.ProductImage{}, id)
	if res.Error != nil {
		return translate(catalog.ClassifyWriteError(res.Error), "cannot delete image")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("image with id %d does not exist", id))
	}
	return c.NoContent(http.StatusNoContent)
}
