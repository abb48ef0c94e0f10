package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/logging"
	"github.com/hraza-dev/shopping_center/internal/models"
)

type BannerHandler struct {
	DB *gorm.DB
}

func (h *BannerHandler) CreateBanner(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "banner.create")

	var req struct {
		Title     string `json:"title"`
		ImagePath string `json:"image_path"`
		ProductID *uint  `json:"product_id"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.ImagePath == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "image_path is required")
	}

	banner := models.Banner{
		Title:     req.Title,
		ImagePath: req.ImagePath,
		ProductID: req.ProductID,
	}
	if err := h.DB.WithContext(ctx).Create(&banner).Error; err != nil {
		l.Error("banner_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create banner")
	}

	return c.JSON(http.StatusCreated, banner)
}

func (h *BannerHandler) DeleteBanner(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	res := h.DB.WithContext(ctx).Delete(&models.Banner{}, id)
	if res.Error != nil {
		return translate(catalog.ClassifyWriteError(res.Error), "cannot delete banner")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("banner with id %d does not exist", id))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *BannerHandler) GetBanners(c echo.Context) error {
	ctx := c.Request().Context()

	var banners []models.Banner
	if err := h.DB.WithContext(ctx).Order("id ASC").Find(&banners).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read banners")
	}
	return c.JSON(http.StatusOK, banners)
}
