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

type FavoriteHandler struct {
	DB *gorm.DB
}

func (h *FavoriteHandler) CreateFavorite(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "favorite.create")

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

	// Re-favoriting an already favorited product is a no-op.
	var fav models.Favorite
	err = h.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, req.ProductID).
		First(&fav).Error
	if err == nil {
		return c.JSON(http.StatusOK, fav)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read favorites")
	}

	fav = models.Favorite{UserID: userID, ProductID: req.ProductID}
	if err := h.DB.WithContext(ctx).Create(&fav).Error; err != nil {
		l.Error("favorite_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create favorite")
	}

	return c.JSON(http.StatusCreated, fav)
}

func (h *FavoriteHandler) DeleteFavorite(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	productID, err := parseUintParam(c, "product_id")
	if err != nil {
		return err
	}

	res := h.DB.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return translate(catalog.ClassifyWriteError(res.Error), "cannot delete favorite")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound,
			fmt.Sprintf("product %d is not in favorites", productID))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FavoriteHandler) GetFavorites(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var favs []models.Favorite
	if err := h.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&favs).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read favorites")
	}
	return c.JSON(http.StatusOK, favs)
}
