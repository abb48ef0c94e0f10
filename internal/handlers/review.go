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

type ReviewHandler struct {
	DB *gorm.DB
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.create")

	userID, err := authmw.UserID(c)
	if err != nil {
		return err
	}

	var req struct {
		ProductID uint   `json:"product_id"`
		Rating    int    `json:"rating"`
		Comment   string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Rating < 1 || req.Rating > 5 {
		return echo.NewHTTPError(http.StatusBadRequest, "rating must be between 1 and 5")
	}

	review := models.Review{
		ProductID: &req.ProductID,
		UserID:    &userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	}
	if err := h.DB.WithContext(ctx).Create(&review).Error; err != nil {
		l.Error("review_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create review")
	}

	l.Info("review_create_success", "id", review.ID)
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "review.update")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req struct {
		Rating  int    `json:"rating"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var review models.Review
	if err := h.DB.WithContext(ctx).First(&review, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("review with id %d does not exist", id))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read review")
	}

	review.Rating = req.Rating
	review.Comment = req.Comment
	if err := h.DB.WithContext(ctx).Save(&review).Error; err != nil {
		l.Error("review_update_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot update review")
	}

	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	res := h.DB.WithContext(ctx).Delete(&models.Review{}, id)
	if res.Error != nil {
		return translate(catalog.ClassifyWriteError(res.Error), "cannot delete review")
	}
	if res.RowsAffected == 0 {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("review with id %d does not exist", id))
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReviewHandler) GetProductReviews(c echo.Context) error {
	ctx := c.Request().Context()

	productID, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var reviews []models.Review
	if err := h.DB.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("id ASC").
		Find(&reviews).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read reviews")
	}

	return c.JSON(http.StatusOK, reviews)
}
