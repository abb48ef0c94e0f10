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

type CategoryHandler struct {
	DB *gorm.DB
}

type categoryRequest struct {
	CategoryName     string `json:"category_name"`
	ParentCategoryID *uint  `json:"parent_category_id"`
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if req.ParentCategoryID != nil {
		var parent models.ProductCategory
		if err := h.DB.WithContext(ctx).First(&parent, *req.ParentCategoryID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return echo.NewHTTPError(http.StatusUnprocessableEntity,
					fmt.Sprintf("parent category %d does not exist", *req.ParentCategoryID))
			}
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot read parent category")
		}
	}

	cat := models.ProductCategory{
		CategoryName:     req.CategoryName,
		ParentCategoryID: req.ParentCategoryID,
	}
	if err := h.DB.WithContext(ctx).Create(&cat).Error; err != nil {
		l.Error("category_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create category")
	}

	l.Info("category_create_success", "id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

// UpdateCategory rewrites name and parent link. The parent link is checked
// against the whole category set first: the tree must stay acyclic.
func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var cat models.ProductCategory
	if err := h.DB.WithContext(ctx).First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("category with id %d does not exist", id))
		}
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read category")
	}

	var all []models.ProductCategory
	if err := h.DB.WithContext(ctx).Find(&all).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read categories")
	}
	if catalog.WouldCreateCycle(all, id, req.ParentCategoryID) {
		l.Warn("category_update_rejected", "id", id, "reason", "cycle")
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "parent link would create a category cycle")
	}

	cat.CategoryName = req.CategoryName
	cat.ParentCategoryID = req.ParentCategoryID
	if err := h.DB.WithContext(ctx).Save(&cat).Error; err != nil {
		l.Error("category_update_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot update category")
	}

	l.Info("category_update_success", "id", id)
	return c.JSON(http.StatusOK, cat)
}

// DeleteCategory removes the category; children and products keep their rows
// with the reference nulled.
func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.ProductCategory{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return catalog.ErrNotFound
		}
		if err := tx.Model(&models.ProductCategory{}).
			Where("parent_category_id = ?", id).
			Update("parent_category_id", nil).Error; err != nil {
			return err
		}
		return tx.Model(&models.Product{}).
			Where("category_id = ?", id).
			Update("category_id", nil).Error
	})
	if txErr != nil {
		if errors.Is(txErr, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("category with id %d does not exist", id))
		}
		l.Error("category_delete_failed", "error", txErr)
		return translate(catalog.ClassifyWriteError(txErr), "cannot delete category")
	}

	l.Info("category_delete_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CategoryHandler) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()

	var all []models.ProductCategory
	if err := h.DB.WithContext(ctx).Order("id ASC").Find(&all).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read categories")
	}

	return c.JSON(http.StatusOK, catalog.BuildCategoryTree(all))
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var all []models.ProductCategory
	if err := h.DB.WithContext(ctx).Order("id ASC").Find(&all).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read categories")
	}

	node, ok := catalog.Subtree(all, id)
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("category with id %d does not exist", id))
	}

	return c.JSON(http.StatusOK, map[string]any{
		"category":  node,
		"ancestors": catalog.Ancestors(all, id),
	})
}
