package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/logging"
	"github.com/hraza-dev/shopping_center/internal/models"
	"github.com/hraza-dev/shopping_center/internal/mykafka"
	"github.com/hraza-dev/shopping_center/internal/util"
)

type ProductHandler struct {
	DB       *gorm.DB
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	Index    string
}

type productRequest struct {
	ProductName    string  `json:"product_name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	StockQuantity  int     `json:"stock_quantity"`
	ProductSize    string  `json:"product_size"`
	SKU            string  `json:"SKU"`
	TargetAudience string  `json:"target_audience"`
	ProductColor   *string `json:"product_color"`
	CategoryID     *uint   `json:"category_id"`
}

func (h *ProductHandler) publish(c echo.Context, event map[string]any) {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if err := h.Producer.PublishEvent(ctx, "product_events", fmt.Sprint(event["productID"]), event); err != nil {
		c.Logger().Errorf("Kafka publish error: %v", err)
	}
}

// indexProduct mirrors the product into the search index, best effort.
func (h *ProductHandler) indexProduct(c echo.Context, prod *models.Product) {
	if h.ES == nil {
		return
	}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(prod); err != nil {
		c.Logger().Errorf("ES encode error: %v", err)
		return
	}
	res, err := h.ES.Index(
		h.Index,
		&buf,
		h.ES.Index.WithDocumentID(strconv.FormatUint(uint64(prod.ID), 10)),
		h.ES.Index.WithContext(c.Request().Context()),
	)
	if err != nil {
		c.Logger().Errorf("ES index error: %v", err)
		return
	}
	res.Body.Close()
}

func (h *ProductHandler) deindexProduct(c echo.Context, id uint) {
	if h.ES == nil {
		return
	}
	res, err := h.ES.Delete(
		h.Index,
		strconv.FormatUint(uint64(id), 10),
		h.ES.Delete.WithContext(c.Request().Context()),
	)
	if err != nil {
		c.Logger().Errorf("ES delete error: %v", err)
		return
	}
	res.Body.Close()
}

func (h *ProductHandler) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_product")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var product models.Product
	if err := h.DB.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			l.Warn("get_product_failed", "status", 404, "id", id)
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product with id %d does not exist", id))
		}
		l.Error("get_product_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
	}

	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandler) GetProducts(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get_products")

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	var total int64
	if err := h.DB.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot count products")
	}

	var items []models.Product
	if err := h.DB.WithContext(ctx).Model(&models.Product{}).
		Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		l.Error("get_products_failed", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot list products")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"data": items,
		"meta": map[string]any{
			"page":        page,
			"size":        limit,
			"total":       total,
			"total_pages": (total + int64(limit) - 1) / int64(limit),
			"has_prev":    page > 1,
			"has_next":    int64(offset+limit) < total,
		},
	})
}

func (h *ProductHandler) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create_product")

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	prod := models.Product{
		ProductName:    req.ProductName,
		Description:    req.Description,
		Price:          req.Price,
		StockQuantity:  req.StockQuantity,
		ProductSize:    req.ProductSize,
		SKU:            req.SKU,
		TargetAudience: req.TargetAudience,
		ProductColor:   req.ProductColor,
		CategoryID:     req.CategoryID,
	}

	if err := h.DB.WithContext(ctx).Create(&prod).Error; err != nil {
		l.Error("product_create_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot create product")
	}

	h.indexProduct(c, &prod)
	h.publish(c, map[string]any{
		"type":      "product_created",
		"productID": prod.ID,
		"name":      prod.ProductName,
	})
	l.Info("create_product_success", "id", prod.ID)
	return c.JSON(http.StatusCreated, prod)
}

func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update_product")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	var prod models.Product
	if err := h.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product with id %d does not exist", id))
		}
		l.Error("product_update_failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "cannot read product")
	}

	prod.ProductName = req.ProductName
	prod.Description = req.Description
	prod.Price = req.Price
	prod.StockQuantity = req.StockQuantity
	prod.ProductSize = req.ProductSize
	prod.SKU = req.SKU
	prod.TargetAudience = req.TargetAudience
	prod.ProductColor = req.ProductColor
	prod.CategoryID = req.CategoryID

	if err := h.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		l.Error("product_update_failed", "error", err)
		return translate(catalog.ClassifyWriteError(err), "cannot update product")
	}

	h.indexProduct(c, &prod)
	h.publish(c, map[string]any{
		"type":      "product_updated",
		"productID": prod.ID,
		"name":      prod.ProductName,
	})
	l.Info("update_product_success", "id", prod.ID)
	return c.JSON(http.StatusOK, prod)
}

// DeleteProduct removes the product and cascades to its images, cart lines
// and favorites in one transaction. Reviews, sales and purchase history keep
// their rows with the product reference nulled.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete_product")

	id, err := parseUintParam(c, "id")
	if err != nil {
		return err
	}

	txErr := h.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Product{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return catalog.ErrNotFound
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Cart{}).Error; err != nil {
			return err
		}
		if err := tx.Where("product_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Review{}).Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Sale{}).Where("product_id = ?", id).
			Update("product_id", nil).Error; err != nil {
			return err
		}
		return tx.Where("product_id = ?", id).Delete(&models.FeaturedProduct{}).Error
	})
	if txErr != nil {
		if errors.Is(txErr, catalog.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("product with id %d does not exist", id))
		}
		l.Error("product_delete_failed", "error", txErr)
		return translate(catalog.ClassifyWriteError(txErr), "cannot delete product")
	}

	h.deindexProduct(c, id)
	h.publish(c, map[string]any{
		"type":      "product_deleted",
		"productID": id,
	})
	l.Info("delete_product_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
