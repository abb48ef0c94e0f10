package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/logging"
)

// FilterHandler serves the filtered product pages: every endpoint takes a
// page window (number, startindex) from the path and answers with a list of
// nested product items carrying images and aggregates.
type FilterHandler struct {
	Store *catalog.Store
}

func (h *FilterHandler) page(c echo.Context, name string, f catalog.Filter) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", name)

	number, err := parseIntParam(c, "number")
	if err != nil {
		return err
	}
	startindex, err := parseIntParam(c, "startindex")
	if err != nil {
		return err
	}

	items, total, err := h.Store.FilteredPage(ctx, f, number, startindex)
	if err != nil {
		l.Warn("filter_page_failed", "error", err)
		return translate(err, "products not found")
	}

	l.Info("filter_page_success", "items", len(items), "total", total)
	return c.JSON(http.StatusOK, items)
}

func (h *FilterHandler) GetProducts(c echo.Context) error {
	return h.page(c, "filter.get_products", catalog.Filter{})
}

func (h *FilterHandler) GetByName(c echo.Context) error {
	return h.page(c, "filter.get_by_name", catalog.Filter{
		NameContains: c.Param("product_name"),
	})
}

func (h *FilterHandler) GetByCategory(c echo.Context) error {
	categoryID, err := parseUintParam(c, "category_id")
	if err != nil {
		return err
	}
	return h.page(c, "filter.get_by_category", catalog.Filter{
		CategoryID: &categoryID,
	})
}

func (h *FilterHandler) GetByCategoryKeyword(c echo.Context) error {
	categoryID, err := parseUintParam(c, "category_id")
	if err != nil {
		return err
	}
	return h.page(c, "filter.get_by_category_keyword", catalog.Filter{
		CategoryID:   &categoryID,
		NameContains: c.Param("search_keyword"),
	})
}

func (h *FilterHandler) SearchBySize(c echo.Context) error {
	return h.page(c, "filter.search_by_size", catalog.Filter{
		SizeContains: c.Param("product_size"),
	})
}

func (h *FilterHandler) FilterByPrice(c echo.Context) error {
	minPrice, err := strconv.ParseFloat(c.Param("min_price"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "min_price is not a number")
	}
	maxPrice, err := strconv.ParseFloat(c.Param("max_price"), 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "max_price is not a number")
	}
	return h.page(c, "filter.filter_by_price", catalog.Filter{
		NameContains: c.Param("product_name"),
		MinPrice:     &minPrice,
		MaxPrice:     &maxPrice,
	})
}

// FilterWithReviews is the keyword search across product name, description
// and category name.
func (h *FilterHandler) FilterWithReviews(c echo.Context) error {
	return h.page(c, "filter.filter_with_reviews", catalog.Filter{
		Keyword: c.Param("search_keyword"),
	})
}
