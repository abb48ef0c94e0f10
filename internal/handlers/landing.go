package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/logging"
)

// LandingHandler serves the ranked landing-page views.
type LandingHandler struct {
	Store *catalog.Store
}

func (h *LandingHandler) Featured(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "landing.featured")

	number, err := parseIntParam(c, "number")
	if err != nil {
		return err
	}
	startindex, err := parseIntParam(c, "startindex")
	if err != nil {
		return err
	}

	items, err := h.Store.FeaturedPage(ctx, number, startindex)
	if err != nil {
		l.Error("featured_failed", "error", err)
		return translate(err, "cannot load featured products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *LandingHandler) ranked(c echo.Context, name string,
	pick func(number int) ([]catalog.ProductPage, error)) error {

	l := logging.FromContext(c.Request().Context()).With("handler", name)

	number, err := parseIntParam(c, "number")
	if err != nil {
		return err
	}

	items, err := pick(number)
	if err != nil {
		l.Error("landing_view_failed", "error", err)
		return translate(err, "cannot load landing page products")
	}
	return c.JSON(http.StatusOK, items)
}

func (h *LandingHandler) DealOfTheDay(c echo.Context) error {
	ctx := c.Request().Context()
	return h.ranked(c, "landing.deal_of_the_day", func(n int) ([]catalog.ProductPage, error) {
		return h.Store.DealOfTheDay(ctx, n)
	})
}

func (h *LandingHandler) NewArrivals(c echo.Context) error {
	ctx := c.Request().Context()
	return h.ranked(c, "landing.new_arrivals", func(n int) ([]catalog.ProductPage, error) {
		return h.Store.NewArrivals(ctx, n)
	})
}

func (h *LandingHandler) RandomProducts(c echo.Context) error {
	ctx := c.Request().Context()
	return h.ranked(c, "landing.random_products", func(n int) ([]catalog.ProductPage, error) {
		return h.Store.RandomPicks(ctx, n)
	})
}

func (h *LandingHandler) TopRated(c echo.Context) error {
	ctx := c.Request().Context()
	return h.ranked(c, "landing.top_rated", func(n int) ([]catalog.ProductPage, error) {
		return h.Store.TopRated(ctx, n)
	})
}
