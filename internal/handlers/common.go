package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/hraza-dev/shopping_center/internal/catalog"
)

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}

func parseUintParam(c echo.Context, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is not a valid id")
	}
	return uint(v), nil
}

func parseIntParam(c echo.Context, name string) (int, error) {
	v, err := strconv.Atoi(c.Param(name))
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" is not an integer")
	}
	return v, nil
}

// translate maps the catalog error taxonomy onto HTTP errors: not-found 404,
// constraint violations 422, forbidden 403, bad windows 400, the rest 500.
func translate(err error, msg string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, catalog.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, msg)
	case errors.Is(err, catalog.ErrConstraint):
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "foreign key or uniqueness constraint violation")
	case errors.Is(err, catalog.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, "not enough rights")
	case errors.Is(err, catalog.ErrInvalidWindow):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid pagination window")
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, msg)
	}
}
