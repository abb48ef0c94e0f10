package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hraza-dev/shopping_center/internal/models"
)

func TestGetProduct(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("test product", 9.99)

	rec := env.do(http.MethodGet, fmt.Sprintf("/api/v1/products/%d", p.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	got := decodeBody[models.Product](t, rec)
	require.Equal(t, p.ID, got.ID)
	require.Equal(t, "test product", got.ProductName)

	rec = env.do(http.MethodGet, "/api/v1/products/9999", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetProductsPagination(t *testing.T) {
	env := newTestEnv(t)
	for i := 0; i < 15; i++ {
		env.createProduct(fmt.Sprintf("product %02d", i), float64(i))
	}

	rec := env.do(http.MethodGet, "/api/v1/products?page=2&size=10", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeBody[struct {
		Data []models.Product `json:"data"`
		Meta struct {
			Total      int64 `json:"total"`
			TotalPages int64 `json:"total_pages"`
			HasNext    bool  `json:"has_next"`
			HasPrev    bool  `json:"has_prev"`
		} `json:"meta"`
	}](t, rec)
	require.Len(t, resp.Data, 5)
	require.EqualValues(t, 15, resp.Meta.Total)
	require.EqualValues(t, 2, resp.Meta.TotalPages)
	require.True(t, resp.Meta.HasPrev)
	require.False(t, resp.Meta.HasNext)
}

func TestCreateProduct(t *testing.T) {
	env := newTestEnv(t)
	admin := env.loginAdmin()

	rec := env.do(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"product_name":   "created product",
		"description":    "desc",
		"price":          42.5,
		"stock_quantity": 7,
		"SKU":            "SKU-42",
	}, admin...)
	require.Equal(t, http.StatusCreated, rec.Code)

	got := decodeBody[models.Product](t, rec)
	require.NotZero(t, got.ID)
	require.Equal(t, "created product", got.ProductName)
	require.Equal(t, "SKU-42", got.SKU)

	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.EqualValues(t, 1, count)
}

func TestCreateProductForbiddenForUser(t *testing.T) {
	env := newTestEnv(t)
	user := env.loginUser()

	rec := env.do(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"product_name": "should not exist",
		"price":        1,
	}, user...)
	require.Equal(t, http.StatusForbidden, rec.Code)

	// the gate fires before the handler, so no row was written
	var count int64
	require.NoError(t, env.DB.Model(&models.Product{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestCreateProductUnauthenticated(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodPost, "/api/v1/admin/products", map[string]any{
		"product_name": "should not exist",
		"price":        1,
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProduct(t *testing.T) {
	env := newTestEnv(t)
	admin := env.loginAdmin()
	p := env.createProduct("before", 10)

	rec := env.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/products/%d", p.ID), map[string]any{
		"product_name": "after",
		"price":        20,
	}, admin...)
	require.Equal(t, http.StatusOK, rec.Code)

	var stored models.Product
	require.NoError(t, env.DB.First(&stored, p.ID).Error)
	require.Equal(t, "after", stored.ProductName)
	require.InDelta(t, 20, stored.Price, 1e-9)

	rec = env.do(http.MethodPut, "/api/v1/admin/products/9999", map[string]any{
		"product_name": "ghost",
	}, admin...)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProductCascades(t *testing.T) {
	env := newTestEnv(t)
	admin := env.loginAdmin()
	p := env.createProduct("doomed", 10)

	require.NoError(t, env.DB.Create(&models.ProductImage{ProductID: &p.ID, ImagePath: "/img/a.jpg"}).Error)
	require.NoError(t, env.DB.Create(&models.Cart{UserID: 1, ProductID: p.ID, Quantity: 2}).Error)
	require.NoError(t, env.DB.Create(&models.Favorite{UserID: 1, ProductID: p.ID}).Error)
	require.NoError(t, env.DB.Create(&models.Review{ProductID: &p.ID, Rating: 5}).Error)
	require.NoError(t, env.DB.Create(&models.FeaturedProduct{ProductID: p.ID}).Error)

	rec := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d", p.ID), nil, admin...)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var imgCount, cartCount, favCount, featCount int64
	env.DB.Model(&models.ProductImage{}).Where("product_id = ?", p.ID).Count(&imgCount)
	env.DB.Model(&models.Cart{}).Where("product_id = ?", p.ID).Count(&cartCount)
	env.DB.Model(&models.Favorite{}).Where("product_id = ?", p.ID).Count(&favCount)
	env.DB.Model(&models.FeaturedProduct{}).Where("product_id = ?", p.ID).Count(&featCount)
	require.Zero(t, imgCount)
	require.Zero(t, cartCount)
	require.Zero(t, favCount)
	require.Zero(t, featCount)

	// the review survives with its product reference cleared
	var review models.Review
	require.NoError(t, env.DB.First(&review).Error)
	require.Nil(t, review.ProductID)

	rec = env.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/products/%d", p.ID), nil, admin...)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestProductFilterRoutes(t *testing.T) {
	env := newTestEnv(t)

	// empty catalog: a filter that matches nothing is a 404
	rec := env.do(http.MethodGet, "/api/v1/productfilter/getproducts/10/0", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	env.createProduct("alpha shirt", 10)
	env.createProduct("beta shirt", 20)

	rec = env.do(http.MethodGet, "/api/v1/productfilter/getproducts/10/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[[]map[string]any](t, rec)
	require.Len(t, items, 2)

	rec = env.do(http.MethodGet, "/api/v1/productfilter/getbyname/alpha/10/0", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items = decodeBody[[]map[string]any](t, rec)
	require.Len(t, items, 1)
	require.Equal(t, "alpha shirt", items[0]["product_name"])

	// window past the end of a non-empty match set is an empty page
	rec = env.do(http.MethodGet, "/api/v1/productfilter/getproducts/10/50", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items = decodeBody[[]map[string]any](t, rec)
	require.Empty(t, items)
}

func TestLandingRoutes(t *testing.T) {
	env := newTestEnv(t)
	p := env.createProduct("landing product", 10)
	require.NoError(t, env.DB.Create(&models.FeaturedProduct{ProductID: p.ID}).Error)

	rec := env.do(http.MethodGet, "/api/v1/landingpage/featured/10/1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	items := decodeBody[[]map[string]any](t, rec)
	require.Len(t, items, 1)
	require.EqualValues(t, 1, items[0]["rank"])

	rec = env.do(http.MethodGet, "/api/v1/landingpage/newarrivals/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/landingpage/toprated/5", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}
