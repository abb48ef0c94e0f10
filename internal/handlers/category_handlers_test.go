package handlers_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hraza-dev/shopping_center/internal/models"
)

func TestCategoryTreeEndpoints(t *testing.T) {
	env := newTestEnv(t)
	admin := env.loginAdmin()

	rec := env.do(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"category_name": "Clothing",
	}, admin...)
	require.Equal(t, http.StatusCreated, rec.Code)
	root := decodeBody[models.ProductCategory](t, rec)

	rec = env.do(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"category_name":      "Jackets",
		"parent_category_id": root.ID,
	}, admin...)
	require.Equal(t, http.StatusCreated, rec.Code)
	child := decodeBody[models.ProductCategory](t, rec)

	// missing parent is rejected
	rec = env.do(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"category_name":      "Orphan",
		"parent_category_id": 9999,
	}, admin...)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/categories", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	tree := decodeBody[[]map[string]any](t, rec)
	require.Len(t, tree, 1)
	require.Equal(t, "Clothing", tree[0]["category_name"])
	require.Len(t, tree[0]["subcategories"], 1)

	rec = env.do(http.MethodGet, fmt.Sprintf("/api/v1/categories/%d", child.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decodeBody[struct {
		Category  map[string]any           `json:"category"`
		Ancestors []models.ProductCategory `json:"ancestors"`
	}](t, rec)
	require.Equal(t, "Jackets", detail.Category["category_name"])
	require.Len(t, detail.Ancestors, 1)
	require.Equal(t, "Clothing", detail.Ancestors[0].CategoryName)
}

func TestUpdateCategoryRejectsCycle(t *testing.T) {
	env := newTestEnv(t)
	admin := env.loginAdmin()

	root := models.ProductCategory{CategoryName: "Clothing"}
	require.NoError(t, env.DB.Create(&root).Error)
	child := models.ProductCategory{CategoryName: "Jackets", ParentCategoryID: &root.ID}
	require.NoError(t, env.DB.Create(&child).Error)

	// repointing the root below its own child must fail
	rec := env.do(http.MethodPut, fmt.Sprintf("/api/v1/admin/categories/%d", root.ID), map[string]any{
		"category_name":      "Clothing",
		"parent_category_id": child.ID,
	}, admin...)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var stored models.ProductCategory
	require.NoError(t, env.DB.First(&stored, root.ID).Error)
	require.Nil(t, stored.ParentCategoryID)
}

func TestDeleteCategoryDetachesChildren(t *testing.T) {
	env := newTestEnv(t)
	admin := env.loginAdmin()

	root := models.ProductCategory{CategoryName: "Clothing"}
	require.NoError(t, env.DB.Create(&root).Error)
	child := models.ProductCategory{CategoryName: "Jackets", ParentCategoryID: &root.ID}
	require.NoError(t, env.DB.Create(&child).Error)
	prod := models.Product{ProductName: "jacket", Price: 10, CategoryID: &root.ID}
	require.NoError(t, env.DB.Create(&prod).Error)

	rec := env.do(http.MethodDelete, fmt.Sprintf("/api/v1/admin/categories/%d", root.ID), nil, admin...)
	require.Equal(t, http.StatusNoContent, rec.Code)

	var storedChild models.ProductCategory
	require.NoError(t, env.DB.First(&storedChild, child.ID).Error)
	require.Nil(t, storedChild.ParentCategoryID)

	var storedProd models.Product
	require.NoError(t, env.DB.First(&storedProd, prod.ID).Error)
	require.Nil(t, storedProd.CategoryID)
}

func TestCategoryMutationsRequireAdmin(t *testing.T) {
	env := newTestEnv(t)
	user := env.loginUser()

	rec := env.do(http.MethodPost, "/api/v1/admin/categories", map[string]any{
		"category_name": "Nope",
	}, user...)
	require.Equal(t, http.StatusForbidden, rec.Code)

	var count int64
	require.NoError(t, env.DB.Model(&models.ProductCategory{}).Count(&count).Error)
	require.Zero(t, count)
}
