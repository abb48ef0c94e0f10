package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/models"
	"github.com/hraza-dev/shopping_center/internal/util"
)

// Store composes the filtered, paginated catalog queries: products joined to
// reviews, the latest-sale row per product and the category, with aggregate
// columns embedded so each result row already carries num_reviews,
// avg_rating and the current discount.
type Store struct {
	DB *gorm.DB
}

// Filter describes one filter intent. Zero-value fields are not applied, the
// zero Filter matches every product. String matches are case-insensitive
// substring matches.
type Filter struct {
	NameContains string
	CategoryID   *uint
	// Keyword is matched across product name, description and category name.
	Keyword      string
	SizeContains string
	MinPrice     *float64
	MaxPrice     *float64
}

func (f Filter) apply(q *gorm.DB) *gorm.DB {
	if f.NameContains != "" {
		q = q.Where("LOWER(products.product_name) LIKE ?", pattern(f.NameContains))
	}
	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.Keyword != "" {
		p := pattern(f.Keyword)
		q = q.Where(
			"LOWER(products.product_name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(product_categories.category_name) LIKE ?",
			p, p, p,
		)
	}
	if f.SizeContains != "" {
		q = q.Where("LOWER(products.product_size) LIKE ?", pattern(f.SizeContains))
	}
	if f.MinPrice != nil {
		q = q.Where("products.price >= ?", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		q = q.Where("products.price <= ?", *f.MaxPrice)
	}
	return q
}

func pattern(s string) string {
	return "%" + strings.ToLower(s) + "%"
}

// ImageRef is the nested image shape of a page item.
type ImageRef struct {
	ID        uint   `json:"id"`
	ImagePath string `json:"image_path"`
}

// ProductPage is one item of a filtered page: the product, its category
// name, the full image list and the per-product aggregates. AvgRating and
// DiscountPercent stay null when the product has no reviews or no sales
// history.
type ProductPage struct {
	ID              uint       `json:"id"`
	ProductName     string     `json:"product_name"`
	Description     string     `json:"description"`
	Price           float64    `json:"price"`
	StockQuantity   int        `json:"stock_quantity"`
	ProductSize     string     `json:"product_size"`
	SKU             string     `json:"SKU"`
	TargetAudience  string     `json:"target_audience"`
	ProductColor    *string    `json:"product_color"`
	CreatedAt       time.Time  `json:"created_at"`
	CategoryID      *uint      `json:"category_id"`
	CategoryName    *string    `json:"category_name"`
	Images          []ImageRef `json:"images"`
	NumReviews      int64      `json:"num_reviews"`
	AvgRating       *float64   `json:"avg_rating"`
	DiscountPercent *float64   `json:"discount_percent"`
}

// productRow is one scanned row of the composed query, one per product.
type productRow struct {
	ID              uint
	ProductName     string
	Description     string
	Price           float64
	StockQuantity   int
	ProductSize     string
	SKU             string `gorm:"column:sku"`
	TargetAudience  string
	ProductColor    *string
	CategoryID      *uint
	CreatedAt       time.Time
	CategoryName    *string
	NumReviews      int64
	AvgRating       *float64
	DiscountPercent *float64
}

const productColumns = "products.id, products.product_name, products.description, products.price, " +
	"products.stock_quantity, products.product_size, products.sku, products.target_audience, " +
	"products.product_color, products.category_id, products.created_at"

const aggregateColumns = productColumns + ", product_categories.category_name AS category_name, " +
	"COUNT(DISTINCT reviews.id) AS num_reviews, AVG(reviews.rating) AS avg_rating, " +
	"sales.discount_percent AS discount_percent"

const groupColumns = productColumns + ", product_categories.category_name, sales.discount_percent"

// latestSaleSubquery selects, per product, the date of its most recent sale
// row; joining sales back on (product_id, max date) pulls exactly the one
// current discount row.
func (s *Store) latestSaleSubquery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Model(&models.Sale{}).
		Select("product_id, MAX(sale_date) AS max_sale_date").
		Group("product_id")
}

// aggregateQuery builds the full join topology with aggregate columns.
// Images are deliberately not joined here: the flattener loads them in a
// second query, and the fan-out would corrupt the review aggregates.
func (s *Store) aggregateQuery(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Select(aggregateColumns).
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
		Joins("LEFT JOIN (?) AS latest_sales ON latest_sales.product_id = products.id", s.latestSaleSubquery(ctx)).
		Joins("LEFT JOIN sales ON sales.product_id = products.id AND sales.sale_date = latest_sales.max_sale_date").
		Joins("LEFT JOIN product_categories ON product_categories.id = products.category_id").
		Group(groupColumns)
}

// countMatching counts distinct products matching the filter predicate. Only
// the category join can influence the predicate, so the aggregate joins are
// left out.
func (s *Store) countMatching(ctx context.Context, f Filter) (int64, error) {
	var total int64
	q := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Joins("LEFT JOIN product_categories ON product_categories.id = products.category_id").
		Distinct("products.id")
	if err := f.apply(q).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	return total, nil
}

// FilteredPage runs the composed query for one page. A filter that matches
// zero rows in total returns ErrNotFound; a window that merely starts past a
// non-empty total returns an empty page. Result order is product id
// ascending.
func (s *Store) FilteredPage(ctx context.Context, f Filter, number, startindex int) ([]ProductPage, int64, error) {
	if startindex < 0 || number <= 0 {
		return nil, 0, ErrInvalidWindow
	}

	total, err := s.countMatching(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return nil, 0, fmt.Errorf("products matching filter: %w", ErrNotFound)
	}

	limit := util.ClampWindow(startindex, number, int(total))
	if limit == 0 {
		return []ProductPage{}, total, nil
	}

	var rows []productRow
	q := f.apply(s.aggregateQuery(ctx)).
		Order("products.id ASC").
		Offset(startindex).
		Limit(limit)
	if err := q.Scan(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("filtered page: %w", err)
	}

	pages := flattenRows(rows)
	if err := s.attachImages(ctx, pages); err != nil {
		return nil, 0, err
	}
	return pages, total, nil
}

// DetailsByIDs runs the composed query for exactly the given products and
// returns them in the order of ids. The query itself sorts by product id for
// determinism; the ranking order of the caller is restored afterwards.
func (s *Store) DetailsByIDs(ctx context.Context, ids []uint) ([]ProductPage, error) {
	if len(ids) == 0 {
		return []ProductPage{}, nil
	}

	var rows []productRow
	q := s.aggregateQuery(ctx).
		Where("products.id IN ?", ids).
		Order("products.id ASC")
	if err := q.Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("product details: %w", err)
	}

	pages := flattenRows(rows)
	if err := s.attachImages(ctx, pages); err != nil {
		return nil, err
	}
	return reorderByIDs(pages, ids), nil
}

// attachImages populates the image list of every page item with a single
// relationship load, so a product reports all of its images no matter how
// the page query was shaped. Products without images keep an empty list.
func (s *Store) attachImages(ctx context.Context, pages []ProductPage) error {
	if len(pages) == 0 {
		return nil
	}

	ids := make([]uint, len(pages))
	for i := range pages {
		ids[i] = pages[i].ID
	}

	var images []models.ProductImage
	if err := s.DB.WithContext(ctx).
		Where("product_id IN ?", ids).
		Order("id ASC").
		Find(&images).Error; err != nil {
		return fmt.Errorf("load product images: %w", err)
	}

	byProduct := make(map[uint][]ImageRef, len(pages))
	for _, img := range images {
		if img.ProductID == nil {
			continue
		}
		byProduct[*img.ProductID] = append(byProduct[*img.ProductID], ImageRef{ID: img.ID, ImagePath: img.ImagePath})
	}

	for i := range pages {
		if imgs, ok := byProduct[pages[i].ID]; ok {
			pages[i].Images = imgs
		} else {
			pages[i].Images = []ImageRef{}
		}
	}
	return nil
}
