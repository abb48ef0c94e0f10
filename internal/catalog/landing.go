package catalog

import (
	"context"
	"fmt"

	"github.com/hraza-dev/shopping_center/internal/models"
)

const featuredSQL = `
SELECT ` + aggregateColumns + `,
       ranked.rownum AS rownum,
       product_images.id AS image_id,
       product_images.image_path AS image_path
FROM products
JOIN (
    SELECT product_id, ROW_NUMBER() OVER (ORDER BY id) AS rownum
    FROM featured_products
) AS ranked ON ranked.product_id = products.id
LEFT JOIN product_images ON product_images.product_id = products.id
LEFT JOIN reviews ON reviews.product_id = products.id
LEFT JOIN (
    SELECT product_id, MAX(sale_date) AS max_sale_date
    FROM sales GROUP BY product_id
) AS latest_sales ON latest_sales.product_id = products.id
LEFT JOIN sales ON sales.product_id = products.id AND sales.sale_date = latest_sales.max_sale_date
LEFT JOIN product_categories ON product_categories.id = products.category_id
WHERE ranked.rownum BETWEEN ? AND ?
GROUP BY ` + groupColumns + `, ranked.rownum, product_images.id, product_images.image_path
ORDER BY ranked.rownum, products.id, product_images.id`

// FeaturedPage returns the featured products ranked by insertion order of
// their featured marker. The rank window is 1-based: startindex 1 is the
// first featured product. Unlike the filter pages the image join stays in
// the query; the accumulator regroups the fan-out.
func (s *Store) FeaturedPage(ctx context.Context, number, startindex int) ([]RankedItem, error) {
	if number <= 0 {
		return nil, ErrInvalidWindow
	}
	if startindex < 1 {
		startindex = 1
	}

	var rows []rankedRow
	if err := s.DB.WithContext(ctx).
		Raw(featuredSQL, startindex, startindex+number-1).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("featured page: %w", err)
	}
	return accumulateRanked(rows), nil
}

// DealOfTheDay returns up to number products ranked by most recent discount:
// the candidate ids come from the sales history ordered by sale date
// descending, the details are re-queried and put back into ranking order.
func (s *Store) DealOfTheDay(ctx context.Context, number int) ([]ProductPage, error) {
	if number <= 0 {
		return nil, ErrInvalidWindow
	}

	var ids []uint
	if err := s.DB.WithContext(ctx).
		Model(&models.Sale{}).
		Joins("JOIN products ON products.id = sales.product_id").
		Order("sales.sale_date DESC").
		Limit(number).
		Pluck("products.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("deal of the day: %w", err)
	}
	return s.DetailsByIDs(ctx, ids)
}

// NewArrivals returns up to number products ranked by creation time
// descending, newest first.
func (s *Store) NewArrivals(ctx context.Context, number int) ([]ProductPage, error) {
	if number <= 0 {
		return nil, ErrInvalidWindow
	}

	var ids []uint
	if err := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Order("created_at DESC, id DESC").
		Limit(number).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("new arrivals: %w", err)
	}
	return s.DetailsByIDs(ctx, ids)
}

// RandomPicks returns up to number random products for the landing page.
func (s *Store) RandomPicks(ctx context.Context, number int) ([]ProductPage, error) {
	if number <= 0 {
		return nil, ErrInvalidWindow
	}

	var ids []uint
	if err := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Order("RANDOM()").
		Limit(number).
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("random picks: %w", err)
	}
	return s.DetailsByIDs(ctx, ids)
}

// TopRated returns up to number products ranked by average review rating
// descending; products without reviews rank last.
func (s *Store) TopRated(ctx context.Context, number int) ([]ProductPage, error) {
	if number <= 0 {
		return nil, ErrInvalidWindow
	}

	var ids []uint
	if err := s.DB.WithContext(ctx).
		Model(&models.Product{}).
		Joins("LEFT JOIN reviews ON reviews.product_id = products.id").
		Group("products.id").
		Order("COALESCE(AVG(reviews.rating), 0) DESC, products.id ASC").
		Limit(number).
		Pluck("products.id", &ids).Error; err != nil {
		return nil, fmt.Errorf("top rated: %w", err)
	}
	return s.DetailsByIDs(ctx, ids)
}
