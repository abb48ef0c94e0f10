package catalog

// flattenRows regroups the scanned rows into one page item per distinct
// product id, preserving first-seen order. The page query already yields one
// row per product, but the dedup guard stays: a topology change upstream
// must not produce duplicate items.
func flattenRows(rows []productRow) []ProductPage {
	pages := make([]ProductPage, 0, len(rows))
	seen := make(map[uint]bool, len(rows))
	for _, r := range rows {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		pages = append(pages, ProductPage{
			ID:              r.ID,
			ProductName:     r.ProductName,
			Description:     r.Description,
			Price:           r.Price,
			StockQuantity:   r.StockQuantity,
			ProductSize:     r.ProductSize,
			SKU:             r.SKU,
			TargetAudience:  r.TargetAudience,
			ProductColor:    r.ProductColor,
			CreatedAt:       r.CreatedAt,
			CategoryID:      r.CategoryID,
			CategoryName:    r.CategoryName,
			Images:          []ImageRef{},
			NumReviews:      r.NumReviews,
			AvgRating:       r.AvgRating,
			DiscountPercent: r.DiscountPercent,
		})
	}
	return pages
}

// rankedRow is one scanned row of a ranked view (featured products). The
// image join fans rows out, so each raw row carries at most one image and
// the same product repeats once per image.
type rankedRow struct {
	productRow
	Rownum    int64
	ImageID   *uint
	ImagePath *string
}

// RankedItem is a page item carrying its rank in the view.
type RankedItem struct {
	ProductPage
	Rank int64 `json:"rank"`
}

// accumulateRanked regroups fanned-out ranked rows keyed by product id: the
// product fields are set on first sight, images append one per raw row, the
// per-group aggregates are last-write-wins. Output preserves first-seen
// order, which is rank order when the rows are sorted by rank.
func accumulateRanked(rows []rankedRow) []RankedItem {
	order := make([]uint, 0, len(rows))
	acc := make(map[uint]*RankedItem, len(rows))

	for _, r := range rows {
		item, ok := acc[r.ID]
		if !ok {
			item = &RankedItem{
				ProductPage: ProductPage{
					ID:             r.ID,
					ProductName:    r.ProductName,
					Description:    r.Description,
					Price:          r.Price,
					StockQuantity:  r.StockQuantity,
					ProductSize:    r.ProductSize,
					SKU:            r.SKU,
					TargetAudience: r.TargetAudience,
					ProductColor:   r.ProductColor,
					CreatedAt:      r.CreatedAt,
					CategoryID:     r.CategoryID,
					CategoryName:   r.CategoryName,
					Images:         []ImageRef{},
				},
			}
			acc[r.ID] = item
			order = append(order, r.ID)
		}

		item.NumReviews = r.NumReviews
		item.AvgRating = r.AvgRating
		item.DiscountPercent = r.DiscountPercent
		item.Rank = r.Rownum
		if r.ImageID != nil {
			path := ""
			if r.ImagePath != nil {
				path = *r.ImagePath
			}
			item.Images = append(item.Images, ImageRef{ID: *r.ImageID, ImagePath: path})
		}
	}

	items := make([]RankedItem, 0, len(order))
	for _, id := range order {
		items = append(items, *acc[id])
	}
	return items
}

// reorderByIDs restores a ranking order over detail rows that the detail
// query re-sorted by product id. Unknown ids are skipped, duplicates appear
// once (first occurrence wins).
func reorderByIDs(pages []ProductPage, ids []uint) []ProductPage {
	byID := make(map[uint]ProductPage, len(pages))
	for _, p := range pages {
		byID[p.ID] = p
	}

	out := make([]ProductPage, 0, len(pages))
	emitted := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if emitted[id] {
			continue
		}
		if p, ok := byID[id]; ok {
			emitted[id] = true
			out = append(out, p)
		}
	}
	return out
}
