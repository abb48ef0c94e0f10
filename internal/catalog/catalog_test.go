package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/config"
	"github.com/hraza-dev/shopping_center/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))
	return &Store{DB: db}
}

func uintPtr(v uint) *uint { return &v }

// seedCatalog creates three products in one category:
//
//	p1 "Red Running Shoes"  two reviews (4, 5), sales history 10% then 25%, three images
//	p2 "Blue Denim Jacket"  one review (3), no sales, no images
//	p3 "Green Scarf"        no reviews, no sales, one image
func seedCatalog(t *testing.T, db *gorm.DB) (p1, p2, p3 models.Product) {
	t.Helper()

	cat := models.ProductCategory{CategoryName: "Apparel"}
	require.NoError(t, db.Create(&cat).Error)

	p1 = models.Product{
		ProductName:   "Red Running Shoes",
		Description:   "lightweight trainers",
		Price:         80,
		StockQuantity: 5,
		ProductSize:   "42",
		SKU:           "SKU-001",
		CategoryID:    &cat.ID,
		CreatedAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	p2 = models.Product{
		ProductName:   "Blue Denim Jacket",
		Description:   "classic jacket",
		Price:         120,
		StockQuantity: 3,
		ProductSize:   "M",
		SKU:           "SKU-002",
		CategoryID:    &cat.ID,
		CreatedAt:     time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	}
	p3 = models.Product{
		ProductName:   "Green Scarf",
		Description:   "wool scarf",
		Price:         25,
		StockQuantity: 10,
		ProductSize:   "onesize",
		SKU:           "SKU-003",
		CategoryID:    &cat.ID,
		CreatedAt:     time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, db.Create(&p1).Error)
	require.NoError(t, db.Create(&p2).Error)
	require.NoError(t, db.Create(&p3).Error)

	user := models.User{Username: "buyer", Email: "buyer@example.com", PasswordHash: "x", Role: "user"}
	require.NoError(t, db.Create(&user).Error)

	reviews := []models.Review{
		{ProductID: &p1.ID, UserID: &user.ID, Rating: 4, Comment: "good"},
		{ProductID: &p1.ID, UserID: &user.ID, Rating: 5, Comment: "great"},
		{ProductID: &p2.ID, UserID: &user.ID, Rating: 3, Comment: "ok"},
	}
	for i := range reviews {
		require.NoError(t, db.Create(&reviews[i]).Error)
	}

	sales := []models.Sale{
		{ProductID: &p1.ID, DiscountPercent: 10, SaleDate: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)},
		{ProductID: &p1.ID, DiscountPercent: 25, SaleDate: time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)},
	}
	for i := range sales {
		require.NoError(t, db.Create(&sales[i]).Error)
	}

	images := []models.ProductImage{
		{ProductID: &p1.ID, ImagePath: "/img/shoes-1.jpg"},
		{ProductID: &p1.ID, ImagePath: "/img/shoes-2.jpg"},
		{ProductID: &p1.ID, ImagePath: "/img/shoes-3.jpg"},
		{ProductID: &p3.ID, ImagePath: "/img/scarf-1.jpg"},
	}
	for i := range images {
		require.NoError(t, db.Create(&images[i]).Error)
	}

	return p1, p2, p3
}

func TestFilteredPageAggregates(t *testing.T) {
	s := newTestStore(t)
	p1, p2, p3 := seedCatalog(t, s.DB)

	pages, total, err := s.FilteredPage(context.Background(), Filter{}, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, pages, 3)

	// ordered by product id ascending
	require.Equal(t, p1.ID, pages[0].ID)
	require.Equal(t, p2.ID, pages[1].ID)
	require.Equal(t, p3.ID, pages[2].ID)

	// p1: two reviews, avg 4.5, latest discount 25
	require.EqualValues(t, 2, pages[0].NumReviews)
	require.NotNil(t, pages[0].AvgRating)
	require.InDelta(t, 4.5, *pages[0].AvgRating, 1e-9)
	require.NotNil(t, pages[0].DiscountPercent)
	require.InDelta(t, 25, *pages[0].DiscountPercent, 1e-9)

	// p2: one review, no sales history
	require.EqualValues(t, 1, pages[1].NumReviews)
	require.NotNil(t, pages[1].AvgRating)
	require.InDelta(t, 3, *pages[1].AvgRating, 1e-9)
	require.Nil(t, pages[1].DiscountPercent)

	// p3: nothing attached
	require.EqualValues(t, 0, pages[2].NumReviews)
	require.Nil(t, pages[2].AvgRating)
	require.Nil(t, pages[2].DiscountPercent)

	require.NotNil(t, pages[0].CategoryName)
	require.Equal(t, "Apparel", *pages[0].CategoryName)
}

func TestFilteredPageImages(t *testing.T) {
	s := newTestStore(t)
	_, _, _ = seedCatalog(t, s.DB)

	pages, _, err := s.FilteredPage(context.Background(), Filter{}, 10, 0)
	require.NoError(t, err)
	require.Len(t, pages, 3)

	// the review fan-out must not multiply images: p1 has exactly 3
	require.Len(t, pages[0].Images, 3)
	require.Equal(t, "/img/shoes-1.jpg", pages[0].Images[0].ImagePath)

	// no images means an empty list, not null
	require.NotNil(t, pages[1].Images)
	require.Len(t, pages[1].Images, 0)
	require.Len(t, pages[2].Images, 1)
}

func TestFilteredPageWindow(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s.DB)
	ctx := context.Background()

	// malformed windows
	_, _, err := s.FilteredPage(ctx, Filter{}, 0, 0)
	require.ErrorIs(t, err, ErrInvalidWindow)
	_, _, err = s.FilteredPage(ctx, Filter{}, 5, -1)
	require.ErrorIs(t, err, ErrInvalidWindow)

	// number larger than what remains past the offset gets clamped
	pages, total, err := s.FilteredPage(ctx, Filter{}, 10, 1)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, pages, 2)

	// window starting past the total is an empty page, not an error
	pages, total, err = s.FilteredPage(ctx, Filter{}, 10, 99)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Empty(t, pages)
}

func TestFilteredPageNoMatches(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s.DB)

	_, _, err := s.FilteredPage(context.Background(), Filter{NameContains: "does-not-exist"}, 10, 0)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestFilteredPageIsReadOnly(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s.DB)
	ctx := context.Background()

	first, _, err := s.FilteredPage(ctx, Filter{}, 10, 0)
	require.NoError(t, err)
	second, _, err := s.FilteredPage(ctx, Filter{}, 10, 0)
	require.NoError(t, err)
	require.Equal(t, first, second)

	var productCount, reviewCount, saleCount int64
	require.NoError(t, s.DB.Model(&models.Product{}).Count(&productCount).Error)
	require.NoError(t, s.DB.Model(&models.Review{}).Count(&reviewCount).Error)
	require.NoError(t, s.DB.Model(&models.Sale{}).Count(&saleCount).Error)
	require.EqualValues(t, 3, productCount)
	require.EqualValues(t, 3, reviewCount)
	require.EqualValues(t, 2, saleCount)
}

func TestFilterByName(t *testing.T) {
	s := newTestStore(t)
	p1, _, _ := seedCatalog(t, s.DB)

	pages, total, err := s.FilteredPage(context.Background(), Filter{NameContains: "red"}, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Len(t, pages, 1)
	require.Equal(t, p1.ID, pages[0].ID)
}

func TestFilterByCategoryAndKeyword(t *testing.T) {
	s := newTestStore(t)
	p1, _, _ := seedCatalog(t, s.DB)

	other := models.ProductCategory{CategoryName: "Footwear"}
	require.NoError(t, s.DB.Create(&other).Error)
	outside := models.Product{ProductName: "Red Hiking Boots", Price: 150, SKU: "SKU-100", CategoryID: &other.ID}
	require.NoError(t, s.DB.Create(&outside).Error)

	pages, total, err := s.FilteredPage(context.Background(), Filter{
		CategoryID:   p1.CategoryID,
		NameContains: "red",
	}, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)
	require.Equal(t, p1.ID, pages[0].ID)
}

func TestFilterKeywordAcrossFields(t *testing.T) {
	s := newTestStore(t)
	p1, p2, p3 := seedCatalog(t, s.DB)

	// keyword matching a description
	pages, _, err := s.FilteredPage(context.Background(), Filter{Keyword: "wool"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Equal(t, p3.ID, pages[0].ID)

	// keyword matching the category name catches every product in it
	pages, _, err = s.FilteredPage(context.Background(), Filter{Keyword: "apparel"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	require.Equal(t, []uint{p1.ID, p2.ID, p3.ID},
		[]uint{pages[0].ID, pages[1].ID, pages[2].ID})
}

func TestFilterBySizeAndPrice(t *testing.T) {
	s := newTestStore(t)
	p1, p2, _ := seedCatalog(t, s.DB)

	pages, _, err := s.FilteredPage(context.Background(), Filter{SizeContains: "42"}, 10, 0)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Equal(t, p1.ID, pages[0].ID)

	lo, hi := 50.0, 130.0
	pages, total, err := s.FilteredPage(context.Background(), Filter{MinPrice: &lo, MaxPrice: &hi}, 10, 0)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Equal(t, p1.ID, pages[0].ID)
	require.Equal(t, p2.ID, pages[1].ID)
}

func TestFeaturedPage(t *testing.T) {
	s := newTestStore(t)
	p1, p2, p3 := seedCatalog(t, s.DB)

	// feature p3 first, then p1: rank follows insertion order
	require.NoError(t, s.DB.Create(&models.FeaturedProduct{ProductID: p3.ID}).Error)
	require.NoError(t, s.DB.Create(&models.FeaturedProduct{ProductID: p1.ID}).Error)
	require.NoError(t, s.DB.Create(&models.FeaturedProduct{ProductID: p2.ID}).Error)

	items, err := s.FeaturedPage(context.Background(), 10, 1)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.Equal(t, p3.ID, items[0].ID)
	require.EqualValues(t, 1, items[0].Rank)
	require.Equal(t, p1.ID, items[1].ID)
	require.EqualValues(t, 2, items[1].Rank)
	require.Equal(t, p2.ID, items[2].ID)
	require.EqualValues(t, 3, items[2].Rank)

	// the image join fans p1 out to three raw rows; the accumulator folds
	// them back into one item with three images and intact aggregates
	require.Len(t, items[1].Images, 3)
	require.EqualValues(t, 2, items[1].NumReviews)
	require.NotNil(t, items[1].DiscountPercent)
	require.InDelta(t, 25, *items[1].DiscountPercent, 1e-9)

	// rank window past the middle
	items, err = s.FeaturedPage(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, p1.ID, items[0].ID)
	require.Equal(t, p2.ID, items[1].ID)

	_, err = s.FeaturedPage(context.Background(), 0, 1)
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestDealOfTheDay(t *testing.T) {
	s := newTestStore(t)
	p1, _, p3 := seedCatalog(t, s.DB)

	// a newer sale on p3 puts it ahead of p1
	require.NoError(t, s.DB.Create(&models.Sale{
		ProductID:       &p3.ID,
		DiscountPercent: 50,
		SaleDate:        time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
	}).Error)

	pages, err := s.DealOfTheDay(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, p3.ID, pages[0].ID)
	require.Equal(t, p1.ID, pages[1].ID)

	require.NotNil(t, pages[0].DiscountPercent)
	require.InDelta(t, 50, *pages[0].DiscountPercent, 1e-9)
}

func TestNewArrivals(t *testing.T) {
	s := newTestStore(t)
	p1, p2, p3 := seedCatalog(t, s.DB)

	pages, err := s.NewArrivals(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pages, 2)
	require.Equal(t, p3.ID, pages[0].ID)
	require.Equal(t, p2.ID, pages[1].ID)

	pages, err = s.NewArrivals(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	require.Equal(t, p1.ID, pages[2].ID)
}

func TestRandomPicks(t *testing.T) {
	s := newTestStore(t)
	seedCatalog(t, s.DB)

	pages, err := s.RandomPicks(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, pages, 2)

	seen := map[uint]bool{}
	for _, p := range pages {
		require.False(t, seen[p.ID])
		seen[p.ID] = true
	}
}

func TestTopRated(t *testing.T) {
	s := newTestStore(t)
	p1, p2, p3 := seedCatalog(t, s.DB)

	pages, err := s.TopRated(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, pages, 3)
	require.Equal(t, p1.ID, pages[0].ID) // avg 4.5
	require.Equal(t, p2.ID, pages[1].ID) // avg 3
	require.Equal(t, p3.ID, pages[2].ID) // unreviewed ranks last
}

func TestDetailsByIDsRestoresOrder(t *testing.T) {
	s := newTestStore(t)
	p1, p2, p3 := seedCatalog(t, s.DB)

	pages, err := s.DetailsByIDs(context.Background(), []uint{p3.ID, p1.ID, p2.ID})
	require.NoError(t, err)
	require.Len(t, pages, 3)
	require.Equal(t, p3.ID, pages[0].ID)
	require.Equal(t, p1.ID, pages[1].ID)
	require.Equal(t, p2.ID, pages[2].ID)

	// duplicates collapse, unknown ids are skipped
	pages, err = s.DetailsByIDs(context.Background(), []uint{p2.ID, p2.ID, 9999})
	require.NoError(t, err)
	require.Len(t, pages, 1)
	require.Equal(t, p2.ID, pages[0].ID)

	pages, err = s.DetailsByIDs(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, pages)
}

func TestClassifyWriteError(t *testing.T) {
	require.NoError(t, ClassifyWriteError(nil))
	require.ErrorIs(t, ClassifyWriteError(gorm.ErrRecordNotFound), ErrNotFound)
	require.ErrorIs(t, ClassifyWriteError(errors.New("UNIQUE constraint failed: products.sku")), ErrConstraint)

	plain := errors.New("disk is on fire")
	require.Equal(t, plain, ClassifyWriteError(plain))
}
