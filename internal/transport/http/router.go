package http

import (
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"

	"github.com/hraza-dev/shopping_center/internal/catalog"
	"github.com/hraza-dev/shopping_center/internal/handlers"
	"github.com/hraza-dev/shopping_center/internal/handlers/cart"
	"github.com/hraza-dev/shopping_center/internal/mailer"
	authmw "github.com/hraza-dev/shopping_center/internal/middleware/auth"
	"github.com/hraza-dev/shopping_center/internal/mykafka"
	"github.com/hraza-dev/shopping_center/internal/service/token"
)

// Deps carries everything the route table needs.
type Deps struct {
	DB       *gorm.DB
	Store    *catalog.Store
	Tokens   *token.Service
	Producer *mykafka.Producer
	ES       *elasticsearch.Client
	ESIndex  string
	Mailer   mailer.Mailer
}

// Register wires the full route table onto e. Public reads sit under
// /api/v1, cart/favorites/purchases require a login, and every catalog
// mutation requires the admin role.
func Register(e *echo.Echo, d Deps) {
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())

	guard := &authmw.Guard{Tokens: d.Tokens}

	authH := &handlers.AuthHandler{DB: d.DB, Tokens: d.Tokens, Producer: d.Producer}
	resetH := &handlers.PasswordResetHandler{DB: d.DB, Mailer: d.Mailer}
	productH := &handlers.ProductHandler{DB: d.DB, Producer: d.Producer, ES: d.ES, Index: d.ESIndex}
	filterH := &handlers.FilterHandler{Store: d.Store}
	landingH := &handlers.LandingHandler{Store: d.Store}
	categoryH := &handlers.CategoryHandler{DB: d.DB}
	reviewH := &handlers.ReviewHandler{DB: d.DB}
	saleH := &handlers.SaleHandler{DB: d.DB}
	imageH := &handlers.ImageHandler{DB: d.DB}
	bannerH := &handlers.BannerHandler{DB: d.DB}
	featuredH := &handlers.FeaturedHandler{DB: d.DB}
	favoriteH := &handlers.FavoriteHandler{DB: d.DB}
	purchaseH := &handlers.PurchaseHandler{DB: d.DB}
	cartH := &cart.CartHandler{DB: d.DB, Producer: d.Producer}
	searchH := handlers.NewSearchHandler(d.ES, d.ESIndex)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	api := e.Group("/api/v1")

	// Auth.
	api.POST("/register", authH.Register)
	api.POST("/login", authH.Login)
	api.POST("/logout", authH.Logout)
	api.POST("/password-reset/request", resetH.RequestReset)
	api.POST("/password-reset/confirm", resetH.ConfirmReset)

	// Public catalog reads.
	api.GET("/search", searchH.Handler)
	api.GET("/products", productH.GetProducts)
	api.GET("/products/:id", productH.GetProduct)
	api.GET("/reviews/product/:id", reviewH.GetProductReviews)
	api.GET("/categories", categoryH.GetCategories)
	api.GET("/categories/:id", categoryH.GetCategory)
	api.GET("/banners", bannerH.GetBanners)

	// Filtered product pages. Every route carries the page window in the
	// path: number of items and the start index.
	pf := api.Group("/productfilter")
	pf.GET("/getproducts/:number/:startindex", filterH.GetProducts)
	pf.GET("/getbyname/:product_name/:number/:startindex", filterH.GetByName)
	pf.GET("/getbycategory/:category_id/:number/:startindex", filterH.GetByCategory)
	pf.GET("/getbycategory_keyword/:category_id/:search_keyword/:number/:startindex", filterH.GetByCategoryKeyword)
	pf.GET("/searchbyproductsize/:product_size/:number/:startindex", filterH.SearchBySize)
	pf.GET("/filterbyprice/:product_name/:min_price/:max_price/:number/:startindex", filterH.FilterByPrice)
	pf.GET("/filterwithreviews/:search_keyword/:number/:startindex", filterH.FilterWithReviews)

	// Landing page views.
	lp := api.Group("/landingpage")
	lp.GET("/featured/:number/:startindex", landingH.Featured)
	lp.GET("/dealofday/:number", landingH.DealOfTheDay)
	lp.GET("/newarrivals/:number", landingH.NewArrivals)
	lp.GET("/random/:number", landingH.RandomProducts)
	lp.GET("/toprated/:number", landingH.TopRated)

	// Logged-in user surface.
	user := api.Group("", guard.RequireLogin)
	user.GET("/cart", cartH.GetCart)
	user.POST("/cart", cartH.AddToCart)
	user.DELETE("/cart/:id", cartH.DeleteOneFromCart)
	user.DELETE("/cart/:id/all", cartH.DeleteAllFromCart)
	user.POST("/cart/checkout", cartH.Checkout)
	user.GET("/favorites", favoriteH.GetFavorites)
	user.POST("/favorites", favoriteH.CreateFavorite)
	user.DELETE("/favorites/:product_id", favoriteH.DeleteFavorite)
	user.GET("/purchases", purchaseH.GetPurchases)
	user.POST("/purchases", purchaseH.CreatePurchase)
	user.POST("/reviews", reviewH.CreateReview)

	// Admin mutations.
	admin := api.Group("/admin", guard.RequireRole("admin"))
	admin.POST("/products", productH.CreateProduct)
	admin.PUT("/products/:id", productH.UpdateProduct)
	admin.DELETE("/products/:id", productH.DeleteProduct)
	admin.POST("/categories", categoryH.CreateCategory)
	admin.PUT("/categories/:id", categoryH.UpdateCategory)
	admin.DELETE("/categories/:id", categoryH.DeleteCategory)
	admin.PUT("/reviews/:id", reviewH.UpdateReview)
	admin.DELETE("/reviews/:id", reviewH.DeleteReview)
	admin.POST("/images", imageH.CreateImage)
	admin.DELETE("/images/:id", imageH.DeleteImage)
	admin.POST("/sales", saleH.CreateSale)
	admin.PUT("/sales/:id", saleH.UpdateSale)
	admin.DELETE("/sales/:id", saleH.DeleteSale)
	admin.POST("/banners", bannerH.CreateBanner)
	admin.DELETE("/banners/:id", bannerH.DeleteBanner)
	admin.POST("/featured", featuredH.CreateFeatured)
	admin.DELETE("/featured/:id", featuredH.DeleteFeatured)
	admin.PUT("/purchases/:id/status", purchaseH.UpdatePurchaseStatus)
}
