package models

import (
	"time"
)

type User struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Username        string    `gorm:"unique;not null"          json:"username"`
	Email           string    `gorm:"unique;not null"          json:"email"`
	PasswordHash    string    `gorm:"not null"                 json:"-"`
	BillingAddress  *string   `json:"billing_address,omitempty"`
	ShippingAddress *string   `json:"shipping_address,omitempty"`
	Role            string    `gorm:"not null;default:user"    json:"role"`
	CreatedAt       time.Time `json:"created_at"`
}

type ProductCategory struct {
	ID               uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CategoryName     string    `gorm:"not null"                 json:"category_name"`
	ParentCategoryID *uint     `gorm:"index"                    json:"parent_category_id"`
	CreatedAt        time.Time `json:"created_at"`
}

type Product struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductName    string    `gorm:"not null;index"           json:"product_name"`
	Description    string    `json:"description"`
	Price          float64   `gorm:"not null"                 json:"price"`
	StockQuantity  int       `json:"stock_quantity"`
	ProductSize    string    `json:"product_size"`
	SKU            string    `gorm:"column:sku"               json:"SKU"`
	TargetAudience string    `json:"target_audience"`
	ProductColor   *string   `json:"product_color"`
	CategoryID     *uint     `gorm:"index"                    json:"category_id"`
	CreatedAt      time.Time `json:"created_at"`
}

type ProductImage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ImagePath string `gorm:"not null"                 json:"image_path"`
	ProductID *uint  `gorm:"index"                    json:"product_id"`
}

type Review struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID *uint     `gorm:"index"                    json:"product_id"`
	UserID    *uint     `gorm:"index"                    json:"user_id"`
	Rating    int       `gorm:"not null"                 json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// Sale rows accumulate per product over time; the row with the greatest
// sale_date is the product's current discount.
type Sale struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	DiscountPercent float64   `gorm:"not null"                 json:"discount_percent"`
	SaleDate        time.Time `gorm:"not null;index"           json:"sale_date"`
	ProductID       *uint     `gorm:"index"                    json:"product_id"`
}

type FeaturedProduct struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID uint      `gorm:"index;not null"           json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type Cart struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID    uint      `gorm:"index;not null"              json:"user_id"`
	ProductID uint      `gorm:"index;not null"              json:"product_id"`
	Quantity  int       `gorm:"default:1;check:quantity>0"  json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
}

type Favorite struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	ProductID uint      `gorm:"index;not null"           json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type UserPurchase struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	UserID    uint      `gorm:"index;not null"            json:"user_id"`
	ProductID uint      `gorm:"index;not null"            json:"product_id"`
	Status    string    `gorm:"not null;default:pending"  json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type Banner struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title     string    `json:"title"`
	ImagePath string    `gorm:"not null"                 json:"image_path"`
	ProductID *uint     `gorm:"index"                    json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
}

type RefreshToken struct {
	ID        uint   `gorm:"primaryKey"          json:"id"`
	Token     string `gorm:"unique;not null"     json:"token"`
	UserID    uint   `gorm:"index;not null"      json:"user_id"`
	Role      string `gorm:"not null"            json:"role"`
	ExpiresAt int64  `gorm:"not null"            json:"expires_at"`
	Revoked   bool   `gorm:"default:false"       json:"revoked"`
}

type PasswordReset struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	Token     string    `gorm:"unique;not null"          json:"-"`
	ExpiresAt time.Time `gorm:"not null"                 json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
