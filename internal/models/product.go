package models

import "time"

type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

type Product struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:150;not null"`
	SKU         string `gorm:"size:50;uniqueIndex;not null"`
	Barcode     string `gorm:"size:50;uniqueIndex"`
	Description string `gorm:"size:1000"`

	CategoryID *uint
	Category   *Category
	BrandID    *uint
	Brand      *Brand
	SellerID   *uint
	Seller     *Seller

	Price float64 `gorm:"not null"` // satış fiyatı
	Cost  float64 // alış maliyeti

	// Quantity sadece stok ayarlama servisi (stock paketi) üzerinden değişir.
	// StockStatus türetilmiş alan: her mutasyondan sonra yeniden hesaplanır.
	Quantity         int         `gorm:"not null;default:0"`
	LowStockQuantity int         `gorm:"not null;default:0"` // kritik stok eşiği
	StockStatus      StockStatus `gorm:"size:20;not null;default:out_of_stock"`
	SoldCount        int         `gorm:"not null;default:0"` // kümülatif satış sayacı

	IsActive    bool   `gorm:"not null;default:true"`
	IsPublished bool   `gorm:"not null;default:false"` // vitrine açık mı
	ImageURL    string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
