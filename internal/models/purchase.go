package models

import "time"

type PurchaseStatus string

const (
	PurchaseStatusOrdered   PurchaseStatus = "ordered"
	PurchaseStatusReceived  PurchaseStatus = "received"
	PurchaseStatusCancelled PurchaseStatus = "cancelled"
)

// Purchase: Tedarikçiden yapılan satın alma siparişi.
// Teslim alındığında (received) kalemler stok servisinden stoğa girilir.
type Purchase struct {
	ID             uint   `gorm:"primaryKey"`
	PurchaseNumber string `gorm:"size:50;uniqueIndex;not null"`

	SupplierID uint `gorm:"index;not null"`
	Supplier   Supplier

	Items []PurchaseItem `gorm:"foreignKey:PurchaseID;constraint:OnDelete:CASCADE"`

	TotalCost float64        `gorm:"not null"`
	Status    PurchaseStatus `gorm:"size:20;not null;index"`
	Notes     string         `gorm:"size:500"`

	ReceivedBy *uint
	ReceivedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

type PurchaseItem struct {
	ID         uint `gorm:"primaryKey"`
	PurchaseID uint `gorm:"index;not null"`
	ProductID  uint `gorm:"index;not null"`

	Quantity int     `gorm:"not null"`
	UnitCost float64 `gorm:"not null"`
	Subtotal float64 `gorm:"not null"` // UnitCost * Quantity

	CreatedAt time.Time
}
