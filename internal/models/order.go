package models

import "time"

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRejected   OrderStatus = "rejected"
	OrderStatusReturned   OrderStatus = "returned"
)

type PaymentStatus string

const (
	PaymentStatusUnpaid   PaymentStatus = "unpaid"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusRefunded PaymentStatus = "refunded"
	PaymentStatusPartial  PaymentStatus = "partial"
)

type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderNumber string `gorm:"size:50;uniqueIndex;not null"` // insan okunur, benzersiz

	CustomerID *uint
	Customer   *Customer

	Items []OrderItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`

	// Invariant: TotalAmount = Subtotal + TaxAmount + ShippingAmount - DiscountAmount
	Subtotal       float64 `gorm:"not null"`
	TaxAmount      float64 `gorm:"not null;default:0"`
	ShippingAmount float64 `gorm:"not null;default:0"`
	DiscountAmount float64 `gorm:"not null;default:0"`
	TotalAmount    float64 `gorm:"not null"`

	Status        OrderStatus   `gorm:"size:20;not null;index"`
	PaymentStatus PaymentStatus `gorm:"size:20;not null;default:unpaid"`
	PaymentMethod string        `gorm:"size:50"`

	ShippingAddress string `gorm:"size:500"`
	Notes           string `gorm:"size:500"`

	ProcessedBy  *uint
	ProcessedAt  *time.Time
	CancelReason string `gorm:"size:500"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem: Sipariş anında üründen alınan fiyat/isim kopyası.
// Sipariş oluşturulduktan sonra ürün güncellemelerinden etkilenmez.
type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   uint `gorm:"index;not null"`
	ProductID uint `gorm:"index;not null"`

	ProductName string  `gorm:"size:150;not null"` // sipariş anındaki isim
	UnitPrice   float64 `gorm:"not null"`          // sipariş anındaki fiyat
	Quantity    int     `gorm:"not null"`
	Subtotal    float64 `gorm:"not null"` // UnitPrice * Quantity

	CreatedAt time.Time
}
