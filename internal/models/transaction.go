package models

import "time"

type TransactionType string

const (
	TransactionTypeIncome  TransactionType = "income"
	TransactionTypeExpense TransactionType = "expense"
)

type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusCancelled TransactionStatus = "cancelled"
)

// Muhasebe kategorileri
const (
	TransactionCategorySale     = "sale"     // sipariş teslimatı
	TransactionCategoryRefund   = "refund"   // iade
	TransactionCategoryPurchase = "purchase" // tedarikçi alımı
	TransactionCategoryOther    = "other"
)

// Transaction: Finansal defter kaydı. Completed olduktan sonra düzenlenmez.
type Transaction struct {
	ID        uint   `gorm:"primaryKey"`
	Reference string `gorm:"size:50;uniqueIndex;not null"`

	Type     TransactionType   `gorm:"size:20;not null;index"`
	Category string            `gorm:"size:50;not null;index"`
	Amount   float64           `gorm:"not null"` // negatif olamaz
	Status   TransactionStatus `gorm:"size:20;not null;default:completed"`

	Description string `gorm:"size:500"`

	// Kaynak bağlantıları (opsiyonel)
	OrderID    *uint
	Order      *Order
	ProductID  *uint
	PurchaseID *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}
