package models

import "time"

type MovementType string

const (
	MovementIn         MovementType = "in"         // stok girişi
	MovementOut        MovementType = "out"        // stok çıkışı
	MovementAdjustment MovementType = "adjustment" // manuel düzeltme
)

// InventoryMovement: Her stok değişikliği için değişmez denetim kaydı.
// Oluşturulduktan sonra asla güncellenmez veya silinmez.
// Invariant: NewQuantity = PreviousQuantity ± Quantity (Type ile tutarlı).
type InventoryMovement struct {
	ID        uint `gorm:"primaryKey"`
	ProductID uint `gorm:"index;not null"`
	Product   Product

	Type             MovementType `gorm:"size:20;not null"`
	Quantity         int          `gorm:"not null"` // pozitif miktar (delta'nın mutlak değeri)
	PreviousQuantity int          `gorm:"not null"`
	NewQuantity      int          `gorm:"not null"`

	Reason    string `gorm:"size:255"` // ör: "Sipariş rezervasyonu"
	Reference string `gorm:"size:100;index"` // ör: sipariş numarası
	Actor     string `gorm:"size:100"` // işlemi yapan kullanıcı

	CreatedAt time.Time
}
