package stock

import (
	"errors"

	"eticaret-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound   = errors.New("ürün bulunamadı")
	ErrInsufficientStock = errors.New("yetersiz stok")
	ErrInvalidDelta      = errors.New("geçersiz miktar değişimi")
)

type AdjustInput struct {
	ProductID uint
	Delta     int                 // sıfır olamaz; negatif = stok düşümü
	Kind      models.MovementType // boş bırakılırsa işaretten çıkarılır
	Reason    string
	Reference string // ör: sipariş/satın alma numarası
	Actor     string
}

// Adjust: Product.Quantity'nin TEK mutasyon noktası.
//
// Düşümler storage seviyesinde koşullu uygulanır
// (UPDATE ... WHERE quantity >= delta); koşul tutmazsa hiçbir şey
// değişmeden ErrInsufficientStock döner. Miktar değişimi, stok durumu
// güncellemesi ve hareket kaydı tek transaction içinde commit edilir.
func Adjust(db *gorm.DB, in AdjustInput) (*models.InventoryMovement, error) {
	if in.Delta == 0 {
		return nil, ErrInvalidDelta
	}

	kind := in.Kind
	if kind == "" {
		if in.Delta > 0 {
			kind = models.MovementIn
		} else {
			kind = models.MovementOut
		}
	}

	// Kind ile işaret tutarlı olmalı
	switch kind {
	case models.MovementIn:
		if in.Delta < 0 {
			return nil, ErrInvalidDelta
		}
	case models.MovementOut:
		if in.Delta > 0 {
			return nil, ErrInvalidDelta
		}
	case models.MovementAdjustment:
		// her iki yön de geçerli
	default:
		return nil, ErrInvalidDelta
	}

	var movement *models.InventoryMovement

	err := db.Transaction(func(tx *gorm.DB) error {
		var product models.Product
		if err := tx.First(&product, "id = ?", in.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		// Ön kontrol sadece hızlı hata için; asıl garanti aşağıdaki koşullu update
		if in.Delta < 0 && product.Quantity < -in.Delta {
			return ErrInsufficientStock
		}

		if in.Delta < 0 {
			res := tx.Model(&models.Product{}).
				Where("id = ? AND quantity >= ?", in.ProductID, -in.Delta).
				Update("quantity", gorm.Expr("quantity - ?", -in.Delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				// Eşzamanlı bir düşüm araya girmiş; koşul tutmadı
				return ErrInsufficientStock
			}
		} else {
			res := tx.Model(&models.Product{}).
				Where("id = ?", in.ProductID).
				Update("quantity", gorm.Expr("quantity + ?", in.Delta))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrProductNotFound
			}
		}

		// Commit anındaki gerçek miktarı oku
		var updated models.Product
		if err := tx.First(&updated, "id = ?", in.ProductID).Error; err != nil {
			return err
		}

		newQuantity := updated.Quantity
		previousQuantity := newQuantity - in.Delta

		status := StatusFor(newQuantity, updated.LowStockQuantity)
		if err := tx.Model(&models.Product{}).
			Where("id = ?", in.ProductID).
			Update("stock_status", status).Error; err != nil {
			return err
		}

		quantity := in.Delta
		if quantity < 0 {
			quantity = -quantity
		}

		m := models.InventoryMovement{
			ProductID:        in.ProductID,
			Type:             kind,
			Quantity:         quantity,
			PreviousQuantity: previousQuantity,
			NewQuantity:      newQuantity,
			Reason:           in.Reason,
			Reference:        in.Reference,
			Actor:            in.Actor,
		}
		if err := tx.Create(&m).Error; err != nil {
			return err
		}

		movement = &m
		return nil
	})
	if err != nil {
		return nil, err
	}

	return movement, nil
}
