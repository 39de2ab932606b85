package order

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"eticaret-backend/internal/models"
	"eticaret-backend/internal/notification"
	"eticaret-backend/internal/stock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("sipariş bulunamadı")
	ErrInvalidOrderItems  = errors.New("geçersiz sipariş kalemleri")
	ErrProductUnavailable = errors.New("ürün satışta değil")
)

type CreateItemInput struct {
	ProductID uint
	Quantity  int
}

type CreateOrderInput struct {
	CustomerID      *uint
	Items           []CreateItemInput
	TaxAmount       float64
	ShippingAmount  float64
	DiscountAmount  float64
	PaymentMethod   string
	ShippingAddress string
	Notes           string
	Actor           string
}

func newOrderNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}

func newTransactionReference() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return "TRX-" + suffix
}

type reservedItem struct {
	productID uint
	quantity  int
}

// Başarısız bir rezervasyon turunda daha önce düşülen kalemleri
// ters sırayla stoğa geri ver
func releaseReserved(db *gorm.DB, reserved []reservedItem, orderNumber, actor string) {
	for i := len(reserved) - 1; i >= 0; i-- {
		r := reserved[i]
		_, err := stock.Adjust(db, stock.AdjustInput{
			ProductID: r.productID,
			Delta:     r.quantity,
			Kind:      models.MovementIn,
			Reason:    "Rezervasyon iadesi (sipariş oluşturulamadı)",
			Reference: orderNumber,
			Actor:     actor,
		})
		if err != nil {
			// Telafi başarısız olursa hareket defteri üzerinden elle düzeltilir
			log.Printf("Rezervasyon iadesi başarısız: ürün #%d, sipariş %s: %v", r.productID, orderNumber, err)
		}
	}
}

// Create: Sipariş oluşturma. Kalemler sırayla stok servisinden rezerve
// edilir (kind=out); herhangi biri başarısız olursa önceki rezervasyonlar
// ters sırayla iade edilir ve sipariş hiç kaydedilmez (ya hep ya hiç).
// Fiyat ve isim sipariş anında üründen kopyalanır, sonradan değişmez.
func Create(db *gorm.DB, in CreateOrderInput) (*models.Order, error) {
	if len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: kalem listesi boş", ErrInvalidOrderItems)
	}
	for i, it := range in.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			return nil, fmt.Errorf("%w: %d. kalemde miktar pozitif olmalı", ErrInvalidOrderItems, i+1)
		}
	}
	if in.TaxAmount < 0 || in.ShippingAmount < 0 || in.DiscountAmount < 0 {
		return nil, fmt.Errorf("%w: tutar alanları negatif olamaz", ErrInvalidOrderItems)
	}

	orderNumber := newOrderNumber()

	var (
		orderItems []models.OrderItem
		reserved   []reservedItem
		subtotal   float64
	)

	for i, it := range in.Items {
		var product models.Product
		if err := db.First(&product, "id = ?", it.ProductID).Error; err != nil {
			releaseReserved(db, reserved, orderNumber, in.Actor)
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: %d. kalem: %w (ürün #%d)", ErrInvalidOrderItems, i+1, stock.ErrProductNotFound, it.ProductID)
			}
			return nil, err
		}

		if !product.IsActive || !product.IsPublished {
			releaseReserved(db, reserved, orderNumber, in.Actor)
			return nil, fmt.Errorf("%w: %d. kalem: %w (%s)", ErrInvalidOrderItems, i+1, ErrProductUnavailable, product.Name)
		}

		// Stok rezervasyonu: koşullu düşüm, yetersizse tüm sipariş iptal
		if _, err := stock.Adjust(db, stock.AdjustInput{
			ProductID: product.ID,
			Delta:     -it.Quantity,
			Kind:      models.MovementOut,
			Reason:    "Sipariş rezervasyonu",
			Reference: orderNumber,
			Actor:     in.Actor,
		}); err != nil {
			releaseReserved(db, reserved, orderNumber, in.Actor)
			return nil, fmt.Errorf("%w: %d. kalem: %w (%s)", ErrInvalidOrderItems, i+1, err, product.Name)
		}
		reserved = append(reserved, reservedItem{productID: product.ID, quantity: it.Quantity})

		lineSubtotal := product.Price * float64(it.Quantity)
		subtotal += lineSubtotal

		// İsim ve fiyat sipariş anındaki kopya
		orderItems = append(orderItems, models.OrderItem{
			ProductID:   product.ID,
			ProductName: product.Name,
			UnitPrice:   product.Price,
			Quantity:    it.Quantity,
			Subtotal:    lineSubtotal,
		})
	}

	o := models.Order{
		OrderNumber:     orderNumber,
		CustomerID:      in.CustomerID,
		Items:           orderItems,
		Subtotal:        subtotal,
		TaxAmount:       in.TaxAmount,
		ShippingAmount:  in.ShippingAmount,
		DiscountAmount:  in.DiscountAmount,
		TotalAmount:     subtotal + in.TaxAmount + in.ShippingAmount - in.DiscountAmount,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
		PaymentMethod:   in.PaymentMethod,
		ShippingAddress: in.ShippingAddress,
		Notes:           in.Notes,
	}

	if err := db.Create(&o).Error; err != nil {
		// Sipariş yazılamadıysa rezerve edilen stok geri verilir
		releaseReserved(db, reserved, orderNumber, in.Actor)
		return nil, fmt.Errorf("sipariş kaydedilemedi: %w", err)
	}

	notifyStatus(db, &o)

	return &o, nil
}

// SetStatus: Sipariş durum geçişi. Yan etkiler durum kaydedilmeden ÖNCE
// uygulanır; yarıda kalan bir hata siparişi eski tutarlı durumunda bırakır.
func SetStatus(db *gorm.DB, orderID uint, newStatus models.OrderStatus, actorID uint, actorName, notes string) (*models.Order, error) {
	var o models.Order
	if err := db.Preload("Items").First(&o, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	if !IsValidStatus(newStatus) {
		return nil, fmt.Errorf("%w: bilinmeyen durum %q", ErrInvalidTransition, newStatus)
	}
	if !CanTransition(o.Status, newStatus) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, newStatus)
	}

	switch newStatus {
	case models.OrderStatusDelivered:
		if err := applyDelivered(db, &o, actorName); err != nil {
			return nil, err
		}

	case models.OrderStatusCancelled, models.OrderStatusRejected:
		if err := returnStock(db, &o, "Sipariş iptali, stok iadesi", actorName); err != nil {
			return nil, err
		}
		if newStatus == models.OrderStatusRejected {
			o.CancelReason = notes
		}

	case models.OrderStatusReturned:
		if err := applyReturned(db, &o, actorName); err != nil {
			return nil, err
		}
	}

	now := time.Now()
	o.Status = newStatus
	o.ProcessedBy = &actorID
	o.ProcessedAt = &now
	if notes != "" {
		o.Notes = notes
	}

	if err := db.Save(&o).Error; err != nil {
		return nil, fmt.Errorf("sipariş güncellenemedi: %w", err)
	}

	notifyStatus(db, &o)

	return &o, nil
}

// Teslimat yan etkileri: ödeme durumu, satış sayaçları, gelir kaydı
func applyDelivered(db *gorm.DB, o *models.Order, actorName string) error {
	for _, item := range o.Items {
		if err := db.Model(&models.Product{}).
			Where("id = ?", item.ProductID).
			Update("sold_count", gorm.Expr("sold_count + ?", item.Quantity)).Error; err != nil {
			return fmt.Errorf("satış sayacı güncellenemedi (ürün #%d): %w", item.ProductID, err)
		}
	}

	trx := models.Transaction{
		Reference:   newTransactionReference(),
		Type:        models.TransactionTypeIncome,
		Category:    models.TransactionCategorySale,
		Amount:      o.TotalAmount,
		Status:      models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Sipariş teslimatı: %s", o.OrderNumber),
		OrderID:     &o.ID,
	}
	if err := db.Create(&trx).Error; err != nil {
		return fmt.Errorf("gelir kaydı oluşturulamadı: %w", err)
	}

	o.PaymentStatus = models.PaymentStatusPaid
	return nil
}

// İade yan etkileri: stok iadesi, ödeme iadesi, gider kaydı
func applyReturned(db *gorm.DB, o *models.Order, actorName string) error {
	if err := returnStock(db, o, "Sipariş iadesi, stok iadesi", actorName); err != nil {
		return err
	}

	trx := models.Transaction{
		Reference:   newTransactionReference(),
		Type:        models.TransactionTypeExpense,
		Category:    models.TransactionCategoryRefund,
		Amount:      o.TotalAmount,
		Status:      models.TransactionStatusCompleted,
		Description: fmt.Sprintf("Sipariş iadesi: %s", o.OrderNumber),
		OrderID:     &o.ID,
	}
	if err := db.Create(&trx).Error; err != nil {
		return fmt.Errorf("iade kaydı oluşturulamadı: %w", err)
	}

	o.PaymentStatus = models.PaymentStatusRefunded
	return nil
}

func returnStock(db *gorm.DB, o *models.Order, reason, actorName string) error {
	for _, item := range o.Items {
		if _, err := stock.Adjust(db, stock.AdjustInput{
			ProductID: item.ProductID,
			Delta:     item.Quantity,
			Kind:      models.MovementIn,
			Reason:    reason,
			Reference: o.OrderNumber,
			Actor:     actorName,
		}); err != nil {
			return fmt.Errorf("stok iadesi başarısız (ürün #%d): %w", item.ProductID, err)
		}
	}
	return nil
}

// Her durum değişikliğinde müşteriye bildirim; başarısızlık akışı geri almaz
func notifyStatus(db *gorm.DB, o *models.Order) {
	if o.CustomerID == nil {
		return
	}
	if err := notification.Notify(db, notification.NotifyOptions{
		RecipientID:   *o.CustomerID,
		Title:         "Sipariş durumu güncellendi",
		Message:       fmt.Sprintf("%s numaralı siparişinizin durumu: %s", o.OrderNumber, o.Status),
		Priority:      models.NotificationPriorityHigh,
		RelatedEntity: "order",
		RelatedID:     &o.ID,
	}); err != nil {
		log.Printf("Sipariş bildirimi gönderilemedi (%s): %v", o.OrderNumber, err)
	}
}
