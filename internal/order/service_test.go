package order

import (
	"fmt"
	"testing"

	"eticaret-backend/internal/models"
	"eticaret-backend/internal/stock"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Product{},
		&models.InventoryMovement{},
		&models.Customer{},
		&models.Order{},
		&models.OrderItem{},
		&models.Transaction{},
		&models.Notification{},
	))

	return db
}

func createProduct(t *testing.T, db *gorm.DB, name string, price float64, quantity int) *models.Product {
	t.Helper()

	p := models.Product{
		Name:             name,
		SKU:              fmt.Sprintf("SKU-%s-%s", t.Name(), name),
		Price:            price,
		Quantity:         quantity,
		LowStockQuantity: 2,
		StockStatus:      stock.StatusFor(quantity, 2),
		IsActive:         true,
		IsPublished:      true,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func createCustomer(t *testing.T, db *gorm.DB) *models.Customer {
	t.Helper()

	cust := models.Customer{
		Name:  "Test Müşteri",
		Email: fmt.Sprintf("%s@test.local", t.Name()),
	}
	require.NoError(t, db.Create(&cust).Error)
	return &cust
}

func productQuantity(t *testing.T, db *gorm.DB, id uint) int {
	t.Helper()

	var p models.Product
	require.NoError(t, db.First(&p, id).Error)
	return p.Quantity
}

func TestCreateOrder(t *testing.T) {
	db := setupTestDB(t)
	p1 := createProduct(t, db, "Klavye", 150, 10)
	p2 := createProduct(t, db, "Mouse", 50, 4)
	cust := createCustomer(t, db)

	o, err := Create(db, CreateOrderInput{
		CustomerID: &cust.ID,
		Items: []CreateItemInput{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 3},
		},
		TaxAmount:      20,
		ShippingAmount: 15,
		DiscountAmount: 10,
		PaymentMethod:  "kredi kartı",
		Actor:          "tester",
	})
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusPending, o.Status)
	assert.Equal(t, models.PaymentStatusUnpaid, o.PaymentStatus)
	assert.NotEmpty(t, o.OrderNumber)

	// Subtotal = 2*150 + 3*50 = 450; Total = 450 + 20 + 15 - 10
	assert.Equal(t, 450.0, o.Subtotal)
	assert.Equal(t, 475.0, o.TotalAmount)

	// Fiyat ve isim sipariş anında kopyalanır
	require.Len(t, o.Items, 2)
	assert.Equal(t, "Klavye", o.Items[0].ProductName)
	assert.Equal(t, 150.0, o.Items[0].UnitPrice)
	assert.Equal(t, 300.0, o.Items[0].Subtotal)

	// Stok düşülmüş
	assert.Equal(t, 8, productQuantity(t, db, p1.ID))
	assert.Equal(t, 1, productQuantity(t, db, p2.ID))

	// Kalem başına bir çıkış hareketi, sipariş numarasına referanslı
	var movements []models.InventoryMovement
	require.NoError(t, db.Where("reference = ?", o.OrderNumber).Find(&movements).Error)
	assert.Len(t, movements, 2)
	for _, m := range movements {
		assert.Equal(t, models.MovementOut, m.Type)
	}

	// Müşteriye bildirim
	var notifCount int64
	db.Model(&models.Notification{}).Where("recipient_id = ?", cust.ID).Count(&notifCount)
	assert.EqualValues(t, 1, notifCount)
}

func TestCreateOrderEmptyItems(t *testing.T) {
	db := setupTestDB(t)

	_, err := Create(db, CreateOrderInput{Items: nil, Actor: "tester"})
	assert.ErrorIs(t, err, ErrInvalidOrderItems)

	_, err = Create(db, CreateOrderInput{
		Items: []CreateItemInput{{ProductID: 1, Quantity: 0}},
		Actor: "tester",
	})
	assert.ErrorIs(t, err, ErrInvalidOrderItems)
}

func TestCreateOrderUnpublishedProduct(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Gizli Ürün", 100, 10)
	require.NoError(t, db.Model(p).Update("is_published", false).Error)

	_, err := Create(db, CreateOrderInput{
		Items: []CreateItemInput{{ProductID: p.ID, Quantity: 1}},
		Actor: "tester",
	})
	assert.ErrorIs(t, err, ErrProductUnavailable)
	assert.Equal(t, 10, productQuantity(t, db, p.ID))
}

// 2. kalem yetersiz kalırsa 1. kalemin rezervasyonu geri verilir
// ve sipariş hiç kaydedilmez
func TestCreateOrderRollbackOnInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	p1 := createProduct(t, db, "Bol Ürün", 100, 10)
	p2 := createProduct(t, db, "Az Ürün", 100, 1)

	_, err := Create(db, CreateOrderInput{
		Items: []CreateItemInput{
			{ProductID: p1.ID, Quantity: 2},
			{ProductID: p2.ID, Quantity: 5},
		},
		Actor: "tester",
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidOrderItems)
	assert.ErrorIs(t, err, stock.ErrInsufficientStock)

	// Stoklar orijinal haline dönmüş
	assert.Equal(t, 10, productQuantity(t, db, p1.ID))
	assert.Equal(t, 1, productQuantity(t, db, p2.ID))

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	assert.EqualValues(t, 0, orderCount)

	// Hareket defteri telafiyi gösterir: p1 için çıkış + iade
	var movements []models.InventoryMovement
	require.NoError(t, db.Where("product_id = ?", p1.ID).Order("id ASC").Find(&movements).Error)
	require.Len(t, movements, 2)
	assert.Equal(t, models.MovementOut, movements[0].Type)
	assert.Equal(t, models.MovementIn, movements[1].Type)
}

func TestSetStatusDelivered(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Monitör", 200, 10)
	cust := createCustomer(t, db)

	o, err := Create(db, CreateOrderInput{
		CustomerID: &cust.ID,
		Items:      []CreateItemInput{{ProductID: p.ID, Quantity: 3}},
		Actor:      "tester",
	})
	require.NoError(t, err)

	updated, err := SetStatus(db, o.ID, models.OrderStatusDelivered, 1, "tester", "")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusDelivered, updated.Status)
	assert.Equal(t, models.PaymentStatusPaid, updated.PaymentStatus)
	require.NotNil(t, updated.ProcessedAt)
	require.NotNil(t, updated.ProcessedBy)
	assert.EqualValues(t, 1, *updated.ProcessedBy)

	// Satış sayacı artar
	var product models.Product
	require.NoError(t, db.First(&product, p.ID).Error)
	assert.Equal(t, 3, product.SoldCount)

	// Tam olarak bir gelir/satış kaydı, tutar sipariş toplamı kadar
	var trxs []models.Transaction
	require.NoError(t, db.Where("order_id = ?", o.ID).Find(&trxs).Error)
	require.Len(t, trxs, 1)
	assert.Equal(t, models.TransactionTypeIncome, trxs[0].Type)
	assert.Equal(t, models.TransactionCategorySale, trxs[0].Category)
	assert.Equal(t, updated.TotalAmount, trxs[0].Amount)
}

// Tekrarlanan teslimat geçersizdir; yan etkiler ikinci kez uygulanmaz
func TestSetStatusDeliveredTwice(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Kulaklık", 80, 10)

	o, err := Create(db, CreateOrderInput{
		Items: []CreateItemInput{{ProductID: p.ID, Quantity: 2}},
		Actor: "tester",
	})
	require.NoError(t, err)

	_, err = SetStatus(db, o.ID, models.OrderStatusDelivered, 1, "tester", "")
	require.NoError(t, err)

	_, err = SetStatus(db, o.ID, models.OrderStatusDelivered, 1, "tester", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var product models.Product
	require.NoError(t, db.First(&product, p.ID).Error)
	assert.Equal(t, 2, product.SoldCount)

	var trxCount int64
	db.Model(&models.Transaction{}).Where("order_id = ?", o.ID).Count(&trxCount)
	assert.EqualValues(t, 1, trxCount)
}

func TestSetStatusCancelledReturnsStock(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Kablo", 20, 10)

	o, err := Create(db, CreateOrderInput{
		Items: []CreateItemInput{{ProductID: p.ID, Quantity: 4}},
		Actor: "tester",
	})
	require.NoError(t, err)
	assert.Equal(t, 6, productQuantity(t, db, p.ID))

	updated, err := SetStatus(db, o.ID, models.OrderStatusCancelled, 1, "tester", "")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusCancelled, updated.Status)
	assert.Equal(t, 10, productQuantity(t, db, p.ID))

	// İptal para hareketi üretmez
	var trxCount int64
	db.Model(&models.Transaction{}).Where("order_id = ?", o.ID).Count(&trxCount)
	assert.EqualValues(t, 0, trxCount)
}

func TestSetStatusRejectedRecordsReason(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Hoparlör", 60, 8)

	o, err := Create(db, CreateOrderInput{
		Items: []CreateItemInput{{ProductID: p.ID, Quantity: 2}},
		Actor: "tester",
	})
	require.NoError(t, err)

	updated, err := SetStatus(db, o.ID, models.OrderStatusRejected, 1, "tester", "Adres doğrulanamadı")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusRejected, updated.Status)
	assert.Equal(t, "Adres doğrulanamadı", updated.CancelReason)
	assert.Equal(t, 8, productQuantity(t, db, p.ID))
}

func TestSetStatusReturned(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Yazıcı", 500, 5)

	o, err := Create(db, CreateOrderInput{
		Items: []CreateItemInput{{ProductID: p.ID, Quantity: 1}},
		Actor: "tester",
	})
	require.NoError(t, err)

	// İade sadece delivered durumundan yapılabilir
	_, err = SetStatus(db, o.ID, models.OrderStatusReturned, 1, "tester", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = SetStatus(db, o.ID, models.OrderStatusDelivered, 1, "tester", "")
	require.NoError(t, err)

	updated, err := SetStatus(db, o.ID, models.OrderStatusReturned, 1, "tester", "")
	require.NoError(t, err)

	assert.Equal(t, models.OrderStatusReturned, updated.Status)
	assert.Equal(t, models.PaymentStatusRefunded, updated.PaymentStatus)
	assert.Equal(t, 5, productQuantity(t, db, p.ID))

	// Gelir + iade gideri: iki işlem
	var trxs []models.Transaction
	require.NoError(t, db.Where("order_id = ?", o.ID).Order("id ASC").Find(&trxs).Error)
	require.Len(t, trxs, 2)
	assert.Equal(t, models.TransactionTypeIncome, trxs[0].Type)
	assert.Equal(t, models.TransactionTypeExpense, trxs[1].Type)
	assert.Equal(t, models.TransactionCategoryRefund, trxs[1].Category)
}

func TestSetStatusUnknownOrder(t *testing.T) {
	db := setupTestDB(t)

	_, err := SetStatus(db, 9999, models.OrderStatusConfirmed, 1, "tester", "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestSetStatusUnknownStatus(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, "Tablet", 300, 5)

	o, err := Create(db, CreateOrderInput{
		Items: []CreateItemInput{{ProductID: p.ID, Quantity: 1}},
		Actor: "tester",
	})
	require.NoError(t, err)

	_, err = SetStatus(db, o.ID, models.OrderStatus("teleported"), 1, "tester", "")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from models.OrderStatus
		to   models.OrderStatus
		want bool
	}{
		{models.OrderStatusPending, models.OrderStatusProcessing, true},
		{models.OrderStatusPending, models.OrderStatusDelivered, true},
		{models.OrderStatusPending, models.OrderStatusReturned, false},
		{models.OrderStatusPending, models.OrderStatusPending, false}, // aynı duruma geçiş yok
		{models.OrderStatusProcessing, models.OrderStatusConfirmed, true},
		{models.OrderStatusConfirmed, models.OrderStatusProcessing, false}, // geri gidiş yok
		{models.OrderStatusShipped, models.OrderStatusDelivered, true},
		{models.OrderStatusDelivered, models.OrderStatusReturned, true},
		{models.OrderStatusDelivered, models.OrderStatusDelivered, false},
		{models.OrderStatusDelivered, models.OrderStatusCancelled, false},
		{models.OrderStatusCancelled, models.OrderStatusPending, false}, // terminal
		{models.OrderStatusRejected, models.OrderStatusProcessing, false},
		{models.OrderStatusReturned, models.OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		got := CanTransition(tt.from, tt.to)
		assert.Equal(t, tt.want, got, "%s -> %s", tt.from, tt.to)
	}
}
