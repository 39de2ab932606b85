package stock

import (
	"fmt"
	"testing"

	"eticaret-backend/internal/models"

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
	))

	return db
}

func createProduct(t *testing.T, db *gorm.DB, quantity, lowStock int) *models.Product {
	t.Helper()

	p := models.Product{
		Name:             "Test Ürün",
		SKU:              fmt.Sprintf("SKU-%s-%d", t.Name(), quantity),
		Price:            100,
		Quantity:         quantity,
		LowStockQuantity: lowStock,
		StockStatus:      StatusFor(quantity, lowStock),
		IsActive:         true,
		IsPublished:      true,
	}
	require.NoError(t, db.Create(&p).Error)
	return &p
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		quantity int
		lowStock int
		want     models.StockStatus
	}{
		{0, 0, models.StockStatusOutOfStock},
		{0, 5, models.StockStatusOutOfStock},
		{1, 5, models.StockStatusLowStock},
		{5, 5, models.StockStatusLowStock}, // eşiğe eşitlik low_stock
		{6, 5, models.StockStatusInStock},
		{10, 10, models.StockStatusLowStock},
		{100, 0, models.StockStatusInStock},
	}

	for _, tt := range tests {
		got := StatusFor(tt.quantity, tt.lowStock)
		assert.Equal(t, tt.want, got, "quantity=%d lowStock=%d", tt.quantity, tt.lowStock)
	}
}

func TestAdjustIncrease(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, 0, 3)

	m, err := Adjust(db, AdjustInput{
		ProductID: p.ID,
		Delta:     10,
		Reason:    "Açılış stoğu",
		Actor:     "tester",
	})
	require.NoError(t, err)

	// Kind işaretten çıkarıldı
	assert.Equal(t, models.MovementIn, m.Type)
	assert.Equal(t, 10, m.Quantity)
	assert.Equal(t, 0, m.PreviousQuantity)
	assert.Equal(t, 10, m.NewQuantity)

	var updated models.Product
	require.NoError(t, db.First(&updated, p.ID).Error)
	assert.Equal(t, 10, updated.Quantity)
	assert.Equal(t, models.StockStatusInStock, updated.StockStatus)
}

func TestAdjustDecrease(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, 10, 3)

	m, err := Adjust(db, AdjustInput{
		ProductID: p.ID,
		Delta:     -7,
		Kind:      models.MovementOut,
		Actor:     "tester",
	})
	require.NoError(t, err)

	assert.Equal(t, models.MovementOut, m.Type)
	assert.Equal(t, 7, m.Quantity)
	assert.Equal(t, 10, m.PreviousQuantity)
	assert.Equal(t, 3, m.NewQuantity)

	var updated models.Product
	require.NoError(t, db.First(&updated, p.ID).Error)
	assert.Equal(t, 3, updated.Quantity)
	// 3 <= 3: kritik stok
	assert.Equal(t, models.StockStatusLowStock, updated.StockStatus)
}

func TestAdjustInvalidDelta(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, 10, 3)

	_, err := Adjust(db, AdjustInput{ProductID: p.ID, Delta: 0})
	assert.ErrorIs(t, err, ErrInvalidDelta)

	// Kind ile işaret tutarsız
	_, err = Adjust(db, AdjustInput{ProductID: p.ID, Delta: -5, Kind: models.MovementIn})
	assert.ErrorIs(t, err, ErrInvalidDelta)

	_, err = Adjust(db, AdjustInput{ProductID: p.ID, Delta: 5, Kind: models.MovementOut})
	assert.ErrorIs(t, err, ErrInvalidDelta)

	// Hiçbir şey değişmemiş olmalı
	var updated models.Product
	require.NoError(t, db.First(&updated, p.ID).Error)
	assert.Equal(t, 10, updated.Quantity)

	var movementCount int64
	db.Model(&models.InventoryMovement{}).Count(&movementCount)
	assert.EqualValues(t, 0, movementCount)
}

func TestAdjustProductNotFound(t *testing.T) {
	db := setupTestDB(t)

	_, err := Adjust(db, AdjustInput{ProductID: 9999, Delta: 5})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAdjustInsufficientStock(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, 5, 0)

	// İki düşüm: quantity=5, ikisi de 3 istiyor; sadece biri kazanır
	_, err := Adjust(db, AdjustInput{ProductID: p.ID, Delta: -3, Actor: "a"})
	require.NoError(t, err)

	_, err = Adjust(db, AdjustInput{ProductID: p.ID, Delta: -3, Actor: "b"})
	assert.ErrorIs(t, err, ErrInsufficientStock)

	var updated models.Product
	require.NoError(t, db.First(&updated, p.ID).Error)
	assert.Equal(t, 2, updated.Quantity) // asla negatif değil

	// Başarısız düşüm hareket kaydı bırakmaz
	var movementCount int64
	db.Model(&models.InventoryMovement{}).Where("product_id = ?", p.ID).Count(&movementCount)
	assert.EqualValues(t, 1, movementCount)
}

func TestAdjustMovementPerSuccess(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, 0, 2)

	deltas := []int{5, -2, 4, -3}
	for _, d := range deltas {
		_, err := Adjust(db, AdjustInput{ProductID: p.ID, Delta: d, Actor: "tester"})
		require.NoError(t, err)
	}

	var movements []models.InventoryMovement
	require.NoError(t, db.Where("product_id = ?", p.ID).Order("id ASC").Find(&movements).Error)
	require.Len(t, movements, len(deltas))

	// Her hareket: new - previous = delta, tip ile tutarlı
	for i, m := range movements {
		assert.Equal(t, deltas[i], m.NewQuantity-m.PreviousQuantity)
		if deltas[i] > 0 {
			assert.Equal(t, models.MovementIn, m.Type)
		} else {
			assert.Equal(t, models.MovementOut, m.Type)
		}
		assert.Positive(t, m.Quantity)
	}

	// Son durum her zaman türetilmiş formülle eşleşir
	var updated models.Product
	require.NoError(t, db.First(&updated, p.ID).Error)
	assert.Equal(t, 4, updated.Quantity)
	assert.Equal(t, StatusFor(updated.Quantity, updated.LowStockQuantity), updated.StockStatus)
}

// quantity=10, low_stock_quantity=10 -> low_stock; -10 sonrası out_of_stock
func TestAdjustThresholdBoundary(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, 10, 10)

	assert.Equal(t, models.StockStatusLowStock, p.StockStatus)

	m, err := Adjust(db, AdjustInput{
		ProductID: p.ID,
		Delta:     -10,
		Kind:      models.MovementOut,
		Actor:     "tester",
	})
	require.NoError(t, err)

	assert.Equal(t, 10, m.PreviousQuantity)
	assert.Equal(t, 0, m.NewQuantity)
	assert.Equal(t, 10, m.Quantity)
	assert.Equal(t, models.MovementOut, m.Type)

	var updated models.Product
	require.NoError(t, db.First(&updated, p.ID).Error)
	assert.Equal(t, 0, updated.Quantity)
	assert.Equal(t, models.StockStatusOutOfStock, updated.StockStatus)
}

func TestAdjustAdjustmentKind(t *testing.T) {
	db := setupTestDB(t)
	p := createProduct(t, db, 8, 2)

	// adjustment her iki yönde de geçerli
	m, err := Adjust(db, AdjustInput{
		ProductID: p.ID,
		Delta:     -3,
		Kind:      models.MovementAdjustment,
		Reason:    "Sayım farkı",
		Actor:     "tester",
	})
	require.NoError(t, err)
	assert.Equal(t, models.MovementAdjustment, m.Type)
	assert.Equal(t, 3, m.Quantity)
	assert.Equal(t, 5, m.NewQuantity)
}
