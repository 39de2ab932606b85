package database

import (
	"log"

	"eticaret-backend/internal/config"
	"eticaret-backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		log.Fatalf("Veritabanına bağlanılamadı: %v", err)
	}

	err = DB.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Category{},
		&models.Brand{},
		&models.Seller{},
		&models.Supplier{},
		&models.Product{},
		&models.InventoryMovement{},
		&models.Order{},
		&models.OrderItem{},
		&models.Transaction{},
		&models.Purchase{},
		&models.PurchaseItem{},
		&models.Notification{},
		&models.AuditLog{},
	)
	if err != nil {
		log.Fatalf("AutoMigrate hatası: %v", err)
	}

	// Stok miktarı uygulama katmanında koşullu update ile korunuyor,
	// ama veritabanı seviyesinde de negatife düşmesin
	if err := DB.Exec(`
		DO $$ BEGIN
			ALTER TABLE products ADD CONSTRAINT chk_products_quantity_non_negative CHECK (quantity >= 0);
		EXCEPTION
			WHEN duplicate_object THEN NULL;
		END $$
	`).Error; err != nil {
		log.Printf("quantity check constraint eklenirken hata (zaten var olabilir): %v", err)
	}

	log.Println("Veritabanı bağlantısı başarılı. Migration tamamlandı.")
}
