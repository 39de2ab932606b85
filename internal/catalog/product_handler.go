package catalog

import (
	"fmt"
	"strings"

	"eticaret-backend/internal/audit"
	"eticaret-backend/internal/auth"
	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"
	"eticaret-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type ProductResponse struct {
	ID               uint               `json:"id"`
	Name             string             `json:"name"`
	SKU              string             `json:"sku"`
	Barcode          string             `json:"barcode"`
	Description      string             `json:"description"`
	CategoryID       *uint              `json:"category_id"`
	BrandID          *uint              `json:"brand_id"`
	SellerID         *uint              `json:"seller_id"`
	Price            float64            `json:"price"`
	Cost             float64            `json:"cost"`
	Quantity         int                `json:"quantity"`
	LowStockQuantity int                `json:"low_stock_quantity"`
	StockStatus      models.StockStatus `json:"stock_status"`
	SoldCount        int                `json:"sold_count"`
	IsActive         bool               `json:"is_active"`
	IsPublished      bool               `json:"is_published"`
	ImageURL         string             `json:"image_url"`
}

type CreateProductRequest struct {
	Name             string  `json:"name"`
	SKU              string  `json:"sku"`
	Barcode          string  `json:"barcode"`
	Description      string  `json:"description"`
	CategoryID       *uint   `json:"category_id"`
	BrandID          *uint   `json:"brand_id"`
	SellerID         *uint   `json:"seller_id"`
	Price            float64 `json:"price"`
	Cost             float64 `json:"cost"`
	InitialQuantity  int     `json:"initial_quantity"`
	LowStockQuantity int     `json:"low_stock_quantity"`
	IsPublished      bool    `json:"is_published"`
	ImageURL         string  `json:"image_url"`
}

// Quantity ve StockStatus bilinçli olarak yok: stok sadece stok
// servisi (stock paketi) üzerinden değişir
type UpdateProductRequest struct {
	Name             *string  `json:"name"`
	Barcode          *string  `json:"barcode"`
	Description      *string  `json:"description"`
	CategoryID       *uint    `json:"category_id"`
	BrandID          *uint    `json:"brand_id"`
	SellerID         *uint    `json:"seller_id"`
	Price            *float64 `json:"price"`
	Cost             *float64 `json:"cost"`
	LowStockQuantity *int     `json:"low_stock_quantity"`
	IsActive         *bool    `json:"is_active"`
	IsPublished      *bool    `json:"is_published"`
	ImageURL         *string  `json:"image_url"`
}

func productToResponse(p *models.Product) ProductResponse {
	return ProductResponse{
		ID:               p.ID,
		Name:             p.Name,
		SKU:              p.SKU,
		Barcode:          p.Barcode,
		Description:      p.Description,
		CategoryID:       p.CategoryID,
		BrandID:          p.BrandID,
		SellerID:         p.SellerID,
		Price:            p.Price,
		Cost:             p.Cost,
		Quantity:         p.Quantity,
		LowStockQuantity: p.LowStockQuantity,
		StockStatus:      p.StockStatus,
		SoldCount:        p.SoldCount,
		IsActive:         p.IsActive,
		IsPublished:      p.IsPublished,
		ImageURL:         p.ImageURL,
	}
}

// GET /api/products?category_id=1&published=true
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{})

		if categoryID := c.QueryInt("category_id"); categoryID > 0 {
			dbq = dbq.Where("category_id = ?", categoryID)
		}
		if brandID := c.QueryInt("brand_id"); brandID > 0 {
			dbq = dbq.Where("brand_id = ?", brandID)
		}
		if c.Query("published") == "true" {
			dbq = dbq.Where("is_published = ?", true)
		}

		var products []models.Product
		if err := dbq.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		res := make([]ProductResponse, 0, len(products))
		for i := range products {
			res = append(res, productToResponse(&products[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		return c.JSON(productToResponse(&p))
	}
}

// POST /api/admin/products
// Başlangıç stoğu varsa stok servisi üzerinden girilir ki
// hareket defterinde de kaydı olsun
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		body.SKU = strings.TrimSpace(body.SKU)
		body.Barcode = strings.TrimSpace(body.Barcode)

		if body.Name == "" || body.SKU == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name ve sku zorunlu")
		}
		if body.Price < 0 || body.Cost < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
		}
		if body.InitialQuantity < 0 || body.LowStockQuantity < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Stok alanları negatif olamaz")
		}

		// SKU unique kontrolü
		var existing models.Product
		if err := database.DB.Where("sku = ?", body.SKU).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "Bu SKU zaten kullanılıyor")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		p := models.Product{
			Name:             body.Name,
			SKU:              body.SKU,
			Barcode:          body.Barcode,
			Description:      body.Description,
			CategoryID:       body.CategoryID,
			BrandID:          body.BrandID,
			SellerID:         body.SellerID,
			Price:            body.Price,
			Cost:             body.Cost,
			Quantity:         0,
			LowStockQuantity: body.LowStockQuantity,
			StockStatus:      models.StockStatusOutOfStock,
			IsActive:         true,
			IsPublished:      body.IsPublished,
			ImageURL:         body.ImageURL,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}

		if body.InitialQuantity > 0 {
			if _, err := stock.Adjust(database.DB, stock.AdjustInput{
				ProductID: p.ID,
				Delta:     body.InitialQuantity,
				Kind:      models.MovementIn,
				Reason:    "Açılış stoğu",
				Actor:     user.Name,
			}); err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Açılış stoğu girilemedi")
			}
			// response'ta güncel hali göster
			database.DB.First(&p, "id = ?", p.ID)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "product",
			EntityID:    p.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ürün oluşturuldu: %s (%s)", p.Name, p.SKU),
			Before:      nil,
			After:       p,
		})

		return c.Status(fiber.StatusCreated).JSON(productToResponse(&p))
	}
}

// PUT /api/admin/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		before := p

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name boş olamaz")
			}
			p.Name = name
		}
		if body.Barcode != nil {
			p.Barcode = strings.TrimSpace(*body.Barcode)
		}
		if body.Description != nil {
			p.Description = *body.Description
		}
		if body.CategoryID != nil {
			p.CategoryID = body.CategoryID
		}
		if body.BrandID != nil {
			p.BrandID = body.BrandID
		}
		if body.SellerID != nil {
			p.SellerID = body.SellerID
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Fiyat negatif olamaz")
			}
			p.Price = *body.Price
		}
		if body.Cost != nil {
			if *body.Cost < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Maliyet negatif olamaz")
			}
			p.Cost = *body.Cost
		}
		if body.LowStockQuantity != nil {
			if *body.LowStockQuantity < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Kritik stok eşiği negatif olamaz")
			}
			p.LowStockQuantity = *body.LowStockQuantity
			// Eşik değişti: türetilmiş durumu yeniden hesapla
			p.StockStatus = stock.StatusFor(p.Quantity, p.LowStockQuantity)
		}
		if body.IsActive != nil {
			p.IsActive = *body.IsActive
		}
		if body.IsPublished != nil {
			p.IsPublished = *body.IsPublished
		}
		if body.ImageURL != nil {
			p.ImageURL = *body.ImageURL
		}

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionUpdate,
				Description: fmt.Sprintf("Ürün güncellendi: %s (%s)", p.Name, p.SKU),
				Before:      before,
				After:       p,
			})
		}

		return c.JSON(productToResponse(&p))
	}
}

// DELETE /api/admin/products/:id
// Hareket geçmişi olan ürün silinmez, pasife alınır
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var p models.Product
		if err := database.DB.First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var movementCount int64
		database.DB.Model(&models.InventoryMovement{}).
			Where("product_id = ?", p.ID).
			Count(&movementCount)

		if movementCount > 0 {
			p.IsActive = false
			p.IsPublished = false
			if err := database.DB.Save(&p).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün pasife alınamadı")
			}
		} else {
			if err := database.DB.Delete(&p).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
			}
		}

		if user, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "product",
				EntityID:    p.ID,
				Action:      models.AuditActionDelete,
				Description: fmt.Sprintf("Ürün silindi/pasife alındı: %s (%s)", p.Name, p.SKU),
				Before:      p,
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"ok": true})
	}
}
