package catalog

import (
	"strings"

	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateBrandRequest struct {
	Name string `json:"name"`
}

// GET /api/brands
func ListBrandsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var brands []models.Brand
		if err := database.DB.Order("name asc").Find(&brands).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Markalar listelenemedi")
		}
		return c.JSON(brands)
	}
}

// POST /api/admin/brands
func CreateBrandHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateBrandRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		brand := models.Brand{Name: body.Name, IsActive: true}
		if err := database.DB.Create(&brand).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Marka oluşturulamadı (isim kayıtlı olabilir)")
		}

		return c.Status(fiber.StatusCreated).JSON(brand)
	}
}

// DELETE /api/admin/brands/:id
func DeleteBrandHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var brand models.Brand
		if err := database.DB.First(&brand, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Marka bulunamadı")
		}

		var productCount int64
		database.DB.Model(&models.Product{}).Where("brand_id = ?", brand.ID).Count(&productCount)
		if productCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu markaya bağlı ürünler var")
		}

		if err := database.DB.Delete(&brand).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Marka silinemedi")
		}

		return c.JSON(fiber.Map{"ok": true})
	}
}
