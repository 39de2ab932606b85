package catalog

import (
	"strings"

	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CreateSellerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// GET /api/sellers
func ListSellersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var sellers []models.Seller
		if err := database.DB.Order("name asc").Find(&sellers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satıcılar listelenemedi")
		}
		return c.JSON(sellers)
	}
}

// POST /api/admin/sellers
func CreateSellerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSellerRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		seller := models.Seller{
			Name:     body.Name,
			Email:    strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:    strings.TrimSpace(body.Phone),
			IsActive: true,
		}
		if err := database.DB.Create(&seller).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Satıcı oluşturulamadı (isim kayıtlı olabilir)")
		}

		return c.Status(fiber.StatusCreated).JSON(seller)
	}
}

// DELETE /api/admin/sellers/:id
func DeleteSellerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var seller models.Seller
		if err := database.DB.First(&seller, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satıcı bulunamadı")
		}

		var productCount int64
		database.DB.Model(&models.Product{}).Where("seller_id = ?", seller.ID).Count(&productCount)
		if productCount > 0 {
			return fiber.NewError(fiber.StatusConflict, "Bu satıcıya bağlı ürünler var")
		}

		if err := database.DB.Delete(&seller).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satıcı silinemedi")
		}

		return c.JSON(fiber.Map{"ok": true})
	}
}
