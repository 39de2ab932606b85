package auth

import (
	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// CurrentUser: Context'teki kullanıcı id'sinden kullanıcıyı çeker.
// Audit log ve processedBy alanları için ortak yardımcı.
func CurrentUser(c *fiber.Ctx) (*models.User, error) {
	userIDVal := c.Locals(CtxUserIDKey)
	userID, ok := userIDVal.(uint)
	if !ok {
		return nil, fiber.NewError(fiber.StatusForbidden, "Kullanıcı bilgisi alınamadı")
	}

	var user models.User
	if err := database.DB.First(&user, "id = ?", userID).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı bulunamadı")
	}

	return &user, nil
}
