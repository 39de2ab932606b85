package notification

import (
	"time"

	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GET /api/notifications?recipient_id=5&unread=true
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		recipientID := c.QueryInt("recipient_id")
		if recipientID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "recipient_id zorunlu")
		}

		q := database.DB.Where("recipient_id = ?", recipientID)
		if c.Query("unread") == "true" {
			q = q.Where("is_read = ?", false)
		}

		var notifications []models.Notification
		if err := q.Order("created_at DESC").Limit(200).Find(&notifications).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirimler listelenemedi")
		}

		return c.JSON(notifications)
	}
}

// POST /api/notifications/:id/read
func MarkReadHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz bildirim id")
		}

		var n models.Notification
		if err := database.DB.First(&n, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bildirim bulunamadı")
		}

		if !n.IsRead {
			now := time.Now()
			n.IsRead = true
			n.ReadAt = &now
			if err := database.DB.Save(&n).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Bildirim güncellenemedi")
			}
		}

		return c.JSON(fiber.Map{"id": n.ID, "is_read": n.IsRead})
	}
}
