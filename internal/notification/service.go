package notification

import (
	"fmt"

	"eticaret-backend/internal/models"

	"gorm.io/gorm"
)

type NotifyOptions struct {
	RecipientID   uint
	Title         string
	Message       string
	Priority      models.NotificationPriority
	RelatedEntity string
	RelatedID     *uint
}

// Notify: Bildirim kaydı oluşturur. Teslimat bu servisin dışında;
// çağıranlar hatayı iş akışını geri almak için kullanmamalı (best-effort).
func Notify(db *gorm.DB, opts NotifyOptions) error {
	if opts.RecipientID == 0 {
		return fmt.Errorf("recipient_id zorunlu")
	}

	priority := opts.Priority
	if priority == "" {
		priority = models.NotificationPriorityNormal
	}

	n := models.Notification{
		RecipientID:   opts.RecipientID,
		Title:         opts.Title,
		Message:       opts.Message,
		Priority:      priority,
		RelatedEntity: opts.RelatedEntity,
		RelatedID:     opts.RelatedID,
	}

	if err := db.Create(&n).Error; err != nil {
		return fmt.Errorf("bildirim kaydedilemedi: %w", err)
	}

	return nil
}
