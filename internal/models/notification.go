package models

import "time"

type NotificationPriority string

const (
	NotificationPriorityLow    NotificationPriority = "low"
	NotificationPriorityNormal NotificationPriority = "normal"
	NotificationPriorityHigh   NotificationPriority = "high"
)

// Notification: Müşteriye gönderilecek bildirim kaydı.
// Teslimat (e-posta/push) bu servisin dışında; burada sadece kayıt tutulur.
type Notification struct {
	ID          uint `gorm:"primaryKey"`
	RecipientID uint `gorm:"index;not null"` // müşteri id

	Title    string               `gorm:"size:150;not null"`
	Message  string               `gorm:"size:1000;not null"`
	Priority NotificationPriority `gorm:"size:10;not null;default:normal"`

	// İlişkili kayıt (ör: sipariş)
	RelatedEntity string `gorm:"size:50"` // ör: "order"
	RelatedID     *uint

	IsRead bool `gorm:"not null;default:false"`
	ReadAt *time.Time

	CreatedAt time.Time
}
