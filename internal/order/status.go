package order

import (
	"errors"

	"eticaret-backend/internal/models"
)

var ErrInvalidTransition = errors.New("geçersiz durum geçişi")

// allowedTransitions: Açık geçiş tablosu. Aynı duruma tekrar geçiş yok,
// terminal durumlardan çıkış yok (tek istisna delivered -> returned).
// Bu sayede teslimat yan etkileri (gelir kaydı, satış sayacı) asla
// iki kez uygulanmaz.
var allowedTransitions = map[models.OrderStatus][]models.OrderStatus{
	models.OrderStatusPending: {
		models.OrderStatusProcessing,
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusRejected,
	},
	models.OrderStatusProcessing: {
		models.OrderStatusConfirmed,
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusRejected,
	},
	models.OrderStatusConfirmed: {
		models.OrderStatusShipped,
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusRejected,
	},
	models.OrderStatusShipped: {
		models.OrderStatusDelivered,
		models.OrderStatusCancelled,
		models.OrderStatusRejected,
	},
	models.OrderStatusDelivered: {
		models.OrderStatusReturned,
	},
	models.OrderStatusCancelled: {},
	models.OrderStatusRejected:  {},
	models.OrderStatusReturned:  {},
}

func CanTransition(from, to models.OrderStatus) bool {
	for _, allowed := range allowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func IsValidStatus(s models.OrderStatus) bool {
	_, ok := allowedTransitions[s]
	return ok
}
