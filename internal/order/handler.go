package order

import (
	"errors"
	"fmt"

	"eticaret-backend/internal/audit"
	"eticaret-backend/internal/auth"
	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"
	"eticaret-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
)

type CreateOrderItemRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

type CreateOrderRequest struct {
	CustomerID      *uint                    `json:"customer_id"`
	Items           []CreateOrderItemRequest `json:"items"`
	TaxAmount       float64                  `json:"tax_amount"`
	ShippingAmount  float64                  `json:"shipping_amount"`
	DiscountAmount  float64                  `json:"discount_amount"`
	PaymentMethod   string                   `json:"payment_method"`
	ShippingAddress string                   `json:"shipping_address"`
	Notes           string                   `json:"notes"`
}

type UpdateStatusRequest struct {
	Status models.OrderStatus `json:"status"`
	Notes  string             `json:"notes"`
}

type OrderItemResponse struct {
	ProductID   uint    `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	Subtotal    float64 `json:"subtotal"`
}

type OrderResponse struct {
	ID              uint                 `json:"id"`
	OrderNumber     string               `json:"order_number"`
	CustomerID      *uint                `json:"customer_id"`
	Items           []OrderItemResponse  `json:"items"`
	Subtotal        float64              `json:"subtotal"`
	TaxAmount       float64              `json:"tax_amount"`
	ShippingAmount  float64              `json:"shipping_amount"`
	DiscountAmount  float64              `json:"discount_amount"`
	TotalAmount     float64              `json:"total_amount"`
	Status          models.OrderStatus   `json:"status"`
	PaymentStatus   models.PaymentStatus `json:"payment_status"`
	PaymentMethod   string               `json:"payment_method"`
	ShippingAddress string               `json:"shipping_address"`
	Notes           string               `json:"notes"`
	CancelReason    string               `json:"cancel_reason,omitempty"`
	CreatedAt       string               `json:"created_at"`
}

func orderToResponse(o *models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, OrderItemResponse{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			UnitPrice:   it.UnitPrice,
			Quantity:    it.Quantity,
			Subtotal:    it.Subtotal,
		})
	}

	return OrderResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		Items:           items,
		Subtotal:        o.Subtotal,
		TaxAmount:       o.TaxAmount,
		ShippingAmount:  o.ShippingAmount,
		DiscountAmount:  o.DiscountAmount,
		TotalAmount:     o.TotalAmount,
		Status:          o.Status,
		PaymentStatus:   o.PaymentStatus,
		PaymentMethod:   o.PaymentMethod,
		ShippingAddress: o.ShippingAddress,
		Notes:           o.Notes,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/orders
func CreateOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		items := make([]CreateItemInput, 0, len(body.Items))
		for _, it := range body.Items {
			items = append(items, CreateItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
		}

		o, err := Create(database.DB, CreateOrderInput{
			CustomerID:      body.CustomerID,
			Items:           items,
			TaxAmount:       body.TaxAmount,
			ShippingAmount:  body.ShippingAmount,
			DiscountAmount:  body.DiscountAmount,
			PaymentMethod:   body.PaymentMethod,
			ShippingAddress: body.ShippingAddress,
			Notes:           body.Notes,
			Actor:           user.Name,
		})
		if err != nil {
			switch {
			case errors.Is(err, stock.ErrInsufficientStock):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			case errors.Is(err, ErrInvalidOrderItems):
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş oluşturulamadı")
			}
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "order",
			EntityID:    o.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Sipariş oluşturuldu: %s (%.2f)", o.OrderNumber, o.TotalAmount),
			Before:      nil,
			After:       o,
		})

		return c.Status(fiber.StatusCreated).JSON(orderToResponse(o))
	}
}

// PUT /api/orders/:id/status
func UpdateOrderStatusHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var body UpdateStatusRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}
		if body.Status == "" {
			return fiber.NewError(fiber.StatusBadRequest, "status zorunlu")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		// audit için önceki hali sakla
		var before models.Order
		database.DB.First(&before, "id = ?", id)

		o, err := SetStatus(database.DB, uint(id), body.Status, user.ID, user.Name, body.Notes)
		if err != nil {
			switch {
			case errors.Is(err, ErrOrderNotFound):
				return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
			case errors.Is(err, ErrInvalidTransition):
				return fiber.NewError(fiber.StatusConflict, err.Error())
			default:
				return fiber.NewError(fiber.StatusInternalServerError, "Sipariş durumu güncellenemedi")
			}
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "order",
			EntityID:    o.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Sipariş durumu: %s -> %s", before.Status, o.Status),
			Before:      before,
			After:       o,
		})

		return c.JSON(orderToResponse(o))
	}
}

// GET /api/orders?status=pending&limit=50
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items")

		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}
		if customerID := c.QueryInt("customer_id"); customerID > 0 {
			q = q.Where("customer_id = ?", customerID)
		}

		limit := c.QueryInt("limit", 50)
		if limit < 1 || limit > 200 {
			limit = 50
		}

		var orders []models.Order
		if err := q.Order("created_at DESC").Limit(limit).Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Siparişler listelenemedi")
		}

		resp := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			resp = append(resp, orderToResponse(&orders[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz sipariş id")
		}

		var o models.Order
		if err := database.DB.Preload("Items").First(&o, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Sipariş bulunamadı")
		}

		return c.JSON(orderToResponse(&o))
	}
}
