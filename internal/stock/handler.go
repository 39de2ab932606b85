package stock

import (
	"errors"
	"fmt"

	"eticaret-backend/internal/audit"
	"eticaret-backend/internal/auth"
	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AdjustStockRequest struct {
	ProductID uint                `json:"product_id"`
	Delta     int                 `json:"delta"`
	Kind      models.MovementType `json:"kind"` // "in" | "out" | "adjustment", boşsa işaretten çıkarılır
	Reason    string              `json:"reason"`
}

type MovementResponse struct {
	ID               uint                `json:"id"`
	ProductID        uint                `json:"product_id"`
	Type             models.MovementType `json:"type"`
	Quantity         int                 `json:"quantity"`
	PreviousQuantity int                 `json:"previous_quantity"`
	NewQuantity      int                 `json:"new_quantity"`
	Reason           string              `json:"reason"`
	Reference        string              `json:"reference"`
	Actor            string              `json:"actor"`
	CreatedAt        string              `json:"created_at"`
}

// Gateway hatalarını HTTP hatalarına çevir
func mapAdjustError(err error) error {
	switch {
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
	case errors.Is(err, ErrInsufficientStock):
		return fiber.NewError(fiber.StatusConflict, "Yetersiz stok")
	case errors.Is(err, ErrInvalidDelta):
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz miktar değişimi")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "Stok ayarlanamadı")
	}
}

func movementToResponse(m *models.InventoryMovement) MovementResponse {
	return MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		Type:             m.Type,
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Reason:           m.Reason,
		Reference:        m.Reference,
		Actor:            m.Actor,
		CreatedAt:        m.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// POST /api/stock/adjust
// Manuel stok düzeltmesi (admin/manager)
func AdjustStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body AdjustStockRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.ProductID == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "product_id zorunlu")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		reason := body.Reason
		if reason == "" {
			reason = "Manuel stok düzeltmesi"
		}

		movement, err := Adjust(database.DB, AdjustInput{
			ProductID: body.ProductID,
			Delta:     body.Delta,
			Kind:      body.Kind,
			Reason:    reason,
			Actor:     user.Name,
		})
		if err != nil {
			return mapAdjustError(err)
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "inventory_movement",
			EntityID:    movement.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Stok düzeltmesi: ürün #%d, %d -> %d", movement.ProductID, movement.PreviousQuantity, movement.NewQuantity),
			Before:      nil,
			After:       movement,
		})

		return c.Status(fiber.StatusCreated).JSON(movementToResponse(movement))
	}
}

// GET /api/products/:id/stock
// Ürünün güncel miktar ve stok durumu
func GetProductStockHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		return c.JSON(fiber.Map{
			"product_id":         product.ID,
			"sku":                product.SKU,
			"quantity":           product.Quantity,
			"low_stock_quantity": product.LowStockQuantity,
			"stock_status":       product.StockStatus,
			"sold_count":         product.SoldCount,
		})
	}
}

// GET /api/products/:id/movements
// Ürünün stok hareketleri, en yeni önce
func ListMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün id")
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var movements []models.InventoryMovement
		if err := database.DB.
			Where("product_id = ?", id).
			Order("created_at DESC, id DESC").
			Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hareketleri listelenemedi")
		}

		resp := make([]MovementResponse, 0, len(movements))
		for i := range movements {
			resp = append(resp, movementToResponse(&movements[i]))
		}

		return c.JSON(resp)
	}
}

// GET /api/stock/alerts
// Yayında olan ürünlerden stoğu kritik veya tükenmiş olanlar
func StockAlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.
			Where("is_published = ? AND stock_status IN ?", true,
				[]models.StockStatus{models.StockStatusLowStock, models.StockStatusOutOfStock}).
			Order("stock_status DESC, name ASC").
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok uyarıları listelenemedi")
		}

		resp := make([]fiber.Map, 0, len(products))
		for _, p := range products {
			resp = append(resp, fiber.Map{
				"product_id":         p.ID,
				"name":               p.Name,
				"sku":                p.SKU,
				"quantity":           p.Quantity,
				"low_stock_quantity": p.LowStockQuantity,
				"stock_status":       p.StockStatus,
			})
		}

		return c.JSON(resp)
	}
}
