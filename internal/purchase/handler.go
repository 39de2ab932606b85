package purchase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"eticaret-backend/internal/audit"
	"eticaret-backend/internal/auth"
	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"
	"eticaret-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateSupplierRequest struct {
	Name        string `json:"name"`
	ContactName string `json:"contact_name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
}

type CreatePurchaseItemRequest struct {
	ProductID uint    `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
}

type CreatePurchaseRequest struct {
	SupplierID uint                        `json:"supplier_id"`
	Items      []CreatePurchaseItemRequest `json:"items"`
	Notes      string                      `json:"notes"`
}

func newPurchaseNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("PUR-%s-%s", time.Now().Format("20060102"), suffix)
}

// POST /api/suppliers
func CreateSupplierHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateSupplierRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name zorunlu")
		}

		supplier := models.Supplier{
			Name:        body.Name,
			ContactName: strings.TrimSpace(body.ContactName),
			Email:       strings.TrimSpace(strings.ToLower(body.Email)),
			Phone:       strings.TrimSpace(body.Phone),
			Address:     body.Address,
			IsActive:    true,
		}
		if err := database.DB.Create(&supplier).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "Tedarikçi oluşturulamadı (isim kayıtlı olabilir)")
		}

		return c.Status(fiber.StatusCreated).JSON(supplier)
	}
}

// GET /api/suppliers
func ListSuppliersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var suppliers []models.Supplier
		if err := database.DB.Order("name asc").Find(&suppliers).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Tedarikçiler listelenemedi")
		}
		return c.JSON(suppliers)
	}
}

// POST /api/purchases
// Satın alma siparişi oluştur (stok henüz girilmez, teslim alınınca girilir)
func CreatePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePurchaseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
		}

		if body.SupplierID == 0 || len(body.Items) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "supplier_id ve en az bir kalem zorunlu")
		}

		var supplier models.Supplier
		if err := database.DB.First(&supplier, "id = ?", body.SupplierID).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Tedarikçi bulunamadı")
		}

		var (
			items     []models.PurchaseItem
			totalCost float64
		)
		for i, it := range body.Items {
			if it.ProductID == 0 || it.Quantity <= 0 || it.UnitCost < 0 {
				return fiber.NewError(fiber.StatusBadRequest,
					fmt.Sprintf("%d. kalem geçersiz (miktar pozitif, maliyet negatif olmamalı)", i+1))
			}

			var product models.Product
			if err := database.DB.First(&product, "id = ?", it.ProductID).Error; err != nil {
				return fiber.NewError(fiber.StatusBadRequest, fmt.Sprintf("%d. kalemdeki ürün bulunamadı (#%d)", i+1, it.ProductID))
			}

			subtotal := it.UnitCost * float64(it.Quantity)
			totalCost += subtotal
			items = append(items, models.PurchaseItem{
				ProductID: it.ProductID,
				Quantity:  it.Quantity,
				UnitCost:  it.UnitCost,
				Subtotal:  subtotal,
			})
		}

		p := models.Purchase{
			PurchaseNumber: newPurchaseNumber(),
			SupplierID:     body.SupplierID,
			Items:          items,
			TotalCost:      totalCost,
			Status:         models.PurchaseStatusOrdered,
			Notes:          body.Notes,
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satın alma oluşturulamadı")
		}

		if user, err := auth.CurrentUser(c); err == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      user.ID,
				UserName:    user.Name,
				EntityType:  "purchase",
				EntityID:    p.ID,
				Action:      models.AuditActionCreate,
				Description: fmt.Sprintf("Satın alma oluşturuldu: %s (%.2f)", p.PurchaseNumber, p.TotalCost),
				Before:      nil,
				After:       p,
			})
		}

		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// GET /api/purchases?status=ordered
func ListPurchasesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Preload("Items").Preload("Supplier")

		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var purchases []models.Purchase
		if err := q.Order("created_at DESC").Limit(100).Find(&purchases).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satın almalar listelenemedi")
		}

		return c.JSON(purchases)
	}
}

// POST /api/purchases/:id/receive
// Teslim alma: kalemler stok servisinden stoğa girilir,
// bir gider kaydı oluşturulur ve satın alma received olur
func ReceivePurchaseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz satın alma id")
		}

		var p models.Purchase
		if err := database.DB.Preload("Items").First(&p, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Satın alma bulunamadı")
		}

		if p.Status != models.PurchaseStatusOrdered {
			return fiber.NewError(fiber.StatusConflict, "Sadece 'ordered' durumundaki satın alma teslim alınabilir")
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		// Stok girişleri durumdan önce uygulanır; yarıda kalan hata
		// satın almayı ordered durumunda bırakır
		for _, item := range p.Items {
			if _, err := stock.Adjust(database.DB, stock.AdjustInput{
				ProductID: item.ProductID,
				Delta:     item.Quantity,
				Kind:      models.MovementIn,
				Reason:    "Satın alma teslim alındı",
				Reference: p.PurchaseNumber,
				Actor:     user.Name,
			}); err != nil {
				if errors.Is(err, stock.ErrProductNotFound) {
					return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Ürün bulunamadı (#%d)", item.ProductID))
				}
				return fiber.NewError(fiber.StatusInternalServerError, "Stok girişi başarısız")
			}
		}

		suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
		trx := models.Transaction{
			Reference:   "TRX-" + suffix,
			Type:        models.TransactionTypeExpense,
			Category:    models.TransactionCategoryPurchase,
			Amount:      p.TotalCost,
			Status:      models.TransactionStatusCompleted,
			Description: fmt.Sprintf("Satın alma teslim alındı: %s", p.PurchaseNumber),
			PurchaseID:  &p.ID,
		}
		if err := database.DB.Create(&trx).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Gider kaydı oluşturulamadı")
		}

		now := time.Now()
		p.Status = models.PurchaseStatusReceived
		p.ReceivedBy = &user.ID
		p.ReceivedAt = &now

		if err := database.DB.Save(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satın alma güncellenemedi")
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "purchase",
			EntityID:    p.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Satın alma teslim alındı: %s", p.PurchaseNumber),
			Before:      nil,
			After:       p,
		})

		return c.JSON(p)
	}
}
