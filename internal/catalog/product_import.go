package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"eticaret-backend/internal/audit"
	"eticaret-backend/internal/auth"
	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"
	"eticaret-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

type ImportRowResult struct {
	Row     int    `json:"row"`
	SKU     string `json:"sku"`
	Status  string `json:"status"` // "created" | "skipped" | "error"
	Message string `json:"message,omitempty"`
}

// POST /api/admin/products/import
// XLSX ile toplu ürün yükleme. Beklenen kolonlar:
// A: İsim, B: SKU, C: Barkod, D: Fiyat, E: Başlangıç stoğu, F: Kritik stok eşiği
// İlk satır başlık olarak atlanır. Var olan SKU'lar atlanır, silinmez/güncellenmez.
func ImportProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		fileHeader, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya yüklenemedi: "+err.Error())
		}

		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".xlsx") {
			return fiber.NewError(fiber.StatusBadRequest, "Sadece .xlsx dosyaları yüklenebilir")
		}

		file, err := fileHeader.Open()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya açılamadı: "+err.Error())
		}
		defer file.Close()

		xlsx, err := excelize.OpenReader(file)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "XLSX dosyası okunamadı: "+err.Error())
		}
		defer xlsx.Close()

		sheets := xlsx.GetSheetList()
		if len(sheets) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "XLSX dosyasında sayfa yok")
		}

		rows, err := xlsx.GetRows(sheets[0])
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Satırlar okunamadı: "+err.Error())
		}

		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		results := make([]ImportRowResult, 0)
		created := 0

		for i, row := range rows {
			if i == 0 {
				continue // başlık satırı
			}
			rowNum := i + 1

			cell := func(idx int) string {
				if idx < len(row) {
					return strings.TrimSpace(row[idx])
				}
				return ""
			}

			name := cell(0)
			sku := cell(1)
			barcode := cell(2)

			if name == "" && sku == "" {
				continue // boş satır
			}
			if name == "" || sku == "" {
				results = append(results, ImportRowResult{Row: rowNum, SKU: sku, Status: "error", Message: "İsim ve SKU zorunlu"})
				continue
			}

			price, err := strconv.ParseFloat(strings.ReplaceAll(cell(3), ",", "."), 64)
			if err != nil || price < 0 {
				results = append(results, ImportRowResult{Row: rowNum, SKU: sku, Status: "error", Message: "Fiyat geçersiz"})
				continue
			}

			initialQty := 0
			if q := cell(4); q != "" {
				initialQty, err = strconv.Atoi(q)
				if err != nil || initialQty < 0 {
					results = append(results, ImportRowResult{Row: rowNum, SKU: sku, Status: "error", Message: "Başlangıç stoğu geçersiz"})
					continue
				}
			}

			lowStockQty := 0
			if q := cell(5); q != "" {
				lowStockQty, err = strconv.Atoi(q)
				if err != nil || lowStockQty < 0 {
					results = append(results, ImportRowResult{Row: rowNum, SKU: sku, Status: "error", Message: "Kritik stok eşiği geçersiz"})
					continue
				}
			}

			var existing models.Product
			if err := database.DB.Where("sku = ?", sku).First(&existing).Error; err == nil {
				results = append(results, ImportRowResult{Row: rowNum, SKU: sku, Status: "skipped", Message: "SKU zaten kayıtlı"})
				continue
			}

			p := models.Product{
				Name:             name,
				SKU:              sku,
				Barcode:          barcode,
				Price:            price,
				LowStockQuantity: lowStockQty,
				StockStatus:      models.StockStatusOutOfStock,
				IsActive:         true,
			}

			if err := database.DB.Create(&p).Error; err != nil {
				results = append(results, ImportRowResult{Row: rowNum, SKU: sku, Status: "error", Message: "Kaydedilemedi"})
				continue
			}

			if initialQty > 0 {
				if _, err := stock.Adjust(database.DB, stock.AdjustInput{
					ProductID: p.ID,
					Delta:     initialQty,
					Kind:      models.MovementIn,
					Reason:    "Toplu yükleme açılış stoğu",
					Actor:     user.Name,
				}); err != nil {
					results = append(results, ImportRowResult{Row: rowNum, SKU: sku, Status: "error", Message: "Ürün kaydedildi ama açılış stoğu girilemedi"})
					continue
				}
			}

			created++
			results = append(results, ImportRowResult{Row: rowNum, SKU: sku, Status: "created"})
		}

		_ = audit.WriteLog(audit.LogOptions{
			UserID:      user.ID,
			UserName:    user.Name,
			EntityType:  "product",
			EntityID:    0,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Toplu ürün yükleme: %d ürün oluşturuldu (%s)", created, fileHeader.Filename),
			Before:      nil,
			After:       nil,
		})

		return c.JSON(fiber.Map{
			"created": created,
			"results": results,
		})
	}
}
