package accounting

import (
	"time"

	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MonthlySummaryItem struct {
	Category string  `json:"category"`
	Total    float64 `json:"total"`
}

type MonthlySummaryResponse struct {
	Year         int                  `json:"year"`
	Month        int                  `json:"month"`
	Income       []MonthlySummaryItem `json:"income"`
	Expense      []MonthlySummaryItem `json:"expense"`
	TotalIncome  float64              `json:"total_income"`
	TotalExpense float64              `json:"total_expense"`
	Net          float64              `json:"net"`
}

// GET /api/transactions?type=income&category=sale&limit=100
func ListTransactionsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Transaction{})

		if trxType := c.Query("type"); trxType != "" {
			q = q.Where("type = ?", trxType)
		}
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if orderID := c.QueryInt("order_id"); orderID > 0 {
			q = q.Where("order_id = ?", orderID)
		}

		limit := c.QueryInt("limit", 100)
		if limit < 1 || limit > 500 {
			limit = 100
		}

		var transactions []models.Transaction
		if err := q.Order("created_at DESC").Limit(limit).Find(&transactions).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İşlemler listelenemedi")
		}

		return c.JSON(transactions)
	}
}

// GET /api/reports/monthly-summary?year=2026&month=8
// Aylık gelir/gider özeti, kategori kırılımlı
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year")
		month := c.QueryInt("month")
		if year < 2000 || month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "year ve month zorunlu")
		}

		loc := time.Now().Location()
		firstDay := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		nextMonth := firstDay.AddDate(0, 1, 0)

		type categoryTotal struct {
			Type     models.TransactionType `gorm:"column:type"`
			Category string                 `gorm:"column:category"`
			Total    float64                `gorm:"column:total"`
		}

		var totals []categoryTotal
		if err := database.DB.Model(&models.Transaction{}).
			Select("type, category, SUM(amount) as total").
			Where("status = ? AND created_at >= ? AND created_at < ?",
				models.TransactionStatusCompleted, firstDay, nextMonth).
			Group("type, category").
			Scan(&totals).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		resp := MonthlySummaryResponse{
			Year:    year,
			Month:   month,
			Income:  make([]MonthlySummaryItem, 0),
			Expense: make([]MonthlySummaryItem, 0),
		}

		for _, t := range totals {
			item := MonthlySummaryItem{Category: t.Category, Total: t.Total}
			if t.Type == models.TransactionTypeIncome {
				resp.Income = append(resp.Income, item)
				resp.TotalIncome += t.Total
			} else {
				resp.Expense = append(resp.Expense, item)
				resp.TotalExpense += t.Total
			}
		}
		resp.Net = resp.TotalIncome - resp.TotalExpense

		return c.JSON(resp)
	}
}

// GET /api/reports/top-products?limit=10
// En çok satan ürünler (kümülatif satış sayacına göre)
func TopProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 10)
		if limit < 1 || limit > 100 {
			limit = 10
		}

		var products []models.Product
		if err := database.DB.
			Where("sold_count > 0").
			Order("sold_count DESC").
			Limit(limit).
			Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Rapor hesaplanamadı")
		}

		resp := make([]fiber.Map, 0, len(products))
		for _, p := range products {
			resp = append(resp, fiber.Map{
				"product_id": p.ID,
				"name":       p.Name,
				"sku":        p.SKU,
				"sold_count": p.SoldCount,
				"price":      p.Price,
			})
		}

		return c.JSON(resp)
	}
}
