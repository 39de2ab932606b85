package main

import (
	"log"
	"strings"

	"eticaret-backend/internal/accounting"
	"eticaret-backend/internal/audit"
	"eticaret-backend/internal/auth"
	"eticaret-backend/internal/catalog"
	"eticaret-backend/internal/config"
	"eticaret-backend/internal/database"
	"eticaret-backend/internal/models"
	"eticaret-backend/internal/notification"
	"eticaret-backend/internal/order"
	"eticaret-backend/internal/purchase"
	"eticaret-backend/internal/stock"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	cfg := config.Load()
	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Println("Unexpected error:", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Beklenmeyen sunucu hatası",
			})
		},
	})

	// CORS origins'i virgülle ayrılmış string'den array'e çevir
	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Public auth
	api.Post("/auth/register-admin", auth.RegisterAdminHandler(cfg))
	api.Post("/auth/login", auth.LoginHandler(cfg))

	// Protected
	protected := api.Group("")
	protected.Use(auth.JWTMiddleware(cfg))

	protected.Get("/auth/me", auth.MeHandler())

	// Admin routes
	adminRoutes := protected.Group("/admin")
	adminRoutes.Use(auth.RequireRole(models.RoleAdmin))

	// Kullanıcı yönetimi
	adminRoutes.Post("/users", auth.CreateUserHandler())
	adminRoutes.Get("/users", auth.ListUsersHandler())

	// Katalog yönetimi
	adminRoutes.Post("/products", catalog.CreateProductHandler())
	adminRoutes.Put("/products/:id", catalog.UpdateProductHandler())
	adminRoutes.Delete("/products/:id", catalog.DeleteProductHandler())
	adminRoutes.Post("/products/import", catalog.ImportProductsHandler())
	adminRoutes.Post("/categories", catalog.CreateCategoryHandler())
	adminRoutes.Put("/categories/:id", catalog.UpdateCategoryHandler())
	adminRoutes.Delete("/categories/:id", catalog.DeleteCategoryHandler())
	adminRoutes.Post("/brands", catalog.CreateBrandHandler())
	adminRoutes.Delete("/brands/:id", catalog.DeleteBrandHandler())
	adminRoutes.Post("/sellers", catalog.CreateSellerHandler())
	adminRoutes.Delete("/sellers/:id", catalog.DeleteSellerHandler())

	// Sipariş işleme ve stok düzeltme (admin + manager)
	managerRoutes := protected.Group("")
	managerRoutes.Use(auth.RequireRole(models.RoleAdmin, models.RoleManager))

	managerRoutes.Put("/orders/:id/status", order.UpdateOrderStatusHandler())
	managerRoutes.Post("/stock/adjust", stock.AdjustStockHandler())

	// Satın alma (admin + manager)
	managerRoutes.Post("/suppliers", purchase.CreateSupplierHandler())
	managerRoutes.Post("/purchases", purchase.CreatePurchaseHandler())
	managerRoutes.Post("/purchases/:id/receive", purchase.ReceivePurchaseHandler())

	// Muhasebe raporları (admin + manager)
	managerRoutes.Get("/transactions", accounting.ListTransactionsHandler())
	managerRoutes.Get("/reports/monthly-summary", accounting.MonthlySummaryHandler())
	managerRoutes.Get("/reports/top-products", accounting.TopProductsHandler())

	// Audit logs (admin + manager)
	managerRoutes.Get("/audit-logs", audit.ListAuditLogsHandler())

	// Ortak (auth gerektiren) route'lar

	// Katalog
	protected.Get("/products", catalog.ListProductsHandler())
	protected.Get("/products/:id", catalog.GetProductHandler())
	protected.Get("/categories", catalog.ListCategoriesHandler())
	protected.Get("/brands", catalog.ListBrandsHandler())
	protected.Get("/sellers", catalog.ListSellersHandler())

	// Müşteriler
	protected.Post("/customers", catalog.CreateCustomerHandler())
	protected.Get("/customers", catalog.ListCustomersHandler())
	protected.Get("/customers/:id", catalog.GetCustomerHandler())

	// Stok okuma yüzeyi
	protected.Get("/products/:id/stock", stock.GetProductStockHandler())
	protected.Get("/products/:id/movements", stock.ListMovementsHandler())
	protected.Get("/stock/alerts", stock.StockAlertsHandler())

	// Siparişler
	protected.Post("/orders", order.CreateOrderHandler())
	protected.Get("/orders", order.ListOrdersHandler())
	protected.Get("/orders/:id", order.GetOrderHandler())

	// Tedarik
	protected.Get("/suppliers", purchase.ListSuppliersHandler())
	protected.Get("/purchases", purchase.ListPurchasesHandler())

	// Bildirimler
	protected.Get("/notifications", notification.ListNotificationsHandler())
	protected.Post("/notifications/:id/read", notification.MarkReadHandler())

	log.Println("Server çalışıyor port:", cfg.HTTPPort)
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal(err)
	}
}
