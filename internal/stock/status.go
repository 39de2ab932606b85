package stock

import "eticaret-backend/internal/models"

// StatusFor: Stok durumunu miktar ve kritik eşikten türetir.
// Eşiğe eşitlik low_stock sayılır, in_stock değil.
func StatusFor(quantity, lowStockQuantity int) models.StockStatus {
	switch {
	case quantity == 0:
		return models.StockStatusOutOfStock
	case quantity <= lowStockQuantity:
		return models.StockStatusLowStock
	default:
		return models.StockStatusInStock
	}
}
