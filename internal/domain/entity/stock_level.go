package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockLevel stock restante de un producto en una instalación (suma de unidades activas).
// Se deriva de product_units; no se materializa.
type StockLevel struct {
	FacilityID  string
	ProductName string
	Remaining   decimal.Decimal
	UnitCount   int
}

// LowStockAlert producto con stock restante igual o inferior al umbral de la instalación.
type LowStockAlert struct {
	FacilityID  string          `json:"facilityId"`
	ProductName string          `json:"productName"`
	Remaining   decimal.Decimal `json:"remaining"`
	Threshold   int             `json:"threshold"`
}

// ExpiryAlert unidad activa cuya fecha de vencimiento cae dentro de la ventana de aviso.
type ExpiryAlert struct {
	FacilityID string          `json:"facilityId"`
	ProductID  string          `json:"productId"`
	Name       string          `json:"name"`
	BatchID    string          `json:"batchId"`
	Quantity   decimal.Decimal `json:"quantity"`
	ExpiryDate time.Time       `json:"expiryDate"`
	DaysLeft   int             `json:"daysLeft"`
}
