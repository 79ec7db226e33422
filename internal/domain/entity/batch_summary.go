package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BatchSummary resumen derivado (no persistido) de las unidades de un lote.
type BatchSummary struct {
	BatchID           string          `json:"batchId"`
	Name              string          `json:"name"`
	UnitCount         int             `json:"unitCount"`
	TotalQuantity     decimal.Decimal `json:"totalQuantity"`
	QuantityRemaining decimal.Decimal `json:"quantityRemaining"`
	AvgPrice          decimal.Decimal `json:"avgPrice"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	ReceivedDate      time.Time       `json:"receivedDate"`
}

// Allocation consumo aplicado a una unidad durante una distribución.
type Allocation struct {
	ProductID        string          `json:"productId"`
	SKU              string          `json:"sku"`
	QuantityConsumed decimal.Decimal `json:"quantityConsumed"`
}
