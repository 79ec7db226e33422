package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DistributionRequest body para POST /api/products/distribute.
type DistributionRequest struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Quantity    decimal.Decimal `json:"quantity" validate:"gt=0"`
	Destination string          `json:"destination" validate:"required,max=200"`
}

// AllocationDTO consumo aplicado a una unidad, en orden FIFO.
type AllocationDTO struct {
	ProductID        string          `json:"productId"`
	SKU              string          `json:"sku"`
	BatchID          string          `json:"batchId"`
	QuantityConsumed decimal.Decimal `json:"quantityConsumed"`
	PriceSent        decimal.Decimal `json:"priceSent"`
}

// DistributionResult resultado de una distribución confirmada.
type DistributionResult struct {
	Name           string          `json:"name"`
	Destination    string          `json:"destination"`
	Allocations    []AllocationDTO `json:"allocations"`
	TotalQuantity  decimal.Decimal `json:"totalQuantity"`
	TotalPriceSent decimal.Decimal `json:"totalPriceSent"`
	DistributedAt  time.Time       `json:"distributedAt"`
}

// PlacementRequest body para POST /api/products/:id/placements.
type PlacementRequest struct {
	Section  string          `json:"section" validate:"required,max=100"`
	Quantity decimal.Decimal `json:"quantity" validate:"gt=0"`
	Position string          `json:"position,omitempty" validate:"max=100"`
}
