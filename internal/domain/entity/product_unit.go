package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una unidad de inventario.
const (
	UnitStatusActive   = "active"
	UnitStatusConsumed = "consumed"
	UnitStatusInactive = "inactive"
)

// ProductUnit representa un registro de inventario (una unidad, o varias en datos heredados).
// Nunca se fusiona con otro registro: la agregación por lote es una proyección de lectura.
type ProductUnit struct {
	ID              string
	FacilityID      string
	Name            string
	SKU             string
	BatchID         string
	Category        string
	Quantity        decimal.Decimal     // cantidad actual
	InitialQuantity decimal.NullDecimal // cantidad al crear; inválido en registros heredados
	PricePerUnit    decimal.Decimal
	ReceivedDate    time.Time
	ExpiryDate      *time.Time
	Status          string
	CompositeKey    string
	Attributes      json.RawMessage // campos personalizados de la instalación
	Distributions   []Distribution
	Placements      []Placement
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Distribution evento de salida registrado sobre una unidad.
type Distribution struct {
	Destination string          `json:"destination"`
	Quantity    decimal.Decimal `json:"quantity"`
	PriceSent   decimal.Decimal `json:"priceSent"`
	Date        time.Time       `json:"date"`
}

// Placement ubicación (sección) de parte de una unidad.
type Placement struct {
	Section  string          `json:"section"`
	Quantity decimal.Decimal `json:"quantity"`
	Position string          `json:"position,omitempty"`
}

// IsAvailable informa si la unidad puede consumirse (activa y con cantidad positiva).
func (u *ProductUnit) IsAvailable() bool {
	return u.Status == UnitStatusActive && u.Quantity.GreaterThan(decimal.Zero)
}

// StartingQuantity cantidad inicial; en datos heredados sin inicial usa la actual.
func (u *ProductUnit) StartingQuantity() (decimal.Decimal, bool) {
	if u.InitialQuantity.Valid {
		return u.InitialQuantity.Decimal, true
	}
	return u.Quantity, false
}

// PlacedQuantity suma de cantidades ubicadas en secciones.
func (u *ProductUnit) PlacedQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, p := range u.Placements {
		total = total.Add(p.Quantity)
	}
	return total
}
