package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// ProductUnitResponse salida de una unidad de inventario.
type ProductUnitResponse struct {
	ID              string                `json:"id"`
	FacilityID      string                `json:"facilityId"`
	Name            string                `json:"name"`
	SKU             string                `json:"sku"`
	BatchID         string                `json:"batchId"`
	Category        string                `json:"category,omitempty"`
	Quantity        decimal.Decimal       `json:"quantity"`
	InitialQuantity *decimal.Decimal      `json:"initialQuantity,omitempty"`
	PricePerUnit    decimal.Decimal       `json:"pricePerUnit"`
	ReceivedDate    time.Time             `json:"receivedDate"`
	ExpiryDate      *time.Time            `json:"expiryDate,omitempty"`
	Status          string                `json:"status"`
	CompositeKey    string                `json:"compositeKey"`
	Attributes      json.RawMessage       `json:"attributes,omitempty"`
	Distributions   []entity.Distribution `json:"distributions"`
	Placements      []entity.Placement    `json:"placements"`
	CreatedAt       time.Time             `json:"createdAt"`
	UpdatedAt       time.Time             `json:"updatedAt"`
}

// ProductListResponse lista paginada de unidades.
type ProductListResponse struct {
	Items []ProductUnitResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// CreateProductResponse unidades creadas por una recepción.
type CreateProductResponse struct {
	BatchID string                `json:"batchId"`
	Units   []ProductUnitResponse `json:"units"`
}

// BatchSummaryListResponse resumen por lote de una instalación.
type BatchSummaryListResponse struct {
	Items []entity.BatchSummary `json:"items"`
}

// ToProductUnitResponse mapea la entidad a su representación HTTP.
func ToProductUnitResponse(u *entity.ProductUnit) ProductUnitResponse {
	out := ProductUnitResponse{
		ID:            u.ID,
		FacilityID:    u.FacilityID,
		Name:          u.Name,
		SKU:           u.SKU,
		BatchID:       u.BatchID,
		Category:      u.Category,
		Quantity:      u.Quantity,
		PricePerUnit:  u.PricePerUnit,
		ReceivedDate:  u.ReceivedDate,
		ExpiryDate:    u.ExpiryDate,
		Status:        u.Status,
		CompositeKey:  u.CompositeKey,
		Attributes:    u.Attributes,
		Distributions: u.Distributions,
		Placements:    u.Placements,
		CreatedAt:     u.CreatedAt,
		UpdatedAt:     u.UpdatedAt,
	}
	if u.InitialQuantity.Valid {
		iq := u.InitialQuantity.Decimal
		out.InitialQuantity = &iq
	}
	if out.Distributions == nil {
		out.Distributions = []entity.Distribution{}
	}
	if out.Placements == nil {
		out.Placements = []entity.Placement{}
	}
	return out
}

// ToProductUnitResponses mapea una lista de entidades.
func ToProductUnitResponses(units []*entity.ProductUnit) []ProductUnitResponse {
	out := make([]ProductUnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, ToProductUnitResponse(u))
	}
	return out
}
