package dto

import "github.com/jhoicas/facility-inventory-api/internal/domain/entity"

// LowStockResponse alertas de stock bajo de una instalación.
type LowStockResponse struct {
	FacilityID string                 `json:"facilityId"`
	Enabled    bool                   `json:"enabled"`
	Items      []entity.LowStockAlert `json:"items"`
}

// ExpiringResponse unidades próximas a vencer.
type ExpiringResponse struct {
	FacilityID string               `json:"facilityId"`
	Enabled    bool                 `json:"enabled"`
	Items      []entity.ExpiryAlert `json:"items"`
}
