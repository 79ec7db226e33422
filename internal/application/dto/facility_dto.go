package dto

import "github.com/jhoicas/facility-inventory-api/internal/domain/entity"

// PrimaryKeyResponse estrategia de clave compuesta de la instalación.
type PrimaryKeyResponse struct {
	FacilityID string `json:"facilityId"`
	PrimaryKey string `json:"primaryKey"`
}

// ReloadResponse resultado de recargar el registro de configuraciones.
type ReloadResponse struct {
	Facilities []string `json:"facilities"`
}

// FacilityConfigResponse configuración resuelta.
type FacilityConfigResponse struct {
	Config *entity.FacilityConfig `json:"config"`
}

// FeatureResponse estado de un toggle de la sección features.
type FeatureResponse struct {
	FacilityID string `json:"facilityId"`
	Feature    string `json:"feature"`
	Enabled    bool   `json:"enabled"`
}
