package http

import (
	"context"
	"time"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/facility"
)

// Contratos que consumen los handlers. Los implementan los casos de uso de application.

// ConfigService lo implementa *facility.ConfigUseCase (application).
type ConfigService interface {
	Resolve(ctx context.Context, facilityID string) (*entity.FacilityConfig, error)
	PrimaryKeyFormat(ctx context.Context, facilityID string) (string, error)
	Validate(ctx context.Context, product map[string]any, facilityID string) (facility.ValidationResult, error)
	HasFeature(ctx context.Context, facilityID, feature string) (bool, error)
	Reload(ctx context.Context) ([]string, error)
	SaveOverride(ctx context.Context, cfg *entity.FacilityConfig) (*entity.FacilityConfig, error)
}

// ProductService lo implementa *inventory.ProductUseCase.
type ProductService interface {
	Create(ctx context.Context, facilityID string, payload map[string]any) ([]*entity.ProductUnit, error)
	List(ctx context.Context, facilityID, name string, limit, offset int) ([]*entity.ProductUnit, error)
	Get(ctx context.Context, facilityID, id string) (*entity.ProductUnit, error)
}

// BatchService lo implementa *inventory.BatchUseCase.
type BatchService interface {
	Summaries(ctx context.Context, facilityID, name string) ([]entity.BatchSummary, error)
	Report(ctx context.Context, facilityID string) ([]byte, error)
}

// DistributionService lo implementa *inventory.DistributionUseCase.
type DistributionService interface {
	Distribute(ctx context.Context, facilityID string, req dto.DistributionRequest) (*dto.DistributionResult, error)
}

// PlacementService lo implementa *inventory.PlacementUseCase.
type PlacementService interface {
	Place(ctx context.Context, facilityID, unitID string, req dto.PlacementRequest) (*entity.ProductUnit, error)
}

// AlertService lo implementa *inventory.AlertUseCase.
type AlertService interface {
	LowStock(ctx context.Context, facilityID string) ([]entity.LowStockAlert, bool, error)
	Expiring(ctx context.Context, facilityID string, now time.Time) ([]entity.ExpiryAlert, bool, error)
}
