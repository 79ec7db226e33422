package facility

import (
	"context"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// ConfigCache caché de configuraciones ya resueltas (lectura directa).
// Get devuelve nil, nil si la clave no existe.
type ConfigCache interface {
	Get(ctx context.Context, facilityID string) (*entity.FacilityConfig, error)
	Set(ctx context.Context, facilityID string, cfg *entity.FacilityConfig) error
	Invalidate(ctx context.Context) error
}
