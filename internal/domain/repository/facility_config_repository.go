package repository

import (
	"context"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// FacilityConfigRepository documentos de configuración guardados en base de datos.
// Sobrescriben o amplían la tabla embebida al recargar el registro.
type FacilityConfigRepository interface {
	ListAll(ctx context.Context) ([]*entity.FacilityConfig, error)
	Upsert(ctx context.Context, cfg *entity.FacilityConfig) error
}
