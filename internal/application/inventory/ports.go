package inventory

import (
	"context"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando el repositorio atado a esa tx.
// Si fn devuelve error no queda ningún cambio visible.
type TxRunner interface {
	Run(ctx context.Context, fn func(units repository.ProductUnitRepository) error) error
}

// KeyLocker serializa operaciones por clave (distribución por producto, generación de ids por prefijo).
// unlock debe llamarse siempre; devuelve domain.ErrLockNotObtained si la clave sigue ocupada.
type KeyLocker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// ConfigProvider configuración efectiva de una instalación.
type ConfigProvider interface {
	Resolve(ctx context.Context, facilityID string) (*entity.FacilityConfig, error)
}

// BatchReportGenerator genera el PDF de resumen por lote.
type BatchReportGenerator interface {
	GenerateBatchReport(cfg *entity.FacilityConfig, summaries []entity.BatchSummary) ([]byte, error)
}

// Lock keys.
func distributionKey(facilityID, name string) string {
	return "distribution:" + facilityID + ":" + name
}

func idGenerationKey(facilityID, prefix string) string {
	return "idgen:" + facilityID + ":" + prefix
}
