package inventory

import (
	"context"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

// BatchUseCase proyección de lectura por lote (nunca modifica unidades).
type BatchUseCase struct {
	configs   ConfigProvider
	units     repository.ProductUnitRepository
	generator BatchReportGenerator
	log       *logger.Logger
}

// NewBatchUseCase construye el caso de uso. generator puede ser nil si no se exponen reportes.
func NewBatchUseCase(configs ConfigProvider, units repository.ProductUnitRepository, generator BatchReportGenerator, log *logger.Logger) *BatchUseCase {
	return &BatchUseCase{configs: configs, units: units, generator: generator, log: log}
}

// Summaries resumen por lote de la instalación; name vacío = todos los productos.
// Los datos inconsistentes se corrigen en la proyección y se registran como advertencia.
func (uc *BatchUseCase) Summaries(ctx context.Context, facilityID, name string) ([]entity.BatchSummary, error) {
	units, err := uc.units.ListForSummary(ctx, facilityID, name)
	if err != nil {
		return nil, err
	}
	summaries, warnings := inventory.SummarizeWithWarnings(units)
	for _, w := range warnings {
		uc.log.Warn().
			Str("facility_id", facilityID).
			Str("kind", w.Kind).
			Str("batch_id", w.BatchID).
			Str("product_id", w.ProductID).
			Str("value", w.Value.String()).
			Msg("dato de inventario inconsistente")
	}
	return summaries, nil
}

// Report PDF con el resumen por lote de la instalación.
func (uc *BatchUseCase) Report(ctx context.Context, facilityID string) ([]byte, error) {
	cfg, err := uc.configs.Resolve(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	summaries, err := uc.Summaries(ctx, facilityID, "")
	if err != nil {
		return nil, err
	}
	return uc.generator.GenerateBatchReport(cfg, summaries)
}
