package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

// DistributionUseCase distribuye stock de un producto en orden FIFO de forma transaccional:
// bloqueo por (instalación, producto), SELECT FOR UPDATE de las unidades y Commit/Rollback.
type DistributionUseCase struct {
	configs ConfigProvider
	tx      TxRunner
	locker  KeyLocker
	log     *logger.Logger
}

// NewDistributionUseCase construye el caso de uso.
func NewDistributionUseCase(configs ConfigProvider, tx TxRunner, locker KeyLocker, log *logger.Logger) *DistributionUseCase {
	return &DistributionUseCase{configs: configs, tx: tx, locker: locker, log: log}
}

// Distribute consume quantity de las unidades activas del producto, las más antiguas primero.
// Si el stock no alcanza devuelve *domain.InsufficientStockError y ninguna unidad cambia.
func (uc *DistributionUseCase) Distribute(ctx context.Context, facilityID string, req dto.DistributionRequest) (*dto.DistributionResult, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	cfg, err := uc.configs.Resolve(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if !entity.Enabled(cfg.Inventory.FIFODistribution, true) {
		return nil, domain.ErrFeatureDisabled
	}

	unlock, err := uc.locker.Lock(ctx, distributionKey(facilityID, req.Name))
	if err != nil {
		return nil, err
	}
	defer unlock()

	now := time.Now().UTC()
	result := &dto.DistributionResult{
		Name:           req.Name,
		Destination:    req.Destination,
		TotalQuantity:  decimal.Zero,
		TotalPriceSent: decimal.Zero,
		DistributedAt:  now,
	}

	// Inicia transacción; Commit si todo ok, Rollback si algo falla (TxRunner.Run lo hace)
	err = uc.tx.Run(ctx, func(units repository.ProductUnitRepository) error {
		// Bloquea las filas del producto (SELECT FOR UPDATE) ordenadas por recepción
		candidates, err := units.ListActiveForUpdate(ctx, facilityID, req.Name)
		if err != nil {
			return err
		}
		plan, err := inventory.PlanDistribution(facilityID, req.Name, candidates, req.Quantity)
		if err != nil {
			return err
		}
		for _, u := range inventory.ApplyPlan(candidates, plan, req.Destination, now) {
			if err := units.UpdateStock(ctx, u); err != nil {
				return err
			}
			last := u.Distributions[len(u.Distributions)-1]
			result.Allocations = append(result.Allocations, dto.AllocationDTO{
				ProductID:        u.ID,
				SKU:              u.SKU,
				BatchID:          u.BatchID,
				QuantityConsumed: last.Quantity,
				PriceSent:        last.PriceSent,
			})
			result.TotalPriceSent = result.TotalPriceSent.Add(last.PriceSent)
		}
		result.TotalQuantity = plan.Total
		return nil
	})
	if err != nil {
		uc.log.Warn().Err(err).
			Str("facility_id", facilityID).
			Str("product", req.Name).
			Str("quantity", req.Quantity.String()).
			Msg("distribución rechazada")
		return nil, err
	}

	uc.log.Info().
		Str("facility_id", facilityID).
		Str("product", req.Name).
		Str("destination", req.Destination).
		Str("quantity", result.TotalQuantity.String()).
		Int("units", len(result.Allocations)).
		Msg("distribución registrada")
	return result, nil
}
