package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
)

// PlacementUseCase ubica parte de una unidad en una sección.
type PlacementUseCase struct {
	configs ConfigProvider
	tx      TxRunner
}

// NewPlacementUseCase construye el caso de uso.
func NewPlacementUseCase(configs ConfigProvider, tx TxRunner) *PlacementUseCase {
	return &PlacementUseCase{configs: configs, tx: tx}
}

// Place agrega o ajusta la ubicación de la unidad en la sección indicada.
// La suma de cantidades ubicadas no puede superar la cantidad actual.
func (uc *PlacementUseCase) Place(ctx context.Context, facilityID, unitID string, req dto.PlacementRequest) (*entity.ProductUnit, error) {
	if err := dto.Validate(req); err != nil {
		return nil, err
	}
	cfg, err := uc.configs.Resolve(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if !entity.Enabled(cfg.ProductView.ShowPlacement, true) {
		return nil, domain.ErrFeatureDisabled
	}

	var out *entity.ProductUnit
	err = uc.tx.Run(ctx, func(units repository.ProductUnitRepository) error {
		u, err := units.GetByIDForUpdate(ctx, facilityID, unitID)
		if err != nil {
			return err
		}
		if u == nil {
			return domain.ErrNotFound
		}
		placements := make([]entity.Placement, 0, len(u.Placements)+1)
		merged := false
		for _, p := range u.Placements {
			if p.Section == req.Section {
				p.Quantity = p.Quantity.Add(req.Quantity)
				if req.Position != "" {
					p.Position = req.Position
				}
				merged = true
			}
			placements = append(placements, p)
		}
		if !merged {
			placements = append(placements, entity.Placement{Section: req.Section, Quantity: req.Quantity, Position: req.Position})
		}
		candidate := *u
		candidate.Placements = placements
		if candidate.PlacedQuantity().GreaterThan(u.Quantity) {
			return fmt.Errorf("ubicado %s supera la cantidad %s: %w",
				candidate.PlacedQuantity().String(), u.Quantity.String(), domain.ErrInvalidInput)
		}
		candidate.UpdatedAt = time.Now().UTC()
		if err := units.UpdatePlacements(ctx, &candidate); err != nil {
			return err
		}
		out = &candidate
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
