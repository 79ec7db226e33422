package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/facility"
	"github.com/jhoicas/facility-inventory-api/internal/domain/inventory"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

// MaxIndividualUnits por encima de este número una recepción se guarda como un solo registro
// aunque la instalación rastree unidades individuales.
const MaxIndividualUnits = 500

// ProductUseCase recepción y consulta de unidades de inventario según la configuración de la instalación.
type ProductUseCase struct {
	configs ConfigProvider
	units   repository.ProductUnitRepository
	tx      TxRunner
	locker  KeyLocker
	log     *logger.Logger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(configs ConfigProvider, units repository.ProductUnitRepository, tx TxRunner, locker KeyLocker, log *logger.Logger) *ProductUseCase {
	return &ProductUseCase{configs: configs, units: units, tx: tx, locker: locker, log: log}
}

// Create valida el payload contra la configuración efectiva, genera batchId y SKUs
// y persiste una unidad por cada unidad recibida (o un único registro si la instalación
// no rastrea unidades individuales).
func (uc *ProductUseCase) Create(ctx context.Context, facilityID string, payload map[string]any) ([]*entity.ProductUnit, error) {
	cfg, err := uc.configs.Resolve(ctx, facilityID)
	if err != nil {
		return nil, err
	}
	if res := facility.Validate(payload, cfg); !res.IsValid {
		return nil, &domain.ValidationFailedError{Errors: res.Errors}
	}

	now := time.Now().UTC()
	in, errs := parseProductInput(payload, now)
	errs = append(errs, businessRules(in, cfg)...)
	if len(errs) > 0 {
		return nil, &domain.ValidationFailedError{Errors: errs}
	}

	format := cfg.Validation.BatchIDFormat
	prefix := batchSequencePrefix(format, in)
	// Con batchId explícito se serializa por lote; si no, por la secuencia del prefijo
	lockKey := idGenerationKey(facilityID, prefix)
	if in.BatchID != "" {
		lockKey = idGenerationKey(facilityID, in.BatchID)
	}
	unlock, err := uc.locker.Lock(ctx, lockKey)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var created []*entity.ProductUnit
	err = uc.tx.Run(ctx, func(units repository.ProductUnitRepository) error {
		if !entity.Enabled(cfg.Validation.AllowDuplicateNames, true) {
			exists, err := units.ExistsName(ctx, facilityID, in.Name)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("producto %q ya registrado en %s: %w", in.Name, facilityID, domain.ErrDuplicate)
			}
		}

		batchID := in.BatchID
		if batchID == "" {
			existing, err := units.ListBatchIDs(ctx, facilityID, prefix)
			if err != nil {
				return err
			}
			batchID = inventory.GenerateBatchIDWithFormat(inventory.BatchIDRequest{
				ProductName: in.Name,
				FacilityID:  facilityID,
				Format:      format,
				Existing:    existing,
				ReceivedAt:  in.ReceivedDate,
			})
		}
		inBatch, err := units.CountInBatch(ctx, facilityID, batchID)
		if err != nil {
			return err
		}

		quantities := splitQuantity(in.Quantity, entity.Enabled(cfg.Inventory.TrackIndividualUnits, true))
		for i, qty := range quantities {
			sku := inventory.GenerateSKU(batchID, facilityID, inBatch+i)
			if len(quantities) == 1 && in.SKU != "" {
				sku = in.SKU
			}
			u := &entity.ProductUnit{
				ID:              uuid.NewString(),
				FacilityID:      facilityID,
				Name:            in.Name,
				SKU:             sku,
				BatchID:         batchID,
				Category:        in.Category,
				Quantity:        qty,
				InitialQuantity: decimal.NewNullDecimal(qty),
				PricePerUnit:    in.PricePerUnit,
				ReceivedDate:    in.ReceivedDate,
				ExpiryDate:      in.ExpiryDate,
				Status:          entity.UnitStatusActive,
				Attributes:      in.Attributes,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
			u.CompositeKey = facility.GenerateCompositeKey(facility.IdentityOf(u), cfg)
			if in.Section != "" {
				u.Placements = []entity.Placement{{Section: in.Section, Quantity: qty, Position: in.Position}}
			}
			if err := units.Create(ctx, u); err != nil {
				return err
			}
			created = append(created, u)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("facility_id", facilityID).
		Str("product", in.Name).
		Str("batch_id", created[0].BatchID).
		Int("units", len(created)).
		Msg("recepción registrada")
	return created, nil
}

// List lista unidades de la instalación, opcionalmente filtradas por nombre.
func (uc *ProductUseCase) List(ctx context.Context, facilityID, name string, limit, offset int) ([]*entity.ProductUnit, error) {
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return uc.units.ListByFacility(ctx, facilityID, name, limit, offset)
}

// Get obtiene una unidad de la instalación.
func (uc *ProductUseCase) Get(ctx context.Context, facilityID, id string) (*entity.ProductUnit, error) {
	u, err := uc.units.GetByID(ctx, facilityID, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// businessRules reglas de la configuración que no son campos requeridos.
func businessRules(in productInput, cfg *entity.FacilityConfig) []string {
	var errs []string
	if in.Name == "" {
		errs = append(errs, "el campo name es requerido")
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		errs = append(errs, "quantity debe ser mayor que 0")
	}
	if in.PricePerUnit.IsNegative() {
		errs = append(errs, "pricePerUnit no puede ser negativo")
	} else if entity.Enabled(cfg.Validation.FinancialValidation, false) && !in.PricePerUnit.GreaterThan(decimal.Zero) {
		errs = append(errs, "pricePerUnit debe ser mayor que 0 en "+cfg.ID)
	}
	if entity.Enabled(cfg.Validation.LocationRequired, false) && in.Section == "" {
		errs = append(errs, "el campo section es requerido en "+cfg.ID)
	}
	if in.BatchID == "" && !entity.Enabled(cfg.Inventory.AutoBatchIDs, true) {
		errs = append(errs, "el campo batchId es requerido en "+cfg.ID)
	}
	if in.ExpiryDate != nil && in.ExpiryDate.Before(in.ReceivedDate) {
		errs = append(errs, "expiryDate no puede ser anterior a receivedDate")
	}
	return errs
}

// batchSequencePrefix prefijo cuya secuencia se serializa al generar el batchId.
func batchSequencePrefix(format string, in productInput) string {
	switch format {
	case entity.BatchIDFormatSimple:
		return "BATCH"
	case entity.BatchIDFormatLotBased:
		return "LOT-" + in.ReceivedDate.Format("20060102")
	case entity.BatchIDFormatUUID:
		return "UUID"
	default:
		return inventory.BatchPrefix(in.Name)
	}
}

// splitQuantity una unidad de cantidad 1 por cada unidad entera recibida, o un solo registro.
func splitQuantity(qty decimal.Decimal, individual bool) []decimal.Decimal {
	if !individual || !qty.IsInteger() || qty.LessThanOrEqual(decimal.NewFromInt(1)) || qty.GreaterThan(decimal.NewFromInt(MaxIndividualUnits)) {
		return []decimal.Decimal{qty}
	}
	n := int(qty.IntPart())
	out := make([]decimal.Decimal, n)
	for i := range out {
		out[i] = decimal.NewFromInt(1)
	}
	return out
}
