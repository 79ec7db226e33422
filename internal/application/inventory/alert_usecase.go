package inventory

import (
	"context"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
	"github.com/jhoicas/facility-inventory-api/pkg/logger"
)

// Valores por defecto cuando la configuración no define umbrales.
const (
	DefaultLowStockThreshold = 10
	DefaultExpiryWarningDays = 30
)

// AlertUseCase alertas de stock bajo y vencimiento según la configuración de cada instalación.
type AlertUseCase struct {
	configs ConfigProvider
	units   repository.ProductUnitRepository
	log     *logger.Logger
}

// NewAlertUseCase construye el caso de uso de alertas.
func NewAlertUseCase(configs ConfigProvider, units repository.ProductUnitRepository, log *logger.Logger) *AlertUseCase {
	return &AlertUseCase{configs: configs, units: units, log: log}
}

// LowStock productos con stock restante <= inventory.lowStockThreshold, mayor déficit primero.
// enabled=false si la instalación tiene las alertas deshabilitadas.
func (uc *AlertUseCase) LowStock(ctx context.Context, facilityID string) (alerts []entity.LowStockAlert, enabled bool, err error) {
	cfg, err := uc.configs.Resolve(ctx, facilityID)
	if err != nil {
		return nil, false, err
	}
	alerts = []entity.LowStockAlert{}
	if !entity.Enabled(cfg.Inventory.LowStockAlerts, true) {
		return alerts, false, nil
	}
	threshold := entity.IntOr(cfg.Inventory.LowStockThreshold, DefaultLowStockThreshold)
	limit := decimal.NewFromInt(int64(threshold))

	levels, err := uc.units.StockByProduct(ctx, facilityID)
	if err != nil {
		return nil, true, err
	}
	for _, l := range levels {
		if l.Remaining.LessThanOrEqual(limit) {
			alerts = append(alerts, entity.LowStockAlert{
				FacilityID:  facilityID,
				ProductName: l.ProductName,
				Remaining:   l.Remaining,
				Threshold:   threshold,
			})
		}
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Remaining.LessThan(alerts[j].Remaining)
	})
	return alerts, true, nil
}

// Expiring unidades activas que vencen dentro de inventory.expiryWarningDays desde now,
// las más próximas primero. Incluye las ya vencidas (DaysLeft negativo).
func (uc *AlertUseCase) Expiring(ctx context.Context, facilityID string, now time.Time) (alerts []entity.ExpiryAlert, enabled bool, err error) {
	cfg, err := uc.configs.Resolve(ctx, facilityID)
	if err != nil {
		return nil, false, err
	}
	alerts = []entity.ExpiryAlert{}
	if !entity.Enabled(cfg.Inventory.ExpiryTracking, false) {
		return alerts, false, nil
	}
	days := entity.IntOr(cfg.Inventory.ExpiryWarningDays, DefaultExpiryWarningDays)
	units, err := uc.units.ListExpiring(ctx, facilityID, now.AddDate(0, 0, days))
	if err != nil {
		return nil, true, err
	}
	for _, u := range units {
		if u.ExpiryDate == nil || !u.IsAvailable() {
			continue
		}
		alerts = append(alerts, entity.ExpiryAlert{
			FacilityID: facilityID,
			ProductID:  u.ID,
			Name:       u.Name,
			BatchID:    u.BatchID,
			Quantity:   u.Quantity,
			ExpiryDate: *u.ExpiryDate,
			DaysLeft:   int(math.Floor(u.ExpiryDate.Sub(now).Hours() / 24)),
		})
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].ExpiryDate.Before(alerts[j].ExpiryDate)
	})
	return alerts, true, nil
}

// ScanAll recorre todas las instalaciones con unidades y registra las alertas encontradas.
// Un error en una instalación no detiene el escaneo.
func (uc *AlertUseCase) ScanAll(ctx context.Context) error {
	ids, err := uc.units.ListFacilityIDs(ctx)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	for _, id := range ids {
		low, _, err := uc.LowStock(ctx, id)
		if err != nil {
			uc.log.Error().Err(err).Str("facility_id", id).Msg("escaneo de stock bajo falló")
			continue
		}
		for _, a := range low {
			uc.log.Warn().Str("facility_id", id).Str("product", a.ProductName).
				Str("remaining", a.Remaining.String()).Int("threshold", a.Threshold).Msg("stock bajo")
		}
		expiring, _, err := uc.Expiring(ctx, id, now)
		if err != nil {
			uc.log.Error().Err(err).Str("facility_id", id).Msg("escaneo de vencimientos falló")
			continue
		}
		for _, a := range expiring {
			uc.log.Warn().Str("facility_id", id).Str("product_id", a.ProductID).Str("batch_id", a.BatchID).
				Int("days_left", a.DaysLeft).Msg("unidad próxima a vencer")
		}
	}
	uc.log.Info().Int("facilities", len(ids)).Msg("escaneo de alertas completado")
	return nil
}
