package inventory

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// DistributionPlan consumo calculado antes de tocar cualquier unidad.
type DistributionPlan struct {
	Allocations []entity.Allocation
	Total       decimal.Decimal
}

// SortFIFO ordena por fecha de recepción ascendente (lo más antiguo sale primero).
// Empates por id para que el orden sea estable entre ejecuciones.
func SortFIFO(units []*entity.ProductUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		if !units[i].ReceivedDate.Equal(units[j].ReceivedDate) {
			return units[i].ReceivedDate.Before(units[j].ReceivedDate)
		}
		return units[i].ID < units[j].ID
	})
}

// EligibleUnits filtra unidades activas con cantidad positiva.
func EligibleUnits(units []*entity.ProductUnit) []*entity.ProductUnit {
	out := make([]*entity.ProductUnit, 0, len(units))
	for _, u := range units {
		if u != nil && u.IsAvailable() {
			out = append(out, u)
		}
	}
	return out
}

// AvailableQuantity suma de cantidades consumibles.
func AvailableQuantity(units []*entity.ProductUnit) decimal.Decimal {
	total := decimal.Zero
	for _, u := range units {
		if u != nil && u.IsAvailable() {
			total = total.Add(u.Quantity)
		}
	}
	return total
}

// PlanDistribution calcula el consumo FIFO de quantity sobre las unidades elegibles.
// Verifica el total disponible antes de planificar: si no alcanza devuelve
// *domain.InsufficientStockError y no se planifica nada. No modifica las unidades.
func PlanDistribution(facilityID, productName string, units []*entity.ProductUnit, quantity decimal.Decimal) (*DistributionPlan, error) {
	if !quantity.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	eligible := EligibleUnits(units)
	SortFIFO(eligible)

	available := AvailableQuantity(eligible)
	if available.LessThan(quantity) {
		return nil, &domain.InsufficientStockError{
			FacilityID:  facilityID,
			ProductName: productName,
			Requested:   quantity,
			Available:   available,
		}
	}

	plan := &DistributionPlan{Total: decimal.Zero}
	remaining := quantity
	for _, u := range eligible {
		if !remaining.GreaterThan(decimal.Zero) {
			break
		}
		consumed := decimal.Min(remaining, u.Quantity)
		plan.Allocations = append(plan.Allocations, entity.Allocation{
			ProductID:        u.ID,
			SKU:              u.SKU,
			QuantityConsumed: consumed,
		})
		plan.Total = plan.Total.Add(consumed)
		remaining = remaining.Sub(consumed)
	}
	return plan, nil
}

// ApplyPlan descuenta la cantidad de cada unidad del plan y agrega el evento de distribución.
// Las ubicaciones se recortan para no superar la nueva cantidad.
// Devuelve las unidades modificadas en orden de consumo.
func ApplyPlan(units []*entity.ProductUnit, plan *DistributionPlan, destination string, now time.Time) []*entity.ProductUnit {
	byID := make(map[string]*entity.ProductUnit, len(units))
	for _, u := range units {
		if u != nil {
			byID[u.ID] = u
		}
	}
	touched := make([]*entity.ProductUnit, 0, len(plan.Allocations))
	for _, a := range plan.Allocations {
		u, ok := byID[a.ProductID]
		if !ok {
			continue
		}
		u.Quantity = u.Quantity.Sub(a.QuantityConsumed)
		TrimPlacements(u)
		u.Distributions = append(u.Distributions, entity.Distribution{
			Destination: destination,
			Quantity:    a.QuantityConsumed,
			PriceSent:   a.QuantityConsumed.Mul(u.PricePerUnit),
			Date:        now,
		})
		u.UpdatedAt = now
		touched = append(touched, u)
	}
	return touched
}

// TrimPlacements retira cantidad ubicada, empezando por la ubicación más antigua,
// hasta que lo ubicado no supere la cantidad de la unidad. Las ubicaciones en cero se eliminan.
func TrimPlacements(u *entity.ProductUnit) {
	excess := u.PlacedQuantity().Sub(u.Quantity)
	if !excess.GreaterThan(decimal.Zero) {
		return
	}
	kept := make([]entity.Placement, 0, len(u.Placements))
	for _, p := range u.Placements {
		if excess.GreaterThan(decimal.Zero) {
			take := decimal.Min(excess, p.Quantity)
			p.Quantity = p.Quantity.Sub(take)
			excess = excess.Sub(take)
		}
		if p.Quantity.GreaterThan(decimal.Zero) {
			kept = append(kept, p)
		}
	}
	u.Placements = kept
}

// TotalPriceSent suma de priceSent del plan según el precio de cada unidad.
func TotalPriceSent(units []*entity.ProductUnit, plan *DistributionPlan) decimal.Decimal {
	price := make(map[string]decimal.Decimal, len(units))
	for _, u := range units {
		if u != nil {
			price[u.ID] = u.PricePerUnit
		}
	}
	total := decimal.Zero
	for _, a := range plan.Allocations {
		total = total.Add(a.QuantityConsumed.Mul(price[a.ProductID]))
	}
	return total
}
