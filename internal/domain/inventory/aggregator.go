package inventory

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// Tipos de advertencia de consistencia detectados al agregar.
const (
	WarningMissingInitialQuantity = "missing_initial_quantity"
	WarningNegativeRemaining      = "negative_remaining"
)

// ConsistencyWarning dato inconsistente corregido durante la agregación (no es un error fatal).
type ConsistencyWarning struct {
	Kind      string
	BatchID   string
	ProductID string
	Value     decimal.Decimal
}

// Summarize agrupa unidades por batchId y calcula totales por lote.
func Summarize(units []*entity.ProductUnit) []entity.BatchSummary {
	out, _ := SummarizeWithWarnings(units)
	return out
}

// SummarizeWithWarnings igual que Summarize pero devuelve también las advertencias de consistencia.
// Los lotes salen en el orden de su primera aparición; la función no modifica las unidades.
func SummarizeWithWarnings(units []*entity.ProductUnit) ([]entity.BatchSummary, []ConsistencyWarning) {
	index := make(map[string]int)
	summaries := make([]entity.BatchSummary, 0)
	var warnings []ConsistencyWarning

	for _, u := range units {
		if u == nil {
			continue
		}
		i, ok := index[u.BatchID]
		if !ok {
			i = len(summaries)
			index[u.BatchID] = i
			summaries = append(summaries, entity.BatchSummary{
				BatchID:           u.BatchID,
				Name:              u.Name,
				TotalQuantity:     decimal.Zero,
				QuantityRemaining: decimal.Zero,
				TotalPrice:        decimal.Zero,
				ReceivedDate:      u.ReceivedDate,
			})
		}
		initial, recorded := u.StartingQuantity()
		if !recorded {
			warnings = append(warnings, ConsistencyWarning{
				Kind: WarningMissingInitialQuantity, BatchID: u.BatchID, ProductID: u.ID, Value: u.Quantity,
			})
		}
		s := &summaries[i]
		s.UnitCount++
		s.TotalQuantity = s.TotalQuantity.Add(initial)
		s.QuantityRemaining = s.QuantityRemaining.Add(u.Quantity)
		s.TotalPrice = s.TotalPrice.Add(u.PricePerUnit.Mul(initial))
	}

	for i := range summaries {
		s := &summaries[i]
		s.AvgPrice = WeightedAverage(s.TotalPrice, s.TotalQuantity)
		if s.QuantityRemaining.IsNegative() {
			warnings = append(warnings, ConsistencyWarning{
				Kind: WarningNegativeRemaining, BatchID: s.BatchID, Value: s.QuantityRemaining,
			})
			s.QuantityRemaining = decimal.Zero
		}
	}
	return summaries, warnings
}
