package inventory

import "github.com/shopspring/decimal"

// WeightedAverage promedio ponderado por cantidad: total / cantidad.
// Con cantidad <= 0 devuelve 0 (evita división por cero).
func WeightedAverage(total, quantity decimal.Decimal) decimal.Decimal {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	return total.Div(quantity)
}
