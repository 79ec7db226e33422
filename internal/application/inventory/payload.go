package inventory

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Claves del payload que se guardan en columnas propias; el resto va a attributes.
var coreFields = map[string]bool{
	"name": true, "sku": true, "batchId": true, "category": true,
	"quantity": true, "pricePerUnit": true, "receivedDate": true,
	"expiryDate": true, "section": true, "position": true,
}

// productInput payload de creación ya tipado.
type productInput struct {
	Name         string
	SKU          string
	BatchID      string
	Category     string
	Quantity     decimal.Decimal
	PricePerUnit decimal.Decimal
	ReceivedDate time.Time
	ExpiryDate   *time.Time
	Section      string
	Position     string
	Attributes   json.RawMessage
}

// parseProductInput tipa el payload. Acumula un mensaje por campo con formato inválido.
func parseProductInput(payload map[string]any, now time.Time) (productInput, []string) {
	var in productInput
	var errs []string

	in.Name = strings.TrimSpace(stringField(payload, "name"))
	in.SKU = strings.TrimSpace(stringField(payload, "sku"))
	in.BatchID = strings.TrimSpace(stringField(payload, "batchId"))
	in.Category = strings.TrimSpace(stringField(payload, "category"))
	in.Section = strings.TrimSpace(stringField(payload, "section"))
	in.Position = strings.TrimSpace(stringField(payload, "position"))

	var err error
	if in.Quantity, err = decimalField(payload, "quantity"); err != nil {
		errs = append(errs, err.Error())
	}
	if in.PricePerUnit, err = decimalField(payload, "pricePerUnit"); err != nil {
		errs = append(errs, err.Error())
	}

	in.ReceivedDate = now
	if t, ok, err := timeField(payload, "receivedDate"); err != nil {
		errs = append(errs, err.Error())
	} else if ok {
		in.ReceivedDate = t
	}
	if t, ok, err := timeField(payload, "expiryDate"); err != nil {
		errs = append(errs, err.Error())
	} else if ok {
		in.ExpiryDate = &t
	}

	extra := make(map[string]any)
	for k, v := range payload {
		if !coreFields[k] {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		raw, err := json.Marshal(extra)
		if err != nil {
			errs = append(errs, fmt.Sprintf("atributos inválidos: %v", err))
		}
		in.Attributes = raw
	}
	return in, errs
}

func stringField(payload map[string]any, key string) string {
	switch v := payload[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

// decimalField acepta números JSON (float64 o json.Number) y strings numéricos. Ausente = 0.
func decimalField(payload map[string]any, key string) (decimal.Decimal, error) {
	switch v := payload[key].(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		d, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, fmt.Errorf("el campo %s debe ser numérico", key)
		}
		return d, nil
	case float64:
		return decimal.NewFromFloat(v), nil
	case int:
		return decimal.NewFromInt(int64(v)), nil
	case int64:
		return decimal.NewFromInt(v), nil
	case string:
		if strings.TrimSpace(v) == "" {
			return decimal.Zero, nil
		}
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, fmt.Errorf("el campo %s debe ser numérico", key)
		}
		return d, nil
	default:
		return decimal.Zero, fmt.Errorf("el campo %s debe ser numérico", key)
	}
}

// timeField acepta RFC3339 o fecha simple (2006-01-02).
func timeField(payload map[string]any, key string) (time.Time, bool, error) {
	s, ok := payload[key].(string)
	if !ok || strings.TrimSpace(s) == "" {
		if payload[key] != nil && !ok {
			return time.Time{}, false, fmt.Errorf("el campo %s debe ser una fecha", key)
		}
		return time.Time{}, false, nil
	}
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("el campo %s debe ser una fecha (YYYY-MM-DD o RFC3339)", key)
}
