package facility

import (
	"fmt"
	"regexp"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// ValidationResult resultado estructurado; nunca se corta en el primer error.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate comprueba los campos requeridos (rutas con punto) y el formato de SKU.
func Validate(product map[string]any, cfg *entity.FacilityConfig) ValidationResult {
	errs := make([]string, 0)
	facilityID := ""
	if cfg != nil {
		facilityID = cfg.ID
	}

	if cfg != nil && cfg.Fields != nil {
		for _, field := range cfg.Fields.Required {
			if !isPresent(LookupPath(product, field)) {
				errs = append(errs, fmt.Sprintf("el campo %s es requerido", field))
			}
		}
	}

	if cfg != nil && cfg.Validation != nil && cfg.Validation.SKUFormat != nil && *cfg.Validation.SKUFormat != "" {
		if sku, ok := LookupPath(product, "sku"); isPresent(sku, ok) {
			pattern := *cfg.Validation.SKUFormat
			re, err := regexp.Compile(pattern)
			switch {
			case err != nil:
				errs = append(errs, fmt.Sprintf("formato de SKU inválido en la configuración de %s: %s", facilityID, pattern))
			case !re.MatchString(fmt.Sprint(sku)):
				errs = append(errs, fmt.Sprintf("el SKU %v no cumple el formato requerido por %s (%s)", sku, facilityID, pattern))
			}
		}
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
