package http

import (
	"context"
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// configResolver contrato mínimo para leer la configuración efectiva (lo implementa ConfigUseCase).
type configResolver interface {
	Resolve(ctx context.Context, facilityID string) (*entity.FacilityConfig, error)
}

// Capability flag de configuración que habilita un grupo de rutas.
type Capability struct {
	Name    string
	Enabled func(cfg *entity.FacilityConfig) bool
}

// CapabilityPlacement ubicaciones por sección (productView.showPlacement).
var CapabilityPlacement = Capability{Name: "showPlacement", Enabled: func(cfg *entity.FacilityConfig) bool {
	return cfg.ProductView == nil || entity.Enabled(cfg.ProductView.ShowPlacement, true)
}}

// RequireCapability verifica que la instalación del request tenga la capacidad activa.
// Debe usarse DESPUÉS de FacilityMiddleware.
//
// Comportamiento:
//   - 403 FEATURE_DISABLED → capacidad desactivada en la configuración efectiva.
//   - 500 CONFIGURATION → la configuración de la instalación no se puede resolver.
func RequireCapability(capability Capability, configs configResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		cfg, err := configs.Resolve(c.Context(), GetFacilityID(c))
		if err != nil {
			if errors.Is(err, domain.ErrConfiguration) {
				return writeError(c, err)
			}
			return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
				Code:    "CONFIG_CHECK_FAILED",
				Message: "no se pudo verificar la configuración, intente más tarde",
			})
		}
		if !capability.Enabled(cfg) {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Code:    "FEATURE_DISABLED",
				Message: "'" + capability.Name + "' no está activo para la instalación " + cfg.ID,
			})
		}
		return c.Next()
	}
}
