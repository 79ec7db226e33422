package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// FacilityHandler expone la configuración efectiva de instalaciones.
type FacilityHandler struct {
	configs ConfigService
}

// NewFacilityHandler construye el handler.
func NewFacilityHandler(configs ConfigService) *FacilityHandler {
	return &FacilityHandler{configs: configs}
}

// GetConfig godoc
// @Summary      Configuración efectiva de la instalación
// @Description  Resuelve la cadena extends (hijo sobre padre). La instalación sale del token, X-Facility-ID o ?facility=.
// @Tags         facility
// @Produce      json
// @Param        X-Facility-ID  header  string  false  "Instalación"
// @Success      200  {object}  dto.FacilityConfigResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/facility/config [get]
func (h *FacilityHandler) GetConfig(c *fiber.Ctx) error {
	cfg, err := h.configs.Resolve(c.Context(), GetFacilityID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FacilityConfigResponse{Config: cfg})
}

// GetPrimaryKey godoc
// @Summary      Estrategia de clave compuesta
// @Tags         facility
// @Produce      json
// @Success      200  {object}  dto.PrimaryKeyResponse
// @Router       /api/facility/config/primary-key [get]
func (h *FacilityHandler) GetPrimaryKey(c *fiber.Ctx) error {
	facilityID := GetFacilityID(c)
	pk, err := h.configs.PrimaryKeyFormat(c.Context(), facilityID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.PrimaryKeyResponse{FacilityID: facilityID, PrimaryKey: pk})
}

// GetFeature godoc
// @Summary      Estado de un toggle de features
// @Tags         facility
// @Produce      json
// @Param        name  path  string  true  "Nombre del feature"
// @Success      200  {object}  dto.FeatureResponse
// @Router       /api/facility/features/{name} [get]
func (h *FacilityHandler) GetFeature(c *fiber.Ctx) error {
	facilityID := GetFacilityID(c)
	name := c.Params("name")
	enabled, err := h.configs.HasFeature(c.Context(), facilityID, name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FeatureResponse{FacilityID: facilityID, Feature: name, Enabled: enabled})
}

// Reload godoc
// @Summary      Recargar configuraciones
// @Description  Combina la tabla embebida con las configuraciones guardadas. Si alguna no resuelve, se conserva el registro anterior.
// @Tags         facility
// @Produce      json
// @Success      200  {object}  dto.ReloadResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/facility/config/reload [post]
func (h *FacilityHandler) Reload(c *fiber.Ctx) error {
	ids, err := h.configs.Reload(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReloadResponse{Facilities: ids})
}

// PutConfig godoc
// @Summary      Guardar configuración de instalación
// @Description  Crea o reemplaza la configuración guardada de :id y devuelve la configuración efectiva.
// @Tags         facility
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "Instalación"
// @Param        body  body  entity.FacilityConfig  true  "Configuración (puede usar extends)"
// @Success      200   {object}  dto.FacilityConfigResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/facilities/{id}/config [put]
func (h *FacilityHandler) PutConfig(c *fiber.Ctx) error {
	var in entity.FacilityConfig
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	in.ID = c.Params("id")
	cfg, err := h.configs.SaveOverride(c.Context(), &in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FacilityConfigResponse{Config: cfg})
}
