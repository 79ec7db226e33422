package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
)

// DistributionHandler salidas FIFO y ubicaciones de unidades.
type DistributionHandler struct {
	distributions DistributionService
	placements    PlacementService
}

// NewDistributionHandler construye el handler.
func NewDistributionHandler(distributions DistributionService, placements PlacementService) *DistributionHandler {
	return &DistributionHandler{distributions: distributions, placements: placements}
}

// Distribute godoc
// @Summary      Distribuir producto (FIFO)
// @Description  Consume primero las unidades recibidas antes. Con stock insuficiente no se modifica ninguna unidad.
// @Tags         distribution
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DistributionRequest  true  "name, quantity, destination"
// @Success      200   {object}  dto.DistributionResult
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      423   {object}  dto.ErrorResponse
// @Router       /api/products/distribute [post]
func (h *DistributionHandler) Distribute(c *fiber.Ctx) error {
	var in dto.DistributionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	res, err := h.distributions.Distribute(c.Context(), GetFacilityID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(res)
}

// Place godoc
// @Summary      Ubicar unidad en una sección
// @Description  La suma de cantidades ubicadas no puede superar la cantidad actual de la unidad.
// @Tags         distribution
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "ID de la unidad"
// @Param        body  body  dto.PlacementRequest  true  "section, quantity, position"
// @Success      200   {object}  dto.ProductUnitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/products/{id}/placements [post]
func (h *DistributionHandler) Place(c *fiber.Ctx) error {
	var in dto.PlacementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	u, err := h.placements.Place(c.Context(), GetFacilityID(c), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToProductUnitResponse(u))
}
