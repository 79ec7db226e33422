package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
)

// AlertHandler alertas de stock bajo y vencimiento.
type AlertHandler struct {
	alerts AlertService
	now    func() time.Time
}

// NewAlertHandler construye el handler.
func NewAlertHandler(alerts AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts, now: time.Now}
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  dto.LowStockResponse
// @Router       /api/alerts/low-stock [get]
func (h *AlertHandler) LowStock(c *fiber.Ctx) error {
	facilityID := GetFacilityID(c)
	items, enabled, err := h.alerts.LowStock(c.Context(), facilityID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LowStockResponse{FacilityID: facilityID, Enabled: enabled, Items: items})
}

// Expiring godoc
// @Summary      Unidades próximas a vencer
// @Tags         alerts
// @Produce      json
// @Success      200  {object}  dto.ExpiringResponse
// @Router       /api/alerts/expiring [get]
func (h *AlertHandler) Expiring(c *fiber.Ctx) error {
	facilityID := GetFacilityID(c)
	items, enabled, err := h.alerts.Expiring(c.Context(), facilityID, h.now().UTC())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ExpiringResponse{FacilityID: facilityID, Enabled: enabled, Items: items})
}
