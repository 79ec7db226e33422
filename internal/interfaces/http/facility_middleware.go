package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/facility-inventory-api/internal/application/dto"
	"github.com/jhoicas/facility-inventory-api/internal/domain/facility"
	"github.com/jhoicas/facility-inventory-api/pkg/jwt"
)

// Locals keys.
const (
	LocalUserID     = "user_id"
	LocalFacilityID = "facility_id"
	LocalRole       = "role"
)

// Fuentes alternativas del id de instalación cuando el token no lo trae.
const (
	HeaderFacilityID = "X-Facility-ID"
	QueryFacilityID  = "facility"
)

// FacilityMiddleware determina la instalación del request y la deja en c.Locals.
// Orden: claim facility_id del Bearer token, header X-Facility-ID, query ?facility=, "default".
// Un Authorization presente pero inválido responde 401.
func FacilityMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		facilityID := ""
		if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
			}
			tokenString := strings.TrimSpace(parts[1])
			if tokenString == "" {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
			}
			claims, err := jwt.Parse(jwtSecret, tokenString)
			if err != nil {
				return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
			}
			c.Locals(LocalUserID, claims.UserID)
			c.Locals(LocalRole, claims.Role)
			facilityID = strings.TrimSpace(claims.FacilityID)
		}
		if facilityID == "" {
			facilityID = strings.TrimSpace(c.Get(HeaderFacilityID))
		}
		if facilityID == "" {
			facilityID = strings.TrimSpace(c.Query(QueryFacilityID))
		}
		if facilityID == "" {
			facilityID = facility.DefaultID
		}
		c.Locals(LocalFacilityID, facilityID)
		return c.Next()
	}
}

// GetFacilityID devuelve la instalación del request (después de FacilityMiddleware).
func GetFacilityID(c *fiber.Ctx) string {
	return localString(c, LocalFacilityID)
}

// GetUserID devuelve el UserID del token; vacío si el request no trajo token.
func GetUserID(c *fiber.Ctx) string {
	return localString(c, LocalUserID)
}

// GetRole devuelve el rol del token.
func GetRole(c *fiber.Ctx) string {
	return localString(c, LocalRole)
}

func localString(c *fiber.Ctx, key string) string {
	v := c.Locals(key)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
