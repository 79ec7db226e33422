package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias de infraestructura).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrConfiguration     = errors.New("configuración de instalación inválida")
	ErrFeatureDisabled   = errors.New("funcionalidad deshabilitada para la instalación")
	ErrLockNotObtained   = errors.New("no se pudo obtener el bloqueo del recurso")
)

// ConfigurationError error fatal al resolver la configuración de una instalación
// (ciclo en la cadena extends, padre inexistente o registro sin "default").
type ConfigurationError struct {
	FacilityID string
	Reason     string
	Chain      []string
}

func (e *ConfigurationError) Error() string {
	if len(e.Chain) > 0 {
		return fmt.Sprintf("configuración %q: %s (%s)", e.FacilityID, e.Reason, strings.Join(e.Chain, " -> "))
	}
	return fmt.Sprintf("configuración %q: %s", e.FacilityID, e.Reason)
}

// Is permite errors.Is(err, ErrConfiguration).
func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

// InsufficientStockError se devuelve cuando el stock activo no cubre la cantidad solicitada.
// Ninguna unidad se modifica cuando se produce.
type InsufficientStockError struct {
	FacilityID  string
	ProductName string
	Requested   decimal.Decimal
	Available   decimal.Decimal
}

// Shortfall cantidad faltante (Requested - Available).
func (e *InsufficientStockError) Shortfall() decimal.Decimal {
	return e.Requested.Sub(e.Available)
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para %q: solicitado %s, disponible %s, faltan %s",
		e.ProductName, e.Requested.String(), e.Available.String(), e.Shortfall().String())
}

// Is permite errors.Is(err, ErrInsufficientStock).
func (e *InsufficientStockError) Is(target error) bool { return target == ErrInsufficientStock }

// ValidationFailedError agrupa todos los errores de validación de un producto.
type ValidationFailedError struct {
	Errors []string
}

func (e *ValidationFailedError) Error() string {
	return "validación fallida: " + strings.Join(e.Errors, "; ")
}

// Is permite errors.Is(err, ErrInvalidInput).
func (e *ValidationFailedError) Is(target error) bool { return target == ErrInvalidInput }
