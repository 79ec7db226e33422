package repository

import (
	"context"
	"time"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
)

// ProductUnitRepository define el puerto de persistencia para unidades de inventario (DIP).
// Las implementaciones se pueden construir sobre el pool o sobre una transacción.
type ProductUnitRepository interface {
	Create(ctx context.Context, unit *entity.ProductUnit) error
	GetByID(ctx context.Context, facilityID, id string) (*entity.ProductUnit, error)
	// GetByIDForUpdate bloquea la fila (SELECT FOR UPDATE); usar solo dentro de una tx.
	GetByIDForUpdate(ctx context.Context, facilityID, id string) (*entity.ProductUnit, error)
	ListByFacility(ctx context.Context, facilityID, name string, limit, offset int) ([]*entity.ProductUnit, error)
	// ListForSummary devuelve todas las unidades (cualquier estado) para agregar por lote.
	ListForSummary(ctx context.Context, facilityID, name string) ([]*entity.ProductUnit, error)
	// ListActiveForUpdate bloquea las unidades activas con cantidad > 0 del producto,
	// ordenadas por fecha de recepción e id.
	ListActiveForUpdate(ctx context.Context, facilityID, name string) ([]*entity.ProductUnit, error)
	// ListBatchIDs batchIds distintos de la instalación con el prefijo dado, más recientes primero.
	ListBatchIDs(ctx context.Context, facilityID, prefix string) ([]string, error)
	CountInBatch(ctx context.Context, facilityID, batchID string) (int, error)
	// ExistsName informa si la instalación ya tiene unidades con ese nombre.
	ExistsName(ctx context.Context, facilityID, name string) (bool, error)
	// UpdateStock persiste quantity, status, distributions y placements de la unidad.
	UpdateStock(ctx context.Context, unit *entity.ProductUnit) error
	UpdatePlacements(ctx context.Context, unit *entity.ProductUnit) error
	ListExpiring(ctx context.Context, facilityID string, before time.Time) ([]*entity.ProductUnit, error)
	StockByProduct(ctx context.Context, facilityID string) ([]entity.StockLevel, error)
	ListFacilityIDs(ctx context.Context) ([]string, error)
}
