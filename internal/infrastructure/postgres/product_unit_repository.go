package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/facility-inventory-api/internal/domain"
	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
)

var _ repository.ProductUnitRepository = (*ProductUnitRepo)(nil)

const unitColumns = `id, facility_id, name, sku, batch_id, category, quantity, initial_quantity, price_per_unit,
		received_date, expiry_date, status, composite_key, attributes, distributions, placements, created_at, updated_at`

// ProductUnitRepo implementación de ProductUnitRepository sobre PostgreSQL (usable con pool o tx).
// distributions, placements y attributes se guardan como JSONB.
type ProductUnitRepo struct {
	q Querier
}

// NewProductUnitRepository construye el adaptador de persistencia para unidades. Pasar pool o tx (Querier).
func NewProductUnitRepository(q Querier) *ProductUnitRepo {
	return &ProductUnitRepo{q: q}
}

// Create persiste una unidad nueva.
func (r *ProductUnitRepo) Create(ctx context.Context, u *entity.ProductUnit) error {
	distributions, placements, err := encodeEvents(u)
	if err != nil {
		return err
	}
	attributes := []byte(u.Attributes)
	if len(attributes) == 0 {
		attributes = []byte("{}")
	}
	query := `
		INSERT INTO product_units (` + unitColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`
	_, err = r.q.Exec(ctx, query,
		u.ID, u.FacilityID, u.Name, u.SKU, u.BatchID, u.Category, u.Quantity, u.InitialQuantity, u.PricePerUnit,
		u.ReceivedDate, u.ExpiryDate, u.Status, u.CompositeKey, attributes, distributions, placements, u.CreatedAt, u.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert product unit: %w", err)
	}
	return nil
}

// GetByID obtiene una unidad de la instalación. nil, nil si no existe.
func (r *ProductUnitRepo) GetByID(ctx context.Context, facilityID, id string) (*entity.ProductUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM product_units WHERE facility_id = $1 AND id = $2`
	u, err := scanUnit(r.q.QueryRow(ctx, query, facilityID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product unit: %w", err)
	}
	return u, nil
}

// GetByIDForUpdate obtiene la unidad y bloquea la fila (SELECT FOR UPDATE).
func (r *ProductUnitRepo) GetByIDForUpdate(ctx context.Context, facilityID, id string) (*entity.ProductUnit, error) {
	query := `SELECT ` + unitColumns + ` FROM product_units WHERE facility_id = $1 AND id = $2 FOR UPDATE`
	u, err := scanUnit(r.q.QueryRow(ctx, query, facilityID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product unit for update: %w", err)
	}
	return u, nil
}

// ListByFacility lista unidades con paginación; name vacío = todas.
func (r *ProductUnitRepo) ListByFacility(ctx context.Context, facilityID, name string, limit, offset int) ([]*entity.ProductUnit, error) {
	query := `
		SELECT ` + unitColumns + ` FROM product_units
		WHERE facility_id = $1 AND ($2 = '' OR name = $2)
		ORDER BY received_date DESC, id LIMIT $3 OFFSET $4`
	return r.list(ctx, "list product units", query, facilityID, name, limit, offset)
}

// ListForSummary todas las unidades (cualquier estado) en orden de recepción.
func (r *ProductUnitRepo) ListForSummary(ctx context.Context, facilityID, name string) ([]*entity.ProductUnit, error) {
	query := `
		SELECT ` + unitColumns + ` FROM product_units
		WHERE facility_id = $1 AND ($2 = '' OR name = $2)
		ORDER BY received_date, id`
	return r.list(ctx, "list units for summary", query, facilityID, name)
}

// ListActiveForUpdate bloquea las unidades consumibles del producto en orden FIFO.
func (r *ProductUnitRepo) ListActiveForUpdate(ctx context.Context, facilityID, name string) ([]*entity.ProductUnit, error) {
	query := `
		SELECT ` + unitColumns + ` FROM product_units
		WHERE facility_id = $1 AND name = $2 AND status = 'active' AND quantity > 0
		ORDER BY received_date, id
		FOR UPDATE`
	return r.list(ctx, "list active units for update", query, facilityID, name)
}

// ListBatchIDs batchIds distintos con el prefijo dado, más recientes primero.
func (r *ProductUnitRepo) ListBatchIDs(ctx context.Context, facilityID, prefix string) ([]string, error) {
	query := `
		SELECT batch_id FROM product_units
		WHERE facility_id = $1 AND batch_id LIKE $2
		GROUP BY batch_id
		ORDER BY MAX(created_at) DESC`
	rows, err := r.q.Query(ctx, query, facilityID, prefix+"-%")
	if err != nil {
		return nil, fmt.Errorf("list batch ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan batch id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// CountInBatch cantidad de registros del lote.
func (r *ProductUnitRepo) CountInBatch(ctx context.Context, facilityID, batchID string) (int, error) {
	var n int
	err := r.q.QueryRow(ctx,
		`SELECT COUNT(*) FROM product_units WHERE facility_id = $1 AND batch_id = $2`,
		facilityID, batchID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count batch units: %w", err)
	}
	return n, nil
}

// ExistsName informa si ya hay unidades con ese nombre en la instalación.
func (r *ProductUnitRepo) ExistsName(ctx context.Context, facilityID, name string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM product_units WHERE facility_id = $1 AND name = $2)`,
		facilityID, name,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists product name: %w", err)
	}
	return exists, nil
}

// UpdateStock persiste cantidad, estado, eventos de distribución y ubicaciones.
func (r *ProductUnitRepo) UpdateStock(ctx context.Context, u *entity.ProductUnit) error {
	distributions, err := json.Marshal(nonNilDistributions(u.Distributions))
	if err != nil {
		return fmt.Errorf("encode distributions: %w", err)
	}
	placements, err := json.Marshal(nonNilPlacements(u.Placements))
	if err != nil {
		return fmt.Errorf("encode placements: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_units SET quantity = $3, status = $4, distributions = $5, placements = $6, updated_at = $7
		WHERE facility_id = $1 AND id = $2`,
		u.FacilityID, u.ID, u.Quantity, u.Status, distributions, placements, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product unit stock: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// UpdatePlacements persiste las ubicaciones de la unidad.
func (r *ProductUnitRepo) UpdatePlacements(ctx context.Context, u *entity.ProductUnit) error {
	placements, err := json.Marshal(nonNilPlacements(u.Placements))
	if err != nil {
		return fmt.Errorf("encode placements: %w", err)
	}
	cmd, err := r.q.Exec(ctx, `
		UPDATE product_units SET placements = $3, updated_at = $4
		WHERE facility_id = $1 AND id = $2`,
		u.FacilityID, u.ID, placements, u.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update product unit placements: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListExpiring unidades activas con vencimiento anterior a before.
func (r *ProductUnitRepo) ListExpiring(ctx context.Context, facilityID string, before time.Time) ([]*entity.ProductUnit, error) {
	query := `
		SELECT ` + unitColumns + ` FROM product_units
		WHERE facility_id = $1 AND status = 'active' AND quantity > 0
		  AND expiry_date IS NOT NULL AND expiry_date < $2
		ORDER BY expiry_date, id`
	return r.list(ctx, "list expiring units", query, facilityID, before)
}

// StockByProduct stock restante de unidades activas agrupado por nombre.
func (r *ProductUnitRepo) StockByProduct(ctx context.Context, facilityID string) ([]entity.StockLevel, error) {
	query := `
		SELECT name, COALESCE(SUM(quantity), 0), COUNT(*)
		FROM product_units
		WHERE facility_id = $1 AND status = 'active'
		GROUP BY name
		ORDER BY name`
	rows, err := r.q.Query(ctx, query, facilityID)
	if err != nil {
		return nil, fmt.Errorf("stock by product: %w", err)
	}
	defer rows.Close()
	var levels []entity.StockLevel
	for rows.Next() {
		l := entity.StockLevel{FacilityID: facilityID}
		if err := rows.Scan(&l.ProductName, &l.Remaining, &l.UnitCount); err != nil {
			return nil, fmt.Errorf("scan stock level: %w", err)
		}
		levels = append(levels, l)
	}
	return levels, rows.Err()
}

// ListFacilityIDs instalaciones con al menos una unidad.
func (r *ProductUnitRepo) ListFacilityIDs(ctx context.Context) ([]string, error) {
	rows, err := r.q.Query(ctx, `SELECT DISTINCT facility_id FROM product_units ORDER BY facility_id`)
	if err != nil {
		return nil, fmt.Errorf("list facility ids: %w", err)
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan facility id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *ProductUnitRepo) list(ctx context.Context, op, query string, args ...any) ([]*entity.ProductUnit, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()
	list := make([]*entity.ProductUnit, 0)
	for rows.Next() {
		u, err := scanUnit(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product unit: %w", err)
		}
		list = append(list, u)
	}
	return list, rows.Err()
}

// scanUnit lee una fila con unitColumns (pgx.Row o pgx.Rows).
func scanUnit(row pgx.Row) (*entity.ProductUnit, error) {
	var (
		u                                     entity.ProductUnit
		attributes, distributions, placements []byte
	)
	err := row.Scan(
		&u.ID, &u.FacilityID, &u.Name, &u.SKU, &u.BatchID, &u.Category, &u.Quantity, &u.InitialQuantity, &u.PricePerUnit,
		&u.ReceivedDate, &u.ExpiryDate, &u.Status, &u.CompositeKey, &attributes, &distributions, &placements,
		&u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if len(attributes) > 0 && string(attributes) != "{}" {
		u.Attributes = attributes
	}
	if len(distributions) > 0 {
		if err := json.Unmarshal(distributions, &u.Distributions); err != nil {
			return nil, fmt.Errorf("decode distributions: %w", err)
		}
	}
	if len(placements) > 0 {
		if err := json.Unmarshal(placements, &u.Placements); err != nil {
			return nil, fmt.Errorf("decode placements: %w", err)
		}
	}
	return &u, nil
}

func encodeEvents(u *entity.ProductUnit) (distributions, placements []byte, err error) {
	distributions, err = json.Marshal(nonNilDistributions(u.Distributions))
	if err != nil {
		return nil, nil, fmt.Errorf("encode distributions: %w", err)
	}
	placements, err = json.Marshal(nonNilPlacements(u.Placements))
	if err != nil {
		return nil, nil, fmt.Errorf("encode placements: %w", err)
	}
	return distributions, placements, nil
}

func nonNilDistributions(d []entity.Distribution) []entity.Distribution {
	if d == nil {
		return []entity.Distribution{}
	}
	return d
}

func nonNilPlacements(p []entity.Placement) []entity.Placement {
	if p == nil {
		return []entity.Placement{}
	}
	return p
}
