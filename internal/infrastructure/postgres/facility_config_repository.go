package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/facility-inventory-api/internal/domain/entity"
	"github.com/jhoicas/facility-inventory-api/internal/domain/repository"
)

var _ repository.FacilityConfigRepository = (*FacilityConfigRepo)(nil)

// FacilityConfigRepo guarda configuraciones de instalación como documentos JSONB.
type FacilityConfigRepo struct {
	q   Querier
	now func() time.Time
}

// NewFacilityConfigRepository construye el repositorio de configuraciones.
func NewFacilityConfigRepository(q Querier) *FacilityConfigRepo {
	return &FacilityConfigRepo{q: q, now: time.Now}
}

// ListAll devuelve todas las configuraciones guardadas ordenadas por id.
func (r *FacilityConfigRepo) ListAll(ctx context.Context) ([]*entity.FacilityConfig, error) {
	rows, err := r.q.Query(ctx, `SELECT id, document FROM facility_configs ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list facility configs: %w", err)
	}
	defer rows.Close()

	list := make([]*entity.FacilityConfig, 0)
	for rows.Next() {
		var (
			id  string
			doc []byte
		)
		if err := rows.Scan(&id, &doc); err != nil {
			return nil, fmt.Errorf("scan facility config: %w", err)
		}
		var cfg entity.FacilityConfig
		if err := json.Unmarshal(doc, &cfg); err != nil {
			return nil, fmt.Errorf("decode facility config %q: %w", id, err)
		}
		// la columna id manda sobre el documento
		cfg.ID = id
		list = append(list, &cfg)
	}
	return list, rows.Err()
}

// Upsert inserta o reemplaza el documento de la instalación.
func (r *FacilityConfigRepo) Upsert(ctx context.Context, cfg *entity.FacilityConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode facility config: %w", err)
	}
	_, err = r.q.Exec(ctx, `
		INSERT INTO facility_configs (id, document, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET document = EXCLUDED.document, updated_at = EXCLUDED.updated_at`,
		cfg.ID, doc, r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("upsert facility config: %w", err)
	}
	return nil
}
