package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/provider"
)

type ProviderRepository struct {
	db *sql.DB
}

func NewProviderRepository(db *sql.DB) *ProviderRepository {
	return &ProviderRepository{db: db}
}

const providerColumns = `id_provider, user_id, id_profession, id_type_provider, address_id, description`

func (r *ProviderRepository) GetByID(ctx context.Context, id int64) (*provider.Provider, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+providerColumns+` FROM n_provider WHERE id_provider = $1`, id)
	p, err := scanProvider(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadAssociations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProviderRepository) GetByUserID(ctx context.Context, userID int64) (*provider.Provider, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+providerColumns+` FROM n_provider WHERE user_id = $1`, userID)
	p, err := scanProvider(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadAssociations(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProviderRepository) ListActive(ctx context.Context) ([]provider.Provider, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT p.id_provider, p.user_id, p.id_profession, p.id_type_provider, p.address_id, p.description
		FROM n_provider p
		JOIN n_user u ON u.id_user = p.user_id
		WHERE u.is_active`)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list providers", err)
	}
	defer rows.Close()

	var items []provider.Provider
	var ids []int64
	for rows.Next() {
		p, err := scanProvider(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list providers", err)
	}
	if len(items) == 0 {
		return items, nil
	}

	categories, err := r.loadJoin(ctx, `SELECT provider_id, category_id FROM n_provider_category WHERE provider_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	cities, err := r.loadJoin(ctx, `SELECT provider_id, id_city FROM n_provider_city WHERE provider_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].CategoryIDs = categories[items[i].ID]
		items[i].CityIDs = cities[items[i].ID]
	}
	return items, nil
}

func (r *ProviderRepository) ListByCategories(ctx context.Context, categoryIDs []int64) ([]int64, error) {
	if len(categoryIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT provider_id FROM n_provider_category WHERE category_id = ANY($1)`, pq.Array(categoryIDs))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list providers by category", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan provider id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list providers by category", err)
	}
	return ids, nil
}

func (r *ProviderRepository) loadAssociations(ctx context.Context, p *provider.Provider) error {
	categories, err := r.loadJoin(ctx, `SELECT provider_id, category_id FROM n_provider_category WHERE provider_id = ANY($1)`, []int64{p.ID})
	if err != nil {
		return err
	}
	cities, err := r.loadJoin(ctx, `SELECT provider_id, id_city FROM n_provider_city WHERE provider_id = ANY($1)`, []int64{p.ID})
	if err != nil {
		return err
	}
	p.CategoryIDs = categories[p.ID]
	p.CityIDs = cities[p.ID]
	return nil
}

func (r *ProviderRepository) loadJoin(ctx context.Context, query string, providerIDs []int64) (map[int64][]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, pq.Array(providerIDs))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load provider associations", err)
	}
	defer rows.Close()
	result := make(map[int64][]int64)
	for rows.Next() {
		var providerID, relatedID int64
		if err := rows.Scan(&providerID, &relatedID); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan provider association", err)
		}
		result[providerID] = append(result[providerID], relatedID)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load provider associations", err)
	}
	return result, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProvider(row rowScanner) (*provider.Provider, error) {
	var p provider.Provider
	var profession, typeProvider, address sql.NullInt64
	if err := row.Scan(&p.ID, &p.UserID, &profession, &typeProvider, &address, &p.Description); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "provider not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load provider", err)
	}
	p.ProfessionID = nullableID(profession)
	p.TypeProviderID = nullableID(typeProvider)
	p.AddressID = nullableID(address)
	return &p, nil
}

func nullableID(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	id := v.Int64
	return &id
}
