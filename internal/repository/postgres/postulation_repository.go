package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/postulation"
)

type PostulationRepository struct {
	db *sql.DB
}

func NewPostulationRepository(db *sql.DB) *PostulationRepository {
	return &PostulationRepository{db: db}
}

const uniqueViolation = "23505"

const postulationColumns = `id_postulation, id_petition, id_provider, proposal, status, winner, id_user_create, id_user_update, date_create, date_update`

func (r *PostulationRepository) Create(ctx context.Context, p postulation.Postulation) (*postulation.Postulation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	p.Status = postulation.StatusPending
	p.Winner = false
	p.CreatedAt = now
	p.UpdatedAt = now
	err = tx.QueryRowContext(ctx, `INSERT INTO n_postulation
		(id_petition, id_provider, proposal, status, winner, id_user_create, id_user_update, date_create, date_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id_postulation`,
		p.PetitionID, p.ProviderID, p.Proposal, p.Status, p.Winner, p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "provider already has a postulation on this petition", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to create postulation", err)
	}

	for i := range p.Budgets {
		budget := &p.Budgets[i]
		budget.PostulationID = p.ID
		budget.CreatedAt = now
		err := tx.QueryRowContext(ctx, `INSERT INTO n_postulation_budget
			(id_postulation, cost_type, amount, unit_price, quantity, hours, item_description, notes, id_user_create, date_created)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id_budget`,
			p.ID, budget.CostType, budget.Amount, budget.UnitPrice, budget.Quantity, budget.Hours, budget.ItemDescription, budget.Notes, budget.CreatedBy, budget.CreatedAt).Scan(&budget.ID)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to create postulation budget", err)
		}
	}

	for i := range p.Materials {
		material := &p.Materials[i]
		material.PostulationID = p.ID
		err := tx.QueryRowContext(ctx, `INSERT INTO n_postulation_material
			(id_postulation, id_material, quantity, unit_price, total, notes)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id_postulation_material`,
			p.ID, material.MaterialID, material.Quantity, material.UnitPrice, material.Total, material.Notes).Scan(&material.ID)
		if err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to create postulation material", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO n_postulation_state_history (id_postulation, status, changed_by, notes) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Status, p.CreatedBy, "created"); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to record postulation history", err)
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return nil, common.NewError(common.CodeConflict, "provider already has a postulation on this petition", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to commit postulation", err)
	}
	return &p, nil
}

func (r *PostulationRepository) GetByID(ctx context.Context, id int64) (*postulation.Postulation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postulationColumns+` FROM n_postulation WHERE id_postulation = $1 AND status <> $2`, id, postulation.StatusDeleted)
	p, err := scanPostulation(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadLineItems(ctx, []*postulation.Postulation{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostulationRepository) FindLive(ctx context.Context, petitionID, providerID int64) (*postulation.Postulation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postulationColumns+` FROM n_postulation
		WHERE id_petition = $1 AND id_provider = $2 AND status <> $3`, petitionID, providerID, postulation.StatusDeleted)
	return scanPostulation(row)
}

func (r *PostulationRepository) ListByProvider(ctx context.Context, providerID int64) ([]postulation.Postulation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postulationColumns+` FROM n_postulation
		WHERE id_provider = $1 AND status <> $2 ORDER BY date_create DESC`, providerID, postulation.StatusDeleted)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list provider postulations", err)
	}
	return r.collect(ctx, rows)
}

func (r *PostulationRepository) ListByPetition(ctx context.Context, petitionID int64) ([]postulation.Postulation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postulationColumns+` FROM n_postulation
		WHERE id_petition = $1 AND status <> $2 ORDER BY date_create DESC`, petitionID, postulation.StatusDeleted)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list petition postulations", err)
	}
	return r.collect(ctx, rows)
}

func (r *PostulationRepository) ListAcceptedByPetitions(ctx context.Context, petitionIDs []int64) ([]postulation.Postulation, error) {
	if len(petitionIDs) == 0 {
		return nil, nil
	}
	rows, err := r.db.QueryContext(ctx, `SELECT `+postulationColumns+` FROM n_postulation
		WHERE id_petition = ANY($1) AND status = $2 ORDER BY date_update DESC`, pq.Array(petitionIDs), postulation.StatusAccepted)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list accepted postulations", err)
	}
	return r.collect(ctx, rows)
}

func (r *PostulationRepository) ListAcceptedByProvider(ctx context.Context, providerID int64) ([]postulation.Postulation, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+postulationColumns+` FROM n_postulation
		WHERE id_provider = $1 AND status = $2 ORDER BY date_update DESC`, providerID, postulation.StatusAccepted)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list accepted postulations", err)
	}
	return r.collect(ctx, rows)
}

func (r *PostulationRepository) UpdateStatus(ctx context.Context, id int64, status postulation.Status, changedBy int64, notes string) (*postulation.Postulation, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE n_postulation SET status = $1, id_user_update = $2, date_update = $3 WHERE id_postulation = $4`,
		status, changedBy, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update postulation", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update postulation", err)
	}
	if affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "postulation not found", nil)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO n_postulation_state_history (id_postulation, status, changed_by, notes) VALUES ($1, $2, $3, $4)`,
		id, status, changedBy, notes); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to record postulation history", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit postulation update", err)
	}
	return r.getAny(ctx, id)
}

func (r *PostulationRepository) SetWinner(ctx context.Context, id int64, changedBy int64) (bool, error) {
	row := r.db.QueryRowContext(ctx, `SELECT winner FROM n_postulation WHERE id_postulation = $1 AND status <> $2`, id, postulation.StatusDeleted)
	var wasWinner bool
	if err := row.Scan(&wasWinner); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, common.NewError(common.CodeNotFound, "postulation not found", err)
		}
		return false, common.NewError(common.CodeInternal, "failed to load postulation", err)
	}
	if wasWinner {
		return true, nil
	}
	_, err := r.db.ExecContext(ctx, `UPDATE n_postulation SET winner = TRUE, id_user_update = $1, date_update = $2 WHERE id_postulation = $3`,
		changedBy, time.Now().UTC(), id)
	if err != nil {
		return false, common.NewError(common.CodeInternal, "failed to mark winner", err)
	}
	return false, nil
}

func (r *PostulationRepository) ListHistory(ctx context.Context, postulationID int64) ([]postulation.StateHistory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_history, id_postulation, status, changed_by, notes, date_change
		FROM n_postulation_state_history WHERE id_postulation = $1 ORDER BY date_change`, postulationID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list postulation history", err)
	}
	defer rows.Close()
	var items []postulation.StateHistory
	for rows.Next() {
		var h postulation.StateHistory
		var changedBy sql.NullInt64
		if err := rows.Scan(&h.ID, &h.PostulationID, &h.Status, &changedBy, &h.Notes, &h.ChangedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan postulation history", err)
		}
		h.ChangedBy = changedBy.Int64
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list postulation history", err)
	}
	return items, nil
}

func (r *PostulationRepository) getAny(ctx context.Context, id int64) (*postulation.Postulation, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+postulationColumns+` FROM n_postulation WHERE id_postulation = $1`, id)
	p, err := scanPostulation(row)
	if err != nil {
		return nil, err
	}
	if err := r.loadLineItems(ctx, []*postulation.Postulation{p}); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PostulationRepository) collect(ctx context.Context, rows *sql.Rows) ([]postulation.Postulation, error) {
	defer rows.Close()
	var items []postulation.Postulation
	for rows.Next() {
		p, err := scanPostulation(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list postulations", err)
	}
	if len(items) == 0 {
		return items, nil
	}
	refs := make([]*postulation.Postulation, len(items))
	for i := range items {
		refs[i] = &items[i]
	}
	if err := r.loadLineItems(ctx, refs); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostulationRepository) loadLineItems(ctx context.Context, items []*postulation.Postulation) error {
	ids := make([]int64, len(items))
	byID := make(map[int64]*postulation.Postulation, len(items))
	for i, p := range items {
		ids[i] = p.ID
		byID[p.ID] = p
	}

	budgetRows, err := r.db.QueryContext(ctx, `SELECT id_budget, id_postulation, cost_type, amount, unit_price, quantity, hours, item_description, notes, id_user_create, date_created
		FROM n_postulation_budget WHERE id_postulation = ANY($1) ORDER BY id_budget`, pq.Array(ids))
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to load postulation budgets", err)
	}
	defer budgetRows.Close()
	for budgetRows.Next() {
		var b postulation.Budget
		var amount, unitPrice, hours sql.NullFloat64
		var quantity, createdBy sql.NullInt64
		if err := budgetRows.Scan(&b.ID, &b.PostulationID, &b.CostType, &amount, &unitPrice, &quantity, &hours, &b.ItemDescription, &b.Notes, &createdBy, &b.CreatedAt); err != nil {
			return common.NewError(common.CodeInternal, "failed to scan postulation budget", err)
		}
		b.Amount = nullableFloat(amount)
		b.UnitPrice = nullableFloat(unitPrice)
		b.Quantity = nullableID(quantity)
		b.Hours = nullableFloat(hours)
		b.CreatedBy = createdBy.Int64
		if p := byID[b.PostulationID]; p != nil {
			p.Budgets = append(p.Budgets, b)
		}
	}
	if err := budgetRows.Err(); err != nil {
		return common.NewError(common.CodeInternal, "failed to load postulation budgets", err)
	}

	materialRows, err := r.db.QueryContext(ctx, `SELECT id_postulation_material, id_postulation, id_material, quantity, unit_price, total, notes
		FROM n_postulation_material WHERE id_postulation = ANY($1) ORDER BY id_postulation_material`, pq.Array(ids))
	if err != nil {
		return common.NewError(common.CodeInternal, "failed to load postulation materials", err)
	}
	defer materialRows.Close()
	for materialRows.Next() {
		var m postulation.Material
		if err := materialRows.Scan(&m.ID, &m.PostulationID, &m.MaterialID, &m.Quantity, &m.UnitPrice, &m.Total, &m.Notes); err != nil {
			return common.NewError(common.CodeInternal, "failed to scan postulation material", err)
		}
		if p := byID[m.PostulationID]; p != nil {
			p.Materials = append(p.Materials, m)
		}
	}
	if err := materialRows.Err(); err != nil {
		return common.NewError(common.CodeInternal, "failed to load postulation materials", err)
	}
	return nil
}

func scanPostulation(row rowScanner) (*postulation.Postulation, error) {
	var p postulation.Postulation
	var createdBy, updatedBy sql.NullInt64
	if err := row.Scan(&p.ID, &p.PetitionID, &p.ProviderID, &p.Proposal, &p.Status, &p.Winner, &createdBy, &updatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "postulation not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load postulation", err)
	}
	p.CreatedBy = createdBy.Int64
	p.UpdatedBy = updatedBy.Int64
	return &p, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}
