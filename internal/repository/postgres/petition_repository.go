package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/petition"
)

type PetitionRepository struct {
	db *sql.DB
}

func NewPetitionRepository(db *sql.DB) *PetitionRepository {
	return &PetitionRepository{db: db}
}

const petitionColumns = `id_petition, id_customer, description, id_type_petition, id_profession, id_type_provider, status, date_since, date_until, id_user_create, id_user_update, date_create, date_update`

func (r *PetitionRepository) Create(ctx context.Context, p petition.Petition) (*petition.Petition, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	p.Status = petition.StatusOpen
	p.CreatedAt = now
	p.UpdatedAt = now
	err = tx.QueryRowContext(ctx, `INSERT INTO n_petition
		(id_customer, description, id_type_petition, id_profession, id_type_provider, status, date_since, date_until, id_user_create, id_user_update, date_create, date_update)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id_petition`,
		p.CustomerID, p.Description, p.TypeID, p.ProfessionID, p.TypeProviderID, p.Status, p.DateSince, p.DateUntil, p.CreatedBy, p.UpdatedBy, p.CreatedAt, p.UpdatedAt).Scan(&p.ID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to create petition", err)
	}

	for _, categoryID := range p.CategoryIDs {
		if _, err := tx.ExecContext(ctx, `INSERT INTO n_petition_category (id_petition, id_category) VALUES ($1, $2)`, p.ID, categoryID); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to attach petition category", err)
		}
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO n_petition_state_history (id_petition, status, changed_by, note) VALUES ($1, $2, $3, $4)`,
		p.ID, p.Status, p.CreatedBy, "created"); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to record petition history", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit petition", err)
	}
	return &p, nil
}

func (r *PetitionRepository) GetByID(ctx context.Context, id int64) (*petition.Petition, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petitionColumns+` FROM n_petition WHERE id_petition = $1 AND status <> $2`, id, petition.StatusDeleted)
	p, err := scanPetition(row)
	if err != nil {
		return nil, err
	}
	categories, err := r.loadCategories(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.CategoryIDs = categories[p.ID]
	return p, nil
}

func (r *PetitionRepository) ListOpen(ctx context.Context) ([]petition.Petition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+petitionColumns+` FROM n_petition WHERE status = $1`, petition.StatusOpen)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list open petitions", err)
	}
	return r.collect(ctx, rows)
}

func (r *PetitionRepository) ListByCustomer(ctx context.Context, customerID int64) ([]petition.Petition, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+petitionColumns+` FROM n_petition WHERE id_customer = $1 AND status <> $2 ORDER BY date_create DESC`, customerID, petition.StatusDeleted)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list customer petitions", err)
	}
	return r.collect(ctx, rows)
}

func (r *PetitionRepository) UpdateStatus(ctx context.Context, id int64, status petition.Status, changedBy int64, note string) (*petition.Petition, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to begin transaction", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `UPDATE n_petition SET status = $1, id_user_update = $2, date_update = $3 WHERE id_petition = $4`,
		status, changedBy, time.Now().UTC(), id)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update petition", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to update petition", err)
	}
	if affected == 0 {
		return nil, common.NewError(common.CodeNotFound, "petition not found", nil)
	}

	if _, err := tx.ExecContext(ctx, `INSERT INTO n_petition_state_history (id_petition, status, changed_by, note) VALUES ($1, $2, $3, $4)`,
		id, status, changedBy, note); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to record petition history", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to commit petition update", err)
	}
	return r.getAny(ctx, id)
}

func (r *PetitionRepository) ListHistory(ctx context.Context, petitionID int64) ([]petition.StateHistory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_history, id_petition, status, changed_by, note, date_change
		FROM n_petition_state_history WHERE id_petition = $1 ORDER BY date_change`, petitionID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list petition history", err)
	}
	defer rows.Close()
	var items []petition.StateHistory
	for rows.Next() {
		var h petition.StateHistory
		var changedBy sql.NullInt64
		if err := rows.Scan(&h.ID, &h.PetitionID, &h.Status, &changedBy, &h.Note, &h.ChangedAt); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan petition history", err)
		}
		h.ChangedBy = changedBy.Int64
		items = append(items, h)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list petition history", err)
	}
	return items, nil
}

// getAny reads a petition regardless of status; UpdateStatus needs to return
// the row it just soft-deleted or closed.
func (r *PetitionRepository) getAny(ctx context.Context, id int64) (*petition.Petition, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+petitionColumns+` FROM n_petition WHERE id_petition = $1`, id)
	p, err := scanPetition(row)
	if err != nil {
		return nil, err
	}
	categories, err := r.loadCategories(ctx, []int64{p.ID})
	if err != nil {
		return nil, err
	}
	p.CategoryIDs = categories[p.ID]
	return p, nil
}

func (r *PetitionRepository) collect(ctx context.Context, rows *sql.Rows) ([]petition.Petition, error) {
	defer rows.Close()
	var items []petition.Petition
	var ids []int64
	for rows.Next() {
		p, err := scanPetition(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *p)
		ids = append(ids, p.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list petitions", err)
	}
	if len(items) == 0 {
		return items, nil
	}
	categories, err := r.loadCategories(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].CategoryIDs = categories[items[i].ID]
	}
	return items, nil
}

func (r *PetitionRepository) loadCategories(ctx context.Context, petitionIDs []int64) (map[int64][]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_petition, id_category FROM n_petition_category WHERE id_petition = ANY($1)`, pq.Array(petitionIDs))
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load petition categories", err)
	}
	defer rows.Close()
	result := make(map[int64][]int64)
	for rows.Next() {
		var petitionID, categoryID int64
		if err := rows.Scan(&petitionID, &categoryID); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan petition category", err)
		}
		result[petitionID] = append(result[petitionID], categoryID)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to load petition categories", err)
	}
	return result, nil
}

func scanPetition(row rowScanner) (*petition.Petition, error) {
	var p petition.Petition
	var typeID, profession, typeProvider, createdBy, updatedBy sql.NullInt64
	var since, until sql.NullTime
	if err := row.Scan(&p.ID, &p.CustomerID, &p.Description, &typeID, &profession, &typeProvider, &p.Status, &since, &until, &createdBy, &updatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "petition not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load petition", err)
	}
	p.TypeID = nullableID(typeID)
	p.ProfessionID = nullableID(profession)
	p.TypeProviderID = nullableID(typeProvider)
	p.CreatedBy = createdBy.Int64
	p.UpdatedBy = updatedBy.Int64
	if since.Valid {
		t := since.Time
		p.DateSince = &t
	}
	if until.Valid {
		t := until.Time
		p.DateUntil = &t
	}
	return &p, nil
}
