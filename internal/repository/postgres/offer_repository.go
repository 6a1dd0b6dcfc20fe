package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/offer"
)

type OfferRepository struct {
	db *sql.DB
}

func NewOfferRepository(db *sql.DB) *OfferRepository {
	return &OfferRepository{db: db}
}

const offerColumns = `id_offer, id_provider, title, description, status, date_open, date_close, date_create, date_update`

func (r *OfferRepository) GetByID(ctx context.Context, id int64) (*offer.Offer, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+offerColumns+` FROM n_offer WHERE id_offer = $1 AND status <> $2`, id, offer.StatusDeleted)
	return scanOffer(row)
}

func (r *OfferRepository) ListActive(ctx context.Context) ([]offer.Offer, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+offerColumns+` FROM n_offer WHERE status = $1 ORDER BY date_create DESC`, offer.StatusActive)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list offers", err)
	}
	defer rows.Close()
	var items []offer.Offer
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list offers", err)
	}
	return items, nil
}

func scanOffer(row rowScanner) (*offer.Offer, error) {
	var o offer.Offer
	var providerID sql.NullInt64
	var dateOpen, dateClose sql.NullTime
	if err := row.Scan(&o.ID, &providerID, &o.Title, &o.Description, &o.Status, &dateOpen, &dateClose, &o.CreatedAt, &o.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "offer not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load offer", err)
	}
	o.ProviderID = nullableID(providerID)
	if dateOpen.Valid {
		t := dateOpen.Time
		o.DateOpen = &t
	}
	if dateClose.Valid {
		t := dateClose.Time
		o.DateClose = &t
	}
	return &o, nil
}

type InterestRepository struct {
	db *sql.DB
}

func NewInterestRepository(db *sql.DB) *InterestRepository {
	return &InterestRepository{db: db}
}

func (r *InterestRepository) ListCategoryIDs(ctx context.Context, customerID int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id_category FROM n_interest WHERE id_customer = $1 AND status = 'active'`, customerID)
	if err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list interests", err)
	}
	defer rows.Close()
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, common.NewError(common.CodeInternal, "failed to scan interest", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, common.NewError(common.CodeInternal, "failed to list interests", err)
	}
	return ids, nil
}
