package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/user"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*user.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id_user, name, lastname, email, is_active, date_create, date_update
		FROM n_user WHERE id_user = $1`, id)
	var u user.User
	if err := row.Scan(&u.ID, &u.Name, &u.Lastname, &u.Email, &u.Active, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "user not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load user", err)
	}
	return &u, nil
}

func (r *UserRepository) ResolveIdentity(ctx context.Context, userID int64) (*user.Identity, error) {
	row := r.db.QueryRowContext(ctx, `SELECT p.id_provider FROM n_provider p WHERE p.user_id = $1`, userID)
	var providerID int64
	err := row.Scan(&providerID)
	if err == nil {
		return &user.Identity{UserID: userID, Role: user.RoleProvider, ProviderID: providerID}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewError(common.CodeInternal, "failed to resolve identity", err)
	}

	row = r.db.QueryRowContext(ctx, `SELECT c.id_customer FROM n_customer c WHERE c.user_id = $1`, userID)
	var customerID int64
	err = row.Scan(&customerID)
	if err == nil {
		return &user.Identity{UserID: userID, Role: user.RoleCustomer, CustomerID: customerID}, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, common.NewError(common.CodeInternal, "failed to resolve identity", err)
	}
	return nil, common.NewError(common.CodeNotFound, "user has no provider or customer profile", nil)
}
