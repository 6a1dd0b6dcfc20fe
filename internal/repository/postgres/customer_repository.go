package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/nahuelmendez6/int-com-back/internal/common"
	"github.com/nahuelmendez6/int-com-back/internal/domain/customer"
)

type CustomerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Customers are read with their city resolved through the address join; the
// matching engine only ever needs the city id.
const customerQuery = `SELECT c.id_customer, c.user_id, c.address_id, a.id_city
	FROM n_customer c
	LEFT JOIN n_address a ON a.id_address = c.address_id`

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*customer.Customer, error) {
	row := r.db.QueryRowContext(ctx, customerQuery+` WHERE c.id_customer = $1`, id)
	return scanCustomer(row)
}

func (r *CustomerRepository) GetByUserID(ctx context.Context, userID int64) (*customer.Customer, error) {
	row := r.db.QueryRowContext(ctx, customerQuery+` WHERE c.user_id = $1`, userID)
	return scanCustomer(row)
}

func scanCustomer(row rowScanner) (*customer.Customer, error) {
	var c customer.Customer
	var address, city sql.NullInt64
	if err := row.Scan(&c.ID, &c.UserID, &address, &city); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.NewError(common.CodeNotFound, "customer not found", err)
		}
		return nil, common.NewError(common.CodeInternal, "failed to load customer", err)
	}
	c.AddressID = nullableID(address)
	c.CityID = nullableID(city)
	return &c, nil
}
