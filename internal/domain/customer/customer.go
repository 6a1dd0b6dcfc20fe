package customer

import "context"

type Customer struct {
	ID        int64  `json:"id"`
	UserID    int64  `json:"user_id"`
	AddressID *int64 `json:"address_id,omitempty"`
	// CityID is resolved through the customer's address; nil when the
	// customer has no address or the address has no city.
	CityID *int64 `json:"city_id,omitempty"`
}

type Repository interface {
	GetByID(ctx context.Context, id int64) (*Customer, error)
	GetByUserID(ctx context.Context, userID int64) (*Customer, error)
}
