package user

import "time"

type Role string

const (
	RoleProvider Role = "provider"
	RoleCustomer Role = "customer"
)

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Lastname  string    `json:"lastname"`
	Email     string    `json:"email"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Identity is a user's resolved marketplace role. Exactly one of ProviderID
// and CustomerID is set; a user with neither profile gets no Identity at all.
type Identity struct {
	UserID     int64 `json:"user_id"`
	Role       Role  `json:"role"`
	ProviderID int64 `json:"provider_id,omitempty"`
	CustomerID int64 `json:"customer_id,omitempty"`
}
