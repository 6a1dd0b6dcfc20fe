package offer

import "time"

type Status string

const (
	StatusActive  Status = "active"
	StatusPaused  Status = "paused"
	StatusDeleted Status = "deleted"
)

type Offer struct {
	ID          int64      `json:"id"`
	ProviderID  *int64     `json:"provider_id,omitempty"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	DateOpen    *time.Time `json:"date_open,omitempty"`
	DateClose   *time.Time `json:"date_close,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ActiveAt reports whether the offer is live at the given instant.
func (o Offer) ActiveAt(now time.Time) bool {
	if o.Status != StatusActive {
		return false
	}
	if o.DateOpen != nil && now.Before(*o.DateOpen) {
		return false
	}
	if o.DateClose != nil && now.After(*o.DateClose) {
		return false
	}
	return true
}

// Interest marks a category a customer wants offers for.
type Interest struct {
	ID         int64 `json:"id"`
	CustomerID int64 `json:"customer_id"`
	CategoryID int64 `json:"category_id"`
}
