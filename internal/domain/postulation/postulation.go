package postulation

import "time"

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
	StatusDeleted  Status = "deleted"
)

type CostType string

const (
	CostPerHour    CostType = "por_hora"
	CostPerProject CostType = "por_proyecto"
	CostPerItem    CostType = "por_item"
	CostMaterial   CostType = "material"
	CostService    CostType = "servicio"
	CostMixed      CostType = "mixto"
)

type Postulation struct {
	ID         int64      `json:"id"`
	PetitionID int64      `json:"petition_id"`
	ProviderID int64      `json:"provider_id"`
	Proposal   string     `json:"proposal"`
	Status     Status     `json:"status"`
	Winner     bool       `json:"winner"`
	Budgets    []Budget   `json:"budgets,omitempty"`
	Materials  []Material `json:"materials,omitempty"`
	CreatedBy  int64      `json:"created_by,omitempty"`
	UpdatedBy  int64      `json:"updated_by,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type Budget struct {
	ID              int64     `json:"id"`
	PostulationID   int64     `json:"postulation_id"`
	CostType        CostType  `json:"cost_type"`
	Amount          *float64  `json:"amount,omitempty"`
	UnitPrice       *float64  `json:"unit_price,omitempty"`
	Quantity        *int64    `json:"quantity,omitempty"`
	Hours           *float64  `json:"hours,omitempty"`
	ItemDescription string    `json:"item_description,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedBy       int64     `json:"created_by,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

type Material struct {
	ID            int64   `json:"id"`
	PostulationID int64   `json:"postulation_id"`
	MaterialID    int64   `json:"material_id"`
	Quantity      float64 `json:"quantity"`
	UnitPrice     float64 `json:"unit_price"`
	// Total is derived: always quantity * unit_price, recomputed on every
	// write, never taken from the client.
	Total float64 `json:"total"`
	Notes string  `json:"notes,omitempty"`
}

type StateHistory struct {
	ID            int64     `json:"id"`
	PostulationID int64     `json:"postulation_id"`
	Status        Status    `json:"status"`
	ChangedBy     int64     `json:"changed_by"`
	Notes         string    `json:"notes,omitempty"`
	ChangedAt     time.Time `json:"changed_at"`
}

// FinalPrice sums the budget amounts that are set. It returns nil when no
// budget carries an amount: an unpriced postulation has no final price, the
// value is not zero.
func (p Postulation) FinalPrice() *float64 {
	var total float64
	found := false
	for _, budget := range p.Budgets {
		if budget.Amount != nil {
			total += *budget.Amount
			found = true
		}
	}
	if !found {
		return nil
	}
	return &total
}
