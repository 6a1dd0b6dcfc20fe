package petition

import "time"

type Status string

const (
	StatusOpen    Status = "open"
	StatusClosed  Status = "closed"
	StatusDeleted Status = "deleted"
)

type Petition struct {
	ID             int64      `json:"id"`
	CustomerID     int64      `json:"customer_id"`
	Description    string     `json:"description"`
	TypeID         *int64     `json:"type_id,omitempty"`
	ProfessionID   *int64     `json:"profession_id,omitempty"`
	TypeProviderID *int64     `json:"type_provider_id,omitempty"`
	Status         Status     `json:"status"`
	DateSince      *time.Time `json:"date_since,omitempty"`
	DateUntil      *time.Time `json:"date_until,omitempty"`
	CategoryIDs    []int64    `json:"category_ids"`
	CreatedBy      int64      `json:"created_by,omitempty"`
	UpdatedBy      int64      `json:"updated_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// OpenOn reports whether the petition accepts postulations on the given day.
// A missing bound leaves that side of the window unbounded.
func (p Petition) OpenOn(day time.Time) bool {
	if p.Status != StatusOpen {
		return false
	}
	date := calendarDate(day)
	if p.DateSince != nil && date.Before(calendarDate(*p.DateSince)) {
		return false
	}
	if p.DateUntil != nil && date.After(calendarDate(*p.DateUntil)) {
		return false
	}
	return true
}

// calendarDate drops the time of day, keeping the wall-clock date so the
// window follows the calendar day rather than 24h boundaries in UTC.
func calendarDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type StateHistory struct {
	ID         int64     `json:"id"`
	PetitionID int64     `json:"petition_id"`
	Status     Status    `json:"status"`
	ChangedBy  int64     `json:"changed_by"`
	Note       string    `json:"note,omitempty"`
	ChangedAt  time.Time `json:"changed_at"`
}
