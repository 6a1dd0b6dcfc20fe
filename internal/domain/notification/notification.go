package notification

import "time"

type Type string

const (
	TypePetitionCreated         Type = "petition_created"
	TypePetitionClosed          Type = "petition_closed"
	TypePostulationCreated      Type = "postulation_created"
	TypePostulationStateChanged Type = "postulation_state_changed"
	TypePostulationAccepted     Type = "postulation_accepted"
	TypePostulationRejected     Type = "postulation_rejected"
	TypeGeneral                 Type = "general"
)

type Notification struct {
	ID                   int64          `json:"id"`
	UserID               int64          `json:"user_id"`
	Title                string         `json:"title"`
	Message              string         `json:"message"`
	Type                 Type           `json:"type"`
	IsRead               bool           `json:"is_read"`
	ReadAt               *time.Time     `json:"read_at,omitempty"`
	RelatedPetitionID    *int64         `json:"related_petition_id,omitempty"`
	RelatedPostulationID *int64         `json:"related_postulation_id,omitempty"`
	Metadata             map[string]any `json:"metadata,omitempty"`
	CreatedAt            time.Time      `json:"created_at"`
}

// Settings holds a user's per-type notification preferences. Rows are created
// lazily with everything enabled.
type Settings struct {
	UserID                  int64     `json:"user_id"`
	PetitionCreated         bool      `json:"petition_created"`
	PetitionClosed          bool      `json:"petition_closed"`
	PostulationCreated      bool      `json:"postulation_created"`
	PostulationStateChanged bool      `json:"postulation_state_changed"`
	PostulationAccepted     bool      `json:"postulation_accepted"`
	PostulationRejected     bool      `json:"postulation_rejected"`
	EmailNotifications      bool      `json:"email_notifications"`
	PushNotifications       bool      `json:"push_notifications"`
	CreatedAt               time.Time `json:"created_at"`
	UpdatedAt               time.Time `json:"updated_at"`
}

func DefaultSettings(userID int64) Settings {
	return Settings{
		UserID:                  userID,
		PetitionCreated:         true,
		PetitionClosed:          true,
		PostulationCreated:      true,
		PostulationStateChanged: true,
		PostulationAccepted:     true,
		PostulationRejected:     true,
		EmailNotifications:      true,
		PushNotifications:       true,
	}
}

// Enabled reports whether the settings allow the given type. Types without a
// dedicated toggle (general) are always delivered.
func (s Settings) Enabled(t Type) bool {
	switch t {
	case TypePetitionCreated:
		return s.PetitionCreated
	case TypePetitionClosed:
		return s.PetitionClosed
	case TypePostulationCreated:
		return s.PostulationCreated
	case TypePostulationStateChanged:
		return s.PostulationStateChanged
	case TypePostulationAccepted:
		return s.PostulationAccepted
	case TypePostulationRejected:
		return s.PostulationRejected
	default:
		return true
	}
}

type Stats struct {
	Total  int64          `json:"total_notifications"`
	Unread int64          `json:"unread_notifications"`
	ByType map[Type]int64 `json:"notifications_by_type"`
	Recent []Notification `json:"recent_notifications"`
}
