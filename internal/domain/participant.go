package domain

// Participant is a registered entrant of exactly one event.
type Participant struct {
	ID             int64  `json:"id"`
	EventID        int64  `json:"event_id"`
	LocationID     int64  `json:"location_id"`
	Name           string `json:"name"`
	Phone          string `json:"phone"`
	Province       string `json:"province"`
	RemainingSpins int    `json:"remaining_spins"`
	Active         bool   `json:"active"`
	Version        int64  `json:"version"`
}

// ParticipantStatus mirrors the upstream registration status that callers may
// pre-supply on a spin request.
type ParticipantStatus string

const (
	ParticipantStatusActive   ParticipantStatus = "ACTIVE"
	ParticipantStatusInactive ParticipantStatus = "INACTIVE"
)
