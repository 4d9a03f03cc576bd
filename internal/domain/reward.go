package domain

import "strings"

// Reward is a finite-quantity prize that can be won in an event.
// Probability is the absolute base win chance in [0, 1].
type Reward struct {
	ID                int64    `json:"id"`
	EventID           int64    `json:"event_id"`
	Code              string   `json:"code"`
	Name              string   `json:"name"`
	Quantity          int      `json:"quantity"`
	RemainingQuantity int      `json:"remaining_quantity"`
	Probability       float64  `json:"probability"`
	Points            int      `json:"points"`
	Provinces         []string `json:"provinces,omitempty"`
	Active            bool     `json:"active"`
	Version           int64    `json:"version"`
}

// AvailableIn reports whether the reward may be won in the given province.
// An empty province list means the reward is available everywhere.
func (r Reward) AvailableIn(province string) bool {
	if len(r.Provinces) == 0 {
		return true
	}
	for _, p := range r.Provinces {
		if strings.EqualFold(strings.TrimSpace(p), strings.TrimSpace(province)) {
			return true
		}
	}
	return false
}
