// Package reward builds the candidate list for a spin and picks at most one
// reward from it by weighted draw.
package reward

import (
	"sort"

	"github.com/osse101/luckydraw/internal/domain"
)

// Candidates returns the rewards of eventID that can still be won in
// province, ordered by ID. An empty result is a normal "no win possible"
// state, not an error.
func Candidates(rewards []domain.Reward, eventID int64, province string) []domain.Reward {
	out := make([]domain.Reward, 0, len(rewards))
	for _, r := range rewards {
		if !r.Active || r.EventID != eventID || r.RemainingQuantity <= 0 {
			continue
		}
		if !r.AvailableIn(province) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
