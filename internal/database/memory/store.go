// Package memory is an in-process implementation of repository.Spin. Each
// commit runs under the store's mutex, standing in for a serializable
// database transaction. Used by tests and STORE_DRIVER=memory.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/ledger"
)

// ConflictFunc decides whether a commit attempt should report a version
// conflict before touching any counter. n counts attempts store-wide.
type ConflictFunc func(req ledger.CommitRequest, n int) bool

// Store holds campaign state in memory
type Store struct {
	mu sync.Mutex

	events       map[int64]domain.Event
	locations    map[int64]domain.EventLocation
	participants map[int64]domain.Participant
	rewards      map[int64]domain.Reward
	goldenHours  map[int64]domain.GoldenHour
	spins        []domain.SpinHistory

	nextID   int64
	attempts int
	conflict ConflictFunc
}

// Option configures a Store
type Option func(*Store)

// WithConflicts injects version conflicts into AttemptCommit
func WithConflicts(fn ConflictFunc) Option {
	return func(s *Store) { s.conflict = fn }
}

// NewStore creates an empty store
func NewStore(opts ...Option) *Store {
	s := &Store{
		events:       make(map[int64]domain.Event),
		locations:    make(map[int64]domain.EventLocation),
		participants: make(map[int64]domain.Participant),
		rewards:      make(map[int64]domain.Reward),
		goldenHours:  make(map[int64]domain.GoldenHour),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) id(given int64) int64 {
	if given > 0 {
		if given > s.nextID {
			s.nextID = given
		}
		return given
	}
	s.nextID++
	return s.nextID
}

// ============================================================================
// Seeding
// ============================================================================

// PutEvent inserts or replaces an event, assigning an ID when zero
func (s *Store) PutEvent(e domain.Event) domain.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.id(e.ID)
	s.events[e.ID] = e
	return e
}

// PutLocation inserts or replaces a location
func (s *Store) PutLocation(l domain.EventLocation) domain.EventLocation {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.id(l.ID)
	s.locations[l.ID] = l
	return l
}

// PutParticipant inserts or replaces a participant
func (s *Store) PutParticipant(p domain.Participant) domain.Participant {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.id(p.ID)
	s.participants[p.ID] = p
	return p
}

// PutReward inserts or replaces a reward
func (s *Store) PutReward(r domain.Reward) domain.Reward {
	s.mu.Lock()
	defer s.mu.Unlock()
	r.ID = s.id(r.ID)
	r.Provinces = append([]string(nil), r.Provinces...)
	s.rewards[r.ID] = r
	return r
}

// PutGoldenHour inserts or replaces a golden hour
func (s *Store) PutGoldenHour(g domain.GoldenHour) domain.GoldenHour {
	s.mu.Lock()
	defer s.mu.Unlock()
	g.ID = s.id(g.ID)
	s.goldenHours[g.ID] = g
	return g
}

// ============================================================================
// Reads
// ============================================================================

func (s *Store) GetEvent(_ context.Context, id int64) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, fmt.Errorf("event %d: %w", id, domain.ErrEventNotFound)
	}
	return &e, nil
}

func (s *Store) GetLocation(_ context.Context, id int64) (*domain.EventLocation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locations[id]
	if !ok {
		return nil, fmt.Errorf("location %d: %w", id, domain.ErrLocationNotFound)
	}
	return &l, nil
}

func (s *Store) GetParticipant(_ context.Context, id int64) (*domain.Participant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[id]
	if !ok {
		return nil, fmt.Errorf("participant %d: %w", id, domain.ErrParticipantNotFound)
	}
	return &p, nil
}

func (s *Store) GetRewardsByEvent(_ context.Context, eventID int64) ([]domain.Reward, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Reward
	for _, r := range s.rewards {
		if r.EventID == eventID {
			r.Provinces = append([]string(nil), r.Provinces...)
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetActiveGoldenHours(_ context.Context, eventID int64, now time.Time) ([]domain.GoldenHour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.GoldenHour
	for _, g := range s.goldenHours {
		if g.EventID == eventID && g.Active && g.Contains(now) {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetGoldenHoursByEvent(_ context.Context, eventID int64) ([]domain.GoldenHour, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.GoldenHour
	for _, g := range s.goldenHours {
		if g.EventID == eventID && g.Active {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) GetRemainingSpinsToday(_ context.Context, locationID int64, day time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locations[locationID]
	if !ok {
		return 0, fmt.Errorf("location %d: %w", locationID, domain.ErrLocationNotFound)
	}
	return ledger.RemainingToday(l, day), nil
}

// ============================================================================
// Commit
// ============================================================================

// AttemptCommit implements the ledger commit contract
func (s *Store) AttemptCommit(_ context.Context, req ledger.CommitRequest) (ledger.CommitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempts++
	if s.conflict != nil && s.conflict(req, s.attempts) {
		return ledger.Conflict(), nil
	}

	event, ok := s.events[req.EventID]
	if !ok {
		return ledger.CommitResult{}, fmt.Errorf("event %d: %w", req.EventID, domain.ErrEventNotFound)
	}
	loc, ok := s.locations[req.LocationID]
	if !ok {
		return ledger.CommitResult{}, fmt.Errorf("location %d: %w", req.LocationID, domain.ErrLocationNotFound)
	}
	participant, ok := s.participants[req.ParticipantID]
	if !ok {
		return ledger.CommitResult{}, fmt.Errorf("participant %d: %w", req.ParticipantID, domain.ErrParticipantNotFound)
	}

	snap := ledger.Snapshot{Event: event, Location: loc, Participant: participant}
	if req.RewardID != nil {
		r, ok := s.rewards[*req.RewardID]
		if !ok || r.EventID != req.EventID {
			return ledger.CommitResult{}, fmt.Errorf("reward %d: %w", *req.RewardID, domain.ErrRewardNotFound)
		}
		snap.Reward = &r
	}

	ledger.ApplyDailyReset(&snap.Location, req.Day)
	if reason := ledger.Check(snap.Event, snap.Location, snap.Participant, snap.Reward); reason != ledger.ReasonNone {
		return ledger.NoCapacity(reason), nil
	}

	ledger.Apply(&snap)
	history := ledger.NewHistory(req, snap)
	history.ID = s.id(0)

	s.events[snap.Event.ID] = snap.Event
	s.locations[snap.Location.ID] = snap.Location
	s.participants[snap.Participant.ID] = snap.Participant
	if snap.Reward != nil {
		s.rewards[snap.Reward.ID] = *snap.Reward
	}
	s.spins = append(s.spins, history)

	return ledger.Committed(snap, &history), nil
}

// ============================================================================
// History
// ============================================================================

func (s *Store) GetSpin(_ context.Context, id int64) (*domain.SpinHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, h := range s.spins {
		if h.ID == id {
			return &h, nil
		}
	}
	return nil, fmt.Errorf("spin %d: %w", id, domain.ErrSpinNotFound)
}

func (s *Store) GetLatestSpin(_ context.Context, participantID int64) (*domain.SpinHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.spins) - 1; i >= 0; i-- {
		if s.spins[i].ParticipantID == participantID {
			h := s.spins[i]
			return &h, nil
		}
	}
	return nil, fmt.Errorf("participant %d: %w", participantID, domain.ErrSpinNotFound)
}

// ListSpins returns the newest spins first
func (s *Store) ListSpins(_ context.Context, participantID int64, limit int) ([]domain.SpinHistory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []domain.SpinHistory{}
	for i := len(s.spins) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		if s.spins[i].ParticipantID == participantID {
			out = append(out, s.spins[i])
		}
	}
	return out, nil
}

func (s *Store) GetSpinStatistics(_ context.Context, participantID int64) (*domain.SpinStatistics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.participants[participantID]
	if !ok {
		return nil, fmt.Errorf("participant %d: %w", participantID, domain.ErrParticipantNotFound)
	}

	stats := &domain.SpinStatistics{ParticipantID: participantID, RemainingSpins: p.RemainingSpins}
	for _, h := range s.spins {
		if h.ParticipantID != participantID {
			continue
		}
		stats.TotalSpins++
		if h.Won {
			stats.WinningSpins++
			if !h.Finalized {
				stats.UnfinalizedWins++
			}
		}
		if h.PointsEarned != nil {
			stats.TotalPoints += *h.PointsEarned
		}
	}
	if stats.TotalSpins > 0 {
		stats.WinRate = float64(stats.WinningSpins) / float64(stats.TotalSpins)
	}
	return stats, nil
}

func (s *Store) FinalizeSpin(_ context.Context, id int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.spins {
		if s.spins[i].ID != id {
			continue
		}
		if s.spins[i].Finalized {
			return false, nil
		}
		s.spins[i].Finalized = true
		s.spins[i].FinalizedAt = &at
		return true, nil
	}
	return false, fmt.Errorf("spin %d: %w", id, domain.ErrSpinNotFound)
}

// ============================================================================
// Administration
// ============================================================================

func (s *Store) DeactivateExpiredEvents(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for id, e := range s.events {
		if e.Active && e.EndDate.Before(now) {
			e.Active = false
			e.Version++
			s.events[id] = e
			n++
		}
	}
	return n, nil
}

// Attempts returns how many commit attempts the store has seen
func (s *Store) Attempts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attempts
}
