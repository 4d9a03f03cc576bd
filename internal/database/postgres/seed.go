package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/luckydraw/internal/domain"
)

const (
	SQLInsertEvent = `
		INSERT INTO events (code, name, is_active, start_date, end_date, total_spins, remaining_spins)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING event_id`

	SQLInsertLocation = `
		INSERT INTO event_locations (event_id, code, name, province, daily_spin_limit,
		                             remaining_spins_today, last_reset_date, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING location_id`

	SQLInsertParticipant = `
		INSERT INTO participants (event_id, location_id, name, phone, province, remaining_spins, is_active)
		VALUES ($1, NULLIF($2, 0), $3, $4, $5, $6, $7)
		RETURNING participant_id`

	SQLInsertReward = `
		INSERT INTO rewards (event_id, code, name, quantity, remaining_quantity, probability,
		                     points, provinces, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING reward_id`

	SQLInsertGoldenHour = `
		INSERT INTO golden_hours (event_id, reward_id, name, start_time, end_time, multiplier, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING golden_hour_id`
)

// Seeder inserts campaign fixtures. It backs the devtool seed command and
// integration tests; production data arrives through the admin flow.
type Seeder struct {
	db *pgxpool.Pool
}

// NewSeeder creates a Seeder
func NewSeeder(db *pgxpool.Pool) *Seeder {
	return &Seeder{db: db}
}

// InsertEvent stores e and returns it with its new ID
func (s *Seeder) InsertEvent(ctx context.Context, e domain.Event) (domain.Event, error) {
	err := s.db.QueryRow(ctx, SQLInsertEvent,
		e.Code, e.Name, e.Active, e.StartDate, e.EndDate, e.TotalSpins, e.RemainingSpins,
	).Scan(&e.ID)
	return e, wrapSeedErr("event", err)
}

// InsertLocation stores l and returns it with its new ID
func (s *Seeder) InsertLocation(ctx context.Context, l domain.EventLocation) (domain.EventLocation, error) {
	err := s.db.QueryRow(ctx, SQLInsertLocation,
		l.EventID, l.Code, l.Name, l.Province, l.DailySpinLimit, l.RemainingSpinsToday,
		pgDate(l.LastResetDate), l.Active,
	).Scan(&l.ID)
	return l, wrapSeedErr("location", err)
}

// InsertParticipant stores p and returns it with its new ID
func (s *Seeder) InsertParticipant(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	err := s.db.QueryRow(ctx, SQLInsertParticipant,
		p.EventID, p.LocationID, p.Name, p.Phone, p.Province, p.RemainingSpins, p.Active,
	).Scan(&p.ID)
	return p, wrapSeedErr("participant", err)
}

// InsertReward stores rw and returns it with its new ID
func (s *Seeder) InsertReward(ctx context.Context, rw domain.Reward) (domain.Reward, error) {
	provinces := rw.Provinces
	if provinces == nil {
		provinces = []string{}
	}
	err := s.db.QueryRow(ctx, SQLInsertReward,
		rw.EventID, rw.Code, rw.Name, rw.Quantity, rw.RemainingQuantity, rw.Probability,
		rw.Points, provinces, rw.Active,
	).Scan(&rw.ID)
	return rw, wrapSeedErr("reward", err)
}

// InsertGoldenHour stores g and returns it with its new ID
func (s *Seeder) InsertGoldenHour(ctx context.Context, g domain.GoldenHour) (domain.GoldenHour, error) {
	err := s.db.QueryRow(ctx, SQLInsertGoldenHour,
		g.EventID, g.RewardID, g.Name, g.StartTime, g.EndTime, g.Multiplier, g.Active,
	).Scan(&g.ID)
	return g, wrapSeedErr("golden hour", err)
}

func wrapSeedErr(entity string, err error) error {
	if err == nil {
		return nil
	}
	if pgErr, ok := err.(*pgconn.PgError); ok && pgErr.Code == PgErrorCodeUniqueViolation {
		return fmt.Errorf("%s: %s already exists: %w", ErrMsgFailedToSeed, entity, domain.ErrInvalidInput)
	}
	return fmt.Errorf("%s: %s: %w", ErrMsgFailedToSeed, entity, err)
}
