package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/luckydraw/internal/domain"
	"github.com/osse101/luckydraw/internal/ledger"
	"github.com/osse101/luckydraw/internal/logger"
)

// querier is satisfied by both the pool and a transaction
type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// counterUpdate is one version-guarded UPDATE inside a commit
type counterUpdate struct {
	sql  string
	args []any
}

// SpinRepository implements repository.Spin for PostgreSQL
type SpinRepository struct {
	db *pgxpool.Pool
}

// NewSpinRepository creates a new SpinRepository
func NewSpinRepository(db *pgxpool.Pool) *SpinRepository {
	return &SpinRepository{db: db}
}

// ============================================================================
// Entity reads
// ============================================================================

func (r *SpinRepository) GetEvent(ctx context.Context, id int64) (*domain.Event, error) {
	return getEvent(ctx, r.db, id)
}

func (r *SpinRepository) GetLocation(ctx context.Context, id int64) (*domain.EventLocation, error) {
	return getLocation(ctx, r.db, id)
}

func (r *SpinRepository) GetParticipant(ctx context.Context, id int64) (*domain.Participant, error) {
	return getParticipant(ctx, r.db, id)
}

func (r *SpinRepository) GetRewardsByEvent(ctx context.Context, eventID int64) ([]domain.Reward, error) {
	rows, err := r.db.Query(ctx, SQLSelectRewardsByEvent, eventID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRewards, err)
	}
	defer rows.Close()

	var rewards []domain.Reward
	for rows.Next() {
		rw, err := scanReward(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRewards, err)
		}
		rewards = append(rewards, *rw)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetRewards, err)
	}
	return rewards, nil
}

func (r *SpinRepository) GetActiveGoldenHours(ctx context.Context, eventID int64, now time.Time) ([]domain.GoldenHour, error) {
	return r.queryGoldenHours(ctx, SQLSelectActiveGoldenHours, eventID, now)
}

func (r *SpinRepository) GetGoldenHoursByEvent(ctx context.Context, eventID int64) ([]domain.GoldenHour, error) {
	return r.queryGoldenHours(ctx, SQLSelectGoldenHoursByEvent, eventID)
}

func (r *SpinRepository) queryGoldenHours(ctx context.Context, query string, args ...interface{}) ([]domain.GoldenHour, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGoldenHours, err)
	}
	defer rows.Close()

	var hours []domain.GoldenHour
	for rows.Next() {
		var g domain.GoldenHour
		if err := rows.Scan(&g.ID, &g.EventID, &g.RewardID, &g.Name, &g.StartTime, &g.EndTime, &g.Multiplier, &g.Active); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGoldenHours, err)
		}
		hours = append(hours, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetGoldenHours, err)
	}
	return hours, nil
}

func (r *SpinRepository) GetRemainingSpinsToday(ctx context.Context, locationID int64, day time.Time) (int, error) {
	loc, err := getLocation(ctx, r.db, locationID)
	if err != nil {
		return 0, err
	}
	return ledger.RemainingToday(*loc, day), nil
}

// ============================================================================
// Commit
// ============================================================================

// AttemptCommit re-reads every counter inside one transaction and writes the
// decrements back guarded by each row's version. A zero row count on any
// guarded update rolls the whole transaction back as a conflict.
func (r *SpinRepository) AttemptCommit(ctx context.Context, req ledger.CommitRequest) (ledger.CommitResult, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return ledger.CommitResult{}, fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	snap, err := readSnapshot(ctx, tx, req)
	if err != nil {
		return ledger.CommitResult{}, err
	}

	ledger.ApplyDailyReset(&snap.Location, req.Day)
	if reason := ledger.Check(snap.Event, snap.Location, snap.Participant, snap.Reward); reason != ledger.ReasonNone {
		return ledger.NoCapacity(reason), nil
	}

	before := snap
	ledger.Apply(&snap)

	updates := []counterUpdate{
		{SQLUpdateEventCounter, []any{snap.Event.ID, snap.Event.RemainingSpins, before.Event.Version}},
		{SQLUpdateLocationCounter, []any{snap.Location.ID, snap.Location.RemainingSpinsToday, pgDate(snap.Location.LastResetDate), before.Location.Version}},
		{SQLUpdateParticipantCounter, []any{snap.Participant.ID, snap.Participant.RemainingSpins, before.Participant.Version}},
	}
	if snap.Reward != nil {
		updates = append(updates, counterUpdate{SQLUpdateRewardCounter, []any{snap.Reward.ID, snap.Reward.RemainingQuantity, before.Reward.Version}})
	}

	for _, u := range updates {
		tag, err := tx.Exec(ctx, u.sql, u.args...)
		if err != nil {
			return ledger.CommitResult{}, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateCounter, err)
		}
		if tag.RowsAffected() == 0 {
			logger.FromContext(ctx).Debug(LogMsgVersionConflict, "participant_id", req.ParticipantID)
			return ledger.Conflict(), nil
		}
	}

	history := ledger.NewHistory(req, snap)
	err = tx.QueryRow(ctx, SQLInsertSpinHistory,
		history.EventID, history.LocationID, history.ParticipantID, history.RewardID,
		history.Won, history.Result, history.PointsEarned, history.Multiplier,
		history.GoldenHour, history.RemainingSpins, history.SpinTime,
	).Scan(&history.ID)
	if err != nil {
		return ledger.CommitResult{}, fmt.Errorf("%s: %w", ErrMsgFailedToInsertSpin, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ledger.CommitResult{}, fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}

	return ledger.Committed(snap, &history), nil
}

func readSnapshot(ctx context.Context, tx pgx.Tx, req ledger.CommitRequest) (ledger.Snapshot, error) {
	var snap ledger.Snapshot

	event, err := getEvent(ctx, tx, req.EventID)
	if err != nil {
		return snap, err
	}
	loc, err := getLocation(ctx, tx, req.LocationID)
	if err != nil {
		return snap, err
	}
	participant, err := getParticipant(ctx, tx, req.ParticipantID)
	if err != nil {
		return snap, err
	}
	snap.Event, snap.Location, snap.Participant = *event, *loc, *participant

	if req.RewardID != nil {
		rw, err := scanReward(tx.QueryRow(ctx, SQLSelectReward, *req.RewardID))
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return snap, fmt.Errorf("reward %d: %w", *req.RewardID, domain.ErrRewardNotFound)
			}
			return snap, fmt.Errorf("%s: %w", ErrMsgFailedToGetRewards, err)
		}
		if rw.EventID != req.EventID {
			return snap, fmt.Errorf("reward %d: %w", *req.RewardID, domain.ErrRewardNotFound)
		}
		snap.Reward = rw
	}
	return snap, nil
}

// ============================================================================
// History
// ============================================================================

func (r *SpinRepository) GetSpin(ctx context.Context, id int64) (*domain.SpinHistory, error) {
	h, err := scanSpin(r.db.QueryRow(ctx, SQLSelectSpin, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("spin %d: %w", id, domain.ErrSpinNotFound)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSpin, err)
	}
	return h, nil
}

func (r *SpinRepository) GetLatestSpin(ctx context.Context, participantID int64) (*domain.SpinHistory, error) {
	h, err := scanSpin(r.db.QueryRow(ctx, SQLSelectLatestSpin, participantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("participant %d: %w", participantID, domain.ErrSpinNotFound)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSpin, err)
	}
	return h, nil
}

func (r *SpinRepository) ListSpins(ctx context.Context, participantID int64, limit int) ([]domain.SpinHistory, error) {
	rows, err := r.db.Query(ctx, SQLSelectSpins, participantID, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSpin, err)
	}
	defer rows.Close()

	spins := []domain.SpinHistory{}
	for rows.Next() {
		h, err := scanSpin(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSpin, err)
		}
		spins = append(spins, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetSpin, err)
	}
	return spins, nil
}

func (r *SpinRepository) GetSpinStatistics(ctx context.Context, participantID int64) (*domain.SpinStatistics, error) {
	p, err := getParticipant(ctx, r.db, participantID)
	if err != nil {
		return nil, err
	}

	stats := &domain.SpinStatistics{ParticipantID: participantID, RemainingSpins: p.RemainingSpins}
	err = r.db.QueryRow(ctx, SQLSelectSpinStatistics, participantID).
		Scan(&stats.TotalSpins, &stats.WinningSpins, &stats.TotalPoints, &stats.UnfinalizedWins)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetStatistics, err)
	}
	if stats.TotalSpins > 0 {
		stats.WinRate = float64(stats.WinningSpins) / float64(stats.TotalSpins)
	}
	return stats, nil
}

func (r *SpinRepository) FinalizeSpin(ctx context.Context, id int64, at time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, SQLFinalizeSpin, id, at)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToFinalizeSpin, err)
	}
	if tag.RowsAffected() == 1 {
		return true, nil
	}

	var exists bool
	if err := r.db.QueryRow(ctx, SQLSpinExists, id).Scan(&exists); err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgFailedToFinalizeSpin, err)
	}
	if !exists {
		return false, fmt.Errorf("spin %d: %w", id, domain.ErrSpinNotFound)
	}
	return false, nil
}

// DeactivateExpiredEvents implements repository.EventAdmin
func (r *SpinRepository) DeactivateExpiredEvents(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, SQLDeactivateExpiredEvents, now)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToExpireEvents, err)
	}
	return tag.RowsAffected(), nil
}

// ============================================================================
// Scanning helpers
// ============================================================================

func getEvent(ctx context.Context, q querier, id int64) (*domain.Event, error) {
	var e domain.Event
	err := q.QueryRow(ctx, SQLSelectEvent, id).Scan(
		&e.ID, &e.Code, &e.Name, &e.Active, &e.StartDate, &e.EndDate,
		&e.TotalSpins, &e.RemainingSpins, &e.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("event %d: %w", id, domain.ErrEventNotFound)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetEvent, err)
	}
	return &e, nil
}

func getLocation(ctx context.Context, q querier, id int64) (*domain.EventLocation, error) {
	var l domain.EventLocation
	var lastReset pgtype.Date
	err := q.QueryRow(ctx, SQLSelectLocation, id).Scan(
		&l.ID, &l.EventID, &l.Code, &l.Name, &l.Province, &l.DailySpinLimit,
		&l.RemainingSpinsToday, &lastReset, &l.Active, &l.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("location %d: %w", id, domain.ErrLocationNotFound)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetLocation, err)
	}
	if lastReset.Valid {
		l.LastResetDate = lastReset.Time
	}
	return &l, nil
}

func getParticipant(ctx context.Context, q querier, id int64) (*domain.Participant, error) {
	var p domain.Participant
	var locationID pgtype.Int8
	err := q.QueryRow(ctx, SQLSelectParticipant, id).Scan(
		&p.ID, &p.EventID, &locationID, &p.Name, &p.Phone, &p.Province,
		&p.RemainingSpins, &p.Active, &p.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("participant %d: %w", id, domain.ErrParticipantNotFound)
		}
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetParticipant, err)
	}
	if locationID.Valid {
		p.LocationID = locationID.Int64
	}
	return &p, nil
}

func scanReward(row pgx.Row) (*domain.Reward, error) {
	var rw domain.Reward
	err := row.Scan(
		&rw.ID, &rw.EventID, &rw.Code, &rw.Name, &rw.Quantity, &rw.RemainingQuantity,
		&rw.Probability, &rw.Points, &rw.Provinces, &rw.Active, &rw.Version,
	)
	if err != nil {
		return nil, err
	}
	return &rw, nil
}

func scanSpin(row pgx.Row) (*domain.SpinHistory, error) {
	var h domain.SpinHistory
	err := row.Scan(
		&h.ID, &h.EventID, &h.LocationID, &h.ParticipantID, &h.RewardID, &h.Won, &h.Result,
		&h.PointsEarned, &h.Multiplier, &h.GoldenHour, &h.RemainingSpins, &h.SpinTime,
		&h.Finalized, &h.FinalizedAt,
	)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func pgDate(t time.Time) pgtype.Date {
	if t.IsZero() {
		return pgtype.Date{}
	}
	return pgtype.Date{Time: ledger.CalendarDate(t), Valid: true}
}
