package postgres

// ============================================================================
// SQL - Reads
// ============================================================================

const (
	SQLSelectEvent = `
		SELECT event_id, code, name, is_active, start_date, end_date,
		       total_spins, remaining_spins, version
		FROM events WHERE event_id = $1`

	SQLSelectLocation = `
		SELECT location_id, event_id, code, name, province, daily_spin_limit,
		       remaining_spins_today, last_reset_date, is_active, version
		FROM event_locations WHERE location_id = $1`

	SQLSelectParticipant = `
		SELECT participant_id, event_id, location_id, name, phone, province,
		       remaining_spins, is_active, version
		FROM participants WHERE participant_id = $1`

	SQLSelectReward = `
		SELECT reward_id, event_id, code, name, quantity, remaining_quantity,
		       probability, points, provinces, is_active, version
		FROM rewards WHERE reward_id = $1`

	SQLSelectRewardsByEvent = `
		SELECT reward_id, event_id, code, name, quantity, remaining_quantity,
		       probability, points, provinces, is_active, version
		FROM rewards WHERE event_id = $1
		ORDER BY reward_id`

	SQLSelectActiveGoldenHours = `
		SELECT golden_hour_id, event_id, reward_id, name, start_time, end_time,
		       multiplier, is_active
		FROM golden_hours
		WHERE event_id = $1 AND is_active AND start_time <= $2 AND end_time > $2
		ORDER BY golden_hour_id`

	SQLSelectGoldenHoursByEvent = `
		SELECT golden_hour_id, event_id, reward_id, name, start_time, end_time,
		       multiplier, is_active
		FROM golden_hours
		WHERE event_id = $1 AND is_active
		ORDER BY golden_hour_id`
)

// ============================================================================
// SQL - Versioned counter updates
// ============================================================================

const (
	SQLUpdateEventCounter = `
		UPDATE events
		SET remaining_spins = $2, version = version + 1, updated_at = NOW()
		WHERE event_id = $1 AND version = $3`

	SQLUpdateLocationCounter = `
		UPDATE event_locations
		SET remaining_spins_today = $2, last_reset_date = $3, version = version + 1
		WHERE location_id = $1 AND version = $4`

	SQLUpdateParticipantCounter = `
		UPDATE participants
		SET remaining_spins = $2, version = version + 1
		WHERE participant_id = $1 AND version = $3`

	SQLUpdateRewardCounter = `
		UPDATE rewards
		SET remaining_quantity = $2, version = version + 1
		WHERE reward_id = $1 AND version = $3`
)

// ============================================================================
// SQL - Spin history
// ============================================================================

const (
	SQLInsertSpinHistory = `
		INSERT INTO spin_histories (
			event_id, location_id, participant_id, reward_id, won, result,
			points_earned, multiplier, golden_hour, remaining_spins, spin_time
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING spin_id`

	spinHistoryColumns = `
		spin_id, event_id, location_id, participant_id, reward_id, won, result,
		points_earned, multiplier, golden_hour, remaining_spins, spin_time,
		finalized, finalized_at`

	SQLSelectSpin = `SELECT ` + spinHistoryColumns + ` FROM spin_histories WHERE spin_id = $1`

	SQLSelectLatestSpin = `SELECT ` + spinHistoryColumns + `
		FROM spin_histories WHERE participant_id = $1
		ORDER BY spin_time DESC, spin_id DESC LIMIT 1`

	SQLSelectSpins = `SELECT ` + spinHistoryColumns + `
		FROM spin_histories WHERE participant_id = $1
		ORDER BY spin_time DESC, spin_id DESC LIMIT $2`

	SQLSelectSpinStatistics = `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE won),
		       COALESCE(SUM(points_earned), 0),
		       COUNT(*) FILTER (WHERE won AND NOT finalized)
		FROM spin_histories WHERE participant_id = $1`

	SQLFinalizeSpin = `
		UPDATE spin_histories SET finalized = TRUE, finalized_at = $2
		WHERE spin_id = $1 AND NOT finalized`

	SQLSpinExists = `SELECT EXISTS (SELECT 1 FROM spin_histories WHERE spin_id = $1)`
)

// ============================================================================
// SQL - Administration
// ============================================================================

const (
	SQLDeactivateExpiredEvents = `
		UPDATE events SET is_active = FALSE, version = version + 1, updated_at = NOW()
		WHERE is_active AND end_date < $1`
)
