package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/brandish-progression/internal/domain"
)

// ---- Level states ----

func (s *Store) GetLevelState(ctx context.Context, playerID string) (*domain.PlayerLevelState, error) {
	var st domain.PlayerLevelState
	err := s.db(ctx).QueryRow(ctx, `
		SELECT player_id, current_level, current_experience_in_level, total_experience_earned,
		       level_progress_percent, last_level_up_at, highest_level_ever_reached, created_at, updated_at
		FROM player_levels WHERE player_id = $1`, playerID).Scan(
		&st.PlayerID, &st.CurrentLevel, &st.CurrentExperienceInLevel, &st.TotalExperienceEarned,
		&st.LevelProgressPercent, &st.LastLevelUpAt, &st.HighestLevelEverReached, &st.CreatedAt, &st.UpdatedAt)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityLevelState, err)
	}
	return &st, nil
}

func (s *Store) UpsertLevelState(ctx context.Context, st *domain.PlayerLevelState) error {
	_, err := s.db(ctx).Exec(ctx, `
		INSERT INTO player_levels (player_id, current_level, current_experience_in_level, total_experience_earned,
		                           level_progress_percent, last_level_up_at, highest_level_ever_reached, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_id) DO UPDATE SET
			current_level = EXCLUDED.current_level,
			current_experience_in_level = EXCLUDED.current_experience_in_level,
			total_experience_earned = EXCLUDED.total_experience_earned,
			level_progress_percent = EXCLUDED.level_progress_percent,
			last_level_up_at = EXCLUDED.last_level_up_at,
			highest_level_ever_reached = EXCLUDED.highest_level_ever_reached,
			updated_at = EXCLUDED.updated_at`,
		st.PlayerID, st.CurrentLevel, st.CurrentExperienceInLevel, st.TotalExperienceEarned,
		st.LevelProgressPercent, st.LastLevelUpAt, st.HighestLevelEverReached, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entityLevelState, err)
	}
	return nil
}

// ---- Daily rewards ----

func (s *Store) GetDailyState(ctx context.Context, playerID string) (*domain.DailyRewardState, error) {
	var st domain.DailyRewardState
	err := s.db(ctx).QueryRow(ctx, `
		SELECT player_id, current_streak, longest_streak, last_claim_date, total_claims,
		       monthly_claim_log, created_at, updated_at
		FROM daily_reward_states WHERE player_id = $1`, playerID).Scan(
		&st.PlayerID, &st.CurrentStreak, &st.LongestStreak, &st.LastClaimDate, &st.TotalClaims,
		&st.MonthlyClaimLog, &st.CreatedAt, &st.UpdatedAt)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityDailyState, err)
	}
	return &st, nil
}

func (s *Store) UpsertDailyState(ctx context.Context, st *domain.DailyRewardState) error {
	claimLog := st.MonthlyClaimLog
	if claimLog == nil {
		claimLog = []time.Time{}
	}
	_, err := s.db(ctx).Exec(ctx, `
		INSERT INTO daily_reward_states (player_id, current_streak, longest_streak, last_claim_date, total_claims,
		                                 monthly_claim_log, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (player_id) DO UPDATE SET
			current_streak = EXCLUDED.current_streak,
			longest_streak = EXCLUDED.longest_streak,
			last_claim_date = EXCLUDED.last_claim_date,
			total_claims = EXCLUDED.total_claims,
			monthly_claim_log = EXCLUDED.monthly_claim_log,
			updated_at = EXCLUDED.updated_at`,
		st.PlayerID, st.CurrentStreak, st.LongestStreak, st.LastClaimDate, st.TotalClaims,
		claimLog, st.CreatedAt, st.UpdatedAt)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entityDailyState, err)
	}
	return nil
}

// ---- Badges ----

const playerBadgeColumns = `player_id, badge_id, progress_percent, earned_at`

func (s *Store) GetPlayerBadge(ctx context.Context, playerID, badgeID string) (*domain.PlayerBadge, error) {
	var pb domain.PlayerBadge
	err := s.db(ctx).QueryRow(ctx, `SELECT `+playerBadgeColumns+`
		FROM player_badges WHERE player_id = $1 AND badge_id = $2`, playerID, badgeID).Scan(
		&pb.PlayerID, &pb.BadgeID, &pb.ProgressPercent, &pb.EarnedAt)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityPlayerBadge, err)
	}
	return &pb, nil
}

func (s *Store) ListPlayerBadges(ctx context.Context, playerID string) ([]domain.PlayerBadge, error) {
	rows, err := s.db(ctx).Query(ctx, `SELECT `+playerBadgeColumns+`
		FROM player_badges WHERE player_id = $1 ORDER BY badge_id`, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityPlayerBadge, err)
	}
	defer rows.Close()

	var out []domain.PlayerBadge
	for rows.Next() {
		var pb domain.PlayerBadge
		if err := rows.Scan(&pb.PlayerID, &pb.BadgeID, &pb.ProgressPercent, &pb.EarnedAt); err != nil {
			return nil, fmt.Errorf(ErrMsgScan, entityPlayerBadge, err)
		}
		out = append(out, pb)
	}
	return out, rows.Err()
}

func (s *Store) UpsertBadgeProgress(ctx context.Context, pb *domain.PlayerBadge) error {
	_, err := s.db(ctx).Exec(ctx, `
		INSERT INTO player_badges (player_id, badge_id, progress_percent)
		VALUES ($1, $2, $3)
		ON CONFLICT (player_id, badge_id) DO UPDATE SET progress_percent = EXCLUDED.progress_percent
		WHERE player_badges.earned_at IS NULL`,
		pb.PlayerID, pb.BadgeID, pb.ProgressPercent)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entityPlayerBadge, err)
	}
	return nil
}

func (s *Store) MarkBadgeEarned(ctx context.Context, playerID, badgeID string, at time.Time) (bool, error) {
	tag, err := s.db(ctx).Exec(ctx, `
		INSERT INTO player_badges (player_id, badge_id, progress_percent, earned_at)
		VALUES ($1, $2, 100, $3)
		ON CONFLICT (player_id, badge_id) DO UPDATE SET progress_percent = 100, earned_at = EXCLUDED.earned_at
		WHERE player_badges.earned_at IS NULL`,
		playerID, badgeID, at)
	if err != nil {
		return false, fmt.Errorf(ErrMsgWrite, entityPlayerBadge, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) IncrementBadgeEarned(ctx context.Context, badgeID, playerID string, at time.Time) error {
	_, err := s.db(ctx).Exec(ctx, `
		UPDATE catalog_badges SET
			total_earned_count = total_earned_count + 1,
			first_earned_by = COALESCE(first_earned_by, $2),
			first_earned_at = COALESCE(first_earned_at, $3)
		WHERE badge_id = $1`,
		badgeID, playerID, at)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entityBadgeCounter, err)
	}
	return nil
}

// ---- Inventory ----

const slotColumns = `player_id, item_id, quantity, acquired_at, last_used_at`

func (s *Store) GetSlot(ctx context.Context, playerID, itemID string) (*domain.InventorySlot, error) {
	var slot domain.InventorySlot
	err := s.db(ctx).QueryRow(ctx, `SELECT `+slotColumns+`
		FROM inventory_slots WHERE player_id = $1 AND item_id = $2`, playerID, itemID).Scan(
		&slot.PlayerID, &slot.ItemID, &slot.Quantity, &slot.AcquiredAt, &slot.LastUsedAt)
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entitySlot, err)
	}
	return &slot, nil
}

func (s *Store) ListSlots(ctx context.Context, playerID string) ([]domain.InventorySlot, error) {
	rows, err := s.db(ctx).Query(ctx, `SELECT `+slotColumns+`
		FROM inventory_slots WHERE player_id = $1 ORDER BY item_id`, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entitySlot, err)
	}
	defer rows.Close()

	var out []domain.InventorySlot
	for rows.Next() {
		var slot domain.InventorySlot
		if err := rows.Scan(&slot.PlayerID, &slot.ItemID, &slot.Quantity, &slot.AcquiredAt, &slot.LastUsedAt); err != nil {
			return nil, fmt.Errorf(ErrMsgScan, entitySlot, err)
		}
		out = append(out, slot)
	}
	return out, rows.Err()
}

func (s *Store) UpsertSlot(ctx context.Context, slot *domain.InventorySlot) error {
	_, err := s.db(ctx).Exec(ctx, `
		INSERT INTO inventory_slots (`+slotColumns+`)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (player_id, item_id) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			last_used_at = EXCLUDED.last_used_at`,
		slot.PlayerID, slot.ItemID, slot.Quantity, slot.AcquiredAt, slot.LastUsedAt)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entitySlot, err)
	}
	return nil
}

func (s *Store) DeleteSlot(ctx context.Context, playerID, itemID string) error {
	_, err := s.db(ctx).Exec(ctx, `DELETE FROM inventory_slots WHERE player_id = $1 AND item_id = $2`, playerID, itemID)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entitySlot, err)
	}
	return nil
}
