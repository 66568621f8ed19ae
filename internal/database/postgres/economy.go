package postgres

import (
	"context"
	"fmt"

	"github.com/osse101/brandish-progression/internal/domain"
)

// ---- Wallets and titles ----

func (s *Store) GetWallet(ctx context.Context, playerID string) (*domain.Wallet, error) {
	w := &domain.Wallet{PlayerID: playerID}
	err := s.db(ctx).QueryRow(ctx, `SELECT gold, gems, updated_at FROM wallets WHERE player_id = $1`, playerID).
		Scan(&w.Gold, &w.Gems, &w.UpdatedAt)
	if notFound(err) {
		return w, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityWallet, err)
	}
	return w, nil
}

// Credit adds amount to one currency in a single upsert so concurrent credits
// never lose an update.
func (s *Store) Credit(ctx context.Context, playerID string, currency domain.Currency, amount int64) (*domain.Wallet, error) {
	var gold, gems int64
	if currency == domain.CurrencyGems {
		gems = amount
	} else {
		gold = amount
	}
	w := &domain.Wallet{PlayerID: playerID}
	err := s.db(ctx).QueryRow(ctx, `
		INSERT INTO wallets (player_id, gold, gems, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (player_id) DO UPDATE SET
			gold = wallets.gold + EXCLUDED.gold,
			gems = wallets.gems + EXCLUDED.gems,
			updated_at = NOW()
		RETURNING gold, gems, updated_at`,
		playerID, gold, gems).Scan(&w.Gold, &w.Gems, &w.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgWrite, entityWallet, err)
	}
	return w, nil
}

func (s *Store) AddTitle(ctx context.Context, playerID, title string) (bool, error) {
	tag, err := s.db(ctx).Exec(ctx, `
		INSERT INTO player_titles (player_id, title, unlocked_at)
		VALUES ($1, $2, clock_timestamp())
		ON CONFLICT (player_id, title) DO NOTHING`,
		playerID, title)
	if err != nil {
		return false, fmt.Errorf(ErrMsgWrite, entityTitle, err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *Store) ListTitles(ctx context.Context, playerID string) ([]string, error) {
	rows, err := s.db(ctx).Query(ctx, `
		SELECT title FROM player_titles WHERE player_id = $1 ORDER BY unlocked_at, title`, playerID)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityTitle, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var title string
		if err := rows.Scan(&title); err != nil {
			return nil, fmt.Errorf(ErrMsgScan, entityTitle, err)
		}
		out = append(out, title)
	}
	return out, rows.Err()
}

// ---- Stats ----

func (s *Store) GetStats(ctx context.Context, playerID string) (*domain.PlayerStats, error) {
	st := &domain.PlayerStats{PlayerID: playerID, SubjectCounts: map[string]int{}}
	err := s.db(ctx).QueryRow(ctx, `
		SELECT quests_completed, perfect_scores, subject_counts, updated_at
		FROM player_stats WHERE player_id = $1`, playerID).
		Scan(&st.QuestsCompleted, &st.PerfectScores, &st.SubjectCounts, &st.UpdatedAt)
	if notFound(err) {
		return st, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityStats, err)
	}
	return st, nil
}

// RecordQuest bumps the counters in place; the subject counter is a key of
// the subject_counts document.
func (s *Store) RecordQuest(ctx context.Context, playerID, subject string, perfect bool) (*domain.PlayerStats, error) {
	perfectInc := 0
	if perfect {
		perfectInc = 1
	}
	st := &domain.PlayerStats{PlayerID: playerID}
	err := s.db(ctx).QueryRow(ctx, `
		INSERT INTO player_stats (player_id, quests_completed, perfect_scores, subject_counts, updated_at)
		VALUES ($1, 1, $2,
		        CASE WHEN $3::text = '' THEN '{}'::jsonb ELSE jsonb_build_object($3::text, 1) END,
		        NOW())
		ON CONFLICT (player_id) DO UPDATE SET
			quests_completed = player_stats.quests_completed + 1,
			perfect_scores = player_stats.perfect_scores + EXCLUDED.perfect_scores,
			subject_counts = CASE WHEN $3::text = '' THEN player_stats.subject_counts
				ELSE jsonb_set(player_stats.subject_counts, ARRAY[$3::text],
					to_jsonb(COALESCE((player_stats.subject_counts ->> $3::text)::int, 0) + 1))
				END,
			updated_at = NOW()
		RETURNING quests_completed, perfect_scores, subject_counts, updated_at`,
		playerID, perfectInc, subject).
		Scan(&st.QuestsCompleted, &st.PerfectScores, &st.SubjectCounts, &st.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgWrite, entityStats, err)
	}
	if st.SubjectCounts == nil {
		st.SubjectCounts = map[string]int{}
	}
	return st, nil
}

// ---- Reward history ----

func (s *Store) AppendRewardHistory(ctx context.Context, e *domain.RewardHistoryEntry) error {
	_, err := s.db(ctx).Exec(ctx, `
		INSERT INTO reward_history (id, player_id, reward_type, reward_value, source_type, source_id, applied_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		e.ID, e.PlayerID, string(e.RewardType), e.RewardValue, e.SourceType, e.SourceID, e.AppliedAt)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entityHistory, err)
	}
	return nil
}

func (s *Store) HasRewardFromSource(ctx context.Context, playerID string, kind domain.RewardKind, source domain.Source) (bool, error) {
	var found bool
	err := s.db(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM reward_history
			WHERE player_id = $1 AND reward_type = $2 AND source_type = $3 AND source_id = $4
		)`, playerID, string(kind), source.Type, source.ID).Scan(&found)
	if err != nil {
		return false, fmt.Errorf(ErrMsgQuery, entityHistory, err)
	}
	return found, nil
}

func (s *Store) ListRewardHistory(ctx context.Context, playerID string, limit int) ([]domain.RewardHistoryEntry, error) {
	var limitArg *int
	if limit > 0 {
		limitArg = &limit
	}
	rows, err := s.db(ctx).Query(ctx, `
		SELECT id, player_id, reward_type, reward_value, source_type, source_id, applied_at
		FROM reward_history WHERE player_id = $1
		ORDER BY seq DESC
		LIMIT $2`, playerID, limitArg)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityHistory, err)
	}
	defer rows.Close()

	var out []domain.RewardHistoryEntry
	for rows.Next() {
		var e domain.RewardHistoryEntry
		var kind string
		if err := rows.Scan(&e.ID, &e.PlayerID, &kind, &e.RewardValue, &e.SourceType, &e.SourceID, &e.AppliedAt); err != nil {
			return nil, fmt.Errorf(ErrMsgScan, entityHistory, err)
		}
		e.RewardType = domain.RewardKind(kind)
		out = append(out, e)
	}
	return out, rows.Err()
}
