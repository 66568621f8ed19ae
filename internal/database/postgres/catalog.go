package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/osse101/brandish-progression/internal/domain"
)

// Catalog definitions keep their typed variants (effects, requirement,
// rewards) in JSONB columns using the domain's spec encodings.

// ---- Items ----

const itemColumns = `item_id, name, description, item_type, rarity, max_stack_size, consumable, effects`

func scanItem(row pgx.Row) (*domain.Item, error) {
	var it domain.Item
	var itemType, rarity string
	var effects []byte
	if err := row.Scan(&it.ID, &it.Name, &it.Description, &itemType, &rarity, &it.MaxStackSize, &it.Consumable, &effects); err != nil {
		return nil, err
	}
	it.Type = domain.ItemType(itemType)
	it.Rarity = domain.Rarity(rarity)
	if err := json.Unmarshal(effects, &it.Effects); err != nil {
		return nil, fmt.Errorf(ErrMsgDecode, entityItem, err)
	}
	return &it, nil
}

func (s *Store) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	it, err := scanItem(s.db(ctx).QueryRow(ctx, `SELECT `+itemColumns+` FROM catalog_items WHERE item_id = $1`, itemID))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityItem, err)
	}
	return it, nil
}

func (s *Store) ListItems(ctx context.Context) ([]domain.Item, error) {
	rows, err := s.db(ctx).Query(ctx, `SELECT `+itemColumns+` FROM catalog_items ORDER BY item_id`)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityItem, err)
	}
	defer rows.Close()

	var out []domain.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgScan, entityItem, err)
		}
		out = append(out, *it)
	}
	return out, rows.Err()
}

func (s *Store) UpsertItem(ctx context.Context, it *domain.Item) error {
	effects, err := json.Marshal(it.Effects)
	if err != nil {
		return fmt.Errorf(ErrMsgEncode, entityItem, err)
	}
	_, err = s.db(ctx).Exec(ctx, `
		INSERT INTO catalog_items (`+itemColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (item_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			item_type = EXCLUDED.item_type,
			rarity = EXCLUDED.rarity,
			max_stack_size = EXCLUDED.max_stack_size,
			consumable = EXCLUDED.consumable,
			effects = EXCLUDED.effects`,
		it.ID, it.Name, it.Description, string(it.Type), string(it.Rarity), it.MaxStackSize, it.Consumable, effects)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entityItem, err)
	}
	return nil
}

// ---- Badges ----

const badgeColumns = `badge_id, name, description, category, rarity, requirement_type, requirement, reward,
	total_earned_count, first_earned_by, first_earned_at`

func scanBadge(row pgx.Row) (*domain.Badge, error) {
	var b domain.Badge
	var rarity, reqType string
	var req, reward []byte
	if err := row.Scan(&b.ID, &b.Name, &b.Description, &b.Category, &rarity, &reqType, &req, &reward,
		&b.TotalEarnedCount, &b.FirstEarnedBy, &b.FirstEarnedAt); err != nil {
		return nil, err
	}
	b.Rarity = domain.Rarity(rarity)

	requirement, err := domain.DecodeRequirement(domain.RequirementType(reqType), req)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDecode, entityBadge, err)
	}
	b.Requirement = requirement

	if len(reward) > 0 {
		var spec domain.RewardSpec
		if err := json.Unmarshal(reward, &spec); err != nil {
			return nil, fmt.Errorf(ErrMsgDecode, entityBadge, err)
		}
		if b.Reward, err = spec.Reward(); err != nil {
			return nil, fmt.Errorf(ErrMsgDecode, entityBadge, err)
		}
	}
	return &b, nil
}

func (s *Store) GetBadge(ctx context.Context, badgeID string) (*domain.Badge, error) {
	b, err := scanBadge(s.db(ctx).QueryRow(ctx, `SELECT `+badgeColumns+` FROM catalog_badges WHERE badge_id = $1`, badgeID))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityBadge, err)
	}
	return b, nil
}

func (s *Store) ListBadges(ctx context.Context) ([]domain.Badge, error) {
	rows, err := s.db(ctx).Query(ctx, `SELECT `+badgeColumns+` FROM catalog_badges ORDER BY badge_id`)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityBadge, err)
	}
	defer rows.Close()

	var out []domain.Badge
	for rows.Next() {
		b, err := scanBadge(rows)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgScan, entityBadge, err)
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

// UpsertBadge replaces the definition and keeps the earned counters
func (s *Store) UpsertBadge(ctx context.Context, b *domain.Badge) error {
	reqType, req, err := domain.EncodeRequirement(b.Requirement)
	if err != nil {
		return fmt.Errorf(ErrMsgEncode, entityBadge, err)
	}
	var reward []byte
	if b.Reward != nil {
		if reward, err = json.Marshal(domain.SpecFor(b.Reward)); err != nil {
			return fmt.Errorf(ErrMsgEncode, entityBadge, err)
		}
	}
	_, err = s.db(ctx).Exec(ctx, `
		INSERT INTO catalog_badges (badge_id, name, description, category, rarity, requirement_type, requirement, reward)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (badge_id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			category = EXCLUDED.category,
			rarity = EXCLUDED.rarity,
			requirement_type = EXCLUDED.requirement_type,
			requirement = EXCLUDED.requirement,
			reward = EXCLUDED.reward`,
		b.ID, b.Name, b.Description, b.Category, string(b.Rarity), string(reqType), []byte(req), reward)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entityBadge, err)
	}
	return nil
}

// ---- Daily rewards ----

func scanDailyReward(row pgx.Row) (*domain.DailyReward, error) {
	var r domain.DailyReward
	var raw []byte
	if err := row.Scan(&r.Day, &r.Description, &raw); err != nil {
		return nil, err
	}
	var specs []domain.RewardSpec
	if err := json.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf(ErrMsgDecode, entityDailyReward, err)
	}
	rewards, err := domain.RewardsFromSpecs(specs)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgDecode, entityDailyReward, err)
	}
	r.Rewards = rewards
	return &r, nil
}

func (s *Store) GetDailyReward(ctx context.Context, day int) (*domain.DailyReward, error) {
	r, err := scanDailyReward(s.db(ctx).QueryRow(ctx, `
		SELECT day, description, rewards FROM catalog_daily_rewards WHERE day = $1`, day))
	if notFound(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityDailyReward, err)
	}
	return r, nil
}

func (s *Store) ListDailyRewards(ctx context.Context) ([]domain.DailyReward, error) {
	rows, err := s.db(ctx).Query(ctx, `SELECT day, description, rewards FROM catalog_daily_rewards ORDER BY day`)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgQuery, entityDailyReward, err)
	}
	defer rows.Close()

	var out []domain.DailyReward
	for rows.Next() {
		r, err := scanDailyReward(rows)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgScan, entityDailyReward, err)
		}
		out = append(out, *r)
	}
	return out, rows.Err()
}

func (s *Store) UpsertDailyReward(ctx context.Context, r *domain.DailyReward) error {
	rewards, err := json.Marshal(domain.SpecsFor(r.Rewards))
	if err != nil {
		return fmt.Errorf(ErrMsgEncode, entityDailyReward, err)
	}
	_, err = s.db(ctx).Exec(ctx, `
		INSERT INTO catalog_daily_rewards (day, description, rewards)
		VALUES ($1, $2, $3)
		ON CONFLICT (day) DO UPDATE SET description = EXCLUDED.description, rewards = EXCLUDED.rewards`,
		r.Day, r.Description, rewards)
	if err != nil {
		return fmt.Errorf(ErrMsgWrite, entityDailyReward, err)
	}
	return nil
}
