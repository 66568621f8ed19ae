package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/database/memory"
	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/levelcurve"
)

const minimalJSON = `{
  "version": "2",
  "items": [
    {"id": "potion", "name": "Potion", "type": "consumable", "max_stack_size": 10,
     "effects": {"instant_exp": 20}},
    {"id": "boost", "name": "Boost", "type": "boost", "max_stack_size": 3,
     "effects": {"exp_boost": 10, "duration": "1h30m"}}
  ],
  "badges": [
    {"id": "mathlete", "name": "Mathlete", "requirement": {"type": "subject_mastery", "value": {"subject": "math", "count": 5}},
     "reward": {"type": "item", "item_id": "potion", "quantity": 2}}
  ],
  "daily_rewards": [
    {"day": 2, "rewards": [{"type": "currency", "amount": 70}]}
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefault_BuildsWithLevelBadges(t *testing.T) {
	l := NewLoader()
	cfg, err := l.LoadDefault()
	require.NoError(t, err)

	defs, err := l.Build(cfg)
	require.NoError(t, err)

	ids := make(map[string]domain.Badge, len(defs.Badges))
	for _, b := range defs.Badges {
		ids[b.ID] = b
	}
	for level := 10; level <= levelcurve.MaxLevel; level += 10 {
		b, ok := ids[levelcurve.LevelBadgeID(level)]
		require.True(t, ok, "missing level badge %d", level)
		assert.Equal(t, domain.LevelRequirement{Level: level}, b.Requirement)
	}
	assert.Contains(t, ids, "monthly_devotee")

	var chest *domain.Item
	for i := range defs.Items {
		if defs.Items[i].ID == domain.ItemLevelChest {
			chest = &defs.Items[i]
		}
	}
	require.NotNil(t, chest)
	assert.True(t, chest.Usable())
}

func TestLoad_JSONFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.json", minimalJSON)

	l := NewLoader()
	cfg, err := l.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "2", cfg.Version)

	defs, err := l.Build(cfg)
	require.NoError(t, err)
	require.Len(t, defs.Items, 2)
	assert.Equal(t, 90*time.Minute, defs.Items[1].Effects.Duration)
	assert.True(t, defs.Items[0].Consumable)

	assert.Equal(t, domain.SubjectMasteryRequirement{Subject: "math", Count: 5}, defs.Badges[0].Requirement)
	assert.Equal(t, domain.ItemReward{ItemID: "potion", Quantity: 2}, defs.Badges[0].Reward)

	require.Len(t, defs.DailyRewards, 1)
	assert.Equal(t, []domain.Reward{domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: 70}}, defs.DailyRewards[0].Rewards)
}

func TestLoad_DirectoryMergesYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "01-items.yaml", `
version: "1"
items:
  - {id: gem, name: Gem, type: equipment, max_stack_size: 1}
`)
	writeFile(t, dir, "02-badges.yml", `
version: "3"
badges:
  - id: streaker
    name: Streaker
    requirement: {type: streak, value: 3}
    reward: {type: item, item_id: gem}
`)
	writeFile(t, dir, "README.md", "ignored")

	l := NewLoader()
	cfg, err := l.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "3", cfg.Version)
	require.Len(t, cfg.Items, 1)
	require.Len(t, cfg.Badges, 1)
	require.NoError(t, l.Validate(cfg))
}

func TestLoad_SchemaRejectsUnknownField(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.json", `{"version": "1", "items": [{"id": "x", "name": "X", "type": "boost", "max_stack_size": 1, "colour": "red"}]}`)

	_, err := NewLoader().Load(path)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLoad_UnsupportedExtension(t *testing.T) {
	path := writeFile(t, t.TempDir(), "catalog.toml", "version = 1")
	_, err := NewLoader().Load(path)
	assert.ErrorIs(t, err, ErrInvalidCatalog)
}

func TestBuild_Rejections(t *testing.T) {
	item := ItemConfig{ID: "a", Name: "A", Type: "consumable", MaxStackSize: 1}
	tests := []struct {
		name    string
		cfg     *Config
		wantErr error
	}{
		{
			name:    "duplicate item",
			cfg:     &Config{Items: []ItemConfig{item, item}},
			wantErr: ErrDuplicateID,
		},
		{
			name:    "zero stack size",
			cfg:     &Config{Items: []ItemConfig{{ID: "a", Name: "A", Type: "boost"}}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "boost without duration",
			cfg: &Config{Items: []ItemConfig{{ID: "a", Name: "A", Type: "boost", MaxStackSize: 1,
				Effects: EffectsConfig{ExpBoost: 10}}}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "unknown requirement",
			cfg: &Config{Badges: []BadgeConfig{{ID: "b", Name: "B",
				Requirement: RequirementConfig{Type: "karma", Value: []byte("3")}}}},
			wantErr: domain.ErrValidation,
		},
		{
			name: "zero threshold",
			cfg: &Config{Badges: []BadgeConfig{{ID: "b", Name: "B",
				Requirement: RequirementConfig{Type: domain.RequirementStreak, Value: []byte("0")}}}},
			wantErr: ErrInvalidCatalog,
		},
		{
			name: "reward references missing item",
			cfg: &Config{Badges: []BadgeConfig{{ID: "b", Name: "B",
				Requirement: RequirementConfig{Type: domain.RequirementStreak, Value: []byte("3")},
				Reward:      &domain.RewardSpec{Type: domain.RewardKindItem, ItemID: "ghost"}}}},
			wantErr: ErrUnknownReference,
		},
		{
			name: "duplicate daily day",
			cfg: &Config{DailyRewards: []DailyRewardConfig{
				{Day: 1, Rewards: []domain.RewardSpec{{Type: domain.RewardKindExperience, Amount: 1}}},
				{Day: 1, Rewards: []domain.RewardSpec{{Type: domain.RewardKindExperience, Amount: 2}}},
			}},
			wantErr: ErrDuplicateID,
		},
	}

	l := NewLoader()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.Build(tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestBuild_CatalogLevelBadgeOverridesGenerated(t *testing.T) {
	cfg := &Config{Badges: []BadgeConfig{{
		ID: "level_10", Name: "Double Digits",
		Requirement: RequirementConfig{Type: domain.RequirementLevel, Value: []byte("10")},
	}}}
	defs, err := NewLoader().Build(cfg)
	require.NoError(t, err)

	count := 0
	for _, b := range defs.Badges {
		if b.ID == "level_10" {
			count++
			assert.Equal(t, "Double Digits", b.Name)
		}
	}
	assert.Equal(t, 1, count)
	assert.Len(t, defs.Badges, levelcurve.MaxLevel/levelcurve.BadgeRewardInterval)
}

func TestSync_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	l := NewLoader()
	cfg, err := l.LoadDefault()
	require.NoError(t, err)

	first, err := l.Sync(ctx, cfg, store)
	require.NoError(t, err)
	assert.Positive(t, first.ItemsUpserted)

	earnedAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.IncrementBadgeEarned(ctx, "monthly_devotee", "p1", earnedAt))

	second, err := l.Sync(ctx, cfg, store)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	badge, err := store.GetBadge(ctx, "monthly_devotee")
	require.NoError(t, err)
	require.NotNil(t, badge)
	assert.Equal(t, 1, badge.TotalEarnedCount)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Len(t, items, first.ItemsUpserted)
}

func TestSync_InvalidCatalogWritesNothing(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cfg := &Config{Items: []ItemConfig{{ID: "a", Name: "A", Type: "wand", MaxStackSize: 1}}}

	_, err := NewLoader().Sync(ctx, cfg, store)
	require.ErrorIs(t, err, ErrInvalidCatalog)

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}
