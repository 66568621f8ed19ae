package catalog

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/osse101/brandish-progression/internal/domain"
	"github.com/osse101/brandish-progression/internal/levelcurve"
	"github.com/osse101/brandish-progression/internal/logger"
	"github.com/osse101/brandish-progression/internal/repository"
	"github.com/osse101/brandish-progression/internal/validation"
)

var (
	ErrInvalidCatalog   = fmt.Errorf("%w: invalid catalog", domain.ErrValidation)
	ErrDuplicateID      = fmt.Errorf("%w: duplicate id", ErrInvalidCatalog)
	ErrUnknownReference = fmt.Errorf("%w: unknown reference", ErrInvalidCatalog)
)

//go:embed default.yaml
var embedded embed.FS

const defaultCatalogFile = "default.yaml"

// Repository is the store a catalog syncs into
type Repository interface {
	repository.TxRunner
	repository.Catalog
}

// Loader reads, validates and syncs catalog documents
type Loader interface {
	Load(path string) (*Config, error)
	LoadDefault() (*Config, error)
	Validate(cfg *Config) error
	Build(cfg *Config) (*Definitions, error)
	Sync(ctx context.Context, cfg *Config, repo Repository) (*SyncResult, error)
}

type loader struct {
	schemas validation.SchemaValidator
}

// NewLoader creates a catalog loader
func NewLoader() Loader {
	return &loader{schemas: validation.NewSchemaValidator()}
}

// Load reads a catalog file, or every .json/.yaml/.yml file in a directory
// merged in name order.
func (l *loader) Load(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadFile, path, err)
	}
	if !info.IsDir() {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgReadFile, path, err)
		}
		return l.parse(path, data)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgReadDir, path, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ExtJSON, ExtYAML, ExtYML:
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	merged := &Config{}
	for _, name := range names {
		file := filepath.Join(path, name)
		data, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgReadFile, file, err)
		}
		cfg, err := l.parse(file, data)
		if err != nil {
			return nil, err
		}
		merged.merge(cfg)
	}
	return merged, nil
}

// LoadDefault returns the catalog compiled into the binary
func (l *loader) LoadDefault() (*Config, error) {
	data, err := embedded.ReadFile(defaultCatalogFile)
	if err != nil {
		return nil, fmt.Errorf(ErrMsgLoadDefault, err)
	}
	return l.parse(defaultCatalogFile, data)
}

func (l *loader) parse(name string, data []byte) (*Config, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ExtYAML, ExtYML:
		var doc interface{}
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf(ErrMsgParseYAML, name, err)
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf(ErrMsgParseYAML, name, err)
		}
		data = converted
	case ExtJSON:
	default:
		return nil, fmt.Errorf("%w: "+ErrMsgUnsupportedExt, ErrInvalidCatalog, filepath.Ext(name))
	}

	if err := l.schemas.ValidateBytes(data, validation.CatalogSchema); err != nil {
		return nil, fmt.Errorf("%w: "+ErrMsgSchema, ErrInvalidCatalog, name, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf(ErrMsgParseJSON, name, err)
	}
	return &cfg, nil
}

func (c *Config) merge(other *Config) {
	if other.Version != "" {
		c.Version = other.Version
	}
	if c.Description == "" {
		c.Description = other.Description
	}
	c.Items = append(c.Items, other.Items...)
	c.Badges = append(c.Badges, other.Badges...)
	c.DailyRewards = append(c.DailyRewards, other.DailyRewards...)
}

// Validate checks the catalog without producing definitions
func (l *loader) Validate(cfg *Config) error {
	_, err := l.Build(cfg)
	return err
}

// Build validates cfg and converts it into domain definitions. Level badges
// for every tenth level are generated unless the catalog defines them.
func (l *loader) Build(cfg *Config) (*Definitions, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}
	if err := validation.Struct(cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	defs := &Definitions{}
	itemIDs := make(map[string]bool, len(cfg.Items))
	for _, ic := range cfg.Items {
		if itemIDs[ic.ID] {
			return nil, fmt.Errorf("%w: item '%s'", ErrDuplicateID, ic.ID)
		}
		itemIDs[ic.ID] = true
		item, err := buildItem(ic)
		if err != nil {
			return nil, err
		}
		defs.Items = append(defs.Items, item)
	}

	badgeIDs := make(map[string]bool, len(cfg.Badges))
	for _, bc := range cfg.Badges {
		if badgeIDs[bc.ID] {
			return nil, fmt.Errorf("%w: badge '%s'", ErrDuplicateID, bc.ID)
		}
		badgeIDs[bc.ID] = true
		badge, err := buildBadge(bc)
		if err != nil {
			return nil, err
		}
		defs.Badges = append(defs.Badges, badge)
	}
	for _, generated := range LevelBadges() {
		if !badgeIDs[generated.ID] {
			badgeIDs[generated.ID] = true
			defs.Badges = append(defs.Badges, generated)
		}
	}

	days := make(map[int]bool, len(cfg.DailyRewards))
	for _, dc := range cfg.DailyRewards {
		if days[dc.Day] {
			return nil, fmt.Errorf("%w: daily reward day %d", ErrDuplicateID, dc.Day)
		}
		days[dc.Day] = true
		rewards, err := domain.RewardsFromSpecs(dc.Rewards)
		if err != nil {
			return nil, fmt.Errorf("%w: daily reward day %d: %v", ErrInvalidCatalog, dc.Day, err)
		}
		defs.DailyRewards = append(defs.DailyRewards, domain.DailyReward{
			Day:         dc.Day,
			Rewards:     rewards,
			Description: dc.Description,
		})
	}

	if err := checkReferences(defs, itemIDs, badgeIDs); err != nil {
		return nil, err
	}
	return defs, nil
}

func buildItem(ic ItemConfig) (domain.Item, error) {
	var duration time.Duration
	if ic.Effects.Duration != "" {
		d, err := time.ParseDuration(ic.Effects.Duration)
		if err != nil || d < 0 {
			return domain.Item{}, fmt.Errorf("%w: item '%s' has invalid duration %q", ErrInvalidCatalog, ic.ID, ic.Effects.Duration)
		}
		duration = d
	}
	itemType := domain.ItemType(ic.Type)
	boosts := ic.Effects.ExpBoost > 0 || ic.Effects.GoldBoost > 0
	if boosts && duration == 0 {
		return domain.Item{}, fmt.Errorf("%w: item '%s' has a boost without a duration", ErrInvalidCatalog, ic.ID)
	}
	rarity := domain.Rarity(ic.Rarity)
	if rarity == "" {
		rarity = domain.RarityCommon
	}
	return domain.Item{
		ID:          ic.ID,
		Name:        ic.Name,
		Description: ic.Description,
		Type:        itemType,
		Rarity:      rarity,
		Effects: domain.ItemEffects{
			InstantExp:  ic.Effects.InstantExp,
			InstantGold: ic.Effects.InstantGold,
			ExpBoost:    ic.Effects.ExpBoost,
			GoldBoost:   ic.Effects.GoldBoost,
			Duration:    duration,
		},
		MaxStackSize: ic.MaxStackSize,
		Consumable:   ic.Consumable || itemType == domain.ItemTypeConsumable,
	}, nil
}

func buildBadge(bc BadgeConfig) (domain.Badge, error) {
	req, err := domain.DecodeRequirement(bc.Requirement.Type, bc.Requirement.Value)
	if err != nil {
		return domain.Badge{}, fmt.Errorf("%w: badge '%s': %v", ErrInvalidCatalog, bc.ID, err)
	}
	var reward domain.Reward
	if bc.Reward != nil {
		reward, err = bc.Reward.Reward()
		if err != nil {
			return domain.Badge{}, fmt.Errorf("%w: badge '%s' reward: %v", ErrInvalidCatalog, bc.ID, err)
		}
		if b, ok := reward.(domain.BadgeReward); ok && b.BadgeID == bc.ID {
			return domain.Badge{}, fmt.Errorf("%w: badge '%s' rewards itself", ErrInvalidCatalog, bc.ID)
		}
	}
	rarity := domain.Rarity(bc.Rarity)
	if rarity == "" {
		rarity = domain.RarityCommon
	}
	return domain.Badge{
		ID:          bc.ID,
		Name:        bc.Name,
		Description: bc.Description,
		Category:    bc.Category,
		Rarity:      rarity,
		Requirement: req,
		Reward:      reward,
	}, nil
}

// checkReferences makes sure every item and badge reward points into the catalog
func checkReferences(defs *Definitions, itemIDs, badgeIDs map[string]bool) error {
	check := func(owner string, r domain.Reward) error {
		switch v := r.(type) {
		case domain.ItemReward:
			if !itemIDs[v.ItemID] {
				return fmt.Errorf("%w: %s references item '%s'", ErrUnknownReference, owner, v.ItemID)
			}
		case domain.BadgeReward:
			if !badgeIDs[v.BadgeID] {
				return fmt.Errorf("%w: %s references badge '%s'", ErrUnknownReference, owner, v.BadgeID)
			}
		}
		return nil
	}
	for _, b := range defs.Badges {
		if b.Reward == nil {
			continue
		}
		if err := check("badge '"+b.ID+"'", b.Reward); err != nil {
			return err
		}
	}
	for _, d := range defs.DailyRewards {
		for _, r := range d.Rewards {
			if err := check(fmt.Sprintf("daily reward day %d", d.Day), r); err != nil {
				return err
			}
		}
	}
	return nil
}

// LevelBadges returns the badges granted by the level curve every
// BadgeRewardInterval levels.
func LevelBadges() []domain.Badge {
	var out []domain.Badge
	for level := levelcurve.BadgeRewardInterval; level <= levelcurve.MaxLevel; level += levelcurve.BadgeRewardInterval {
		out = append(out, domain.Badge{
			ID:          levelcurve.LevelBadgeID(level),
			Name:        fmt.Sprintf(LevelBadgeName, level),
			Description: fmt.Sprintf(LevelBadgeDesc, level),
			Category:    LevelBadgeCategory,
			Rarity:      levelBadgeRarity(level),
			Requirement: domain.LevelRequirement{Level: level},
		})
	}
	return out
}

func levelBadgeRarity(level int) domain.Rarity {
	switch {
	case level >= 100:
		return domain.RarityLegendary
	case level >= 70:
		return domain.RarityEpic
	case level >= 40:
		return domain.RarityRare
	case level >= 20:
		return domain.RarityUncommon
	default:
		return domain.RarityCommon
	}
}

// Sync upserts every definition inside one transaction. Re-running it with
// the same catalog is a no-op apart from the row timestamps.
func (l *loader) Sync(ctx context.Context, cfg *Config, repo Repository) (*SyncResult, error) {
	log := logger.FromContext(ctx)
	defs, err := l.Build(cfg)
	if err != nil {
		return nil, err
	}
	log.Info(LogMsgCatalogSyncStarted, "version", cfg.Version,
		"items", len(defs.Items), "badges", len(defs.Badges), "daily_rewards", len(defs.DailyRewards))

	result := &SyncResult{}
	err = repo.WithTx(ctx, func(ctx context.Context) error {
		for i := range defs.Items {
			if err := repo.UpsertItem(ctx, &defs.Items[i]); err != nil {
				return fmt.Errorf(ErrMsgUpsertItem, defs.Items[i].ID, err)
			}
			result.ItemsUpserted++
		}
		for i := range defs.Badges {
			if err := repo.UpsertBadge(ctx, &defs.Badges[i]); err != nil {
				return fmt.Errorf(ErrMsgUpsertBadge, defs.Badges[i].ID, err)
			}
			result.BadgesUpserted++
		}
		for i := range defs.DailyRewards {
			if err := repo.UpsertDailyReward(ctx, &defs.DailyRewards[i]); err != nil {
				return fmt.Errorf(ErrMsgUpsertDaily, defs.DailyRewards[i].Day, err)
			}
			result.DailyRewardsUpserted++
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info(LogMsgCatalogSyncComplete, "items", result.ItemsUpserted,
		"badges", result.BadgesUpserted, "daily_rewards", result.DailyRewardsUpserted)
	return result, nil
}
