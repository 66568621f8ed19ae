// Package levelcurve holds the pure level math: experience thresholds,
// titles, level rewards and perks. Everything here is safe for concurrent use.
package levelcurve

import (
	"math"
	"slices"
	"sort"
	"strconv"

	"github.com/osse101/brandish-progression/internal/domain"
)

var (
	thresholds  = buildThresholds()
	definitions = buildDefinitions()
)

// RequiredExperience returns the cumulative experience needed to reach level.
// Level 1 needs nothing and level 2 needs BaseExperience; from level 3 on the
// threshold is floor(base * multiplier^(level-1) + increment*(level-1)).
func RequiredExperience(level int) int64 {
	switch {
	case level <= MinLevel:
		return 0
	case level <= MaxLevel:
		return thresholds[level]
	default:
		return formula(level)
	}
}

func formula(level int) int64 {
	if level <= MinLevel {
		return 0
	}
	if level == MinLevel+1 {
		return int64(BaseExperience)
	}
	n := float64(level - 1)
	v := math.Floor(BaseExperience*math.Pow(Multiplier, n) + Increment*n)
	if v >= math.MaxInt64 {
		// Unreachable thresholds near the cap stay ordered below MaxInt64.
		return math.MaxInt64 - int64(MaxLevel-level) - 1
	}
	return int64(v)
}

func buildThresholds() []int64 {
	t := make([]int64, MaxLevel+1)
	for l := MinLevel; l <= MaxLevel; l++ {
		t[l] = formula(l)
	}
	return t
}

// LevelForExperience returns the greatest level whose threshold total reaches
func LevelForExperience(total int64) int {
	// thresholds[1:] is sorted; find the first level above total
	idx := sort.Search(MaxLevel, func(i int) bool {
		return thresholds[i+1] > total
	})
	if idx < MinLevel {
		return MinLevel
	}
	return idx
}

// Title returns the rank name shown for level
func Title(level int) string {
	if level < MinLevel {
		level = MinLevel
	}
	bucket := (level - 1) / 10
	if bucket >= len(titles) {
		bucket = len(titles) - 1
	}
	return titles[bucket]
}

// LevelRewards returns the rewards granted on entering level. Gold is always
// granted; items, badges and titles only on their interval levels.
func LevelRewards(level int) []domain.Reward {
	rewards := []domain.Reward{
		domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: int64(level) * GoldPerLevel},
	}
	if level%ItemRewardInterval == 0 {
		rewards = append(rewards, domain.ItemReward{ItemID: domain.ItemLevelChest, Quantity: LevelChestQuantity})
	}
	if level%BadgeRewardInterval == 0 {
		rewards = append(rewards, domain.BadgeReward{BadgeID: LevelBadgeID(level)})
	}
	if titleLevels[level] {
		rewards = append(rewards, domain.TitleReward{Title: Title(level)})
	}
	return rewards
}

// LevelBadgeID is the id of the badge granted on reaching a multiple of ten
func LevelBadgeID(level int) string {
	return LevelBadgePrefix + strconv.Itoa(level)
}

// PerksFor returns the passive bonuses active at level
func PerksFor(level int) domain.Perks {
	return domain.Perks{
		ExpBoost:    perk(level, ExpBoostStep, ExpBoostPerStep, ExpBoostCap),
		GoldBoost:   perk(level, GoldBoostStep, GoldBoostPerStep, GoldBoostCap),
		EnergyRegen: perk(level, EnergyRegenStep, EnergyRegenPerStep, EnergyRegenCap),
		BonusHints:  max(level/BonusHintStep, 0),
	}
}

func perk(level, step int, perStep, limit float64) float64 {
	if level < step {
		return 0
	}
	return min(float64(level)/float64(step)*perStep, limit)
}

func buildDefinitions() []domain.LevelDefinition {
	defs := make([]domain.LevelDefinition, 0, MaxLevel)
	for l := MinLevel; l <= MaxLevel; l++ {
		defs = append(defs, domain.LevelDefinition{
			Level:              l,
			RequiredExperience: thresholds[l],
			Title:              Title(l),
			Rewards:            LevelRewards(l),
			Perks:              PerksFor(l),
		})
	}
	return defs
}

// Definitions returns a copy of the level catalog, levels 1 through MaxLevel
func Definitions() []domain.LevelDefinition {
	return slices.Clone(definitions)
}

// Definition returns the catalog row for level, false beyond the cap
func Definition(level int) (domain.LevelDefinition, bool) {
	if level < MinLevel || level > MaxLevel {
		return domain.LevelDefinition{}, false
	}
	return definitions[level-1], true
}

// ProgressPercent returns how far total is between level and level+1, in
// [0,100] and rounded to two decimals. At the cap it is always 100.
func ProgressPercent(level int, total int64) float64 {
	if level >= MaxLevel {
		return 100
	}
	floor := RequiredExperience(level)
	span := RequiredExperience(level+1) - floor
	if span <= 0 {
		return 100
	}
	pct := float64(total-floor) / float64(span) * 100
	pct = math.Max(0, math.Min(100, pct))
	return math.Round(pct*100) / 100
}

// ApplyBoost returns floor(amount * (1 + percent/100)), saturating at
// math.MaxInt64. percent is rounded to basis points first so 7.5 gives
// exactly 107 for 100. Non-positive amounts and percents are returned
// unchanged.
func ApplyBoost(amount int64, percent float64) int64 {
	if amount <= 0 || percent <= 0 {
		return amount
	}
	factor := basisPoints + int64(math.Round(percent*100))
	q, r := amount/basisPoints, amount%basisPoints
	frac := r * factor / basisPoints
	if q > (math.MaxInt64-frac)/factor {
		return math.MaxInt64
	}
	return q*factor + frac
}
