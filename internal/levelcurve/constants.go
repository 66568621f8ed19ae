package levelcurve

// Experience curve constants
const (
	// BaseExperience is the threshold of level 2 and the scale of the curve
	BaseExperience = 100.0

	// Multiplier is the exponential growth factor per level
	Multiplier = 1.5

	// Increment is the linear term added per level
	Increment = 50

	// MinLevel is the level every player starts at
	MinLevel = 1

	// MaxLevel is the level cap; no definition exists beyond it
	MaxLevel = 100
)

// Level reward constants
const (
	GoldPerLevel        = 100
	ItemRewardInterval  = 5
	BadgeRewardInterval = 10
	LevelChestQuantity  = 1

	// LevelBadgePrefix + level is the badge granted every BadgeRewardInterval levels
	LevelBadgePrefix = "level_"
)

// Perk formula constants. Each percentage perk is level/Step*PerStep,
// unlocked at level Step and capped; bonus hints are level/BonusHintStep.
const (
	ExpBoostStep       = 10
	ExpBoostPerStep    = 5.0
	ExpBoostCap        = 50.0
	GoldBoostStep      = 20
	GoldBoostPerStep   = 10.0
	GoldBoostCap       = 50.0
	EnergyRegenStep    = 30
	EnergyRegenPerStep = 10.0
	EnergyRegenCap     = 30.0
	BonusHintStep      = 15

	// boosts are applied in basis points so the floor is exact
	basisPoints = 10000
)

// titles are bucketed by decade: 1-10 is titles[0], 91-100 is titles[9]
var titles = [...]string{
	"Novice",
	"Apprentice",
	"Adept",
	"Scholar",
	"Expert",
	"Veteran",
	"Master",
	"Grandmaster",
	"Legend",
	"Mythic",
}

var titleLevels = map[int]bool{25: true, 50: true, 75: true, 100: true}
