package daily

import "github.com/osse101/brandish-progression/internal/domain"

// Span and operation names
const (
	SpanClaimDailyReward = "daily.ClaimDailyReward"
	OpClaimDailyReward   = "claim_daily_reward"
)

// Fallback reward when the catalog has no entry for a streak day:
// FallbackBaseGold + FallbackGoldPerDay*day
const (
	FallbackBaseGold   = 50
	FallbackGoldPerDay = 10
)

// Streak milestones
const (
	MilestoneWeek      = 7
	MilestoneFortnight = 14
	MilestoneMonth     = 30

	FortnightBonusGold = 500
	MonthlyBadgeID     = "monthly_devotee"
)

// milestoneRewards are granted once when the streak reaches exactly the key
var milestoneRewards = map[int]domain.Reward{
	MilestoneWeek:      domain.ItemReward{ItemID: domain.ItemWeeklyBoost, Quantity: 1},
	MilestoneFortnight: domain.CurrencyReward{Currency: domain.CurrencyGold, Amount: FortnightBonusGold},
	MilestoneMonth:     domain.BadgeReward{BadgeID: MonthlyBadgeID},
}

// Message catalog keys
const (
	MsgKeyClaimed        = "daily.claimed"
	MsgKeyMilestone      = "daily.milestone"
	MsgKeyAlreadyClaimed = "daily.already_claimed"
)

// Log messages
const (
	LogMsgClaimed          = "Daily reward claimed"
	LogMsgAlreadyClaimed   = "Daily reward already claimed"
	LogMsgBadgeCheckFailed = "Streak badge check failed"
	LogMsgCatalogFallback  = "No catalog reward for streak day, using fallback gold"
)

// Error messages
const (
	ErrMsgLoadState   = "failed to load daily state: %w"
	ErrMsgSaveState   = "failed to save daily state: %w"
	ErrMsgLoadCatalog = "failed to load daily reward for day %d: %w"
)
