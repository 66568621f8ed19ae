package domain

import "time"

// Streak cycle and milestone constants
const (
	StreakCycleDays = 30
)

// DailyRewardState is a player's login streak
type DailyRewardState struct {
	PlayerID        string      `json:"player_id"`
	CurrentStreak   int         `json:"current_streak"`
	LongestStreak   int         `json:"longest_streak"`
	LastClaimDate   *time.Time  `json:"last_claim_date,omitempty"` // calendar date, see CalendarDate
	TotalClaims     int         `json:"total_claims"`
	MonthlyClaimLog []time.Time `json:"monthly_claim_log"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// DailyReward is the catalog entry for one day of the streak cycle
type DailyReward struct {
	Day         int      `json:"day"`
	Rewards     []Reward `json:"-"`
	Description string   `json:"description,omitempty"`
}

// RewardResult is the outcome of a daily claim. Success=false with no error
// means the player already claimed on this calendar day.
type RewardResult struct {
	Success       bool            `json:"success"`
	Day           int             `json:"day"`
	Streak        int             `json:"streak"`
	Rewards       []AppliedReward `json:"rewards"`
	BonusRewards  []AppliedReward `json:"bonus_rewards,omitempty"`
	AwardedBadges []Badge         `json:"awarded_badges,omitempty"`
	Message       string          `json:"message"`
}

// DailyStatus is a read-only preview of the next claim
type DailyStatus struct {
	CanClaim      bool       `json:"can_claim"`
	CurrentStreak int        `json:"current_streak"`
	LongestStreak int        `json:"longest_streak"`
	NextDay       int        `json:"next_day"`
	NextRewards   []Reward   `json:"-"`
	TotalClaims   int        `json:"total_claims"`
	LastClaimDate *time.Time `json:"last_claim_date,omitempty"`
}

// CalendarDate returns midnight UTC of the calendar day t falls on in loc.
// Dates normalized this way compare with Equal and step with AddDate.
func CalendarDate(t time.Time, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
