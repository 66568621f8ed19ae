package domain

import "time"

// Rarity grades catalog items and badges
type Rarity string

const (
	RarityCommon    Rarity = "common"
	RarityUncommon  Rarity = "uncommon"
	RarityRare      Rarity = "rare"
	RarityEpic      Rarity = "epic"
	RarityLegendary Rarity = "legendary"
)

// Badge is a catalog achievement earned at most once per player
type Badge struct {
	ID               string      `json:"id"`
	Name             string      `json:"name"`
	Description      string      `json:"description,omitempty"`
	Category         string      `json:"category"`
	Rarity           Rarity      `json:"rarity"`
	Requirement      Requirement `json:"-"`
	Reward           Reward      `json:"-"` // optional
	TotalEarnedCount int         `json:"total_earned_count"`
	FirstEarnedBy    *string     `json:"first_earned_by,omitempty"`
	FirstEarnedAt    *time.Time  `json:"first_earned_at,omitempty"`
}

// PlayerBadge tracks a player's progress towards one badge
type PlayerBadge struct {
	PlayerID        string     `json:"player_id"`
	BadgeID         string     `json:"badge_id"`
	ProgressPercent float64    `json:"progress_percent"`
	EarnedAt        *time.Time `json:"earned_at,omitempty"` // set once, never cleared
}

// Earned reports whether the badge has been awarded
func (pb *PlayerBadge) Earned() bool {
	return pb != nil && pb.EarnedAt != nil
}

// BadgeTrigger narrows which requirement kinds a badge check evaluates
type BadgeTrigger string

const (
	TriggerAll          BadgeTrigger = "all"
	TriggerQuest        BadgeTrigger = "quest"
	TriggerLevel        BadgeTrigger = "level"
	TriggerDailyLogin   BadgeTrigger = "daily_login"
	TriggerPerfectScore BadgeTrigger = "perfect_score"
)

// Covers reports whether a check fired by t should evaluate requirement kind rt
func (t BadgeTrigger) Covers(rt RequirementType) bool {
	switch t {
	case TriggerQuest:
		return rt == RequirementQuestCount || rt == RequirementSubjectMastery || rt == RequirementPerfectScores
	case TriggerLevel:
		return rt == RequirementLevel
	case TriggerDailyLogin:
		return rt == RequirementStreak
	case TriggerPerfectScore:
		return rt == RequirementPerfectScores
	default:
		return true
	}
}
