package domain

import "time"

// Perks are the passive bonuses unlocked by level. The boosts and energy
// regen are percentages and may be fractional (7.5 at level 15); BonusHints
// is a count.
type Perks struct {
	ExpBoost    float64 `json:"exp_boost,omitempty"`
	GoldBoost   float64 `json:"gold_boost,omitempty"`
	EnergyRegen float64 `json:"energy_regen,omitempty"`
	BonusHints  int     `json:"bonus_hints,omitempty"`
}

// LevelDefinition is one immutable row of the level catalog
type LevelDefinition struct {
	Level              int      `json:"level"`
	RequiredExperience int64    `json:"required_experience"` // cumulative
	Title              string   `json:"title"`
	Rewards            []Reward `json:"-"`
	Perks              Perks    `json:"perks"`
}

// PlayerLevelState tracks a player's experience and level
type PlayerLevelState struct {
	PlayerID                 string     `json:"player_id"`
	CurrentLevel             int        `json:"current_level"`
	CurrentExperienceInLevel int64      `json:"current_experience_in_level"`
	TotalExperienceEarned    int64      `json:"total_experience_earned"`
	LevelProgressPercent     float64    `json:"level_progress_percent"`
	LastLevelUpAt            *time.Time `json:"last_level_up_at,omitempty"`
	HighestLevelEverReached  int        `json:"highest_level_ever_reached"`
	CreatedAt                time.Time  `json:"created_at"`
	UpdatedAt                time.Time  `json:"updated_at"`
}

// NewPlayerLevelState returns the state of a player who has never earned experience
func NewPlayerLevelState(playerID string, now time.Time) *PlayerLevelState {
	return &PlayerLevelState{
		PlayerID:                playerID,
		CurrentLevel:            1,
		HighestLevelEverReached: 1,
		CreatedAt:               now,
		UpdatedAt:               now,
	}
}

// LevelUpResult is the outcome of a single experience grant
type LevelUpResult struct {
	LeveledUp        bool            `json:"leveled_up"`
	OldLevel         int             `json:"old_level"`
	NewLevel         int             `json:"new_level"`
	LevelsGained     []int           `json:"levels_gained,omitempty"`
	ExperienceGained int64           `json:"experience_gained"`
	TotalExperience  int64           `json:"total_experience"`
	Rewards          []AppliedReward `json:"rewards"`
	NextLevelExp     int64           `json:"next_level_exp"`
	ProgressPercent  float64         `json:"progress_percent"`
}

// PlayerProgress is a read-only view of a player's level progress
type PlayerProgress struct {
	PlayerID         string  `json:"player_id"`
	Level            int     `json:"level"`
	Title            string  `json:"title"`
	TotalExperience  int64   `json:"total_experience"`
	ExperienceInto   int64   `json:"experience_into_level"`
	ExperienceToNext int64   `json:"experience_to_next"`
	NextLevelExp     int64   `json:"next_level_exp"`
	ProgressPercent  float64 `json:"progress_percent"`
	AtMaxLevel       bool    `json:"at_max_level"`
	Perks            Perks   `json:"perks"`
}
