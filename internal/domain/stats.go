package domain

import "time"

// PlayerStats are the lifetime counters that feed badge requirements
type PlayerStats struct {
	PlayerID        string         `json:"player_id"`
	QuestsCompleted int            `json:"quests_completed"`
	PerfectScores   int            `json:"perfect_scores"`
	SubjectCounts   map[string]int `json:"subject_counts"`
	UpdatedAt       time.Time      `json:"updated_at"`
}

// QuestCompletion is reported by quest callers
type QuestCompletion struct {
	QuestID string `json:"quest_id" validate:"required"`
	Subject string `json:"subject,omitempty"`
	Perfect bool   `json:"perfect"`
}

// BadgeStatistics is the snapshot a badge requirement is evaluated against
type BadgeStatistics struct {
	QuestsCompleted int            `json:"quests_completed"`
	PerfectScores   int            `json:"perfect_scores"`
	SubjectCounts   map[string]int `json:"subject_counts"`
	CurrentLevel    int            `json:"current_level"`
	CurrentStreak   int            `json:"current_streak"`
}
