package badge

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/brandish-progression/internal/domain"
)

func TestSatisfiedAndProgress(t *testing.T) {
	stats := &domain.BadgeStatistics{
		QuestsCompleted: 3,
		CurrentLevel:    12,
		CurrentStreak:   7,
		PerfectScores:   0,
		SubjectCounts:   map[string]int{"math": 1},
	}

	tests := []struct {
		name      string
		req       domain.Requirement
		satisfied bool
		progress  float64
	}{
		{"quest count short", domain.QuestCountRequirement{Count: 9}, false, 33.33},
		{"quest count met", domain.QuestCountRequirement{Count: 3}, true, 100},
		{"level exceeded", domain.LevelRequirement{Level: 10}, true, 100},
		{"streak short", domain.StreakRequirement{Days: 30}, false, 23.33},
		{"no perfect scores", domain.PerfectScoresRequirement{Count: 5}, false, 0},
		{"subject counted", domain.SubjectMasteryRequirement{Subject: "math", Count: 4}, false, 25},
		{"other subject", domain.SubjectMasteryRequirement{Subject: "art", Count: 4}, false, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.satisfied, Satisfied(tt.req, stats))
			assert.Equal(t, tt.progress, Progress(tt.req, stats))
		})
	}
}
