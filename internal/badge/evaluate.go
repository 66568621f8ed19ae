package badge

import (
	"math"

	"github.com/osse101/brandish-progression/internal/domain"
)

// measure returns the statistic req is compared against
func measure(req domain.Requirement, stats *domain.BadgeStatistics) int {
	switch r := req.(type) {
	case domain.QuestCountRequirement:
		return stats.QuestsCompleted
	case domain.LevelRequirement:
		return stats.CurrentLevel
	case domain.StreakRequirement:
		return stats.CurrentStreak
	case domain.PerfectScoresRequirement:
		return stats.PerfectScores
	case domain.SubjectMasteryRequirement:
		return stats.SubjectCounts[r.Subject]
	}
	return 0
}

// Satisfied reports whether stats meet req
func Satisfied(req domain.Requirement, stats *domain.BadgeStatistics) bool {
	return measure(req, stats) >= req.Threshold()
}

// Progress returns how close stats are to req in percent, rounded to two decimals
func Progress(req domain.Requirement, stats *domain.BadgeStatistics) float64 {
	threshold := req.Threshold()
	if threshold <= 0 {
		return 100
	}
	pct := float64(measure(req, stats)) / float64(threshold) * 100
	pct = math.Max(0, math.Min(100, pct))
	return math.Round(pct*100) / 100
}
