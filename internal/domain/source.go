package domain

import (
	"strconv"
	"strings"
)

// Source type prefixes produced by the engine itself
const (
	SourceLevelUp     = "level_up"
	SourceDailyLogin  = "daily_login_day"
	SourceStreakBonus = "streak_bonus"
	SourceBadge       = "badge"
	SourceItemUse     = "item_use"
	SourceReconcile   = "reconcile"
	SourceAchievement = "achievement"
	SourceQuest       = "quest"
	sourceSeparator   = "_"
	sourceIDSeparator = ":"
)

// Source identifies what caused a reward. Engine sources render as
// "<type>_<id>" (level_up_5); external sources may carry an id after a colon
// (quest:intro-1).
type Source struct {
	Type string
	ID   string
}

var knownSourcePrefixes = []string{SourceDailyLogin, SourceStreakBonus, SourceLevelUp, SourceItemUse, SourceBadge}

// ParseSource splits a source string into type and id
func ParseSource(s string) Source {
	for _, prefix := range knownSourcePrefixes {
		if strings.HasPrefix(s, prefix+sourceSeparator) {
			return Source{Type: prefix, ID: strings.TrimPrefix(s, prefix+sourceSeparator)}
		}
	}
	if typ, id, ok := strings.Cut(s, sourceIDSeparator); ok {
		return Source{Type: typ, ID: id}
	}
	return Source{Type: s}
}

// String renders the source in the form ParseSource accepts
func (s Source) String() string {
	if s.ID == "" {
		return s.Type
	}
	for _, prefix := range knownSourcePrefixes {
		if s.Type == prefix {
			return s.Type + sourceSeparator + s.ID
		}
	}
	return s.Type + sourceIDSeparator + s.ID
}

func LevelUpSource(level int) string  { return SourceLevelUp + sourceSeparator + strconv.Itoa(level) }
func DailyLoginSource(day int) string { return SourceDailyLogin + sourceSeparator + strconv.Itoa(day) }
func StreakBonusSource(streak int) string {
	return SourceStreakBonus + sourceSeparator + strconv.Itoa(streak)
}
func BadgeSource(badgeID string) string  { return SourceBadge + sourceSeparator + badgeID }
func ItemUseSource(itemID string) string { return SourceItemUse + sourceSeparator + itemID }

// AchievementSource is the source of badges earned by meeting their
// requirement, e.g. achievement:daily_login
func AchievementSource(trigger BadgeTrigger) string {
	return SourceAchievement + sourceIDSeparator + string(trigger)
}
