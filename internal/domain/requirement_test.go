package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequirement(t *testing.T) {
	tests := []struct {
		name string
		typ  RequirementType
		raw  string
		want Requirement
	}{
		{"quest count scalar", RequirementQuestCount, `10`, QuestCountRequirement{Count: 10}},
		{"quest count object", RequirementQuestCount, `{"count": 3}`, QuestCountRequirement{Count: 3}},
		{"level", RequirementLevel, `{"level": 25}`, LevelRequirement{Level: 25}},
		{"streak", RequirementStreak, `7`, StreakRequirement{Days: 7}},
		{"perfect scores", RequirementPerfectScores, ` 5 `, PerfectScoresRequirement{Count: 5}},
		{"subject mastery", RequirementSubjectMastery, `{"subject":"math","count":4}`, SubjectMasteryRequirement{Subject: "math", Count: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeRequirement(tt.typ, json.RawMessage(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.typ, got.Type())
		})
	}
}

func TestDecodeRequirement_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		typ     RequirementType
		raw     string
		wantErr error
	}{
		{"unknown type", "friends_invited", `3`, ErrUnknownRequirementType},
		{"zero threshold", RequirementStreak, `0`, ErrInvalidThreshold},
		{"negative threshold", RequirementLevel, `{"level": -1}`, ErrInvalidThreshold},
		{"missing subject", RequirementSubjectMastery, `{"count": 2}`, ErrValidation},
		{"malformed", RequirementQuestCount, `"ten"`, ErrValidation},
		{"empty", RequirementQuestCount, ``, ErrValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeRequirement(tt.typ, json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestEncodeRequirement_RoundTrip(t *testing.T) {
	req := SubjectMasteryRequirement{Subject: "science", Count: 8}
	typ, raw, err := EncodeRequirement(req)
	require.NoError(t, err)

	decoded, err := DecodeRequirement(typ, raw)
	require.NoError(t, err)
	assert.Equal(t, req, decoded)
}

func TestBadgeTrigger_Covers(t *testing.T) {
	assert.True(t, TriggerAll.Covers(RequirementStreak))
	assert.True(t, TriggerDailyLogin.Covers(RequirementStreak))
	assert.False(t, TriggerDailyLogin.Covers(RequirementQuestCount))
	assert.True(t, TriggerQuest.Covers(RequirementSubjectMastery))
	assert.True(t, TriggerQuest.Covers(RequirementPerfectScores))
	assert.False(t, TriggerQuest.Covers(RequirementLevel))
	assert.True(t, TriggerLevel.Covers(RequirementLevel))
	assert.False(t, TriggerPerfectScore.Covers(RequirementQuestCount))
}
