package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RequirementType identifies one of the fixed badge requirement kinds
type RequirementType string

const (
	RequirementQuestCount     RequirementType = "quest_count"
	RequirementLevel          RequirementType = "level"
	RequirementStreak         RequirementType = "streak"
	RequirementPerfectScores  RequirementType = "perfect_scores"
	RequirementSubjectMastery RequirementType = "subject_mastery"
)

// Requirement is a badge predicate with typed parameters. The implementations
// are QuestCountRequirement, LevelRequirement, StreakRequirement,
// PerfectScoresRequirement and SubjectMasteryRequirement.
type Requirement interface {
	Type() RequirementType
	// Threshold is the value the measured statistic must reach
	Threshold() int
	isRequirement()
}

type QuestCountRequirement struct {
	Count int `json:"count"`
}

type LevelRequirement struct {
	Level int `json:"level"`
}

type StreakRequirement struct {
	Days int `json:"days"`
}

type PerfectScoresRequirement struct {
	Count int `json:"count"`
}

type SubjectMasteryRequirement struct {
	Subject string `json:"subject"`
	Count   int    `json:"count"`
}

func (QuestCountRequirement) Type() RequirementType     { return RequirementQuestCount }
func (LevelRequirement) Type() RequirementType          { return RequirementLevel }
func (StreakRequirement) Type() RequirementType         { return RequirementStreak }
func (PerfectScoresRequirement) Type() RequirementType  { return RequirementPerfectScores }
func (SubjectMasteryRequirement) Type() RequirementType { return RequirementSubjectMastery }

func (r QuestCountRequirement) Threshold() int     { return r.Count }
func (r LevelRequirement) Threshold() int          { return r.Level }
func (r StreakRequirement) Threshold() int         { return r.Days }
func (r PerfectScoresRequirement) Threshold() int  { return r.Count }
func (r SubjectMasteryRequirement) Threshold() int { return r.Count }

func (QuestCountRequirement) isRequirement()     {}
func (LevelRequirement) isRequirement()          {}
func (StreakRequirement) isRequirement()         {}
func (PerfectScoresRequirement) isRequirement()  {}
func (SubjectMasteryRequirement) isRequirement() {}

// DecodeRequirement builds a typed requirement from its catalog form. Scalar
// requirement types accept either a bare number (10) or their object form
// ({"count": 10}).
func DecodeRequirement(t RequirementType, raw json.RawMessage) (Requirement, error) {
	raw = bytes.TrimSpace(raw)
	var req Requirement
	switch t {
	case RequirementQuestCount:
		var r QuestCountRequirement
		if err := decodeScalar(raw, &r.Count, &r); err != nil {
			return nil, err
		}
		req = r
	case RequirementLevel:
		var r LevelRequirement
		if err := decodeScalar(raw, &r.Level, &r); err != nil {
			return nil, err
		}
		req = r
	case RequirementStreak:
		var r StreakRequirement
		if err := decodeScalar(raw, &r.Days, &r); err != nil {
			return nil, err
		}
		req = r
	case RequirementPerfectScores:
		var r PerfectScoresRequirement
		if err := decodeScalar(raw, &r.Count, &r); err != nil {
			return nil, err
		}
		req = r
	case RequirementSubjectMastery:
		var r SubjectMasteryRequirement
		if err := json.Unmarshal(raw, &r); err != nil {
			return nil, fmt.Errorf("%w: subject_mastery requires {\"subject\", \"count\"}: %v", ErrValidation, err)
		}
		if r.Subject == "" {
			return nil, fmt.Errorf("%w: subject_mastery requires a subject", ErrValidation)
		}
		req = r
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownRequirementType, t)
	}

	if req.Threshold() <= 0 {
		return nil, fmt.Errorf("%w: %s", ErrInvalidThreshold, t)
	}
	return req, nil
}

func decodeScalar(raw json.RawMessage, scalar *int, obj any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing requirement value", ErrValidation)
	}
	if raw[0] == '{' {
		if err := json.Unmarshal(raw, obj); err != nil {
			return fmt.Errorf("%w: invalid requirement value: %v", ErrValidation, err)
		}
		return nil
	}
	if err := json.Unmarshal(raw, scalar); err != nil {
		return fmt.Errorf("%w: invalid requirement value: %v", ErrValidation, err)
	}
	return nil
}

// EncodeRequirement returns the catalog form of r
func EncodeRequirement(r Requirement) (RequirementType, json.RawMessage, error) {
	raw, err := json.Marshal(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to marshal requirement: %w", err)
	}
	return r.Type(), raw, nil
}
