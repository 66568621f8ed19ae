package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestSchemaValidator_ValidateFile(t *testing.T) {
	v := NewSchemaValidator()
	dir := t.TempDir()
	schemaPath := writeFile(t, dir, "test.schema.json", `{
		"$schema": "http://json-schema.org/draft-07/schema#",
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer", "minimum": 0}
		},
		"required": ["name"]
	}`)

	tests := []struct {
		name      string
		data      string
		wantError string
	}{
		{name: "valid data", data: `{"name": "John", "age": 30}`},
		{name: "valid without optional field", data: `{"name": "Jane"}`},
		{name: "missing required field", data: `{"age": 25}`, wantError: "required"},
		{name: "wrong type", data: `{"name": "John", "age": "thirty"}`, wantError: "age"},
		{name: "constraint violation", data: `{"name": "John", "age": -5}`, wantError: "age"},
		{name: "invalid JSON", data: `{"name": "John", "age": }`, wantError: "parse JSON"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dataPath := writeFile(t, dir, "data.json", tt.data)
			err := v.ValidateFile(dataPath, schemaPath)
			if tt.wantError == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantError)
		})
	}
}

func TestSchemaValidator_MissingSchema(t *testing.T) {
	v := NewSchemaValidator()
	err := v.ValidateBytes([]byte(`{}`), "nonexistent.schema.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load schema")
}

func TestSchemaValidator_MissingDataFile(t *testing.T) {
	v := NewSchemaValidator()
	err := v.ValidateFile("nonexistent.json", CatalogSchema)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read data file")
}

func TestCatalogSchema(t *testing.T) {
	v := NewSchemaValidator()

	valid := `{
		"version": "1.0",
		"items": [
			{"id": "xp_potion", "name": "XP Potion", "type": "consumable", "max_stack_size": 10,
			 "effects": {"instant_exp": 250}},
			{"id": "weekly_boost", "name": "Weekly Boost", "type": "boost", "max_stack_size": 5,
			 "effects": {"exp_boost": 25, "duration": "1h30m"}}
		],
		"badges": [
			{"id": "streak_7", "name": "Week Warrior", "rarity": "rare",
			 "requirement": {"type": "streak", "value": 7},
			 "reward": {"type": "currency", "currency": "gems", "amount": 5}},
			{"id": "math_master", "name": "Math Master",
			 "requirement": {"type": "subject_mastery", "value": {"subject": "math", "count": 10}}}
		],
		"daily_rewards": [
			{"day": 1, "rewards": [{"type": "currency", "amount": 60}]}
		]
	}`
	assert.NoError(t, v.ValidateBytes([]byte(valid), CatalogSchema))

	invalid := []string{
		`{"items": []}`,
		`{"version": "1", "items": [{"id": "x", "name": "X", "type": "weapon", "max_stack_size": 1}]}`,
		`{"version": "1", "items": [{"id": "x", "name": "X", "type": "boost", "max_stack_size": 0}]}`,
		`{"version": "1", "items": [{"id": "x", "name": "X", "type": "boost", "max_stack_size": 1, "effects": {"duration": "soon"}}]}`,
		`{"version": "1", "daily_rewards": [{"day": 31, "rewards": [{"type": "currency", "amount": 1}]}]}`,
		`{"version": "1", "badges": [{"id": "b", "name": "B", "reward": {"type": "title", "title": "x"}}]}`,
		`{"version": "1", "unknown": true}`,
	}
	for _, doc := range invalid {
		assert.Error(t, v.ValidateBytes([]byte(doc), CatalogSchema), doc)
	}
}
