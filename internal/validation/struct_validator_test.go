package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/brandish-progression/internal/domain"
)

type grantCommand struct {
	PlayerID string `validate:"notblank"`
	Amount   int64  `validate:"gte=0"`
	ItemID   string `validate:"required,max=8"`
	Currency string `validate:"omitempty,oneof=gold gems"`
}

func TestStruct(t *testing.T) {
	assert.NoError(t, Struct(grantCommand{PlayerID: "p1", Amount: 5, ItemID: "potion"}))

	err := Struct(grantCommand{PlayerID: "  ", Amount: -1, ItemID: "much_too_long", Currency: "btc"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "player_id: is required")
	assert.Contains(t, err.Error(), "amount: must be at least 0")
	assert.Contains(t, err.Error(), "item_id: must be at most 8 characters")
	assert.Contains(t, err.Error(), "currency: must be one of [gold gems]")
}

func TestToSnake(t *testing.T) {
	assert.Equal(t, "player_id", toSnake("PlayerID"))
	assert.Equal(t, "base_amount", toSnake("BaseAmount"))
	assert.Equal(t, "qty", toSnake("Qty"))
}

func TestStruct_FieldsRecoverableFromError(t *testing.T) {
	err := Struct(grantCommand{PlayerID: "", Amount: 1, ItemID: "potion"})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Equal(t, map[string]string{"player_id": "is required"}, FormatValidationError(err))
}
