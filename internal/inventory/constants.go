package inventory

// Span and operation names
const (
	SpanAddItem = "inventory.AddItem"
	SpanUseItem = "inventory.UseItem"
	OpAddItem   = "add_item"
	OpUseItem   = "use_item"
)

// Log messages
const (
	LogMsgItemAdded    = "Item added to inventory"
	LogMsgItemUsed     = "Item used"
	LogMsgItemRejected = "Inventory operation rejected"
)

// Error messages
const (
	ErrMsgLoadItem      = "failed to load item: %w"
	ErrMsgLoadSlot      = "failed to load inventory slot: %w"
	ErrMsgSaveSlot      = "failed to save inventory slot: %w"
	ErrMsgListSlots     = "failed to list inventory: %w"
	ErrMsgCreditGold    = "failed to credit item gold: %w"
	ErrMsgAppendHistory = "failed to record item history: %w"
	ErrMsgItemExp       = "failed to apply item experience: %w"
)
