package progression

// Log messages
const (
	LogMsgEngineReady        = "Progression engine ready"
	LogMsgReconcileRequested = "Level reward reconciliation requested"
)
