package audithook

// Action constants for audit events.
const (
	// Wallet actions
	ActionCoinsPurchased = "coins.purchased"
	ActionCoinsSpent     = "coins.spent"
	ActionSpendRejected  = "spend.rejected"

	// Payment actions
	ActionPaymentFailed = "payment.failed"

	// Storage actions
	ActionStorageFailed = "storage.failed"

	// Planner actions
	ActionPlannerEventsCreated = "planner.events_created"

	// Assistant actions
	ActionAssistantUsed = "assistant.used"
)

// Resource constants for audit events.
const (
	ResourceWallet    = "wallet"
	ResourcePayment   = "payment"
	ResourceStore     = "store"
	ResourcePlanner   = "planner_event"
	ResourceAssistant = "assistant"
)

// Category constants for audit events.
const (
	CategoryWallet  = "wallet"
	CategoryPayment = "payment"
	CategoryPlanner = "planner"
	CategoryAI      = "ai"
	CategorySystem  = "system"
)

// Severity levels for audit events.
const (
	SeverityInfo     = "info"
	SeverityWarning  = "warning"
	SeverityError    = "error"
	SeverityCritical = "critical"
)

// Outcome values for audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)
