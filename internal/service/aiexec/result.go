package aiexec

// ErrorKind classifies an unsuccessful Result.
type ErrorKind string

const (
	KindInsufficientBalance ErrorKind = "insufficient_balance"
	KindProviderFailure     ErrorKind = "provider_failure"
	KindPersistenceFailure  ErrorKind = "persistence_failure"
	KindValidation          ErrorKind = "validation"
)

// Result is what the caller of Execute sees. Expected failures are reported
// here; Execute never panics on them.
type Result struct {
	Success             bool      `json:"success"`
	Response            string    `json:"response,omitempty"`
	TokensDeducted      int64     `json:"tokens_deducted"`
	TokensRemaining     int64     `json:"tokens_remaining"`
	TransparencyMessage string    `json:"transparency_message"`
	WarningMessage      string    `json:"warning_message,omitempty"`
	Error               string    `json:"error,omitempty"`
	ErrorKind           ErrorKind `json:"error_kind,omitempty"`
}
