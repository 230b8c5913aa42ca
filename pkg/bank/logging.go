package bank

import "time"

// Option configures an account at construction time.
type Option func(*journal)

// OperationLogger receives domain-level events for every journaled operation.
type OperationLogger interface {
	LogOperation(entry OperationLog)
}

// OperationLog describes one deposit or withdrawal attempt.
type OperationLog struct {
	Holder       string
	Operation    OperationType
	Amount       float64
	Status       OperationStatus
	Reason       FailureReason
	BalanceAfter float64
}

// WithOperationLogger wires a logger that receives callbacks for every operation.
func WithOperationLogger(logger OperationLogger) Option {
	return func(journal *journal) {
		journal.logger = logger
	}
}

// WithClock overrides the timestamp source used when appending records.
func WithClock(now func() time.Time) Option {
	return func(journal *journal) {
		if now != nil {
			journal.nowFn = now
		}
	}
}
