package bank

import "time"

// OperationType enumerates journaled operation kinds.
type OperationType string

const (
	OperationDeposit  OperationType = "deposit"
	OperationWithdraw OperationType = "withdraw"
)

// OperationStatus marks the outcome of a journaled operation.
type OperationStatus string

const (
	StatusSuccess OperationStatus = "success"
	StatusFail    OperationStatus = "fail"
)

// FailureReason is the human-readable cause attached to failed records.
type FailureReason string

const (
	ReasonAmountNotPositive   FailureReason = "Amount must be positive"
	ReasonInsufficientFunds   FailureReason = "Insufficient funds"
	ReasonCreditLimitExceeded FailureReason = "Credit limit exceeded"
)

// CreditMeta annotates successful credit-account records.
type CreditMeta struct {
	UsedCredit           bool
	AvailableCreditAfter float64
}

// A single immutable line in an account's journal.
type OperationRecord struct {
	Type         OperationType
	Amount       float64
	Timestamp    time.Time
	BalanceAfter float64
	Status       OperationStatus
	Reason       FailureReason // set only when Status is StatusFail
	Credit       *CreditMeta   // set only on credit-account successes
}

// Clone returns a deep copy so callers cannot reach journaled state.
func (record OperationRecord) Clone() OperationRecord {
	copied := record
	if record.Credit != nil {
		creditCopy := *record.Credit
		copied.Credit = &creditCopy
	}
	return copied
}

// Failed reports whether the record describes a rejected operation.
func (record OperationRecord) Failed() bool {
	return record.Status == StatusFail
}

// Transactable is the capability set shared by both account variants.
type Transactable interface {
	Holder() string
	Balance() float64
	AvailableCredit() float64
	Deposit(amount float64) OperationRecord
	Withdraw(amount float64) OperationRecord
	History() []OperationRecord
}
