package bank

import "fmt"

// Account is the standard bookkeeping account. The balance never goes below
// zero. Rejected operations leave state untouched and are journaled with a
// failure reason instead of being raised as errors.
type Account struct {
	holder  string
	balance float64
	journal *journal
}

var _ Transactable = (*Account)(nil)

// NewAccount validates the opening balance and wires the journal. The holder
// identity is stored as given.
func NewAccount(holder string, initialBalance float64, options ...Option) (*Account, error) {
	if initialBalance < 0 {
		return nil, fmt.Errorf("%w: opening balance %v is negative", ErrInvalidInitialBalance, initialBalance)
	}
	return &Account{
		holder:  holder,
		balance: initialBalance,
		journal: newJournal(options...),
	}, nil
}

// Holder returns the immutable account holder identity.
func (account *Account) Holder() string {
	return account.holder
}

// Balance returns the current balance.
func (account *Account) Balance() float64 {
	return account.balance
}

// AvailableCredit returns the spendable amount. A standard account carries
// no credit line, so this equals the balance.
func (account *Account) AvailableCredit() float64 {
	return account.balance
}

// Deposit credits the account and returns a copy of the journaled record.
// Non-positive amounts are rejected without changing state.
func (account *Account) Deposit(amount float64) OperationRecord {
	if amount <= 0 {
		return account.journal.append(account.holder, OperationRecord{
			Type:         OperationDeposit,
			Amount:       amount,
			BalanceAfter: account.balance,
			Status:       StatusFail,
			Reason:       ReasonAmountNotPositive,
		})
	}
	account.balance += amount
	return account.journal.append(account.holder, OperationRecord{
		Type:         OperationDeposit,
		Amount:       amount,
		BalanceAfter: account.balance,
		Status:       StatusSuccess,
	})
}

// Withdraw debits the account and returns a copy of the journaled record.
// Non-positive amounts and amounts above the balance are rejected without
// changing state.
func (account *Account) Withdraw(amount float64) OperationRecord {
	if amount <= 0 {
		return account.journal.append(account.holder, OperationRecord{
			Type:         OperationWithdraw,
			Amount:       amount,
			BalanceAfter: account.balance,
			Status:       StatusFail,
			Reason:       ReasonAmountNotPositive,
		})
	}
	if amount > account.balance {
		return account.journal.append(account.holder, OperationRecord{
			Type:         OperationWithdraw,
			Amount:       amount,
			BalanceAfter: account.balance,
			Status:       StatusFail,
			Reason:       ReasonInsufficientFunds,
		})
	}
	account.balance -= amount
	return account.journal.append(account.holder, OperationRecord{
		Type:         OperationWithdraw,
		Amount:       amount,
		BalanceAfter: account.balance,
		Status:       StatusSuccess,
	})
}

// History returns copies of all records in insertion order. Mutating the
// returned slice or its elements never affects the account.
func (account *Account) History() []OperationRecord {
	return account.journal.snapshot()
}
