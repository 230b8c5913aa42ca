package bank

import "fmt"

// CreditAccount permits a bounded negative balance. It reuses the base
// account's balance storage and journal; only the deposit and withdrawal
// policy differs.
type CreditAccount struct {
	*Account
	creditLimit float64
}

var _ Transactable = (*CreditAccount)(nil)

// NewCreditAccount validates the credit limit and the opening balance. The
// balance may open below zero as long as it stays at or above -creditLimit.
func NewCreditAccount(holder string, initialBalance float64, creditLimit float64, options ...Option) (*CreditAccount, error) {
	if creditLimit < 0 {
		return nil, fmt.Errorf("%w: limit %v is negative", ErrInvalidCreditLimit, creditLimit)
	}
	if initialBalance < -creditLimit {
		return nil, fmt.Errorf("%w: opening balance %v is below -%v", ErrInvalidInitialBalance, initialBalance, creditLimit)
	}
	return &CreditAccount{
		Account: &Account{
			holder:  holder,
			balance: initialBalance,
			journal: newJournal(options...),
		},
		creditLimit: creditLimit,
	}, nil
}

// CreditLimit returns the immutable credit limit.
func (account *CreditAccount) CreditLimit() float64 {
	return account.creditLimit
}

// AvailableCredit returns the remaining borrowing capacity,
// creditLimit + balance.
func (account *CreditAccount) AvailableCredit() float64 {
	return account.creditLimit + account.balance
}

// Withdraw debits the account, allowing the balance to dip as low as
// -creditLimit. Successful records carry credit-usage metadata.
func (account *CreditAccount) Withdraw(amount float64) OperationRecord {
	if amount <= 0 {
		return account.journal.append(account.holder, OperationRecord{
			Type:         OperationWithdraw,
			Amount:       amount,
			BalanceAfter: account.balance,
			Status:       StatusFail,
			Reason:       ReasonAmountNotPositive,
		})
	}
	candidate := account.balance - amount
	if candidate < -account.creditLimit {
		return account.journal.append(account.holder, OperationRecord{
			Type:         OperationWithdraw,
			Amount:       amount,
			BalanceAfter: account.balance,
			Status:       StatusFail,
			Reason:       ReasonCreditLimitExceeded,
		})
	}
	usedCredit := candidate < 0
	account.balance = candidate
	return account.journal.append(account.holder, OperationRecord{
		Type:         OperationWithdraw,
		Amount:       amount,
		BalanceAfter: account.balance,
		Status:       StatusSuccess,
		Credit: &CreditMeta{
			UsedCredit:           usedCredit,
			AvailableCreditAfter: account.creditLimit + account.balance,
		},
	})
}

// Deposit credits the account. UsedCredit reports whether the balance was
// negative before this deposit, even when the deposit fully repays the
// drawn credit.
func (account *CreditAccount) Deposit(amount float64) OperationRecord {
	if amount <= 0 {
		return account.journal.append(account.holder, OperationRecord{
			Type:         OperationDeposit,
			Amount:       amount,
			BalanceAfter: account.balance,
			Status:       StatusFail,
			Reason:       ReasonAmountNotPositive,
		})
	}
	usedCredit := account.balance < 0
	account.balance += amount
	return account.journal.append(account.holder, OperationRecord{
		Type:         OperationDeposit,
		Amount:       amount,
		BalanceAfter: account.balance,
		Status:       StatusSuccess,
		Credit: &CreditMeta{
			UsedCredit:           usedCredit,
			AvailableCreditAfter: account.creditLimit + account.balance,
		},
	})
}
