// Package registry hosts accounts behind per-account locks. The bookkeeping
// core is single-threaded by design, so every operation on an account is
// serialized through its entry mutex.
package registry

import (
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/MarkoPoloResearchLab/bankbook/pkg/bank"
)

// Registry-level error values.
var (
	ErrUnknownAccount = errors.New("unknown account")
	ErrNotOwner       = errors.New("account owned by another holder")
	ErrInvalidKind    = errors.New("invalid account kind")
)

// Kind selects the account variant opened by the registry.
type Kind string

const (
	KindStandard Kind = "standard"
	KindCredit   Kind = "credit"
)

// OpenSpec describes an account to be opened.
type OpenSpec struct {
	Kind           Kind
	InitialBalance float64
	CreditLimit    float64
}

// Summary is a point-in-time view of one account.
type Summary struct {
	AccountID       string
	Holder          string
	Kind            Kind
	Balance         float64
	AvailableCredit float64
}

// Registry keys accounts by generated UUID and scopes them to their holder.
type Registry struct {
	mu       sync.RWMutex
	accounts map[string]*entry
	options  []bank.Option
}

type entry struct {
	mu      sync.Mutex
	holder  string
	kind    Kind
	account bank.Transactable
}

// New wires an empty registry. The options are applied to every account it
// opens.
func New(options ...bank.Option) *Registry {
	return &Registry{
		accounts: make(map[string]*entry),
		options:  options,
	}
}

// Open creates an account for holder and returns its summary. Construction
// validation failures surface as wrapped bank errors.
func (registry *Registry) Open(holder string, spec OpenSpec) (Summary, error) {
	var (
		account bank.Transactable
		err     error
	)
	switch spec.Kind {
	case KindStandard:
		account, err = bank.NewAccount(holder, spec.InitialBalance, registry.options...)
	case KindCredit:
		account, err = bank.NewCreditAccount(holder, spec.InitialBalance, spec.CreditLimit, registry.options...)
	default:
		err = fmt.Errorf("%w: %q", ErrInvalidKind, spec.Kind)
	}
	if err != nil {
		return Summary{}, bank.WrapError("registry", "account", "open_rejected", err)
	}
	accountID := uuid.NewString()
	stored := &entry{holder: holder, kind: spec.Kind, account: account}
	registry.mu.Lock()
	registry.accounts[accountID] = stored
	registry.mu.Unlock()
	return summarize(accountID, stored), nil
}

// Deposit runs a deposit under the account lock and returns the journaled
// record together with a refreshed summary.
func (registry *Registry) Deposit(holder string, accountID string, amount float64) (bank.OperationRecord, Summary, error) {
	stored, err := registry.lookup(holder, accountID)
	if err != nil {
		return bank.OperationRecord{}, Summary{}, err
	}
	stored.mu.Lock()
	defer stored.mu.Unlock()
	record := stored.account.Deposit(amount)
	return record, summarize(accountID, stored), nil
}

// Withdraw runs a withdrawal under the account lock and returns the
// journaled record together with a refreshed summary.
func (registry *Registry) Withdraw(holder string, accountID string, amount float64) (bank.OperationRecord, Summary, error) {
	stored, err := registry.lookup(holder, accountID)
	if err != nil {
		return bank.OperationRecord{}, Summary{}, err
	}
	stored.mu.Lock()
	defer stored.mu.Unlock()
	record := stored.account.Withdraw(amount)
	return record, summarize(accountID, stored), nil
}

// Summary returns the current view of one account.
func (registry *Registry) Summary(holder string, accountID string) (Summary, error) {
	stored, err := registry.lookup(holder, accountID)
	if err != nil {
		return Summary{}, err
	}
	stored.mu.Lock()
	defer stored.mu.Unlock()
	return summarize(accountID, stored), nil
}

// History returns the most recent records in insertion order, capped at
// limit when limit is positive.
func (registry *Registry) History(holder string, accountID string, limit int) ([]bank.OperationRecord, error) {
	stored, err := registry.lookup(holder, accountID)
	if err != nil {
		return nil, err
	}
	stored.mu.Lock()
	defer stored.mu.Unlock()
	records := stored.account.History()
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}
	return records, nil
}

func (registry *Registry) lookup(holder string, accountID string) (*entry, error) {
	registry.mu.RLock()
	stored, exists := registry.accounts[accountID]
	registry.mu.RUnlock()
	if !exists {
		return nil, bank.WrapError("registry", "account", "not_found", ErrUnknownAccount)
	}
	if stored.holder != holder {
		return nil, bank.WrapError("registry", "account", "forbidden", ErrNotOwner)
	}
	return stored, nil
}

func summarize(accountID string, stored *entry) Summary {
	return Summary{
		AccountID:       accountID,
		Holder:          stored.holder,
		Kind:            stored.kind,
		Balance:         stored.account.Balance(),
		AvailableCredit: stored.account.AvailableCredit(),
	}
}
