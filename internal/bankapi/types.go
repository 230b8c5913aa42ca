package bankapi

import (
	"time"

	"github.com/MarkoPoloResearchLab/bankbook/internal/registry"
	"github.com/MarkoPoloResearchLab/bankbook/pkg/bank"
)

// SessionEnvelope is returned when a holder session is created.
type SessionEnvelope struct {
	Token   string `json:"token"`
	Holder  string `json:"holder"`
	Expires int64  `json:"expires"`
}

// AccountPayload mirrors the registry summary for the API.
type AccountPayload struct {
	AccountID       string  `json:"account_id"`
	Holder          string  `json:"holder"`
	Kind            string  `json:"kind"`
	Balance         float64 `json:"balance"`
	AvailableCredit float64 `json:"available_credit"`
}

// AccountEnvelope wraps a single account view.
type AccountEnvelope struct {
	Account AccountPayload `json:"account"`
}

// RecordPayload mirrors one journaled operation record.
type RecordPayload struct {
	Type                 string    `json:"type"`
	Amount               float64   `json:"amount"`
	Timestamp            time.Time `json:"timestamp"`
	BalanceAfter         float64   `json:"balance_after"`
	Status               string    `json:"status"`
	Reason               string    `json:"reason,omitempty"`
	UsedCredit           *bool     `json:"used_credit,omitempty"`
	AvailableCreditAfter *float64  `json:"available_credit_after,omitempty"`
}

// OperationEnvelope pairs a journaled record with the refreshed account view.
type OperationEnvelope struct {
	Record  RecordPayload  `json:"record"`
	Account AccountPayload `json:"account"`
}

// HistoryEnvelope wraps an account's journal slice.
type HistoryEnvelope struct {
	AccountID string          `json:"account_id"`
	Records   []RecordPayload `json:"records"`
}

// ErrorEnvelope encodes API errors.
type ErrorEnvelope struct {
	Error ErrorPayload `json:"error"`
}

// ErrorPayload contains the code and message for user-visible errors.
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type sessionRequest struct {
	Holder string `json:"holder"`
}

type openAccountRequest struct {
	Kind           string  `json:"kind"`
	InitialBalance float64 `json:"initial_balance"`
	CreditLimit    float64 `json:"credit_limit"`
}

type amountRequest struct {
	Amount float64 `json:"amount"`
}

func accountPayload(summary registry.Summary) AccountPayload {
	return AccountPayload{
		AccountID:       summary.AccountID,
		Holder:          summary.Holder,
		Kind:            string(summary.Kind),
		Balance:         summary.Balance,
		AvailableCredit: summary.AvailableCredit,
	}
}

func recordPayload(record bank.OperationRecord) RecordPayload {
	payload := RecordPayload{
		Type:         string(record.Type),
		Amount:       record.Amount,
		Timestamp:    record.Timestamp,
		BalanceAfter: record.BalanceAfter,
		Status:       string(record.Status),
		Reason:       string(record.Reason),
	}
	if record.Credit != nil {
		usedCredit := record.Credit.UsedCredit
		availableAfter := record.Credit.AvailableCreditAfter
		payload.UsedCredit = &usedCredit
		payload.AvailableCreditAfter = &availableAfter
	}
	return payload
}

func recordPayloads(records []bank.OperationRecord) []RecordPayload {
	payloads := make([]RecordPayload, len(records))
	for index, record := range records {
		payloads[index] = recordPayload(record)
	}
	return payloads
}

func errorResponse(code string, message string) ErrorEnvelope {
	return ErrorEnvelope{Error: ErrorPayload{Code: code, Message: message}}
}
