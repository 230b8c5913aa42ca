package bank

import "time"

// journal is the append-only recorder behind every account. It owns the
// clock and the optional operation logger so both account variants share a
// single recording path. Records are never reordered or pruned.
type journal struct {
	nowFn   func() time.Time
	logger  OperationLogger
	records []OperationRecord
}

func newJournal(options ...Option) *journal {
	journal := &journal{nowFn: time.Now}
	for _, option := range options {
		if option != nil {
			option(journal)
		}
	}
	return journal
}

// append stamps the record, stores it, and returns a caller-safe copy.
func (journal *journal) append(holder string, record OperationRecord) OperationRecord {
	record.Timestamp = journal.nowFn()
	journal.records = append(journal.records, record)
	if journal.logger != nil {
		journal.logger.LogOperation(OperationLog{
			Holder:       holder,
			Operation:    record.Type,
			Amount:       record.Amount,
			Status:       record.Status,
			Reason:       record.Reason,
			BalanceAfter: record.BalanceAfter,
		})
	}
	return record.Clone()
}

// snapshot returns deep copies of every record in insertion order.
func (journal *journal) snapshot() []OperationRecord {
	copies := make([]OperationRecord, len(journal.records))
	for index, record := range journal.records {
		copies[index] = record.Clone()
	}
	return copies
}
