package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceHistoryRecord is one link in an entity's append-only audit chain.
// For a given entity, records ordered by RecordedAt must chain: each record's
// ValueBefore equals the previous record's ValueAfter.
type BalanceHistoryRecord struct {
	RecordID    string          `json:"recordID"` // Primary Key (UUID)
	EntityID    string          `json:"entityID"` // Account or supplier id
	ValueBefore decimal.Decimal `json:"valueBefore"`
	ValueAfter  decimal.Decimal `json:"valueAfter"`
	Note        string          `json:"note"`
	RecordedAt  time.Time       `json:"recordedAt"`
	RecordedBy  string          `json:"recordedBy"`
}
