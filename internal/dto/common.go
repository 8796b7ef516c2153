package dto

import (
	"fmt"
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/apperrors"
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
)

// DateFormat is how calendar dates cross the API boundary.
const DateFormat = "2006-01-02"

// ParseDate parses a YYYY-MM-DD boundary date.
func ParseDate(value string) (time.Time, error) {
	t, err := time.Parse(DateFormat, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", apperrors.ErrValidation, value)
	}
	return t, nil
}

// FormatDate renders a date in the boundary form.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// BalanceHistoryResponse is the boundary form of a BalanceHistoryRecord.
type BalanceHistoryResponse struct {
	RecordID    string    `json:"recordID"`
	EntityID    string    `json:"entityID"`
	ValueBefore string    `json:"valueBefore"`
	ValueAfter  string    `json:"valueAfter"`
	Note        string    `json:"note"`
	RecordedAt  time.Time `json:"recordedAt"`
	RecordedBy  string    `json:"recordedBy"`
}

// ToBalanceHistoryResponse converts a domain record to its boundary form.
func ToBalanceHistoryResponse(r *domain.BalanceHistoryRecord) BalanceHistoryResponse {
	return BalanceHistoryResponse{
		RecordID:    r.RecordID,
		EntityID:    r.EntityID,
		ValueBefore: moneybr.Format(r.ValueBefore),
		ValueAfter:  moneybr.Format(r.ValueAfter),
		Note:        r.Note,
		RecordedAt:  r.RecordedAt,
		RecordedBy:  r.RecordedBy,
	}
}

// ToBalanceHistoryResponses converts a slice of history records.
func ToBalanceHistoryResponses(records []domain.BalanceHistoryRecord) []BalanceHistoryResponse {
	res := make([]BalanceHistoryResponse, len(records))
	for i := range records {
		res[i] = ToBalanceHistoryResponse(&records[i])
	}
	return res
}
