package dto

import (
	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
)

// CashflowSummaryParams bounds the reporting period. Both dates are inclusive.
type CashflowSummaryParams struct {
	From string `form:"from" binding:"required,datetime=2006-01-02"`
	To   string `form:"to" binding:"required,datetime=2006-01-02"`
}

// CashflowSummaryResponse presents the aggregated movement for a period.
type CashflowSummaryResponse struct {
	From                  string `json:"from"`
	To                    string `json:"to"`
	EntriesTotal          string `json:"entriesTotal"`
	ExpensesPaidTotal     string `json:"expensesPaidTotal"`
	SupplierPaymentsTotal string `json:"supplierPaymentsTotal"`
	NetMovement           string `json:"netMovement"`
}

// ToCashflowSummaryResponse converts a domain.CashflowSummary.
func ToCashflowSummaryResponse(s *domain.CashflowSummary) CashflowSummaryResponse {
	return CashflowSummaryResponse{
		From:                  FormatDate(s.From),
		To:                    FormatDate(s.To),
		EntriesTotal:          moneybr.Format(s.EntriesTotal),
		ExpensesPaidTotal:     moneybr.Format(s.ExpensesPaidTotal),
		SupplierPaymentsTotal: moneybr.Format(s.SupplierPaymentsTotal),
		NetMovement:           moneybr.Format(s.NetMovement),
	}
}
