package dto

import (
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
)

// RecurrenceRuleDTO is the boundary form of a recurrence rule.
type RecurrenceRuleDTO struct {
	Period        string  `json:"period" binding:"required,oneof=MONTHLY BIMONTHLY QUARTERLY SEMIANNUAL ANNUAL"`
	DayOfMonth    int     `json:"dayOfMonth" binding:"required,min=1,max=31"`
	EndDate       *string `json:"endDate" binding:"omitempty,datetime=2006-01-02"`
	OccurrenceCap *int    `json:"occurrenceCap" binding:"omitempty,min=1"`
}

// ToDomainRecurrence converts the DTO to the domain rule.
func (r *RecurrenceRuleDTO) ToDomainRecurrence() (*domain.RecurrenceRule, error) {
	if r == nil {
		return nil, nil
	}
	rule := &domain.RecurrenceRule{
		Period:        domain.RecurrencePeriod(r.Period),
		DayOfMonth:    r.DayOfMonth,
		OccurrenceCap: r.OccurrenceCap,
	}
	if r.EndDate != nil {
		end, err := ParseDate(*r.EndDate)
		if err != nil {
			return nil, err
		}
		rule.EndDate = &end
	}
	return rule, nil
}

func toRecurrenceDTO(rule *domain.RecurrenceRule) *RecurrenceRuleDTO {
	if rule == nil {
		return nil
	}
	out := &RecurrenceRuleDTO{
		Period:        string(rule.Period),
		DayOfMonth:    rule.DayOfMonth,
		OccurrenceCap: rule.OccurrenceCap,
	}
	if rule.EndDate != nil {
		s := FormatDate(*rule.EndDate)
		out.EndDate = &s
	}
	return out
}

// CreateExpenseRequest defines the data needed to create an expense.
type CreateExpenseRequest struct {
	AccountID   string             `json:"accountID" binding:"required"`
	Category    string             `json:"category" binding:"required"`
	Description string             `json:"description"`
	Amount      string             `json:"amount" binding:"required,moneybr"`
	Subtype     string             `json:"subtype" binding:"required,oneof=RECURRING ONE_OFF"`
	DueDate     string             `json:"dueDate" binding:"required,datetime=2006-01-02"`
	Recurrence  *RecurrenceRuleDTO `json:"recurrence"`
}

// UpdateExpenseRequest enumerates the mutable fields of a pending expense.
type UpdateExpenseRequest struct {
	Category    *string            `json:"category"`
	Description *string            `json:"description"`
	Amount      *string            `json:"amount" binding:"omitempty,moneybr"`
	DueDate     *string            `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
	Recurrence  *RecurrenceRuleDTO `json:"recurrence"`
}

// MarkExpensePaidRequest settles a pending expense out of an account.
type MarkExpensePaidRequest struct {
	AccountID string `json:"accountID" binding:"required"`
	PaidDate  string `json:"paidDate" binding:"required,datetime=2006-01-02"`
}

// ListExpensesParams defines the optional filter set for listing expenses.
type ListExpensesParams struct {
	DateFrom  *string `form:"dateFrom" binding:"omitempty,datetime=2006-01-02"`
	DateTo    *string `form:"dateTo" binding:"omitempty,datetime=2006-01-02"`
	AccountID *string `form:"accountID"`
	Category  *string `form:"category"`
	Status    *string `form:"status" binding:"omitempty,oneof=PENDING PAID OVERDUE"`
	Subtype   *string `form:"subtype" binding:"omitempty,oneof=RECURRING ONE_OFF"`
	Text      *string `form:"text"`
	Limit     int     `form:"limit,default=20"`
	Offset    int     `form:"offset,default=0"`
}

// ExpenseResponse defines the data returned for an expense. Status carries the
// effective status: a pending expense past its due date reads as OVERDUE.
type ExpenseResponse struct {
	ExpenseID     string             `json:"expenseID"`
	AccountID     string             `json:"accountID"`
	Category      string             `json:"category"`
	Description   string             `json:"description"`
	Amount        string             `json:"amount"`
	Subtype       string             `json:"subtype"`
	Status        string             `json:"status"`
	DueDate       string             `json:"dueDate"`
	PaidDate      *string            `json:"paidDate,omitempty"`
	Recurrence    *RecurrenceRuleDTO `json:"recurrence,omitempty"`
	OriginID      *string            `json:"originID,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	CreatedBy     string             `json:"createdBy"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
	LastUpdatedBy string             `json:"lastUpdatedBy"`
}

// ToExpenseResponse converts a domain.Expense, projecting overdue as of today.
func ToExpenseResponse(e *domain.Expense, today time.Time) ExpenseResponse {
	resp := ExpenseResponse{
		ExpenseID:     e.ExpenseID,
		AccountID:     e.AccountID,
		Category:      e.Category,
		Description:   e.Description,
		Amount:        moneybr.Format(e.Amount),
		Subtype:       string(e.Subtype),
		Status:        string(e.EffectiveStatus(today)),
		DueDate:       FormatDate(e.DueDate),
		Recurrence:    toRecurrenceDTO(e.Recurrence),
		OriginID:      e.OriginID,
		CreatedAt:     e.CreatedAt,
		CreatedBy:     e.CreatedBy,
		LastUpdatedAt: e.LastUpdatedAt,
		LastUpdatedBy: e.LastUpdatedBy,
	}
	if e.PaidDate != nil {
		s := FormatDate(*e.PaidDate)
		resp.PaidDate = &s
	}
	return resp
}

// ToExpenseResponses converts a slice of expenses.
func ToExpenseResponses(expenses []domain.Expense, today time.Time) []ExpenseResponse {
	res := make([]ExpenseResponse, len(expenses))
	for i := range expenses {
		res[i] = ToExpenseResponse(&expenses[i], today)
	}
	return res
}
