package dto

import (
	"time"

	"github.com/caixasimples/caixa_simples_app/internal/core/domain"
	"github.com/caixasimples/caixa_simples_app/internal/utils/moneybr"
	"github.com/shopspring/decimal"
)

// CreatePurchaseRequest defines the data needed to record a supplier purchase.
type CreatePurchaseRequest struct {
	SupplierID   string  `json:"supplierID" binding:"required"`
	PurchaseDate string  `json:"purchaseDate" binding:"required,datetime=2006-01-02"`
	Description  string  `json:"description" binding:"required"`
	Category     string  `json:"category"`
	TotalAmount  string  `json:"totalAmount" binding:"required,moneybr"`
	Mode         string  `json:"mode" binding:"required,oneof=CASH CREDIT"`
	DueDate      *string `json:"dueDate" binding:"omitempty,datetime=2006-01-02"`
}

// ApplyPaymentRequest settles (part of) a purchase out of an account.
type ApplyPaymentRequest struct {
	AccountID   string `json:"accountID" binding:"required"`
	Amount      string `json:"amount" binding:"required,moneybr"`
	PaymentDate string `json:"paymentDate" binding:"omitempty,datetime=2006-01-02"`
	Note        string `json:"note"`
}

// ListPurchasesParams defines the optional filter set for listing purchases.
type ListPurchasesParams struct {
	SupplierID *string `form:"supplierID"`
	Status     *string `form:"status" binding:"omitempty,oneof=OPEN PARTIAL SETTLED"`
	Limit      int     `form:"limit,default=20"`
	Offset     int     `form:"offset,default=0"`
}

// PaymentResponse defines the data returned for a posted payment.
type PaymentResponse struct {
	PaymentID     string    `json:"paymentID"`
	PurchaseID    string    `json:"purchaseID"`
	AccountID     string    `json:"accountID"`
	PaymentDate   string    `json:"paymentDate"`
	Amount        string    `json:"amount"`
	Kind          string    `json:"kind"`
	BalanceBefore string    `json:"balanceBefore"`
	BalanceAfter  string    `json:"balanceAfter"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	CreatedBy     string    `json:"createdBy"`
}

// PurchaseResponse defines the data returned for a purchase. OpenBalance and
// PaidTotal are derived from the payment set at read time.
type PurchaseResponse struct {
	PurchaseID    string            `json:"purchaseID"`
	SupplierID    string            `json:"supplierID"`
	PurchaseDate  string            `json:"purchaseDate"`
	Description   string            `json:"description"`
	Category      string            `json:"category"`
	TotalAmount   string            `json:"totalAmount"`
	Mode          string            `json:"mode"`
	DueDate       *string           `json:"dueDate,omitempty"`
	Status        string            `json:"status"`
	PaidTotal     string            `json:"paidTotal"`
	OpenBalance   string            `json:"openBalance"`
	Payments      []PaymentResponse `json:"payments,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"`
	LastUpdatedAt time.Time         `json:"lastUpdatedAt"`
	LastUpdatedBy string            `json:"lastUpdatedBy"`
}

// ToPaymentResponse converts a domain.Payment.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		PurchaseID:    p.PurchaseID,
		AccountID:     p.AccountID,
		PaymentDate:   FormatDate(p.PaymentDate),
		Amount:        moneybr.Format(p.Amount),
		Kind:          string(p.Kind),
		BalanceBefore: moneybr.Format(p.BalanceBefore),
		BalanceAfter:  moneybr.Format(p.BalanceAfter),
		Notes:         p.Notes,
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
	}
}

// ToPaymentResponses converts a slice of payments.
func ToPaymentResponses(payments []domain.Payment) []PaymentResponse {
	res := make([]PaymentResponse, len(payments))
	for i := range payments {
		res[i] = ToPaymentResponse(&payments[i])
	}
	return res
}

// ToPurchaseResponse converts a domain.Purchase together with its payments.
func ToPurchaseResponse(p *domain.Purchase, payments []domain.Payment) PurchaseResponse {
	paid := decimal.Zero
	for _, pay := range payments {
		paid = paid.Add(pay.Amount)
	}
	resp := PurchaseResponse{
		PurchaseID:    p.PurchaseID,
		SupplierID:    p.SupplierID,
		PurchaseDate:  FormatDate(p.PurchaseDate),
		Description:   p.Description,
		Category:      p.Category,
		TotalAmount:   moneybr.Format(p.TotalAmount),
		Mode:          string(p.Mode),
		Status:        string(p.Status),
		PaidTotal:     moneybr.Format(paid),
		OpenBalance:   moneybr.Format(domain.OpenBalance(p.TotalAmount, paid)),
		Payments:      ToPaymentResponses(payments),
		CreatedAt:     p.CreatedAt,
		CreatedBy:     p.CreatedBy,
		LastUpdatedAt: p.LastUpdatedAt,
		LastUpdatedBy: p.LastUpdatedBy,
	}
	if p.DueDate != nil {
		s := FormatDate(*p.DueDate)
		resp.DueDate = &s
	}
	return resp
}
