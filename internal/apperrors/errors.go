package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrConflict indicates a concurrent modification was detected; caller should re-read and retry once.
var ErrConflict = errors.New("conflicting concurrent modification")

// ErrForbidden indicates the acting user is not allowed to touch the resource.
var ErrForbidden = errors.New("operation not allowed for this user")

// ErrInsufficientFunds indicates a debit would drive an account balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrOverpayment indicates a payment exceeds the open balance of a purchase.
var ErrOverpayment = errors.New("payment exceeds open balance")

// ErrAlreadySettled indicates a payment was attempted against a fully settled purchase.
var ErrAlreadySettled = errors.New("purchase already settled")

// ErrRecurrenceExhausted signals that a recurrence rule reached its end date or
// occurrence cap. Not a failure; a normal terminal outcome.
var ErrRecurrenceExhausted = errors.New("recurrence rule exhausted")
