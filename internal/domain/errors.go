package domain

import (
	"errors"
	"fmt"
)

// Ошибки жизненного цикла заказа
var (
	ErrIllegalTransition      = errors.New("illegal status transition")
	ErrNoActiveOrder          = errors.New("no active order")
	ErrOrderExpired           = errors.New("order expired")
	ErrVerificationInProgress = errors.New("verification already in progress")
	ErrReferenceTypeNotSet    = errors.New("reference type not set")
	ErrBeneficiaryNotSelected = errors.New("beneficiary not selected")
	ErrBeneficiaryNotFound    = errors.New("beneficiary not found")
	ErrInvalidCoolingMinutes  = errors.New("invalid cooling minutes")
	ErrAmountOutOfRange       = errors.New("amount out of range")
	ErrInvalidPaymentMethod   = errors.New("invalid payment method")
	ErrResumeRejected         = errors.New("entry cannot be resumed")
	ErrOrderSuperseded        = errors.New("order superseded during verification")
)

// Ошибки истории
var (
	ErrDuplicateEntry      = errors.New("ledger entry already exists")
	ErrLedgerEntryNotFound = errors.New("ledger entry not found")
	ErrEntryFrozen         = errors.New("ledger entry is frozen")
)

// Ошибки внешних систем
var (
	ErrRateUnavailable  = errors.New("exchange rate unavailable")
	ErrSettlementFailed = errors.New("settlement failed")
)

// Ошибки хранилища
var (
	ErrStateNotFound = errors.New("state not found")
)

// ValidationError - синтаксическая ошибка референса, до вызова верификатора
type ValidationError struct {
	ReferenceType ReferenceType
	Reason        string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s reference: %s", e.ReferenceType, e.Reason)
}

// Code возвращает код ошибки
func (e *ValidationError) Code() ErrorCode {
	return ErrorCodeValidation
}
