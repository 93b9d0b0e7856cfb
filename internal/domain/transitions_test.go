package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from InvoiceStatus
		to   InvoiceStatus
		want bool
	}{
		{"Draft to awaiting payment", StatusDraft, StatusAwaitingPayment, true},
		{"Draft to awaiting beneficiary", StatusDraft, StatusAwaitingBeneficiary, true},
		{"Draft to verifying", StatusDraft, StatusVerifying, false},
		{"Awaiting beneficiary to cooling", StatusAwaitingBeneficiary, StatusCooling, true},
		{"Cooling to ready", StatusCooling, StatusReadyForVerification, true},
		{"Cooling to verifying", StatusCooling, StatusVerifying, false},
		{"Ready to verifying", StatusReadyForVerification, StatusVerifying, true},
		{"Verifying to verified", StatusVerifying, StatusVerified, true},
		{"Verifying to failed", StatusVerifying, StatusFailed, true},
		{"Failed to ready", StatusFailed, StatusReadyForVerification, true},
		{"Failed to verifying", StatusFailed, StatusVerifying, true},
		{"Verified to failed", StatusVerified, StatusFailed, false},
		{"Verified to expired", StatusVerified, StatusExpired, false},
		{"Expired to draft", StatusExpired, StatusDraft, false},
		{"Unknown status", InvoiceStatus("PAID"), StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestTransition(t *testing.T) {
	assert.NoError(t, Transition(StatusDraft, StatusAwaitingPayment))

	err := Transition(StatusCooling, StatusVerified)
	assert.ErrorIs(t, err, ErrIllegalTransition)
	assert.Contains(t, err.Error(), "COOLING -> VERIFIED")
}

func TestEveryNonTerminalStatusCanExpire(t *testing.T) {
	for status := range invoiceTransitions {
		if status.IsTerminal() {
			assert.Empty(t, invoiceTransitions[status], status)
			continue
		}
		assert.True(t, CanTransition(status, StatusExpired), status)
	}
}

func TestCanTransitionTx(t *testing.T) {
	assert.True(t, CanTransitionTx(TxStatusPending, TxStatusPaymentVerification))
	assert.True(t, CanTransitionTx(TxStatusPaymentVerification, TxStatusSuccessful))
	assert.True(t, CanTransitionTx(TxStatusFailed, TxStatusFailed))
	assert.True(t, CanTransitionTx(TxStatusFailed, TxStatusSuccessful))
	assert.False(t, CanTransitionTx(TxStatusFailed, TxStatusPending))
	assert.False(t, CanTransitionTx(TxStatusSuccessful, TxStatusFailed))
	assert.False(t, CanTransitionTx(TxStatusPaymentVerification, TxStatusPending))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, StatusCooling.Valid())
	assert.False(t, InvoiceStatus("cooling").Valid())
	assert.True(t, TxStatusPending.Valid())
	assert.False(t, MerchantTxStatus("DONE").Valid())
}

func TestOrderClone(t *testing.T) {
	minutes := 30
	o := Order{
		OrderID:             "ORD-123456",
		SelectedBeneficiary: &Beneficiary{ID: "BEN-001"},
		CoolingMinutes:      &minutes,
		VerificationError:   &VerificationError{Code: ErrorCodeFraud},
	}

	c := o.Clone()
	c.SelectedBeneficiary.ID = "BEN-002"
	*c.CoolingMinutes = 5
	c.VerificationError.Code = ErrorCodeNotFound

	assert.Equal(t, "BEN-001", o.SelectedBeneficiary.ID)
	assert.Equal(t, 30, *o.CoolingMinutes)
	assert.Equal(t, ErrorCodeFraud, o.VerificationError.Code)
}
