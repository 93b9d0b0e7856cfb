package domain

import "fmt"

// invoiceTransitions - таблица допустимых переходов заказа.
// Пересоздание заказа, сброс сессии и возобновление из истории
// не являются переходами и таблицу не используют.
var invoiceTransitions = map[InvoiceStatus][]InvoiceStatus{
	StatusDraft: {
		StatusAwaitingPayment,
		StatusAwaitingBeneficiary,
		StatusExpired,
	},
	StatusAwaitingPayment: {
		StatusAwaitingPayment,
		StatusAwaitingBeneficiary,
		StatusReadyForVerification,
		StatusVerifying,
		StatusDraft,
		StatusExpired,
	},
	StatusAwaitingBeneficiary: {
		StatusAwaitingBeneficiary,
		StatusAwaitingPayment,
		StatusCooling,
		StatusReadyForVerification,
		StatusDraft,
		StatusExpired,
	},
	StatusCooling: {
		StatusReadyForVerification,
		StatusExpired,
	},
	StatusReadyForVerification: {
		StatusVerifying,
		StatusDraft,
		StatusExpired,
	},
	StatusVerifying: {
		StatusVerified,
		StatusFailed,
		StatusExpired,
	},
	StatusFailed: {
		StatusReadyForVerification,
		StatusVerifying,
		StatusDraft,
		StatusExpired,
	},
	StatusVerified: {},
	StatusExpired:  {},
}

// txTransitions - таблица переходов записей истории.
// Терминальный статус допускает только повторное применение самого себя,
// кроме FAILED -> SUCCESSFUL при успешной повторной проверке связанной записи.
var txTransitions = map[MerchantTxStatus][]MerchantTxStatus{
	TxStatusPending: {
		TxStatusPaymentVerification,
		TxStatusSuccessful,
		TxStatusFailed,
	},
	TxStatusPaymentVerification: {
		TxStatusSuccessful,
		TxStatusFailed,
	},
	TxStatusSuccessful: {TxStatusSuccessful},
	TxStatusFailed:     {TxStatusFailed, TxStatusSuccessful},
}

// CanTransition проверяет допустимость перехода заказа
func CanTransition(from, to InvoiceStatus) bool {
	for _, s := range invoiceTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Transition возвращает ошибку, если переход заказа недопустим
func Transition(from, to InvoiceStatus) error {
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrIllegalTransition, from, to)
	}
	return nil
}

// CanTransitionTx проверяет допустимость перехода записи истории
func CanTransitionTx(from, to MerchantTxStatus) bool {
	for _, s := range txTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}
