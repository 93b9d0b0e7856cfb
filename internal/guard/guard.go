// Package guard решает, может ли сессия открыть шаг мастера оплаты,
// и куда перенаправить, если нет.
package guard

import (
	"strings"

	"github.com/avc/crypto-bridge/internal/domain"
)

// Step - шаг мастера оплаты
type Step string

const (
	StepExplain         Step = "explain"
	StepPayment         Step = "payment"
	StepBeneficiary     Step = "beneficiary"
	StepCoolingSelect   Step = "cooling-select"
	StepCooling         Step = "cooling"
	StepVerify          Step = "verify"
	StepSuccess         Step = "success"
	StepExpired         Step = "expired"
	StepMerchantHistory Step = "merchant-history"
)

// Steps - все шаги в порядке мастера
var Steps = []Step{
	StepExplain,
	StepPayment,
	StepBeneficiary,
	StepCoolingSelect,
	StepCooling,
	StepVerify,
	StepSuccess,
	StepExpired,
	StepMerchantHistory,
}

// ParseStep разбирает имя шага
func ParseStep(s string) (Step, bool) {
	for _, step := range Steps {
		if string(step) == s {
			return step, true
		}
	}
	return "", false
}

// Decision - результат проверки доступа к шагу
type Decision struct {
	Step     Step `json:"step"`
	Allowed  bool `json:"allowed"`
	Redirect Step `json:"redirect,omitempty"`
}

// CanEnterPayment разрешает шаг оплаты до завершения проверки
func CanEnterPayment(status domain.InvoiceStatus) bool {
	switch status {
	case domain.StatusDraft,
		domain.StatusAwaitingPayment,
		domain.StatusAwaitingBeneficiary,
		domain.StatusCooling,
		domain.StatusReadyForVerification,
		domain.StatusVerifying,
		domain.StatusFailed:
		return true
	}
	return false
}

// CanEnterBeneficiarySelection требует банковский перевод
func CanEnterBeneficiarySelection(method domain.PaymentMethod) bool {
	return method == domain.PaymentMethodBank
}

// CanEnterCoolingSelection требует выбранного получателя
func CanEnterCoolingSelection(beneficiary *domain.Beneficiary) bool {
	return beneficiary != nil
}

// CanEnterCooling требует получателя или уже идущего охлаждения
func CanEnterCooling(beneficiary *domain.Beneficiary, status domain.InvoiceStatus) bool {
	return beneficiary != nil || status == domain.StatusCooling
}

// CanEnterVerification разрешает ввод референса, проверку и повтор после отказа
func CanEnterVerification(status domain.InvoiceStatus) bool {
	return status == domain.StatusReadyForVerification ||
		status == domain.StatusVerifying ||
		status == domain.StatusFailed
}

// CanEnterSuccess требует подтвержденный референс и непустой номер заказа
func CanEnterSuccess(status domain.InvoiceStatus, referenceVerified bool, orderID string) bool {
	return status == domain.StatusVerified && referenceVerified && strings.TrimSpace(orderID) != ""
}

// Evaluate проверяет доступ к шагу для текущего заказа.
// Истечение сессии проверяется до вызова.
func Evaluate(step Step, order domain.Order) Decision {
	allow := Decision{Step: step, Allowed: true}
	deny := func(to Step) Decision {
		return Decision{Step: step, Redirect: to}
	}

	if step == StepExpired {
		return allow
	}
	if order.InvoiceStatus == domain.StatusExpired {
		return deny(StepExpired)
	}

	status := order.InvoiceStatus

	switch step {
	case StepExplain, StepMerchantHistory:
		return allow

	case StepPayment:
		if CanEnterPayment(status) {
			return allow
		}
		if status == domain.StatusVerified {
			return deny(StepSuccess)
		}
		return deny(StepExplain)

	case StepBeneficiary:
		if CanEnterBeneficiarySelection(order.PaymentMethod) {
			return allow
		}
		return deny(StepPayment)

	case StepCoolingSelect:
		if CanEnterCoolingSelection(order.SelectedBeneficiary) {
			return allow
		}
		return deny(StepBeneficiary)

	case StepCooling:
		if CanEnterCooling(order.SelectedBeneficiary, status) {
			return allow
		}
		return deny(StepBeneficiary)

	case StepVerify:
		if CanEnterVerification(status) {
			return allow
		}
		switch status {
		case domain.StatusVerified:
			return deny(StepSuccess)
		case domain.StatusCooling:
			return deny(StepCooling)
		}
		return deny(StepPayment)

	case StepSuccess:
		if CanEnterSuccess(status, order.ReferenceVerified, order.OrderID) {
			return allow
		}
		switch {
		case status == domain.StatusReadyForVerification || status == domain.StatusFailed:
			return deny(StepVerify)
		case status == domain.StatusCooling:
			return deny(StepCooling)
		case strings.TrimSpace(order.OrderID) == "":
			return deny(StepExplain)
		}
		return deny(StepPayment)
	}

	return deny(StepExplain)
}
