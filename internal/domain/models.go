package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus представляет состояние активного заказа
type InvoiceStatus string

const (
	StatusDraft                InvoiceStatus = "DRAFT"
	StatusAwaitingPayment      InvoiceStatus = "AWAITING_PAYMENT"
	StatusAwaitingBeneficiary  InvoiceStatus = "AWAITING_BENEFICIARY"
	StatusCooling              InvoiceStatus = "COOLING"
	StatusReadyForVerification InvoiceStatus = "READY_FOR_VERIFICATION"
	StatusVerifying            InvoiceStatus = "VERIFYING"
	StatusVerified             InvoiceStatus = "VERIFIED"
	StatusFailed               InvoiceStatus = "FAILED"
	StatusExpired              InvoiceStatus = "EXPIRED"
)

// Valid проверяет, что статус входит в закрытый набор значений
func (s InvoiceStatus) Valid() bool {
	_, ok := invoiceTransitions[s]
	return ok
}

// IsTerminal возвращает true для состояний без исходящих переходов
func (s InvoiceStatus) IsTerminal() bool {
	return s == StatusVerified || s == StatusExpired
}

// MerchantTxStatus представляет статус записи в истории мерчанта
type MerchantTxStatus string

const (
	TxStatusPending             MerchantTxStatus = "PENDING"
	TxStatusPaymentVerification MerchantTxStatus = "PAYMENT_VERIFICATION"
	TxStatusSuccessful          MerchantTxStatus = "SUCCESSFUL"
	TxStatusFailed              MerchantTxStatus = "FAILED"
)

// Valid проверяет статус записи
func (s MerchantTxStatus) Valid() bool {
	_, ok := txTransitions[s]
	return ok
}

// IsTerminal возвращает true, если запись заморожена
func (s MerchantTxStatus) IsTerminal() bool {
	return s == TxStatusSuccessful || s == TxStatusFailed
}

// PaymentMethod представляет способ оплаты
type PaymentMethod string

const (
	PaymentMethodNone PaymentMethod = ""
	PaymentMethodUPI  PaymentMethod = "UPI"
	PaymentMethodBank PaymentMethod = "BANK"
)

// Valid проверяет способ оплаты
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodUPI || m == PaymentMethodBank
}

// ReferenceType определяется способом оплаты
type ReferenceType string

const (
	ReferenceTypeNone ReferenceType = ""
	ReferenceTypeUTR  ReferenceType = "UTR"
	ReferenceTypeBRN  ReferenceType = "BRN"
)

// Valid проверяет тип референса
func (t ReferenceType) Valid() bool {
	return t == ReferenceTypeUTR || t == ReferenceTypeBRN
}

// ReferenceTypeFor возвращает тип референса для способа оплаты
func ReferenceTypeFor(m PaymentMethod) ReferenceType {
	switch m {
	case PaymentMethodUPI:
		return ReferenceTypeUTR
	case PaymentMethodBank:
		return ReferenceTypeBRN
	default:
		return ReferenceTypeNone
	}
}

// PostPurchaseAction представляет действие после покупки
type PostPurchaseAction string

const (
	PostPurchaseNone           PostPurchaseAction = ""
	PostPurchaseSentToMerchant PostPurchaseAction = "SENT_TO_MERCHANT"
	PostPurchaseSentToWallet   PostPurchaseAction = "SENT_TO_WALLET"
)

// ErrorCode представляет типизированную причину ошибки
type ErrorCode string

const (
	ErrorCodeValidation       ErrorCode = "VALIDATION"
	ErrorCodeNotFound         ErrorCode = "NOT_FOUND"
	ErrorCodeAmountMismatch   ErrorCode = "AMOUNT_MISMATCH"
	ErrorCodeAlreadyUsed      ErrorCode = "ALREADY_USED"
	ErrorCodeFraud            ErrorCode = "FRAUD"
	ErrorCodeRateUnavailable  ErrorCode = "RATE_UNAVAILABLE"
	ErrorCodeSettlementFailed ErrorCode = "SETTLEMENT_FAILED"
)

// MerchantTxType представляет тип записи в истории
type MerchantTxType string

const (
	TxTypeBridgeDeposit      MerchantTxType = "Deposit via Crypto Bridge"
	TxTypePlayerConversion   MerchantTxType = "Player Deposit Conversion"
	TxTypeMerchantSettlement MerchantTxType = "Merchant Settlement"
)

// Beneficiary представляет получателя банковского перевода
type Beneficiary struct {
	ID                  string `json:"id"`
	DisplayName         string `json:"display_name"`
	BankName            string `json:"bank_name"`
	AccountNumberMasked string `json:"account_number_masked"`
	IFSC                string `json:"ifsc"`
}

// Details возвращает снимок реквизитов для записи в историю
func (b *Beneficiary) Details() *BeneficiaryDetails {
	if b == nil {
		return nil
	}
	return &BeneficiaryDetails{
		BeneficiaryName:     b.DisplayName,
		BankName:            b.BankName,
		AccountNumberMasked: b.AccountNumberMasked,
		IFSC:                b.IFSC,
	}
}

// BeneficiaryDetails - снимок реквизитов на момент создания записи
type BeneficiaryDetails struct {
	BeneficiaryName     string `json:"beneficiary_name"`
	BankName            string `json:"bank_name"`
	AccountNumberMasked string `json:"account_number_masked"`
	IFSC                string `json:"ifsc"`
}

// VerificationError хранит последнюю ошибку проверки референса
type VerificationError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// Order представляет единственный активный заказ сессии
type Order struct {
	OrderID      string    `json:"order_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActiveAt time.Time `json:"last_active_at"`

	ReturnURL string `json:"return_url"`
	Currency  string `json:"currency"`
	Coin      string `json:"coin"`

	InvoiceStatus InvoiceStatus `json:"invoice_status"`

	SourceAmount decimal.Decimal `json:"source_amount"`
	TargetAmount decimal.Decimal `json:"target_amount"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
	RateLoading  bool            `json:"rate_loading"`

	PaymentMethod       PaymentMethod `json:"payment_method,omitempty"`
	SelectedBeneficiary *Beneficiary  `json:"selected_beneficiary,omitempty"`
	CoolingMinutes      *int          `json:"cooling_minutes,omitempty"`
	CoolingEndsAt       *time.Time    `json:"cooling_ends_at,omitempty"`

	ReferenceType        ReferenceType      `json:"reference_type,omitempty"`
	ReferenceNumber      string             `json:"reference_number"`
	ReferenceVerified    bool               `json:"reference_verified"`
	ExpectedTargetAmount decimal.Decimal    `json:"expected_target_amount"`
	VerificationError    *VerificationError `json:"verification_error,omitempty"`

	PurchasedAmount    decimal.Decimal    `json:"purchased_amount"`
	PostPurchaseAction PostPurchaseAction `json:"post_purchase_action,omitempty"`

	// LedgerEntryID - слабая ссылка на запись истории, только поиск по id
	LedgerEntryID string `json:"ledger_entry_id,omitempty"`
}

// Clone возвращает глубокую копию заказа
func (o Order) Clone() Order {
	c := o
	if o.SelectedBeneficiary != nil {
		b := *o.SelectedBeneficiary
		c.SelectedBeneficiary = &b
	}
	if o.CoolingMinutes != nil {
		m := *o.CoolingMinutes
		c.CoolingMinutes = &m
	}
	if o.CoolingEndsAt != nil {
		t := *o.CoolingEndsAt
		c.CoolingEndsAt = &t
	}
	if o.VerificationError != nil {
		e := *o.VerificationError
		c.VerificationError = &e
	}
	return c
}

// MerchantTx представляет запись в истории мерчанта
type MerchantTx struct {
	ID             string           `json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	RelatedOrderID string           `json:"related_order_id"`
	Type           MerchantTxType   `json:"type"`
	Description    string           `json:"description"`
	Amount         decimal.Decimal  `json:"amount"`
	BalanceAfter   decimal.Decimal  `json:"balance_after"`
	Reference      string           `json:"reference"`
	Status         MerchantTxStatus `json:"status"`
	CoolingEndsAt  *time.Time       `json:"cooling_ends_at,omitempty"`
	FailureCode    ErrorCode        `json:"failure_code,omitempty"`
	FailureReason  string           `json:"failure_reason,omitempty"`

	Beneficiary *BeneficiaryDetails `json:"beneficiary,omitempty"`
}

// Clone возвращает глубокую копию записи
func (tx MerchantTx) Clone() MerchantTx {
	c := tx
	if tx.CoolingEndsAt != nil {
		t := *tx.CoolingEndsAt
		c.CoolingEndsAt = &t
	}
	if tx.Beneficiary != nil {
		b := *tx.Beneficiary
		c.Beneficiary = &b
	}
	return c
}

// CoolingActive возвращает true, если запись ещё ожидает окончания охлаждения
func (tx MerchantTx) CoolingActive(now time.Time) bool {
	return tx.Status == TxStatusPending && tx.CoolingEndsAt != nil && now.Before(*tx.CoolingEndsAt)
}

// Wallet представляет кошелек мерчанта
type Wallet struct {
	Available decimal.Decimal `json:"available"`
	Locked    decimal.Decimal `json:"locked"`
}

// State - сохраняемый снимок состояния сессии
type State struct {
	Order          Order        `json:"order"`
	History        []MerchantTx `json:"history"`
	Wallet         Wallet       `json:"wallet"`
	UsedReferences []string     `json:"used_references"`
}

// Clone возвращает глубокую копию состояния
func (s *State) Clone() *State {
	c := &State{
		Order:          s.Order.Clone(),
		Wallet:         s.Wallet,
		History:        make([]MerchantTx, len(s.History)),
		UsedReferences: append([]string(nil), s.UsedReferences...),
	}
	for i, tx := range s.History {
		c.History[i] = tx.Clone()
	}
	return c
}

// CreateOrderParams содержит параметры создания заказа
type CreateOrderParams struct {
	ReturnURL    string
	Currency     string
	Coin         string
	PresetAmount decimal.Decimal
}

// VerificationRequest представляет запрос к верификатору
type VerificationRequest struct {
	ReferenceType  ReferenceType   `json:"reference_type"`
	Reference      string          `json:"reference"`
	ExpectedAmount decimal.Decimal `json:"expected_amount"`
}

// VerificationResult представляет ответ верификатора
type VerificationResult struct {
	Success bool      `json:"success"`
	Code    ErrorCode `json:"code,omitempty"`
	Message string    `json:"message,omitempty"`
}

// Round2 округляет денежную сумму до двух знаков
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
