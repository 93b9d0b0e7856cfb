package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/avc/crypto-bridge/internal/guard"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// BridgeService определяет операции мастера оплаты
type BridgeService interface {
	Order() domain.Order
	Beneficiaries() []domain.Beneficiary
	CreateOrder(ctx context.Context, params domain.CreateOrderParams) (domain.Order, error)
	SetSourceAmount(ctx context.Context, amount decimal.Decimal) (domain.Order, error)
	SelectPaymentMethod(ctx context.Context, method domain.PaymentMethod) (domain.Order, error)
	ChangePaymentMethod(ctx context.Context) (domain.Order, error)
	ConfirmPayment(ctx context.Context) (domain.Order, error)
	SelectBeneficiary(ctx context.Context, beneficiaryID string) (domain.Order, error)
	StartCooling(ctx context.Context, minutes int) (domain.Order, error)
	SkipCooling(ctx context.Context) (domain.Order, error)
	SetReferenceNumber(ctx context.Context, raw string) (domain.Order, error)
	SubmitForVerification(ctx context.Context) (domain.Order, error)
	RetryVerification(ctx context.Context) (domain.Order, error)
	FinalizeSettlement(ctx context.Context) (domain.Order, error)
	MarkSentToWallet(ctx context.Context) (domain.Order, error)
	ResumeFromLedger(ctx context.Context, entryID string) bool
	ResetSession(ctx context.Context, preserveHistory bool) domain.Order
	Navigate(ctx context.Context, step guard.Step) guard.Decision
	CoolingRemaining() time.Duration
}

// TokenValidator проверяет подписанную ссылку возобновления
type TokenValidator interface {
	Validate(token string) (string, error)
}

// BridgeHandler обслуживает шаги мастера оплаты
type BridgeHandler struct {
	bridge BridgeService
	tokens TokenValidator
	logger *zap.Logger
}

// NewBridgeHandler создает новый BridgeHandler
func NewBridgeHandler(bridge BridgeService, tokens TokenValidator, logger *zap.Logger) *BridgeHandler {
	return &BridgeHandler{
		bridge: bridge,
		tokens: tokens,
		logger: logger,
	}
}

// CreateOrderRequest - параметры нового заказа, все поля необязательны
type CreateOrderRequest struct {
	ReturnURL    string           `json:"return_url"`
	Currency     string           `json:"currency"`
	Coin         string           `json:"coin"`
	PresetAmount *decimal.Decimal `json:"preset_amount"`
}

type amountRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type methodRequest struct {
	Method domain.PaymentMethod `json:"method"`
}

type beneficiaryRequest struct {
	BeneficiaryID string `json:"beneficiary_id"`
}

type coolingRequest struct {
	Minutes int `json:"minutes"`
}

type referenceRequest struct {
	ReferenceNumber string `json:"reference_number"`
}

type resetRequest struct {
	PreserveHistory bool `json:"preserve_history"`
}

// ResumeRequest - запись истории по id или по подписанному токену
type ResumeRequest struct {
	TxID  string `json:"tx_id"`
	Token string `json:"token"`
}

func (h *BridgeHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}

	params := domain.CreateOrderParams{
		ReturnURL:    req.ReturnURL,
		Currency:     req.Currency,
		Coin:         req.Coin,
		PresetAmount: decimal.NewFromInt(domain.DefaultPreset),
	}
	if req.PresetAmount != nil {
		params.PresetAmount = *req.PresetAmount
	}

	order, err := h.bridge.CreateOrder(r.Context(), params)
	if err != nil {
		h.writeError(w, "failed to create order", err)
		return
	}

	h.writeJSON(w, http.StatusCreated, order)
}

// OrderResponse - активный заказ с остатком охлаждения для обратного отсчета
type OrderResponse struct {
	domain.Order
	CoolingRemainingSeconds int64 `json:"cooling_remaining_seconds,omitempty"`
}

// GetOrder возвращает активный заказ
func (h *BridgeHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, OrderResponse{
		Order:                   h.bridge.Order(),
		CoolingRemainingSeconds: int64(h.bridge.CoolingRemaining().Round(time.Second) / time.Second),
	})
}

func (h *BridgeHandler) SetAmount(w http.ResponseWriter, r *http.Request) {
	var req amountRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, "failed to set amount")(h.bridge.SetSourceAmount(r.Context(), req.Amount))
}

func (h *BridgeHandler) SelectMethod(w http.ResponseWriter, r *http.Request) {
	var req methodRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, "failed to select payment method")(h.bridge.SelectPaymentMethod(r.Context(), req.Method))
}

func (h *BridgeHandler) ChangeMethod(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "failed to change payment method")(h.bridge.ChangePaymentMethod(r.Context()))
}

func (h *BridgeHandler) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "failed to confirm payment")(h.bridge.ConfirmPayment(r.Context()))
}

func (h *BridgeHandler) SelectBeneficiary(w http.ResponseWriter, r *http.Request) {
	var req beneficiaryRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, "failed to select beneficiary")(h.bridge.SelectBeneficiary(r.Context(), req.BeneficiaryID))
}

func (h *BridgeHandler) StartCooling(w http.ResponseWriter, r *http.Request) {
	var req coolingRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, "failed to start cooling")(h.bridge.StartCooling(r.Context(), req.Minutes))
}

func (h *BridgeHandler) SkipCooling(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "failed to skip cooling")(h.bridge.SkipCooling(r.Context()))
}

func (h *BridgeHandler) SetReference(w http.ResponseWriter, r *http.Request) {
	var req referenceRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.respond(w, "failed to set reference")(h.bridge.SetReferenceNumber(r.Context(), req.ReferenceNumber))
}

func (h *BridgeHandler) SubmitVerification(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "failed to submit verification")(h.bridge.SubmitForVerification(r.Context()))
}

func (h *BridgeHandler) RetryVerification(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "failed to retry verification")(h.bridge.RetryVerification(r.Context()))
}

func (h *BridgeHandler) FinalizeSettlement(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "failed to finalize settlement")(h.bridge.FinalizeSettlement(r.Context()))
}

func (h *BridgeHandler) SendToWallet(w http.ResponseWriter, r *http.Request) {
	h.respond(w, "failed to send to wallet")(h.bridge.MarkSentToWallet(r.Context()))
}

func (h *BridgeHandler) ResetSession(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if !h.decodeOptional(w, r, &req) {
		return
	}
	h.writeJSON(w, http.StatusOK, h.bridge.ResetSession(r.Context(), req.PreserveHistory))
}

func (h *BridgeHandler) Resume(w http.ResponseWriter, r *http.Request) {
	var req ResumeRequest
	if !h.decode(w, r, &req) {
		return
	}

	txID := req.TxID
	if req.Token != "" {
		id, err := h.tokens.Validate(req.Token)
		if err != nil {
			h.logger.Info("resume token rejected", zap.Error(err))
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		txID = id
	}
	if txID == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if !h.bridge.ResumeFromLedger(r.Context(), txID) {
		http.Error(w, domain.ErrResumeRejected.Error(), http.StatusConflict)
		return
	}

	h.writeJSON(w, http.StatusOK, h.bridge.Order())
}

func (h *BridgeHandler) Navigate(w http.ResponseWriter, r *http.Request) {
	step, ok := guard.ParseStep(chi.URLParam(r, "step"))
	if !ok {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	h.writeJSON(w, http.StatusOK, h.bridge.Navigate(r.Context(), step))
}

func (h *BridgeHandler) Beneficiaries(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.bridge.Beneficiaries())
}

func (h *BridgeHandler) CoolingOptions(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, domain.CoolingOptions)
}

func (h *BridgeHandler) decode(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

// decodeOptional разбирает тело, пустое тело допустимо
func (h *BridgeHandler) decodeOptional(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	err := json.NewDecoder(r.Body).Decode(v)
	if err != nil && !errors.Is(err, io.EOF) {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func (h *BridgeHandler) respond(w http.ResponseWriter, op string) func(domain.Order, error) {
	return func(order domain.Order, err error) {
		if err != nil {
			h.writeError(w, op, err)
			return
		}
		h.writeJSON(w, http.StatusOK, order)
	}
}

func (h *BridgeHandler) writeError(w http.ResponseWriter, op string, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error(op, zap.Error(err))
	} else {
		h.logger.Debug(op, zap.Error(err))
	}
	http.Error(w, err.Error(), status)
}

func (h *BridgeHandler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	writeJSON(w, h.logger, status, v)
}

// StatusFor сопоставляет ошибку сервиса HTTP статусу
func StatusFor(err error) int {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrAmountOutOfRange),
		errors.Is(err, domain.ErrInvalidCoolingMinutes),
		errors.Is(err, domain.ErrInvalidPaymentMethod):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrBeneficiaryNotFound),
		errors.Is(err, domain.ErrLedgerEntryNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOrderExpired):
		return http.StatusGone
	case errors.Is(err, domain.ErrRateUnavailable),
		errors.Is(err, domain.ErrSettlementFailed):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrIllegalTransition),
		errors.Is(err, domain.ErrVerificationInProgress),
		errors.Is(err, domain.ErrNoActiveOrder),
		errors.Is(err, domain.ErrReferenceTypeNotSet),
		errors.Is(err, domain.ErrBeneficiaryNotSelected),
		errors.Is(err, domain.ErrResumeRejected),
		errors.Is(err, domain.ErrOrderSuperseded):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, logger *zap.Logger, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", zap.Error(err))
	}
}
