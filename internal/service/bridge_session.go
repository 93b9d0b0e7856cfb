package service

import (
	"context"
	"math"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/avc/crypto-bridge/internal/guard"
	"github.com/avc/crypto-bridge/internal/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Tick продвигает охлаждение в истории и в активном заказе,
// затем проверяет простой заказа
func (s *BridgeService) Tick(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.Now()
	moved := s.ledger.SweepCooling(now)

	orderDone := false
	for _, id := range moved {
		if id == s.order.LedgerEntryID {
			orderDone = true
		}
	}
	if ends := s.order.CoolingEndsAt; ends != nil && !now.Before(*ends) {
		orderDone = true
	}

	promoted := false
	if orderDone && s.order.InvoiceStatus == domain.StatusCooling {
		if err := s.setStatusLocked(domain.StatusReadyForVerification); err == nil {
			s.order.ReferenceType = domain.ReferenceTypeBRN
			s.order.ReferenceNumber = ""
			s.order.ExpectedTargetAmount = s.order.TargetAmount
			promoted = true
		}
	}

	wasExpired := s.order.InvoiceStatus == domain.StatusExpired
	expired := s.expireIfIdleLocked(now) && !wasExpired

	if len(moved) == 0 && !promoted && !expired {
		return
	}

	coolingPromotions.Add(float64(len(moved)))
	s.logger.Debug("cooling sweep",
		zap.Strings("entries", moved),
		zap.Bool("order_promoted", promoted),
		zap.Bool("order_expired", expired),
	)
	s.persistLocked(ctx)
}

// Navigate проверяет доступ к шагу мастера и продлевает активность сессии
func (s *BridgeService) Navigate(ctx context.Context, step guard.Step) guard.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.Now()
	s.expireIfIdleLocked(now)

	decision := guard.Evaluate(step, s.order)
	if s.order.InvoiceStatus != domain.StatusExpired {
		s.touchLocked(now)
	}
	s.persistLocked(ctx)

	return decision
}

// ResumeFromLedger восстанавливает заказ из записи истории.
// Возвращает false, если запись нельзя возобновить.
func (s *BridgeService) ResumeFromLedger(ctx context.Context, entryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.Now()

	if s.expireIfIdleLocked(now) {
		s.persistLocked(ctx)
		return false
	}
	if s.order.InvoiceStatus == domain.StatusVerifying {
		return false
	}

	tx, ok := s.ledger.Get(entryID)
	if !ok {
		return false
	}

	order := s.order.Clone()

	switch tx.Status {
	case domain.TxStatusPending:
		if !tx.CoolingActive(now) {
			return false
		}
		ends := *tx.CoolingEndsAt
		minutes := int(math.Ceil(ends.Sub(now).Minutes()))
		order.InvoiceStatus = domain.StatusCooling
		order.CoolingEndsAt = &ends
		order.CoolingMinutes = &minutes

	case domain.TxStatusPaymentVerification:
		order.InvoiceStatus = domain.StatusReadyForVerification
		order.CoolingEndsAt = nil
		order.CoolingMinutes = nil

	default:
		return false
	}

	rate := order.ExchangeRate
	if !rate.IsPositive() {
		rate = defaultRate
	}
	target := domain.Round2(tx.Amount.Mul(rate))

	if tx.RelatedOrderID != "" {
		order.OrderID = tx.RelatedOrderID
	}
	order.CreatedAt = tx.CreatedAt
	order.ExchangeRate = rate
	order.SourceAmount = tx.Amount
	order.TargetAmount = target
	order.ExpectedTargetAmount = target
	order.ReferenceNumber = ""
	order.ReferenceVerified = false
	order.VerificationError = nil
	order.PurchasedAmount = decimal.Zero
	order.PostPurchaseAction = domain.PostPurchaseNone
	order.LedgerEntryID = tx.ID
	order.RateLoading = false

	if tx.Beneficiary != nil {
		order.PaymentMethod = domain.PaymentMethodBank
		order.ReferenceType = domain.ReferenceTypeBRN
		order.SelectedBeneficiary = beneficiaryFromDetails(tx.Beneficiary)
	} else {
		order.PaymentMethod = domain.PaymentMethodUPI
		order.ReferenceType = domain.ReferenceTypeUTR
		ben := domain.UPIBeneficiary
		order.SelectedBeneficiary = &ben
	}
	order.LastActiveAt = now

	s.order = order
	s.persistLocked(ctx)

	s.logger.Info("order resumed from history",
		zap.String("order_id", order.OrderID),
		zap.String("entry_id", tx.ID),
		zap.String("status", string(order.InvoiceStatus)),
	)
	return true
}

// beneficiaryFromDetails находит получателя в справочнике по реквизитам
func beneficiaryFromDetails(d *domain.BeneficiaryDetails) *domain.Beneficiary {
	for _, b := range domain.DefaultBeneficiaries() {
		if b.AccountNumberMasked == d.AccountNumberMasked && b.IFSC == d.IFSC {
			return &b
		}
	}
	return &domain.Beneficiary{
		DisplayName:         d.BeneficiaryName,
		BankName:            d.BankName,
		AccountNumberMasked: d.AccountNumberMasked,
		IFSC:                d.IFSC,
	}
}

// ResetSession начинает новую сессию. Использованные референсы сохраняются всегда,
// история и кошелек - только при preserveHistory.
func (s *BridgeService) ResetSession(ctx context.Context, preserveHistory bool) domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.Now()
	s.order = newEmptyOrder(now)
	if !preserveHistory {
		s.ledger = ledger.New(s.seedHistory(now))
		s.wallet = ledger.DefaultWallet()
	}
	s.persistLocked(ctx)

	s.logger.Info("session reset", zap.Bool("preserve_history", preserveHistory))
	return s.order.Clone()
}

// CoolingRemaining возвращает оставшееся время охлаждения активного заказа
func (s *BridgeService) CoolingRemaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order.CoolingEndsAt == nil {
		return 0
	}
	if d := s.order.CoolingEndsAt.Sub(s.cfg.Now()); d > 0 {
		return d
	}
	return 0
}
