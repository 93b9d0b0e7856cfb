package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/avc/crypto-bridge/internal/ledger"
	"github.com/avc/crypto-bridge/internal/utils/reference"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// pendingVerification - данные заказа на момент отправки на проверку
type pendingVerification struct {
	orderID     string
	entryID     string
	amount      decimal.Decimal
	refType     domain.ReferenceType
	reference   string
	beneficiary *domain.BeneficiaryDetails
}

// SubmitForVerification проверяет референс синтаксически, затем у верификатора.
// Результат верификатора всегда записывается в историю и множество использованных
// референсов, а заказ обновляется, только если он все еще ждет этого результата.
func (s *BridgeService) SubmitForVerification(ctx context.Context) (domain.Order, error) {
	s.mu.Lock()

	now := s.cfg.Now()
	if err := s.activeLocked(ctx, now); err != nil {
		defer s.mu.Unlock()
		return s.order.Clone(), err
	}

	p, err := s.beginVerificationLocked(now)
	if err != nil {
		defer s.mu.Unlock()
		return s.order.Clone(), err
	}

	// референс уже проверяется в другом заказе: второй успех невозможен
	if _, inFlight := s.pending[p.reference]; inFlight {
		defer s.mu.Unlock()
		s.logger.Info("reference already in flight", zap.String("reference", p.reference))
		s.applyVerificationLocked(p, domain.VerificationResult{
			Code:    domain.ErrorCodeAlreadyUsed,
			Message: FailureMessage(p.refType),
		})
		s.persistLocked(ctx)
		return s.order.Clone(), nil
	}
	s.pending[p.reference] = struct{}{}

	req := domain.VerificationRequest{
		ReferenceType:  p.refType,
		Reference:      p.reference,
		ExpectedAmount: s.order.ExpectedTargetAmount,
	}
	used := append([]string(nil), s.usedList...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	result := s.callVerifier(ctx, req, used)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.pending, p.reference)
	s.applyVerificationLocked(p, result)
	s.persistLocked(ctx)

	if s.order.OrderID != p.orderID {
		return s.order.Clone(), fmt.Errorf("bridge service: %w", domain.ErrOrderSuperseded)
	}
	return s.order.Clone(), nil
}

func (s *BridgeService) beginVerificationLocked(now time.Time) (pendingVerification, error) {
	if s.order.InvoiceStatus == domain.StatusVerifying {
		return pendingVerification{}, fmt.Errorf("bridge service: %w", domain.ErrVerificationInProgress)
	}
	if !s.order.ReferenceType.Valid() {
		return pendingVerification{}, fmt.Errorf("bridge service: %w", domain.ErrReferenceTypeNotSet)
	}
	if !domain.CanTransition(s.order.InvoiceStatus, domain.StatusVerifying) {
		return pendingVerification{}, fmt.Errorf("bridge service: %w: %s -> %s",
			domain.ErrIllegalTransition, s.order.InvoiceStatus, domain.StatusVerifying)
	}

	check := reference.Validate(s.order.ReferenceNumber, s.order.ReferenceType)
	if !check.Valid {
		return pendingVerification{}, &domain.ValidationError{
			ReferenceType: s.order.ReferenceType,
			Reason:        check.Reason,
		}
	}

	if err := s.setStatusLocked(domain.StatusVerifying); err != nil {
		return pendingVerification{}, err
	}

	normalized := reference.Normalize(s.order.ReferenceNumber)
	s.order.ReferenceNumber = normalized
	s.order.VerificationError = nil
	s.order.ReferenceVerified = false
	if s.order.ExpectedTargetAmount.IsZero() {
		s.order.ExpectedTargetAmount = s.order.TargetAmount
	}
	s.touchLocked(now)

	return pendingVerification{
		orderID:     s.order.OrderID,
		entryID:     s.order.LedgerEntryID,
		amount:      s.order.SourceAmount,
		refType:     s.order.ReferenceType,
		reference:   normalized,
		beneficiary: s.order.SelectedBeneficiary.Details(),
	}, nil
}

// callVerifier вызывает верификатор без блокировки.
// Проверка не отменяется вместе с запросом клиента, только по таймауту.
func (s *BridgeService) callVerifier(ctx context.Context, req domain.VerificationRequest, used []string) domain.VerificationResult {
	vctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.VerifyTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.verifier.Verify(vctx, req, used)
	verificationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("verifier timed out", zap.String("reference", req.Reference), zap.Duration("timeout", s.cfg.VerifyTimeout))
			return domain.VerificationResult{Code: domain.ErrorCodeNotFound, Message: FailureMessage(req.ReferenceType)}
		}
		s.logger.Error("verifier call failed", zap.String("reference", req.Reference), zap.Error(err))
		return domain.VerificationResult{Code: domain.ErrorCodeNotFound, Message: "Verification failed"}
	}

	if !result.Success {
		if result.Code == "" {
			result.Code = domain.ErrorCodeNotFound
		}
		if result.Message == "" {
			result.Message = FailureMessage(req.ReferenceType)
		}
	}
	return result
}

func (s *BridgeService) applyVerificationLocked(p pendingVerification, result domain.VerificationResult) {
	now := s.cfg.Now()
	current := s.order.OrderID == p.orderID && s.order.InvoiceStatus == domain.StatusVerifying

	if result.Success {
		verificationsTotal.WithLabelValues("success").Inc()
		s.addUsedLocked(p.reference)
		entryID := s.completeEntryLocked(p, now)

		if current {
			_ = s.setStatusLocked(domain.StatusVerified)
			s.order.ReferenceVerified = true
			s.order.VerificationError = nil
			s.order.PurchasedAmount = p.amount
			s.order.LedgerEntryID = entryID
		}

		s.logger.Info("reference verified",
			zap.String("order_id", p.orderID),
			zap.String("entry_id", entryID),
			zap.Bool("order_updated", current),
		)
		return
	}

	verificationsTotal.WithLabelValues(string(result.Code)).Inc()
	s.failEntryLocked(p, result, now)

	if current {
		_ = s.setStatusLocked(domain.StatusFailed)
		s.order.ReferenceVerified = false
		s.order.VerificationError = &domain.VerificationError{Code: result.Code, Message: result.Message}
	}

	s.logger.Info("reference rejected",
		zap.String("order_id", p.orderID),
		zap.String("code", string(result.Code)),
		zap.Bool("order_updated", current),
	)
}

// completeEntryLocked завершает связанную запись или добавляет новую SUCCESSFUL.
// Возвращает id записи покупки.
func (s *BridgeService) completeEntryLocked(p pendingVerification, now time.Time) string {
	if p.entryID != "" {
		if _, ok := s.ledger.Get(p.entryID); ok {
			balance := s.ledger.PreviousBalance(p.entryID).Add(p.amount)
			err := s.ledger.Complete(p.entryID, balance, ledger.DescPurchase(p.amount), now)
			if err == nil {
				return p.entryID
			}
			s.logger.Info("bound entry cannot be completed, appending new entry",
				zap.String("entry_id", p.entryID),
				zap.Error(err),
			)
		}
	}

	tx := s.newVerificationEntry(p, now, domain.TxStatusSuccessful, ledger.DescPurchase(p.amount))
	tx.BalanceAfter = s.ledger.RunningBalance().Add(p.amount)
	if err := s.ledger.Append(tx); err != nil {
		s.logger.Error("failed to append purchase entry", zap.Error(err))
		return p.entryID
	}
	return tx.ID
}

// failEntryLocked помечает связанную запись FAILED.
// Без связанной записи добавляется новая FAILED, заказ к ней не привязывается.
func (s *BridgeService) failEntryLocked(p pendingVerification, result domain.VerificationResult, now time.Time) {
	if p.entryID != "" {
		err := s.ledger.Fail(p.entryID, result.Code, result.Message, now)
		if err == nil {
			return
		}
		s.logger.Warn("bound entry cannot be failed, appending new entry",
			zap.String("entry_id", p.entryID),
			zap.Error(err),
		)
	}

	tx := s.newVerificationEntry(p, now, domain.TxStatusFailed, ledger.DescVerificationFailed)
	tx.BalanceAfter = s.ledger.RunningBalance()
	tx.FailureCode = result.Code
	tx.FailureReason = result.Message
	if err := s.ledger.Append(tx); err != nil {
		s.logger.Error("failed to append failure entry", zap.Error(err))
	}
}

func (s *BridgeService) newVerificationEntry(p pendingVerification, now time.Time, status domain.MerchantTxStatus, desc string) domain.MerchantTx {
	id := ledger.NewEntryID()
	return domain.MerchantTx{
		ID:             id,
		CreatedAt:      now,
		UpdatedAt:      now,
		RelatedOrderID: p.orderID,
		Type:           domain.TxTypeBridgeDeposit,
		Description:    desc,
		Amount:         p.amount,
		Reference:      ledger.ReferenceFor(id),
		Status:         status,
		Beneficiary:    p.beneficiary,
	}
}

// RetryVerification возвращает отклоненный заказ к вводу референса
func (s *BridgeService) RetryVerification(ctx context.Context) (domain.Order, error) {
	return s.mutate(ctx, func(time.Time) error {
		if s.order.InvoiceStatus != domain.StatusFailed {
			return fmt.Errorf("bridge service: %w: retry requires %s, got %s",
				domain.ErrIllegalTransition, domain.StatusFailed, s.order.InvoiceStatus)
		}
		if err := s.setStatusLocked(domain.StatusReadyForVerification); err != nil {
			return err
		}
		s.order.VerificationError = nil
		return nil
	})
}

// FinalizeSettlement переводит купленную сумму мерчанту.
// Повторный или параллельный вызов ничего не делает.
func (s *BridgeService) FinalizeSettlement(ctx context.Context) (domain.Order, error) {
	s.mu.Lock()

	if s.order.InvoiceStatus != domain.StatusVerified {
		defer s.mu.Unlock()
		return s.order.Clone(), fmt.Errorf("bridge service: %w: settlement requires %s, got %s",
			domain.ErrIllegalTransition, domain.StatusVerified, s.order.InvoiceStatus)
	}
	if s.order.PostPurchaseAction == domain.PostPurchaseSentToMerchant || s.settling {
		defer s.mu.Unlock()
		return s.order.Clone(), nil
	}

	s.settling = true
	orderID := s.order.OrderID
	s.mu.Unlock()

	err := s.settler.FinalizeSettlement(ctx, orderID)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.settling = false

	if err != nil {
		settlementsTotal.WithLabelValues("failed").Inc()
		s.logger.Error("settlement failed", zap.String("order_id", orderID), zap.Error(err))
		return s.order.Clone(), fmt.Errorf("bridge service: %w: %w", domain.ErrSettlementFailed, err)
	}

	if s.order.OrderID != orderID ||
		s.order.InvoiceStatus != domain.StatusVerified ||
		s.order.PostPurchaseAction == domain.PostPurchaseSentToMerchant {
		return s.order.Clone(), nil
	}

	tx, ok := s.ledger.Get(s.order.LedgerEntryID)
	if !ok {
		tx, ok = s.ledger.FindByOrder(orderID)
	}
	if !ok {
		return s.order.Clone(), fmt.Errorf("bridge service: %w: order %s", domain.ErrLedgerEntryNotFound, orderID)
	}

	now := s.cfg.Now()
	available := s.wallet.Available.Add(s.order.PurchasedAmount)
	if err := s.ledger.Settle(tx.ID, s.order.PurchasedAmount, available, now); err != nil {
		return s.order.Clone(), fmt.Errorf("bridge service: failed to settle entry: %w", err)
	}

	s.wallet.Available = available
	s.order.PostPurchaseAction = domain.PostPurchaseSentToMerchant
	s.order.LedgerEntryID = tx.ID
	s.touchLocked(now)
	s.persistLocked(ctx)

	settlementsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("settlement finalized",
		zap.String("order_id", orderID),
		zap.String("entry_id", tx.ID),
		zap.String("wallet_available", available.String()),
	)
	return s.order.Clone(), nil
}

// MarkSentToWallet отмечает выбор вывода на собственный кошелек
func (s *BridgeService) MarkSentToWallet(ctx context.Context) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.order.InvoiceStatus != domain.StatusVerified {
		return s.order.Clone(), fmt.Errorf("bridge service: %w: wallet withdrawal requires %s, got %s",
			domain.ErrIllegalTransition, domain.StatusVerified, s.order.InvoiceStatus)
	}
	if s.order.PostPurchaseAction == domain.PostPurchaseSentToMerchant {
		return s.order.Clone(), fmt.Errorf("bridge service: %w: already sent to merchant", domain.ErrIllegalTransition)
	}

	now := s.cfg.Now()
	s.order.PostPurchaseAction = domain.PostPurchaseSentToWallet
	if id := s.order.LedgerEntryID; id != "" {
		if err := s.ledger.Annotate(id, ledger.DescSentToWallet, now); err != nil {
			s.logger.Warn("failed to annotate entry", zap.String("entry_id", id), zap.Error(err))
		}
	}
	s.touchLocked(now)
	s.persistLocked(ctx)

	return s.order.Clone(), nil
}
