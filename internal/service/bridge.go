package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/avc/crypto-bridge/internal/ledger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultStateKey - ключ снимка сессии в хранилище
const DefaultStateKey = "fastpikeswap_bridge"

var (
	defaultPreset = decimal.NewFromInt(domain.DefaultPreset)
	defaultRate   = decimal.NewFromInt(domain.DefaultRate)
	minAmount     = decimal.NewFromInt(domain.MinAmount)
	maxAmount     = decimal.NewFromInt(domain.MaxAmount)
)

// BridgeConfig содержит настройки сервиса
type BridgeConfig struct {
	IdleTimeout   time.Duration
	VerifyTimeout time.Duration
	// CoolingOverride заменяет выбранную длительность охлаждения (только для разработки)
	CoolingOverride time.Duration
	SeedHistory     bool
	StateKey        string

	Now        func() time.Time
	NewOrderID func() string
}

func (c *BridgeConfig) applyDefaults() {
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = 4 * time.Hour
	}
	if c.VerifyTimeout <= 0 {
		c.VerifyTimeout = 30 * time.Second
	}
	if c.StateKey == "" {
		c.StateKey = DefaultStateKey
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.NewOrderID == nil {
		c.NewOrderID = NewOrderID
	}
}

// NewOrderID генерирует номер заказа вида ORD-123456
func NewOrderID() string {
	return fmt.Sprintf("ORD-%06d", 100000+rand.Intn(900000))
}

// BridgeService управляет единственным активным заказом, историей мерчанта,
// кошельком и множеством использованных референсов.
// Все мутации выполняются под одной блокировкой, внешние вызовы - без нее.
type BridgeService struct {
	mu       sync.Mutex
	order    domain.Order
	ledger   *ledger.Ledger
	wallet   domain.Wallet
	used     map[string]struct{}
	usedList []string
	pending  map[string]struct{} // референсы на проверке у верификатора
	settling bool

	repo     domain.StateRepository
	rates    domain.RateSource
	verifier domain.Verifier
	settler  domain.Settler
	cfg      BridgeConfig
	logger   *zap.Logger
}

// NewBridgeService создает новый BridgeService с пустой сессией
func NewBridgeService(
	repo domain.StateRepository,
	rates domain.RateSource,
	verifier domain.Verifier,
	settler domain.Settler,
	cfg BridgeConfig,
	logger *zap.Logger,
) *BridgeService {
	cfg.applyDefaults()

	s := &BridgeService{
		repo:     repo,
		rates:    rates,
		verifier: verifier,
		settler:  settler,
		cfg:      cfg,
		logger:   logger,
		used:     make(map[string]struct{}),
		pending:  make(map[string]struct{}),
	}

	now := cfg.Now()
	s.order = newEmptyOrder(now)
	s.ledger = ledger.New(s.seedHistory(now))
	s.wallet = ledger.DefaultWallet()

	return s
}

func (s *BridgeService) seedHistory(now time.Time) []domain.MerchantTx {
	if !s.cfg.SeedHistory {
		return nil
	}
	return ledger.DefaultHistory(now)
}

func newEmptyOrder(now time.Time) domain.Order {
	target := domain.Round2(defaultPreset.Mul(defaultRate))
	return domain.Order{
		CreatedAt:            now,
		LastActiveAt:         now,
		ReturnURL:            domain.DefaultReturnURL,
		Currency:             domain.DefaultCurrency,
		Coin:                 domain.DefaultCoin,
		InvoiceStatus:        domain.StatusDraft,
		SourceAmount:         defaultPreset,
		TargetAmount:         target,
		ExchangeRate:         defaultRate,
		ExpectedTargetAmount: target,
	}
}

// Restore загружает снимок сессии из хранилища
func (s *BridgeService) Restore(ctx context.Context) error {
	state, err := s.repo.Load(ctx, s.cfg.StateKey)
	if err != nil && !errors.Is(err, domain.ErrStateNotFound) {
		return fmt.Errorf("bridge service: failed to load state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.Now()

	if state == nil {
		s.logger.Info("no saved state, starting fresh session")
		s.persistLocked(ctx)
		return nil
	}

	order := state.Order.Clone()
	if !order.InvoiceStatus.Valid() {
		s.logger.Warn("saved order has unknown status, resetting",
			zap.String("status", string(order.InvoiceStatus)),
		)
		order = newEmptyOrder(now)
	}
	s.order = order

	// результат проверки, прерванной перезапуском, уже не придет
	if s.order.InvoiceStatus == domain.StatusVerifying {
		_ = s.setStatusLocked(domain.StatusFailed)
		s.order.VerificationError = &domain.VerificationError{
			Code:    domain.ErrorCodeNotFound,
			Message: "Verification failed",
		}
	}

	history := state.History
	if len(history) == 0 {
		history = s.seedHistory(now)
	}
	s.ledger = ledger.New(history)

	s.wallet = state.Wallet
	if s.wallet.Available.IsZero() && s.wallet.Locked.IsZero() {
		s.wallet = ledger.DefaultWallet()
	}

	s.used = make(map[string]struct{}, len(state.UsedReferences))
	s.usedList = nil
	for _, ref := range state.UsedReferences {
		s.addUsedLocked(ref)
	}

	s.logger.Info("state restored",
		zap.String("order_id", s.order.OrderID),
		zap.String("status", string(s.order.InvoiceStatus)),
		zap.Int("history", s.ledger.Len()),
		zap.Int("used_references", len(s.usedList)),
	)
	return nil
}

// Order возвращает копию активного заказа
func (s *BridgeService) Order() domain.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Clone()
}

// History возвращает историю мерчанта, новые записи первыми
func (s *BridgeService) History() []domain.MerchantTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Entries()
}

// LedgerEntry возвращает запись истории по id
func (s *BridgeService) LedgerEntry(id string) (domain.MerchantTx, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Get(id)
}

// Wallet возвращает кошелек мерчанта
func (s *BridgeService) Wallet() domain.Wallet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wallet
}

// UsedReferences возвращает использованные референсы в порядке добавления
func (s *BridgeService) UsedReferences() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.usedList...)
}

// Snapshot возвращает полный снимок сессии
func (s *BridgeService) Snapshot() *domain.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Now возвращает текущее время сервиса
func (s *BridgeService) Now() time.Time {
	return s.cfg.Now()
}

// Beneficiaries возвращает справочник банковских получателей
func (s *BridgeService) Beneficiaries() []domain.Beneficiary {
	return domain.DefaultBeneficiaries()
}

func (s *BridgeService) snapshotLocked() *domain.State {
	return &domain.State{
		Order:          s.order.Clone(),
		History:        s.ledger.Snapshot(),
		Wallet:         s.wallet,
		UsedReferences: append([]string{}, s.usedList...),
	}
}

// persistLocked сохраняет снимок. Ошибка записи не прерывает операцию.
func (s *BridgeService) persistLocked(ctx context.Context) {
	if err := s.repo.Save(ctx, s.cfg.StateKey, s.snapshotLocked()); err != nil {
		persistFailures.Inc()
		s.logger.Error("failed to persist state", zap.Error(err))
	}
}

func (s *BridgeService) addUsedLocked(ref string) {
	if ref == "" {
		return
	}
	if _, ok := s.used[ref]; ok {
		return
	}
	s.used[ref] = struct{}{}
	s.usedList = append(s.usedList, ref)
}

func (s *BridgeService) setStatusLocked(to domain.InvoiceStatus) error {
	from := s.order.InvoiceStatus
	if err := domain.Transition(from, to); err != nil {
		return fmt.Errorf("bridge service: %w", err)
	}
	s.order.InvoiceStatus = to
	orderTransitions.WithLabelValues(string(from), string(to)).Inc()
	return nil
}

func (s *BridgeService) touchLocked(now time.Time) {
	s.order.LastActiveAt = now
}

// expireIfIdleLocked переводит простаивающий заказ в EXPIRED.
// Сессия без заказа не истекает. Возвращает true, если заказ истек.
func (s *BridgeService) expireIfIdleLocked(now time.Time) bool {
	if s.order.InvoiceStatus == domain.StatusExpired {
		return true
	}
	if s.order.OrderID == "" || s.order.LastActiveAt.IsZero() || now.Sub(s.order.LastActiveAt) <= s.cfg.IdleTimeout {
		return false
	}
	if err := s.setStatusLocked(domain.StatusExpired); err != nil {
		return false
	}

	s.logger.Info("order expired after inactivity",
		zap.String("order_id", s.order.OrderID),
		zap.Time("last_active_at", s.order.LastActiveAt),
	)
	return true
}

// activeLocked проверяет, что есть заказ и он не истек
func (s *BridgeService) activeLocked(ctx context.Context, now time.Time) error {
	if s.order.OrderID == "" {
		return domain.ErrNoActiveOrder
	}
	wasExpired := s.order.InvoiceStatus == domain.StatusExpired
	if s.expireIfIdleLocked(now) {
		if !wasExpired {
			s.persistLocked(ctx)
		}
		return domain.ErrOrderExpired
	}
	return nil
}

// CheckExpiry проверяет простой заказа и возвращает true, если он истек
func (s *BridgeService) CheckExpiry(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	wasExpired := s.order.InvoiceStatus == domain.StatusExpired
	expired := s.expireIfIdleLocked(s.cfg.Now())
	if expired && !wasExpired {
		s.persistLocked(ctx)
	}
	return expired
}

// CreateOrder создает новый заказ по текущему курсу, заменяя активный
func (s *BridgeService) CreateOrder(ctx context.Context, params domain.CreateOrderParams) (domain.Order, error) {
	s.mu.Lock()
	s.order.RateLoading = true
	s.mu.Unlock()

	rate, err := s.rates.FetchRate(ctx)
	if err == nil && !rate.IsPositive() {
		err = fmt.Errorf("%w: %s", ErrInvalidRate, rate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.order.RateLoading = false
		s.logger.Warn("failed to fetch exchange rate", zap.Error(err))
		return s.order.Clone(), fmt.Errorf("bridge service: %w: %w", domain.ErrRateUnavailable, err)
	}

	now := s.cfg.Now()
	source := clampAmount(params.PresetAmount)
	target := domain.Round2(source.Mul(rate))

	order := newEmptyOrder(now)
	order.OrderID = s.cfg.NewOrderID()
	order.ReturnURL = valueOr(params.ReturnURL, domain.DefaultReturnURL)
	order.Currency = valueOr(params.Currency, domain.DefaultCurrency)
	order.Coin = valueOr(params.Coin, domain.DefaultCoin)
	order.SourceAmount = source
	order.ExchangeRate = rate
	order.TargetAmount = target
	order.ExpectedTargetAmount = target

	s.order = order
	s.persistLocked(ctx)

	s.logger.Info("order created",
		zap.String("order_id", order.OrderID),
		zap.String("source_amount", source.String()),
		zap.String("rate", rate.String()),
	)
	return s.order.Clone(), nil
}

func clampAmount(amount decimal.Decimal) decimal.Decimal {
	switch {
	case amount.LessThan(minAmount):
		return minAmount
	case amount.GreaterThan(maxAmount):
		return maxAmount
	default:
		return domain.Round2(amount)
	}
}

func valueOr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// SetSourceAmount меняет сумму USDT до начала оплаты
func (s *BridgeService) SetSourceAmount(ctx context.Context, amount decimal.Decimal) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.Now()
	if err := s.activeLocked(ctx, now); err != nil {
		return s.order.Clone(), err
	}

	switch s.order.InvoiceStatus {
	case domain.StatusDraft, domain.StatusAwaitingPayment, domain.StatusAwaitingBeneficiary:
	default:
		return s.order.Clone(), fmt.Errorf("bridge service: %w: amount is fixed in %s",
			domain.ErrIllegalTransition, s.order.InvoiceStatus)
	}

	if amount.LessThan(minAmount) || amount.GreaterThan(maxAmount) {
		return s.order.Clone(), fmt.Errorf("bridge service: %w: %s not in [%s, %s]",
			domain.ErrAmountOutOfRange, amount, minAmount, maxAmount)
	}

	amount = domain.Round2(amount)
	target := domain.Round2(amount.Mul(s.order.ExchangeRate))
	s.order.SourceAmount = amount
	s.order.TargetAmount = target
	s.order.ExpectedTargetAmount = target
	s.touchLocked(now)
	s.persistLocked(ctx)

	return s.order.Clone(), nil
}

// SelectPaymentMethod выбирает способ оплаты
func (s *BridgeService) SelectPaymentMethod(ctx context.Context, method domain.PaymentMethod) (domain.Order, error) {
	switch method {
	case domain.PaymentMethodUPI:
		return s.mutate(ctx, s.selectUPILocked)
	case domain.PaymentMethodBank:
		return s.mutate(ctx, s.selectBankLocked)
	default:
		return s.Order(), fmt.Errorf("bridge service: %w: %q", domain.ErrInvalidPaymentMethod, method)
	}
}

// mutate выполняет операцию над активным заказом под блокировкой
func (s *BridgeService) mutate(ctx context.Context, fn func(now time.Time) error) (domain.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.cfg.Now()
	if err := s.activeLocked(ctx, now); err != nil {
		return s.order.Clone(), err
	}
	if err := fn(now); err != nil {
		return s.order.Clone(), err
	}

	s.touchLocked(now)
	s.persistLocked(ctx)
	return s.order.Clone(), nil
}

func (s *BridgeService) selectUPILocked(time.Time) error {
	if err := s.setStatusLocked(domain.StatusAwaitingPayment); err != nil {
		return err
	}
	ben := domain.UPIBeneficiary
	s.order.PaymentMethod = domain.PaymentMethodUPI
	s.order.ReferenceType = domain.ReferenceTypeUTR
	s.order.SelectedBeneficiary = &ben
	s.order.ExpectedTargetAmount = s.order.TargetAmount
	return nil
}

func (s *BridgeService) selectBankLocked(time.Time) error {
	if err := s.setStatusLocked(domain.StatusAwaitingBeneficiary); err != nil {
		return err
	}
	if s.order.PaymentMethod != domain.PaymentMethodBank {
		s.order.SelectedBeneficiary = nil
	}
	s.order.PaymentMethod = domain.PaymentMethodBank
	s.order.ReferenceType = domain.ReferenceTypeBRN
	return nil
}

// ChangePaymentMethod возвращает заказ к выбору способа оплаты
func (s *BridgeService) ChangePaymentMethod(ctx context.Context) (domain.Order, error) {
	return s.mutate(ctx, func(time.Time) error {
		if err := s.setStatusLocked(domain.StatusDraft); err != nil {
			return err
		}
		s.order.PaymentMethod = domain.PaymentMethodNone
		s.order.ReferenceType = domain.ReferenceTypeNone
		s.order.SelectedBeneficiary = nil
		s.order.CoolingMinutes = nil
		s.order.CoolingEndsAt = nil
		s.order.ReferenceNumber = ""
		s.order.VerificationError = nil
		s.order.LedgerEntryID = ""
		return nil
	})
}

// ConfirmPayment отмечает, что пользователь оплатил через UPI
func (s *BridgeService) ConfirmPayment(ctx context.Context) (domain.Order, error) {
	return s.mutate(ctx, func(time.Time) error {
		if s.order.PaymentMethod != domain.PaymentMethodUPI {
			return fmt.Errorf("bridge service: %w: payment confirmation requires UPI", domain.ErrInvalidPaymentMethod)
		}
		if err := s.setStatusLocked(domain.StatusReadyForVerification); err != nil {
			return err
		}
		s.order.ReferenceType = domain.ReferenceTypeUTR
		s.order.ReferenceNumber = ""
		s.order.ExpectedTargetAmount = s.order.TargetAmount
		return nil
	})
}

// SelectBeneficiary выбирает банковского получателя из справочника
func (s *BridgeService) SelectBeneficiary(ctx context.Context, beneficiaryID string) (domain.Order, error) {
	return s.mutate(ctx, func(time.Time) error {
		if s.order.PaymentMethod != domain.PaymentMethodBank {
			return fmt.Errorf("bridge service: %w: beneficiary requires BANK", domain.ErrInvalidPaymentMethod)
		}
		if s.order.InvoiceStatus != domain.StatusAwaitingBeneficiary {
			return fmt.Errorf("bridge service: %w: beneficiary is fixed in %s",
				domain.ErrIllegalTransition, s.order.InvoiceStatus)
		}

		for _, b := range domain.DefaultBeneficiaries() {
			if b.ID == beneficiaryID {
				s.order.SelectedBeneficiary = &b
				return nil
			}
		}
		return fmt.Errorf("bridge service: %w: %s", domain.ErrBeneficiaryNotFound, beneficiaryID)
	})
}

// StartCooling начинает охлаждение банковского перевода и создает запись PENDING
func (s *BridgeService) StartCooling(ctx context.Context, minutes int) (domain.Order, error) {
	return s.mutate(ctx, func(now time.Time) error {
		if minutes <= 0 {
			return fmt.Errorf("bridge service: %w: %d", domain.ErrInvalidCoolingMinutes, minutes)
		}
		if err := s.beforeBankEntryLocked(domain.StatusCooling); err != nil {
			return err
		}

		duration := time.Duration(minutes) * time.Minute
		if s.cfg.CoolingOverride > 0 {
			duration = s.cfg.CoolingOverride
		}
		endsAt := now.Add(duration)

		tx := s.newBankEntryLocked(now, domain.TxStatusPending, ledger.DescPendingCooling)
		tx.CoolingEndsAt = &endsAt
		if err := s.ledger.Append(tx); err != nil {
			return fmt.Errorf("bridge service: failed to append entry: %w", err)
		}

		if err := s.setStatusLocked(domain.StatusCooling); err != nil {
			return err
		}
		m := minutes
		s.order.CoolingMinutes = &m
		s.order.CoolingEndsAt = &endsAt
		s.order.LedgerEntryID = tx.ID

		s.logger.Info("cooling started",
			zap.String("order_id", s.order.OrderID),
			zap.String("entry_id", tx.ID),
			zap.Time("ends_at", endsAt),
		)
		return nil
	})
}

// SkipCooling пропускает охлаждение и создает запись PAYMENT_VERIFICATION
func (s *BridgeService) SkipCooling(ctx context.Context) (domain.Order, error) {
	return s.mutate(ctx, func(now time.Time) error {
		if err := s.beforeBankEntryLocked(domain.StatusReadyForVerification); err != nil {
			return err
		}

		tx := s.newBankEntryLocked(now, domain.TxStatusPaymentVerification, ledger.DescReadyForVerification)
		if err := s.ledger.Append(tx); err != nil {
			return fmt.Errorf("bridge service: failed to append entry: %w", err)
		}

		if err := s.setStatusLocked(domain.StatusReadyForVerification); err != nil {
			return err
		}
		s.order.CoolingMinutes = nil
		s.order.CoolingEndsAt = nil
		s.order.ReferenceType = domain.ReferenceTypeBRN
		s.order.ReferenceNumber = ""
		s.order.ExpectedTargetAmount = s.order.TargetAmount
		s.order.LedgerEntryID = tx.ID
		return nil
	})
}

func (s *BridgeService) beforeBankEntryLocked(to domain.InvoiceStatus) error {
	if s.order.InvoiceStatus != domain.StatusAwaitingBeneficiary {
		return fmt.Errorf("bridge service: %w: %s -> %s",
			domain.ErrIllegalTransition, s.order.InvoiceStatus, to)
	}
	if s.order.SelectedBeneficiary == nil {
		return fmt.Errorf("bridge service: %w", domain.ErrBeneficiaryNotSelected)
	}
	return nil
}

func (s *BridgeService) newBankEntryLocked(now time.Time, status domain.MerchantTxStatus, desc string) domain.MerchantTx {
	id := ledger.NewEntryID()
	return domain.MerchantTx{
		ID:             id,
		CreatedAt:      now,
		UpdatedAt:      now,
		RelatedOrderID: s.order.OrderID,
		Type:           domain.TxTypeBridgeDeposit,
		Description:    desc,
		Amount:         s.order.SourceAmount,
		BalanceAfter:   s.ledger.RunningBalance(),
		Reference:      ledger.ReferenceFor(id),
		Status:         status,
		Beneficiary:    s.order.SelectedBeneficiary.Details(),
	}
}

// SetReferenceNumber сохраняет введенный референс как есть и сбрасывает прошлую ошибку
func (s *BridgeService) SetReferenceNumber(ctx context.Context, raw string) (domain.Order, error) {
	return s.mutate(ctx, func(time.Time) error {
		switch s.order.InvoiceStatus {
		case domain.StatusVerifying:
			return fmt.Errorf("bridge service: %w", domain.ErrVerificationInProgress)
		case domain.StatusVerified:
			return fmt.Errorf("bridge service: %w: reference is fixed in %s",
				domain.ErrIllegalTransition, s.order.InvoiceStatus)
		}
		s.order.ReferenceNumber = raw
		s.order.VerificationError = nil
		return nil
	})
}
