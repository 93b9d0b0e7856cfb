package ledger

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Описания записей истории
const (
	DescPendingCooling       = "Bridge deposit pending cooling period"
	DescReadyForVerification = "Bridge deposit - ready for verification"
	DescVerificationFailed   = "Bridge deposit (verification failed)"
	DescSentToMerchant       = "Bridge deposit sent to merchant"
	DescSentToWallet         = "User selected wallet withdrawal (KYC required)"
)

// Маршруты возобновления из истории
const (
	RouteCooling = "/bridge/cooling"
	RouteVerify  = "/bridge/verify"
)

// EmptyBalance - баланс пустой истории
var EmptyBalance = decimal.NewFromInt(13000)

// DescPurchase возвращает описание успешной покупки
func DescPurchase(amount decimal.Decimal) string {
	return fmt.Sprintf("Bridge deposit purchase: %s USDT (INR converted)", amount.String())
}

// NewEntryID генерирует идентификатор записи
func NewEntryID() string {
	return "mtx_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
}

// ReferenceFor возвращает укороченный референс записи для отображения
func ReferenceFor(id string) string {
	suffix := id
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "ref_dep_" + suffix + "..."
}

// Ledger представляет историю мерчанта.
// Записи никогда не удаляются. Не безопасен для конкурентного доступа,
// синхронизацию обеспечивает владелец.
type Ledger struct {
	entries []domain.MerchantTx // в порядке создания
	index   map[string]int
}

// New создает историю из сохраненных записей в порядке создания
func New(entries []domain.MerchantTx) *Ledger {
	l := &Ledger{index: make(map[string]int, len(entries))}
	for _, tx := range entries {
		if _, ok := l.index[tx.ID]; ok {
			continue
		}
		l.index[tx.ID] = len(l.entries)
		l.entries = append(l.entries, tx.Clone())
	}
	return l
}

// Len возвращает количество записей
func (l *Ledger) Len() int {
	return len(l.entries)
}

// Append добавляет новую запись
func (l *Ledger) Append(tx domain.MerchantTx) error {
	if _, ok := l.index[tx.ID]; ok {
		return fmt.Errorf("ledger: %w: %s", domain.ErrDuplicateEntry, tx.ID)
	}
	if !tx.Status.Valid() {
		return fmt.Errorf("ledger: invalid status %q for %s", tx.Status, tx.ID)
	}
	l.index[tx.ID] = len(l.entries)
	l.entries = append(l.entries, tx.Clone())
	return nil
}

// Get возвращает копию записи по id
func (l *Ledger) Get(id string) (domain.MerchantTx, bool) {
	i, ok := l.index[id]
	if !ok {
		return domain.MerchantTx{}, false
	}
	return l.entries[i].Clone(), true
}

// FindByOrder возвращает последнюю запись, связанную с заказом
func (l *Ledger) FindByOrder(orderID string) (domain.MerchantTx, bool) {
	if orderID == "" {
		return domain.MerchantTx{}, false
	}
	for i := len(l.entries) - 1; i >= 0; i-- {
		if l.entries[i].RelatedOrderID == orderID {
			return l.entries[i].Clone(), true
		}
	}
	return domain.MerchantTx{}, false
}

// RunningBalance возвращает максимум балансов всех записей
func (l *Ledger) RunningBalance() decimal.Decimal {
	if len(l.entries) == 0 {
		return EmptyBalance
	}
	top := l.entries[0].BalanceAfter
	for _, tx := range l.entries[1:] {
		if tx.BalanceAfter.GreaterThan(top) {
			top = tx.BalanceAfter
		}
	}
	return top
}

// PreviousBalance возвращает баланс записи, созданной перед указанной
func (l *Ledger) PreviousBalance(id string) decimal.Decimal {
	i, ok := l.index[id]
	if !ok || i == 0 {
		return EmptyBalance
	}
	return l.entries[i-1].BalanceAfter
}

// SetStatus меняет статус записи по таблице переходов
func (l *Ledger) SetStatus(id string, to domain.MerchantTxStatus, at time.Time) error {
	tx, err := l.entry(id)
	if err != nil {
		return err
	}
	if !domain.CanTransitionTx(tx.Status, to) {
		if tx.Status.IsTerminal() {
			return fmt.Errorf("ledger: %w: %s is %s", domain.ErrEntryFrozen, id, tx.Status)
		}
		return fmt.Errorf("ledger: %w: %s %s -> %s", domain.ErrIllegalTransition, id, tx.Status, to)
	}
	tx.Status = to
	tx.UpdatedAt = at
	return nil
}

// Complete переводит запись в SUCCESSFUL с новым балансом.
// Отклоненная запись тоже завершается, уже успешная заморожена.
func (l *Ledger) Complete(id string, balanceAfter decimal.Decimal, description string, at time.Time) error {
	tx, err := l.entry(id)
	if err != nil {
		return err
	}
	if tx.Status == domain.TxStatusSuccessful {
		return fmt.Errorf("ledger: %w: %s is %s", domain.ErrEntryFrozen, id, tx.Status)
	}
	if err := l.SetStatus(id, domain.TxStatusSuccessful, at); err != nil {
		return err
	}
	tx.BalanceAfter = balanceAfter
	tx.Description = description
	tx.FailureCode = ""
	tx.FailureReason = ""
	return nil
}

// Fail переводит запись в FAILED. Повторный вызов обновляет причину.
func (l *Ledger) Fail(id string, code domain.ErrorCode, reason string, at time.Time) error {
	tx, err := l.entry(id)
	if err != nil {
		return err
	}
	if err := l.SetStatus(id, domain.TxStatusFailed, at); err != nil {
		return err
	}
	tx.FailureCode = code
	tx.FailureReason = reason
	return nil
}

// Settle отмечает выплату по успешной записи
func (l *Ledger) Settle(id string, amount, balanceAfter decimal.Decimal, at time.Time) error {
	tx, err := l.entry(id)
	if err != nil {
		return err
	}
	if tx.Status != domain.TxStatusSuccessful {
		return fmt.Errorf("ledger: %w: settle %s in %s", domain.ErrIllegalTransition, id, tx.Status)
	}
	tx.UpdatedAt = at
	tx.Amount = amount
	tx.BalanceAfter = balanceAfter
	tx.Description = DescSentToMerchant
	return nil
}

// Annotate меняет описание записи без смены статуса
func (l *Ledger) Annotate(id, description string, at time.Time) error {
	tx, err := l.entry(id)
	if err != nil {
		return err
	}
	tx.Description = description
	tx.UpdatedAt = at
	return nil
}

// SweepCooling переводит записи с истекшим охлаждением в PAYMENT_VERIFICATION
// и возвращает их id
func (l *Ledger) SweepCooling(now time.Time) []string {
	var moved []string
	for i := range l.entries {
		tx := &l.entries[i]
		if tx.Status != domain.TxStatusPending || tx.CoolingEndsAt == nil || now.Before(*tx.CoolingEndsAt) {
			continue
		}
		tx.Status = domain.TxStatusPaymentVerification
		tx.UpdatedAt = now
		moved = append(moved, tx.ID)
	}
	return moved
}

// Entries возвращает копии записей, новые первыми
func (l *Ledger) Entries() []domain.MerchantTx {
	out := make([]domain.MerchantTx, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0; i-- {
		out = append(out, l.entries[i].Clone())
	}
	return out
}

// Snapshot возвращает копии записей в порядке создания
func (l *Ledger) Snapshot() []domain.MerchantTx {
	out := make([]domain.MerchantTx, len(l.entries))
	for i, tx := range l.entries {
		out[i] = tx.Clone()
	}
	return out
}

func (l *Ledger) entry(id string) (*domain.MerchantTx, error) {
	i, ok := l.index[id]
	if !ok {
		return nil, fmt.Errorf("ledger: %w: %s", domain.ErrLedgerEntryNotFound, id)
	}
	return &l.entries[i], nil
}

// DeepLink возвращает маршрут возобновления для записи или пустую строку
func DeepLink(tx domain.MerchantTx, now time.Time) string {
	switch {
	case tx.CoolingActive(now):
		return RouteCooling + "?txId=" + url.QueryEscape(tx.ID)
	case tx.Status == domain.TxStatusPaymentVerification:
		return RouteVerify + "?txId=" + url.QueryEscape(tx.ID)
	default:
		return ""
	}
}
