package ledger

import (
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	hdfcDetails = &domain.BeneficiaryDetails{
		BeneficiaryName:     "Merchant Beneficiary - HDFC",
		BankName:            "HDFC Bank",
		AccountNumberMasked: "XXXXXX9012",
		IFSC:                "HDFC0001234",
	}
	iciciDetails = &domain.BeneficiaryDetails{
		BeneficiaryName:     "Merchant Beneficiary - ICICI",
		BankName:            "ICICI Bank",
		AccountNumberMasked: "XXXXXX1098",
		IFSC:                "ICIC0005678",
	}
	sbiDetails = &domain.BeneficiaryDetails{
		BeneficiaryName:     "Merchant Beneficiary - SBI",
		BankName:            "SBI",
		AccountNumberMasked: "XXXXXX7788",
		IFSC:                "SBIN0004321",
	}
)

// DefaultHistory возвращает демонстрационную историю в порядке создания.
// Записи PENDING заканчивают охлаждение относительно now.
func DefaultHistory(now time.Time) []domain.MerchantTx {
	at := func(s string) time.Time {
		t, _ := time.Parse(time.RFC3339, s)
		return t
	}
	in := func(d time.Duration) *time.Time {
		t := now.Add(d)
		return &t
	}
	amount := func(v string) decimal.Decimal {
		return decimal.RequireFromString(v)
	}

	return []domain.MerchantTx{
		{
			ID: "mtx_010", CreatedAt: at("2026-02-25T18:00:00Z"), RelatedOrderID: "ORD-010",
			Type: domain.TxTypeMerchantSettlement, Description: "Settlement to merchant wallet",
			Amount: amount("-200"), BalanceAfter: amount("12715.25"), Reference: "ref_settle_001...",
			Status: domain.TxStatusSuccessful,
		},
		{
			ID: "mtx_009", CreatedAt: at("2026-02-26T07:30:00Z"), RelatedOrderID: "ORD-009",
			Type: domain.TxTypeBridgeDeposit, Description: DescPendingCooling,
			Amount: amount("45"), BalanceAfter: amount("12760.25"), Reference: "ref_dep_wait...",
			Status: domain.TxStatusPending, CoolingEndsAt: in(60 * time.Minute), Beneficiary: sbiDetails,
		},
		{
			ID: "mtx_008", CreatedAt: at("2026-02-26T08:05:00Z"), RelatedOrderID: "ORD-008",
			Type: domain.TxTypeBridgeDeposit, Description: DescPendingCooling,
			Amount: amount("100"), BalanceAfter: amount("12860.25"), Reference: "ref_dep_cool...",
			Status: domain.TxStatusPending, CoolingEndsAt: in(30 * time.Minute), Beneficiary: iciciDetails,
		},
		{
			ID: "mtx_006", CreatedAt: at("2026-02-26T08:20:15Z"), RelatedOrderID: "ORD-006",
			Type: domain.TxTypeBridgeDeposit, Description: "Bridge deposit: 50 USDT (reference already used)",
			Amount: amount("50"), BalanceAfter: amount("12990.25"), Reference: "ref_dep_used...",
			Status: domain.TxStatusFailed, FailureCode: domain.ErrorCodeAlreadyUsed,
			FailureReason: "TxID already used", Beneficiary: sbiDetails,
		},
		{
			ID: "mtx_007", CreatedAt: at("2026-02-26T09:12:11Z"), RelatedOrderID: "ORD-007",
			Type: domain.TxTypeBridgeDeposit, Description: DescPendingCooling,
			Amount: amount("80"), BalanceAfter: amount("12940.25"), Reference: "ref_dep_pend...",
			Status: domain.TxStatusPaymentVerification, Beneficiary: hdfcDetails,
		},
		{
			ID: "mtx_005", CreatedAt: at("2026-02-26T09:55:00Z"), RelatedOrderID: "ORD-005",
			Type: domain.TxTypeBridgeDeposit, Description: "Bridge deposit: 80 USDT (amount mismatch)",
			Amount: amount("80"), BalanceAfter: amount("13070.25"), Reference: "ref_dep_amt...",
			Status: domain.TxStatusFailed, FailureCode: domain.ErrorCodeAmountMismatch,
			FailureReason: "Amount mismatch", Beneficiary: iciciDetails,
		},
		{
			ID: "mtx_004", CreatedAt: at("2026-02-26T10:31:25Z"), RelatedOrderID: "ORD-004",
			Type: domain.TxTypeBridgeDeposit, Description: "Bridge deposit purchase: 120 USDT (verification failed)",
			Amount: amount("120"), BalanceAfter: amount("13190.25"), Reference: "ref_dep_bdjl...",
			Status: domain.TxStatusFailed, FailureCode: domain.ErrorCodeNotFound,
			FailureReason: "TxID not found", Beneficiary: hdfcDetails,
		},
		{
			ID: "mtx_003", CreatedAt: at("2026-02-26T17:45:00Z"), RelatedOrderID: "ORD-003",
			Type: domain.TxTypePlayerConversion, Description: "Player deposit converted to USDT",
			Amount: amount("120"), BalanceAfter: amount("13310.25"), Reference: "ref_plr_xyz...",
			Status: domain.TxStatusSuccessful,
		},
		{
			ID: "mtx_002", CreatedAt: at("2026-02-26T18:15:10Z"), RelatedOrderID: "ORD-002",
			Type: domain.TxTypeBridgeDeposit, Description: DescPurchase(amount("60")),
			Amount: amount("60"), BalanceAfter: amount("13370.25"), Reference: "ref_dep_abc...",
			Status: domain.TxStatusSuccessful, Beneficiary: iciciDetails,
		},
		{
			ID: "mtx_001", CreatedAt: at("2026-02-26T18:31:25Z"), RelatedOrderID: "ORD-001",
			Type: domain.TxTypeBridgeDeposit, Description: DescPurchase(amount("60")),
			Amount: amount("60"), BalanceAfter: amount("13430.25"), Reference: "ref_dep_2rm...",
			Status: domain.TxStatusSuccessful, Beneficiary: hdfcDetails,
		},
		{
			ID: "mtx_latest_pending", CreatedAt: now, RelatedOrderID: "ORD-LATEST",
			Type: domain.TxTypeBridgeDeposit, Description: DescPendingCooling,
			Amount: amount("60"), BalanceAfter: amount("13430.25"), Reference: "ref_dep_pending...",
			Status: domain.TxStatusPending, CoolingEndsAt: in(2 * time.Minute), Beneficiary: hdfcDetails,
		},
	}
}

// DefaultWallet возвращает стартовый кошелек мерчанта
func DefaultWallet() domain.Wallet {
	return domain.Wallet{
		Available: decimal.RequireFromString("13430.25"),
		Locked:    decimal.Zero,
	}
}
