package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

// RateSource определяет источник курса обмена
type RateSource interface {
	FetchRate(ctx context.Context) (decimal.Decimal, error)
}

// Verifier определяет транспорт проверки платежного референса
type Verifier interface {
	Verify(ctx context.Context, req VerificationRequest, usedReferences []string) (VerificationResult, error)
}

// Settler определяет транспорт подтверждения выплаты мерчанту
type Settler interface {
	FinalizeSettlement(ctx context.Context, orderID string) error
}

// StateRepository определяет методы хранения снимка состояния
type StateRepository interface {
	Load(ctx context.Context, key string) (*State, error)
	Save(ctx context.Context, key string, state *State) error
}
