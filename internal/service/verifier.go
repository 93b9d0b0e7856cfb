package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/avc/crypto-bridge/internal/utils/reference"
)

// Референсы, которые проходят проверку своего типа, пока не использованы
const (
	SentinelUTR = "UTR1234567890"
	SentinelBRN = "BRN1234567890"
)

// ForceFailMode задает принудительный отказ верификатора (только для разработки)
type ForceFailMode string

const (
	ForceFailNone   ForceFailMode = "NONE"
	ForceFailFail   ForceFailMode = "FAIL"
	ForceFailUsed   ForceFailMode = "USED"
	ForceFailAmount ForceFailMode = "AMOUNT"
)

// ParseForceFailMode разбирает режим принудительного отказа
func ParseForceFailMode(s string) (ForceFailMode, error) {
	mode := ForceFailMode(strings.ToUpper(strings.TrimSpace(s)))
	switch mode {
	case "":
		return ForceFailNone, nil
	case ForceFailNone, ForceFailFail, ForceFailUsed, ForceFailAmount:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidForceFailMode, s)
	}
}

// маркеры намеренного отказа проверяются в этом порядке
var failureMarkers = []struct {
	marker string
	code   domain.ErrorCode
}{
	{"NF", domain.ErrorCodeNotFound},
	{"AMT", domain.ErrorCodeAmountMismatch},
	{"USED", domain.ErrorCodeAlreadyUsed},
	{"FRAUD", domain.ErrorCodeFraud},
}

var forcedCodes = map[ForceFailMode]domain.ErrorCode{
	ForceFailFail:   domain.ErrorCodeNotFound,
	ForceFailUsed:   domain.ErrorCodeAlreadyUsed,
	ForceFailAmount: domain.ErrorCodeAmountMismatch,
}

// FailureMessage возвращает сообщение об ошибке для типа референса
func FailureMessage(refType domain.ReferenceType) string {
	if refType == domain.ReferenceTypeBRN {
		return "Incorrect BRN"
	}
	return "Incorrect UTR"
}

// Decide - детерминированная политика проверки референса
func Decide(req domain.VerificationRequest, usedReferences []string, mode ForceFailMode) domain.VerificationResult {
	ref := reference.Normalize(req.Reference)
	fail := func(code domain.ErrorCode) domain.VerificationResult {
		return domain.VerificationResult{Code: code, Message: FailureMessage(req.ReferenceType)}
	}

	// повтор отклоняется для любого референса, включая тестовые
	for _, used := range usedReferences {
		if used == ref {
			return fail(domain.ErrorCodeAlreadyUsed)
		}
	}

	if (req.ReferenceType == domain.ReferenceTypeUTR && ref == SentinelUTR) ||
		(req.ReferenceType == domain.ReferenceTypeBRN && ref == SentinelBRN) {
		return domain.VerificationResult{Success: true}
	}

	if code, ok := forcedCodes[mode]; ok {
		return fail(code)
	}

	for _, m := range failureMarkers {
		if strings.Contains(ref, m.marker) {
			return fail(m.code)
		}
	}

	return domain.VerificationResult{Success: true}
}

// MockVerifier реализует domain.Verifier на детерминированной политике
type MockVerifier struct {
	delay time.Duration
	mode  ForceFailMode
}

// NewMockVerifier создает новый MockVerifier
func NewMockVerifier(delay time.Duration, mode ForceFailMode) *MockVerifier {
	return &MockVerifier{delay: delay, mode: mode}
}

// Verify проверяет референс с имитацией задержки сети
func (v *MockVerifier) Verify(ctx context.Context, req domain.VerificationRequest, usedReferences []string) (domain.VerificationResult, error) {
	if v.delay > 0 {
		timer := time.NewTimer(v.delay)
		defer timer.Stop()

		select {
		case <-ctx.Done():
			return domain.VerificationResult{}, ctx.Err()
		case <-timer.C:
		}
	}

	return Decide(req, usedReferences, v.mode), nil
}
