package reference

import (
	"strings"

	"github.com/avc/crypto-bridge/internal/domain"
)

// Ограничения длины по типу референса
const (
	brnMinLength = 12
	brnMaxLength = 22
	brnMinDigits = 6
	utrMinLength = 10
	utrMaxLength = 22
)

// Причины отказа
const (
	ReasonRequired   = "Required"
	ReasonInvalidUTR = "Enter a valid UTR"
	ReasonInvalidBRN = "Enter a valid BRN"
)

// Result представляет результат синтаксической проверки
type Result struct {
	Valid  bool
	Reason string
}

// Normalize приводит референс к каноническому виду
func Normalize(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Validate проверяет референс по правилам его типа
func Validate(raw string, refType domain.ReferenceType) Result {
	ref := Normalize(raw)
	if ref == "" {
		return Result{Reason: ReasonRequired}
	}

	invalid := Result{Reason: ReasonInvalidUTR}
	if refType == domain.ReferenceTypeBRN {
		invalid.Reason = ReasonInvalidBRN
	}

	// Только A-Z и 0-9
	digits := 0
	for i := 0; i < len(ref); i++ {
		ch := ref[i]
		switch {
		case ch >= '0' && ch <= '9':
			digits++
		case ch >= 'A' && ch <= 'Z':
		default:
			return invalid
		}
	}

	switch refType {
	case domain.ReferenceTypeBRN:
		if len(ref) < brnMinLength || len(ref) > brnMaxLength || digits < brnMinDigits {
			return invalid
		}
	case domain.ReferenceTypeUTR:
		if len(ref) < utrMinLength || len(ref) > utrMaxLength {
			return invalid
		}
	default:
		return invalid
	}

	return Result{Valid: true}
}
