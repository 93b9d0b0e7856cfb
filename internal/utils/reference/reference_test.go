package reference

import (
	"testing"

	"github.com/avc/crypto-bridge/internal/domain"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		refType domain.ReferenceType
		want    Result
	}{
		{
			name:    "Valid UTR sentinel",
			raw:     "UTR1234567890",
			refType: domain.ReferenceTypeUTR,
			want:    Result{Valid: true},
		},
		{
			name:    "Valid UTR lower case with spaces",
			raw:     "  utr1234567890 ",
			refType: domain.ReferenceTypeUTR,
			want:    Result{Valid: true},
		},
		{
			name:    "UTR minimum length",
			raw:     "ABCDEFGHIJ",
			refType: domain.ReferenceTypeUTR,
			want:    Result{Valid: true},
		},
		{
			name:    "UTR too short",
			raw:     "ABCDEFGHI",
			refType: domain.ReferenceTypeUTR,
			want:    Result{Reason: ReasonInvalidUTR},
		},
		{
			name:    "UTR too long",
			raw:     "A1234567890123456789012",
			refType: domain.ReferenceTypeUTR,
			want:    Result{Reason: ReasonInvalidUTR},
		},
		{
			name:    "UTR with dash",
			raw:     "UTR-1234567890",
			refType: domain.ReferenceTypeUTR,
			want:    Result{Reason: ReasonInvalidUTR},
		},
		{
			name:    "Empty",
			raw:     "   ",
			refType: domain.ReferenceTypeUTR,
			want:    Result{Reason: ReasonRequired},
		},
		{
			name:    "Valid BRN sentinel",
			raw:     "BRN1234567890",
			refType: domain.ReferenceTypeBRN,
			want:    Result{Valid: true},
		},
		{
			name:    "BRN too short",
			raw:     "BRN12345678",
			refType: domain.ReferenceTypeBRN,
			want:    Result{Reason: ReasonInvalidBRN},
		},
		{
			name:    "BRN with too few digits",
			raw:     "ABCDEFGHI12345",
			refType: domain.ReferenceTypeBRN,
			want:    Result{Reason: ReasonInvalidBRN},
		},
		{
			name:    "BRN with exactly six digits",
			raw:     "ABCDEFGH123456",
			refType: domain.ReferenceTypeBRN,
			want:    Result{Valid: true},
		},
		{
			name:    "BRN with unicode letter",
			raw:     "BRN12345678É0",
			refType: domain.ReferenceTypeBRN,
			want:    Result{Reason: ReasonInvalidBRN},
		},
		{
			name:    "Unknown type",
			raw:     "UTR1234567890",
			refType: domain.ReferenceTypeNone,
			want:    Result{Reason: ReasonInvalidUTR},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Validate(tt.raw, tt.refType); got != tt.want {
				t.Errorf("Validate(%q, %s) = %+v, want %+v", tt.raw, tt.refType, got, tt.want)
			}
			// Повторный вызов даёт тот же результат
			if got := Validate(tt.raw, tt.refType); got != tt.want {
				t.Errorf("Validate(%q, %s) is not stable", tt.raw, tt.refType)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	if got := Normalize("  utr12ab \t"); got != "UTR12AB" {
		t.Errorf("Normalize() = %q, want %q", got, "UTR12AB")
	}
}

func BenchmarkValidate(b *testing.B) {
	refs := []string{
		"UTR1234567890",
		"BRN1234567890",
		"HDFCNF12345678",
		"brn9876543210ab",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Validate(refs[i%len(refs)], domain.ReferenceTypeBRN)
	}
}
