package service

import (
	"context"
	"testing"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecide(t *testing.T) {
	utr := func(ref string) domain.VerificationRequest {
		return domain.VerificationRequest{ReferenceType: domain.ReferenceTypeUTR, Reference: ref}
	}
	brn := func(ref string) domain.VerificationRequest {
		return domain.VerificationRequest{ReferenceType: domain.ReferenceTypeBRN, Reference: ref}
	}

	tests := []struct {
		name    string
		req     domain.VerificationRequest
		used    []string
		mode    ForceFailMode
		success bool
		code    domain.ErrorCode
		message string
	}{
		{name: "utr sentinel", req: utr("UTR1234567890"), success: true},
		{name: "sentinel replay", req: utr("utr1234567890"), used: []string{"UTR1234567890"}, code: domain.ErrorCodeAlreadyUsed, message: "Incorrect UTR"},
		{name: "sentinel of other type is not replay", req: brn("BRN1234567890"), used: []string{"UTR1234567890"}, success: true},
		{name: "sentinel ignores force mode", req: brn("BRN1234567890"), mode: ForceFailFail, success: true},
		{name: "sentinel of other type", req: brn("UTR1234567890"), success: true},
		{name: "already used", req: utr("UTR5555555555"), used: []string{"UTR5555555555"}, code: domain.ErrorCodeAlreadyUsed, message: "Incorrect UTR"},
		{name: "force fail", req: utr("UTR5555555555"), mode: ForceFailFail, code: domain.ErrorCodeNotFound, message: "Incorrect UTR"},
		{name: "force used", req: brn("BRN5555555555"), mode: ForceFailUsed, code: domain.ErrorCodeAlreadyUsed, message: "Incorrect BRN"},
		{name: "force amount", req: utr("UTR5555555555"), mode: ForceFailAmount, code: domain.ErrorCodeAmountMismatch, message: "Incorrect UTR"},
		{name: "not found marker", req: utr("UTR12345NF678"), code: domain.ErrorCodeNotFound, message: "Incorrect UTR"},
		{name: "amount marker", req: brn("BRN12345AMT6789"), code: domain.ErrorCodeAmountMismatch, message: "Incorrect BRN"},
		{name: "used marker", req: utr("UTR1234USED56"), code: domain.ErrorCodeAlreadyUsed, message: "Incorrect UTR"},
		{name: "fraud marker", req: utr("UTR12345FRAUD"), code: domain.ErrorCodeFraud, message: "Incorrect UTR"},
		{name: "plain success", req: utr("UTR9876543210"), success: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mode := tt.mode
			if mode == "" {
				mode = ForceFailNone
			}
			got := Decide(tt.req, tt.used, mode)
			assert.Equal(t, tt.success, got.Success)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.message, got.Message)
		})
	}
}

func TestDecide_SentinelOfOtherTypeIsNotSpecial(t *testing.T) {
	req := domain.VerificationRequest{ReferenceType: domain.ReferenceTypeBRN, Reference: "UTR1234567890"}
	got := Decide(req, nil, ForceFailFail)
	assert.False(t, got.Success)
	assert.Equal(t, domain.ErrorCodeNotFound, got.Code)
}

func TestParseForceFailMode(t *testing.T) {
	mode, err := ParseForceFailMode("")
	require.NoError(t, err)
	assert.Equal(t, ForceFailNone, mode)

	mode, err = ParseForceFailMode(" amount ")
	require.NoError(t, err)
	assert.Equal(t, ForceFailAmount, mode)

	_, err = ParseForceFailMode("sometimes")
	assert.ErrorIs(t, err, ErrInvalidForceFailMode)
}

func TestMockVerifier_HonoursContext(t *testing.T) {
	v := NewMockVerifier(time.Second, ForceFailNone)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := v.Verify(ctx, domain.VerificationRequest{ReferenceType: domain.ReferenceTypeUTR, Reference: "UTR9876543210"}, nil)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestMockVerifier_Verify(t *testing.T) {
	v := NewMockVerifier(time.Millisecond, ForceFailNone)

	got, err := v.Verify(context.Background(), domain.VerificationRequest{ReferenceType: domain.ReferenceTypeUTR, Reference: "UTR9876543210"}, nil)
	require.NoError(t, err)
	assert.True(t, got.Success)
}
