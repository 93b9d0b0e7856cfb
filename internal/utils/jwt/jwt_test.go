package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_Generate(t *testing.T) {
	tests := []struct {
		name      string
		secretKey string
		tokenTTL  time.Duration
		txID      string
	}{
		{
			name:      "Pending entry",
			secretKey: "test-secret-key",
			tokenTTL:  time.Hour,
			txID:      "mtx_latest_pending",
		},
		{
			name:      "Generated entry id",
			secretKey: "another-secret",
			tokenTTL:  time.Minute * 30,
			txID:      "mtx_0a1b2c3d4e5f",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager(tt.secretKey, tt.tokenTTL)
			token, err := m.Generate(tt.txID)
			require.NoError(t, err)
			assert.NotEmpty(t, token)
		})
	}
}

func TestManager_Validate(t *testing.T) {
	secretKey := "test-secret-key"
	tokenTTL := time.Hour
	txID := "mtx_007"

	t.Run("Valid token", func(t *testing.T) {
		m := NewManager(secretKey, tokenTTL)
		token, err := m.Generate(txID)
		require.NoError(t, err)

		parsed, err := m.Validate(token)
		require.NoError(t, err)
		assert.Equal(t, txID, parsed)
	})

	t.Run("Invalid token - wrong secret", func(t *testing.T) {
		token, err := NewManager(secretKey, tokenTTL).Generate(txID)
		require.NoError(t, err)

		_, err = NewManager("wrong-secret", tokenTTL).Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Invalid token - malformed", func(t *testing.T) {
		_, err := NewManager(secretKey, tokenTTL).Validate("invalid.token.string")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Invalid token - empty", func(t *testing.T) {
		_, err := NewManager(secretKey, tokenTTL).Validate("")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Invalid token - empty tx id", func(t *testing.T) {
		m := NewManager(secretKey, tokenTTL)
		token, err := m.Generate("")
		require.NoError(t, err)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired token", func(t *testing.T) {
		m := NewManager(secretKey, time.Nanosecond)
		token, err := m.Generate(txID)
		require.NoError(t, err)

		// Ждем, чтобы токен истек
		time.Sleep(time.Millisecond * 10)

		_, err = m.Validate(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestManager_ValidateWithInvalidSigningMethod(t *testing.T) {
	m := NewManager("secret", time.Hour)

	// alg=none
	_, err := m.Validate("eyJhbGciOiJub25lIiwidHlwIjoiSldUIn0.eyJ0eF9pZCI6Im10eF8wMDcifQ.")
	assert.Error(t, err)
}

func BenchmarkManager_Validate(b *testing.B) {
	m := NewManager("test-secret-key", time.Hour)
	token, _ := m.Generate("mtx_007")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = m.Validate(token)
	}
}
