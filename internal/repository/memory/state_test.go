package memory

import (
	"context"
	"testing"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewStateRepository()

	_, err := repo.Load(ctx, "bridge")
	assert.ErrorIs(t, err, domain.ErrStateNotFound)

	state := &domain.State{
		Order:          domain.Order{OrderID: "ORD-100001", InvoiceStatus: domain.StatusDraft},
		History:        []domain.MerchantTx{{ID: "mtx_1", Status: domain.TxStatusPending, Amount: decimal.NewFromInt(60)}},
		UsedReferences: []string{"UTR1234567890"},
	}
	require.NoError(t, repo.Save(ctx, "bridge", state))

	// изменения после записи не попадают в хранилище
	state.History[0].Status = domain.TxStatusFailed
	state.UsedReferences[0] = "changed"

	loaded, err := repo.Load(ctx, "bridge")
	require.NoError(t, err)
	assert.Equal(t, "ORD-100001", loaded.Order.OrderID)
	assert.Equal(t, domain.TxStatusPending, loaded.History[0].Status)
	assert.Equal(t, []string{"UTR1234567890"}, loaded.UsedReferences)
	assert.Equal(t, 1, repo.Saves())
	assert.NoError(t, repo.Ping(ctx))
}
