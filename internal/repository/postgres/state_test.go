package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testState() *domain.State {
	return &domain.State{
		Order: domain.Order{
			OrderID:       "ORD-123456",
			InvoiceStatus: domain.StatusCooling,
			SourceAmount:  decimal.NewFromInt(60),
		},
		History: []domain.MerchantTx{
			{ID: "mtx_1", Status: domain.TxStatusPending, Amount: decimal.NewFromInt(60)},
		},
		UsedReferences: []string{"UTR1234567890"},
	}
}

func TestStateRepository_Load(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStateRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		payload, err := json.Marshal(testState())
		require.NoError(t, err)

		rows := pgxmock.NewRows([]string{"payload"}).AddRow(payload)
		mock.ExpectQuery(`SELECT payload FROM bridge_state WHERE key`).
			WithArgs("bridge").
			WillReturnRows(rows)

		state, err := repo.Load(ctx, "bridge")
		require.NoError(t, err)
		assert.Equal(t, "ORD-123456", state.Order.OrderID)
		assert.Equal(t, domain.StatusCooling, state.Order.InvoiceStatus)
		require.Len(t, state.History, 1)
		assert.Equal(t, []string{"UTR1234567890"}, state.UsedReferences)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("State not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT payload FROM bridge_state WHERE key`).
			WithArgs("missing").
			WillReturnError(pgx.ErrNoRows)

		state, err := repo.Load(ctx, "missing")
		assert.ErrorIs(t, err, domain.ErrStateNotFound)
		assert.Nil(t, state)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Corrupt payload", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"payload"}).AddRow([]byte("{broken"))
		mock.ExpectQuery(`SELECT payload FROM bridge_state WHERE key`).
			WithArgs("bridge").
			WillReturnRows(rows)

		_, err := repo.Load(ctx, "bridge")
		assert.ErrorIs(t, err, ErrCorruptState)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectQuery(`SELECT payload FROM bridge_state WHERE key`).
			WithArgs("bridge").
			WillReturnError(errors.New("database error"))

		_, err := repo.Load(ctx, "bridge")
		assert.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrStateNotFound)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Empty key", func(t *testing.T) {
		_, err := repo.Load(ctx, "")
		assert.ErrorIs(t, err, ErrEmptyKey)
	})
}

func TestStateRepository_Save(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewStateRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO bridge_state`).
			WithArgs("bridge", pgxmock.AnyArg()).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))

		err := repo.Save(ctx, "bridge", testState())
		assert.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Database error", func(t *testing.T) {
		mock.ExpectExec(`INSERT INTO bridge_state`).
			WithArgs("bridge", pgxmock.AnyArg()).
			WillReturnError(errors.New("database error"))

		err := repo.Save(ctx, "bridge", testState())
		assert.Error(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRunMigrations(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS bridge_state`).
		WillReturnResult(pgxmock.NewResult("CREATE TABLE", 0))

	err = RunMigrations(context.Background(), mock, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
