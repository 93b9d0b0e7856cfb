package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/avc/crypto-bridge/internal/domain"
	"github.com/jackc/pgx/v5"
)

// StateRepository хранит снимок сессии одной строкой JSONB
type StateRepository struct {
	db DBTX
}

// NewStateRepository создает новый StateRepository
func NewStateRepository(db DBTX) *StateRepository {
	return &StateRepository{db: db}
}

// Load получает снимок по ключу
func (r *StateRepository) Load(ctx context.Context, key string) (*domain.State, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}

	var payload []byte
	err := r.db.QueryRow(ctx,
		`SELECT payload FROM bridge_state WHERE key = $1`,
		key,
	).Scan(&payload)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrStateNotFound
		}
		return nil, fmt.Errorf("repository: failed to load state %s: %w", key, err)
	}

	var state domain.State
	if err := json.Unmarshal(payload, &state); err != nil {
		return nil, fmt.Errorf("repository: %w: %s: %v", ErrCorruptState, key, err)
	}

	return &state, nil
}

// Save сохраняет снимок, заменяя предыдущий
func (r *StateRepository) Save(ctx context.Context, key string, state *domain.State) error {
	if key == "" {
		return ErrEmptyKey
	}

	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("repository: failed to encode state %s: %w", key, err)
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO bridge_state (key, payload, updated_at)
		 VALUES ($1, $2, NOW())
		 ON CONFLICT (key) DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()`,
		key, payload,
	)
	if err != nil {
		return fmt.Errorf("repository: failed to save state %s: %w", key, err)
	}

	return nil
}
