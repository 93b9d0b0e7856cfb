// Package sqlite хранит снимок сессии в локальном файле SQLite.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/avc/crypto-bridge/internal/domain"

	// чистый Go драйвер, без CGO
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS bridge_state (
    key        TEXT PRIMARY KEY,
    payload    TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
`

// StateRepository реализует domain.StateRepository поверх SQLite
type StateRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Open открывает или создает базу по пути и применяет схему
func Open(path string) (*StateRepository, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)", path)

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %q: %w", path, err)
	}

	// один писатель
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: apply schema: %w", err)
	}

	return &StateRepository{db: db, now: time.Now}, nil
}

// Load получает снимок по ключу
func (r *StateRepository) Load(ctx context.Context, key string) (*domain.State, error) {
	var payload string
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM bridge_state WHERE key = ?`, key,
	).Scan(&payload)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrStateNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sqlite: load state %s: %w", key, err)
	}

	var state domain.State
	if err := json.Unmarshal([]byte(payload), &state); err != nil {
		return nil, fmt.Errorf("sqlite: decode state %s: %w", key, err)
	}
	return &state, nil
}

// Save сохраняет снимок, заменяя предыдущий
func (r *StateRepository) Save(ctx context.Context, key string, state *domain.State) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("sqlite: encode state %s: %w", key, err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO bridge_state (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, string(payload), r.now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("sqlite: save state %s: %w", key, err)
	}
	return nil
}

// Ping проверяет доступность базы
func (r *StateRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close закрывает базу
func (r *StateRepository) Close() {
	_ = r.db.Close()
}
