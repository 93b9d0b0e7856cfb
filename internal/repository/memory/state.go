package memory

import (
	"context"
	"sync"

	"github.com/avc/crypto-bridge/internal/domain"
)

// StateRepository хранит снимки сессии в памяти процесса
type StateRepository struct {
	mu     sync.RWMutex
	states map[string]*domain.State
	saves  int
}

// NewStateRepository создает новый StateRepository
func NewStateRepository() *StateRepository {
	return &StateRepository{states: make(map[string]*domain.State)}
}

// Load возвращает копию снимка
func (r *StateRepository) Load(_ context.Context, key string) (*domain.State, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[key]
	if !ok {
		return nil, domain.ErrStateNotFound
	}
	return state.Clone(), nil
}

// Save заменяет снимок
func (r *StateRepository) Save(_ context.Context, key string, state *domain.State) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.states[key] = state.Clone()
	r.saves++
	return nil
}

// Saves возвращает количество записей
func (r *StateRepository) Saves() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.saves
}

// Ping всегда успешен
func (r *StateRepository) Ping(context.Context) error {
	return nil
}

// Close ничего не делает
func (r *StateRepository) Close() {}
