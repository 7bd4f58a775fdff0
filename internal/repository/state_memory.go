package repository

import (
	"context"
	"sync"

	"fitbot/internal/domain"
)

// MemoryStateRepository состояния в памяти процесса; используется, когда Redis не настроен
type MemoryStateRepository struct {
	mu     sync.RWMutex
	states map[int64]*domain.UserState
}

func NewMemoryStateRepository() *MemoryStateRepository {
	return &MemoryStateRepository{states: make(map[int64]*domain.UserState)}
}

func (r *MemoryStateRepository) GetState(_ context.Context, userID int64) (*domain.UserState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	state, ok := r.states[userID]
	if !ok {
		return nil, nil
	}
	return cloneState(state), nil
}

func (r *MemoryStateRepository) SetState(_ context.Context, state *domain.UserState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.states[state.UserID] = cloneState(state)
	return nil
}

func (r *MemoryStateRepository) ClearState(_ context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.states, userID)
	return nil
}

// Len количество активных диалогов
func (r *MemoryStateRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

func cloneState(s *domain.UserState) *domain.UserState {
	c := *s
	if s.Data != nil {
		c.Data = make(map[string]string, len(s.Data))
		for k, v := range s.Data {
			c.Data[k] = v
		}
	}
	return &c
}
