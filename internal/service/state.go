package service

import (
	"context"
	"sync"

	"fitbot/internal/domain"
	"github.com/rs/zerolog"
)

// StateService владеет состояниями диалогов и сериализует события одного пользователя
type StateService struct {
	stateRepo domain.StateRepository
	logger    zerolog.Logger

	mu    sync.Mutex
	locks map[int64]*sync.Mutex
}

func NewStateService(stateRepo domain.StateRepository, logger zerolog.Logger) *StateService {
	return &StateService{
		stateRepo: stateRepo,
		logger:    logger.With().Str("component", "state").Logger(),
		locks:     make(map[int64]*sync.Mutex),
	}
}

// Lock захватывает эксклюзивный доступ к диалогу пользователя. События разных
// пользователей друг друга не ждут.
func (s *StateService) Lock(userID int64) (unlock func()) {
	s.mu.Lock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

func (s *StateService) GetUserState(ctx context.Context, userID int64) (*domain.UserState, error) {
	state, err := s.stateRepo.GetState(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", userID).Msg("get state")
		return nil, err
	}

	if state == nil {
		s.logger.Debug().Int64("user_id", userID).Msg("no state")
	} else {
		s.logger.Debug().Int64("user_id", userID).Str("flow", string(state.Flow)).Str("step", string(state.Step)).Msg("state found")
	}
	return state, nil
}

// StartFlow начинает новый диалог, отбрасывая любой незавершенный
func (s *StateService) StartFlow(ctx context.Context, userID int64, flow domain.Flow, step domain.Step) (*domain.UserState, error) {
	state := &domain.UserState{UserID: userID, Flow: flow, Step: step, Data: map[string]string{}}
	if err := s.stateRepo.SetState(ctx, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Advance сохраняет значение поля и переводит диалог на следующий шаг
func (s *StateService) Advance(ctx context.Context, state *domain.UserState, key, value string, next domain.Step) error {
	if key != "" {
		state.Set(key, value)
	}
	state.Step = next
	return s.stateRepo.SetState(ctx, state)
}

func (s *StateService) ClearUserState(ctx context.Context, userID int64) error {
	return s.stateRepo.ClearState(ctx, userID)
}
