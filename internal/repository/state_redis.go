package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"fitbot/internal/domain"
	"github.com/redis/go-redis/v9"
)

const stateKeyPrefix = "fitbot:state:"

// RedisStateRepository хранит состояния диалогов в Redis без срока жизни:
// брошенный диалог живет до следующего входа пользователя в любой сценарий.
type RedisStateRepository struct {
	client *redis.Client
}

func NewRedisStateRepository(client *redis.Client) *RedisStateRepository {
	return &RedisStateRepository{client: client}
}

func stateKey(userID int64) string {
	return stateKeyPrefix + strconv.FormatInt(userID, 10)
}

func (r *RedisStateRepository) GetState(ctx context.Context, userID int64) (*domain.UserState, error) {
	raw, err := r.client.Get(ctx, stateKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get state %d: %w", userID, err)
	}

	var state domain.UserState
	if err := json.Unmarshal(raw, &state); err != nil {
		return nil, fmt.Errorf("decode state %d: %w", userID, err)
	}
	return &state, nil
}

func (r *RedisStateRepository) SetState(ctx context.Context, state *domain.UserState) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode state %d: %w", state.UserID, err)
	}
	if err := r.client.Set(ctx, stateKey(state.UserID), raw, 0).Err(); err != nil {
		return fmt.Errorf("set state %d: %w", state.UserID, err)
	}
	return nil
}

func (r *RedisStateRepository) ClearState(ctx context.Context, userID int64) error {
	if err := r.client.Del(ctx, stateKey(userID)).Err(); err != nil {
		return fmt.Errorf("clear state %d: %w", userID, err)
	}
	return nil
}
