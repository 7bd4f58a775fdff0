package repository

import (
	"context"
	"testing"

	"fitbot/internal/config"
	"fitbot/internal/domain"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func exerciseRepository(t *testing.T, repo domain.StateRepository) {
	t.Helper()
	ctx := context.Background()

	state, err := repo.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, state)

	in := &domain.UserState{UserID: 1, Flow: domain.FlowRegistration, Step: domain.StepPhone}
	in.Set(domain.DataFullName, "Ivan Ivanov")
	require.NoError(t, repo.SetState(ctx, in))

	// изменения после SetState не должны протекать в хранилище
	in.Set(domain.DataFullName, "mutated")

	got, err := repo.GetState(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.In(domain.FlowRegistration, domain.StepPhone))
	assert.Equal(t, "Ivan Ivanov", got.Get(domain.DataFullName))

	other, err := repo.GetState(ctx, 2)
	require.NoError(t, err)
	assert.Nil(t, other)

	require.NoError(t, repo.ClearState(ctx, 1))
	got, err = repo.GetState(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, repo.ClearState(ctx, 1))
}

func TestMemoryStateRepository(t *testing.T) {
	repo := NewMemoryStateRepository()
	exerciseRepository(t, repo)
	assert.Equal(t, 0, repo.Len())
}

func TestRedisStateRepository(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = Close(client) })

	require.NoError(t, Ping(context.Background(), client))
	exerciseRepository(t, NewRedisStateRepository(client))
}

func TestRedisStateRepositoryNoExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedisClient(config.RedisConfig{Address: mr.Addr()})
	t.Cleanup(func() { _ = Close(client) })

	repo := NewRedisStateRepository(client)
	require.NoError(t, repo.SetState(context.Background(), &domain.UserState{UserID: 9, Flow: domain.FlowBroadcast, Step: domain.StepText}))
	assert.Equal(t, int64(0), int64(mr.TTL(stateKey(9))))
}
