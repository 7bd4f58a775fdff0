package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"fitbot/internal/domain"
	"fitbot/internal/repository"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateServiceFlow(t *testing.T) {
	ctx := context.Background()
	s := NewStateService(repository.NewMemoryStateRepository(), zerolog.Nop())

	state, err := s.StartFlow(ctx, 1, domain.FlowRegistration, domain.StepFullName)
	require.NoError(t, err)
	require.NoError(t, s.Advance(ctx, state, domain.DataFullName, "Ivan", domain.StepPhone))

	got, err := s.GetUserState(ctx, 1)
	require.NoError(t, err)
	assert.True(t, got.In(domain.FlowRegistration, domain.StepPhone))
	assert.Equal(t, "Ivan", got.Get(domain.DataFullName))

	_, err = s.StartFlow(ctx, 1, domain.FlowRating, domain.StepCategory)
	require.NoError(t, err)
	got, err = s.GetUserState(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, got.Get(domain.DataFullName))

	require.NoError(t, s.ClearUserState(ctx, 1))
	got, err = s.GetUserState(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStateServiceLockSerializesSameUser(t *testing.T) {
	s := NewStateService(repository.NewMemoryStateRepository(), zerolog.Nop())

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		active  int
		maxSeen int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.Lock(7)
			defer unlock()

			mu.Lock()
			active++
			if active > maxSeen {
				maxSeen = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestStateServiceLockIndependentUsers(t *testing.T) {
	s := NewStateService(repository.NewMemoryStateRepository(), zerolog.Nop())

	unlock := s.Lock(1)
	defer unlock()

	done := make(chan struct{})
	go func() {
		release := s.Lock(2)
		release()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock of another user blocked")
	}
}
