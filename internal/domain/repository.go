package domain

import "context"

// StateRepository хранилище состояний диалогов. GetState возвращает nil, nil
// если у пользователя нет активного диалога.
type StateRepository interface {
	GetState(ctx context.Context, userID int64) (*UserState, error)
	SetState(ctx context.Context, state *UserState) error
	ClearState(ctx context.Context, userID int64) error
}
