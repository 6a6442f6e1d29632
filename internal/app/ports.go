package app

import "context"

// Use-case ports for presentation layers that only need a slice of the
// progression engine.

type CurrentViewUseCase interface {
	GetCurrentView(ctx context.Context, req ViewRequest) (*CurrentView, error)
}

type ToggleItemUseCase interface {
	ToggleItem(ctx context.Context, userID, itemID string) (*MutationResult, error)
}

type SkipItemUseCase interface {
	SkipItem(ctx context.Context, userID, itemID string) (*MutationResult, error)
}
