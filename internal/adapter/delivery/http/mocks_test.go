package http

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shorturls/internal/entity"
	"github.com/vadimbarashkov/shorturls/internal/usecase"
)

type MockLinkUseCase struct {
	mock.Mock
}

func (uc *MockLinkUseCase) ShortenURL(ctx context.Context, p usecase.ShortenParams) (*entity.Link, error) {
	args := uc.Called(ctx, p)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (uc *MockLinkUseCase) ResolveShortCode(ctx context.Context, shortCode string, p usecase.ClickParams) (*entity.Link, error) {
	args := uc.Called(ctx, shortCode, p)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (uc *MockLinkUseCase) GetLinkStats(ctx context.Context, shortCode string) (*entity.Link, error) {
	args := uc.Called(ctx, shortCode)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}
