package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"
	"github.com/vadimbarashkov/shorturls/internal/entity"
)

type MockLinkRepository struct {
	mock.Mock
}

func (r *MockLinkRepository) Save(ctx context.Context, link *entity.Link) (*entity.Link, error) {
	args := r.Called(ctx, link)
	saved, _ := args.Get(0).(*entity.Link)
	return saved, args.Error(1)
}

func (r *MockLinkRepository) RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.Link, error) {
	args := r.Called(ctx, shortCode)
	link, _ := args.Get(0).(*entity.Link)
	return link, args.Error(1)
}

func (r *MockLinkRepository) AppendClick(ctx context.Context, shortCode string, click entity.Click) error {
	args := r.Called(ctx, shortCode, click)
	return args.Error(0)
}

type MockShortCodeGenerator struct {
	mock.Mock
}

func (g *MockShortCodeGenerator) Generate() (string, error) {
	args := g.Called()
	return args.String(0), args.Error(1)
}
