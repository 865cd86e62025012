package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"github.com/vadimbarashkov/shorturls/internal/entity"
)

type LinkUseCaseTestSuite struct {
	suite.Suite
	errUnknown    error
	now           time.Time
	logger        *slog.Logger
	linkRepoMock  *MockLinkRepository
	generatorMock *MockShortCodeGenerator
	uc            *LinkUseCase
}

func (suite *LinkUseCaseTestSuite) SetupSuite() {
	suite.errUnknown = errors.New("unknown error")
	suite.now = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	suite.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (suite *LinkUseCaseTestSuite) SetupSubTest() {
	suite.linkRepoMock = new(MockLinkRepository)
	suite.generatorMock = new(MockShortCodeGenerator)
	suite.uc = New(suite.linkRepoMock, suite.generatorMock, suite.logger, WithClock(func() time.Time {
		return suite.now
	}))
}

func (suite *LinkUseCaseTestSuite) TearDownSubTest() {
	suite.linkRepoMock.AssertExpectations(suite.T())
	suite.generatorMock.AssertExpectations(suite.T())
}

func (suite *LinkUseCaseTestSuite) linkMatcher(shortCode string, validity time.Duration) any {
	return mock.MatchedBy(func(link *entity.Link) bool {
		return link.ShortCode == shortCode &&
			link.OriginalURL == "https://example.com" &&
			link.CreatedAt.Equal(suite.now) &&
			link.ExpiresAt.Equal(suite.now.Add(validity))
	})
}

func (suite *LinkUseCaseTestSuite) TestShortenURL() {
	ctx := context.Background()

	suite.Run("invalid url", func() {
		link, err := suite.uc.ShortenURL(ctx, ShortenParams{OriginalURL: "not-a-url"})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrInvalidURL)
		suite.Nil(link)
	})

	suite.Run("invalid short code", func() {
		link, err := suite.uc.ShortenURL(ctx, ShortenParams{
			OriginalURL: "https://example.com",
			ShortCode:   "ab",
		})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrInvalidShortCode)
		suite.Nil(link)
	})

	suite.Run("negative validity", func() {
		link, err := suite.uc.ShortenURL(ctx, ShortenParams{
			OriginalURL: "https://example.com",
			Validity:    -1,
		})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrInvalidValidity)
		suite.Nil(link)
	})

	suite.Run("validity out of range", func() {
		for _, v := range []float64{MaxValidityMinutes + 1, 200_000_000, math.NaN(), math.Inf(1), 1e-12} {
			link, err := suite.uc.ShortenURL(ctx, ShortenParams{
				OriginalURL: "https://example.com",
				Validity:    v,
			})

			suite.ErrorIs(err, entity.ErrInvalidValidity, "validity %v", v)
			suite.Nil(link)
		}
	})

	suite.Run("maximum validity", func() {
		suite.linkRepoMock.
			On("Save", ctx, suite.linkMatcher("abcd1", MaxValidityMinutes*time.Minute)).
			Once().
			Return(&entity.Link{
				ShortCode:   "abcd1",
				OriginalURL: "https://example.com",
				CreatedAt:   suite.now,
				ExpiresAt:   suite.now.Add(MaxValidityMinutes * time.Minute),
			}, nil)

		link, err := suite.uc.ShortenURL(ctx, ShortenParams{
			OriginalURL: "https://example.com",
			Validity:    MaxValidityMinutes,
			ShortCode:   "abcd1",
		})

		suite.NoError(err)
		suite.True(link.ExpiresAt.After(link.CreatedAt))
	})

	suite.Run("fractional validity", func() {
		suite.linkRepoMock.
			On("Save", ctx, suite.linkMatcher("abcd1", 30*time.Second)).
			Once().
			Return(&entity.Link{
				ShortCode:   "abcd1",
				OriginalURL: "https://example.com",
				CreatedAt:   suite.now,
				ExpiresAt:   suite.now.Add(30 * time.Second),
			}, nil)

		link, err := suite.uc.ShortenURL(ctx, ShortenParams{
			OriginalURL: "https://example.com",
			Validity:    0.5,
			ShortCode:   "abcd1",
		})

		suite.NoError(err)
		suite.Equal(suite.now.Add(30*time.Second), link.ExpiresAt)
	})

	suite.Run("custom short code exists", func() {
		suite.linkRepoMock.
			On("Save", ctx, suite.linkMatcher("abcd1", DefaultValidity)).
			Once().
			Return(nil, entity.ErrShortCodeExists)

		link, err := suite.uc.ShortenURL(ctx, ShortenParams{
			OriginalURL: "https://example.com",
			ShortCode:   "abcd1",
		})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortCodeExists)
		suite.Nil(link)
	})

	suite.Run("generation error", func() {
		suite.generatorMock.
			On("Generate").
			Once().
			Return("", suite.errUnknown)

		link, err := suite.uc.ShortenURL(ctx, ShortenParams{OriginalURL: "https://example.com"})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})

	suite.Run("generated code collides until retries run out", func() {
		suite.generatorMock.
			On("Generate").
			Times(DefaultMaxRetries).
			Return("abc123", nil)
		suite.linkRepoMock.
			On("Save", ctx, suite.linkMatcher("abc123", DefaultValidity)).
			Times(DefaultMaxRetries).
			Return(nil, entity.ErrShortCodeExists)

		link, err := suite.uc.ShortenURL(ctx, ShortenParams{OriginalURL: "https://example.com"})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrShortCodeExists)
		suite.Nil(link)
	})

	suite.Run("generated code collides once", func() {
		suite.generatorMock.On("Generate").Once().Return("taken1", nil)
		suite.generatorMock.On("Generate").Once().Return("free01", nil)
		suite.linkRepoMock.
			On("Save", ctx, suite.linkMatcher("taken1", DefaultValidity)).
			Once().
			Return(nil, entity.ErrShortCodeExists)
		suite.linkRepoMock.
			On("Save", ctx, suite.linkMatcher("free01", DefaultValidity)).
			Once().
			Return(&entity.Link{ShortCode: "free01", OriginalURL: "https://example.com"}, nil)

		link, err := suite.uc.ShortenURL(ctx, ShortenParams{OriginalURL: "https://example.com"})

		suite.NoError(err)
		suite.Equal("free01", link.ShortCode)
	})

	suite.Run("unknown error", func() {
		suite.linkRepoMock.
			On("Save", ctx, suite.linkMatcher("abcd1", DefaultValidity)).
			Once().
			Return(nil, suite.errUnknown)

		link, err := suite.uc.ShortenURL(ctx, ShortenParams{
			OriginalURL: "https://example.com",
			ShortCode:   "abcd1",
		})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})

	suite.Run("success with validity", func() {
		suite.linkRepoMock.
			On("Save", ctx, suite.linkMatcher("abcd1", 5*time.Minute)).
			Once().
			Return(&entity.Link{
				ShortCode:   "abcd1",
				OriginalURL: "https://example.com",
				CreatedAt:   suite.now,
				ExpiresAt:   suite.now.Add(5 * time.Minute),
			}, nil)

		link, err := suite.uc.ShortenURL(ctx, ShortenParams{
			OriginalURL: "https://example.com",
			Validity:    5,
			ShortCode:   "abcd1",
		})

		suite.NoError(err)
		suite.NotNil(link)
		suite.Equal("abcd1", link.ShortCode)
		suite.Equal(suite.now.Add(5*time.Minute), link.ExpiresAt)
	})
}

func (suite *LinkUseCaseTestSuite) TestResolveShortCode() {
	ctx := context.Background()

	suite.Run("link not found", func() {
		suite.linkRepoMock.
			On("RetrieveByShortCode", ctx, "abcd1").
			Once().
			Return(nil, entity.ErrLinkNotFound)

		link, err := suite.uc.ResolveShortCode(ctx, "abcd1", ClickParams{})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("link expired", func() {
		suite.linkRepoMock.
			On("RetrieveByShortCode", ctx, "abcd1").
			Once().
			Return(&entity.Link{
				ShortCode:   "abcd1",
				OriginalURL: "https://example.com",
				CreatedAt:   suite.now.Add(-time.Hour),
				ExpiresAt:   suite.now,
			}, nil)

		link, err := suite.uc.ResolveShortCode(ctx, "abcd1", ClickParams{})

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrLinkExpired)
		suite.Nil(link)

		var expiredErr *entity.LinkExpiredError
		suite.ErrorAs(err, &expiredErr)
		suite.Equal("https://example.com", expiredErr.OriginalURL)
	})

	suite.Run("unknown error", func() {
		suite.linkRepoMock.
			On("RetrieveByShortCode", ctx, "abcd1").
			Once().
			Return(&entity.Link{
				ShortCode:   "abcd1",
				OriginalURL: "https://example.com",
				ExpiresAt:   suite.now.Add(time.Minute),
			}, nil)
		suite.linkRepoMock.
			On("AppendClick", ctx, "abcd1", mock.Anything).
			Once().
			Return(suite.errUnknown)

		link, err := suite.uc.ResolveShortCode(ctx, "abcd1", ClickParams{})

		suite.Error(err)
		suite.ErrorIs(err, suite.errUnknown)
		suite.Nil(link)
	})

	suite.Run("success", func() {
		suite.linkRepoMock.
			On("RetrieveByShortCode", ctx, "abcd1").
			Once().
			Return(&entity.Link{
				ShortCode:   "abcd1",
				OriginalURL: "https://example.com",
				CreatedAt:   suite.now,
				ExpiresAt:   suite.now.Add(time.Minute),
			}, nil)
		suite.linkRepoMock.
			On("AppendClick", ctx, "abcd1", mock.MatchedBy(func(c entity.Click) bool {
				return c.ID != "" &&
					c.Timestamp.Equal(suite.now) &&
					c.Referrer == entity.ReferrerDirect &&
					c.UserAgent == "curl/8.0" &&
					c.SourceAddress == "203.0.113.7"
			})).
			Once().
			Return(nil)

		link, err := suite.uc.ResolveShortCode(ctx, "abcd1", ClickParams{
			UserAgent:     "curl/8.0",
			SourceAddress: "203.0.113.7",
		})

		suite.NoError(err)
		suite.Equal("https://example.com", link.OriginalURL)
		suite.Equal(1, link.TotalClicks())
	})
}

func (suite *LinkUseCaseTestSuite) TestGetLinkStats() {
	ctx := context.Background()

	suite.Run("link not found", func() {
		suite.linkRepoMock.
			On("RetrieveByShortCode", ctx, "neverexisted").
			Once().
			Return(nil, entity.ErrLinkNotFound)

		link, err := suite.uc.GetLinkStats(ctx, "neverexisted")

		suite.Error(err)
		suite.ErrorIs(err, entity.ErrLinkNotFound)
		suite.Nil(link)
	})

	suite.Run("expired link", func() {
		suite.linkRepoMock.
			On("RetrieveByShortCode", ctx, "abcd1").
			Once().
			Return(&entity.Link{
				ShortCode:   "abcd1",
				OriginalURL: "https://example.com",
				ExpiresAt:   suite.now.Add(-time.Minute),
				Clicks:      []entity.Click{{ID: "1"}},
			}, nil)

		link, err := suite.uc.GetLinkStats(ctx, "abcd1")

		suite.NoError(err)
		suite.Equal(1, link.TotalClicks())
	})
}

func TestLinkUseCase(t *testing.T) {
	suite.Run(t, new(LinkUseCaseTestSuite))
}
