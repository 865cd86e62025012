package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/vadimbarashkov/shorturls/internal/entity"
	"github.com/vadimbarashkov/shorturls/internal/shortcode"
)

const (
	// DefaultValidity applies when a link is created without a validity.
	DefaultValidity = 30 * time.Minute
	// DefaultMaxRetries bounds regeneration of colliding generated short codes.
	DefaultMaxRetries = 5
	// MaxValidityMinutes is the longest validity a link can be created with (one year).
	MaxValidityMinutes = 525600

	packageKey = "package"
	pkgService = "service"
)

type linkRepository interface {
	Save(ctx context.Context, link *entity.Link) (*entity.Link, error)
	RetrieveByShortCode(ctx context.Context, shortCode string) (*entity.Link, error)
	AppendClick(ctx context.Context, shortCode string, click entity.Click) error
}

type shortCodeGenerator interface {
	Generate() (string, error)
}

// ShortenParams holds the input of LinkUseCase.ShortenURL.
type ShortenParams struct {
	OriginalURL string
	// Validity in minutes, fractions allowed. Zero selects the default.
	Validity float64
	// ShortCode is optional; a code is generated when empty.
	ShortCode string
}

// ClickParams describes the request that followed a short link.
type ClickParams struct {
	Referrer      string
	UserAgent     string
	SourceAddress string
}

// Option configures a LinkUseCase.
type Option func(*LinkUseCase)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(uc *LinkUseCase) {
		uc.now = now
	}
}

// WithDefaultValidity sets the validity used when ShortenParams.Validity is zero.
func WithDefaultValidity(d time.Duration) Option {
	return func(uc *LinkUseCase) {
		if d > 0 {
			uc.defaultValidity = d
		}
	}
}

// WithMaxRetries sets how many generated codes are tried before giving up.
func WithMaxRetries(n int) Option {
	return func(uc *LinkUseCase) {
		if n > 0 {
			uc.maxRetries = n
		}
	}
}

// LinkUseCase creates links, resolves them for redirects and reports their stats.
type LinkUseCase struct {
	linkRepo        linkRepository
	generator       shortCodeGenerator
	logger          *slog.Logger
	now             func() time.Time
	defaultValidity time.Duration
	maxRetries      int
}

// New creates a LinkUseCase.
func New(linkRepo linkRepository, generator shortCodeGenerator, logger *slog.Logger, opts ...Option) *LinkUseCase {
	uc := &LinkUseCase{
		linkRepo:        linkRepo,
		generator:       generator,
		logger:          logger,
		now:             time.Now,
		defaultValidity: DefaultValidity,
		maxRetries:      DefaultMaxRetries,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}

// ShortenURL validates p and stores a new link.
//
// A caller-supplied short code is tried once and fails with
// entity.ErrShortCodeExists when taken. Generated codes are regenerated on
// collision up to the configured number of attempts.
func (uc *LinkUseCase) ShortenURL(ctx context.Context, p ShortenParams) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ShortenURL"

	if !shortcode.IsValidURL(p.OriginalURL) {
		uc.logger.ErrorContext(ctx, "invalid url",
			slog.String(packageKey, pkgService),
			slog.String("url", p.OriginalURL),
		)
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidURL)
	}

	if p.ShortCode != "" && !shortcode.IsValid(p.ShortCode) {
		uc.logger.ErrorContext(ctx, "invalid short code format",
			slog.String(packageKey, pkgService),
			slog.String("short_code", p.ShortCode),
		)
		return nil, fmt.Errorf("%s: %w", op, entity.ErrInvalidShortCode)
	}

	validity, err := uc.validity(p.Validity)
	if err != nil {
		uc.logger.ErrorContext(ctx, "invalid validity",
			slog.String(packageKey, pkgService),
			slog.Float64("validity", p.Validity),
		)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if p.ShortCode != "" {
		link, err := uc.save(ctx, p.ShortCode, p.OriginalURL, validity)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return link, nil
	}

	for i := 0; i < uc.maxRetries; i++ {
		code, err := uc.generator.Generate()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		link, err := uc.save(ctx, code, p.OriginalURL, validity)
		if err != nil {
			if errors.Is(err, entity.ErrShortCodeExists) {
				continue
			}
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		return link, nil
	}

	return nil, fmt.Errorf("%s: %d generated codes collided: %w", op, uc.maxRetries, entity.ErrShortCodeExists)
}

// validity converts minutes into a duration. Out of range values, including
// NaN, and values too small to survive the conversion are rejected.
func (uc *LinkUseCase) validity(minutes float64) (time.Duration, error) {
	if !(minutes >= 0 && minutes <= MaxValidityMinutes) {
		return 0, entity.ErrInvalidValidity
	}
	if minutes == 0 {
		return uc.defaultValidity, nil
	}

	d := time.Duration(minutes * float64(time.Minute))
	if d <= 0 {
		return 0, entity.ErrInvalidValidity
	}

	return d, nil
}

func (uc *LinkUseCase) save(ctx context.Context, code, originalURL string, validity time.Duration) (*entity.Link, error) {
	now := uc.now()

	link, err := uc.linkRepo.Save(ctx, &entity.Link{
		ShortCode:   code,
		OriginalURL: originalURL,
		CreatedAt:   now,
		ExpiresAt:   now.Add(validity),
	})
	if err != nil {
		if errors.Is(err, entity.ErrShortCodeExists) {
			uc.logger.WarnContext(ctx, "short code collision",
				slog.String(packageKey, pkgService),
				slog.String("short_code", code),
			)
			return nil, err
		}
		return nil, fmt.Errorf("failed to save link: %w", err)
	}

	uc.logger.InfoContext(ctx, "created short url",
		slog.String(packageKey, pkgService),
		slog.String("short_code", link.ShortCode),
	)

	return link, nil
}

// ResolveShortCode returns the link behind shortCode and records the click.
// An expired link yields a *entity.LinkExpiredError and no click is recorded.
func (uc *LinkUseCase) ResolveShortCode(ctx context.Context, shortCode string, p ClickParams) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.ResolveShortCode"

	link, err := uc.linkRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			uc.logger.WarnContext(ctx, "unknown short code accessed",
				slog.String(packageKey, pkgService),
				slog.String("short_code", shortCode),
			)
		}
		return nil, fmt.Errorf("%s: failed to resolve short code: %w", op, err)
	}

	now := uc.now()

	if link.Expired(now) {
		uc.logger.WarnContext(ctx, "expired link accessed",
			slog.String(packageKey, pkgService),
			slog.String("short_code", shortCode),
		)
		return nil, fmt.Errorf("%s: %w", op, &entity.LinkExpiredError{
			ShortCode:   link.ShortCode,
			OriginalURL: link.OriginalURL,
			ExpiresAt:   link.ExpiresAt,
		})
	}

	referrer := p.Referrer
	if referrer == "" {
		referrer = entity.ReferrerDirect
	}

	click := entity.Click{
		ID:            uuid.NewString(),
		Timestamp:     now,
		Referrer:      referrer,
		UserAgent:     p.UserAgent,
		SourceAddress: p.SourceAddress,
	}

	if err := uc.linkRepo.AppendClick(ctx, shortCode, click); err != nil {
		return nil, fmt.Errorf("%s: failed to record click: %w", op, err)
	}
	link.Clicks = append(link.Clicks, click)

	uc.logger.DebugContext(ctx, "redirecting",
		slog.String(packageKey, pkgService),
		slog.String("short_code", shortCode),
		slog.String("url", link.OriginalURL),
	)

	return link, nil
}

// GetLinkStats returns the link with its clicks. Expired links are reported too.
func (uc *LinkUseCase) GetLinkStats(ctx context.Context, shortCode string) (*entity.Link, error) {
	const op = "usecase.LinkUseCase.GetLinkStats"

	link, err := uc.linkRepo.RetrieveByShortCode(ctx, shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			uc.logger.ErrorContext(ctx, "stats requested for unknown short code",
				slog.String(packageKey, pkgService),
				slog.String("short_code", shortCode),
			)
		}
		return nil, fmt.Errorf("%s: failed to get link stats: %w", op, err)
	}

	uc.logger.InfoContext(ctx, "providing stats",
		slog.String(packageKey, pkgService),
		slog.String("short_code", shortCode),
	)

	return link, nil
}
