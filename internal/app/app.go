package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/httplog/v2"
	"github.com/vadimbarashkov/shorturls/internal/adapter/collector"
	"github.com/vadimbarashkov/shorturls/internal/adapter/repository/memory"
	"github.com/vadimbarashkov/shorturls/internal/config"
	"github.com/vadimbarashkov/shorturls/internal/shortcode"
	"github.com/vadimbarashkov/shorturls/internal/usecase"
	"golang.org/x/sync/errgroup"

	delivery "github.com/vadimbarashkov/shorturls/internal/adapter/delivery/http"
)

const serviceName = "url-shortener"

func newLogger(cfg *config.Config) *httplog.Logger {
	opts := httplog.Options{
		LogLevel:         slog.LevelInfo,
		JSON:             true,
		MessageFieldName: "message",
	}

	if cfg.Env == config.EnvDev {
		opts.LogLevel = slog.LevelDebug
		opts.JSON = false
		opts.Concise = true
	}

	return httplog.NewLogger(serviceName, opts)
}

// Run wires the application together and serves HTTP until ctx is done.
func Run(ctx context.Context, cfg *config.Config) error {
	const op = "app.Run"

	logger := newLogger(cfg)

	g, ctx := errgroup.WithContext(ctx)

	if cfg.Collector.Enabled {
		client := collector.NewClient(cfg.Collector.URL, cfg.Collector.AccessToken, cfg.Collector.Timeout)
		fwd := collector.NewForwarder(client, cfg.Collector.QueueSize, logger.Logger)

		logger.Logger = slog.New(collector.NewHandler(
			logger.Logger.Handler(),
			fwd,
			collector.ParseStack(cfg.Collector.Stack),
		))

		g.Go(func() error {
			return fwd.Run(ctx)
		})
	}

	linkRepo := memory.NewLinkRepository()

	g.Go(func() error {
		return linkRepo.RunSweeper(ctx, logger.Logger, cfg.Sweeper.Interval, cfg.Sweeper.Retention)
	})

	linkUseCase := usecase.New(
		linkRepo,
		shortcode.NewGenerator(cfg.ShortCode.Length),
		logger.Logger,
		usecase.WithDefaultValidity(cfg.Link.DefaultValidity),
		usecase.WithMaxRetries(cfg.ShortCode.MaxRetries),
	)

	router := delivery.NewRouter(logger, linkUseCase, delivery.Options{
		BaseURL:         cfg.BaseURL,
		RateLimit:       cfg.RateLimit.Requests,
		RateLimitWindow: cfg.RateLimit.Window,
		SwaggerFile:     cfg.SwaggerFile,
	})

	server := &http.Server{
		Addr:           cfg.HTTPServer.Addr(),
		Handler:        router,
		ReadTimeout:    cfg.HTTPServer.ReadTimeout,
		WriteTimeout:   cfg.HTTPServer.WriteTimeout,
		IdleTimeout:    cfg.HTTPServer.IdleTimeout,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	g.Go(func() error {
		logger.InfoContext(ctx, "server running",
			slog.String("package", "service"),
			slog.String("addr", server.Addr),
		)

		var err error

		switch cfg.Env {
		case config.EnvProd:
			err = server.ListenAndServeTLS(cfg.HTTPServer.CertFile, cfg.HTTPServer.KeyFile)
		default:
			err = server.ListenAndServe()
		}

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("%s: server error occurred: %w", op, err)
		}

		return nil
	})

	g.Go(func() error {
		<-ctx.Done()

		if err := server.Shutdown(context.Background()); err != nil {
			return fmt.Errorf("%s: failed to shutdown server: %w", op, err)
		}

		return nil
	})

	return g.Wait()
}
