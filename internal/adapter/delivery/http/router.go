// Package http provides the HTTP delivery layer for the URL shortener service.
// This package contains the HTTP handlers and related types used for processing
// incoming requests, validating input, and formatting responses.
package http

import (
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shorturls/internal/shortcode"
	"github.com/vadimbarashkov/shorturls/pkg/middleware/recoverer"
	"github.com/vadimbarashkov/shorturls/pkg/response"

	httpSwagger "github.com/swaggo/http-swagger"
)

const maxRequestBytes = 1 << 20

// Options tunes the router.
type Options struct {
	// BaseURL prefixes short and management links. When empty the scheme
	// and host of the incoming request are used.
	BaseURL string
	// RateLimit is the number of requests a client IP may make per
	// RateLimitWindow. Zero disables rate limiting.
	RateLimit       int
	RateLimitWindow time.Duration
	// SwaggerFile is served under /docs/swagger.yml.
	SwaggerFile string
}

func getValidate() *validator.Validate {
	validate := shortcode.NewValidate()

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate
}

// NewRouter initializes and returns a new Chi router configured with middleware and routes for the URL shortener API.
func NewRouter(logger *httplog.Logger, linkUseCase linkUseCase, opts Options) *chi.Mux {
	r := chi.NewRouter()

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*"},
		AllowedMethods:   []string{"POST", "GET", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Accept"},
		AllowCredentials: false,
		MaxAge:           84600,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(recoverer.New(logger.Logger))
	r.Use(middleware.RequestSize(maxRequestBytes))

	if opts.RateLimit > 0 {
		r.Use(httprate.Limit(
			opts.RateLimit,
			opts.RateLimitWindow,
			httprate.WithKeyFuncs(httprate.KeyByRealIP),
			httprate.WithLimitHandler(handleTooManyRequests),
		))
	}

	if opts.SwaggerFile != "" {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/docs/swagger.yml"),
		))

		r.Get("/docs/swagger.yml", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, opts.SwaggerFile)
		})
	}

	h := newLinkHandler(linkUseCase, getValidate(), logger.Logger, opts.BaseURL)

	r.Get("/ping", handlePing)

	r.Route("/shorturls", func(r chi.Router) {
		r.With(middleware.AllowContentType("application/json")).Post("/", h.shortenURL)
		r.Get("/{shortCode}", h.getLinkStats)
	})

	r.Get("/{shortCode}", h.resolveShortCode)

	return r
}

func handleTooManyRequests(w http.ResponseWriter, r *http.Request) {
	render.Status(r, http.StatusTooManyRequests)
	render.JSON(w, r, response.TooManyRequestsResponse)
}
