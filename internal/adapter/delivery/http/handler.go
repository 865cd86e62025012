package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"
	"github.com/vadimbarashkov/shorturls/internal/entity"
	"github.com/vadimbarashkov/shorturls/internal/usecase"
	"github.com/vadimbarashkov/shorturls/pkg/response"
)

func handlePing(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, "pong")
}

type linkUseCase interface {
	ShortenURL(ctx context.Context, p usecase.ShortenParams) (*entity.Link, error)
	ResolveShortCode(ctx context.Context, shortCode string, p usecase.ClickParams) (*entity.Link, error)
	GetLinkStats(ctx context.Context, shortCode string) (*entity.Link, error)
}

type linkHandler struct {
	useCase  linkUseCase
	validate *validator.Validate
	logger   *slog.Logger
	baseURL  string
}

func newLinkHandler(useCase linkUseCase, validate *validator.Validate, logger *slog.Logger, baseURL string) *linkHandler {
	return &linkHandler{
		useCase:  useCase,
		validate: validate,
		logger:   logger,
		baseURL:  baseURL,
	}
}

func (h *linkHandler) links(r *http.Request) links {
	if h.baseURL != "" {
		return newLinks(h.baseURL)
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return newLinks(scheme + "://" + r.Host)
}

func (h *linkHandler) shortenURL(w http.ResponseWriter, r *http.Request) {
	var req shortenRequest

	if err := render.DecodeJSON(r.Body, &req); err != nil {
		if errors.Is(err, io.EOF) {
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.EmptyRequestBodyResponse)
			return
		}

		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.InvalidRequestBodyResponse)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.ValidationErrorResponse(err))
		return
	}

	link, err := h.useCase.ShortenURL(r.Context(), usecase.ShortenParams{
		OriginalURL: req.URL,
		Validity:    req.Validity,
		ShortCode:   req.ShortCode,
	})
	if err != nil {
		switch {
		case errors.Is(err, entity.ErrInvalidURL):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorResponse("invalid url: include a valid absolute url such as https://example.com"))
		case errors.Is(err, entity.ErrInvalidShortCode):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorResponse("invalid short code: must be 4-10 characters of a-z, A-Z, 0-9, _ or -"))
		case errors.Is(err, entity.ErrInvalidValidity):
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.ErrorResponse("invalid validity: must be a positive number of minutes"))
		case errors.Is(err, entity.ErrShortCodeExists):
			render.Status(r, http.StatusConflict)
			render.JSON(w, r, response.ErrorResponse("short code unavailable, try a different one"))
		default:
			h.serverError(w, r, err)
		}
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, toShortenResponse(link, h.links(r)))
}

func (h *linkHandler) resolveShortCode(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	link, err := h.useCase.ResolveShortCode(r.Context(), shortCode, usecase.ClickParams{
		Referrer:      r.Referer(),
		UserAgent:     r.UserAgent(),
		SourceAddress: sourceAddress(r),
	})
	if err != nil {
		var expiredErr *entity.LinkExpiredError

		switch {
		case errors.Is(err, entity.ErrLinkNotFound):
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.LinkNotFoundResponse)
		case errors.As(err, &expiredErr):
			render.Status(r, http.StatusGone)
			render.JSON(w, r, response.ExpiredResponse(expiredErr.OriginalURL))
		default:
			h.serverError(w, r, err)
		}
		return
	}

	http.Redirect(w, r, link.OriginalURL, http.StatusFound)
}

func (h *linkHandler) getLinkStats(w http.ResponseWriter, r *http.Request) {
	shortCode := chi.URLParam(r, "shortCode")

	link, err := h.useCase.GetLinkStats(r.Context(), shortCode)
	if err != nil {
		if errors.Is(err, entity.ErrLinkNotFound) {
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.LinkNotFoundResponse)
			return
		}

		h.serverError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, toStatsResponse(link, h.links(r)))
}

func (h *linkHandler) serverError(w http.ResponseWriter, r *http.Request, err error) {
	httplog.LogEntrySetField(r.Context(), "err", slog.AnyValue(err))
	h.logger.ErrorContext(r.Context(), "unhandled error",
		slog.String("package", "handler"),
		slog.Any("err", err),
	)

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, response.ServerErrorResponse)
}

// sourceAddress returns the client IP. middleware.RealIP has already
// replaced RemoteAddr with the forwarded address when one was sent.
func sourceAddress(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
