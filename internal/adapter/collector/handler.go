package collector

import (
	"context"
	"log/slog"
	"slices"
	"strings"
)

// SlogLevelFatal extends slog's levels for events reported as fatal.
const SlogLevelFatal = slog.Level(12)

// PackageKey is the attribute that marks a record for forwarding.
const PackageKey = "package"

type enqueuer interface {
	Enqueue(e Event) bool
}

// Handler is a slog.Handler that writes every record to the next handler and
// additionally forwards records carrying a PackageKey attribute to the
// collector. Request logs and other unmarked records stay local.
type Handler struct {
	next  slog.Handler
	fwd   enqueuer
	stack Stack
	pkg   string
	attrs []slog.Attr
}

// NewHandler wraps next, forwarding marked records through fwd.
func NewHandler(next slog.Handler, fwd enqueuer, stack Stack) *Handler {
	return &Handler{
		next:  next,
		fwd:   fwd,
		stack: stack,
	}
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	pkg := h.pkg

	var msg strings.Builder
	msg.WriteString(r.Message)

	for _, a := range h.attrs {
		writeAttr(&msg, a)
	}

	r.Attrs(func(a slog.Attr) bool {
		if a.Key == PackageKey {
			pkg = a.Value.String()
			return true
		}
		writeAttr(&msg, a)
		return true
	})

	if pkg != "" {
		p, _ := ParsePackage(h.stack, pkg)
		h.fwd.Enqueue(NewEvent(h.stack, levelOf(r.Level), p, msg.String()))
	}

	return h.next.Handle(ctx, r)
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	h2 := *h
	h2.next = h.next.WithAttrs(attrs)
	h2.attrs = slices.Clip(h.attrs)
	for _, a := range attrs {
		if a.Key == PackageKey {
			h2.pkg = a.Value.String()
			continue
		}
		h2.attrs = append(h2.attrs, a)
	}
	return &h2
}

func (h *Handler) WithGroup(name string) slog.Handler {
	h2 := *h
	h2.next = h.next.WithGroup(name)
	return &h2
}

func writeAttr(b *strings.Builder, a slog.Attr) {
	b.WriteByte(' ')
	b.WriteString(a.Key)
	b.WriteByte('=')
	b.WriteString(a.Value.String())
}

func levelOf(l slog.Level) Level {
	switch {
	case l >= SlogLevelFatal:
		return LevelFatal
	case l >= slog.LevelError:
		return LevelError
	case l >= slog.LevelWarn:
		return LevelWarn
	case l >= slog.LevelInfo:
		return LevelInfo
	default:
		return LevelDebug
	}
}
