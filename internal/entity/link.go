// Package entity defines the entities and errors used in the application.
// It includes the Link struct, which represents a shortened URL together with
// its expiry and click analytics, and the errors shared between layers.
package entity

import (
	"errors"
	"fmt"
	"time"
)

// ReferrerDirect is recorded when a click carries no referrer.
const ReferrerDirect = "direct"

var (
	// ErrInvalidURL is returned when the original URL is not an absolute URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrInvalidShortCode is returned when a custom short code does not match the short code grammar.
	ErrInvalidShortCode = errors.New("invalid short code")
	// ErrInvalidValidity is returned when the requested validity is negative.
	ErrInvalidValidity = errors.New("invalid validity")
	// ErrShortCodeExists is returned when attempting to create a link with a short code that is already in use.
	ErrShortCodeExists = errors.New("short code exists")
	// ErrLinkNotFound is returned when a link with the specified short code cannot be found.
	ErrLinkNotFound = errors.New("link not found")
	// ErrLinkExpired is returned when a link exists but its validity has passed.
	ErrLinkExpired = errors.New("link expired")
)

// LinkExpiredError carries the details of an expired link so callers can offer
// to recreate it. It matches ErrLinkExpired with errors.Is.
type LinkExpiredError struct {
	ShortCode   string
	OriginalURL string
	ExpiresAt   time.Time
}

func (e *LinkExpiredError) Error() string {
	return fmt.Sprintf("link %q expired at %s", e.ShortCode, e.ExpiresAt.Format(time.RFC3339))
}

func (e *LinkExpiredError) Unwrap() error {
	return ErrLinkExpired
}

// Link represents a shortened URL.
type Link struct {
	ShortCode   string    // ShortCode is the key the link is reachable under.
	OriginalURL string    // OriginalURL is the full URL the short code redirects to.
	CreatedAt   time.Time // CreatedAt is the timestamp when the link was created.
	ExpiresAt   time.Time // ExpiresAt is CreatedAt plus the requested validity.
	Clicks      []Click   // Clicks holds one entry per successful redirect, oldest first.
}

// Expired reports whether the link is no longer active at now.
func (l *Link) Expired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}

// TotalClicks returns the number of recorded redirects.
func (l *Link) TotalClicks() int {
	return len(l.Clicks)
}

// Click is a single recorded redirect.
type Click struct {
	ID            string
	Timestamp     time.Time
	Referrer      string
	UserAgent     string
	SourceAddress string
}
