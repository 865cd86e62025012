package entity

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLink_Expired(t *testing.T) {
	createdAt := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	link := Link{
		CreatedAt: createdAt,
		ExpiresAt: createdAt.Add(time.Minute),
	}

	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{name: "at creation", now: createdAt, want: false},
		{name: "just before expiry", now: createdAt.Add(time.Minute - time.Nanosecond), want: false},
		{name: "at expiry", now: createdAt.Add(time.Minute), want: true},
		{name: "after expiry", now: createdAt.Add(61 * time.Second), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, link.Expired(tt.now))
		})
	}
}

func TestLink_TotalClicks(t *testing.T) {
	link := Link{Clicks: []Click{{ID: "1"}, {ID: "2"}}}

	assert.Equal(t, 2, link.TotalClicks())
	assert.Zero(t, (&Link{}).TotalClicks())
}

func TestLinkExpiredError(t *testing.T) {
	var err error = &LinkExpiredError{
		ShortCode:   "abcd1",
		OriginalURL: "https://example.com",
		ExpiresAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}

	assert.ErrorIs(t, err, ErrLinkExpired)
	assert.Equal(t, `link "abcd1" expired at 2024-01-01T12:00:00Z`, err.Error())

	var expiredErr *LinkExpiredError
	assert.True(t, errors.As(err, &expiredErr))
	assert.Equal(t, "https://example.com", expiredErr.OriginalURL)
}
