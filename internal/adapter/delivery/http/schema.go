package http

import (
	"strings"
	"time"

	"github.com/vadimbarashkov/shorturls/internal/entity"
)

// shortenRequest represents the body of a request to shorten a URL.
// Validity is in minutes and bounded by usecase.MaxValidityMinutes.
type shortenRequest struct {
	URL       string  `json:"url" validate:"required"`
	Validity  float64 `json:"validity" validate:"gte=0,lte=525600"`
	ShortCode string  `json:"shortcode"`
}

// shortenResponse represents the body returned for a newly created link.
type shortenResponse struct {
	ShortLink      string    `json:"shortLink"`
	OriginalURL    string    `json:"originalUrl"`
	Expiry         time.Time `json:"expiry"`
	ManagementLink string    `json:"managementLink"`
}

// statsResponse represents the analytics of a link.
type statsResponse struct {
	OriginalURL string          `json:"originalUrl"`
	ShortLink   string          `json:"shortLink"`
	CreatedAt   time.Time       `json:"createdAt"`
	Expiry      time.Time       `json:"expiry"`
	TotalClicks int             `json:"totalClicks"`
	Clicks      []clickResponse `json:"clicks"`
}

// clickResponse is the public projection of a click. The source address is
// left out on purpose.
type clickResponse struct {
	Timestamp time.Time `json:"timestamp"`
	Referrer  string    `json:"referrer"`
	UserAgent string    `json:"userAgent"`
}

type links struct {
	base string
}

func (l links) short(code string) string {
	return l.base + "/" + code
}

func (l links) management(code string) string {
	return l.base + "/shorturls/" + code
}

func newLinks(base string) links {
	return links{base: strings.TrimRight(base, "/")}
}

func toShortenResponse(link *entity.Link, l links) shortenResponse {
	return shortenResponse{
		ShortLink:      l.short(link.ShortCode),
		OriginalURL:    link.OriginalURL,
		Expiry:         link.ExpiresAt.UTC(),
		ManagementLink: l.management(link.ShortCode),
	}
}

func toStatsResponse(link *entity.Link, l links) statsResponse {
	clicks := make([]clickResponse, 0, len(link.Clicks))
	for _, c := range link.Clicks {
		clicks = append(clicks, clickResponse{
			Timestamp: c.Timestamp.UTC(),
			Referrer:  c.Referrer,
			UserAgent: c.UserAgent,
		})
	}

	return statsResponse{
		OriginalURL: link.OriginalURL,
		ShortLink:   l.short(link.ShortCode),
		CreatedAt:   link.CreatedAt.UTC(),
		Expiry:      link.ExpiresAt.UTC(),
		TotalClicks: link.TotalClicks(),
		Clicks:      clicks,
	}
}
