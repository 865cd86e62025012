// Package shortcode generates and validates the short codes links are
// reachable under, and validates the URLs they point to.
package shortcode

import (
	"fmt"
	"net/url"
	"regexp"

	"github.com/go-playground/validator/v10"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// DefaultLength is the length of generated short codes.
const DefaultLength = 6

const (
	// TagShortCode is the validator tag checking the short code grammar.
	TagShortCode = "short_code"
	// TagAbsoluteURL is the validator tag checking for an absolute URL with a host.
	TagAbsoluteURL = "abs_url"
)

var shortCodeRegexp = regexp.MustCompile(`^[a-zA-Z0-9_-]{4,10}$`)

var validate = NewValidate()

// NewValidate returns a validator with the short_code and abs_url tags registered.
func NewValidate() *validator.Validate {
	v := validator.New()
	RegisterTags(v)
	return v
}

// RegisterTags registers the short_code and abs_url tags on v.
func RegisterTags(v *validator.Validate) {
	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation(TagShortCode, func(fl validator.FieldLevel) bool {
		return shortCodeRegexp.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(TagAbsoluteURL, func(fl validator.FieldLevel) bool {
		return isAbsoluteURL(fl.Field().String())
	})
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

// IsValid reports whether s is 4 to 10 characters drawn from ASCII letters,
// digits, underscore and hyphen. Case is significant.
func IsValid(s string) bool {
	return validate.Var(s, "required,"+TagShortCode) == nil
}

// IsValidURL reports whether s parses as an absolute URL with a scheme and a host.
func IsValidURL(s string) bool {
	return validate.Var(s, "required,"+TagAbsoluteURL) == nil
}

// Generator produces random short codes over the URL-safe nanoid alphabet.
// It does not check for collisions.
type Generator struct {
	length int
}

// NewGenerator creates a Generator for codes of the given length.
// A non-positive length falls back to DefaultLength.
func NewGenerator(length int) *Generator {
	if length <= 0 {
		length = DefaultLength
	}
	return &Generator{length: length}
}

// Generate returns a new random short code.
func (g *Generator) Generate() (string, error) {
	const op = "shortcode.Generator.Generate"

	code, err := gonanoid.New(g.length)
	if err != nil {
		return "", fmt.Errorf("%s: failed to generate short code: %w", op, err)
	}

	return code, nil
}
