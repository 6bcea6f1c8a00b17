package http

import (
	"Shortly-Backend/internal/service"
	"Shortly-Backend/pkg/random"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	maxRequestBody = 1 << 20

	minCustomCodeLength = 3
	maxCustomCodeLength = 20
)

// ShortenRequest тело запроса POST /shorten
type ShortenRequest struct {
	URL        string  `json:"url"`
	CustomCode *string `json:"custom_code,omitempty"`
	ExpiresAt  *string `json:"expires_at,omitempty"`
}

func invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", service.ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// decodeShortenRequest parses and validates the body into a service request.
func decodeShortenRequest(w http.ResponseWriter, r *http.Request) (service.ShortenRequest, error) {
	var body ShortenRequest

	// unknown fields are ignored
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&body); err != nil {
		if errors.Is(err, io.EOF) {
			return service.ShortenRequest{}, invalid("request body is empty")
		}
		return service.ShortenRequest{}, invalid("malformed JSON: %v", err)
	}
	if dec.More() {
		return service.ShortenRequest{}, invalid("request body must contain a single JSON object")
	}

	if err := validateURL(body.URL); err != nil {
		return service.ShortenRequest{}, err
	}
	req := service.ShortenRequest{OriginalURL: body.URL}

	if body.CustomCode != nil {
		if err := validateCustomCode(*body.CustomCode); err != nil {
			return service.ShortenRequest{}, err
		}
		req.CustomCode = *body.CustomCode
	}

	if body.ExpiresAt != nil {
		expiresAt, err := time.Parse(time.RFC3339, *body.ExpiresAt)
		if err != nil {
			return service.ShortenRequest{}, invalid("expires_at must be an RFC3339 timestamp")
		}
		req.ExpiresAt = &expiresAt
	}

	return req, nil
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return invalid("url is required")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return invalid("url must be an absolute URL")
	}
	return nil
}

func validateCustomCode(code string) error {
	if len(code) < minCustomCodeLength || len(code) > maxCustomCodeLength {
		return invalid("custom_code must be %d to %d characters", minCustomCodeLength, maxCustomCodeLength)
	}
	if !random.IsAlphanumeric(code) {
		return invalid("custom_code must contain only letters and digits")
	}
	if service.IsReservedCode(code) {
		return invalid("custom_code %q is reserved", code)
	}
	return nil
}
