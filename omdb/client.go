package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// DefaultTimeout bounds the single outbound request. There is no retry.
const DefaultTimeout = 10 * time.Second

// ErrNoAPIKey is returned when no credential is configured for the provider.
var ErrNoAPIKey = errors.New("omdb: api key not configured")

// Result contains the fields extracted from a provider payload.
// Year is 0 when the provider's year field could not be parsed, Rating is
// 0.0 when absent or "N/A", PosterURL is empty when absent.
type Result struct {
	Title     string
	Year      int
	Rating    float64
	PosterURL string
}

// Client defines the contract for querying the metadata provider.
type Client interface {
	Fetch(ctx context.Context, title string) (*Result, error)
}

// HTTPClient implements Client over HTTP.
type HTTPClient struct {
	baseURL *url.URL
	apiKey  string
	client  *http.Client
	logger  *log.Logger
}

// NewHTTPClient constructs a new HTTP-backed metadata client.
func NewHTTPClient(baseURL, apiKey string, timeout time.Duration, logger *log.Logger) (*HTTPClient, error) {
	if logger == nil {
		logger = log.Default()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	parsed, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse omdb url: %w", err)
	}
	return &HTTPClient{
		baseURL: parsed,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// Fetch retrieves movie metadata by title with a single GET request.
func (c *HTTPClient) Fetch(ctx context.Context, title string) (*Result, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}

	endpoint := *c.baseURL
	q := endpoint.Query()
	q.Set("apikey", c.apiKey)
	q.Set("t", title)
	q.Set("plot", "short")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("omdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Printf("omdb: unexpected status %d for title %q", resp.StatusCode, title)
		return nil, fmt.Errorf("omdb: upstream returned %d", resp.StatusCode)
	}

	var payload apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("omdb: decode response: %w", err)
	}

	// OMDb reports logical errors with a 200 status and Response=False
	if payload.Response == "False" {
		reason := payload.Error
		if reason == "" {
			reason = "unknown error"
		}
		return nil, fmt.Errorf("omdb: %s", reason)
	}

	return convertToResult(payload)
}

type apiResponse struct {
	Title      string `json:"Title"`
	Year       string `json:"Year"`
	ImdbRating string `json:"imdbRating"`
	Poster     string `json:"Poster"`
	Response   string `json:"Response"`
	Error      string `json:"Error"`
}

func convertToResult(payload apiResponse) (*Result, error) {
	title := strings.TrimSpace(payload.Title)
	if title == "" {
		return nil, fmt.Errorf("omdb: response has no title")
	}

	return &Result{
		Title:     title,
		Year:      parseYear(payload.Year),
		Rating:    parseRating(payload.ImdbRating),
		PosterURL: payload.Poster,
	}, nil
}

// parseYear reads the leading 4 characters of the provider's year field,
// which may be a range like "2010–2013". Unparseable values become 0.
func parseYear(raw string) int {
	raw = strings.TrimSpace(raw)
	if len(raw) > 4 {
		raw = raw[:4]
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return year
}

func parseRating(raw string) float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "N/A" {
		return 0.0
	}
	rating, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0.0
	}
	return rating
}
