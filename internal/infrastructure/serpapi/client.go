package serpapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
	"golang.org/x/time/rate"
)

// maxErrorBody bounds how much of a failed response is attached to the error
const maxErrorBody = 512

// Options configures the shopping search client
type Options struct {
	APIKey            string
	BaseURL           string
	Engine            string
	Language          string
	Country           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client handles communication with the SerpAPI shopping search endpoint
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	engine      string
	language    string
	country     string
	rateLimiter *rate.Limiter
}

// searchResponse is the subset of the SerpAPI payload the client reads.
// Records stay generic because the field names for price and link drift.
type searchResponse struct {
	ShoppingResults []map[string]any `json:"shopping_results"`
	Error           string           `json:"error,omitempty"`
}

// NewClient creates a new shopping search client
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://serpapi.com"
	}
	if opts.Engine == "" {
		opts.Engine = "google_shopping"
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	if opts.Country == "" {
		opts.Country = "us"
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 15 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 5
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		apiKey:      opts.APIKey,
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		engine:      opts.Engine,
		language:    opts.Language,
		country:     opts.Country,
		rateLimiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
	}
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "RoomStyler/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchProvider, err)
	}

	return resp, nil
}

// Search runs one shopping search and returns every product the provider
// returned, in provider order. Callers decide how many to keep.
func (c *Client) Search(ctx context.Context, query string) ([]domain.ProductCandidate, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, fmt.Errorf("%w: search query is empty", domain.ErrInvalidInput)
	}
	if c.apiKey == "" {
		return nil, fmt.Errorf("%w: missing API credential", domain.ErrSearchProvider)
	}

	logger := logx.WithContext(ctx)
	logger.Infof("[SerpAPI] Searching for: %q", query)

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", domain.ErrSearchProvider, err)
	}

	params := url.Values{}
	params.Set("engine", c.engine)
	params.Set("q", query)
	params.Set("api_key", c.apiKey)
	params.Set("hl", c.language)
	params.Set("gl", c.country)
	reqURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	resp, err := c.doRequest(ctx, reqURL)
	if err != nil {
		logger.Errorf("[SerpAPI] Request error for %q: %v", query, err)
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", domain.ErrSearchProvider, err)
	}

	if resp.StatusCode != http.StatusOK {
		diagnostic := providerDiagnostic(body)
		logger.Errorf("[SerpAPI] API error for %q - Status: %d, Body: %s", query, resp.StatusCode, diagnostic)
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrSearchProvider, resp.StatusCode, diagnostic)
	}

	var searchResp searchResponse
	if err := json.Unmarshal(body, &searchResp); err != nil {
		logger.Errorf("[SerpAPI] JSON decode error for %q: %v", query, err)
		return nil, fmt.Errorf("%w: malformed response: %v", domain.ErrSearchProvider, err)
	}

	if searchResp.Error != "" {
		// SerpAPI reports "hasn't returned any results" as an error on a 200
		if isNoResults(searchResp.Error) {
			logger.Infof("[SerpAPI] No shopping results for %q", query)
			return []domain.ProductCandidate{}, nil
		}
		return nil, fmt.Errorf("%w: %s", domain.ErrSearchProvider, searchResp.Error)
	}

	candidates := MapToCandidates(searchResp.ShoppingResults)
	logger.Infof("[SerpAPI] Found %d products for %q", len(candidates), query)
	if len(searchResp.ShoppingResults) > 0 {
		logger.Debugf("[SerpAPI] First result fields: %v", recordKeys(searchResp.ShoppingResults[0]))
	}

	return candidates, nil
}

// providerDiagnostic extracts the provider's error text from a failed response body
func providerDiagnostic(body []byte) string {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Error != "" {
		return payload.Error
	}

	text := strings.TrimSpace(string(body))
	if len(text) > maxErrorBody {
		text = text[:maxErrorBody]
	}
	return text
}

func isNoResults(providerError string) bool {
	return strings.Contains(strings.ToLower(providerError), "hasn't returned any results")
}

func recordKeys(record map[string]any) []string {
	keys := make([]string, 0, len(record))
	for key := range record {
		keys = append(keys, key)
	}
	return keys
}
