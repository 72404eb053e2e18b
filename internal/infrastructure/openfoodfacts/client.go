package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/safescan/backend/internal/domain"
	"golang.org/x/time/rate"
)

// productFields is the subset of product fields requested from the API
const productFields = "product_name,ingredients_text,brands,code,nutriments,image_front_url"

const maxAttempts = 3

// ClientConfig holds Open Food Facts client configuration
type ClientConfig struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client handles communication with the Open Food Facts product API
type Client struct {
	httpClient  *http.Client
	baseURL     string
	userAgent   string
	rateLimiter *rate.Limiter
	debug       bool
}

// NewClient creates a new Open Food Facts API client
func NewClient(config ClientConfig) *Client {
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	// Open Food Facts asks for at most 100 product reads per minute
	rps := config.RequestsPerSecond
	if rps <= 0 {
		rps = 100.0 / 60.0
	}
	burst := config.Burst
	if burst <= 0 {
		burst = 10
	}

	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = "SafeScan/1.0"
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL:     strings.TrimSuffix(config.BaseURL, "/"),
		userAgent:   userAgent,
		rateLimiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// SetDebug toggles verbose request logging
func (c *Client) SetDebug(debug bool) {
	c.debug = debug
}

// exponentialBackoff returns the wait before retrying after the given attempt
func exponentialBackoff(attempt int) time.Duration {
	return time.Duration(500*(1<<(attempt-1))) * time.Millisecond
}

// doRequest executes an HTTP GET request with proper headers and error handling
func (c *Client) doRequest(ctx context.Context, reqURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrFoodAPIFailure, err)
	}

	return resp, nil
}

// GetProduct fetches a product by barcode
func (c *Client) GetProduct(ctx context.Context, barcode string) (*domain.OFFProduct, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, domain.ErrInvalidRequest
	}

	params := url.Values{}
	params.Set("fields", productFields)
	reqURL := fmt.Sprintf("%s/api/v2/product/%s?%s", c.baseURL, url.PathEscape(barcode), params.Encode())

	if c.debug {
		log.Printf("[OFF] GetProduct %s", reqURL)
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrRateLimited, err)
		}

		resp, err := c.doRequest(ctx, reqURL)
		if err != nil {
			log.Printf("[OFF] Request error (attempt %d): %v", attempt, err)
			lastErr = err
			if !c.sleep(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = fmt.Errorf("%w: reading body: %v", domain.ErrFoodAPIFailure, err)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusNotFound:
			return nil, domain.ErrProductNotFound
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			log.Printf("[OFF] API error (attempt %d) - Status: %d", attempt, resp.StatusCode)
			lastErr = fmt.Errorf("%w: status %d", domain.ErrFoodAPIFailure, resp.StatusCode)
			if !c.sleep(ctx, attempt) {
				return nil, ctx.Err()
			}
			continue
		case resp.StatusCode != http.StatusOK:
			return nil, fmt.Errorf("%w: status %d", domain.ErrFoodAPIFailure, resp.StatusCode)
		}

		var offResp domain.OFFResponse
		if err := json.Unmarshal(body, &offResp); err != nil {
			return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrFoodAPIFailure, err)
		}

		if offResp.Status == 0 || offResp.Product == nil {
			if c.debug {
				log.Printf("[OFF] No product for barcode %q: %s", barcode, offResp.StatusVerbose)
			}
			return nil, domain.ErrProductNotFound
		}

		if offResp.Product.Code == "" {
			offResp.Product.Code = barcode
		}
		return offResp.Product, nil
	}

	log.Printf("[OFF] All retries failed for barcode: %q", barcode)
	return nil, lastErr
}

// sleep waits for the backoff of the given attempt; false means ctx ended first
func (c *Client) sleep(ctx context.Context, attempt int) bool {
	if attempt >= maxAttempts {
		return true
	}
	timer := time.NewTimer(exponentialBackoff(attempt))
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
