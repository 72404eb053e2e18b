package openfoodfacts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/safescan/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:           baseURL,
		RequestsPerSecond: 1000,
		Burst:             100,
	})
}

func floatPtr(v float64) *float64 { return &v }

func TestNewClient(t *testing.T) {
	client := NewClient(ClientConfig{BaseURL: "https://world.openfoodfacts.org/"})

	assert.NotNil(t, client)
	assert.Equal(t, "https://world.openfoodfacts.org", client.baseURL)
	assert.Equal(t, "SafeScan/1.0", client.userAgent)
	assert.Equal(t, 10*time.Second, client.httpClient.Timeout)
	assert.NotNil(t, client.rateLimiter)
	assert.False(t, client.debug)
}

func TestSetDebug(t *testing.T) {
	client := newTestClient("https://example.com")

	client.SetDebug(true)
	assert.True(t, client.debug)

	client.SetDebug(false)
	assert.False(t, client.debug)
}

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt  int
		expected time.Duration
	}{
		{1, 500 * time.Millisecond},
		{2, 1000 * time.Millisecond},
		{3, 2000 * time.Millisecond},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, exponentialBackoff(tt.attempt))
	}
}

func TestGetProduct_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v2/product/3017620422003", r.URL.Path)
		assert.Equal(t, productFields, r.URL.Query().Get("fields"))
		assert.Equal(t, "SafeScan/1.0", r.Header.Get("User-Agent"))

		response := domain.OFFResponse{
			Code:   "3017620422003",
			Status: 1,
			Product: &domain.OFFProduct{
				Code:            "3017620422003",
				ProductName:     "Nutella",
				IngredientsText: "Sugar, palm oil, HAZELNUTS 13%, skimmed MILK powder",
				Nutriments: domain.OFFNutriments{
					Proteins100g:   floatPtr(6.3),
					EnergyKcal100g: floatPtr(539),
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(response)
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	product, err := client.GetProduct(context.Background(), "3017620422003")

	require.NoError(t, err)
	assert.Equal(t, "Nutella", product.ProductName)
	assert.Contains(t, product.IngredientsText, "HAZELNUTS")
	require.NotNil(t, product.Nutriments.EnergyKcal100g)
	assert.Equal(t, 539.0, *product.Nutriments.EnergyKcal100g)
}

func TestGetProduct_DecodesHyphenatedEnergyField(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":1,"product":{"code":"1","product_name":"Bar","nutriments":{"energy-kcal_100g":120.5}}}`))
	}))
	defer server.Close()

	product, err := newTestClient(server.URL).GetProduct(context.Background(), "1")

	require.NoError(t, err)
	require.NotNil(t, product.Nutriments.EnergyKcal100g)
	assert.Equal(t, 120.5, *product.Nutriments.EnergyKcal100g)
}

func TestGetProduct_StatusZeroIsNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"000","status":0,"status_verbose":"product not found"}`))
	}))
	defer server.Close()

	product, err := newTestClient(server.URL).GetProduct(context.Background(), "000")

	assert.Nil(t, product)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetProduct_NotFoundStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetProduct(context.Background(), "123")

	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGetProduct_EmptyBarcode(t *testing.T) {
	_, err := newTestClient("http://unused").GetProduct(context.Background(), "  ")

	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestGetProduct_ServerError_Retries(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&attempts, 1) < 2 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"status":1,"product":{"code":"42","product_name":"Success after retry"}}`))
	}))
	defer server.Close()

	product, err := newTestClient(server.URL).GetProduct(context.Background(), "42")

	require.NoError(t, err)
	assert.Equal(t, "Success after retry", product.ProductName)
	assert.Equal(t, int32(2), atomic.LoadInt32(&attempts))
}

func TestGetProduct_BadRequestIsNotRetried(t *testing.T) {
	var attempts int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetProduct(context.Background(), "42")

	assert.ErrorIs(t, err, domain.ErrFoodAPIFailure)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestGetProduct_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer server.Close()

	_, err := newTestClient(server.URL).GetProduct(context.Background(), "42")

	assert.ErrorIs(t, err, domain.ErrFoodAPIFailure)
}

func TestGetProduct_ContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient(server.URL).GetProduct(ctx, "42")

	assert.Error(t, err)
}

func TestGetProduct_FillsMissingCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":1,"product":{"product_name":"No code"}}`))
	}))
	defer server.Close()

	product, err := newTestClient(server.URL).GetProduct(context.Background(), "777")

	require.NoError(t, err)
	assert.Equal(t, "777", product.Code)
}
