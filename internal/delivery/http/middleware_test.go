package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/safescan/backend/internal/domain"
	"github.com/safescan/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAllowedOrigin(t *testing.T) {
	tests := []struct {
		name           string
		origin         string
		allowedOrigins []string
		want           bool
	}{
		{
			name:           "exact match",
			origin:         "https://app.safescan.io",
			allowedOrigins: []string{"https://app.safescan.io"},
			want:           true,
		},
		{
			name:           "wildcard scheme match",
			origin:         "exp://192.168.1.10:8081",
			allowedOrigins: []string{"exp://*"},
			want:           true,
		},
		{
			name:           "star allows everything",
			origin:         "http://anything.example",
			allowedOrigins: []string{"*"},
			want:           true,
		},
		{
			name:           "multiple allowed origins - matches second",
			origin:         "http://localhost:8081",
			allowedOrigins: []string{"exp://*", "http://localhost:8081"},
			want:           true,
		},
		{
			name:           "no match",
			origin:         "http://evil.com",
			allowedOrigins: []string{"exp://*", "https://app.safescan.io"},
			want:           false,
		},
		{
			name:           "empty origin",
			origin:         "",
			allowedOrigins: []string{"*"},
			want:           false,
		},
		{
			name:           "empty allowed list",
			origin:         "https://app.safescan.io",
			allowedOrigins: []string{},
			want:           false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isAllowedOrigin(tt.origin, tt.allowedOrigins)
			if got != tt.want {
				t.Errorf("isAllowedOrigin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name       string
		origin     string
		method     string
		wantStatus int
		wantCORS   bool
	}{
		{name: "allowed origin - GET request", origin: "http://localhost:8081", method: "GET", wantStatus: http.StatusOK, wantCORS: true},
		{name: "allowed origin - OPTIONS request", origin: "http://localhost:8081", method: "OPTIONS", wantStatus: http.StatusNoContent, wantCORS: true},
		{name: "disallowed origin", origin: "http://evil.com", method: "GET", wantStatus: http.StatusOK},
		{name: "no origin header", method: "GET", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware([]string{"http://localhost:8081"}))
			router.GET("/test", func(c *gin.Context) {
				c.String(http.StatusOK, "OK")
			})

			req := httptest.NewRequest(tt.method, "/test", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Status = %d, want %d", w.Code, tt.wantStatus)
			}

			corsHeader := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS {
				if corsHeader != tt.origin {
					t.Errorf("Access-Control-Allow-Origin = %s, want %s", corsHeader, tt.origin)
				}
				if w.Header().Get("Access-Control-Allow-Credentials") != "true" {
					t.Errorf("Access-Control-Allow-Credentials not set to true")
				}
			} else if corsHeader != "" {
				t.Errorf("Access-Control-Allow-Origin should not be set, got %s", corsHeader)
			}
		})
	}
}

type stubAuthenticator map[string]uint

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (uint, error) {
	if token == "broken" {
		return 0, errors.New("db down")
	}
	if id, ok := s[token]; ok {
		return id, nil
	}
	return 0, domain.ErrUnauthorized
}

type stubAdmins struct {
	admins map[uint]bool
	err    error
}

func (s stubAdmins) IsAdmin(ctx context.Context, userID uint) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.admins[userID], nil
}

func echoUserRouter(middleware ...gin.HandlerFunc) *gin.Engine {
	router := gin.New()
	handlers := append(middleware, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": currentUserID(c)})
	})
	router.GET("/me", handlers...)
	return router
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := echoUserRouter(AuthMiddleware(stubAuthenticator{"good": 7}))

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
	}{
		{name: "bearer token", headers: map[string]string{"Authorization": "Bearer good"}, wantStatus: http.StatusOK},
		{name: "lowercase bearer", headers: map[string]string{"Authorization": "bearer good"}, wantStatus: http.StatusOK},
		{name: "x-access-token header", headers: map[string]string{"x-access-token": "good"}, wantStatus: http.StatusOK},
		{name: "missing token", wantStatus: http.StatusUnauthorized},
		{name: "invalid token", headers: map[string]string{"Authorization": "Bearer bad"}, wantStatus: http.StatusUnauthorized},
		{name: "wrong scheme", headers: map[string]string{"Authorization": "Basic good"}, wantStatus: http.StatusUnauthorized},
		{name: "user lookup failure", headers: map[string]string{"Authorization": "Bearer broken"}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantStatus == http.StatusOK {
				assert.JSONEq(t, `{"user_id":7}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"error"`)
			}
		})
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := echoUserRouter(OptionalAuthMiddleware(stubAuthenticator{"good": 7}))

	for _, tc := range []struct {
		token string
		want  string
	}{
		{token: "good", want: `{"user_id":7}`},
		{token: "bad", want: `{"user_id":0}`},
		{token: "", want: `{"user_id":0}`},
	} {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.token != "" {
			req.Header.Set("Authorization", "Bearer "+tc.token)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, tc.want, w.Body.String())
	}
}

func TestAdminMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	auth := stubAuthenticator{"admin": 1, "user": 2, "ghost": 3}

	tests := []struct {
		name       string
		token      string
		admins     stubAdmins
		wantStatus int
	}{
		{name: "admin passes", token: "admin", admins: stubAdmins{admins: map[uint]bool{1: true}}, wantStatus: http.StatusOK},
		{name: "regular user forbidden", token: "user", admins: stubAdmins{admins: map[uint]bool{1: true}}, wantStatus: http.StatusForbidden},
		{name: "deleted user unauthorized", token: "ghost", admins: stubAdmins{err: domain.ErrUserNotFound}, wantStatus: http.StatusUnauthorized},
		{name: "lookup failure", token: "admin", admins: stubAdmins{err: errors.New("db down")}, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := echoUserRouter(AuthMiddleware(auth), AdminMiddleware(tt.admins))
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			req.Header.Set("Authorization", "Bearer "+tt.token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := echoUserRouter(RateLimitMiddleware(60, 2))

	do := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusOK, do("10.0.0.1"))
	assert.Equal(t, http.StatusTooManyRequests, do("10.0.0.1"))

	// buckets are per client
	assert.Equal(t, http.StatusOK, do("10.0.0.2"))
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := echoUserRouter(RateLimitMiddleware(0, 0))

	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidRequest, http.StatusBadRequest},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{domain.ErrForbidden, http.StatusForbidden},
		{domain.ErrListNotFound, http.StatusNotFound},
		{domain.ErrProductNotFound, http.StatusNotFound},
		{domain.ErrEmailTaken, http.StatusConflict},
		{domain.ErrDuplicateBarcode, http.StatusConflict},
		{domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge},
		{domain.ErrUnsupportedMedia, http.StatusUnsupportedMediaType},
		{domain.ErrRateLimited, http.StatusTooManyRequests},
		{domain.ErrFoodAPIFailure, http.StatusBadGateway},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), "error %v", tt.err)
	}
}

func TestBodyLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// the store alone would accept anything up to 1 MiB
	store, err := storage.NewDiskImageStore(t.TempDir(), "/uploads", 1<<20)
	require.NoError(t, err)
	h := &Handler{images: store}

	router := gin.New()
	router.POST("/upload", BodyLimitMiddleware(4<<10), h.UploadProductImage)

	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	oversized := append(append([]byte{}, pngHeader...), bytes.Repeat([]byte{0}, 16<<10)...)

	tests := []struct {
		name       string
		content    []byte
		streamed   bool
		wantStatus int
	}{
		{name: "declared length over the cap", content: oversized, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "streamed body over the cap", content: oversized, streamed: true, wantStatus: http.StatusRequestEntityTooLarge},
		{name: "small upload passes through", content: pngHeader, wantStatus: http.StatusCreated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, contentType := pngUpload(t, "image", "photo.png", tt.content)
			req := httptest.NewRequest(http.MethodPost, "/upload", body)
			req.Header.Set("Content-Type", contentType)
			if tt.streamed {
				req.ContentLength = -1
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code, w.Body.String())
		})
	}
}
