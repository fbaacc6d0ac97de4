package api

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Edwardko2004/CS391-Project/config"
	"github.com/Edwardko2004/CS391-Project/internal/domain"
)

const testSecret = "test-secret-for-sparkbytes"

func signToken(t *testing.T, claims jwt.Claims, secret string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func authRouter(cfg config.AuthConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", Authenticate(cfg), func(c *gin.Context) {
		caller := callerFrom(c)
		c.JSON(http.StatusOK, gin.H{"profile_id": caller.ProfileID, "email": caller.Email})
	})
	return router
}

func TestAuthenticate(t *testing.T) {
	cfg := config.AuthConfig{JWTSecret: testSecret, Issuer: "sparkbytes-auth"}
	profileID := uuid.NewString()

	valid := tokenClaims{
		Email: "student@bu.edu",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			Issuer:    "sparkbytes-auth",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	expired := valid
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
	wrongIssuer := valid
	wrongIssuer.Issuer = "someone-else"
	badSubject := valid
	badSubject.Subject = "42"
	noExpiry := valid
	noExpiry.ExpiresAt = nil

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"valid", "Bearer " + signToken(t, valid, testSecret), http.StatusOK},
		{"missing header", "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", http.StatusUnauthorized},
		{"empty bearer", "Bearer ", http.StatusUnauthorized},
		{"expired", "Bearer " + signToken(t, expired, testSecret), http.StatusUnauthorized},
		{"wrong secret", "Bearer " + signToken(t, valid, "other-secret"), http.StatusUnauthorized},
		{"wrong issuer", "Bearer " + signToken(t, wrongIssuer, testSecret), http.StatusUnauthorized},
		{"subject not a uuid", "Bearer " + signToken(t, badSubject, testSecret), http.StatusUnauthorized},
		{"no expiry", "Bearer " + signToken(t, noExpiry, testSecret), http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()

			authRouter(cfg).ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Contains(t, w.Body.String(), profileID)
				assert.Contains(t, w.Body.String(), "student@bu.edu")
			} else {
				assert.Contains(t, w.Body.String(), `"code":"not_authenticated"`)
			}
		})
	}
}

func TestAuthenticate_RejectsNoneAlgorithm(t *testing.T) {
	claims := jwt.RegisteredClaims{Subject: uuid.NewString()}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	authRouter(config.AuthConfig{JWTSecret: testSecret}).ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessLog(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	router := gin.New()
	router.Use(AccessLog(zap.New(core)))
	router.GET("/events/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	router.GET("/boom", func(c *gin.Context) {
		writeError(c, fmt.Errorf("query: %w", domain.ErrStoreUnavailable))
	})

	req := httptest.NewRequest(http.MethodGet, "/events/abc", nil)
	req.Header.Set(headerRequestID, "req-1")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-1", w.Header().Get(headerRequestID))
	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/events/:id", fields["route"])
	assert.Equal(t, int64(http.StatusNoContent), fields["status"])
	assert.Equal(t, "req-1", fields["request_id"])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.NotEmpty(t, w.Header().Get(headerRequestID))
	// The internal detail is logged, not returned.
	assert.NotContains(t, w.Body.String(), "query")
	assert.Equal(t, 1, logs.FilterMessage("request failed").Len())
}

func TestWriteError_Unknown(t *testing.T) {
	c, w := testContext("GET", "/", nil)

	writeError(c, errors.New("something odd"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal", decodeError(t, w).Code)
}
