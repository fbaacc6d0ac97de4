package bootstrap

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/config"
	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/repository"
	"github.com/Edwardko2004/CS391-Project/internal/service/events"
	"github.com/Edwardko2004/CS391-Project/internal/service/ledger"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func testRouter(t *testing.T, health map[string]Pinger) (http.Handler, *repository.MemoryStore, *config.Config) {
	t.Helper()
	cfg := config.Default()
	cfg.Auth.JWTSecret = "router-test-secret"
	cfg.Log.Development = true

	store := repository.NewMemoryStore()
	ledgerSvc := ledger.NewLedgerService(store.Events(), store.Reservations(), store.Profiles(), cfg.Reservation)
	eventSvc := events.NewEventService(store.Events(), store.Profiles(), ledgerSvc)

	router := NewRouter(&cfg, zap.NewNop(), Services{Events: eventSvc, Ledger: ledgerSvc, Health: health})
	return router, store, &cfg
}

func bearer(t *testing.T, cfg *config.Config, profileID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   profileID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(cfg.Auth.JWTSecret))
	require.NoError(t, err)
	return "Bearer " + token
}

func TestHealthz(t *testing.T) {
	router, _, _ := testRouter(t, map[string]Pinger{
		"postgres": pingFunc(func(context.Context) error { return nil }),
	})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	router, _, _ = testRouter(t, map[string]Pinger{
		"redis": pingFunc(func(context.Context) error { return errors.New("connection refused") }),
	})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "connection refused")
}

func TestRouter_ReserveRequiresToken(t *testing.T) {
	router, _, _ := testRouter(t, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/events/"+uuid.NewString()+"/reservations", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouter_ReserveLastSeat(t *testing.T) {
	router, store, cfg := testRouter(t, nil)
	host, first, second := uuid.NewString(), uuid.NewString(), uuid.NewString()
	for _, id := range []string{host, first, second} {
		store.PutProfile(domain.Profile{ID: id, Email: id + "@bu.edu"})
	}
	event := &domain.Event{
		ID:          uuid.NewString(),
		OrganizerID: host,
		Title:       "Last slice",
		Capacity:    1,
		StartsAt:    time.Now().Add(time.Hour),
		Status:      domain.EventStatusOpen,
	}
	require.NoError(t, store.Events().Create(context.Background(), event))

	reserve := func(profileID string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/events/"+event.ID+"/reservations", nil)
		req.Header.Set("Authorization", bearer(t, cfg, profileID))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, reserve(first).Code)
	w := reserve(second)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "capacity_exceeded")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/events/"+event.ID+"/availability", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"tier":"out"`)
}
