package httpapp_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	httpapp "kamaru/internal/app/http"
	"kamaru/internal/domain/models"
	"kamaru/internal/lib/logger/handlers/slogdiscard"
	httprouters "kamaru/internal/transport/http"
	"kamaru/internal/transport/http/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubNewsletter struct {
	contacts int
}

func (s *stubNewsletter) Subscribe(_ context.Context, input dto.SubscribeInput) (models.Subscriber, error) {
	return models.Subscriber{Email: input.Email}, nil
}

func (s *stubNewsletter) Contact(_ context.Context, _ dto.ContactInput) error {
	s.contacts++
	return nil
}

type checker struct {
	err error
}

func (c checker) HealthCheck(context.Context) error {
	return c.err
}

func newServer(opts httpapp.Options, services httprouters.Services) *httpapp.Server {
	log := slogdiscard.NewDiscardLogger()
	srv := httpapp.New(log, opts, httprouters.NewRouter(log, nil, services))
	srv.BuildRouters()

	return srv
}

func serve(srv *httpapp.Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "10.0.0.1:1234"

	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)

	return rec
}

func TestHealth(t *testing.T) {
	srv := newServer(httpapp.Options{Checks: map[string]httpapp.HealthChecker{
		"postgres": checker{},
		"redis":    checker{},
	}}, httprouters.Services{})

	rec := serve(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"success","data":{"postgres":"up","redis":"up"}}`, rec.Body.String())

	srv = newServer(httpapp.Options{Checks: map[string]httpapp.HealthChecker{
		"postgres": checker{},
		"redis":    checker{err: errors.New("connection refused")},
	}}, httprouters.Services{})

	rec = serve(srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"down"`)
}

func TestUnknownRoute_Envelope(t *testing.T) {
	srv := newServer(httpapp.Options{}, httprouters.Services{})

	rec := serve(srv, http.MethodGet, "/api/nowhere", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"error"`)
	assert.Contains(t, rec.Body.String(), `"error":"not_found"`)
}

func TestContact_RateLimited(t *testing.T) {
	newsletter := &stubNewsletter{}
	srv := newServer(httpapp.Options{RateLimitRPS: 0.001, RateLimitBurst: 2}, httprouters.Services{Newsletter: newsletter})

	body := `{"name":"Alice","email":"alice@example.com","message":"Hello"}`

	for i := 0; i < 2; i++ {
		rec := serve(srv, http.MethodPost, "/api/contact", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec := serve(srv, http.MethodPost, "/api/contact", body)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), `"error":"rate_limited"`)
	assert.Equal(t, 2, newsletter.contacts)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newServer(httpapp.Options{}, httprouters.Services{})

	serve(srv, http.MethodGet, "/health", "")
	rec := serve(srv, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "kamaru_http_requests_total")
}
