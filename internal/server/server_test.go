package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger().Level(zerolog.WarnLevel)
	cfg := DefaultConfig()
	cfg.MaxLength = 32
	return NewServer(cfg, logger)
}

// evaluate sends a GET /evaluate through the full handler chain and decodes
// the raw JSON object.
func evaluate(t *testing.T, s *Server, expr *string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	target := "/evaluate"
	if expr != nil {
		target += "?expression=" + url.QueryEscape(*expr)
	}
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), "body: %s", rr.Body.String())
	return rr, body
}

func ptr(s string) *string { return &s }

func TestEvaluateSuccess(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		expr string
		want float64
	}{
		{"2+3*4", 14},
		{"(2+3)*4", 20},
		{"10 - 2 - 3", 5},
		{".5+.5", 1},
		{"7", 7},
		{"1-1", 0},
	}
	for _, c := range cases {
		t.Run(c.expr, func(t *testing.T) {
			rr, body := evaluate(t, s, ptr(c.expr))
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, map[string]any{"status": "success", "value": c.want}, body)
		})
	}
}

func TestEvaluateFailure(t *testing.T) {
	s := newTestServer(t)
	cases := []struct {
		name string
		expr *string
		want map[string]any
	}{
		{"absent", nil, map[string]any{"status": "failure", "message": "no expression given"}},
		{"empty", ptr(""), map[string]any{"status": "failure", "message": "no expression given"}},
		{"blank", ptr("  \t "), map[string]any{"status": "failure", "message": "no expression given"}},
		{"too-long", ptr(strings.Repeat("1+", 20) + "1"), map[string]any{"status": "failure", "message": "expression too long"}},
		{"syntax", ptr("1+2)"), map[string]any{"status": "failure", "message": "mismatched paren", "charIndex": 3.0}},
		{"first-char", ptr("+1"), map[string]any{"status": "failure", "message": "unexpected operator", "charIndex": 0.0}},
		{"close-then-number", ptr("(1)2"), map[string]any{"status": "failure", "message": "unexpected number", "charIndex": 3.0}},
		{"group-then-number", ptr("(1+2) 3"), map[string]any{"status": "failure", "message": "unexpected number", "charIndex": 6.0}},
		{"div-zero", ptr("10/0"), map[string]any{"status": "failure", "message": "division by 0", "charIndex": 2.0}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			rr, body := evaluate(t, s, c.expr)
			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			assert.Equal(t, c.want, body)
		})
	}
}

func TestEvaluateNotFinite(t *testing.T) {
	logger := zerolog.Nop()
	s := NewServer(DefaultConfig(), logger)
	huge := strings.Repeat("9", 400)
	_, body := evaluate(t, s, &huge)
	assert.Equal(t, map[string]any{"status": "failure", "message": "result is not a finite number"}, body)
}

func TestEvaluatePostForm(t *testing.T) {
	s := newTestServer(t)
	form := url.Values{"expression": {"6*7"}}
	req := httptest.NewRequest(http.MethodPost, "/evaluate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var res Result
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.Equal(t, "success", res.Status)
	require.NotNil(t, res.Value)
	assert.Equal(t, 42.0, *res.Value)
	assert.Nil(t, res.CharIndex)
}

func TestEvaluateMetrics(t *testing.T) {
	s := newTestServer(t)
	for _, e := range []string{"1+1", "2*2", "1/0", "(", ""} {
		evaluate(t, s, ptr(e))
	}
	req := httptest.NewRequest(http.MethodGet, "/internal/metrics", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	var snap MetricsSnapshot
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&snap))
	assert.Equal(t, int64(4), snap.Evaluations)
	assert.Equal(t, int64(2), snap.Successes)
	assert.Equal(t, map[string]int64{"arithmetic": 1, "syntax": 1}, snap.Failures)
	assert.Equal(t, int64(1), snap.Rejected)
	assert.Positive(t, snap.Goroutines)
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok","service":"shuntd"}`, rr.Body.String())
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	id := rr.Header().Get("X-Request-Id")
	assert.Len(t, id, 36)

	const given = "6f1c7c4e-2f43-4a8e-9d55-0c8f0b7d2a11"
	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", given)
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, given, rr.Header().Get("X-Request-Id"))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "not a uuid")
	rr = httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.NotEqual(t, "not a uuid", rr.Header().Get("X-Request-Id"))
}

func TestMethodNotAllowed(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodDelete, "/evaluate", nil)
	rr := httptest.NewRecorder()
	s.Handler().ServeHTTP(rr, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rr.Code)
}
