package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	plog "payroute.backend/pkg/logger"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	plog.Init("test")
	a := buildApp(baseTestConfig())
	t.Cleanup(a.factory.Close)
	return a.router
}

func TestRegisterAPIV1Routes_RegistersKeyRoutes(t *testing.T) {
	r := newTestRouter(t)

	expects := []struct {
		method string
		path   string
	}{
		{"POST", "/api/v1/routes"},
		{"GET", "/api/v1/pay/*segments"},
		{"GET", "/api/v1/pay-parse/*segments"},
		{"GET", "/api/v1/chains"},
		{"GET", "/api/v1/tokens"},
		{"GET", "/health"},
		{"GET", "/metrics"},
	}

	routes := r.Routes()
	for _, exp := range expects {
		found := false
		for _, route := range routes {
			if route.Method == exp.method && route.Path == exp.path {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("route %s %s not registered", exp.method, exp.path)
		}
	}
}

func TestRoutes_PaymentLinkParse(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pay-parse/alice.eth@base/10usdc", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Intent map[string]interface{} `json:"intent"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if body.Intent["chain"] != "8453" || body.Intent["token"] != "USDC" || body.Intent["amount"] != "10" {
		t.Fatalf("unexpected intent: %+v", body.Intent)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header")
	}
}

func TestRoutes_PaymentLinkErrors(t *testing.T) {
	r := newTestRouter(t)

	cases := map[string]int{
		"/api/v1/pay-parse/alice.eth/usdc":                                     http.StatusBadRequest,
		"/api/v1/pay/" + strings.Repeat("a", 70):                               http.StatusBadRequest,
		"/api/v1/pay/bob@base/5usdc":                                           http.StatusUnprocessableEntity,
		"/api/v1/pay/0xd8da6bf26964af9d7eed9e03e53415d37aa96045@fantom/10usdc": http.StatusUnprocessableEntity,
	}
	for path, want := range cases {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		if rec.Code != want {
			t.Fatalf("%s: expected %d, got %d: %s", path, want, rec.Code, rec.Body.String())
		}
	}
}

func TestRoutes_RouteRequestNeedsOneAmountMode(t *testing.T) {
	r := newTestRouter(t)

	body := `{"from":{"address":"0x1111111111111111111111111111111111111111","tokenAddress":"0xaf88d065e77c8cC2239327C5EDb3A432268e5831","chainId":"42161"},` +
		`"to":{"address":"0x2222222222222222222222222222222222222222","tokenAddress":"0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913","chainId":"8453"},` +
		`"fromAmount":"100","toUsd":"5"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/routes", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestRoutes_ChainsAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/chains", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"caip2":"eip155:42161"`) {
		t.Fatalf("unexpected chains response %d: %s", rec.Code, rec.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "go_goroutines") {
		t.Fatalf("unexpected metrics response %d", rec.Code)
	}
}
