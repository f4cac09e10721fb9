package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"policy-service/internal/policy"
	"policy-service/pkg/config"
	"policy-service/prometheus"

	"github.com/labstack/echo/v4"
)

func TestMain(m *testing.M) {
	prometheus.InitMetrics(&config.Config{Metrics: config.MetricsConfig{Prefix: "policy_test"}})
	os.Exit(m.Run())
}

func newContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(req, rec)
	c.Set("org_id", uint(1))
	c.Set("email", "admin@school.test")
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return out
}

func TestResolvePolicyReturnsDefault(t *testing.T) {
	Init(policy.NewMemoryStore(), nil, 2000)

	c, rec := newContext(t, http.MethodGet, "/api/policies/exam", "")
	c.SetParamNames("domain")
	c.SetParamValues("exam")

	if err := ResolvePolicy(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec)
	if body["is_default"] != true {
		t.Fatalf("expected is_default true, got %v", body["is_default"])
	}
}

func TestResolvePolicyUnknownDomain(t *testing.T) {
	Init(policy.NewMemoryStore(), nil, 2000)

	c, rec := newContext(t, http.MethodGet, "/api/policies/catering", "")
	c.SetParamNames("domain")
	c.SetParamValues("catering")

	if err := ResolvePolicy(c); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown domain, got %d", rec.Code)
	}
}

func TestSaveLockUnlockFlow(t *testing.T) {
	Init(policy.NewMemoryStore(), nil, 2000)

	// Create with a payload whose included weightages total 100.
	save := `{"payload":{"exam_types":[{"name":"Final","weightage":100,"is_included":true}]},"version":""}`
	c, rec := newContext(t, http.MethodPut, "/api/policies/exam", save)
	c.SetParamNames("domain")
	c.SetParamValues("exam")
	if err := SavePolicy(c); err != nil {
		t.Fatalf("save: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on save, got %d: %s", rec.Code, rec.Body)
	}
	version := decodeBody(t, rec)["version"].(string)

	// Lock passes the invariant.
	c, rec = newContext(t, http.MethodPost, "/api/policies/exam/lock", `{"version":"`+version+`"}`)
	c.SetParamNames("domain")
	c.SetParamValues("exam")
	if err := LockPolicy(c); err != nil {
		t.Fatalf("lock: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on lock, got %d: %s", rec.Code, rec.Body)
	}
	version = decodeBody(t, rec)["version"].(string)

	// A save against the locked record is forbidden.
	c, rec = newContext(t, http.MethodPut, "/api/policies/exam", save)
	c.SetParamNames("domain")
	c.SetParamValues("exam")
	if err := SavePolicy(c); err != nil {
		t.Fatalf("save on locked: %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 on locked save, got %d: %s", rec.Code, rec.Body)
	}

	// A short unlock reason is rejected.
	c, rec = newContext(t, http.MethodPost, "/api/policies/exam/unlock", `{"reason":"bad","version":"`+version+`"}`)
	c.SetParamNames("domain")
	c.SetParamValues("exam")
	if err := UnlockPolicy(c); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on short reason, got %d: %s", rec.Code, rec.Body)
	}

	// A proper reason unlocks and records the actor.
	c, rec = newContext(t, http.MethodPost, "/api/policies/exam/unlock", `{"reason":"fixed typo","version":"`+version+`"}`)
	c.SetParamNames("domain")
	c.SetParamValues("exam")
	if err := UnlockPolicy(c); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on unlock, got %d: %s", rec.Code, rec.Body)
	}
	body := decodeBody(t, rec)
	if body["locked"] != false {
		t.Fatalf("expected locked false, got %v", body["locked"])
	}
	if body["unlocked_by"] != "admin@school.test" {
		t.Fatalf("expected audit actor, got %v", body["unlocked_by"])
	}
}

func TestSavePolicyVersionConflict(t *testing.T) {
	Init(policy.NewMemoryStore(), nil, 2000)

	save := `{"payload":{"refund":{"mode":"manual"}},"version":""}`
	c, rec := newContext(t, http.MethodPut, "/api/policies/fee", save)
	c.SetParamNames("domain")
	c.SetParamValues("fee")
	if err := SavePolicy(c); err != nil {
		t.Fatalf("create: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	// Both writers read version 1.0; the second write must conflict.
	stale := `{"payload":{"refund":{"mode":"auto"}},"version":"1.0"}`
	c, rec = newContext(t, http.MethodPut, "/api/policies/fee", stale)
	c.SetParamNames("domain")
	c.SetParamValues("fee")
	if err := SavePolicy(c); err != nil {
		t.Fatalf("first writer: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("first writer expected 200, got %d: %s", rec.Code, rec.Body)
	}

	c, rec = newContext(t, http.MethodPut, "/api/policies/fee", stale)
	c.SetParamNames("domain")
	c.SetParamValues("fee")
	if err := SavePolicy(c); err != nil {
		t.Fatalf("second writer: %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Fatalf("second writer expected 409, got %d: %s", rec.Code, rec.Body)
	}
}
