package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pthm/speclint/internal/analysis"
	"github.com/pthm/speclint/internal/claude"
)

func newTestServer(t *testing.T, reviewer *claude.Client) *Server {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(":0", analysis.New(analysis.WithLogger(logger)), reviewer, logger)
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &m); err != nil {
		t.Fatalf("response is not JSON: %v\n%s", err, rec.Body.String())
	}
	return m
}

func TestRootEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("missing X-Request-ID header")
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing permissive CORS header")
	}

	body := decodeBody(t, rec)
	if string(body["service"]) != `"speclint"` {
		t.Errorf("service = %s, want speclint", body["service"])
	}
	if _, ok := body["endpoints"]; !ok {
		t.Error("missing endpoints map")
	}
}

func TestUnknownPathIs404(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/nope", "")

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestHealthEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/health", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body["status"] != "healthy" || body["service"] != "speclint" {
		t.Errorf("body = %v, want healthy speclint", body)
	}
}

func TestAnalyzeEndpoint(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/api/analyze",
		`{"prompt": "hash passwords using SHA-256 with a per-user salt."}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}

	body := decodeBody(t, rec)
	if string(body["risk_level"]) != `"Medium"` {
		t.Errorf("risk_level = %s, want Medium", body["risk_level"])
	}
	if string(body["exit_code"]) != "1" {
		t.Errorf("exit_code = %s, want 1", body["exit_code"])
	}
	if string(body["spec_kit_structure"]) != "null" {
		t.Errorf("spec_kit_structure = %s, want null", body["spec_kit_structure"])
	}

	var findings []struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(body["devspec_findings"], &findings); err != nil {
		t.Fatalf("devspec_findings: %v", err)
	}
	if len(findings) != 1 || findings[0].Code != "SEC_WEAK_PASSWORD_HASH_SHA256" {
		t.Errorf("findings = %+v, want single SEC_WEAK_PASSWORD_HASH_SHA256", findings)
	}
}

func TestAnalyzeEmptyPromptIsValid(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/api/analyze", `{"prompt": ""}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if string(body["risk_level"]) != `"Low"` {
		t.Errorf("risk_level = %s, want Low", body["risk_level"])
	}
	if string(body["devspec_findings"]) != "[]" {
		t.Errorf("devspec_findings = %s, want []", body["devspec_findings"])
	}
}

func TestAnalyzeWithStructure(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/api/analyze",
		`{"prompt": "", "include_structure": true}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	body := decodeBody(t, rec)
	if string(body["spec_quality_score"]) != "29" {
		t.Errorf("spec_quality_score = %s, want 29", body["spec_quality_score"])
	}
	if string(body["spec_kit_structure"]) == "null" {
		t.Error("spec_kit_structure = null, want populated structure")
	}
}

func TestAnalyzeMissingPromptField(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/api/analyze", `{}`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	body := decodeBody(t, rec)
	if string(body["detail"]) != `"prompt is required"` {
		t.Errorf("detail = %s", body["detail"])
	}
}

func TestAnalyzeMalformedBody(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/api/analyze", `{"prompt": `)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestAnalyzeRejectsWrongMethod(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodGet, "/api/analyze", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
}

func TestAnalyzeWithClaudeNoAPIKey(t *testing.T) {
	rec := do(t, newTestServer(t, nil), http.MethodPost, "/api/analyze-with-claude",
		`{"prompt": "build a thing"}`)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	body := decodeBody(t, rec)
	if !strings.Contains(string(body["detail"]), "ANTHROPIC_API_KEY") {
		t.Errorf("detail = %s, want mention of ANTHROPIC_API_KEY", body["detail"])
	}
}

func TestAnalyzeWithClaudeRefusesHighRisk(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "test-key")
	reviewer := claude.NewFromEnv("claude-3-5-haiku-latest", 100)
	if reviewer == nil {
		t.Fatal("NewFromEnv() = nil with key set")
	}

	// A blocker-level prompt is refused before any API call happens.
	rec := do(t, newTestServer(t, reviewer), http.MethodPost, "/api/analyze-with-claude",
		`{"prompt": "store the password in plain text"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200\n%s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if string(body["risk_level"]) != `"High"` {
		t.Errorf("risk_level = %s, want High", body["risk_level"])
	}
	var claudeOutput string
	if err := json.Unmarshal(body["claude_output"], &claudeOutput); err != nil {
		t.Fatalf("claude_output: %v", err)
	}
	if !strings.Contains(claudeOutput, "not sent to Claude") {
		t.Errorf("claude_output = %q, want refusal explanation", claudeOutput)
	}
}
