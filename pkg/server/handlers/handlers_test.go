package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/planetdyn/shtk"
	"github.com/planetdyn/shtk/pkg/server/dto"
	"github.com/planetdyn/shtk/pkg/sh"
	"github.com/planetdyn/shtk/pkg/types"
)

// stubToolkit implements shtk.Toolkit over a fixed set of models.
type stubToolkit struct {
	models map[string]*types.Coeffs
}

func newStubToolkit(t *testing.T) *stubToolkit {
	t.Helper()
	c, err := types.NewCoeffs(1, types.Geodesy4Pi)
	if err != nil {
		t.Fatalf("NewCoeffs: %v", err)
	}
	// Constant field: value 42 everywhere.
	if err := c.Set(0, 0, 42, 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	c.Name = "flat42"
	return &stubToolkit{models: map[string]*types.Coeffs{"flat42": c}}
}

func (s *stubToolkit) LoadModel(_ context.Context, name, _ string) (*types.Coeffs, error) {
	c, ok := s.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrModelNotFound, name)
	}
	return c, nil
}

func (s *stubToolkit) GetModel(_ context.Context, name string) (*types.Coeffs, error) {
	c, ok := s.models[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrModelNotFound, name)
	}
	return c, nil
}

func (s *stubToolkit) ListModels(context.Context) []string {
	names := make([]string, 0, len(s.models))
	for n := range s.models {
		names = append(names, n)
	}
	return names
}

func (s *stubToolkit) RemoveModel(_ context.Context, name string) error {
	if _, ok := s.models[name]; !ok {
		return fmt.Errorf("%w: %q", types.ErrModelNotFound, name)
	}
	delete(s.models, name)
	return nil
}

func (s *stubToolkit) EvalPoint(ctx context.Context, model string, lat, lon float64) (float64, error) {
	c, err := s.GetModel(ctx, model)
	if err != nil {
		return 0, err
	}
	return sh.EvalPoint(c, lat, lon, nil)
}

func (s *stubToolkit) Expand(ctx context.Context, model string, opts *sh.ExpandOptions) (*types.Grid, error) {
	c, err := s.GetModel(ctx, model)
	if err != nil {
		return nil, err
	}
	return sh.ExpandDH(c, opts)
}

func (s *stubToolkit) Verify(ctx context.Context, model string, check types.Check) (*shtk.VerifyResult, error) {
	val, err := s.EvalPoint(ctx, model, check.Lat, check.Lon)
	if err != nil {
		return nil, err
	}
	diff := val - check.Want
	ok := diff >= -check.Tol && diff <= check.Tol
	return &shtk.VerifyResult{Model: model, Value: val, Want: check.Want, Diff: diff, Tol: check.Tol, OK: ok}, nil
}

func (s *stubToolkit) ExportGrid(context.Context, *types.Grid) (string, error) {
	return "/tmp/grid.parquet", nil
}

func (s *stubToolkit) ExportCoeffs(context.Context, string) (string, error) {
	return "/tmp/coeffs.parquet", nil
}

func (s *stubToolkit) Close() error { return nil }

func testRouter(tk shtk.Toolkit) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	mh := NewModelsHandler(tk)
	eh := NewEvaluateHandler(tk)
	r.POST("/api/v1/models", mh.Load)
	r.GET("/api/v1/models", mh.List)
	r.GET("/api/v1/models/:name", mh.Get)
	r.DELETE("/api/v1/models/:name", mh.Remove)
	r.POST("/api/v1/evaluate", eh.Evaluate)
	r.POST("/api/v1/expand", eh.Expand)
	r.POST("/api/v1/verify", eh.Verify)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGetModel(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodGet, "/api/v1/models/flat42", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var info dto.ModelInfo
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if info.Name != "flat42" {
		t.Errorf("expected name flat42, got %s", info.Name)
	}
	if info.LMax != 1 {
		t.Errorf("expected lmax 1, got %d", info.LMax)
	}
}

func TestGetModelNotFound(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodGet, "/api/v1/models/nope", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", w.Code)
	}
}

func TestListModels(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodGet, "/api/v1/models", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var response struct {
		Models []dto.ModelInfo `json:"models"`
	}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Models) != 1 {
		t.Errorf("expected 1 model, got %d", len(response.Models))
	}
}

func TestRemoveModel(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodDelete, "/api/v1/models/flat42", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	w = doJSON(t, r, http.MethodGet, "/api/v1/models/flat42", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("expected status 404 after removal, got %d", w.Code)
	}
}

func TestLoadModelValidation(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	tests := []struct {
		name           string
		body           interface{}
		expectedStatus int
	}{
		{
			name:           "invalid JSON",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "missing name",
			body:           dto.LoadModelRequest{Name: ""},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown model",
			body:           dto.LoadModelRequest{Name: "missing"},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var w *httptest.ResponseRecorder
			if s, ok := tt.body.(string); ok {
				req := httptest.NewRequest(http.MethodPost, "/api/v1/models", bytes.NewReader([]byte(s)))
				req.Header.Set("Content-Type", "application/json")
				w = httptest.NewRecorder()
				r.ServeHTTP(w, req)
			} else {
				w = doJSON(t, r, http.MethodPost, "/api/v1/models", tt.body)
			}
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestEvaluate(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodPost, "/api/v1/evaluate", dto.EvaluateRequest{
		Model: "flat42", Lat: 10, Lon: 30,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.EvaluateResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Value < 41.9999 || resp.Value > 42.0001 {
		t.Errorf("expected value 42, got %v", resp.Value)
	}
}

func TestEvaluateValidation(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	tests := []struct {
		name           string
		body           dto.EvaluateRequest
		expectedStatus int
	}{
		{"missing model", dto.EvaluateRequest{Lat: 10}, http.StatusBadRequest},
		{"lat too large", dto.EvaluateRequest{Model: "flat42", Lat: 91}, http.StatusBadRequest},
		{"unknown model", dto.EvaluateRequest{Model: "nope", Lat: 10}, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/v1/evaluate", tt.body)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}
}

func TestExpand(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodPost, "/api/v1/expand", dto.ExpandRequest{
		Model: "flat42", Sampling: 2,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.ExpandResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	// lmax 1 gives n = 2*(1+1) = 4 latitude bands, 8 longitudes.
	if resp.NLat != 4 {
		t.Errorf("expected nlat 4, got %d", resp.NLat)
	}
	if resp.NLon != 8 {
		t.Errorf("expected nlon 8, got %d", resp.NLon)
	}
	if resp.Path != "" {
		t.Errorf("expected no export path, got %s", resp.Path)
	}
}

func TestExpandWithExport(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodPost, "/api/v1/expand", dto.ExpandRequest{
		Model: "flat42", Export: true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp dto.ExpandResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if resp.Path == "" {
		t.Error("expected an export path")
	}
}

func TestExpandBadSampling(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodPost, "/api/v1/expand", dto.ExpandRequest{
		Model: "flat42", Sampling: 3,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestVerify(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodPost, "/api/v1/verify", dto.VerifyRequest{
		Model: "flat42", Lat: 10, Lon: 30, Want: 42, Tol: 1e-9,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}

	var res shtk.VerifyResult
	if err := json.NewDecoder(w.Body).Decode(&res); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if !res.OK {
		t.Errorf("expected check to pass, diff %v", res.Diff)
	}
}

func TestVerifyRequiresTolerance(t *testing.T) {
	r := testRouter(newStubToolkit(t))

	w := doJSON(t, r, http.MethodPost, "/api/v1/verify", dto.VerifyRequest{
		Model: "flat42", Lat: 10, Lon: 30, Want: 42,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", w.Code)
	}
}

func TestHealthCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHealthHandler(newStubToolkit(t))
	r.GET("/health", h.HealthCheck)
	r.GET("/ready", h.ReadinessCheck)
	r.GET("/live", h.LivenessCheck)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", w.Code)
	}

	var response map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("expected status healthy, got %v", response["status"])
	}
	if response["service"] != "shtk" {
		t.Errorf("expected service shtk, got %v", response["service"])
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected ready status 200, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("expected live status 200, got %d", w.Code)
	}
}
