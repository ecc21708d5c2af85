package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/conutlabs/chiefops/internal/domain"
	"github.com/conutlabs/chiefops/internal/mocks"
	"github.com/conutlabs/chiefops/internal/ports"
	"github.com/conutlabs/chiefops/internal/service/agent"
	"github.com/conutlabs/chiefops/internal/service/intent"
)

type testEnv struct {
	app       *fiber.App
	combos    *mocks.MockComboService
	forecasts *mocks.MockForecastService
	staffing  *mocks.MockStaffingService
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		combos:    &mocks.MockComboService{},
		forecasts: &mocks.MockForecastService{},
		staffing:  &mocks.MockStaffingService{},
	}
	store := mocks.NewMockDatasetStore()
	store.MonthlySalesRows = []domain.MonthlySales{
		{Branch: "Salmiya", Year: 2025, Month: "Jan", Total: 100},
	}

	classifier := intent.NewClassifier([]string{"Salmiya"}, zap.NewNop())
	dispatcher := agent.NewDispatcher(
		classifier, store, env.combos, env.forecasts,
		&mocks.MockExpansionService{}, &mocks.MockGrowthService{}, env.staffing,
		mocks.NewMockCache(), time.Minute, zap.NewNop(),
	)

	handler := NewAnalyticsHandler(
		env.combos, env.forecasts,
		&mocks.MockExpansionService{}, &mocks.MockGrowthService{}, env.staffing,
		dispatcher, zap.NewNop(),
	)
	env.app = fiber.New()
	handler.RegisterRoutes(env.app)
	return env
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestComboEndpoint(t *testing.T) {
	env := setupTestApp(t)
	env.combos.RecommendFunc = func(ctx context.Context, p ports.ComboParams) (*domain.ComboResult, error) {
		return &domain.ComboResult{Branch: p.Branch, TotalBaskets: 7}, nil
	}

	resp := postJSON(t, env.app, "/api/v1/combo", map[string]any{"branch": "Salmiya", "top_k": 3})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ComboResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "Salmiya", result.Branch)
	assert.Equal(t, 7, result.TotalBaskets)
}

func TestComboTopKClamped(t *testing.T) {
	env := setupTestApp(t)
	var gotTopK int
	env.combos.RecommendFunc = func(ctx context.Context, p ports.ComboParams) (*domain.ComboResult, error) {
		gotTopK = p.TopK
		return &domain.ComboResult{}, nil
	}

	resp := postJSON(t, env.app, "/api/v1/combo", map[string]any{"branch": "all", "top_k": 500})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 20, gotTopK)
}

func TestForecastRequiresBranch(t *testing.T) {
	env := setupTestApp(t)

	resp := postJSON(t, env.app, "/api/v1/forecast", map[string]any{"horizon_months": 3})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestForecastHorizonClamped(t *testing.T) {
	env := setupTestApp(t)
	var gotHorizon int
	env.forecasts.ForecastFunc = func(ctx context.Context, branch string, horizon int) (*domain.ForecastResult, error) {
		gotHorizon = horizon
		return &domain.ForecastResult{Branch: branch}, nil
	}

	resp := postJSON(t, env.app, "/api/v1/forecast", map[string]any{"branch": "Salmiya", "horizon_months": 99})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 12, gotHorizon)
}

func TestStaffingValidationStaysHTTP200(t *testing.T) {
	env := setupTestApp(t)
	env.staffing.RecommendFunc = func(ctx context.Context, branch, shift string) (*domain.StaffingResult, error) {
		return &domain.StaffingResult{
			Branch: branch, Shift: shift,
			Error:           "unsupported shift \"graveyard\"",
			AvailableShifts: []string{"morning", "midday", "evening"},
		}, nil
	}

	resp := postJSON(t, env.app, "/api/v1/staffing", map[string]any{"branch": "Salmiya", "shift": "graveyard"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.StaffingResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.NotEmpty(t, result.Error)
	assert.Len(t, result.AvailableShifts, 3)
}

func TestAskEndpoint(t *testing.T) {
	env := setupTestApp(t)
	env.combos.RecommendFunc = func(ctx context.Context, p ports.ComboParams) (*domain.ComboResult, error) {
		return &domain.ComboResult{Branch: p.Branch}, nil
	}

	resp := postJSON(t, env.app, "/api/v1/ask", map[string]any{"question": "best combos for Salmiya"})
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.AgentResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, domain.ActionCombo, result.Intent)
	assert.NotEmpty(t, result.ID)
}

func TestAskRequiresQuestion(t *testing.T) {
	env := setupTestApp(t)

	resp := postJSON(t, env.app, "/api/v1/ask", map[string]any{})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestInvalidBodyRejected(t *testing.T) {
	env := setupTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/growth", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := env.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
