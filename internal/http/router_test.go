package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/censusgap-backend/internal/data/repos"
	"github.com/yungbote/censusgap-backend/internal/data/repos/testutil"
	httpH "github.com/yungbote/censusgap-backend/internal/http/handlers"
	httpMW "github.com/yungbote/censusgap-backend/internal/http/middleware"
	"github.com/yungbote/censusgap-backend/internal/observability"
	"github.com/yungbote/censusgap-backend/internal/services"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.DB(t)
	log := testutil.Logger(t)
	userRepo := repos.NewUserRepo(db, log)
	recordRepo := repos.NewRecordRepo(db, log)
	metrics := observability.NewMetrics(observability.MetricsConfig{Namespace: "test"})

	authService := services.NewAuthService(log, userRepo, services.NewMemoryDenylist(), "router-test", 30*time.Minute, time.Hour)
	return NewRouter(RouterConfig{
		Log:               log,
		Metrics:           metrics,
		AuthHandler:       httpH.NewAuthHandler(authService),
		AuthMiddleware:    httpMW.NewAuthMiddleware(log, authService),
		UserHandler:       httpH.NewUserHandler(services.NewUserService(db, log, userRepo)),
		RecordHandler:     httpH.NewRecordHandler(services.NewRecordService(db, log, recordRepo)),
		ComparisonHandler: httpH.NewComparisonHandler(services.NewComparisonService(log, recordRepo), metrics),
		HealthHandler:     httpH.NewHealthHandler(),
	})
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func login(t *testing.T, r *gin.Engine) services.TokenPair {
	t.Helper()
	creds := map[string]string{"username": "alice", "password": "s3cret"}
	if rec := do(t, r, http.MethodPost, "/api/users", "", creds); rec.Code != http.StatusCreated {
		t.Fatalf("create user: %d %s", rec.Code, rec.Body.String())
	}
	rec := do(t, r, http.MethodPost, "/api/auth/login", "", creds)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: %d %s", rec.Code, rec.Body.String())
	}
	return decode[services.TokenPair](t, rec)
}

func seed(t *testing.T, r *gin.Engine, token, race string, male, female int64, maleIncome, femaleIncome float64) {
	t.Helper()
	rec := do(t, r, http.MethodPost, "/api/records", token, map[string]any{
		"race":                              race,
		"age_range":                         "15-24",
		"year":                              2019,
		"num_males_with_income":             male,
		"male_median_income_curr_dollars":   maleIncome,
		"male_median_income_2019_dollars":   maleIncome,
		"num_females_with_income":           female,
		"female_median_income_curr_dollars": femaleIncome,
		"female_median_income_2019_dollars": femaleIncome,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("seed %s: %d %s", race, rec.Code, rec.Body.String())
	}
}

func TestHealthcheckAndMetrics(t *testing.T) {
	r := newTestRouter(t)

	rec := do(t, r, http.MethodGet, "/healthcheck", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("healthcheck: %d", rec.Code)
	}

	rec = do(t, r, http.MethodGet, "/metrics", "", nil)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "test_api_requests_total") {
		t.Fatalf("metrics: %d %s", rec.Code, rec.Body.String())
	}
}

func TestComparisonFlow(t *testing.T) {
	r := newTestRouter(t)

	payload := map[string]any{"year": 2019, "age": 20}
	if rec := do(t, r, http.MethodPost, "/api/comparisons", "", payload); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated comparison: got=%d", rec.Code)
	}

	pair := login(t, r)
	seed(t, r, pair.AccessToken, "white", 120, 110, 14000, 11600)

	rec := do(t, r, http.MethodPost, "/api/comparisons", pair.AccessToken, payload)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing asian record: got=%d %s", rec.Code, rec.Body.String())
	}
	errBody := decode[map[string]string](t, rec)
	if errBody["error"] != "no data for race asian in year 2019" {
		t.Fatalf("unexpected error: %v", errBody)
	}

	seed(t, r, pair.AccessToken, "asian", 30, 40, 12000, 11500)

	rec = do(t, r, http.MethodPost, "/api/comparisons", pair.AccessToken, payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("comparison: got=%d %s", rec.Code, rec.Body.String())
	}
	body := decode[map[string]any](t, rec)
	if body["sex"] != nil {
		t.Fatalf("sex should echo null, got %v", body["sex"])
	}
	male := body["comparison"].(map[string]any)["male"].(map[string]any)
	if male["head"] != "white" || male["income_difference"] != float64(2000) || male["population_difference"] != float64(90) {
		t.Fatalf("unexpected male comparison: %v", male)
	}
	if male["percent_change_income"] != nil || male["percent_change_pop"] != nil {
		t.Fatalf("percent change should be null without base year: %v", male)
	}
}

func TestComparisonRequestErrors(t *testing.T) {
	r := newTestRouter(t)
	pair := login(t, r)

	tests := []struct {
		name    string
		payload map[string]any
		status  int
	}{
		{"missing age", map[string]any{"year": 2019}, http.StatusBadRequest},
		{"age too low", map[string]any{"year": 2019, "age": 14}, http.StatusUnprocessableEntity},
		{"age unclassified", map[string]any{"year": 2019, "age": 70}, http.StatusUnprocessableEntity},
		{"no records", map[string]any{"year": 2019, "age": 40}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, r, http.MethodPost, "/api/comparisons", pair.AccessToken, tt.payload)
			if rec.Code != tt.status {
				t.Fatalf("status: got=%d want=%d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			if decode[map[string]string](t, rec)["error"] == "" {
				t.Fatalf("expected flat error body")
			}
		})
	}
}

func TestTokenLifecycle(t *testing.T) {
	r := newTestRouter(t)
	pair := login(t, r)

	if rec := do(t, r, http.MethodPost, "/api/auth/refresh", pair.AccessToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("refresh with access token: got=%d", rec.Code)
	}
	rec := do(t, r, http.MethodPost, "/api/auth/refresh", pair.RefreshToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("refresh: got=%d %s", rec.Code, rec.Body.String())
	}
	fresh := decode[services.TokenPair](t, rec)

	if rec := do(t, r, http.MethodPost, "/api/auth/logout", pair.AccessToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("logout: got=%d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/api/records/1", pair.AccessToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked token accepted: got=%d", rec.Code)
	}
	if rec := do(t, r, http.MethodGet, "/api/records/1", fresh.AccessToken, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("fresh token: got=%d", rec.Code)
	}

	if rec := do(t, r, http.MethodPost, "/api/auth/revoke-refresh", pair.RefreshToken, nil); rec.Code != http.StatusOK {
		t.Fatalf("revoke refresh: got=%d", rec.Code)
	}
	if rec := do(t, r, http.MethodPost, "/api/auth/refresh", pair.RefreshToken, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("revoked refresh accepted: got=%d", rec.Code)
	}
}
