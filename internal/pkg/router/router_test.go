package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ManuelReschke/RAAS/app/controllers"
	"github.com/ManuelReschke/RAAS/app/repository"
	"github.com/ManuelReschke/RAAS/internal/pkg/database"
	"github.com/ManuelReschke/RAAS/internal/pkg/subjectlock"
)

var fixedNow = time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db, err := database.OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	previous := database.GetDB()
	database.SetDB(db)
	t.Cleanup(func() { database.SetDB(previous) })

	ctrls := controllers.NewControllers(db, repository.NewRepositories(db), subjectlock.NewLocalLocker(2*time.Second))
	app := fiber.New()
	setup(app,
		NewOpsRouter(),
		NewApiRouter(ctrls, nil).WithClock(func() time.Time { return fixedNow }),
	)
	return app
}

type response struct {
	status int
	body   map[string]interface{}
	raw    []byte
}

func call(t *testing.T, app *fiber.App, method, path string, payload interface{}) response {
	t.Helper()
	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(encoded)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	out := response{status: resp.StatusCode, raw: raw}
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &out.body))
	}
	return out
}

func createID(t *testing.T, app *fiber.App, path string, payload interface{}) int {
	t.Helper()
	resp := call(t, app, http.MethodPost, path, payload)
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.raw))
	return int(resp.body["id"].(float64))
}

func TestProviderEndpoints(t *testing.T) {
	app := newTestApp(t)

	provider := map[string]interface{}{"code": "F-001", "company_name": "SARL Atlas Travaux", "nif": "000116001234567"}
	id := createID(t, app, "/api/v1/providers", provider)

	resp := call(t, app, http.MethodPost, "/api/v1/providers", provider)
	assert.Equal(t, fiber.StatusConflict, resp.status)
	assert.Equal(t, "conflict", resp.body["error"])

	resp = call(t, app, http.MethodPost, "/api/v1/providers", map[string]interface{}{"code": "F-002", "company_name": "EURL Sahara", "nif": "12AB"})
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Equal(t, "validation_error", resp.body["error"])
	assert.Equal(t, "nif", resp.body["field"])

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/providers/%d", id), nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, "SARL Atlas Travaux", resp.body["company_name"])

	resp = call(t, app, http.MethodGet, "/api/v1/providers/search?q=atlas", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.EqualValues(t, 1, resp.body["total_elements"])

	resp = call(t, app, http.MethodGet, "/api/v1/providers?page=0&size=5&sortBy=code&sortDir=desc", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.EqualValues(t, 5, resp.body["size"])
	assert.Equal(t, true, resp.body["first"])
	assert.Equal(t, true, resp.body["last"])

	resp = call(t, app, http.MethodGet, "/api/v1/providers?sortBy=password", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = call(t, app, http.MethodGet, "/api/v1/providers/abc", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = call(t, app, http.MethodGet, "/api/v1/providers/999", nil)
	assert.Equal(t, fiber.StatusNotFound, resp.status)
	assert.Equal(t, "not_found", resp.body["error"])

	updated := map[string]interface{}{"code": "F-001", "company_name": "SARL Atlas Travaux Publics", "nif": "000116001234567"}
	resp = call(t, app, http.MethodPut, fmt.Sprintf("/api/v1/providers/%d", id), updated)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.raw))
	assert.Equal(t, "SARL Atlas Travaux Publics", resp.body["company_name"])

	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/providers/%d", id), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.status)
}

func TestProviderExclusionEndpoints(t *testing.T) {
	app := newTestApp(t)

	providerID := createID(t, app, "/api/v1/providers", map[string]interface{}{"code": "F-001", "company_name": "SARL Atlas Travaux", "nif": "000116001234567"})
	typeID := createID(t, app, "/api/v1/exclusion-types", map[string]interface{}{"code": "FRAUD", "designation_fr": "Fraude"})

	permanent := map[string]interface{}{
		"provider_id":       providerID,
		"exclusion_type_id": typeID,
		"start_date":        "2024-01-01T00:00:00Z",
		"reference":         "DEC-2024-001",
	}
	resp := call(t, app, http.MethodPost, "/api/v1/provider-exclusions", permanent)
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.raw))
	assert.Nil(t, resp.body["end_date"])
	assert.Contains(t, string(resp.raw), `"end_date":null`)
	assert.Equal(t, "SARL Atlas Travaux", resp.body["provider_name"])
	snapshot := resp.body["validity"].(map[string]interface{})
	assert.Equal(t, "ACTIVE", snapshot["status"])
	assert.Equal(t, true, snapshot["permanent"])
	assert.EqualValues(t, 182, snapshot["days_since_start"])
	exclusionID := int(resp.body["id"].(float64))

	overlapping := map[string]interface{}{
		"provider_id":       providerID,
		"exclusion_type_id": typeID,
		"start_date":        "2024-03-01T00:00:00Z",
		"end_date":          "2024-04-01T00:00:00Z",
	}
	resp = call(t, app, http.MethodPost, "/api/v1/provider-exclusions", overlapping)
	assert.Equal(t, fiber.StatusConflict, resp.status)
	assert.Contains(t, resp.body["message"], fmt.Sprintf("existing provider_exclusion %d", exclusionID))

	inverted := map[string]interface{}{
		"provider_id":       providerID,
		"exclusion_type_id": typeID,
		"start_date":        "2024-03-01T00:00:00Z",
		"end_date":          "2024-02-01T00:00:00Z",
	}
	resp = call(t, app, http.MethodPost, "/api/v1/provider-exclusions", inverted)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Equal(t, "end_date", resp.body["field"])

	resp = call(t, app, http.MethodGet, "/api/v1/provider-exclusions?status=ACTIVE", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.EqualValues(t, 1, resp.body["total_elements"])

	resp = call(t, app, http.MethodGet, "/api/v1/provider-exclusions?status=EXPIRED", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.EqualValues(t, 0, resp.body["total_elements"])
	assert.Equal(t, []interface{}{}, resp.body["content"])

	resp = call(t, app, http.MethodGet, "/api/v1/provider-exclusions?status=SOMETIMES", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/providers/%d/exclusions/active", providerID), nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, true, resp.body["excluded"])

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/providers/%d/exclusions/active?at=2023-06-01", providerID), nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, false, resp.body["excluded"])

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/providers/%d/exclusions/active?at=yesterday", providerID), nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/providers/%d", providerID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.status)

	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/exclusion-types/%d", typeID), nil)
	assert.Equal(t, fiber.StatusConflict, resp.status)

	bounded := map[string]interface{}{
		"provider_id":       providerID,
		"exclusion_type_id": typeID,
		"start_date":        "2024-01-01T00:00:00Z",
		"end_date":          "2024-07-15T00:00:00Z",
	}
	resp = call(t, app, http.MethodPut, fmt.Sprintf("/api/v1/provider-exclusions/%d", exclusionID), bounded)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.raw))
	snapshot = resp.body["validity"].(map[string]interface{})
	assert.EqualValues(t, 13, snapshot["remaining_days"])
	assert.Equal(t, true, snapshot["close_to_expiration"])

	resp = call(t, app, http.MethodGet, "/api/v1/provider-exclusions/expiring?days=30", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	var expiring []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.raw, &expiring))
	assert.Len(t, expiring, 1)

	resp = call(t, app, http.MethodGet, "/api/v1/provider-exclusions/expiring?days=ten", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)

	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/provider-exclusions/%d", exclusionID), nil)
	assert.Equal(t, fiber.StatusNoContent, resp.status)

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/provider-exclusions/%d", exclusionID), nil)
	assert.Equal(t, fiber.StatusNotFound, resp.status)
}

func TestClearanceEndpoints(t *testing.T) {
	app := newTestApp(t)

	atlas := createID(t, app, "/api/v1/providers", map[string]interface{}{"code": "F-001", "company_name": "SARL Atlas Travaux", "nif": "000116001234567"})
	sahara := createID(t, app, "/api/v1/providers", map[string]interface{}{"code": "F-002", "company_name": "EURL Sahara", "nif": "000116007654321"})
	manager := createID(t, app, "/api/v1/representators", map[string]interface{}{"provider_id": atlas, "last_name": "Benali", "first_name": "Karim", "national_id_number": "109870001"})
	outsider := createID(t, app, "/api/v1/representators", map[string]interface{}{"provider_id": sahara, "last_name": "Haddad", "first_name": "Sonia", "national_id_number": "109870002"})

	resp := call(t, app, http.MethodPost, "/api/v1/representators", map[string]interface{}{"provider_id": 999, "last_name": "X", "first_name": "Y", "national_id_number": "1"})
	assert.Equal(t, fiber.StatusNotFound, resp.status)

	resp = call(t, app, http.MethodPost, "/api/v1/clearances", map[string]interface{}{
		"provider_id":      atlas,
		"representator_id": outsider,
		"start_date":       "2024-01-01T00:00:00Z",
	})
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Equal(t, "representator_id", resp.body["field"])

	resp = call(t, app, http.MethodPost, "/api/v1/clearances", map[string]interface{}{
		"provider_id":      atlas,
		"representator_id": manager,
		"start_date":       "2024-08-01T00:00:00Z",
		"object":           "Signature des offres",
	})
	require.Equal(t, fiber.StatusCreated, resp.status, string(resp.raw))
	assert.Equal(t, "BENALI Karim", resp.body["representator_name"])
	assert.Equal(t, "FUTURE", resp.body["validity"].(map[string]interface{})["status"])

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/providers/%d/clearances/active", atlas), nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, "[]", string(resp.raw))

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/providers/%d/clearances/active?at=2024-09-01T00:00:00Z", atlas), nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	var active []map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.raw, &active))
	assert.Len(t, active, 1)

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/providers/%d/representators", atlas), nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.EqualValues(t, 1, resp.body["total_elements"])

	resp = call(t, app, http.MethodDelete, fmt.Sprintf("/api/v1/representators/%d", manager), nil)
	assert.Equal(t, fiber.StatusConflict, resp.status)

	resp = call(t, app, http.MethodGet, fmt.Sprintf("/api/v1/clearances?representatorId=%d&status=FUTURE", manager), nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.EqualValues(t, 1, resp.body["total_elements"])
}

func TestOpsEndpoints(t *testing.T) {
	app := newTestApp(t)

	resp := call(t, app, http.MethodGet, "/health", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, "up", resp.body["database"])

	resp = call(t, app, http.MethodGet, "/metrics", nil)
	assert.Equal(t, fiber.StatusUnauthorized, resp.status)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.SetBasicAuth("admin", "admin")
	httpResp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer httpResp.Body.Close()
	assert.Equal(t, fiber.StatusOK, httpResp.StatusCode)
	raw, err := io.ReadAll(httpResp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "go_goroutines")

	resp = call(t, app, http.MethodGet, "/api/", nil)
	require.Equal(t, fiber.StatusOK, resp.status)
	assert.Equal(t, "v1", resp.body["version"])
}

func TestWritesRequireJSONBody(t *testing.T) {
	app := newTestApp(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/providers", bytes.NewReader([]byte("code=P1")))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, fiber.StatusUnsupportedMediaType, resp.StatusCode)

	list := call(t, app, http.MethodGet, "/api/v1/providers", nil)
	assert.Equal(t, fiber.StatusOK, list.status)
	assert.EqualValues(t, 0, list.body["total_elements"])
}

func TestStatisticsEndpoint(t *testing.T) {
	app := newTestApp(t)

	providerID := createID(t, app, "/api/v1/providers", map[string]interface{}{"code": "F-001", "company_name": "SARL Atlas Travaux", "nif": "000116001234567"})
	typeID := createID(t, app, "/api/v1/exclusion-types", map[string]interface{}{"code": "FRAUD", "designation_fr": "Fraude"})
	createID(t, app, "/api/v1/provider-exclusions", map[string]interface{}{
		"provider_id":       providerID,
		"exclusion_type_id": typeID,
		"start_date":        "2024-01-01T00:00:00Z",
	})

	resp := call(t, app, http.MethodGet, "/api/v1/statistics", nil)
	require.Equal(t, fiber.StatusOK, resp.status, string(resp.raw))
	assert.Equal(t, "2024-07-01T12:00:00Z", resp.body["at"])
	assert.EqualValues(t, 1, resp.body["providers"])
	assert.EqualValues(t, 1, resp.body["excluded_providers"])
	exclusions := resp.body["provider_exclusions"].(map[string]interface{})
	assert.EqualValues(t, 1, exclusions["active"])
	assert.EqualValues(t, 0, exclusions["expiring"])

	resp = call(t, app, http.MethodGet, "/api/v1/statistics?days=0", nil)
	assert.Equal(t, fiber.StatusBadRequest, resp.status)
	assert.Equal(t, "days", resp.body["field"])
}
