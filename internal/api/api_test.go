package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/domain"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/service"
	"github.com/AndreasKatsouris/MerakiCaptivePortal-firebaseDB-sub000/internal/store"
)

const sampleCSV = "Item Code,Description,Opening Qty,Opening Value,Purchases,Closing Qty,Closing Value\nA100,Flour,10,50,7,5,30\n"

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.NewUsageService(store.NewMemoryStore(), domain.CalculationParameters{
		StockPeriodDays:       14,
		DaysToNextDelivery:    3,
		SafetyStockPercentage: 20,
		CriticalItemBuffer:    30,
		OrderCycle:            7,
	})
	return NewRouter(&Services{UsageService: svc}, nil)
}

func doJSON(t *testing.T, router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func importBody(t *testing.T) string {
	t.Helper()
	raw, err := json.Marshal(map[string]string{
		"csv_text":     sampleCSV,
		"period_start": "2026-08-01",
		"period_end":   "2026-08-14",
	})
	require.NoError(t, err)
	return string(raw)
}

func TestHealthEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestImportEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/usage/import", importBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	var result service.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, 1, result.ItemCount)
	assert.Equal(t, 0, result.Mapping.ItemCode)
}

func TestImportEndpointUnusableCSVStillSucceeds(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/usage/import", `{"csv_text":"   "}`)
	require.Equal(t, http.StatusOK, w.Code)

	var result service.ImportResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Zero(t, result.ItemCount)
}

func TestImportEndpointIncompleteMapping(t *testing.T) {
	router := newTestRouter()

	body := `{"csv_text":"a,b\nc,d\n","mapping":{"item_code":0,"description":-1,"category":-1,"unit":-1,"cost_center":-1,"opening_qty":-1,"opening_value":-1,"purchase_qty":-1,"purchases":-1,"closing_qty":-1,"closing_value":-1,"unit_cost":-1,"supplier_name":-1,"stock_level":-1,"total_cost":-1,"opening_stock_value":-1,"closing_stock_value":-1,"purchase_value":-1}}`
	w := doJSON(t, router, http.MethodPost, "/api/v1/usage/import", body)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestItemsEndpointWithoutData(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodGet, "/api/v1/usage/items", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRecordsFlow(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/usage/import", importBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/records", "")
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.ID)

	// Same collection again conflicts.
	w = doJSON(t, router, http.MethodPost, "/api/v1/records", "")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/records", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), created.ID)

	w = doJSON(t, router, http.MethodGet, "/api/v1/records/"+created.ID, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodDelete, "/api/v1/records/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/records/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestExportEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/usage/import", importBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/v1/usage/export", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Item Code,"))
}

func TestForecastEndpoint(t *testing.T) {
	router := newTestRouter()

	w := doJSON(t, router, http.MethodPost, "/api/v1/usage/import", importBody(t))
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, "/api/v1/usage/forecast", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "recommended_order_qty")
}
