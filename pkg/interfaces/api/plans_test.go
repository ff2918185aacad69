package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/vsinha/palletplan/pkg/application/services/orchestration"
	"github.com/vsinha/palletplan/pkg/application/services/planning"
	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/infrastructure/events"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/memory"
	testhelpers "github.com/vsinha/palletplan/pkg/infrastructure/testing"
)

const workedExampleCSV = "Articulo,Descripción de artículo,21 días,Stock Virtual,CajasCapas,CajasPalet\n" +
	"A,Article A,100,0,10,100\n" +
	"B,Article B,200,0,12,120\n" +
	"C,Article C,300,0,15,150\n" +
	"D,Article D,400,0,20,200\n" +
	"E,Article E,500,0,25,250\n"

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    map[string]any  `json:"meta"`
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	config := entities.DefaultPlanningConfig()
	config.Now = testhelpers.FixedClock()
	planner, err := planning.NewPlanningServiceWithConfig(config, nil)
	require.NoError(t, err)

	orchestrator := orchestration.NewPlanningOrchestrator(
		planner,
		memory.NewPlanRepository(10),
		events.NewInMemoryEventStore(nil),
		nil,
	)
	return NewRouter(orchestrator, nil, 1<<20)
}

func uploadRequest(t *testing.T, filename string, content []byte, fields map[string]string) *http.Request {
	t.Helper()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func serve(router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func createPlan(t *testing.T, router *gin.Engine, fields map[string]string) planSummaryResponse {
	t.Helper()

	rec, env := serve(router, uploadRequest(t, "pedido.csv", []byte(workedExampleCSV), fields))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary planSummaryResponse
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	return summary
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreatePlan(t *testing.T) {
	router := newTestRouter(t)

	summary := createPlan(t, router, map[string]string{"num_articles_for_extra": "3"})

	assert.Equal(t, 3, summary.Parameters.NumArticlesForExtra)
	assert.Equal(t, 5, summary.Summary.PlannedRows)
	assert.Equal(t, entities.Quantity(6292), summary.Summary.TotalFinalUnits)
	assert.Len(t, summary.Files, 4)
	assert.Equal(t, "/api/v1/plans/"+summary.RunID.String()+"/files/submittable", summary.Files["submittable"])
}

func TestCreatePlan_MissingColumns(t *testing.T) {
	router := newTestRouter(t)
	content := []byte("articulo,descripción de artículo,cajascapas\nA,Article A,10\n")

	rec, env := serve(router, uploadRequest(t, "pedido.csv", content, nil))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, []any{"demand21", "virtualStock", "palletPack"}, env.Meta["missing"])
	assert.Contains(t, env.Message, "missing required fields")
}

func TestCreatePlan_BadRequests(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name     string
		filename string
		fields   map[string]string
	}{
		{"unknown extension", "pedido.pdf", nil},
		{"target days out of range", "pedido.csv", map[string]string{"target_days": "91"}},
		{"non-numeric extra articles", "pedido.csv", map[string]string{"num_articles_for_extra": "many"}},
		{"unknown rounding", "pedido.csv", map[string]string{"rounding": "ceiling"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := serve(router, uploadRequest(t, tt.filename, []byte(workedExampleCSV), tt.fields))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}

	// no file at all
	req := httptest.NewRequest(http.MethodPost, "/api/v1/plans", strings.NewReader(""))
	req.Header.Set("Content-Type", "multipart/form-data; boundary=x")
	rec, _ := serve(router, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreatePlan_Workbook(t *testing.T) {
	router := newTestRouter(t)

	workbook := excelize.NewFile()
	rows := [][]any{
		{"id", "description", "demand21", "virtual_stock", "case_pack", "pallet_pack"},
		{"A", "Article A", 100, 0, 10, 100},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, workbook.SetSheetRow("Sheet1", cell, &row))
	}
	var content bytes.Buffer
	require.NoError(t, workbook.Write(&content))
	workbook.Close()

	rec, env := serve(router, uploadRequest(t, "pedido.xlsx", content.Bytes(), nil))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var summary planSummaryResponse
	require.NoError(t, json.Unmarshal(env.Data, &summary))
	assert.Equal(t, 1, summary.Summary.PlannedRows)
}

func TestGetPlanAndEvents(t *testing.T) {
	router := newTestRouter(t)
	summary := createPlan(t, router, nil)

	rec, env := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/plans/"+summary.RunID.String(), nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var plan map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &plan))
	assert.Len(t, plan["plan"], 5)

	rec, env = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/plans/"+summary.RunID.String()+"/events", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var records []events.Record
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records, 4)
	assert.Equal(t, events.RunStartedEvent, records[0].Type)
	assert.Equal(t, events.PlanCompletedEvent, records[3].Type)

	rec, env = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.Meta["count"])
}

func TestGetPlan_NotFound(t *testing.T) {
	router := newTestRouter(t)

	rec, _ := serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/plans/not-a-uuid", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/plans/6f1c2b4e-8a31-4d8e-9c55-0f7c1e2a9b10", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = serve(router, httptest.NewRequest(http.MethodGet, "/api/v1/plans/6f1c2b4e-8a31-4d8e-9c55-0f7c1e2a9b10/events", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadView(t *testing.T) {
	router := newTestRouter(t)
	summary := createPlan(t, router, nil)
	base := "/api/v1/plans/" + summary.RunID.String() + "/files/"

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"submittable?format=csv", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Pedido_para_SAP_2025-03-31_12-00.csv")
	assert.True(t, strings.HasPrefix(rec.Body.String(), "id,description,base_order"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"plan", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "Planificacion_Pedidos_2025-03-31_12-00.xlsx")

	workbook, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer workbook.Close()
	rows, err := workbook.GetRows("plan")
	require.NoError(t, err)
	assert.Len(t, rows, 6)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, base+"plan?format=pdf", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
