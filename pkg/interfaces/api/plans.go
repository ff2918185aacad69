package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vsinha/palletplan/pkg/application/dto"
	"github.com/vsinha/palletplan/pkg/application/services/orchestration"
	"github.com/vsinha/palletplan/pkg/application/services/planning"
	"github.com/vsinha/palletplan/pkg/domain/entities"
	"github.com/vsinha/palletplan/pkg/infrastructure/events"
	"github.com/vsinha/palletplan/pkg/infrastructure/repositories/sheets"
)

// defaultDownloadFormat matches the workbooks the planning team exchanges
const defaultDownloadFormat = sheets.FormatXLSX

type PlanHandler struct {
	Orchestrator   *orchestration.PlanningOrchestrator
	Logger         *zap.Logger
	MaxUploadBytes int64
}

func (h *PlanHandler) Register(r *gin.Engine) {
	group := r.Group("/api/v1/plans")
	group.POST("", h.createPlan)
	group.GET("", h.listPlans)
	group.GET("/:id", h.getPlan)
	group.GET("/:id/files/:view", h.downloadView)
	group.GET("/:id/events", h.listEvents)
}

type planSummaryResponse struct {
	RunID       uuid.UUID          `json:"run_id"`
	GeneratedAt time.Time          `json:"generated_at"`
	Parameters  dto.PlanParameters `json:"parameters"`
	Summary     dto.PlanSummary    `json:"summary"`
	Balance     dto.BalanceReport  `json:"balance"`
	Files       map[string]string  `json:"files"`
}

func newPlanSummaryResponse(result *dto.PlanResult) planSummaryResponse {
	files := make(map[string]string, len(dto.AllViews))
	for _, view := range dto.AllViews {
		files[view.String()] = fmt.Sprintf("/api/v1/plans/%s/files/%s", result.RunID, view)
	}
	return planSummaryResponse{
		RunID:       result.RunID,
		GeneratedAt: result.GeneratedAt,
		Parameters:  result.Parameters,
		Summary:     result.Summary,
		Balance:     result.Balance,
		Files:       files,
	}
}

// createPlan accepts a multipart upload with the sheet in "file" and optional
// target_days, num_articles_for_extra and sheet fields
func (h *PlanHandler) createPlan(c *gin.Context) {
	if h.MaxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)
	}

	header, err := c.FormFile("file")
	if err != nil {
		Error(c, http.StatusBadRequest, "missing upload field \"file\"", nil)
		return
	}
	format, err := sheets.FormatFromPath(header.Filename)
	if err != nil {
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	planner, err := h.plannerFor(c)
	if err != nil {
		var meta map[string]any
		var configErr *entities.ConfigError
		if errors.As(err, &configErr) {
			meta = map[string]any{"field": configErr.Field}
		}
		Error(c, http.StatusBadRequest, err.Error(), meta)
		return
	}

	file, err := header.Open()
	if err != nil {
		Error(c, http.StatusBadRequest, "cannot read upload", nil)
		return
	}
	defer file.Close()

	sheet, columns, err := sheets.Read(file, format, c.PostForm("sheet"))
	if err != nil {
		h.logger().Warn("unreadable upload", zap.String("filename", header.Filename), zap.Error(err))
		Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}
	h.logger().Debug("columns detected",
		zap.String("filename", header.Filename),
		zap.Strings("columns", columns.Detected))

	result, err := h.Orchestrator.WithPlanner(planner).RunPlanning(c.Request.Context(), header.Filename, sheet)
	if err != nil {
		var schemaErr *entities.SchemaError
		switch {
		case errors.As(err, &schemaErr):
			Error(c, http.StatusUnprocessableEntity, err.Error(), map[string]any{
				"missing":  schemaErr.Missing,
				"detected": columns.Detected,
			})
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			Error(c, http.StatusServiceUnavailable, "planning cancelled", nil)
		default:
			Error(c, http.StatusUnprocessableEntity, err.Error(), nil)
		}
		return
	}

	Ok(c, newPlanSummaryResponse(result), map[string]any{"detected_columns": columns.Detected})
}

// plannerFor builds a planning service with the request's parameter overrides
func (h *PlanHandler) plannerFor(c *gin.Context) (*planning.PlanningService, error) {
	config := h.Orchestrator.Config()

	if v := strings.TrimSpace(c.PostForm("target_days")); v != "" {
		days, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid target_days: %s", v)
		}
		config.TargetDays = days
	}
	if v := strings.TrimSpace(c.PostForm("num_articles_for_extra")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid num_articles_for_extra: %s", v)
		}
		config.NumArticlesForExtra = n
	}
	if v := strings.TrimSpace(c.PostForm("rounding")); v != "" {
		rounding, err := entities.ParseRoundingMode(v)
		if err != nil {
			return nil, err
		}
		config.Rounding = rounding
	}

	return planning.NewPlanningServiceWithConfig(config, h.logger())
}

func (h *PlanHandler) listPlans(c *gin.Context) {
	plans := h.Orchestrator.ListPlans()
	items := make([]planSummaryResponse, len(plans))
	for i, plan := range plans {
		items[i] = newPlanSummaryResponse(plan)
	}
	Ok(c, items, map[string]any{"count": len(items)})
}

func (h *PlanHandler) getPlan(c *gin.Context) {
	result, ok := h.lookup(c)
	if !ok {
		return
	}
	Ok(c, result, nil)
}

// downloadView serves one of the four views as a file; ?format=csv|xlsx
func (h *PlanHandler) downloadView(c *gin.Context) {
	result, ok := h.lookup(c)
	if !ok {
		return
	}

	view, err := dto.ParseView(c.Param("view"))
	if err != nil {
		Error(c, http.StatusNotFound, err.Error(), nil)
		return
	}

	format := defaultDownloadFormat
	if v := c.Query("format"); v != "" {
		if format, err = sheets.ParseFormat(v); err != nil {
			Error(c, http.StatusBadRequest, err.Error(), nil)
			return
		}
	}

	var buf bytes.Buffer
	if err := sheets.NewWriter(format).WriteView(&buf, view, result); err != nil {
		h.logger().Error("failed to render view", zap.String("view", view.String()), zap.Error(err))
		Error(c, http.StatusInternalServerError, "failed to render file", nil)
		return
	}

	filename := sheets.FileName(view, format, result)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

func (h *PlanHandler) listEvents(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	evts, err := h.Orchestrator.Events(runID)
	if err != nil {
		Error(c, http.StatusInternalServerError, err.Error(), nil)
		return
	}
	if len(evts) == 0 {
		Error(c, http.StatusNotFound, "run not found", nil)
		return
	}
	Ok(c, events.ToRecords(evts), map[string]any{"count": len(evts)})
}

func (h *PlanHandler) lookup(c *gin.Context) (*dto.PlanResult, bool) {
	runID, ok := parseRunID(c)
	if !ok {
		return nil, false
	}
	result, err := h.Orchestrator.GetPlan(runID)
	if err != nil {
		Error(c, http.StatusNotFound, err.Error(), nil)
		return nil, false
	}
	return result, true
}

func parseRunID(c *gin.Context) (uuid.UUID, bool) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		Error(c, http.StatusBadRequest, "invalid run id", nil)
		return uuid.Nil, false
	}
	return runID, true
}

func (h *PlanHandler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
