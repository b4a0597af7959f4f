package batch

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"salary-backend/internal/ingest"
	"salary-backend/internal/model"
	"salary-backend/internal/report"
	"salary-backend/internal/shared/server/middleware"
	"salary-backend/internal/shared/server/respond"
)

const maxUploadSize = 10 << 20 // 10MB

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches the read-only batch routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/batches/template", h.template)
	rg.GET("/batches", h.list)
	rg.GET("/batches/:id", h.get)
	rg.GET("/batches/:id/export", h.export)
	rg.GET("/batches/:id/report", h.report)
}

// RegisterUploadRoutes attaches the upload route; callers rate limit this group.
func (h *Handler) RegisterUploadRoutes(rg *gin.RouterGroup) {
	rg.POST("/batches", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}
	useMarket := true
	if raw := strings.TrimSpace(c.PostForm("useMarketData")); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "useMarketData must be a boolean", nil)
			return
		}
		useMarket = parsed
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}

	res, err := h.Svc.Process(c.Request.Context(), Upload{
		SessionID:     sessionID,
		RequestID:     c.GetString("requestId"),
		FileName:      fileHeader.Filename,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Data:          data,
		UseMarketData: useMarket,
	})
	if err != nil {
		writeProcessError(c, err)
		return
	}

	c.Set("runId", res.Run.ID)
	c.Set("rowCount", res.Run.RecordCount)
	respond.JSON(c, http.StatusCreated, toProcessResponse(res))
}

func writeProcessError(c *gin.Context, err error) {
	var missing *MissingColumnsError
	var depErr *ingest.DependencyError
	var unavailable *model.UnavailableError
	switch {
	case errors.As(err, &missing):
		respond.Error(c, http.StatusUnprocessableEntity, "missing_columns", err.Error(), gin.H{
			"missing":     missing.Missing,
			"required":    RequiredColumns,
			"templateUrl": TemplateURL,
		})
	case errors.As(err, &depErr):
		respond.Error(c, http.StatusFailedDependency, "dependency_missing", depErr.Error(), gin.H{
			"dependency":  depErr.Dependency,
			"remediation": depErr.Remediation,
		})
	case errors.Is(err, ingest.ErrDependencyMissing):
		respond.Error(c, http.StatusFailedDependency, "dependency_missing", err.Error(), nil)
	case errors.Is(err, ingest.ErrNoTables):
		respond.Error(c, http.StatusUnprocessableEntity, "no_tables", "no tables found in document", nil)
	case errors.Is(err, ingest.ErrMalformedDocument):
		respond.Error(c, http.StatusBadRequest, "malformed_document", err.Error(), nil)
	case errors.Is(err, ingest.ErrUnsupportedType):
		respond.Error(c, http.StatusUnsupportedMediaType, "unsupported_type", "only CSV and PDF uploads are supported", nil)
	case errors.Is(err, ErrEmptyBatch):
		respond.Error(c, http.StatusUnprocessableEntity, "empty_batch", err.Error(), nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case errors.As(err, &unavailable), errors.Is(err, model.ErrModelUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "model_unavailable", "prediction model is not loaded", gin.H{
			"remediation": model.Remediation,
		})
	case errors.Is(err, model.ErrSchemaMismatch):
		respond.Error(c, http.StatusUnprocessableEntity, "schema_mismatch", err.Error(), nil)
	case errors.Is(err, model.ErrInference):
		respond.Error(c, http.StatusBadGateway, "inference_failed", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to process batch", nil)
	}
}

func (h *Handler) template(c *gin.Context) {
	respond.Attachment(c, report.TemplateFileName, "text/csv", Template())
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if limit < 0 {
		limit = 0
	}
	if limit > 50 {
		limit = 50
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}
	if offset < 0 {
		offset = 0
	}

	runs, err := h.Svc.List(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list batches", nil)
		}
		return
	}

	resp := make([]RunResponse, 0, len(runs))
	for _, run := range runs {
		resp = append(resp, toResponse(run))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	run, err := h.Svc.Get(c.Request.Context(), middleware.SessionIDFromContext(c), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	respond.OK(c, toResponse(run))
}

func (h *Handler) export(c *gin.Context) {
	data, run, err := h.Svc.Export(c.Request.Context(), middleware.SessionIDFromContext(c), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	respond.Attachment(c, run.ExportFileName(), "text/csv", data)
}

func (h *Handler) report(c *gin.Context) {
	data, run, err := h.Svc.Report(c.Request.Context(), middleware.SessionIDFromContext(c), c.Param("id"))
	if err != nil {
		writeLookupError(c, err)
		return
	}
	respond.Attachment(c, run.ReportFileName(), "text/plain; charset=utf-8", data)
}

func writeLookupError(c *gin.Context, err error) {
	if errors.Is(err, ErrNotFound) {
		respond.Error(c, http.StatusNotFound, "not_found", "batch not found", nil)
		return
	}
	respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch batch", nil)
}
