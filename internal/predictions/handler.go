package predictions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"salary-backend/internal/features"
	"salary-backend/internal/model"
	"salary-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches prediction routes.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/predictions", h.predict)
	rg.GET("/options", h.options)
}

func (h *Handler) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	est, err := h.Svc.Predict(c.Request.Context(), req.profile(), req.useMarket())
	if err != nil {
		writeError(c, err)
		return
	}
	respond.OK(c, toResponse(est))
}

func (h *Handler) options(c *gin.Context) {
	respond.OK(c, options())
}

func writeError(c *gin.Context, err error) {
	var invalid *features.ValidationError
	var mismatch *model.SchemaMismatchError
	switch {
	case errors.As(err, &invalid):
		fields := make([]gin.H, 0, len(invalid.Fields))
		for _, f := range invalid.Fields {
			fields = append(fields, gin.H{"field": f.Field, "message": f.Message})
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), gin.H{"fields": fields})
	case errors.Is(err, model.ErrModelUnavailable):
		respond.Error(c, http.StatusServiceUnavailable, "model_unavailable", "prediction model is not loaded", gin.H{
			"remediation": model.Remediation,
		})
	case errors.As(err, &mismatch):
		respond.Error(c, http.StatusUnprocessableEntity, "schema_mismatch", err.Error(), gin.H{
			"missing":    mismatch.Missing,
			"unexpected": mismatch.Unexpected,
		})
	case errors.Is(err, model.ErrInference):
		respond.Error(c, http.StatusBadGateway, "inference_failed", err.Error(), nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to predict salary", nil)
	}
}
