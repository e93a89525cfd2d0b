package http

import (
	"context"
	stdliberrors "errors"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Hamaduzi123/ip/internal/application/pipeline"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/logging"
	"github.com/Hamaduzi123/ip/internal/infrastructure/monitoring/prometheus"
	"github.com/Hamaduzi123/ip/internal/infrastructure/statestore"
	"github.com/Hamaduzi123/ip/pkg/errors"
)

const defaultHistoryLimit = 20

// PipelineService is the slice of the application service the HTTP layer
// uses.
type PipelineService interface {
	Run(ctx context.Context, input pipeline.RunInput) (*pipeline.RunResult, error)
	Summary(ctx context.Context) (*pipeline.DatasetSummary, error)
	Export(ctx context.Context, path string) (int, error)
	History(ctx context.Context, limit int) []statestore.Run
}

// RouterConfig aggregates the dependencies of the route tree.
type RouterConfig struct {
	Pipeline PipelineService
	Metrics  *prometheus.Metrics
	Logger   logging.Logger
	Mode     string // gin mode: "debug" | "release" | "test"
}

// NewRouter builds the gin engine with all routes and middleware wired.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(metricsMiddleware(cfg.Metrics))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	h := &handler{pipeline: cfg.Pipeline, logger: cfg.Logger}
	api := r.Group("/api/v1")
	{
		api.POST("/pipeline/run", h.runPipeline)
		api.GET("/dataset/summary", h.datasetSummary)
		api.GET("/dataset/export", h.exportDataset)
		api.GET("/runs", h.listRuns)
	}
	return r
}

type handler struct {
	pipeline PipelineService
	logger   logging.Logger
}

func (h *handler) runPipeline(c *gin.Context) {
	var input pipeline.RunInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.writeError(c, errors.Wrap(err, errors.ErrCodeBadRequest, "invalid run request"))
		return
	}

	result, err := h.pipeline.Run(c.Request.Context(), input)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *handler) datasetSummary(c *gin.Context) {
	summary, err := h.pipeline.Summary(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

// exportDataset writes the dataset (without internal columns) to a scratch
// file and serves it as an attachment.
func (h *handler) exportDataset(c *gin.Context) {
	dir, err := os.MkdirTemp("", "patent-export-*")
	if err != nil {
		h.writeError(c, errors.Wrap(err, errors.ErrCodeInternal, "create export scratch dir"))
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "patents_export.xlsx")
	if _, err := h.pipeline.Export(c.Request.Context(), path); err != nil {
		h.writeError(c, err)
		return
	}
	c.FileAttachment(path, "patents_export.xlsx")
}

func (h *handler) listRuns(c *gin.Context) {
	limit := defaultHistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.writeError(c, errors.Newf(errors.ErrCodeBadRequest, "invalid limit %q", v))
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, gin.H{"runs": h.pipeline.History(c.Request.Context(), limit)})
}

// errorResponse is the standard error body.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps AppError codes onto HTTP statuses; anything else is masked
// as an internal error. Client faults log at warn, everything else at error.
func (h *handler) writeError(c *gin.Context, err error) {
	if errors.IsValidation(err) {
		h.logger.Warn("request rejected", logging.Err(err))
	} else {
		h.logger.Error("request failed", logging.Err(err))
	}

	var appErr *errors.AppError
	if stdliberrors.As(err, &appErr) {
		c.JSON(appErr.Code.HTTPStatus(), errorResponse{
			Code:    appErr.Code.String(),
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, errorResponse{
		Code:    errors.ErrCodeInternal.String(),
		Message: "internal server error",
	})
}

// requestLogger logs one line per request after it completes.
func requestLogger(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("http request",
			logging.String("method", c.Request.Method),
			logging.String("path", c.FullPath()),
			logging.Int("status", c.Writer.Status()),
			logging.Duration("elapsed", time.Since(start)))
	}
}

// metricsMiddleware records per-route request counters and latencies.
func metricsMiddleware(m *prometheus.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		m.ObserveHTTPRequest(c.Request.Method, path, c.Writer.Status(), time.Since(start))
	}
}
