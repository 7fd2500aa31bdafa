package api

import (
	"errors"
	"net/http"

	models "FutScan/internal/domain/models"
	domrepo "FutScan/internal/domain/repository"
	"FutScan/internal/repository"
	"FutScan/internal/usecase"
	xhttp "FutScan/pkg/http"
	xlogger "FutScan/pkg/logger"

	"github.com/labstack/echo/v4"
)

// OpportunitiesEchoHandler exposes scan results and on-demand scans.
type OpportunitiesEchoHandler struct {
	logger *xlogger.Logger
	scan   *usecase.ScanUseCase
	notify *usecase.NotifyUseCase
	store  domrepo.SummaryStore
}

func NewOpportunitiesEchoHandler(
	logger *xlogger.Logger,
	scan *usecase.ScanUseCase,
	notify *usecase.NotifyUseCase,
	store domrepo.SummaryStore,
) *OpportunitiesEchoHandler {
	return &OpportunitiesEchoHandler{logger: logger, scan: scan, notify: notify, store: store}
}

func (h *OpportunitiesEchoHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/summary", h.Summary)
	g.GET("/opportunities", h.Opportunities)
	g.POST("/scan", h.Scan)
	e.GET("/healthz", h.Health)
}

// Summary returns the most recent scan summary from the cache.
func (h *OpportunitiesEchoHandler) Summary(c echo.Context) error {
	summary, err := h.store.Latest(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrNoSummary) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no scan has completed yet"))
		}
		h.logger.Error("summary lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=30")
	return xhttp.SuccessResponse(c, summary)
}

// Opportunities returns ranked opportunities from the latest summary,
// filtered by direction and score.
func (h *OpportunitiesEchoHandler) Opportunities(c echo.Context) error {
	req := &models.OpportunitiesRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	summary, err := h.store.Latest(c.Request().Context())
	if err != nil {
		if errors.Is(err, repository.ErrNoSummary) {
			return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no scan has completed yet"))
		}
		h.logger.Error("summary lookup error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, err)
	}

	var rows []models.ScoredOpportunity
	if req.Direction == "all" || req.Direction == string(models.Long) {
		rows = append(rows, summary.Long...)
	}
	if req.Direction == "all" || req.Direction == string(models.Short) {
		rows = append(rows, summary.Short...)
	}

	filtered := rows[:0]
	for _, o := range rows {
		if o.Score >= req.MinScore {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) > req.Limit {
		filtered = filtered[:req.Limit]
	}

	return xhttp.ListResponse(c, filtered, int64(len(filtered)))
}

// Scan triggers a synchronous scan. Intended for manual checks; the
// scheduler drives the periodic runs.
func (h *OpportunitiesEchoHandler) Scan(c echo.Context) error {
	req := &models.ScanRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	timeframes := make([]domrepo.Timeframe, 0, len(req.Timeframes))
	for _, tf := range req.Timeframes {
		timeframes = append(timeframes, domrepo.NormalizeTimeframe(tf))
	}

	ctx := c.Request().Context()
	summary, alerts, err := h.scan.Run(ctx, timeframes)
	if err != nil {
		h.logger.Error("scan usecase error", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.InternalErrorf("scan failed: %v", err))
	}

	if req.Notify {
		if err := h.notify.Deliver(ctx, summary, alerts); err != nil {
			h.logger.Error("notify usecase error", xlogger.Error(err))
		}
	}

	return xhttp.SuccessResponse(c, summary)
}

// Health is a liveness probe.
func (h *OpportunitiesEchoHandler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
