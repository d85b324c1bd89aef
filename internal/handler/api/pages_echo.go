package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"StockWeather/internal/domain/models"
	"StockWeather/internal/report"
	"StockWeather/internal/usecase"
	xhttp "StockWeather/pkg/http"
	"StockWeather/pkg/http/middleware"
	xlogger "StockWeather/pkg/logger"

	"github.com/labstack/echo/v4"
)

// Dashboard is what the page routes need from the usecase layer.
type Dashboard interface {
	Pages() []models.PageInfo
	Window(start, end string) (models.Window, error)
	Page(ctx context.Context, id string, w models.Window) (*models.PageResult, error)
	Detail(ctx context.Context, id, instrument string, w models.Window) (*models.DetailResult, error)
	Panel(ctx context.Context, id string, w models.Window) (*models.Panel, error)
	Snapshots(ctx context.Context, id string, limit int) ([]*models.PageSnapshot, error)
	Health(ctx context.Context) error
}

// QuoteBoard is the live quote source behind /api/live.
type QuoteBoard interface {
	Board() []models.Quote
	IsConnected() bool
}

var _ Dashboard = (*usecase.Dashboard)(nil)
var _ QuoteBoard = (*usecase.LiveQuotes)(nil)

// PagesEchoHandler serves the dashboard pages, reports, exports and the live board.
type PagesEchoHandler struct {
	logger  *xlogger.Logger
	dash    Dashboard
	live    QuoteBoard
	limiter middleware.Limiter
}

// PagesOption configures PagesEchoHandler.
type PagesOption func(*PagesEchoHandler)

// WithLiveBoard enables /api/live.
func WithLiveBoard(b QuoteBoard) PagesOption {
	return func(h *PagesEchoHandler) { h.live = b }
}

// WithRateLimiter limits /api per client.
func WithRateLimiter(l middleware.Limiter) PagesOption {
	return func(h *PagesEchoHandler) { h.limiter = l }
}

func NewPagesEchoHandler(logger *xlogger.Logger, dash Dashboard, opts ...PagesOption) *PagesEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	h := &PagesEchoHandler{logger: logger, dash: dash}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *PagesEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	g := e.Group("/api")
	if h.limiter != nil {
		g.Use(middleware.RateLimit(h.limiter))
	}
	g.GET("/pages", h.Pages)
	g.GET("/pages/:page", h.Page)
	g.GET("/pages/:page/detail", h.Detail)
	g.GET("/pages/:page/report", h.Report)
	g.GET("/pages/:page/export", h.Export)
	g.GET("/pages/:page/snapshots", h.Snapshots)
	g.GET("/live", h.Live)
}

func (h *PagesEchoHandler) Health(c echo.Context) error {
	if err := h.dash.Health(c.Request().Context()); err != nil {
		h.logger.Warn("health check failed", xlogger.Error(err))
		return xhttp.DataResponse(c, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "archive": err.Error()})
	}
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

func (h *PagesEchoHandler) Pages(c echo.Context) error {
	pages := h.dash.Pages()
	return xhttp.ListResponse(c, pages, int64(len(pages)))
}

func (h *PagesEchoHandler) Page(c echo.Context) error {
	req := &models.PageRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w, err := h.dash.Window(req.Start, req.End)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	res, err := h.dash.Page(c.Request().Context(), req.Page, w)
	if err != nil {
		return h.fail(c, "page", err)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "private, max-age=60")
	return xhttp.SuccessResponse(c, res)
}

func (h *PagesEchoHandler) Detail(c echo.Context) error {
	req := &models.DetailRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w, err := h.dash.Window(req.Start, req.End)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	res, err := h.dash.Detail(c.Request().Context(), req.Page, req.Instrument, w)
	if err != nil {
		return h.fail(c, "detail", err)
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *PagesEchoHandler) Report(c echo.Context) error {
	req := &models.ReportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w, err := h.dash.Window(req.Start, req.End)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	res, err := h.dash.Page(c.Request().Context(), req.Page, w)
	if err != nil {
		return h.fail(c, "report", err)
	}
	md := report.Markdown(res)
	if req.Format == "html" {
		page, err := report.HTML(res.Page.Title, md)
		if err != nil {
			return h.fail(c, "report", err)
		}
		return c.Blob(http.StatusOK, echo.MIMETextHTMLCharsetUTF8, page)
	}
	return c.Blob(http.StatusOK, "text/markdown; charset=UTF-8", []byte(md))
}

func (h *PagesEchoHandler) Export(c echo.Context) error {
	req := &models.ExportRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	w, err := h.dash.Window(req.Start, req.End)
	if err != nil {
		return xhttp.AppErrorResponse(c, xhttp.BadRequestError(err.Error()))
	}
	p, err := h.dash.Panel(c.Request().Context(), req.Page, w)
	if err != nil {
		return h.fail(c, "export", err)
	}

	var (
		buf  bytes.Buffer
		mime string
	)
	switch req.Format {
	case "parquet":
		mime = "application/vnd.apache.parquet"
		err = report.WriteParquet(&buf, p)
	default:
		mime = "text/csv; charset=UTF-8"
		err = report.WriteCSV(&buf, p)
	}
	if err != nil {
		return h.fail(c, "export", err)
	}
	name := fmt.Sprintf("%s_%s_%s.%s", p.Page, p.Window.Start.Format(models.DateLayout), p.Window.End.Format(models.DateLayout), req.Format)
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	return c.Blob(http.StatusOK, mime, buf.Bytes())
}

func (h *PagesEchoHandler) Snapshots(c echo.Context) error {
	req := &models.SnapshotsRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	rows, err := h.dash.Snapshots(c.Request().Context(), req.Page, req.Limit)
	if err != nil {
		return h.fail(c, "snapshots", err)
	}
	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

func (h *PagesEchoHandler) Live(c echo.Context) error {
	if h.live == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(usecase.ErrLiveDisabled.Error()))
	}
	return xhttp.SuccessResponse(c, map[string]interface{}{
		"connected": h.live.IsConnected(),
		"quotes":    h.live.Board(),
	})
}

// fail maps usecase errors onto the API error taxonomy.
func (h *PagesEchoHandler) fail(c echo.Context, op string, err error) error {
	var fe *usecase.FetchError
	switch {
	case errors.Is(err, usecase.ErrUnknownPage), errors.Is(err, usecase.ErrUnknownInstrument), errors.Is(err, usecase.ErrNoArchive):
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError(err.Error()))
	case errors.As(err, &fe):
		h.logger.Error(op+" upstream error", xlogger.String("source", fe.Source), xlogger.String("ticker", fe.Ticker), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.BadGatewayErrorf("%s provider failed for %s", fe.Source, fe.Ticker).
			WithParam("source", fe.Source).
			WithParam("ticker", fe.Ticker).
			WithError(err))
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		h.logger.Warn(op+" cancelled", xlogger.Error(err))
		return xhttp.AppErrorResponse(c, xhttp.GatewayTimeoutError("request timed out").WithError(err))
	default:
		h.logger.Error(op+" usecase error", xlogger.Error(err))
		return xhttp.InternalServerErrorResponse(c)
	}
}
