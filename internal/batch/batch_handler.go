package batch

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"

	batcherrors "go-leave/internal/batch/errors"
	"go-leave/internal/middleware"
	"go-leave/internal/shared/apperror"
	"go-leave/internal/shared/contextutil"
	"go-leave/internal/shared/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const DefaultMaxItems = 50

// forwarded headers carry the caller's identity into every item. Items share
// the batch's request id.
var forwarded = []string{"Authorization", "Cookie", middleware.RequestIDHeader}

var methods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodDelete: true,
}

// Handler replays each item of a batch against the API router, in order.
// Items are independent: a failed item does not undo earlier ones.
type Handler struct {
	router   http.Handler
	prefix   string
	maxItems int
	logger   *zap.Logger
}

func NewHandler(router http.Handler, prefix string, maxItems int, logger ...*zap.Logger) *Handler {
	l := zap.L().Named("batch.handler")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("batch.handler")
	}
	if maxItems <= 0 {
		maxItems = DefaultMaxItems
	}
	return &Handler{router: router, prefix: strings.TrimRight(prefix, "/"), maxItems: maxItems, logger: l}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	httpErr := apperror.ToHTTP(err)
	h.logger.Warn("batch request failed",
		zap.Int("status", httpErr.Status),
		zap.String("code", httpErr.Code),
		zap.String("message", httpErr.Message),
	)
	response.Error(c, httpErr.Status, httpErr.Code, httpErr.Message, httpErr.Details)
}

func (h *Handler) Submit(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("http batch validation failed", zap.Error(err))
		response.Error(c, http.StatusBadRequest, apperror.CodeInvalidInput, "Invalid input", err.Error())
		return
	}
	if len(req.Requests) > h.maxItems {
		h.writeError(c, batcherrors.TooManyItems(h.maxItems))
		return
	}
	for i := range req.Requests {
		if err := h.normalize(i, &req.Requests[i]); err != nil {
			h.writeError(c, err)
			return
		}
	}

	rid := contextutil.GetRequestID(c.Request.Context())
	h.logger.Info("batch submitted",
		zap.String("request_id", rid),
		zap.Int("items", len(req.Requests)),
	)

	resp := Response{Results: make([]ItemResult, len(req.Requests))}
	for i, item := range req.Requests {
		result := h.dispatch(c, i, item)
		if result.Status < http.StatusBadRequest {
			resp.Succeeded++
		} else {
			resp.Failed++
		}
		resp.Results[i] = result
	}

	h.logger.Info("batch completed",
		zap.String("request_id", rid),
		zap.Int("succeeded", resp.Succeeded),
		zap.Int("failed", resp.Failed),
	)
	response.Success(c, http.StatusOK, resp, nil)
}

func (h *Handler) normalize(i int, item *Item) error {
	item.Method = strings.ToUpper(strings.TrimSpace(item.Method))
	if !methods[item.Method] {
		return batcherrors.UnsupportedMethod(i, item.Method)
	}
	item.Path = strings.TrimSpace(item.Path)
	if !strings.HasPrefix(item.Path, "/") {
		return batcherrors.InvalidPath(i)
	}
	route, _, _ := strings.Cut(item.Path, "?")
	if route == "/batch" || strings.HasPrefix(route, "/batch/") {
		return batcherrors.ErrNestedBatch
	}
	return nil
}

func (h *Handler) dispatch(c *gin.Context, i int, item Item) ItemResult {
	result := ItemResult{Index: i, Method: item.Method, Path: item.Path}

	body := bytes.NewReader(nil)
	if len(item.Body) > 0 && item.Method != http.MethodGet {
		body = bytes.NewReader(item.Body)
	}

	sub, err := http.NewRequestWithContext(c.Request.Context(), item.Method, h.prefix+item.Path, body)
	if err != nil {
		result.Status = http.StatusBadRequest
		result.Body = errorBody(batcherrors.InvalidPath(i))
		return result
	}
	sub.Header.Set("Content-Type", "application/json")
	for _, name := range forwarded {
		if v := c.GetHeader(name); v != "" {
			sub.Header.Set(name, v)
		}
	}
	if rid := c.GetString("request_id"); rid != "" {
		sub.Header.Set(middleware.RequestIDHeader, rid)
	}
	sub.RemoteAddr = c.Request.RemoteAddr

	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, sub)

	result.Status = rec.Code
	raw := rec.Body.Bytes()
	switch {
	case len(raw) == 0:
	case json.Valid(raw):
		result.Body = append(json.RawMessage(nil), raw...)
	default:
		result.Body, _ = json.Marshal(string(raw))
	}
	return result
}

func errorBody(err error) json.RawMessage {
	httpErr := apperror.ToHTTP(err)
	b, _ := json.Marshal(response.ApiEnvelope{
		Ok:    false,
		Error: map[string]any{"code": httpErr.Code, "message": httpErr.Message},
	})
	return b
}
