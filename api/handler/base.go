package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/internal/middleware"
	"github.com/taskforge/backend/pkg/httpcontext"
)

type baseHandler struct {
	adapter *httpcontext.Adapter
	logger  *zap.Logger
}

func newBaseHandler(adapter *httpcontext.Adapter, logger *zap.Logger) baseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return baseHandler{adapter: adapter, logger: logger}
}

func (h baseHandler) requestContext(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	if h.adapter != nil {
		return h.adapter.Attach(ctx)
	}
	return context.WithCancel(context.Background())
}

func (h baseHandler) respondJSON(ctx *fasthttp.RequestCtx, status int, payload transport.Envelope) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(payload)
	ctx.SetBody(body)
}

func (h baseHandler) respondSuccess(ctx *fasthttp.RequestCtx, status int, data interface{}) {
	h.respondJSON(ctx, status, transport.NewSuccess(data, nil))
}

func (h baseHandler) respondError(ctx *fasthttp.RequestCtx, err error) {
	status, code := mapError(err)
	message := err.Error()
	if status >= http.StatusInternalServerError {
		// Internal detail never reaches the client; the error id links the
		// response to the log line.
		message = "internal server error"
	}
	env := transport.NewError(code, message, status)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("error_id", env.Error.ID),
			zap.Error(err),
		)
	}
	h.respondJSON(ctx, status, env)
}

func (h baseHandler) respondInvalid(ctx *fasthttp.RequestCtx, message string) {
	h.respondJSON(ctx, http.StatusBadRequest,
		transport.NewError(string(domain.ErrCodeInvalid), message, http.StatusBadRequest))
}

// userID returns the identity injected by the auth middleware, writing a
// 401 if it is absent.
func (h baseHandler) userID(ctx *fasthttp.RequestCtx) string {
	userID := string(ctx.Request.Header.Peek(middleware.UserIDHeader))
	if userID == "" {
		h.respondJSON(ctx, http.StatusUnauthorized,
			transport.NewError(string(domain.ErrCodeUnauthorized), "authentication required", http.StatusUnauthorized))
	}
	return userID
}

func mapError(err error) (int, string) {
	switch {
	case domain.IsDomainError(err, domain.ErrCodeUnauthorized):
		return http.StatusUnauthorized, string(domain.ErrCodeUnauthorized)
	case domain.IsDomainError(err, domain.ErrCodeInactive):
		return http.StatusBadRequest, string(domain.ErrCodeInactive)
	case domain.IsDomainError(err, domain.ErrCodeForbidden):
		return http.StatusForbidden, string(domain.ErrCodeForbidden)
	case domain.IsDomainError(err, domain.ErrCodeNotFound):
		return http.StatusNotFound, string(domain.ErrCodeNotFound)
	case domain.IsDomainError(err, domain.ErrCodeConflict):
		return http.StatusConflict, string(domain.ErrCodeConflict)
	case domain.IsDomainError(err, domain.ErrCodeInvalid):
		return http.StatusUnprocessableEntity, string(domain.ErrCodeInvalid)
	default:
		return http.StatusInternalServerError, string(domain.ErrCodeInternal)
	}
}
