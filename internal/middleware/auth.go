package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/taskforge/backend/api/transport"
	"github.com/taskforge/backend/domain"
	"github.com/taskforge/backend/pkg/httpcontext"
)

// UserIDHeader carries the resolved identity to downstream handlers. The
// middleware strips any client-supplied value before setting it.
const UserIDHeader = "X-User-ID"

// IdentityResolver maps a bearer token to a persisted, active user.
type IdentityResolver interface {
	Resolve(ctx context.Context, token string) (*domain.User, error)
}

// Authenticate rejects requests without a valid bearer token. Missing,
// malformed and expired tokens all yield 401; a resolved but inactive user
// yields 400 so clients can tell the cases apart.
func Authenticate(resolver IdentityResolver, adapter *httpcontext.Adapter, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			ctx.Request.Header.Del(UserIDHeader)

			token := extractToken(ctx)
			if token == "" {
				reject(ctx, http.StatusUnauthorized, string(domain.ErrCodeUnauthorized), "authentication required")
				return
			}

			stdCtx, cancel := adapter.Attach(ctx)
			defer cancel()

			user, err := resolver.Resolve(stdCtx, token)
			if err != nil {
				if domain.IsDomainError(err, domain.ErrCodeInactive) {
					reject(ctx, http.StatusBadRequest, string(domain.ErrCodeInactive), "inactive user")
					return
				}
				logger.Debug("token rejected", zap.Error(err))
				reject(ctx, http.StatusUnauthorized, string(domain.ErrCodeUnauthorized), "authentication required")
				return
			}

			ctx.Request.Header.Set(UserIDHeader, user.ID)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := string(ctx.Request.Header.Peek("Authorization"))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return ""
}

func reject(ctx *fasthttp.RequestCtx, status int, code, message string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(status)
	body, _ := json.Marshal(transport.NewError(code, message, status))
	ctx.SetBody(body)
}
