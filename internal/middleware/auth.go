package middleware

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt/v4"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/pathcraft/backend/domain"
)

// SessionValidator resolves a live session by JWT ID; revoked or expired
// sessions must not resolve.
type SessionValidator interface {
	ValidateSession(ctx context.Context, sessionID string) (*domain.Session, error)
}

// JWTAuth verifies the bearer token's signature and, when a validator is
// supplied, that the session behind its jti claim is still live. A token
// outlives its session only cryptographically; logout kills it here.
func JWTAuth(secret string, sessions SessionValidator, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
				return []byte(secret), nil
			})
			if err != nil || !token.Valid {
				logger.Warn("invalid jwt token", zap.Error(err))
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			claims, ok := token.Claims.(jwt.MapClaims)
			if !ok {
				ctx.SetStatusCode(fasthttp.StatusUnauthorized)
				return
			}

			sessionID, _ := claims["jti"].(string)
			if sessions != nil {
				if sessionID == "" {
					ctx.SetStatusCode(fasthttp.StatusUnauthorized)
					return
				}
				if _, err := sessions.ValidateSession(ctx, sessionID); err != nil {
					if !domain.IsDomainError(err, domain.ErrCodeNotFound) {
						logger.Warn("session lookup failed", zap.Error(err))
					}
					ctx.SetStatusCode(fasthttp.StatusUnauthorized)
					return
				}
			}

			if userID, ok := claims["user_id"].(string); ok {
				ctx.Request.Header.Set("X-User-ID", userID)
			}
			if sessionID != "" {
				ctx.Request.Header.Set("X-Session-ID", sessionID)
			}

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
	return header
}
