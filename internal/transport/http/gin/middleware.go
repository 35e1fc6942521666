package httpgin

import (
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/kirinyoku/fringe/internal/backend"
	"github.com/kirinyoku/fringe/internal/service/admin"
)

const (
	sessionCookie     = "fringe_session"
	accessTokenCookie = "accessToken"

	ctxRequestID = "request_id"
	ctxSessionID = "session_id"
	ctxActor     = "actor"
)

// Role claim names the festival backend may issue.
var roleClaims = []string{
	"role",
	"roles",
	"http://schemas.microsoft.com/ws/2008/06/identity/claims/role",
}

func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader("X-Request-ID")
		if reqID == "" {
			reqID = uuid.New().String()
		}

		c.Writer.Header().Set("X-Request-ID", reqID)
		c.Set(ctxRequestID, reqID)

		c.Next()
	}
}

// CORS allows the booking site and admin portal origins to call the API with
// cookies.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{
			"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Accept",
			"Authorization",
			"X-Requested-With",
			"X-Request-ID",
			"Idempotency-Key",
			"If-None-Match",
		},
		ExposeHeaders: []string{
			"X-Request-ID",
			"ETag",
			"Cache-Control",
			"Retry-After",
			"Content-Disposition",
		},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(origins) == 0 {
		cfg.AllowOrigins = nil
		cfg.AllowAllOrigins = true
		cfg.AllowCredentials = false
	}

	return cors.New(cfg)
}

func LoggingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery
		c.Next()

		latency := time.Since(start)
		if raw != "" {
			path = path + "?" + raw
		}

		status := c.Writer.Status()
		reqID, _ := c.Get(ctxRequestID)

		attrs := []any{
			slog.Int("status", status),
			slog.String("method", c.Request.Method),
			slog.String("path", path),
			slog.String("ip", c.ClientIP()),
			slog.String("ua", c.Request.UserAgent()),
			slog.Any("request_id", reqID),
			slog.Duration("latency", latency),
			slog.Int("bytes_out", c.Writer.Size()),
		}
		if actor, ok := c.Get(ctxActor); ok {
			attrs = append(attrs, slog.Any("actor", actor))
		}

		switch {
		case len(c.Errors) > 0 || status >= http.StatusInternalServerError:
			logger.Error("http", slog.Group("http", attrs...), slog.String("errors", c.Errors.String()))
		default:
			logger.Info("http", slog.Group("http", attrs...))
		}
	}
}

// SessionMiddleware gives every visitor a stable session id kept in an
// HttpOnly cookie. Selections and booking drafts are stored under it.
func SessionMiddleware(ttl time.Duration, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(sessionCookie)
		if err != nil || uuid.Validate(id) != nil {
			id = uuid.New().String()
		}

		http.SetCookie(c.Writer, &http.Cookie{
			Name:     sessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(ttl.Seconds()),
			HttpOnly: true,
			Secure:   secure,
			SameSite: http.SameSiteLaxMode,
		})
		c.Set(ctxSessionID, id)

		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	return c.GetString(ctxSessionID)
}

// RequireAdmin admits requests carrying an unexpired access token with the
// admin role, read from the accessToken cookie or a Bearer header. Tokens are
// verified with HS256 when secret is set; otherwise only their claims are
// checked and the backend stays the authority. The token is forwarded on
// every backend call of the request.
func RequireAdmin(secret, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := bearerToken(c)
		if raw == "" {
			abortJSON(c, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := parseClaims(raw, secret)
		if err != nil {
			abortJSON(c, http.StatusUnauthorized, "invalid or expired token")
			return
		}

		if role != "" && !hasRole(claims, role) {
			abortJSON(c, http.StatusForbidden, "admin access required")
			return
		}

		actor := actorOf(claims)
		c.Set(ctxActor, actor)

		ctx := backend.WithToken(c.Request.Context(), raw)
		ctx = admin.WithActor(ctx, actor)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if v, err := c.Cookie(accessTokenCookie); err == nil && v != "" {
		return v
	}

	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}

	return ""
}

var errTokenExpired = errors.New("token expired")

func parseClaims(raw, secret string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}

	if secret != "" {
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil {
			return nil, err
		}
		return claims, nil
	}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, err
	}

	exp, err := claims.GetExpirationTime()
	if err != nil {
		return nil, err
	}
	if exp == nil || !exp.After(time.Now()) {
		return nil, errTokenExpired
	}

	return claims, nil
}

func hasRole(claims jwt.MapClaims, role string) bool {
	for _, name := range roleClaims {
		switch v := claims[name].(type) {
		case string:
			if strings.EqualFold(v, role) {
				return true
			}
		case []any:
			if slices.ContainsFunc(v, func(r any) bool {
				s, ok := r.(string)
				return ok && strings.EqualFold(s, role)
			}) {
				return true
			}
		}
	}
	return false
}

func actorOf(claims jwt.MapClaims) string {
	for _, name := range []string{"email", "unique_name", "name", "sub"} {
		if s, ok := claims[name].(string); ok && s != "" {
			return s
		}
	}
	return "unknown"
}

func abortJSON(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}
