package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Edwardko2004/CS391-Project/config"
	"github.com/Edwardko2004/CS391-Project/internal/domain"
	"github.com/Edwardko2004/CS391-Project/internal/logger"
)

const (
	contextKeyCaller = "caller"
	headerRequestID  = "X-Request-ID"
)

// tokenClaims is what the identity provider puts in its access tokens: the
// profile id as subject plus the account email.
type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticate verifies an HS256 bearer token and stores the caller in the
// gin context. Requests without a valid token are rejected with 401.
func Authenticate(cfg config.AuthConfig) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(cfg.Audience))
	}
	parser := jwt.NewParser(opts...)
	secret := []byte(cfg.JWTSecret)

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		const bearerPrefix = "Bearer "
		if !strings.HasPrefix(header, bearerPrefix) || len(header) == len(bearerPrefix) {
			abortWith(c, http.StatusUnauthorized, "not_authenticated", "bearer token is required")
			return
		}

		var claims tokenClaims
		_, err := parser.ParseWithClaims(header[len(bearerPrefix):], &claims, func(*jwt.Token) (interface{}, error) {
			return secret, nil
		})
		if err != nil {
			message := "invalid access token"
			if errors.Is(err, jwt.ErrTokenExpired) {
				message = "access token has expired"
			}
			abortWith(c, http.StatusUnauthorized, "not_authenticated", message)
			return
		}
		if _, err := uuid.Parse(claims.Subject); err != nil {
			abortWith(c, http.StatusUnauthorized, "not_authenticated", "token subject is not a profile id")
			return
		}

		c.Set(contextKeyCaller, domain.Caller{ProfileID: claims.Subject, Email: claims.Email})
		c.Next()
	}
}

// callerFrom returns the authenticated caller, or the zero Caller.
func callerFrom(c *gin.Context) domain.Caller {
	if v, ok := c.Get(contextKeyCaller); ok {
		if caller, ok := v.(domain.Caller); ok {
			return caller
		}
	}
	return domain.Caller{}
}

// AccessLog attaches a request-scoped logger to the request context and logs
// one line per request.
func AccessLog(base *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := c.GetHeader(headerRequestID)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Header(headerRequestID, requestID)

		reqLog := base.With(zap.String("request_id", requestID))
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), reqLog))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}
		if caller := callerFrom(c); caller.Authenticated() {
			fields = append(fields, zap.String("profile_id", caller.ProfileID))
		}

		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			reqLog.Error("request", fields...)
		case status >= http.StatusBadRequest:
			reqLog.Warn("request", fields...)
		default:
			reqLog.Info("request", fields...)
		}
	}
}
