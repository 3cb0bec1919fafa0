package middleware

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	"universe-backend/infrastructure/config"
	pkgauth "universe-backend/pkg/auth"
	"universe-backend/pkg/common"
)

// Authenticator validates bearer tokens and rate limits callers
type Authenticator struct {
	validator      *pkgauth.JWTValidator
	ipLimiter      pkgauth.RateLimiter
	accountLimiter pkgauth.RateLimiter
	lambdaMode     bool
	logger         *zap.Logger
}

// NewAuthenticator creates the authentication middleware. In Lambda mode the
// API Gateway authorizer has already validated the token and forwards the
// principal in headers.
func NewAuthenticator(cfg *config.Config, logger *zap.Logger) (*Authenticator, error) {
	secret := cfg.JWTSecret
	if secret == "" && cfg.IsDevelopment() {
		secret = "development-secret-change-in-production"
	}

	validator, err := pkgauth.NewJWTValidator(pkgauth.JWTConfig{
		SecretKey: secret,
		Issuer:    cfg.JWTIssuer,
		Audience:  "universe-api",
	})
	if err != nil {
		return nil, err
	}

	return &Authenticator{
		validator:      validator,
		ipLimiter:      pkgauth.NewIPRateLimiter(cfg.RateLimitPerMinute * 2),
		accountLimiter: pkgauth.NewAccountRateLimiter(cfg.RateLimitPerMinute),
		lambdaMode:     cfg.IsLambda,
		logger:         logger,
	}, nil
}

// Middleware returns the chi-compatible handler wrapper
func (a *Authenticator) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if allowed, _ := a.ipLimiter.Allow(r.Context(), clientIP(r)); !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "rate limit exceeded")
				return
			}

			accountID, username, ok := a.resolvePrincipal(w, r)
			if !ok {
				return
			}

			if allowed, _ := a.accountLimiter.Allow(r.Context(), accountID); !allowed {
				common.RespondError(w, http.StatusTooManyRequests, "RATE_LIMIT", "rate limit exceeded")
				return
			}

			ctx := common.WithAccountID(r.Context(), accountID)
			ctx = common.WithUsername(ctx, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// resolvePrincipal extracts the authenticated identity, writing the error
// response itself when authentication fails
func (a *Authenticator) resolvePrincipal(w http.ResponseWriter, r *http.Request) (accountID, username string, ok bool) {
	if a.lambdaMode {
		accountID = r.Header.Get("X-Account-ID")
		username = r.Header.Get("X-Username")
		if accountID == "" {
			common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing principal from gateway")
			return "", "", false
		}
		return accountID, username, true
	}

	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing authorization header")
		return "", "", false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid authorization header format")
		return "", "", false
	}

	claims, err := a.validator.Validate(parts[1])
	if err != nil {
		a.logger.Debug("token rejected", zap.Error(err))
		common.RespondError(w, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
		return "", "", false
	}

	return claims.AccountID, claims.Username, true
}

// clientIP extracts the caller address, honoring forwarding headers
func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if idx := strings.Index(forwarded, ","); idx > 0 {
			return strings.TrimSpace(forwarded[:idx])
		}
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
