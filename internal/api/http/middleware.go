package http

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"golang.org/x/time/rate"

	"rentshare-backend/internal/config"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
	"rentshare-backend/internal/metrics"
	"rentshare-backend/internal/security"
)

type ctxKey struct{}

// WithClaims stores the authenticated caller in ctx.
func WithClaims(ctx context.Context, claims *security.UserClaims) context.Context {
	return context.WithValue(ctx, ctxKey{}, claims)
}

// ClaimsFromContext returns the caller set by the auth middleware.
func ClaimsFromContext(ctx context.Context) (*security.UserClaims, bool) {
	claims, ok := ctx.Value(ctxKey{}).(*security.UserClaims)
	return claims, ok && claims != nil
}

func userID(r *http.Request) string {
	if claims, ok := ClaimsFromContext(r.Context()); ok {
		return claims.UserID
	}
	return ""
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil && route.GetName() != "" {
		return route.GetName()
	}
	return "unmatched"
}

// AuthMiddleware enforces the security level configured for the matched route.
type AuthMiddleware struct {
	tokenManager security.TokenManager
}

func NewAuthMiddleware(tm security.TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokenManager: tm}
}

func (a *AuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		level := config.GetSecurityLevel(routeName(r))

		// Public endpoint - skip auth
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := extractToken(r)
		if !ok {
			writeErrorCode(w, http.StatusUnauthorized, "unauthenticated", "authorization token is not provided")
			return
		}

		claims, err := a.tokenManager.ValidateToken(token)
		if err != nil {
			writeErrorCode(w, http.StatusUnauthorized, "unauthenticated", "invalid token: "+err.Error())
			return
		}

		if level == config.SecurityAdmin && !claims.HasRole(domain.RoleAdmin) {
			writeErrorCode(w, http.StatusForbidden, "forbidden", "admin role required")
			return
		}

		ctx := WithClaims(r.Context(), claims)
		ctx = logger.WithContext(ctx, logger.FromContext(ctx).With("userID", claims.UserID))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func extractToken(r *http.Request) (string, bool) {
	token := strings.TrimSpace(r.Header.Get("Authorization"))
	if token == "" {
		return "", false
	}
	// Remove Bearer prefix if present
	if len(token) > 7 && strings.ToUpper(token[0:7]) == "BEARER " {
		token = strings.TrimSpace(token[7:])
	}
	return token, token != ""
}

// RequestLogger attaches a request-scoped logger and logs each request once it completes.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		route := routeName(r)
		l := logger.Get().With("requestID", requestID, "route", route)
		r = r.WithContext(logger.WithContext(r.Context(), l))

		m := httpsnoop.CaptureMetrics(next, w, r)
		metrics.ObserveHTTPRequest(route, m.Code, m.Duration)
		l.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", m.Code,
			"duration_ms", m.Duration.Milliseconds(),
		)
	})
}

// Recoverer turns handler panics into 500 responses.
func Recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.FromContext(r.Context()).Error("Handler panicked", "route", routeName(r), "panic", rec)
				writeErrorCode(w, http.StatusInternalServerError, "internal", "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// UserRateLimiter hands each user a token bucket.
type UserRateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*userLimiter
	limit     rate.Limit
	burst     int
	idleAfter time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type userLimiter struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// minIdle is the shortest time a user's limiter is kept after their last event.
const minIdle = 10 * time.Minute

// NewUserRateLimiter allows perMinute events per user with the given burst.
// A non-positive perMinute disables limiting.
func NewUserRateLimiter(perMinute, burst int) *UserRateLimiter {
	if perMinute <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	limit := rate.Limit(float64(perMinute) / 60)
	// a limiter idle for longer than its refill time is full again, so dropping it is invisible
	idle := time.Duration(float64(burst) / float64(limit) * float64(time.Second))
	if idle < minIdle {
		idle = minIdle
	}
	return &UserRateLimiter{
		limiters:  make(map[string]*userLimiter),
		limit:     limit,
		burst:     burst,
		idleAfter: idle,
		now:       time.Now,
	}
}

func (l *UserRateLimiter) Allow(userID string) bool {
	if l == nil {
		return true
	}
	now := l.now()
	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.idleAfter {
		l.sweep(now)
	}
	ul, ok := l.limiters[userID]
	if !ok {
		ul = &userLimiter{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[userID] = ul
	}
	ul.lastSeen = now
	l.mu.Unlock()
	return ul.lim.AllowN(now, 1)
}

// sweep drops limiters idle for idleAfter. Callers hold mu.
func (l *UserRateLimiter) sweep(now time.Time) {
	for id, ul := range l.limiters {
		if now.Sub(ul.lastSeen) >= l.idleAfter {
			delete(l.limiters, id)
		}
	}
	l.lastSweep = now
}

// Limit wraps h so callers over their budget get 429.
func (l *UserRateLimiter) Limit(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !l.Allow(userID(r)) {
			w.Header().Set("Retry-After", "60")
			writeErrorCode(w, http.StatusTooManyRequests, "rate_limited", "too many requests, slow down")
			return
		}
		h(w, r)
	}
}
