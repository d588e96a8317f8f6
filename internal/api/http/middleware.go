package http

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"golden-samovar/internal/domain"
	"golden-samovar/internal/service"
	"golden-samovar/internal/xpkg/apperrors"
)

const principalKey = "principal"

// requestID tags every request for log correlation.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// authenticate resolves the bearer token into a principal and aborts with
// 401 when the credential is missing, invalid or belongs to a disabled
// account.
func (s *Server) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization required"})
			return
		}

		user, err := s.authService.ResolvePrincipal(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(statusFor(apperrors.KindOf(err)), gin.H{"error": err.Error()})
			return
		}

		c.Set(principalKey, service.Principal{UserID: user.ID, Role: user.Role})
		c.Next()
	}
}

func principalFrom(c *gin.Context) service.Principal {
	p, _ := c.Get(principalKey)
	principal, ok := p.(service.Principal)
	if !ok {
		// authenticate() always runs first on gated routes; treat a miss
		// as an anonymous client with no ownership.
		return service.Principal{Role: domain.RoleClient}
	}
	return principal
}

// ipRateLimiter throttles the anonymous auth endpoints per client address.
type ipRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
	burst    int
}

func newIPRateLimiter(limit rate.Limit, burst int) *ipRateLimiter {
	return &ipRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
		burst:    burst,
	}
}

func (l *ipRateLimiter) get(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	limiter, ok := l.limiters[ip]
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter
}

func (l *ipRateLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.get(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
