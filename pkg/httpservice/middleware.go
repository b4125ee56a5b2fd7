package httpservice

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

const (
	// RequestIDKey is the gin/context key holding the request id.
	RequestIDKey = "request_id"
	// RequestIDHeader carries the request id on requests and responses.
	RequestIDHeader = "X-Request-ID"
)

// RecoveryMiddleware recovers from panics and logs the error.
func RecoveryMiddleware(logger logging.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			logging.NewField("error", recovered),
			logging.NewField("path", c.Request.URL.Path),
			logging.NewField("method", c.Request.Method),
		)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		c.Abort()
	})
}

// RequestSizeLimitMiddleware rejects request bodies over maxBytes before any
// handler work happens.
func RequestSizeLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"error": "Request body too large",
			})
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// RequestIDMiddleware adds a request ID to each request, honoring an
// incoming X-Request-ID header.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// GetRequestID retrieves the request ID from the Gin context.
func GetRequestID(c *gin.Context) string {
	if requestID, exists := c.Get(RequestIDKey); exists {
		if id, ok := requestID.(string); ok {
			return id
		}
	}
	return ""
}

// ContextLoggerMiddleware attaches a request-scoped logger to the request
// context, pre-populated with the request id.
func ContextLoggerMiddleware(baseLogger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctxLogger := baseLogger
		if requestID := GetRequestID(c); requestID != "" {
			ctxLogger = baseLogger.With(logging.NewField("request_id", requestID))
		}

		ctx := logging.WithLogger(c.Request.Context(), ctxLogger)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// RequestLoggingMiddleware logs HTTP requests with structured logging.
func RequestLoggingMiddleware(logger logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := []logging.Field{
			logging.NewField("method", c.Request.Method),
			logging.NewField("path", path),
			logging.NewField("status", c.Writer.Status()),
			logging.NewField("latency_ms", latency.Milliseconds()),
			logging.NewField("ip", c.ClientIP()),
		}
		if raw != "" {
			fields = append(fields, logging.NewField("query", raw))
		}
		if requestID := GetRequestID(c); requestID != "" {
			fields = append(fields, logging.NewField("request_id", requestID))
		}

		switch {
		case c.Writer.Status() >= 500:
			logger.Error("HTTP request", fields...)
		case c.Writer.Status() >= 400:
			logger.Warn("HTTP request", fields...)
		default:
			logger.Info("HTTP request", fields...)
		}
	}
}

// SecurityHeadersMiddleware adds security-related headers to responses.
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		c.Next()
	}
}

// CORSConfig holds configuration for CORS.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// CORSMiddleware adds CORS headers with configuration.
func CORSMiddleware(cfg CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		allowed := false

		if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
			allowed = true
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, o := range cfg.AllowedOrigins {
				if o == origin {
					allowed = true
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}

		if allowed {
			headers := "Content-Type, Content-Length, Accept-Encoding, Authorization, Origin, Cache-Control, X-Requested-With"
			if len(cfg.AllowedHeaders) > 0 {
				headers = strings.Join(cfg.AllowedHeaders, ", ")
			}
			c.Writer.Header().Set("Access-Control-Allow-Headers", headers)

			methods := "POST, OPTIONS, GET, PUT, DELETE"
			if len(cfg.AllowedMethods) > 0 {
				methods = strings.Join(cfg.AllowedMethods, ", ")
			}
			c.Writer.Header().Set("Access-Control-Allow-Methods", methods)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// RateLimitConfig holds configuration for rate limiting.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

// RateLimitMiddleware limits the number of requests per second per IP.
func RateLimitMiddleware(cfg RateLimitConfig) gin.HandlerFunc {
	type client struct {
		limiter  *rate.Limiter
		lastSeen time.Time
	}
	var (
		mu      sync.Mutex
		clients = make(map[string]*client)
	)

	// Background goroutine to clean up old clients.
	go func() {
		for {
			time.Sleep(time.Minute)
			mu.Lock()
			for ip, c := range clients {
				if time.Since(c.lastSeen) > 3*time.Minute {
					delete(clients, ip)
				}
			}
			mu.Unlock()
		}
	}()

	return func(c *gin.Context) {
		ip := c.ClientIP()
		mu.Lock()
		if _, found := clients[ip]; !found {
			clients[ip] = &client{
				limiter: rate.NewLimiter(rate.Limit(cfg.RPS), cfg.Burst),
			}
		}
		clients[ip].lastSeen = time.Now()
		allow := clients[ip].limiter.Allow()
		mu.Unlock()

		if !allow {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many requests",
			})
			return
		}
		c.Next()
	}
}
