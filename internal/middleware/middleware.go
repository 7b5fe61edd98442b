package middleware

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"suru/internal/logger"
	"suru/internal/service"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	RequestIdKey contextKey = "request_id"
	CallerKey    contextKey = "caller"
)

// UserIDHeader - заголовок, в котором шлюз передаёт идентификатор пользователя
const UserIDHeader = "X-User-ID"

func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestId := r.Header.Get("X-Request-ID")
		if requestId == "" {
			requestId = uuid.New().String()
		}

		w.Header().Set("X-Request-ID", requestId)

		ctx := context.WithValue(r.Context(), RequestIdKey, requestId)
		r = r.WithContext(ctx)

		next.ServeHTTP(w, r)
	})
}

type loggingWriter struct {
	http.ResponseWriter
	status      int
	size        int
	wroteHeader bool
}

func (lw *loggingWriter) WriteHeader(code int) {
	if !lw.wroteHeader {
		lw.status = code
		lw.wroteHeader = true
		lw.ResponseWriter.WriteHeader(code)
	}
}

func (lw *loggingWriter) Write(b []byte) (int, error) {
	if !lw.wroteHeader {
		lw.WriteHeader(http.StatusOK)
	}

	n, err := lw.ResponseWriter.Write(b)
	lw.size += n
	return n, err
}

func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestId := GetRequestID(r.Context())

		logger.Info(
			"HTTP_IN: Начало запроса",
			zap.String("request_id", requestId),
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.String("query", r.URL.RawQuery),
			zap.String("client_ip", r.RemoteAddr),
		)

		lw := &loggingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(lw, r)

		logLevel := zap.InfoLevel
		if lw.status >= 400 && lw.status < 500 {
			logLevel = zap.WarnLevel
		} else if lw.status >= 500 {
			logLevel = zap.ErrorLevel
		}
		logger.Log(
			logLevel,
			"HTTP_OUT: Завершение запроса",
			zap.String("request_id", requestId),
			zap.Int("status", lw.status),
			zap.Int("bytes_written", lw.size),
			zap.Duration("ms", time.Since(start)),
		)
	})
}

func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIdKey).(string); ok {
		return id
	}
	return ""
}

// Caller кладёт в контекст вызывающего из заголовка X-User-ID.
// Аутентификацию делает шлюз, сюда доходит уже проверенный идентификатор.
func Caller(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := service.NewCaller(r.Header.Get(UserIDHeader))
		ctx := context.WithValue(r.Context(), CallerKey, caller)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetCaller возвращает анонимного вызывающего, если middleware не подключён
func GetCaller(ctx context.Context) service.Caller {
	if caller, ok := ctx.Value(CallerKey).(service.Caller); ok {
		return caller
	}
	return service.Caller{}
}

type clientInfo struct {
	count   int
	resetAt time.Time
}

// RateLimit - фиксированное окно в минуту на IP клиента
func RateLimit(rpm int) func(http.Handler) http.Handler {
	clients := make(map[string]*clientInfo)
	var mtx sync.Mutex
	window := time.Minute

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := getIp(r)
			now := time.Now()

			mtx.Lock()
			info, exists := clients[ip]
			switch {
			case !exists:
				info = &clientInfo{resetAt: now.Add(window)}
				clients[ip] = info
			case now.After(info.resetAt):
				info.count = 0
				info.resetAt = now.Add(window)
			}

			if info.count >= rpm {
				retryAfter := int(info.resetAt.Sub(now).Seconds())
				mtx.Unlock()

				logger.Warn("HTTP: Превышен лимит запросов",
					zap.String("client_ip", ip),
					zap.String("request_id", GetRequestID(r.Context())))

				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"error":       "RATE_LIMIT_EXCEEDED",
					"message":     "Too many requests",
					"retry_after": retryAfter,
					"request_id":  GetRequestID(r.Context()),
				})
				return
			}

			info.count++
			remaining := rpm - info.count
			resetUnix := info.resetAt.Unix()
			mtx.Unlock()

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rpm))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetUnix, 10))

			next.ServeHTTP(w, r)
		})
	}
}

func getIp(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
