package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	uploadLimiterPrefix  = "upload:rl:"
	uploadLimiterTimeout = 500 * time.Millisecond
)

// UploadLimiter decide si una IP puede subir otro documento dentro de la ventana.
type UploadLimiter interface {
	Allow(ctx context.Context, clientIP string) bool
}

// normalizeClientIP devuelve "" para claves vacías, que siempre se rechazan.
func normalizeClientIP(clientIP string) string {
	return strings.ToLower(strings.TrimSpace(clientIP))
}

// MemoryUploadLimiter es una ventana deslizante por IP dentro del proceso.
// Las IPs sin uploads vigentes se descartan en barridos periódicos.
type MemoryUploadLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	limit     int
	uploads   map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

func NewMemoryUploadLimiter(window time.Duration, limit int) *MemoryUploadLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if limit <= 0 {
		limit = 1
	}
	return &MemoryUploadLimiter{
		window:  window,
		limit:   limit,
		uploads: make(map[string][]time.Time),
		now:     time.Now,
	}
}

func (l *MemoryUploadLimiter) Allow(_ context.Context, clientIP string) bool {
	ip := normalizeClientIP(clientIP)
	if ip == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	recent := pruneBefore(l.uploads[ip], cutoff)
	if len(recent) >= l.limit {
		l.uploads[ip] = recent
		return false
	}
	l.uploads[ip] = append(recent, now)
	return true
}

// Tracked devuelve cuántas IPs tienen estado en memoria.
func (l *MemoryUploadLimiter) Tracked() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.uploads)
}

func (l *MemoryUploadLimiter) sweep(cutoff time.Time) {
	for ip, stamps := range l.uploads {
		recent := pruneBefore(stamps, cutoff)
		if len(recent) == 0 {
			delete(l.uploads, ip)
			continue
		}
		l.uploads[ip] = recent
	}
}

// pruneBefore conserva los timestamps posteriores a cutoff; stamps está ordenado.
func pruneBefore(stamps []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(stamps) && !stamps[i].After(cutoff) {
		i++
	}
	if i == len(stamps) {
		return nil
	}
	return stamps[i:]
}

// slidingWindowScript mantiene un sorted set por IP con un miembro por upload
// (score = unix ms). Devuelve 1 si el upload entra en la ventana, 0 si no.
const slidingWindowScript = `
redis.call("ZREMRANGEBYSCORE", KEYS[1], "-inf", ARGV[1])
if redis.call("ZCARD", KEYS[1]) >= tonumber(ARGV[3]) then
  return 0
end
redis.call("ZADD", KEYS[1], ARGV[2], ARGV[4])
redis.call("PEXPIRE", KEYS[1], ARGV[5])
return 1
`

type scriptRunner interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisUploadLimiter comparte la ventana deslizante entre réplicas. Si Redis
// no responde el upload pasa: el límite protege ingreso, no es un control de acceso.
type RedisUploadLimiter struct {
	redis  scriptRunner
	window time.Duration
	limit  int
	logger *zap.Logger
	now    func() time.Time
}

func NewRedisUploadLimiter(client *redis.Client, window time.Duration, limit int, logger *zap.Logger) *RedisUploadLimiter {
	if client == nil {
		return nil
	}
	return newRedisUploadLimiter(client, window, limit, logger)
}

func newRedisUploadLimiter(runner scriptRunner, window time.Duration, limit int, logger *zap.Logger) *RedisUploadLimiter {
	if window <= 0 {
		window = time.Minute
	}
	if limit <= 0 {
		limit = 1
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisUploadLimiter{
		redis:  runner,
		window: window,
		limit:  limit,
		logger: logger,
		now:    time.Now,
	}
}

func (l *RedisUploadLimiter) Allow(ctx context.Context, clientIP string) bool {
	if l == nil || l.redis == nil {
		return true
	}
	ip := normalizeClientIP(clientIP)
	if ip == "" {
		return false
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, uploadLimiterTimeout)
	defer cancel()

	now := l.now().UnixMilli()
	allowed, err := l.redis.Eval(ctx, slidingWindowScript, []string{uploadLimiterPrefix + ip},
		strconv.FormatInt(now-l.window.Milliseconds(), 10),
		strconv.FormatInt(now, 10),
		l.limit,
		uuid.NewString(),
		l.window.Milliseconds(),
	).Int()
	if err != nil {
		l.logger.Warn("upload limiter unavailable, allowing upload", zap.String("client_ip", ip), zap.Error(err))
		return true
	}
	return allowed == 1
}
