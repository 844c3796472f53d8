package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NotificationDeduper tracks gateway notifications that have already been
// delivered so retries do not hit the settlement path twice.
type NotificationDeduper interface {
	// Seen marks key as delivered and reports whether it was already marked.
	Seen(ctx context.Context, key string) bool
	Close() error
}

type redisDeduper struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func (d *redisDeduper) Seen(ctx context.Context, key string) bool {
	set, err := d.client.SetNX(ctx, "ipn:"+key, 1, d.ttl).Result()
	if err != nil {
		// On redis failure let the notification through; settlement is
		// idempotent so a duplicate apply is harmless.
		d.logger.Warn("dedup check failed", zap.Error(err))
		return false
	}
	return !set
}

func (d *redisDeduper) Close() error { return d.client.Close() }

type memoryDeduper struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
}

func (d *memoryDeduper) Seen(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := time.Now()
	for k, at := range d.seen {
		if now.Sub(at) > d.ttl {
			delete(d.seen, k)
		}
	}
	if _, ok := d.seen[key]; ok {
		return true
	}
	d.seen[key] = now
	return false
}

func (d *memoryDeduper) Close() error { return nil }

// NewNotificationDeduper returns a redis-backed deduper, falling back to an
// in-process map when redis is unreachable.
func NewNotificationDeduper(addr, password string, db int, ttl time.Duration, logger *zap.Logger) NotificationDeduper {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory notification dedup", zap.Error(err))
		_ = client.Close()
		return &memoryDeduper{seen: make(map[string]time.Time), ttl: ttl}
	}

	logger.Info("notification dedup backed by redis", zap.String("addr", addr))
	return &redisDeduper{client: client, ttl: ttl, logger: logger}
}

// DedupNotifications short-circuits repeated gateway callbacks. The key
// covers the received signature, not just txn ref and pay date: genuine
// redeliveries carry the identical signature and collapse onto one key,
// while a forged request with a stolen ref/date pair lands on its own key
// and cannot pre-mark the genuine delivery as seen.
func DedupNotifications(deduper NotificationDeduper, logger *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			txnRef := c.QueryParam("vnp_TxnRef")
			if txnRef == "" {
				return next(c)
			}
			key := txnRef + ":" + c.QueryParam("vnp_PayDate") + ":" +
				strings.ToLower(c.QueryParam("vnp_SecureHash"))
			if deduper.Seen(c.Request().Context(), key) {
				logger.Info("duplicate gateway notification ignored",
					zap.String("txn_ref", txnRef))
				return c.JSON(http.StatusOK, map[string]string{
					"RspCode": "02",
					"Message": "Order already confirmed",
				})
			}
			return next(c)
		}
	}
}
