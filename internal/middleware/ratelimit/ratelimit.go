package ratelimit

import (
	"container/list"
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/portfolio-assistant/backend/internal/metrics"
)

// TooManyRequests is the error body sent to limited clients.
const TooManyRequests = "Too many requests. Please try again later."

// Store decides whether a client may make another request.
type Store interface {
	Allow(key string) bool
}

type Config struct {
	MaxRequests    int
	WindowDuration time.Duration
	// MaxClients bounds the number of tracked keys; the least recently seen
	// key is evicted when full.
	MaxClients int
	Now        func() time.Time
}

type client struct {
	key  string
	hits []time.Time
}

// WindowStore is a sliding-window request counter per client key.
type WindowStore struct {
	mu       sync.Mutex
	limit    int
	window   time.Duration
	capacity int
	now      func() time.Time
	clients  map[string]*list.Element
	order    *list.List
}

func NewWindowStore(cfg Config) *WindowStore {
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = 10
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = time.Minute
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = 10000
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &WindowStore{
		limit:    cfg.MaxRequests,
		window:   cfg.WindowDuration,
		capacity: cfg.MaxClients,
		now:      cfg.Now,
		clients:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Allow records a request for key unless it already made MaxRequests
// requests within the window. Rejected requests are not recorded.
func (s *WindowStore) Allow(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	windowStart := now.Add(-s.window)

	elem, ok := s.clients[key]
	if !ok {
		if s.order.Len() >= s.capacity {
			s.evictOldest()
		}
		key = strings.Clone(key)
		elem = s.order.PushFront(&client{key: key})
		s.clients[key] = elem
	} else {
		s.order.MoveToFront(elem)
	}

	c := elem.Value.(*client)
	c.hits = recent(c.hits, windowStart)

	if len(c.hits) >= s.limit {
		return false
	}

	c.hits = append(c.hits, now)
	return true
}

// Sweep forgets clients with no request inside the window.
func (s *WindowStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	windowStart := s.now().Add(-s.window)
	removed := 0
	for elem := s.order.Back(); elem != nil; {
		prev := elem.Prev()
		c := elem.Value.(*client)
		c.hits = recent(c.hits, windowStart)
		if len(c.hits) == 0 {
			s.order.Remove(elem)
			delete(s.clients, c.key)
			removed++
		}
		elem = prev
	}
	return removed
}

// RunSweeper calls Sweep every interval until ctx is done.
func (s *WindowStore) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Len is the number of tracked clients.
func (s *WindowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *WindowStore) evictOldest() {
	oldest := s.order.Back()
	if oldest == nil {
		return
	}
	s.order.Remove(oldest)
	delete(s.clients, oldest.Value.(*client).key)
}

// recent drops timestamps at or before windowStart. hits is ordered.
func recent(hits []time.Time, windowStart time.Time) []time.Time {
	i := 0
	for i < len(hits) && !hits[i].After(windowStart) {
		i++
	}
	return hits[i:]
}

// ClientKey identifies the caller by the first X-Forwarded-For entry, then
// the peer address. The result is a copy and outlives the request.
func ClientKey(c *fiber.Ctx) string {
	if forwarded := c.Get(fiber.HeaderXForwardedFor); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		if first = strings.TrimSpace(first); first != "" {
			return utils.CopyString(first)
		}
	}
	if ip := c.IP(); ip != "" {
		return utils.CopyString(ip)
	}
	return "unknown"
}

func Middleware(store Store, logger *zap.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := ClientKey(c)

		if !store.Allow(key) {
			metrics.RateLimited.Inc()
			logger.Warn("Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", c.Path()),
			)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": TooManyRequests,
			})
		}

		return c.Next()
	}
}
