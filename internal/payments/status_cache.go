package payments

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/snatchedbeauties/booking-platform/pkg/logging"
)

// StatusCache memoizes checkout session status in Redis so the confirmation
// page's poll loop doesn't turn into one Stripe API call per attempt per
// visitor. Terminal states never change, so they get the long TTL; pending
// gets a TTL matching the client's poll interval.
type StatusCache struct {
	client      *redis.Client
	terminalTTL time.Duration
	pendingTTL  time.Duration
	logger      *logging.Logger
}

// NewStatusCache creates a cache. A nil client disables caching (all lookups
// miss).
func NewStatusCache(client *redis.Client, terminalTTL, pendingTTL time.Duration, logger *logging.Logger) *StatusCache {
	if logger == nil {
		logger = logging.Default()
	}
	if terminalTTL <= 0 {
		terminalTTL = 24 * time.Hour
	}
	if pendingTTL <= 0 {
		pendingTTL = 2 * time.Second
	}
	return &StatusCache{
		client:      client,
		terminalTTL: terminalTTL,
		pendingTTL:  pendingTTL,
		logger:      logger,
	}
}

func statusKey(sessionID string) string {
	return "checkout:status:" + sessionID
}

// Get returns the cached status for sessionID, or nil on a miss.
func (c *StatusCache) Get(ctx context.Context, sessionID string) *SessionStatus {
	if c == nil || c.client == nil {
		return nil
	}
	raw, err := c.client.Get(ctx, statusKey(sessionID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("status cache read failed", "error", err, "session_id", sessionID)
		}
		return nil
	}
	var status SessionStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		c.logger.Warn("status cache decode failed", "error", err, "session_id", sessionID)
		return nil
	}
	return &status
}

// Put stores the status with a TTL depending on whether it is terminal.
// Cache failures are logged and swallowed; the cache is an optimization.
func (c *StatusCache) Put(ctx context.Context, status *SessionStatus) {
	if c == nil || c.client == nil || status == nil {
		return
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	ttl := c.pendingTTL
	if status.Terminal() {
		ttl = c.terminalTTL
	}
	if err := c.client.Set(ctx, statusKey(status.SessionID), raw, ttl).Err(); err != nil {
		c.logger.Warn("status cache write failed", "error", err, "session_id", status.SessionID)
	}
}
