package tracker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// DefaultCelebrationChannel is the pub/sub channel celebrations go to.
const DefaultCelebrationChannel = "applytrack:celebrations"

// Celebration reasons.
const (
	ReasonBadgeUnlocked = "badge_unlocked"
	ReasonMilestone     = "milestone"
)

// Celebration is emitted when a badge unlocks or the record count reaches a
// multiple of ten.
type Celebration struct {
	ID     string    `json:"id"`
	Reason string    `json:"reason"`
	Badges []string  `json:"badges"`
	Total  int       `json:"total"`
	At     time.Time `json:"at"`
}

// Celebrator receives fire-and-forget celebration signals. Implementations
// must not block the caller for long and report failures only by logging.
type Celebrator interface {
	Celebrate(ctx context.Context, c Celebration)
}

// LogCelebrator writes celebrations to the log.
type LogCelebrator struct {
	log *zap.Logger
}

// NewLogCelebrator returns a Celebrator that only logs.
func NewLogCelebrator(log *zap.Logger) *LogCelebrator {
	return &LogCelebrator{log: log}
}

// Celebrate implements Celebrator.
func (l *LogCelebrator) Celebrate(_ context.Context, c Celebration) {
	l.log.Info("celebration",
		zap.String("reason", c.Reason),
		zap.Strings("badges", c.Badges),
		zap.Int("total", c.Total),
	)
}

// Publisher is the subset of the go-redis client used for celebrations.
type Publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// RedisCelebrator publishes celebrations as JSON and also logs them.
type RedisCelebrator struct {
	pub     Publisher
	channel string
	log     *zap.Logger
	timeout time.Duration
}

// NewRedisCelebrator publishes to channel, or DefaultCelebrationChannel when empty.
func NewRedisCelebrator(pub Publisher, channel string, log *zap.Logger) *RedisCelebrator {
	if channel == "" {
		channel = DefaultCelebrationChannel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &RedisCelebrator{pub: pub, channel: channel, log: log, timeout: 2 * time.Second}
}

// Celebrate implements Celebrator.
func (r *RedisCelebrator) Celebrate(ctx context.Context, c Celebration) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Badges == nil {
		c.Badges = []string{}
	}
	payload, err := json.Marshal(c)
	if err != nil {
		r.log.Warn("celebration encode failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.timeout)
	defer cancel()
	if err := r.pub.Publish(ctx, r.channel, payload).Err(); err != nil {
		r.log.Warn("celebration publish failed", zap.String("channel", r.channel), zap.Error(err))
		return
	}
	r.log.Info("celebration published",
		zap.String("id", c.ID),
		zap.String("reason", c.Reason),
		zap.Strings("badges", c.Badges),
	)
}
