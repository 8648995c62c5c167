package queue

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type MessageHandler interface {
	Handle(ctx context.Context, msg redis.XMessage) error
}

type ConsumerOptions struct {
	Stream        string
	Group         string
	Consumer      string
	ClaimInterval time.Duration
	BatchSize     int64
	Block         time.Duration
	// MaxAttempts bounds deliveries of one entry, the first read included.
	MaxAttempts int64
	// MaxAge drops pending entries enqueued longer ago than this. Zero keeps them.
	MaxAge time.Duration
	// DeadLetter receives dropped entries. Empty means they are only acked.
	DeadLetter string
}

type Consumer struct {
	client  *redis.Client
	opts    ConsumerOptions
	logger  zerolog.Logger
	handler MessageHandler
	now     func() time.Time

	// pendingCursor is where the next ClaimStalled scan of the PEL starts.
	pendingCursor string
}

func NewConsumer(client *redis.Client, opts ConsumerOptions, logger zerolog.Logger, handler MessageHandler) *Consumer {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 10
	}
	if opts.Block <= 0 {
		opts.Block = 5 * time.Second
	}
	if opts.ClaimInterval <= 0 {
		opts.ClaimInterval = 30 * time.Second
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	return &Consumer{
		client:        client,
		opts:          opts,
		logger:        logger,
		handler:       handler,
		now:           time.Now,
		pendingCursor: "-",
	}
}

// EnsureGroup creates the consumer group (and the stream) when missing.
func (c *Consumer) EnsureGroup(ctx context.Context) error {
	err := c.client.XGroupCreateMkStream(ctx, c.opts.Stream, c.opts.Group, "0").Err()
	if err != nil && !strings.HasPrefix(err.Error(), "BUSYGROUP") {
		return fmt.Errorf("create group %s: %w", c.opts.Group, err)
	}
	return nil
}

func (c *Consumer) Start(ctx context.Context) error {
	if err := c.EnsureGroup(ctx); err != nil {
		return err
	}

	ticker := time.NewTicker(c.opts.ClaimInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.Poll(ctx); err != nil && !errors.Is(err, context.Canceled) {
				c.logger.Error().Err(err).Msg("stream read error")
				sleep(ctx, 2*time.Second)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := c.ClaimStalled(ctx); err != nil {
				c.logger.Error().Err(err).Msg("claim stalled failed")
			}
		default:
		}
	}
}

// Poll reads one batch of new entries, handles them and acks the successes.
func (c *Consumer) Poll(ctx context.Context) error {
	result, err := c.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    c.opts.Group,
		Consumer: c.opts.Consumer,
		Streams:  []string{c.opts.Stream, ">"},
		Count:    c.opts.BatchSize,
		Block:    c.opts.Block,
	}).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil
		}
		return err
	}

	for _, stream := range result {
		for _, msg := range stream.Messages {
			c.process(ctx, msg)
		}
	}
	return nil
}

// ClaimStalled takes over entries left pending for longer than the claim
// interval. Entries past MaxAttempts or MaxAge are dead-lettered instead. Each
// call scans one page of the pending list and the next call resumes after it,
// so failing entries at the head cannot hide the ones behind them.
func (c *Consumer) ClaimStalled(ctx context.Context) error {
	pending, err := c.client.XPendingExt(ctx, &redis.XPendingExtArgs{
		Stream: c.opts.Stream,
		Group:  c.opts.Group,
		Start:  c.pendingCursor,
		End:    "+",
		Count:  c.opts.BatchSize,
	}).Result()
	if err != nil {
		return err
	}

	if int64(len(pending)) < c.opts.BatchSize {
		c.pendingCursor = "-"
	} else {
		c.pendingCursor = nextStreamID(pending[len(pending)-1].ID)
	}

	for _, entry := range pending {
		if entry.Idle < c.opts.ClaimInterval {
			continue
		}
		if c.exhausted(entry) {
			if err := c.deadLetter(ctx, entry); err != nil {
				c.logger.Error().Err(err).Str("message_id", entry.ID).Msg("dead-letter failed")
			}
			continue
		}
		msgs, err := c.client.XClaim(ctx, &redis.XClaimArgs{
			Stream:   c.opts.Stream,
			Group:    c.opts.Group,
			Consumer: c.opts.Consumer,
			MinIdle:  c.opts.ClaimInterval,
			Messages: []string{entry.ID},
		}).Result()
		if err != nil {
			c.logger.Error().Err(err).Str("message_id", entry.ID).Msg("claim error")
			continue
		}
		for _, msg := range msgs {
			c.process(ctx, msg)
		}
	}
	return nil
}

func (c *Consumer) exhausted(entry redis.XPendingExt) bool {
	if entry.RetryCount >= c.opts.MaxAttempts {
		return true
	}
	if c.opts.MaxAge <= 0 {
		return false
	}
	enqueued, ok := streamIDTime(entry.ID)
	return ok && c.now().Sub(enqueued) > c.opts.MaxAge
}

// deadLetter copies the entry to the dead-letter stream, when configured, and
// acks it so it leaves the pending list.
func (c *Consumer) deadLetter(ctx context.Context, entry redis.XPendingExt) error {
	if c.opts.DeadLetter != "" {
		msgs, err := c.client.XRangeN(ctx, c.opts.Stream, entry.ID, entry.ID, 1).Result()
		if err != nil {
			return fmt.Errorf("load %s: %w", entry.ID, err)
		}
		values := map[string]any{
			"source_id": entry.ID,
			"attempts":  entry.RetryCount,
		}
		if len(msgs) > 0 {
			for k, v := range msgs[0].Values {
				values[k] = v
			}
		}
		if err := c.client.XAdd(ctx, &redis.XAddArgs{Stream: c.opts.DeadLetter, Values: values}).Err(); err != nil {
			return fmt.Errorf("xadd dead letter: %w", err)
		}
	}

	if err := c.client.XAck(ctx, c.opts.Stream, c.opts.Group, entry.ID).Err(); err != nil {
		return fmt.Errorf("ack %s: %w", entry.ID, err)
	}
	c.logger.Warn().
		Str("message_id", entry.ID).
		Int64("attempts", entry.RetryCount).
		Msg("task dropped after repeated failures")
	return nil
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
	if err := c.handler.Handle(ctx, msg); err != nil {
		c.logger.Error().
			Err(err).
			Str("message_id", msg.ID).
			Msg("handle message failed")
		return
	}
	if err := c.client.XAck(ctx, c.opts.Stream, c.opts.Group, msg.ID).Err(); err != nil {
		c.logger.Error().Err(err).Str("message_id", msg.ID).Msg("ack failed")
	}
}

func sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// nextStreamID returns the smallest id greater than id.
func nextStreamID(id string) string {
	ms, seq, ok := strings.Cut(id, "-")
	if !ok {
		return id
	}
	n, err := strconv.ParseUint(seq, 10, 64)
	if err != nil {
		return id
	}
	return ms + "-" + strconv.FormatUint(n+1, 10)
}

// streamIDTime reads the enqueue time from an auto-generated entry id.
func streamIDTime(id string) (time.Time, bool) {
	ms, _, _ := strings.Cut(id, "-")
	n, err := strconv.ParseInt(ms, 10, 64)
	if err != nil {
		return time.Time{}, false
	}
	return time.UnixMilli(n), true
}
