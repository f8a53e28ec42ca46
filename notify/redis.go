package notify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "booking:notifications"

// RedisQueue keeps events on a redis list so the mail worker can run in a
// separate process from the API.
type RedisQueue struct {
	rdb     *redis.Client
	key     string
	timeout time.Duration
	pop     time.Duration
}

type RedisQueueOption func(*RedisQueue)

func WithRedisKey(key string) RedisQueueOption {
	return func(q *RedisQueue) {
		if k := strings.TrimSpace(key); k != "" {
			q.key = k
		}
	}
}

// WithPublishTimeout caps how long Publish may wait on redis.
func WithPublishTimeout(d time.Duration) RedisQueueOption {
	return func(q *RedisQueue) { q.timeout = d }
}

func NewRedisQueue(rdb *redis.Client, opts ...RedisQueueOption) *RedisQueue {
	q := &RedisQueue{
		rdb:     rdb,
		key:     defaultRedisKey,
		timeout: 500 * time.Millisecond,
		pop:     5 * time.Second,
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

func (q *RedisQueue) Key() string { return q.key }

func (q *RedisQueue) Publish(ctx context.Context, ev Event) error {
	payload, err := EncodeEvent(ev)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, q.timeout)
	defer cancel()
	if err := q.rdb.LPush(ctx, q.key, payload).Err(); err != nil {
		return fmt.Errorf("lpush: %w", err)
	}
	return nil
}

func (q *RedisQueue) Next(ctx context.Context) (Event, error) {
	for {
		res, err := q.rdb.BRPop(ctx, q.pop, q.key).Result()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return Event{}, ctxErr
			}
			return Event{}, fmt.Errorf("brpop: %w", err)
		}
		// BRPOP answers [key, value].
		if len(res) != 2 {
			return Event{}, fmt.Errorf("brpop: unexpected reply length %d", len(res))
		}
		return DecodeEvent([]byte(res[1]))
	}
}

func EncodeEvent(ev Event) ([]byte, error) {
	b, err := json.Marshal(ev)
	if err != nil {
		return nil, fmt.Errorf("encode event: %w", err)
	}
	return b, nil
}

func DecodeEvent(b []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(b, &ev); err != nil {
		return Event{}, fmt.Errorf("decode event: %w", err)
	}
	if ev.ReservationID == "" {
		return Event{}, errors.New("decode event: reservation id is missing")
	}
	return ev, nil
}
