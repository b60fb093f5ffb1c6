package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	jobsKey     = "jobs:scheduled"
	payloadsKey = "jobs:payloads"
)

// Lua script for atomic job claim. Removes the job only if it is still due,
// so a job replaced with a later fire-at time after the range read is left
// alone, and only one worker ever receives a given instance.
var claimJobScript = redis.NewScript(`
	local score = redis.call("zscore", KEYS[1], ARGV[1])
	if not score or tonumber(score) > tonumber(ARGV[2]) then
		return false
	end
	redis.call("zrem", KEYS[1], ARGV[1])
	local payload = redis.call("hget", KEYS[2], ARGV[1])
	redis.call("hdel", KEYS[2], ARGV[1])
	return payload
`)

// RedisDispatcher implements Dispatcher on top of a Redis sorted set. The
// member is the job name and the score is the fire-at unix timestamp, so
// ZADD on an existing name atomically replaces the prior instance. Payloads
// live in a companion hash keyed by name.
type RedisDispatcher struct {
	client *redis.Client
}

// NewRedisDispatcher creates a new RedisDispatcher.
func NewRedisDispatcher(client *redis.Client) *RedisDispatcher {
	return &RedisDispatcher{client: client}
}

var _ Dispatcher = (*RedisDispatcher)(nil)

// Enqueue schedules or replaces the named job.
func (d *RedisDispatcher) Enqueue(ctx context.Context, job Job, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job payload: %w", err)
	}

	fireAt := time.Now().Add(delay)
	pipe := d.client.TxPipeline()
	pipe.ZAdd(ctx, jobsKey, redis.Z{
		Score:  float64(fireAt.UnixMilli()),
		Member: job.Name,
	})
	pipe.HSet(ctx, payloadsKey, job.Name, payload)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("enqueue job %q: %w", job.Name, err)
	}
	return nil
}

// Cancel removes the named job. Idempotent.
func (d *RedisDispatcher) Cancel(ctx context.Context, name string) error {
	pipe := d.client.TxPipeline()
	pipe.ZRem(ctx, jobsKey, name)
	pipe.HDel(ctx, payloadsKey, name)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cancel job %q: %w", name, err)
	}
	return nil
}

// Due claims up to limit jobs whose fire-at time has passed.
func (d *RedisDispatcher) Due(ctx context.Context, now time.Time, limit int64) ([]Job, error) {
	names, err := d.client.ZRangeByScore(ctx, jobsKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", now.UnixMilli()),
		Count: limit,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("range due jobs: %w", err)
	}

	var jobs []Job
	for _, name := range names {
		result, err := claimJobScript.Run(ctx, d.client,
			[]string{jobsKey, payloadsKey},
			name, now.UnixMilli(),
		).Result()
		if err == redis.Nil {
			// Claimed by another worker or replaced with a later fire-at.
			continue
		}
		if err != nil {
			return jobs, fmt.Errorf("claim job %q: %w", name, err)
		}

		raw, ok := result.(string)
		if !ok {
			continue
		}
		var job Job
		if err := json.Unmarshal([]byte(raw), &job); err != nil {
			return jobs, fmt.Errorf("unmarshal job payload %q: %w", name, err)
		}
		jobs = append(jobs, job)
	}
	return jobs, nil
}
