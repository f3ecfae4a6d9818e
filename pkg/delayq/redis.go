package delayq

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisQueue keeps tasks in a sorted set scored by fire time in unix millis.
// Claiming is a ZRem race: whichever poller removes the member owns the task.
type RedisQueue struct {
	rdb *redis.Client
	key string
}

func NewRedisQueue(rdb *redis.Client, key string) *RedisQueue {
	return &RedisQueue{rdb: rdb, key: key}
}

func (q *RedisQueue) Enqueue(ctx context.Context, t Task) error {
	member, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return q.rdb.ZAdd(ctx, q.key, redis.Z{
		Score:  float64(t.FireAt.UnixMilli()),
		Member: member,
	}).Err()
}

func (q *RedisQueue) Due(ctx context.Context, now time.Time, limit int) ([]Task, error) {
	members, err := q.rdb.ZRangeByScore(ctx, q.key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: int64(limit),
	}).Result()
	if err != nil {
		return nil, err
	}

	var tasks []Task
	for _, m := range members {
		removed, err := q.rdb.ZRem(ctx, q.key, m).Result()
		if err != nil {
			return tasks, err
		}
		if removed == 0 {
			// Another poller claimed it first.
			continue
		}
		var t Task
		if err := json.Unmarshal([]byte(m), &t); err != nil {
			return tasks, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (q *RedisQueue) Requeue(ctx context.Context, t Task, delay time.Duration) error {
	t.Attempts++
	t.FireAt = time.Now().UTC().Add(delay)
	return q.Enqueue(ctx, t)
}
