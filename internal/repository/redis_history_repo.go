package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ai-assistant/internal/domain"
)

// RPUSH + LTRIM en un solo script: el append acotado es atomico en Redis.
const redisHistoryAppendScript = `
redis.call("RPUSH", KEYS[1], ARGV[1])
redis.call("LTRIM", KEYS[1], -tonumber(ARGV[2]), -1)
return redis.call("LLEN", KEYS[1])
`

type redisListClient interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
	LRange(ctx context.Context, key string, start, stop int64) *redis.StringSliceCmd
}

// RedisHistoryRepository guarda cada mensaje como un elemento de una lista de Redis.
type RedisHistoryRepository struct {
	client redisListClient
	prefix string
}

func NewRedisHistoryRepository(client *redis.Client, prefix string) *RedisHistoryRepository {
	if client == nil {
		return nil
	}
	return &RedisHistoryRepository{
		client: client,
		prefix: prefix,
	}
}

func (r *RedisHistoryRepository) key(sessionID string) string {
	return r.prefix + historyKey(sessionID)
}

func (r *RedisHistoryRepository) List(ctx context.Context, sessionID string) ([]domain.Message, error) {
	items, err := r.client.LRange(ctx, r.key(sessionID), 0, -1).Result()
	if err != nil {
		return nil, err
	}
	msgs := make([]domain.Message, 0, len(items))
	for _, item := range items {
		var msg domain.Message
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, fmt.Errorf("unmarshal history item: %w", err)
		}
		msgs = append(msgs, msg)
	}
	return msgs, nil
}

func (r *RedisHistoryRepository) Append(ctx context.Context, sessionID string, msg domain.Message, limit int) error {
	// LTRIM key 0 -1 conserva la lista completa: limit 0 significa sin tope.
	if limit < 0 {
		limit = 0
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal history item: %w", err)
	}
	return r.client.Eval(ctx, redisHistoryAppendScript, []string{r.key(sessionID)}, string(payload), limit).Err()
}
