package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"smartCatalog/domain"

	"github.com/redis/go-redis/v9"
)

const activityIndexKey = "conversation:activity"

// ConversationRepository stores each transcript as a JSON value whose TTL is
// refreshed on every save; a sorted set keyed by last activity backs idle expiry.
type ConversationRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewConversationRepository(client *redis.Client, ttl time.Duration) *ConversationRepository {
	return &ConversationRepository{
		client: client,
		ttl:    ttl,
	}
}

func conversationKey(id string) string {
	return fmt.Sprintf("conversation:%s", id)
}

func (r *ConversationRepository) Create(ctx context.Context, conv domain.Conversation) error {
	raw, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}

	ok, err := r.client.SetNX(ctx, conversationKey(conv.ID), raw, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store conversation in Redis: %w", err)
	}
	if !ok {
		return fmt.Errorf("conversation %s already exists", conv.ID)
	}

	return r.touch(ctx, conv)
}

func (r *ConversationRepository) touch(ctx context.Context, conv domain.Conversation) error {
	err := r.client.ZAdd(ctx, activityIndexKey, redis.Z{
		Score:  float64(conv.LastActivity.Unix()),
		Member: conv.ID,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to index conversation activity: %w", err)
	}
	return nil
}

func (r *ConversationRepository) Get(ctx context.Context, id string) (domain.Conversation, error) {
	val, err := r.client.Get(ctx, conversationKey(id)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return domain.Conversation{}, fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
		}
		return domain.Conversation{}, fmt.Errorf("failed to get conversation from Redis: %w", err)
	}

	var conv domain.Conversation
	if err := json.Unmarshal([]byte(val), &conv); err != nil {
		return domain.Conversation{}, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return conv, nil
}

// maxUpdateAttempts bounds optimistic retries when another writer touches the
// key between WATCH and EXEC.
const maxUpdateAttempts = 5

// Update runs a WATCH/MULTI/EXEC cycle on the transcript key and retries when
// the transaction loses a race.
func (r *ConversationRepository) Update(ctx context.Context, id string, mutate func(*domain.Conversation) error) (domain.Conversation, error) {
	key := conversationKey(id)

	var out domain.Conversation
	txf := func(tx *redis.Tx) error {
		val, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
			}
			return fmt.Errorf("failed to get conversation from Redis: %w", err)
		}

		var conv domain.Conversation
		if err := json.Unmarshal(val, &conv); err != nil {
			return fmt.Errorf("failed to unmarshal conversation: %w", err)
		}
		if err := mutate(&conv); err != nil {
			return err
		}
		conv.ID = id

		raw, err := json.Marshal(conv)
		if err != nil {
			return fmt.Errorf("failed to marshal conversation: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, raw, r.ttl)
			pipe.ZAdd(ctx, activityIndexKey, redis.Z{
				Score:  float64(conv.LastActivity.Unix()),
				Member: conv.ID,
			})
			return nil
		})
		if err != nil {
			return err
		}
		out = conv
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return out, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return domain.Conversation{}, err
	}
	return domain.Conversation{}, fmt.Errorf("conversation %s: update lost %d races", id, maxUpdateAttempts)
}

func (r *ConversationRepository) Delete(ctx context.Context, id string) error {
	var del *redis.IntCmd
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, conversationKey(id))
		pipe.ZRem(ctx, activityIndexKey, id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	if del.Val() == 0 {
		return fmt.Errorf("%w: conversation %s", domain.ErrNotFound, id)
	}
	return nil
}

func (r *ConversationRepository) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	ids, err := r.client.ZRangeByScore(ctx, activityIndexKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: "(" + strconv.FormatInt(cutoff.Unix(), 10),
	}).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to scan conversation activity: %w", err)
	}
	if len(ids) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(ids))
	members := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, conversationKey(id))
		members = append(members, id)
	}

	var del *redis.IntCmd
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		del = pipe.Del(ctx, keys...)
		pipe.ZRem(ctx, activityIndexKey, members...)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to expire conversations: %w", err)
	}

	return int(del.Val()), nil
}
