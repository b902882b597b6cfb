package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RevokedToken is written by the auth service when a session is revoked before its expiry.
type RevokedToken struct {
	TokenID   string    `json:"token_id"`
	UserID    string    `json:"user_id"`
	RevokedAt time.Time `json:"revoked_at"`
	Reason    string    `json:"reason,omitempty"`
}

type TokenRepository struct {
	client *redis.Client
}

func NewTokenRepository(client *redis.Client) *TokenRepository {
	return &TokenRepository{
		client: client,
	}
}

func revokedKey(tokenID string) string {
	return fmt.Sprintf("token:revoked:%s", tokenID)
}

// Revoke marks a token id as revoked until ttl elapses, which should match the
// token's remaining lifetime.
func (r *TokenRepository) Revoke(ctx context.Context, data RevokedToken, ttl time.Duration) error {
	if data.TokenID == "" {
		return errors.New("token id is required")
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal revoked token: %w", err)
	}

	if err := r.client.Set(ctx, revokedKey(data.TokenID), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store revoked token in Redis: %w", err)
	}

	return nil
}

// IsRevoked checks the revocation list for a token id.
func (r *TokenRepository) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	exists, err := r.client.Exists(ctx, revokedKey(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check token revocation: %w", err)
	}
	return exists > 0, nil
}
