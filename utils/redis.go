package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	log15 "github.com/inconshreveable/log15/v3"
	"github.com/redis/go-redis/v9"
)

var (
	RedisClient *redis.Client
	redisLog    = log15.New("module", "redis")
)

func InitRedis() error {
	url := os.Getenv("REDIS_URL")
	opt, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return fmt.Errorf("InitRedis: failed to parse redis url: %w", err)
	}
	RedisClient = redis.NewClient(opt)

	if _, err := RedisClient.Ping(context.Background()).Result(); err != nil {
		return fmt.Errorf("InitRedis: connection failed: %w", err)
	}
	redisLog.Info("redis connection established")
	return nil
}

// OAuthState is the short-lived nonce record written when a user starts the
// calendar connect flow and consumed on the OAuth callback.
type OAuthState struct {
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

const oauthStateTTL = 10 * time.Minute

func oauthStateKey(state string) string {
	return fmt.Sprintf("oauth_state:%s", state)
}

func SetOAuthState(ctx context.Context, state string, value OAuthState) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return RedisClient.Set(ctx, oauthStateKey(state), data, oauthStateTTL).Err()
}

// ConsumeOAuthState fetches and deletes the state record in one step, so a
// replayed callback with the same nonce fails.
func ConsumeOAuthState(ctx context.Context, state string) (*OAuthState, error) {
	val, err := RedisClient.GetDel(ctx, oauthStateKey(state)).Result()
	if err != nil {
		return nil, err
	}

	var record OAuthState
	if err := json.Unmarshal([]byte(val), &record); err != nil {
		return nil, err
	}
	return &record, nil
}
