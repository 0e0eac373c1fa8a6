package bootstrap

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/wolfman30/inkstudio-ai/internal/config"
	"github.com/wolfman30/inkstudio-ai/internal/conversation"
	"github.com/wolfman30/inkstudio-ai/pkg/logging"
)

// redisPingTimeout bounds the start-up connectivity check.
const redisPingTimeout = 3 * time.Second

// BuildRedisClient connects to REDIS_ADDR and pings it. The client is closed
// again when the ping fails.
func BuildRedisClient(ctx context.Context, cfg *appconfig.Config) (*redis.Client, error) {
	if cfg == nil || strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil, fmt.Errorf("bootstrap: REDIS_ADDR is required")
	}

	opts := &redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("bootstrap: redis at %q unavailable: %w", cfg.RedisAddr, err)
	}
	return client, nil
}

// BuildSessionStore picks the conversation session backend named by
// SESSION_STORE. awsCfg is only consulted for dynamodb.
func BuildSessionStore(ctx context.Context, cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) (conversation.SessionStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("bootstrap: config is required")
	}
	if logger == nil {
		logger = logging.Default()
	}

	switch cfg.SessionStore {
	case "", "memory":
		logger.Info("using in-memory session store", "ttl", cfg.SessionTTL.String())
		return conversation.NewMemorySessionStore(cfg.SessionTTL, cfg.SessionSweepInterval), nil
	case "redis":
		client, err := BuildRedisClient(ctx, cfg)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis session store", "addr", cfg.RedisAddr, "ttl", cfg.SessionTTL.String())
		return conversation.NewRedisSessionStore(client, cfg.SessionTTL), nil
	case "dynamodb":
		if awsCfg == nil {
			return nil, fmt.Errorf("bootstrap: dynamodb session store requires aws config")
		}
		logger.Info("using dynamodb session store", "table", cfg.SessionsTable)
		return conversation.NewDynamoSessionStore(newDynamoClient(cfg, *awsCfg), cfg.SessionsTable, cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("bootstrap: unknown session store %q", cfg.SessionStore)
	}
}

// NeedsAWS reports whether any configured component talks to AWS.
func NeedsAWS(cfg *appconfig.Config) bool {
	if cfg == nil {
		return false
	}
	_, _, s3Catalog := parseCatalogURI(cfg.CatalogPath)
	return cfg.SessionStore == "dynamodb" ||
		cfg.LLMProvider == "bedrock" ||
		cfg.LLMFallbackProvider == "bedrock" ||
		s3Catalog ||
		strings.TrimSpace(cfg.SESFromEmail) != "" ||
		strings.TrimSpace(cfg.AppointmentEventsQueueURL) != ""
}
