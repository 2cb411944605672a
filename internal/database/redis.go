package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisPingTimeout bounds the startup probe.
const redisPingTimeout = 3 * time.Second

// ConnectRedis parses url, opens a client named after the service and verifies it answers PING.
func ConnectRedis(ctx context.Context, url, clientName string) (*redis.Client, error) {
	if url == "" {
		return nil, fmt.Errorf("redis url must not be empty")
	}

	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	if options.ClientName == "" {
		// CLIENT SETNAME rejects spaces.
		options.ClientName = strings.Join(strings.Fields(strings.ToLower(clientName)), "-")
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis unreachable at %s: %w", options.Addr, err)
	}

	return client, nil
}
