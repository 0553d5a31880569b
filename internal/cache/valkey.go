// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cache connects to Valkey (Redis-compatible), which backs the
// valkey collection store and the session snapshot store.
package cache

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	pingAttempts = 3
	pingTimeout  = 5 * time.Second
)

// retryDelay is the pause before the n-th retry (1-based).
var retryDelay = func(n int) time.Duration { return time.Duration(n) * time.Second }

// ConnectValkey creates a Valkey client and verifies the connection with a
// ping, retrying a few times while the server starts up.
func ConnectValkey(host, port, password string) (*redis.Client, error) {
	addr := net.JoinHostPort(host, port)
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	if err := ping(client, addr); err != nil {
		client.Close()
		return nil, err
	}

	slog.Info("valkey connected", "addr", addr)
	return client, nil
}

func ping(client *redis.Client, addr string) error {
	var err error
	for attempt := 1; attempt <= pingAttempts; attempt++ {
		ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
		err = client.Ping(ctx).Err()
		cancel()
		if err == nil {
			return nil
		}
		if attempt < pingAttempts {
			slog.Warn("valkey not ready, retrying", "addr", addr, "attempt", attempt, "error", err)
			time.Sleep(retryDelay(attempt))
		}
	}
	return fmt.Errorf("valkey ping %s: %w", addr, err)
}
