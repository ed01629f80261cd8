// Package cache holds the Valkey (Redis-compatible) connection shared by the
// session store and the syndication document cache.
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
	clientName  = "folio"
	dialTimeout = 5 * time.Second
	ioTimeout   = 3 * time.Second
)

// Options selects the Valkey server and logical database.
type Options struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, bracketing IPv6 hosts.
func (o Options) Addr() string {
	return net.JoinHostPort(o.Host, o.Port)
}

func (o Options) redisOptions() *redis.Options {
	return &redis.Options{
		Addr:         o.Addr(),
		Password:     o.Password,
		DB:           o.DB,
		ClientName:   clientName,
		DialTimeout:  dialTimeout,
		ReadTimeout:  ioTimeout,
		WriteTimeout: ioTimeout,
	}
}

// Connect creates a Valkey client and pings it. The ping is bounded by
// ctx and by the dial timeout.
func Connect(ctx context.Context, opts Options) (*redis.Client, error) {
	client := redis.NewClient(opts.redisOptions())

	pingCtx, cancel := context.WithTimeout(ctx, dialTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("valkey ping %s: %w", opts.Addr(), err)
	}

	slog.Info("valkey connected", "addr", opts.Addr(), "db", opts.DB)
	return client, nil
}
