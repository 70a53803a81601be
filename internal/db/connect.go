package db

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"assist_backend/internal/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PoolConfig parses dsn and fills in credentials the URL does not carry itself.
func PoolConfig(dsn, username, password string) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if username != "" && !hasUserInfo(dsn) {
		cfg.ConnConfig.User = username
	}
	if password != "" && cfg.ConnConfig.Password == "" {
		cfg.ConnConfig.Password = password
	}
	return cfg, nil
}

// Open creates a pool and verifies it with a ping.
func Open(ctx context.Context, dsn, username, password string) (*pgxpool.Pool, error) {
	cfg, err := PoolConfig(dsn, username, password)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create database pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Connect is Open for process startup: failures are fatal.
func Connect(dsn, username, password string) *pgxpool.Pool {
	pool, err := Open(context.Background(), dsn, username, password)
	if err != nil {
		logger.Fatal("database unavailable", "error", err)
	}

	logger.Info("database connected", "host", pool.Config().ConnConfig.Host, "database", pool.Config().ConnConfig.Database)
	return pool
}

// hasUserInfo reports whether the DSN names a user explicitly. Without one pgx
// falls back to the OS user.
func hasUserInfo(dsn string) bool {
	if u, err := url.Parse(dsn); err == nil && u.Scheme != "" {
		return u.User != nil && u.User.Username() != ""
	}
	return strings.Contains(" "+dsn, " user=")
}
