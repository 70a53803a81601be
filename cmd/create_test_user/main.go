package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"assist_backend/internal/config"
	"assist_backend/internal/db"
	"assist_backend/internal/domain"
	"assist_backend/internal/logger"
	"assist_backend/internal/repository"
	"assist_backend/internal/service"
)

func main() {
	email := flag.String("email", "test@example.com", "account email")
	password := flag.String("password", "test-password", "account password")
	admin := flag.Bool("admin", false, "grant the ADMIN role")
	flag.Parse()

	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogFormat)

	pool := db.Connect(cfg.DatabaseURL, cfg.DatabaseUsername, cfg.DatabasePassword)
	defer pool.Close()

	users := repository.NewUserRepository(pool)
	auth := service.NewAuthService(users, service.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL))
	ctx := context.Background()

	u, err := auth.Register(ctx, *email, *password, nil)
	switch {
	case errors.Is(err, service.ErrDuplicateEmail):
		u, err = auth.Authenticate(ctx, *email, *password)
		if err != nil {
			logger.Fatal("user exists with a different password", "email", *email)
		}
		logger.Info("user already exists", "user_id", u.ID)
	case err != nil:
		logger.Fatal("create user failed", "error", err)
	default:
		logger.Info("user created", "user_id", u.ID)
	}

	if *admin && u.Role != domain.RoleAdmin {
		if err := users.SetRole(ctx, u.ID, domain.RoleAdmin); err != nil {
			logger.Fatal("grant admin failed", "error", err)
		}
		u.Role = domain.RoleAdmin
		logger.Info("admin role granted", "user_id", u.ID)
	}

	token, err := auth.IssueToken(u)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Printf("user_id=%d email=%s role=%s\ntoken=%s\n", u.ID, u.Email, u.Role, token)
}
