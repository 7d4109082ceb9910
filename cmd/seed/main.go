// Command seed opens demo cash accounts against the configured database.
// Accounts are given as user-id=balance pairs:
//
//	go run ./cmd/seed 6f1c...=1000 9a2b...=2500
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	domain "main/internal/domain/entity/portfolio"
	infraportfolio "main/internal/infrastructure/portfolio"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	if err := godotenv.Load(); err != nil {
		logger.Debugf("no .env file loaded: %v", err)
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		logger.Fatal("DATABASE_DSN is required")
	}

	seeds, err := parseSeeds(os.Args[1:])
	if err != nil {
		logger.Fatalf("parse arguments: %v", err)
	}
	if len(seeds) == 0 {
		logger.Fatal("no accounts given, expected user-id=balance arguments")
	}

	repo, err := infraportfolio.NewRepository(ctx, dsn)
	if err != nil {
		logger.Fatalf("failed to init portfolio repo: %v", err)
	}
	defer repo.Close()

	for _, seed := range seeds {
		account := &domain.Account{UserID: seed.userID, CashBalance: seed.balance}
		if err := repo.CreateAccount(ctx, account); err != nil {
			if errors.Is(err, domain.ErrAccountExists) {
				logger.Warnf("account %s already exists, skipping", seed.userID)
				continue
			}
			logger.Fatalf("create account %s: %v", seed.userID, err)
		}
		logger.Infof("created account %s with balance %.2f", seed.userID, seed.balance)
	}
}

type accountSeed struct {
	userID  uuid.UUID
	balance float64
}

func parseSeeds(args []string) ([]accountSeed, error) {
	var seeds []accountSeed
	for _, arg := range args {
		id, value, ok := strings.Cut(arg, "=")
		if !ok {
			return nil, fmt.Errorf("expected user-id=balance, got %q", arg)
		}
		userID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("parse user id %q: %w", id, err)
		}
		balance, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, fmt.Errorf("parse balance %q: %w", value, err)
		}
		if balance < 0 {
			return nil, fmt.Errorf("balance must not be negative: %s", arg)
		}
		seeds = append(seeds, accountSeed{userID: userID, balance: balance})
	}
	return seeds, nil
}
