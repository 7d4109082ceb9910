package portfolio

import (
	"context"
	"errors"
	"time"

	domain "main/internal/domain/entity/portfolio"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) CreateAccount(ctx context.Context, account *domain.Account) error {
	if account == nil {
		return errors.New("account is nil")
	}
	now := time.Now().UTC()
	if account.CreatedAt.IsZero() {
		account.CreatedAt = now
	}
	account.UpdatedAt = now
	account.Version = 1

	const query = `
		INSERT INTO accounts (user_id, cash_balance, version, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (user_id) DO NOTHING`

	tag, err := r.pool.Exec(ctx, query,
		account.UserID,
		account.CashBalance,
		account.Version,
		account.CreatedAt,
		account.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountExists
	}
	return nil
}

func (r *Repository) GetAccount(ctx context.Context, userID uuid.UUID) (*domain.Account, error) {
	const query = `
		SELECT user_id, cash_balance, version, created_at, updated_at
		FROM accounts
		WHERE user_id = $1`

	account := &domain.Account{}
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&account.UserID,
		&account.CashBalance,
		&account.Version,
		&account.CreatedAt,
		&account.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return account, nil
}

// updateAccountWith applies the staged balance write inside a transaction.
// A zero row count means a concurrent trade bumped the version first.
func updateAccountWith(ctx context.Context, tx pgx.Tx, userID uuid.UUID, newBalance float64, expectedVersion int64) error {
	const query = `
		UPDATE accounts
		SET cash_balance=$3,
			version=version+1,
			updated_at=$4
		WHERE user_id=$1 AND version=$2`

	tag, err := tx.Exec(ctx, query, userID, expectedVersion, newBalance, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}
