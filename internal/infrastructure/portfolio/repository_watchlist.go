package portfolio

import (
	"context"
	"errors"
	"time"

	domain "main/internal/domain/entity/portfolio"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) CreateWatchlist(ctx context.Context, watchlist *domain.Watchlist) error {
	if watchlist == nil {
		return errors.New("watchlist is nil")
	}
	if watchlist.ID == uuid.Nil {
		watchlist.ID = uuid.New()
	}
	now := time.Now().UTC()
	if watchlist.CreatedAt.IsZero() {
		watchlist.CreatedAt = now
	}
	watchlist.UpdatedAt = now

	const query = `
		INSERT INTO watchlists (id, user_id, name, symbols, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`

	_, err := r.pool.Exec(ctx, query,
		watchlist.ID,
		watchlist.UserID,
		watchlist.Name,
		watchlist.Symbols,
		watchlist.CreatedAt,
		watchlist.UpdatedAt,
	)
	return err
}

func (r *Repository) GetWatchlist(ctx context.Context, id uuid.UUID) (*domain.Watchlist, error) {
	const query = `
		SELECT id, user_id, name, symbols, created_at, updated_at
		FROM watchlists
		WHERE id = $1`

	watchlist := &domain.Watchlist{}
	if err := scanWatchlistInto(r.pool.QueryRow(ctx, query, id), watchlist); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWatchlistNotFound
		}
		return nil, err
	}
	return watchlist, nil
}

func (r *Repository) ListWatchlists(ctx context.Context, userID uuid.UUID) ([]domain.Watchlist, error) {
	const query = `
		SELECT id, user_id, name, symbols, created_at, updated_at
		FROM watchlists
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var watchlists []domain.Watchlist
	for rows.Next() {
		var watchlist domain.Watchlist
		if err := scanWatchlistInto(rows, &watchlist); err != nil {
			return nil, err
		}
		watchlists = append(watchlists, watchlist)
	}
	return watchlists, rows.Err()
}

func (r *Repository) UpdateWatchlist(ctx context.Context, watchlist *domain.Watchlist) error {
	if watchlist == nil {
		return errors.New("watchlist is nil")
	}
	watchlist.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE watchlists
		SET name=$2,
			symbols=$3,
			updated_at=$4
		WHERE id=$1`

	tag, err := r.pool.Exec(ctx, query,
		watchlist.ID,
		watchlist.Name,
		watchlist.Symbols,
		watchlist.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWatchlistNotFound
	}
	return nil
}

func (r *Repository) DeleteWatchlist(ctx context.Context, id uuid.UUID) error {
	const query = `DELETE FROM watchlists WHERE id=$1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWatchlistNotFound
	}
	return nil
}

func scanWatchlistInto(row pgx.Row, watchlist *domain.Watchlist) error {
	return row.Scan(
		&watchlist.ID,
		&watchlist.UserID,
		&watchlist.Name,
		&watchlist.Symbols,
		&watchlist.CreatedAt,
		&watchlist.UpdatedAt,
	)
}
