package portfolio

import (
	"context"
	"errors"
	"time"

	domain "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (r *Repository) GetPosition(ctx context.Context, userID uuid.UUID, symbol string) (*domain.Position, error) {
	const query = `
		SELECT user_id, symbol, quantity, average_cost, version, created_at, updated_at
		FROM positions
		WHERE user_id = $1 AND symbol = $2`

	position := &domain.Position{}
	if err := scanPositionInto(r.pool.QueryRow(ctx, query, userID, symbol), position); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrPositionNotFound
		}
		return nil, err
	}
	return position, nil
}

func (r *Repository) ListPositions(ctx context.Context, userID uuid.UUID) ([]domain.Position, error) {
	const query = `
		SELECT user_id, symbol, quantity, average_cost, version, created_at, updated_at
		FROM positions
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var positions []domain.Position
	for rows.Next() {
		var position domain.Position
		if err := scanPositionInto(rows, &position); err != nil {
			return nil, err
		}
		positions = append(positions, position)
	}
	return positions, rows.Err()
}

// applyPositionWith applies the staged position mutation inside a
// transaction: insert when no row was seen, otherwise a versioned update
// or delete. Zero rows affected means a concurrent trade got there first.
func applyPositionWith(ctx context.Context, tx pgx.Tx, userID uuid.UUID, write interfaces.PositionWrite) error {
	now := time.Now().UTC()

	if write.ExpectedVersion == 0 {
		if write.Upsert == nil {
			return errors.New("position upsert is nil")
		}
		const query = `
			INSERT INTO positions (user_id, symbol, quantity, average_cost, version, created_at, updated_at)
			VALUES ($1,$2,$3,$4,1,$5,$5)
			ON CONFLICT (user_id, symbol) DO NOTHING`
		tag, err := tx.Exec(ctx, query, userID, write.Symbol, write.Upsert.Quantity, write.Upsert.AverageCost, now)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConflict
		}
		return nil
	}

	if write.Upsert == nil {
		const query = `DELETE FROM positions WHERE user_id=$1 AND symbol=$2 AND version=$3`
		tag, err := tx.Exec(ctx, query, userID, write.Symbol, write.ExpectedVersion)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return domain.ErrConflict
		}
		return nil
	}

	const query = `
		UPDATE positions
		SET quantity=$4,
			average_cost=$5,
			version=version+1,
			updated_at=$6
		WHERE user_id=$1 AND symbol=$2 AND version=$3`
	tag, err := tx.Exec(ctx, query, userID, write.Symbol, write.ExpectedVersion, write.Upsert.Quantity, write.Upsert.AverageCost, now)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConflict
	}
	return nil
}

func scanPositionInto(row pgx.Row, position *domain.Position) error {
	return row.Scan(
		&position.UserID,
		&position.Symbol,
		&position.Quantity,
		&position.AverageCost,
		&position.Version,
		&position.CreatedAt,
		&position.UpdatedAt,
	)
}
