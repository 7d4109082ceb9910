package portfolio

import (
	"context"
	"errors"

	domain "main/internal/domain/entity/portfolio"
	interfaces "main/internal/domain/interfaces"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const insertTradeQuery = `
	INSERT INTO trades (trade_id, user_id, symbol, side, quantity, price, net_total, executed_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`

// ApplyTrade commits one executed trade: balance write, position
// upsert/delete, and ledger append in a single transaction. Any version
// mismatch rolls the whole commit back with domain.ErrConflict.
func (r *Repository) ApplyTrade(ctx context.Context, commit interfaces.TradeCommit) error {
	if commit.Trade == nil {
		return errors.New("trade is nil")
	}
	if commit.Trade.ID == uuid.Nil {
		commit.Trade.ID = uuid.New()
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		if err := updateAccountWith(ctx, tx, commit.UserID, commit.Account.NewBalance, commit.Account.ExpectedVersion); err != nil {
			return err
		}
		if err := applyPositionWith(ctx, tx, commit.UserID, commit.Position); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, insertTradeQuery,
			commit.Trade.ID,
			commit.Trade.UserID,
			commit.Trade.Symbol,
			commit.Trade.Side,
			commit.Trade.Quantity,
			commit.Trade.Price,
			commit.Trade.NetTotal,
			commit.Trade.ExecutedAt,
		)
		return err
	})
}

func (r *Repository) ListTrades(ctx context.Context, userID uuid.UUID) ([]domain.Trade, error) {
	const query = `
		SELECT trade_id, user_id, symbol, side, quantity, price, net_total, executed_at
		FROM trades
		WHERE user_id=$1
		ORDER BY executed_at DESC`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var trades []domain.Trade
	for rows.Next() {
		var trade domain.Trade
		err := rows.Scan(
			&trade.ID,
			&trade.UserID,
			&trade.Symbol,
			&trade.Side,
			&trade.Quantity,
			&trade.Price,
			&trade.NetTotal,
			&trade.ExecutedAt,
		)
		if err != nil {
			return nil, err
		}
		trades = append(trades, trade)
	}
	return trades, rows.Err()
}
