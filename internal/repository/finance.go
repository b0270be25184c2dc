package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/lunch-app/internal/model"
)

// FinancesForMonth возвращает записи об оплате за месяц.
func (r *PostgresRepository) FinancesForMonth(ctx context.Context, month, year int) ([]model.Finance, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_name, month, year, did_user_pay
		 FROM finances
		 WHERE month = $1 AND year = $2
		 ORDER BY user_name`,
		month, year,
	)
	if err != nil {
		return nil, fmt.Errorf("select finances: %w", err)
	}
	defer rows.Close()

	var res []model.Finance
	for rows.Next() {
		var f model.Finance
		if err := rows.Scan(&f.ID, &f.UserName, &f.Month, &f.Year, &f.DidUserPay); err != nil {
			return nil, fmt.Errorf("scan finance: %w", err)
		}
		res = append(res, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// UpsertFinances сохраняет статусы оплаты одной транзакцией.
// На ключ (пользователь, месяц, год) приходится не более одной строки.
func (r *PostgresRepository) UpsertFinances(ctx context.Context, records []model.Finance) error {
	if len(records) == 0 {
		return nil
	}

	return r.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, f := range records {
			batch.Queue(
				`INSERT INTO finances (user_name, month, year, did_user_pay)
				 VALUES ($1, $2, $3, $4)
				 ON CONFLICT (user_name, month, year) DO UPDATE SET did_user_pay = EXCLUDED.did_user_pay`,
				f.UserName, f.Month, f.Year, f.DidUserPay,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("upsert finances: %w", err)
		}
		return nil
	})
}
