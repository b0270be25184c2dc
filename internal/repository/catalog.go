package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/model"
)

// FoodsAvailable возвращает блюда, интервал доступности которых пересекается с окном.
func (r *PostgresRepository) FoodsAvailable(ctx context.Context, w calendar.Window) ([]model.Food, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, company, description, cost, date_available_from, date_available_to, o_type, rating
		 FROM foods
		 WHERE date_available_from <= $2 AND date_available_to >= $1
		 ORDER BY company, id`,
		w.Start, w.End,
	)
	if err != nil {
		return nil, fmt.Errorf("select foods: %w", err)
	}
	defer rows.Close()

	var foods []model.Food
	for rows.Next() {
		var f model.Food
		if err := rows.Scan(&f.ID, &f.Company, &f.Description, &f.Cost,
			&f.DateAvailableFrom, &f.DateAvailableTo, &f.OType, &f.Rating); err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		foods = append(foods, f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return foods, nil
}

// CreateFoods сохраняет блюда одной транзакцией и возвращает их число.
func (r *PostgresRepository) CreateFoods(ctx context.Context, foods []model.Food) (int, error) {
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, f := range foods {
			batch.Queue(
				`INSERT INTO foods (company, description, cost, date_available_from, date_available_to, o_type)
				 VALUES ($1, $2, $3, $4, $5, $6)`,
				f.Company, f.Description, f.Cost, f.DateAvailableFrom, f.DateAvailableTo, f.OType,
			)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert foods: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(foods), nil
}

// RateFood атомарно обновляет рейтинг блюда и отметку об оценке пользователя.
// Строки пользователя и блюда блокируются; fold получает их текущее состояние
// и возвращает новый рейтинг или ошибку, отменяющую транзакцию.
func (r *PostgresRepository) RateFood(
	ctx context.Context,
	userID, foodID int64,
	now time.Time,
	fold func(rateTimestamp *time.Time, current *float64) (float64, error),
) (float64, error) {
	var rating float64
	err := r.withTx(ctx, func(tx pgx.Tx) error {
		var rateTimestamp *time.Time
		err := tx.QueryRow(ctx,
			`SELECT rate_timestamp FROM users WHERE id = $1 FOR UPDATE`, userID,
		).Scan(&rateTimestamp)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: user %d", ErrNotFound, userID)
			}
			return fmt.Errorf("lock user for update: %w", err)
		}

		var current *float64
		err = tx.QueryRow(ctx,
			`SELECT rating FROM foods WHERE id = $1 FOR UPDATE`, foodID,
		).Scan(&current)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return fmt.Errorf("%w: food %d", ErrNotFound, foodID)
			}
			return fmt.Errorf("lock food for update: %w", err)
		}

		rating, err = fold(rateTimestamp, current)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx, `UPDATE foods SET rating = $2 WHERE id = $1`, foodID, rating); err != nil {
			return fmt.Errorf("update rating: %w", err)
		}
		if _, err := tx.Exec(ctx, `UPDATE users SET rate_timestamp = $2 WHERE id = $1`, userID, now); err != nil {
			return fmt.Errorf("update rate timestamp: %w", err)
		}
		return nil
	})
	return rating, err
}

// ListCompanies возвращает все компании, упорядоченные по названию.
func (r *PostgresRepository) ListCompanies(ctx context.Context) ([]model.Company, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, web_page, address, telephone FROM companies ORDER BY name`,
	)
	if err != nil {
		return nil, fmt.Errorf("select companies: %w", err)
	}
	defer rows.Close()

	var res []model.Company
	for rows.Next() {
		var c model.Company
		if err := rows.Scan(&c.ID, &c.Name, &c.WebPage, &c.Address, &c.Telephone); err != nil {
			return nil, fmt.Errorf("scan company: %w", err)
		}
		res = append(res, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return res, nil
}

// CreateCompany создаёт компанию и возвращает её идентификатор.
func (r *PostgresRepository) CreateCompany(ctx context.Context, c model.Company) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO companies (name, web_page, address, telephone) VALUES ($1, $2, $3, $4) RETURNING id`,
		c.Name, c.WebPage, c.Address, c.Telephone,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%w: %s", ErrCompanyExists, c.Name)
		}
		return 0, fmt.Errorf("create company: %w", err)
	}
	return id, nil
}
