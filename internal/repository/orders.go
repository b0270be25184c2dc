package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/model"
)

const orderColumns = `id, user_name, company, description, cost, date, arrival_time`

func scanOrder(row pgx.Row) (model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserName, &o.Company, &o.Description, &o.Cost, &o.Date, &o.ArrivalTime)
	return o, err
}

func collectOrders(rows pgx.Rows) ([]model.Order, error) {
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return orders, nil
}

// CreateOrder сохраняет заказ и возвращает его идентификатор.
func (r *PostgresRepository) CreateOrder(ctx context.Context, o model.Order) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`INSERT INTO orders (user_name, company, description, cost, date, arrival_time)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		o.UserName, o.Company, o.Description, o.Cost, o.Date, o.ArrivalTime,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

// GetOrder возвращает заказ по идентификатору.
func (r *PostgresRepository) GetOrder(ctx context.Context, id int64) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &o, nil
}

// UpdateOrder перезаписывает поля заказа, кроме владельца и даты.
func (r *PostgresRepository) UpdateOrder(ctx context.Context, o model.Order) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET company = $2, description = $3, cost = $4, arrival_time = $5
		 WHERE id = $1`,
		o.ID, o.Company, o.Description, o.Cost, o.ArrivalTime,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", ErrNotFound, o.ID)
	}
	return nil
}

// DeleteOrder удаляет заказ.
func (r *PostgresRepository) DeleteOrder(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: order %d", ErrNotFound, id)
	}
	return nil
}

// OrdersInWindow возвращает заказы всех пользователей в окне, границы включаются.
func (r *PostgresRepository) OrdersInWindow(ctx context.Context, w calendar.Window) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE date BETWEEN $1 AND $2
		 ORDER BY date, id`,
		w.Start, w.End,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return collectOrders(rows)
}

// OrdersByUser возвращает все заказы пользователя, новые первыми.
func (r *PostgresRepository) OrdersByUser(ctx context.Context, username string) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE user_name = $1
		 ORDER BY date DESC, id DESC`,
		username,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return collectOrders(rows)
}

// OrdersByUserInWindow возвращает заказы пользователя в окне.
func (r *PostgresRepository) OrdersByUserInWindow(ctx context.Context, username string, w calendar.Window) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+orderColumns+` FROM orders
		 WHERE user_name = $1 AND date BETWEEN $2 AND $3
		 ORDER BY date, id`,
		username, w.Start, w.End,
	)
	if err != nil {
		return nil, fmt.Errorf("select orders: %w", err)
	}
	return collectOrders(rows)
}
