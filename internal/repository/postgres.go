// Package repository содержит реализацию доступа к данным в PostgreSQL.
package repository

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/mmeshcher/lunch-app/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

var (
	// ErrNotFound возвращается, если запись не найдена.
	ErrNotFound = errors.New("not found")
	// ErrCompanyExists возвращается при попытке создать компанию с уже существующим названием.
	ErrCompanyExists = errors.New("company already exists")
)

// PostgresRepository предоставляет доступ к хранилищу данных в PostgreSQL.
type PostgresRepository struct {
	pool        *pgxpool.Pool
	retryDelays []time.Duration
}

// NewPostgresRepository создаёт новый репозиторий и инициализирует схему БД через миграции.
func NewPostgresRepository(dsn string) (*PostgresRepository, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	r := &PostgresRepository{
		pool:        pool,
		retryDelays: []time.Duration{1 * time.Second, 3 * time.Second, 5 * time.Second},
	}

	if err := r.runMigrations(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return r, nil
}

func (r *PostgresRepository) runMigrations(ctx context.Context) error {
	db := stdlib.OpenDBFromPool(r.pool)
	defer db.Close()

	goose.SetBaseFS(migrationsFS)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, "migrations"); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	return nil
}

// withRetry повторяет fn при конфликтах сериализации, взаимных блокировках
// и обрывах соединения.
func (r *PostgresRepository) withRetry(ctx context.Context, fn func() error) error {
	var err error
	for i := 0; i <= len(r.retryDelays); i++ {
		err = fn()
		if err == nil {
			return nil
		}

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}

		if !isRetryable(err) || i == len(r.retryDelays) {
			break
		}

		timer := time.NewTimer(r.retryDelays[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
	return err
}

func isRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgerrcode.SerializationFailure || pgErr.Code == pgerrcode.DeadlockDetected
	}
	return isConnectionError(err)
}

func isConnectionError(err error) bool {
	return strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "broken pipe") ||
		strings.Contains(err.Error(), "connection reset by peer")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// withTx выполняет fn в транзакции уровня REPEATABLE READ.
func (r *PostgresRepository) withTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return r.withRetry(ctx, func() error {
		tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
		if err != nil {
			return fmt.Errorf("begin tx: %w", err)
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit tx: %w", err)
		}
		return nil
	})
}

// Close закрывает пул соединений с БД.
func (r *PostgresRepository) Close() error {
	r.pool.Close()
	return nil
}

const userColumns = `id, username, email, is_admin, i_want_daily_reminder, rate_timestamp`

func scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	if err := row.Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.IWantDailyReminder, &u.RateTimestamp); err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByID возвращает пользователя по идентификатору.
func (r *PostgresRepository) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, упорядоченных по имени.
func (r *PostgresRepository) ListUsers(ctx context.Context) ([]model.User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}
	defer rows.Close()

	var users []model.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return users, nil
}

// SetDailyReminder включает или отключает ежедневное напоминание пользователю.
func (r *PostgresRepository) SetDailyReminder(ctx context.Context, userID int64, enabled bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET i_want_daily_reminder = $2 WHERE id = $1`,
		userID, enabled,
	)
	if err != nil {
		return fmt.Errorf("update reminder: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: user %d", ErrNotFound, userID)
	}
	return nil
}

// GetMailText возвращает тексты рассылок. Если запись ещё не создана, возвращается ErrNotFound.
func (r *PostgresRepository) GetMailText(ctx context.Context) (*model.MailText, error) {
	var t model.MailText
	err := r.pool.QueryRow(ctx,
		`SELECT daily_reminder, daily_reminder_subject, monthly_pay_summary,
		        pay_reminder, pay_slacker_reminder, info_page_text
		 FROM mail_texts WHERE id = 1`,
	).Scan(&t.DailyReminder, &t.DailyReminderSubject, &t.MonthlyPaySummary,
		&t.PayReminder, &t.PaySlackerReminder, &t.InfoPageText)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: mail text", ErrNotFound)
		}
		return nil, fmt.Errorf("get mail text: %w", err)
	}
	return &t, nil
}

// UpsertMailText создаёт или обновляет единственную запись текстов рассылок.
func (r *PostgresRepository) UpsertMailText(ctx context.Context, t model.MailText) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO mail_texts (id, daily_reminder, daily_reminder_subject, monthly_pay_summary,
		                         pay_reminder, pay_slacker_reminder, info_page_text)
		 VALUES (1, $1, $2, $3, $4, $5, $6)
		 ON CONFLICT (id) DO UPDATE SET
		     daily_reminder = EXCLUDED.daily_reminder,
		     daily_reminder_subject = EXCLUDED.daily_reminder_subject,
		     monthly_pay_summary = EXCLUDED.monthly_pay_summary,
		     pay_reminder = EXCLUDED.pay_reminder,
		     pay_slacker_reminder = EXCLUDED.pay_slacker_reminder,
		     info_page_text = EXCLUDED.info_page_text`,
		t.DailyReminder, t.DailyReminderSubject, t.MonthlyPaySummary,
		t.PayReminder, t.PaySlackerReminder, t.InfoPageText,
	)
	if err != nil {
		return fmt.Errorf("upsert mail text: %w", err)
	}
	return nil
}
