package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/mmeshcher/lunch-app/internal/access"
	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/finance"
	"github.com/mmeshcher/lunch-app/internal/lock"
	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/notify"
	"github.com/mmeshcher/lunch-app/internal/report"
)

// Period адресует месяц года.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// FinanceView содержит сверку оплат за месяц с учётом фильтра.
type FinanceView struct {
	Period
	MonthName string        `json:"month_name"`
	Mode      finance.Mode  `json:"did_pay"`
	Rows      []finance.Row `json:"rows"`
	Previous  Period        `json:"previous_month"`
	Next      Period        `json:"next_month"`
}

type monthState struct {
	summary map[string]report.UserSummary
	ledger  *finance.Ledger
}

func (s *Service) loadMonth(ctx context.Context, year, month int) (*monthState, error) {
	w, err := calendar.MonthBounds(year, month)
	if err != nil {
		return nil, err
	}

	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.repo.OrdersInWindow(ctx, w)
	if err != nil {
		return nil, err
	}
	records, err := s.repo.FinancesForMonth(ctx, month, year)
	if err != nil {
		return nil, err
	}

	return &monthState{
		summary: report.PerUserWindowSummary(users, orders, w),
		ledger:  finance.NewLedger(records),
	}, nil
}

func newFinanceView(st *monthState, year, month int, mode finance.Mode) *FinanceView {
	py, pm := calendar.PreviousMonth(year, month)
	ny, nm := calendar.NextMonth(year, month)
	view := finance.FilteredView(st.summary, st.ledger, month, year, mode)
	return &FinanceView{
		Period:    Period{Year: year, Month: month},
		MonthName: calendar.MonthName(month),
		Mode:      mode,
		Rows:      finance.SortedRows(view),
		Previous:  Period{Year: py, Month: pm},
		Next:      Period{Year: ny, Month: nm},
	}
}

// FinanceView возвращает сверку оплат за месяц.
func (s *Service) FinanceView(ctx context.Context, id model.Identity, year, month int, mode finance.Mode) (*FinanceView, error) {
	return access.GuardValue(id, func() (*FinanceView, error) {
		st, err := s.loadMonth(ctx, year, month)
		if err != nil {
			return nil, err
		}
		return newFinanceView(st, year, month, mode), nil
	})
}

// SubmitFinance применяет отправленные статусы оплаты ко всем пользователям
// из отфильтрованной сводки месяца и возвращает обновлённую сводку.
// Сверки одного месяца выполняются последовательно.
func (s *Service) SubmitFinance(
	ctx context.Context,
	id model.Identity,
	year, month int,
	mode finance.Mode,
	statusByUsername map[string]bool,
) (*FinanceView, error) {
	return access.GuardValue(id, func() (*FinanceView, error) {
		if _, err := calendar.MonthBounds(year, month); err != nil {
			return nil, err
		}

		release, err := s.locker.Acquire(ctx, lock.FinanceKey(year, month))
		if err != nil {
			return nil, err
		}
		defer func() {
			if err := release(); err != nil {
				s.logger.Warn("finance lock release failed",
					zap.Int("year", year),
					zap.Int("month", month),
					zap.Error(err),
				)
			}
		}()

		st, err := s.loadMonth(ctx, year, month)
		if err != nil {
			return nil, err
		}

		view := finance.FilteredView(st.summary, st.ledger, month, year, mode)
		upserts := finance.ApplySubmission(st.ledger, month, year, view, statusByUsername)
		if err := s.repo.UpsertFinances(ctx, upserts); err != nil {
			return nil, err
		}

		s.logger.Info("finance submitted",
			zap.Int("year", year),
			zap.Int("month", month),
			zap.Int("records", len(upserts)),
		)
		return newFinanceView(st, year, month, mode), nil
	})
}

// MonthlySummaries возвращает пользователей текущего месяца с ненулевой
// суммой заказов и заведённой записью об оплате.
func (s *Service) MonthlySummaries(ctx context.Context, id model.Identity) ([]report.UserSummary, error) {
	return access.GuardValue(id, func() ([]report.UserSummary, error) {
		now := s.now()
		st, err := s.loadMonth(ctx, now.Year(), int(now.Month()))
		if err != nil {
			return nil, err
		}
		return finance.Debtors(st.summary, st.ledger, int(now.Month()), now.Year()), nil
	})
}

// MailMonthlySummaries отправляет каждому пользователю из MonthlySummaries
// сводку за текущий месяц. Возвращает число отправленных писем.
func (s *Service) MailMonthlySummaries(ctx context.Context, id model.Identity) (int, error) {
	debtors, err := s.MonthlySummaries(ctx, id)
	if err != nil {
		return 0, err
	}
	text, err := s.mailText(ctx)
	if err != nil {
		return 0, err
	}
	book, err := s.addressBook(ctx)
	if err != nil {
		return 0, err
	}

	now := s.now()
	sent := 0
	for _, d := range debtors {
		recipient := mailAddress(book[d.Username], d.Username)
		if err := s.send(ctx, notify.MonthlySummary(d, recipient, int(now.Month()), now.Year(), text)); err != nil {
			return sent, err
		}
		sent++
	}
	return sent, nil
}

// PaymentRemind отправляет пользователю напоминание об оплате за текущий месяц.
func (s *Service) PaymentRemind(ctx context.Context, id model.Identity, username string, slacker bool) error {
	return access.Guard(id, func() error {
		text, err := s.mailText(ctx)
		if err != nil {
			return err
		}
		book, err := s.addressBook(ctx)
		if err != nil {
			return err
		}
		now := s.now()
		recipient := mailAddress(book[username], username)
		return s.send(ctx, notify.PaymentReminder(recipient, slacker, int(now.Month()), now.Year(), text))
	})
}
