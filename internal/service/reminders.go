package service

import (
	"context"

	"github.com/mmeshcher/lunch-app/internal/notify"
)

// SendDailyReminder напоминает о заказе пользователям, которые включили
// напоминание и сегодня ещё ничего не заказали. Возвращает число получателей.
func (s *Service) SendDailyReminder(ctx context.Context) (int, error) {
	orders, err := s.repo.OrdersInWindow(ctx, s.today())
	if err != nil {
		return 0, err
	}
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	ordered := make(map[string]struct{}, len(orders))
	for _, o := range orders {
		ordered[o.UserName] = struct{}{}
	}

	var recipients []string
	for _, u := range users {
		if !u.IWantDailyReminder {
			continue
		}
		if _, ok := ordered[u.Username]; ok {
			continue
		}
		recipients = append(recipients, mailAddress(u.Email, u.Username))
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	text, err := s.mailText(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.send(ctx, notify.DailyReminder(text, s.now(), recipients)); err != nil {
		return 0, err
	}
	return len(recipients), nil
}
