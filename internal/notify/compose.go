// Package notify составляет письма сервиса и передаёт их на доставку.
package notify

import (
	"fmt"
	"time"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/report"
)

const dateLayout = "2006-01-02"

// Message описывает письмо для доставки.
type Message struct {
	Subject    string   `json:"subject"`
	Body       string   `json:"body"`
	Recipients []string `json:"recipients"`
}

// OrderCopy составляет копию заказа для пользователя.
func OrderCopy(o model.Order, recipient string) Message {
	return Message{
		Subject: fmt.Sprintf("Lunch order - %s", o.Date.Format(dateLayout)),
		Body: fmt.Sprintf("Today you ordered %s from %s (%s PLN).\nIt should be delivered at %s",
			o.Description, o.Company, o.Cost.StringFixed(2), o.ArrivalTime),
		Recipients: []string{recipient},
	}
}

// DailyReminder составляет напоминание о заказе для пользователей, ещё не заказавших обед.
func DailyReminder(text model.MailText, day time.Time, recipients []string) Message {
	return Message{
		Subject:    fmt.Sprintf("%s %s", text.DailyReminderSubject, day.Format(dateLayout)),
		Body:       text.DailyReminder,
		Recipients: recipients,
	}
}

// MonthlySummary составляет месячную сводку заказов пользователя для адреса recipient.
func MonthlySummary(s report.UserSummary, recipient string, month, year int, text model.MailText) Message {
	name := calendar.MonthName(month)
	return Message{
		Subject: fmt.Sprintf("Lunch %s / %d summary", name, year),
		Body: fmt.Sprintf("In %s you ordered %d meals for %s PLN.\n %s",
			name, s.OrderCount, s.MonthCost.StringFixed(2), text.MonthlyPaySummary),
		Recipients: []string{recipient},
	}
}

// PaymentReminder составляет напоминание об оплате. Для злостных неплательщиков
// используется отдельный текст.
func PaymentReminder(recipient string, slacker bool, month, year int, text model.MailText) Message {
	body := text.PayReminder
	if slacker {
		body = text.PaySlackerReminder
	}
	return Message{
		Subject:    fmt.Sprintf("Lunch %s / %d payment reminder", calendar.MonthName(month), year),
		Body:       body,
		Recipients: []string{recipient},
	}
}
