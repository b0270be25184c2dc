// Package calendar содержит функции расчёта границ дня, месяца и года.
package calendar

import (
	"errors"
	"strconv"
	"time"
)

// ErrInvalidWindow возвращается при некорректном годе или месяце.
var ErrInvalidWindow = errors.New("invalid time window")

// Window описывает закрытый интервал времени [Start, End].
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains сообщает, попадает ли момент t в интервал. Обе границы включены.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Overlaps сообщает, пересекается ли интервал [from, to] с окном.
func (w Window) Overlaps(from, to time.Time) bool {
	return !from.After(w.End) && !to.Before(w.Start)
}

// MonthBounds возвращает окно месяца: с 00:00:01 первого дня до 23:59:59 последнего.
func MonthBounds(year, month int) (Window, error) {
	if err := validate(year, month); err != nil {
		return Window{}, err
	}
	return Window{
		Start: time.Date(year, time.Month(month), 1, 0, 0, 1, 0, time.Local),
		End:   time.Date(year, time.Month(month), DaysIn(year, month), 23, 59, 59, 0, time.Local),
	}, nil
}

// YearBounds возвращает окно года: с 00:00:01 1 января до 23:59:59 31 декабря.
func YearBounds(year int) (Window, error) {
	if err := validate(year, 1); err != nil {
		return Window{}, err
	}
	return Window{
		Start: time.Date(year, time.January, 1, 0, 0, 1, 0, time.Local),
		End:   time.Date(year, time.December, 31, 23, 59, 59, 0, time.Local),
	}, nil
}

// DayBounds возвращает окно календарного дня с точностью до секунды.
func DayBounds(day time.Time) Window {
	y, m, d := day.Date()
	loc := day.Location()
	return Window{
		Start: time.Date(y, m, d, 0, 0, 0, 0, loc),
		End:   time.Date(y, m, d, 23, 59, 59, 0, loc),
	}
}

// SameDay сообщает, приходятся ли a и b на одну календарную дату.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// DaysIn возвращает число дней в месяце с учётом високосных лет.
func DaysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// NextMonth возвращает год и номер следующего месяца.
func NextMonth(year, month int) (int, int) {
	if month == 12 {
		return year + 1, 1
	}
	return year, month + 1
}

// PreviousMonth возвращает год и номер предыдущего месяца.
func PreviousMonth(year, month int) (int, int) {
	if month == 1 {
		return year - 1, 12
	}
	return year, month - 1
}

// MonthName возвращает английское название месяца.
func MonthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return time.Month(month).String()
}

// ParseYear разбирает год из строкового параметра.
func ParseYear(s string) (int, error) {
	year, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidWindow
	}
	if err := validate(year, 1); err != nil {
		return 0, err
	}
	return year, nil
}

// ParseYearMonth разбирает год и месяц из строковых параметров.
func ParseYearMonth(yearStr, monthStr string) (int, int, error) {
	year, err := ParseYear(yearStr)
	if err != nil {
		return 0, 0, err
	}
	month, err := strconv.Atoi(monthStr)
	if err != nil {
		return 0, 0, ErrInvalidWindow
	}
	if err := validate(year, month); err != nil {
		return 0, 0, err
	}
	return year, month, nil
}

func validate(year, month int) error {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return ErrInvalidWindow
	}
	return nil
}
