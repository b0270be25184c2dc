// Package finance реализует сверку оплат обедов пользователями по месяцам.
package finance

import (
	"errors"
	"sort"
	"strconv"

	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/report"
)

// ErrInvalidMode возвращается при неизвестном режиме фильтрации.
var ErrInvalidMode = errors.New("invalid finance filter mode")

// Mode задаёт фильтрацию пользователей по статусу оплаты.
type Mode int

const (
	ModeAll Mode = iota
	ModePaidOnly
	ModeUnpaidOnly
)

// ParseMode разбирает режим фильтрации из параметра запроса.
func ParseMode(s string) (Mode, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidMode
	}
	m := Mode(v)
	if m < ModeAll || m > ModeUnpaidOnly {
		return 0, ErrInvalidMode
	}
	return m, nil
}

// Key адресует запись об оплате.
type Key struct {
	UserName string
	Month    int
	Year     int
}

// Ledger хранит не более одной записи на ключ (пользователь, месяц, год).
type Ledger struct {
	records map[Key]model.Finance
}

// NewLedger строит реестр из записей хранилища. Если для ключа
// физически существует несколько записей, пользователь считается
// оплатившим, если хотя бы одна из них отмечена как оплаченная.
func NewLedger(records []model.Finance) *Ledger {
	l := &Ledger{records: make(map[Key]model.Finance, len(records))}
	for _, r := range records {
		k := Key{UserName: r.UserName, Month: r.Month, Year: r.Year}
		if existing, ok := l.records[k]; ok {
			existing.DidUserPay = existing.DidUserPay || r.DidUserPay
			l.records[k] = existing
			continue
		}
		l.records[k] = r
	}
	return l
}

// Get возвращает запись по ключу.
func (l *Ledger) Get(k Key) (model.Finance, bool) {
	r, ok := l.records[k]
	return r, ok
}

// Len возвращает число ключей в реестре.
func (l *Ledger) Len() int {
	return len(l.records)
}

// upsert обновляет запись на месте или добавляет новую.
func (l *Ledger) upsert(k Key, paid bool) model.Finance {
	r, ok := l.records[k]
	if !ok {
		r = model.Finance{UserName: k.UserName, Month: k.Month, Year: k.Year}
	}
	r.DidUserPay = paid
	l.records[k] = r
	return r
}

// EffectiveStatus сообщает, оплатил ли пользователь обеды за месяц.
func EffectiveStatus(l *Ledger, user string, month, year int) bool {
	r, ok := l.Get(Key{UserName: user, Month: month, Year: year})
	return ok && r.DidUserPay
}

// Row описывает строку финансовой сводки.
type Row struct {
	report.UserSummary
	DidUserPay bool `json:"did_user_pay"`
}

// FilteredView отбрасывает пользователей без заказов и тех,
// чей статус оплаты не соответствует режиму.
func FilteredView(summary map[string]report.UserSummary, l *Ledger, month, year int, mode Mode) map[string]Row {
	res := make(map[string]Row, len(summary))
	for name, s := range summary {
		if s.MonthCost.IsZero() {
			continue
		}
		paid := EffectiveStatus(l, name, month, year)
		if mode == ModePaidOnly && !paid {
			continue
		}
		if mode == ModeUnpaidOnly && paid {
			continue
		}
		res[name] = Row{UserSummary: s, DidUserPay: paid}
	}
	return res
}

// ApplySubmission применяет отправленные статусы оплаты ко всем пользователям
// из сводки. Пользователь, отсутствующий в statusByUsername, считается неоплатившим.
// Возвращает записи для сохранения, упорядоченные по имени пользователя.
func ApplySubmission(l *Ledger, month, year int, view map[string]Row, statusByUsername map[string]bool) []model.Finance {
	names := make([]string, 0, len(view))
	for name := range view {
		names = append(names, name)
	}
	sort.Strings(names)

	res := make([]model.Finance, 0, len(names))
	for _, name := range names {
		k := Key{UserName: name, Month: month, Year: year}
		res = append(res, l.upsert(k, statusByUsername[name]))
	}
	return res
}

// Debtors возвращает пользователей с ненулевой суммой заказов,
// для которых за месяц уже заведена запись об оплате.
func Debtors(summary map[string]report.UserSummary, l *Ledger, month, year int) []report.UserSummary {
	res := make([]report.UserSummary, 0)
	for name, s := range summary {
		if s.MonthCost.IsZero() {
			continue
		}
		if _, ok := l.Get(Key{UserName: name, Month: month, Year: year}); !ok {
			continue
		}
		res = append(res, s)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Username < res[j].Username })
	return res
}

// SortedRows возвращает строки сводки, упорядоченные по имени пользователя.
func SortedRows(view map[string]Row) []Row {
	res := make([]Row, 0, len(view))
	for _, r := range view {
		res = append(res, r)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Username < res[j].Username })
	return res
}
