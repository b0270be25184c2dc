// Package report содержит агрегацию заказов по окнам времени:
// суммы по предикату, помесячные, по компаниям и по пользователям.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/model"
)

// Predicate отбирает заказы для агрегации.
type Predicate func(o model.Order) bool

// InWindow отбирает заказы, дата которых попадает в окно (границы включены).
func InWindow(w calendar.Window) Predicate {
	return func(o model.Order) bool { return w.Contains(o.Date) }
}

// ByCompany отбирает заказы компании.
func ByCompany(name string) Predicate {
	return func(o model.Order) bool { return o.Company == name }
}

// ByArrival отбирает заказы со слотом доставки.
func ByArrival(slot string) Predicate {
	return func(o model.Order) bool { return o.ArrivalTime == slot }
}

// ByUser отбирает заказы пользователя.
func ByUser(username string) Predicate {
	return func(o model.Order) bool { return o.UserName == username }
}

// All объединяет предикаты через логическое И.
func All(preds ...Predicate) Predicate {
	return func(o model.Order) bool {
		for _, p := range preds {
			if !p(o) {
				return false
			}
		}
		return true
	}
}

// Filter возвращает заказы, удовлетворяющие предикату, в исходном порядке.
func Filter(orders []model.Order, pred Predicate) []model.Order {
	res := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if pred(o) {
			res = append(res, o)
		}
	}
	return res
}

// SumCost суммирует стоимость заказов, удовлетворяющих предикату.
func SumCost(orders []model.Order, pred Predicate) decimal.Decimal {
	total := decimal.Zero
	for _, o := range orders {
		if pred(o) {
			total = total.Add(o.Cost)
		}
	}
	return total
}

// Total суммирует стоимость всех заказов.
func Total(orders []model.Order) decimal.Decimal {
	return SumCost(orders, func(model.Order) bool { return true })
}

// MonthSummary содержит число заказов и их стоимость за месяц.
type MonthSummary struct {
	Month      int             `json:"month"`
	MonthName  string          `json:"month_name"`
	OrderCount int             `json:"number_of_orders"`
	MonthCost  decimal.Decimal `json:"month_cost"`
}

// MonthlyRollup возвращает ровно 12 записей, с января по декабрь,
// по заказам пользователя за год. Месяцы без заказов дают нулевые записи.
func MonthlyRollup(orders []model.Order, user string, year int) ([]MonthSummary, error) {
	res := make([]MonthSummary, 0, 12)
	for month := 1; month <= 12; month++ {
		w, err := calendar.MonthBounds(year, month)
		if err != nil {
			return nil, err
		}

		summary := MonthSummary{
			Month:     month,
			MonthName: calendar.MonthName(month),
			MonthCost: decimal.Zero,
		}
		for _, o := range orders {
			if o.UserName == user && w.Contains(o.Date) {
				summary.OrderCount++
				summary.MonthCost = summary.MonthCost.Add(o.Cost)
			}
		}
		res = append(res, summary)
	}
	return res, nil
}

// CompanyRollup суммирует стоимость заказов в окне по каждой известной компании.
// Компании без заказов присутствуют с нулевой суммой.
func CompanyRollup(companies []model.Company, orders []model.Order, w calendar.Window) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal, len(companies))
	for _, c := range companies {
		res[c.Name] = SumCost(orders, All(InWindow(w), ByCompany(c.Name)))
	}
	return res
}

// UserSummary содержит число заказов пользователя и их стоимость в окне.
type UserSummary struct {
	Username   string          `json:"username"`
	OrderCount int             `json:"number_of_orders"`
	MonthCost  decimal.Decimal `json:"month_cost"`
}

// PerUserWindowSummary считает заказы и стоимость по каждому пользователю в окне.
// Все пользователи присутствуют, в том числе без заказов.
func PerUserWindowSummary(users []model.User, orders []model.Order, w calendar.Window) map[string]UserSummary {
	res := make(map[string]UserSummary, len(users))
	for _, u := range users {
		res[u.Username] = UserSummary{Username: u.Username, MonthCost: decimal.Zero}
	}

	for _, o := range orders {
		s, ok := res[o.UserName]
		if !ok || !w.Contains(o.Date) {
			continue
		}
		s.OrderCount++
		s.MonthCost = s.MonthCost.Add(o.Cost)
		res[o.UserName] = s
	}
	return res
}
