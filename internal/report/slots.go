package report

import (
	"github.com/shopspring/decimal"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/model"
)

// Slots перечисляет слоты доставки в порядке вывода сводки дня.
var Slots = []string{model.ArrivalLunch, model.ArrivalAfternoon}

// SlotSummary описывает ячейку сводки: заказы компании на один слот доставки.
type SlotSummary struct {
	Company     string          `json:"company"`
	ArrivalTime string          `json:"arrival_time"`
	Orders      []model.Order   `json:"orders"`
	Cost        decimal.Decimal `json:"cost"`
}

// DaySlots строит сводку "компания × слот доставки" по заказам в окне.
func DaySlots(companies []model.Company, orders []model.Order, w calendar.Window) []SlotSummary {
	res := make([]SlotSummary, 0, len(companies)*len(Slots))
	for _, c := range companies {
		for _, slot := range Slots {
			pred := All(InWindow(w), ByCompany(c.Name), ByArrival(slot))
			res = append(res, SlotSummary{
				Company:     c.Name,
				ArrivalTime: slot,
				Orders:      Filter(orders, pred),
				Cost:        SumCost(orders, pred),
			})
		}
	}
	return res
}
