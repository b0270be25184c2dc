package service

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/lunch-app/internal/access"
	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/report"
	"github.com/mmeshcher/lunch-app/internal/validation"
)

// CompanySummary содержит стоимость заказов по компаниям за месяц.
type CompanySummary struct {
	Year      int                        `json:"year"`
	Month     int                        `json:"month"`
	MonthName string                     `json:"month_name"`
	Costs     map[string]decimal.Decimal `json:"costs"`
}

// AddFood добавляет блюдо или, при in.Bulk, по блюду на каждую непустую
// строку описания. Возвращает число добавленных блюд.
func (s *Service) AddFood(ctx context.Context, id model.Identity, in FoodInput) (int, error) {
	return access.GuardValue(id, func() (int, error) {
		if err := validation.Struct(in); err != nil {
			return 0, err
		}
		if err := s.requireCompany(ctx, in.Company); err != nil {
			return 0, err
		}

		descriptions := []string{in.Description}
		if in.Bulk {
			descriptions = splitLines(in.Description)
		}

		foods := make([]model.Food, 0, len(descriptions))
		for _, d := range descriptions {
			foods = append(foods, model.Food{
				Company:           in.Company,
				Description:       d,
				Cost:              in.Cost,
				DateAvailableFrom: in.DateAvailableFrom,
				DateAvailableTo:   in.DateAvailableTo,
				OType:             in.OType,
			})
		}
		if len(foods) == 0 {
			return 0, nil
		}
		return s.repo.CreateFoods(ctx, foods)
	})
}

func splitLines(text string) []string {
	lines := strings.Split(strings.ReplaceAll(text, "\r", ""), "\n")
	res := make([]string, 0, len(lines))
	for _, l := range lines {
		if strings.TrimSpace(l) == "" {
			continue
		}
		res = append(res, l)
	}
	return res
}

// AddCompany добавляет компанию-поставщика.
func (s *Service) AddCompany(ctx context.Context, id model.Identity, in CompanyInput) (*model.Company, error) {
	return access.GuardValue(id, func() (*model.Company, error) {
		if err := validation.Struct(in); err != nil {
			return nil, err
		}
		c := model.Company{Name: in.Name, WebPage: in.WebPage, Address: in.Address, Telephone: in.Telephone}
		companyID, err := s.repo.CreateCompany(ctx, c)
		if err != nil {
			return nil, err
		}
		c.ID = companyID
		return &c, nil
	})
}

// Companies возвращает список компаний.
func (s *Service) Companies(ctx context.Context, id model.Identity) ([]model.Company, error) {
	return access.GuardValue(id, func() ([]model.Company, error) {
		return s.repo.ListCompanies(ctx)
	})
}

// DaySummary возвращает сегодняшние заказы по компаниям и слотам доставки.
// Ошибка хранилища даёт пустую сводку.
func (s *Service) DaySummary(ctx context.Context, id model.Identity) ([]report.SlotSummary, error) {
	return access.GuardValue(id, func() ([]report.SlotSummary, error) {
		companies, err := s.repo.ListCompanies(ctx)
		if err != nil {
			s.logger.Error("failed to load companies for day summary", zap.Error(err))
			return []report.SlotSummary{}, nil
		}
		today := s.today()
		orders, err := s.repo.OrdersInWindow(ctx, today)
		if err != nil {
			s.logger.Error("failed to load orders for day summary", zap.Error(err))
			orders = nil
		}
		return report.DaySlots(companies, orders, today), nil
	})
}

// EditOrder исправляет заказ. Владелец и дата заказа не меняются.
func (s *Service) EditOrder(ctx context.Context, id model.Identity, orderID int64, in OrderInput) (*model.Order, error) {
	return access.GuardValue(id, func() (*model.Order, error) {
		if err := validation.Struct(in); err != nil {
			return nil, err
		}
		if err := s.requireCompany(ctx, in.Company); err != nil {
			return nil, err
		}

		o, err := s.repo.GetOrder(ctx, orderID)
		if err != nil {
			return nil, err
		}
		o.Company = in.Company
		o.Description = in.Description
		o.Cost = in.Cost
		o.ArrivalTime = in.ArrivalTime

		if err := s.repo.UpdateOrder(ctx, *o); err != nil {
			return nil, err
		}
		return o, nil
	})
}

// DeleteOrder удаляет заказ.
func (s *Service) DeleteOrder(ctx context.Context, id model.Identity, orderID int64) error {
	return access.Guard(id, func() error {
		return s.repo.DeleteOrder(ctx, orderID)
	})
}

// CompanySummary возвращает стоимость заказов по компаниям за месяц.
// Ошибка хранилища даёт пустую сводку.
func (s *Service) CompanySummary(ctx context.Context, id model.Identity, year, month int) (*CompanySummary, error) {
	return access.GuardValue(id, func() (*CompanySummary, error) {
		w, err := calendar.MonthBounds(year, month)
		if err != nil {
			return nil, err
		}
		res := &CompanySummary{
			Year:      year,
			Month:     month,
			MonthName: calendar.MonthName(month),
			Costs:     map[string]decimal.Decimal{},
		}

		companies, err := s.repo.ListCompanies(ctx)
		if err != nil {
			s.logger.Error("failed to load companies for company summary", zap.Error(err))
			return res, nil
		}
		orders, err := s.repo.OrdersInWindow(ctx, w)
		if err != nil {
			s.logger.Error("failed to load orders for company summary", zap.Error(err))
			orders = nil
		}
		res.Costs = report.CompanyRollup(companies, orders, w)
		return res, nil
	})
}

// MailText возвращает тексты рассылок; если они не заданы, возвращаются пустые тексты.
func (s *Service) MailText(ctx context.Context, id model.Identity) (*model.MailText, error) {
	return access.GuardValue(id, func() (*model.MailText, error) {
		t, err := s.mailText(ctx)
		if err != nil {
			return nil, err
		}
		return &t, nil
	})
}

// UpdateMailText создаёт или обновляет тексты рассылок.
func (s *Service) UpdateMailText(ctx context.Context, id model.Identity, t model.MailText) error {
	return access.Guard(id, func() error {
		return s.repo.UpsertMailText(ctx, t)
	})
}
