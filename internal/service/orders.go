package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/notify"
	"github.com/mmeshcher/lunch-app/internal/random"
	"github.com/mmeshcher/lunch-app/internal/rating"
	"github.com/mmeshcher/lunch-app/internal/report"
	"github.com/mmeshcher/lunch-app/internal/validation"
)

// InfoPlaceholder показывается вместо информационной страницы, если текст не задан.
const InfoPlaceholder = "None"

// Overview описывает настройки пользователя.
type Overview struct {
	Username           string `json:"username"`
	Email              string `json:"email"`
	IWantDailyReminder bool   `json:"i_want_daily_reminder"`
}

// OrderForm содержит данные для оформления заказа.
type OrderForm struct {
	Companies []model.Company `json:"companies"`
	Foods     []model.Food    `json:"foods"`
}

// OrderList содержит заказы и их общую стоимость.
type OrderList struct {
	Orders []model.Order   `json:"orders"`
	Total  decimal.Decimal `json:"total"`
}

// UserYear содержит помесячную сводку заказов пользователя за год.
type UserYear struct {
	Username string                `json:"username"`
	Year     int                   `json:"year"`
	Months   []report.MonthSummary `json:"months"`
}

// UserMonth содержит заказы пользователя за месяц.
type UserMonth struct {
	OrderList
	Username  string `json:"username"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	MonthName string `json:"month_name"`
}

// RandomMeal содержит выбранное блюдо и, если заказ оформлен, сам заказ.
type RandomMeal struct {
	Candidate random.Candidate `json:"candidate"`
	Order     *model.Order     `json:"order,omitempty"`
}

func newOrderList(orders []model.Order) OrderList {
	if orders == nil {
		orders = []model.Order{}
	}
	return OrderList{Orders: orders, Total: report.Total(orders)}
}

// Overview возвращает настройки вызывающего пользователя.
func (s *Service) Overview(ctx context.Context, id model.Identity) (*Overview, error) {
	u, err := s.repo.GetUserByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	return &Overview{Username: u.Username, Email: u.Email, IWantDailyReminder: u.IWantDailyReminder}, nil
}

// SetDailyReminder включает или отключает ежедневное напоминание вызывающему пользователю.
func (s *Service) SetDailyReminder(ctx context.Context, id model.Identity, enabled bool) error {
	return s.repo.SetDailyReminder(ctx, id.UserID, enabled)
}

// OrderForm возвращает компании и блюда, доступные сегодня.
func (s *Service) OrderForm(ctx context.Context, _ model.Identity) (*OrderForm, error) {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return nil, err
	}
	foods, err := s.repo.FoodsAvailable(ctx, s.today())
	if err != nil {
		return nil, err
	}
	return &OrderForm{Companies: companies, Foods: foods}, nil
}

// PlaceOrder создаёт заказ вызывающего пользователя на текущий момент.
// Ошибка отправки копии заказа не отменяет сам заказ.
func (s *Service) PlaceOrder(ctx context.Context, id model.Identity, in OrderInput) (*model.Order, error) {
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	if err := s.requireCompany(ctx, in.Company); err != nil {
		return nil, err
	}

	o := model.Order{
		UserName:    id.Username,
		Company:     in.Company,
		Description: in.Description,
		Cost:        in.Cost,
		Date:        s.now(),
		ArrivalTime: in.ArrivalTime,
	}
	orderID, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return nil, err
	}
	o.ID = orderID

	if in.SendMeACopy {
		if err := s.send(ctx, notify.OrderCopy(o, mailAddress(id.Email, id.Username))); err != nil {
			s.logger.Error("failed to send order copy", zap.Int64("order_id", o.ID), zap.Error(err))
		}
	}

	return &o, nil
}

// MyOrders возвращает все заказы вызывающего пользователя.
func (s *Service) MyOrders(ctx context.Context, id model.Identity) (*OrderList, error) {
	orders, err := s.repo.OrdersByUser(ctx, id.Username)
	if err != nil {
		return nil, err
	}
	l := newOrderList(orders)
	return &l, nil
}

// OrderDetails возвращает заказ по идентификатору.
func (s *Service) OrderDetails(ctx context.Context, _ model.Identity, orderID int64) (*model.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

// Info возвращает строки информационной страницы. Если текст не задан
// или короче двух строк, возвращается InfoPlaceholder.
func (s *Service) Info(ctx context.Context) []string {
	t, err := s.repo.GetMailText(ctx)
	if err != nil {
		s.logger.Debug("info page text unavailable", zap.Error(err))
		return []string{InfoPlaceholder}
	}

	lines := strings.Split(t.InfoPageText, "\n")
	if len(lines) < 2 {
		return []string{InfoPlaceholder}
	}
	return lines
}

// UserYear возвращает помесячную сводку заказов пользователя за год.
// Ошибка чтения заказов даёт нулевую сводку.
func (s *Service) UserYear(ctx context.Context, _ model.Identity, userID int64, year int) (*UserYear, error) {
	w, err := calendar.YearBounds(year)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.OrdersByUserInWindow(ctx, u.Username, w)
	if err != nil {
		s.logger.Error("failed to load orders for year summary", zap.Int64("user_id", userID), zap.Error(err))
		orders = nil
	}

	months, err := report.MonthlyRollup(orders, u.Username, year)
	if err != nil {
		return nil, err
	}
	return &UserYear{Username: u.Username, Year: year, Months: months}, nil
}

// UserMonth возвращает заказы пользователя за месяц.
// Ошибка чтения заказов даёт пустой список.
func (s *Service) UserMonth(ctx context.Context, _ model.Identity, userID int64, year, month int) (*UserMonth, error) {
	w, err := calendar.MonthBounds(year, month)
	if err != nil {
		return nil, err
	}
	u, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	orders, err := s.repo.OrdersByUserInWindow(ctx, u.Username, w)
	if err != nil {
		s.logger.Error("failed to load orders for month summary", zap.Int64("user_id", userID), zap.Error(err))
		orders = nil
	}

	return &UserMonth{
		OrderList: newOrderList(report.Filter(orders, report.InWindow(w))),
		Username:  u.Username,
		Year:      year,
		Month:     month,
		MonthName: calendar.MonthName(month),
	}, nil
}

// RandomMeal выбирает случайное блюдо. При ненулевой смелости
// сразу оформляет заказ на вызывающего пользователя.
func (s *Service) RandomMeal(ctx context.Context, id model.Identity, courage random.Courage) (*RandomMeal, error) {
	today := s.today()
	orders, err := s.repo.OrdersInWindow(ctx, today)
	if err != nil {
		return nil, err
	}
	foods, err := s.repo.FoodsAvailable(ctx, today)
	if err != nil {
		return nil, err
	}

	c, err := s.picker.Pick(orders, foods)
	if err != nil {
		return nil, err
	}

	res := &RandomMeal{Candidate: c}
	if !courage.Commits() {
		return res, nil
	}

	o := random.NewOrder(c, id.Username, courage, s.now())
	orderID, err := s.repo.CreateOrder(ctx, o)
	if err != nil {
		return nil, err
	}
	o.ID = orderID
	res.Order = &o
	return res, nil
}

// todayOrder возвращает первый сегодняшний заказ пользователя или nil.
func (s *Service) todayOrder(ctx context.Context, username string) (*model.Order, error) {
	orders, err := s.repo.OrdersByUserInWindow(ctx, username, s.today())
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, nil
	}
	return &orders[0], nil
}

// RateChoices возвращает блюда, которые вызывающий пользователь может оценить сегодня.
func (s *Service) RateChoices(ctx context.Context, id model.Identity) ([]rating.Choice, error) {
	u, err := s.repo.GetUserByID(ctx, id.UserID)
	if err != nil {
		return nil, err
	}
	order, err := s.todayOrder(ctx, u.Username)
	if err != nil {
		return nil, err
	}
	if err := rating.CheckEligible(u.RateTimestamp, order, s.now()); err != nil {
		return nil, err
	}

	foods, err := s.repo.FoodsAvailable(ctx, s.today())
	if err != nil {
		return nil, err
	}
	return rating.Choices(foods, *order), nil
}

// RateFood сохраняет оценку блюда и возвращает его новый рейтинг.
func (s *Service) RateFood(ctx context.Context, id model.Identity, foodID int64, rate int) (float64, error) {
	if err := rating.ValidateRate(rate); err != nil {
		return 0, err
	}

	choices, err := s.RateChoices(ctx, id)
	if err != nil {
		return 0, err
	}
	if !rating.Allowed(choices, foodID) {
		return 0, fmt.Errorf("%w: food %d cannot be rated today", validation.ErrInvalid, foodID)
	}

	now := s.now()
	return s.repo.RateFood(ctx, id.UserID, foodID, now, func(rateTimestamp *time.Time, current *float64) (float64, error) {
		if rating.AlreadyRated(rateTimestamp, now) {
			return 0, rating.ErrAlreadyRatedToday
		}
		return rating.Fold(current, rate)
	})
}
