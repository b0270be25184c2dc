// Package service реализует сценарии сервиса заказа обедов.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/lock"
	"github.com/mmeshcher/lunch-app/internal/model"
	"github.com/mmeshcher/lunch-app/internal/notify"
	"github.com/mmeshcher/lunch-app/internal/random"
	"github.com/mmeshcher/lunch-app/internal/repository"
	"github.com/mmeshcher/lunch-app/internal/validation"
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error

	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	SetDailyReminder(ctx context.Context, userID int64, enabled bool) error

	CreateOrder(ctx context.Context, o model.Order) (int64, error)
	GetOrder(ctx context.Context, id int64) (*model.Order, error)
	UpdateOrder(ctx context.Context, o model.Order) error
	DeleteOrder(ctx context.Context, id int64) error
	OrdersInWindow(ctx context.Context, w calendar.Window) ([]model.Order, error)
	OrdersByUser(ctx context.Context, username string) ([]model.Order, error)
	OrdersByUserInWindow(ctx context.Context, username string, w calendar.Window) ([]model.Order, error)

	FoodsAvailable(ctx context.Context, w calendar.Window) ([]model.Food, error)
	CreateFoods(ctx context.Context, foods []model.Food) (int, error)
	RateFood(ctx context.Context, userID, foodID int64, now time.Time,
		fold func(rateTimestamp *time.Time, current *float64) (float64, error)) (float64, error)

	ListCompanies(ctx context.Context) ([]model.Company, error)
	CreateCompany(ctx context.Context, c model.Company) (int64, error)

	FinancesForMonth(ctx context.Context, month, year int) ([]model.Finance, error)
	UpsertFinances(ctx context.Context, records []model.Finance) error

	GetMailText(ctx context.Context) (*model.MailText, error)
	UpsertMailText(ctx context.Context, t model.MailText) error
}

// OrderInput описывает заказ, созданный или исправленный через форму.
type OrderInput struct {
	Company     string          `json:"company" validate:"required"`
	Description string          `json:"description" validate:"required"`
	Cost        decimal.Decimal `json:"cost" validate:"money"`
	ArrivalTime string          `json:"arrival_time" validate:"arrival"`
	SendMeACopy bool            `json:"send_me_a_copy"`
}

// FoodInput описывает добавление блюда. При Bulk каждая непустая строка
// описания становится отдельным блюдом с общими остальными полями.
type FoodInput struct {
	Company           string          `json:"company" validate:"required"`
	Description       string          `json:"description" validate:"required"`
	Cost              decimal.Decimal `json:"cost" validate:"money"`
	DateAvailableFrom time.Time       `json:"date_available_from" validate:"required"`
	DateAvailableTo   time.Time       `json:"date_available_to" validate:"required,gtefield=DateAvailableFrom"`
	OType             string          `json:"o_type" validate:"foodtype"`
	Bulk              bool            `json:"bulk"`
}

// CompanyInput описывает новую компанию-поставщика.
type CompanyInput struct {
	Name      string `json:"name" validate:"required,max=200"`
	WebPage   string `json:"web_page" validate:"max=200"`
	Address   string `json:"address" validate:"max=500"`
	Telephone string `json:"telephone" validate:"max=50"`
}

// Service содержит сценарии сервиса заказа обедов.
type Service struct {
	repo     Repository
	notifier notify.Notifier
	locker   lock.Locker
	picker   *random.Picker
	logger   *zap.Logger
	now      func() time.Time
}

// NewService создаёт сервис. Если locker не задан, сверка оплат
// сериализуется только транзакцией БД.
func NewService(repo Repository, notifier notify.Notifier, locker lock.Locker, logger *zap.Logger) *Service {
	if locker == nil {
		locker = lock.NopLocker{}
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		locker:   locker,
		picker:   random.NewDefaultPicker(),
		logger:   logger,
		now:      time.Now,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

func (s *Service) today() calendar.Window {
	return calendar.DayBounds(s.now())
}

// mailText возвращает тексты рассылок; отсутствующая запись даёт пустые тексты.
func (s *Service) mailText(ctx context.Context) (model.MailText, error) {
	t, err := s.repo.GetMailText(ctx)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.MailText{}, nil
		}
		return model.MailText{}, err
	}
	return *t, nil
}

// requireCompany проверяет, что заказ или блюдо ссылается на известную компанию.
func (s *Service) requireCompany(ctx context.Context, name string) error {
	companies, err := s.repo.ListCompanies(ctx)
	if err != nil {
		return err
	}
	for _, c := range companies {
		if c.Name == name {
			return nil
		}
	}
	return fmt.Errorf("%w: unknown company %q", validation.ErrInvalid, name)
}

// mailAddress возвращает адрес для писем пользователю: email,
// а если он не заполнен, имя пользователя.
func mailAddress(email, username string) string {
	if email != "" {
		return email
	}
	return username
}

// addressBook сопоставляет имени пользователя его почтовый адрес.
func (s *Service) addressBook(ctx context.Context) (map[string]string, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	book := make(map[string]string, len(users))
	for _, u := range users {
		book[u.Username] = mailAddress(u.Email, u.Username)
	}
	return book, nil
}

func (s *Service) send(ctx context.Context, msg notify.Message) error {
	if s.notifier == nil {
		return nil
	}
	return s.notifier.Send(ctx, msg)
}
