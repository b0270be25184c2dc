// Package model содержит доменные сущности сервиса заказа обедов.
package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Допустимые слоты доставки заказа.
const (
	ArrivalLunch     = "12:00"
	ArrivalAfternoon = "13:00"
)

// Категории блюд в каталоге.
const (
	FoodTypeDishOfTheDay = "daniednia"
	FoodTypeMenu         = "menu"
)

// User представляет сотрудника, который заказывает обеды.
type User struct {
	ID                 int64
	Username           string
	Email              string
	IsAdmin            bool
	IWantDailyReminder bool
	RateTimestamp      *time.Time
}

// Identity описывает текущего вызывающего пользователя.
// Передаётся в каждую операцию явно, вместо глобального "текущего пользователя".
type Identity struct {
	UserID        int64
	Username      string
	Email         string
	IsAdmin       bool
	Anonymous     bool
	RateTimestamp *time.Time
}

// AnonymousIdentity возвращает идентичность неаутентифицированного клиента.
func AnonymousIdentity() Identity {
	return Identity{Anonymous: true}
}

// IdentityFromUser строит идентичность из записи пользователя.
func IdentityFromUser(u *User) Identity {
	return Identity{
		UserID:        u.ID,
		Username:      u.Username,
		Email:         u.Email,
		IsAdmin:       u.IsAdmin,
		RateTimestamp: u.RateTimestamp,
	}
}

// Order описывает заказ обеда пользователем.
type Order struct {
	ID          int64           `json:"id"`
	UserName    string          `json:"user_name"`
	Company     string          `json:"company"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	Date        time.Time       `json:"date"`
	ArrivalTime string          `json:"arrival_time"`
}

// Food описывает позицию каталога блюд, доступную в интервале дат.
type Food struct {
	ID                int64           `json:"id"`
	Company           string          `json:"company"`
	Description       string          `json:"description"`
	Cost              decimal.Decimal `json:"cost"`
	DateAvailableFrom time.Time       `json:"date_available_from"`
	DateAvailableTo   time.Time       `json:"date_available_to"`
	OType             string          `json:"o_type"`
	Rating            *float64        `json:"rating,omitempty"`
}

// Finance хранит отметку об оплате пользователем обедов за месяц.
type Finance struct {
	ID         int64
	UserName   string
	Month      int
	Year       int
	DidUserPay bool
}

// Company описывает поставщика обедов.
type Company struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	WebPage   string `json:"web_page"`
	Address   string `json:"address"`
	Telephone string `json:"telephone"`
}

// MailText содержит тексты рассылок и информационной страницы.
type MailText struct {
	DailyReminder        string `json:"daily_reminder"`
	DailyReminderSubject string `json:"daily_reminder_subject"`
	MonthlyPaySummary    string `json:"monthly_pay_summary"`
	PayReminder          string `json:"pay_reminder"`
	PaySlackerReminder   string `json:"pay_slacker_reminder"`
	InfoPageText         string `json:"info_page_text"`
}
