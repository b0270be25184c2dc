// Package rating реализует оценку блюда, заказанного пользователем сегодня.
package rating

import (
	"errors"
	"strings"
	"time"

	"github.com/mmeshcher/lunch-app/internal/calendar"
	"github.com/mmeshcher/lunch-app/internal/model"
)

// Допустимый диапазон оценки.
const (
	MinRate = 1
	MaxRate = 5
)

var (
	// ErrNoOrderToRate возвращается, если пользователь сегодня ничего не заказывал.
	ErrNoOrderToRate = errors.New("no order to rate today")
	// ErrAlreadyRatedToday возвращается при повторной оценке в тот же день.
	ErrAlreadyRatedToday = errors.New("already rated today")
	// ErrInvalidRate возвращается при оценке вне диапазона [1, 5].
	ErrInvalidRate = errors.New("rate must be between 1 and 5")
)

// Choice описывает блюдо, которое можно оценить.
type Choice struct {
	FoodID      int64  `json:"food_id"`
	Description string `json:"description"`
}

// CheckEligible проверяет, может ли пользователь оценить блюдо сегодня.
func CheckEligible(rateTimestamp *time.Time, todayOrder *model.Order, today time.Time) error {
	if todayOrder == nil {
		return ErrNoOrderToRate
	}
	if AlreadyRated(rateTimestamp, today) {
		return ErrAlreadyRatedToday
	}
	return nil
}

// AlreadyRated сообщает, оценивал ли пользователь блюдо в указанный день.
func AlreadyRated(rateTimestamp *time.Time, today time.Time) bool {
	return rateTimestamp != nil && calendar.SameDay(*rateTimestamp, today)
}

// Choices возвращает блюда для оценки. Если описание заказа совпадает
// с блюдом каталога, оценить можно только его.
func Choices(todayFoods []model.Food, order model.Order) []Choice {
	ordered := strings.TrimSpace(order.Description)

	res := make([]Choice, 0, len(todayFoods))
	for _, f := range todayFoods {
		c := Choice{FoodID: f.ID, Description: strings.TrimSpace(f.Description)}
		if c.Description == ordered {
			return []Choice{c}
		}
		res = append(res, c)
	}
	return res
}

// Allowed сообщает, входит ли блюдо в список для оценки.
func Allowed(choices []Choice, foodID int64) bool {
	for _, c := range choices {
		if c.FoodID == foodID {
			return true
		}
	}
	return false
}

// ValidateRate проверяет диапазон оценки.
func ValidateRate(r int) error {
	if r < MinRate || r > MaxRate {
		return ErrInvalidRate
	}
	return nil
}

// Fold добавляет оценку r к текущему рейтингу блюда.
// Рейтинг без оценок становится равным r, иначе (текущий + r) / 2.
func Fold(current *float64, r int) (float64, error) {
	if err := ValidateRate(r); err != nil {
		return 0, err
	}
	if current == nil {
		return float64(r), nil
	}
	return (*current + float64(r)) / 2, nil
}
