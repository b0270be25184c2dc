// Package random выбирает случайное блюдо для пользователя:
// среди самых популярных сегодня или среди доступных в каталоге.
package random

import (
	"errors"
	"math/rand/v2"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/lunch-app/internal/model"
)

// Marker добавляется в описание заказа, сделанного случайным выбором.
const Marker = "!RANDOM ORDER!\n"

// topSize задаёт число самых популярных блюд, из которых делается выбор.
const topSize = 3

var (
	// ErrNoCandidateAvailable возвращается, если выбрать блюдо не из чего.
	ErrNoCandidateAvailable = errors.New("no candidate available")
	// ErrInvalidCourage возвращается при неизвестном значении смелости.
	ErrInvalidCourage = errors.New("invalid courage")
)

// Courage определяет, только показать выбранное блюдо или сразу его заказать.
type Courage int

const (
	CouragePreview Courage = iota
	CourageLunch
	CourageAfternoon
)

// ParseCourage разбирает значение смелости из параметра запроса.
func ParseCourage(s string) (Courage, error) {
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrInvalidCourage
	}
	c := Courage(v)
	if c < CouragePreview || c > CourageAfternoon {
		return 0, ErrInvalidCourage
	}
	return c, nil
}

// Commits сообщает, нужно ли создавать заказ.
func (c Courage) Commits() bool {
	return c == CourageLunch || c == CourageAfternoon
}

// Arrival возвращает слот доставки, соответствующий смелости.
func (c Courage) Arrival() string {
	if c == CourageAfternoon {
		return model.ArrivalAfternoon
	}
	return model.ArrivalLunch
}

// Candidate описывает выбранное блюдо.
type Candidate struct {
	Company     string          `json:"company"`
	Description string          `json:"description"`
	Cost        decimal.Decimal `json:"cost"`
	ArrivalTime string          `json:"arrival_time"`
}

// Picker выбирает случайное блюдо. Безопасен для конкурентного использования.
type Picker struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewPicker создаёт Picker с указанным источником случайности.
func NewPicker(src rand.Source) *Picker {
	return &Picker{rnd: rand.New(src)}
}

// NewDefaultPicker создаёт Picker, инициализированный текущим временем.
func NewDefaultPicker() *Picker {
	seed := uint64(time.Now().UnixNano())
	return NewPicker(rand.NewPCG(seed, seed>>1))
}

func (p *Picker) intN(n int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rnd.IntN(n)
}

// Pick выбирает блюдо по сегодняшним заказам и доступному каталогу.
// Если сегодня заказано хотя бы три разных блюда, выбор делается среди
// трёх самых популярных; иначе среди блюд каталога, кроме общего меню.
func (p *Picker) Pick(todayOrders []model.Order, todayFoods []model.Food) (Candidate, error) {
	top := mostCommon(todayOrders)
	if len(top) >= topSize {
		description := top[p.intN(topSize)]
		for _, o := range todayOrders {
			if o.Description == description {
				return newCandidate(o.Company, o.Description, o.Cost), nil
			}
		}
	}

	pool := make([]model.Food, 0, len(todayFoods))
	for _, f := range todayFoods {
		if f.OType != model.FoodTypeMenu {
			pool = append(pool, f)
		}
	}
	if len(pool) == 0 {
		return Candidate{}, ErrNoCandidateAvailable
	}

	f := pool[p.intN(len(pool))]
	return newCandidate(f.Company, f.Description, f.Cost), nil
}

func newCandidate(company, description string, cost decimal.Decimal) Candidate {
	return Candidate{
		Company:     company,
		Description: strings.TrimPrefix(description, Marker),
		Cost:        cost,
		ArrivalTime: model.ArrivalLunch,
	}
}

// mostCommon возвращает описания блюд по убыванию числа заказов.
// При равенстве раньше идёт блюдо, встретившееся первым.
func mostCommon(orders []model.Order) []string {
	counts := make(map[string]int)
	order := make([]string, 0)
	for _, o := range orders {
		if _, ok := counts[o.Description]; !ok {
			order = append(order, o.Description)
		}
		counts[o.Description]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// NewOrder строит заказ пользователя по выбранному блюду.
func NewOrder(c Candidate, username string, courage Courage, now time.Time) model.Order {
	return model.Order{
		UserName:    username,
		Company:     c.Company,
		Description: Marker + c.Description,
		Cost:        c.Cost,
		Date:        now,
		ArrivalTime: courage.Arrival(),
	}
}
