package pricing

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-ParkingService/internal/domain"
)

// Границы ступеней в минутах
const (
	minutesInHour = 60
	upTo2hLimit   = 2 * minutesInHour
	upTo4hLimit   = 4 * minutesInHour
	minutesInDay  = 24 * minutesInHour
)

// MissingTierPolicy поведение при отсутствии цены для ступени
type MissingTierPolicy string

const (
	MissingTierError MissingTierPolicy = "error"
	MissingTierZero  MissingTierPolicy = "zero"
)

// UnknownChargePolicy поведение для неизвестных/неактивных опций
type UnknownChargePolicy string

const (
	UnknownChargeIgnore UnknownChargePolicy = "ignore"
	UnknownChargeError  UnknownChargePolicy = "error"
)

type Policy struct {
	MissingTier   MissingTierPolicy
	UnknownCharge UnknownChargePolicy
}

func DefaultPolicy() Policy {
	return Policy{MissingTier: MissingTierError, UnknownCharge: UnknownChargeIgnore}
}

// ParsePolicy собирает политику из строковых значений конфигурации
func ParsePolicy(missingTier, unknownCharge string) (Policy, error) {
	p := Policy{
		MissingTier:   MissingTierPolicy(missingTier),
		UnknownCharge: UnknownChargePolicy(unknownCharge),
	}
	switch p.MissingTier {
	case MissingTierError, MissingTierZero:
	default:
		return Policy{}, fmt.Errorf("%w: missing tier policy %q", ErrInvalidPolicy, missingTier)
	}
	switch p.UnknownCharge {
	case UnknownChargeIgnore, UnknownChargeError:
	default:
		return Policy{}, fmt.Errorf("%w: unknown charge policy %q", ErrInvalidPolicy, unknownCharge)
	}
	return p, nil
}

// Input входные данные расчета
type Input struct {
	SiteID      int64
	VehicleType domain.VehicleType
	Start       time.Time
	End         time.Time
	// Pricings цены парковки, строки других типов ТС игнорируются
	Pricings []*domain.Pricing
	// Charges опции-кандидаты (найденные по запрошенным ID)
	Charges           []*domain.OptionalCharge
	OptionalChargeIDs []int64
}

// Breakdown результат расчета
type Breakdown struct {
	DurationMinutes int
	Tier            domain.Tier
	// Days число суток для тарифа full_day, 0 для коротких ступеней
	Days           int
	BaseAmount     decimal.Decimal
	OptionalAmount decimal.Decimal
	TotalAmount    decimal.Decimal
	// AppliedChargeIDs опции, вошедшие в сумму (без дублей, в порядке запроса)
	AppliedChargeIDs []int64
}

// Engine расчет стоимости парковки
// Чистая функция от входных данных: без ввода-вывода и без состояния
type Engine struct {
	policy Policy
}

func NewEngine(policy Policy) *Engine {
	return &Engine{policy: policy}
}

// Calculate считает стоимость бронирования
func (e *Engine) Calculate(in Input) (*Breakdown, error) {
	if !in.End.After(in.Start) {
		return nil, ErrInvalidTimeRange
	}

	minutes := int(in.End.Sub(in.Start) / time.Minute)
	tier, days := selectTier(minutes)

	price, ok := findPrice(in.Pricings, in.VehicleType, tier)
	if !ok {
		if e.policy.MissingTier != MissingTierZero {
			return nil, fmt.Errorf("%w: vehicle=%s tier=%s", ErrTierNotConfigured, in.VehicleType, tier)
		}
		price = decimal.Zero
	}

	base := price
	if days > 0 {
		base = price.Mul(decimal.NewFromInt(int64(days)))
	}
	base = base.Round(domain.AmountDecimalExp)

	optional, applied, err := e.sumCharges(in)
	if err != nil {
		return nil, err
	}
	optional = optional.Round(domain.AmountDecimalExp)

	return &Breakdown{
		DurationMinutes:  minutes,
		Tier:             tier,
		Days:             days,
		BaseAmount:       base,
		OptionalAmount:   optional,
		TotalAmount:      base.Add(optional).Round(domain.AmountDecimalExp),
		AppliedChargeIDs: applied,
	}, nil
}

// selectTier первая подходящая ступень: <=2ч, <=4ч, <24ч, иначе ceil(часы/24) суток
func selectTier(minutes int) (domain.Tier, int) {
	switch {
	case minutes <= upTo2hLimit:
		return domain.TierUpTo2h, 0
	case minutes <= upTo4hLimit:
		return domain.TierUpTo4h, 0
	case minutes < minutesInDay:
		return domain.TierFullDay, 0
	default:
		return domain.TierFullDay, (minutes + minutesInDay - 1) / minutesInDay
	}
}

func findPrice(pricings []*domain.Pricing, vehicle domain.VehicleType, tier domain.Tier) (decimal.Decimal, bool) {
	for _, p := range pricings {
		if p.VehicleType == vehicle && p.Tier == tier {
			return p.Price, true
		}
	}
	return decimal.Zero, false
}

func (e *Engine) sumCharges(in Input) (decimal.Decimal, []int64, error) {
	if len(in.OptionalChargeIDs) == 0 {
		return decimal.Zero, nil, nil
	}

	byID := make(map[int64]*domain.OptionalCharge, len(in.Charges))
	for _, c := range in.Charges {
		byID[c.ID] = c
	}

	sum := decimal.Zero
	seen := make(map[int64]struct{}, len(in.OptionalChargeIDs))
	applied := make([]int64, 0, len(in.OptionalChargeIDs))

	for _, id := range in.OptionalChargeIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}

		c, ok := byID[id]
		if !ok || !c.IsActive || !c.AppliesTo(in.SiteID) {
			if e.policy.UnknownCharge == UnknownChargeError {
				return decimal.Zero, nil, fmt.Errorf("%w: id=%d", ErrUnknownOptionalCharge, id)
			}
			continue
		}

		sum = sum.Add(c.Amount)
		applied = append(applied, id)
	}

	return sum, applied, nil
}
