package service

import (
	"errors"
	"fmt"

	"finreport/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrYearBeforeBase    = errors.New("year precedes base year")
	ErrInvalidUsefulLife = errors.New("useful life must be positive")
	ErrInvalidYearRange  = errors.New("invalid year range")
)

var two = decimal.NewFromInt(2)

// --- DTOs ---

type YearAmount struct {
	Year   int             `json:"year"`
	Amount decimal.Decimal `json:"amount"`
}

type AssetSchedule struct {
	AssetID  string                   `json:"asset_id"`
	Category string                   `json:"category"`
	Method   model.DepreciationMethod `json:"method"`
	Amounts  []YearAmount             `json:"amounts"`
}

// DepreciationTable is every asset's schedule over a year range plus per-year totals (IDR)
type DepreciationTable struct {
	From   int             `json:"from"`
	To     int             `json:"to"`
	Assets []AssetSchedule `json:"assets"`
	Totals []YearAmount    `json:"totals"`
}

// --- Interface ---

type DepreciationService interface {
	Depreciation(asset model.Asset, year int) (decimal.Decimal, error)
	Schedule(asset model.Asset, from, to int) ([]YearAmount, error)
	TotalForYear(assets []model.Asset, year int) (decimal.Decimal, error)
	Table(assets []model.Asset, from, to int) (DepreciationTable, error)
}

type depreciationService struct{}

func NewDepreciationService() DepreciationService {
	return &depreciationService{}
}

// --- Implementation ---

// Depreciation returns the charge for a single year. Declining balance
// re-simulates the book value from the base year on every call; use
// Schedule for ranges.
func (s *depreciationService) Depreciation(asset model.Asset, year int) (decimal.Decimal, error) {
	if err := checkYear(asset, year); err != nil {
		return decimal.Zero, err
	}
	life := decimal.NewFromInt(int64(asset.UsefulLife))

	switch asset.Method {
	case model.MethodStraightLine:
		return asset.AcquisitionValue.Div(life), nil
	case model.MethodDecliningBalance:
		rate := two.Div(life)
		book := asset.AcquisitionValue
		for y := model.BaseYear; y < year && book.IsPositive(); y++ {
			book = depreciateBook(book, rate)
		}
		return decliningCharge(asset, book, life), nil
	default:
		return decimal.Zero, nil
	}
}

// Schedule yields the same amounts as Depreciation for every year in
// [from, to], carrying the book value forward in one pass.
func (s *depreciationService) Schedule(asset model.Asset, from, to int) ([]YearAmount, error) {
	if to < from {
		return nil, fmt.Errorf("%w: %d-%d", ErrInvalidYearRange, from, to)
	}
	if err := checkYear(asset, from); err != nil {
		return nil, err
	}
	life := decimal.NewFromInt(int64(asset.UsefulLife))
	out := make([]YearAmount, 0, to-from+1)

	switch asset.Method {
	case model.MethodStraightLine:
		charge := asset.AcquisitionValue.Div(life)
		for y := from; y <= to; y++ {
			out = append(out, YearAmount{Year: y, Amount: charge})
		}
	case model.MethodDecliningBalance:
		rate := two.Div(life)
		book := asset.AcquisitionValue
		for y := model.BaseYear; y <= to; y++ {
			if y >= from {
				out = append(out, YearAmount{Year: y, Amount: decliningCharge(asset, book, life)})
			}
			if book.IsPositive() {
				book = depreciateBook(book, rate)
			}
		}
	default:
		for y := from; y <= to; y++ {
			out = append(out, YearAmount{Year: y, Amount: decimal.Zero})
		}
	}
	return out, nil
}

func (s *depreciationService) TotalForYear(assets []model.Asset, year int) (decimal.Decimal, error) {
	total := decimal.Zero
	for _, a := range assets {
		d, err := s.Depreciation(a, year)
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(d)
	}
	return total, nil
}

func (s *depreciationService) Table(assets []model.Asset, from, to int) (DepreciationTable, error) {
	if to < from {
		return DepreciationTable{}, fmt.Errorf("%w: %d-%d", ErrInvalidYearRange, from, to)
	}
	table := DepreciationTable{
		From:   from,
		To:     to,
		Assets: make([]AssetSchedule, 0, len(assets)),
	}
	totals := make(map[int]decimal.Decimal)

	for _, a := range assets {
		amounts, err := s.Schedule(a, from, to)
		if err != nil {
			return DepreciationTable{}, fmt.Errorf("asset %s: %w", a.ID, err)
		}
		for _, ya := range amounts {
			totals[ya.Year] = totals[ya.Year].Add(ya.Amount)
		}
		table.Assets = append(table.Assets, AssetSchedule{
			AssetID:  a.ID,
			Category: a.Category,
			Method:   a.Method,
			Amounts:  amounts,
		})
	}

	for y := from; y <= to; y++ {
		table.Totals = append(table.Totals, YearAmount{Year: y, Amount: totals[y]})
	}
	return table, nil
}

// --- Helpers ---

func checkYear(asset model.Asset, year int) error {
	if year < model.BaseYear {
		return fmt.Errorf("%w %d: %d", ErrYearBeforeBase, model.BaseYear, year)
	}
	if asset.UsefulLife <= 0 {
		return fmt.Errorf("asset %s: %w", asset.ID, ErrInvalidUsefulLife)
	}
	return nil
}

// decliningCharge is acquisition value times the double-declining rate while
// the simulated book value stays positive.
func decliningCharge(asset model.Asset, book, life decimal.Decimal) decimal.Decimal {
	if !book.IsPositive() {
		return decimal.Zero
	}
	return asset.AcquisitionValue.Mul(two).Div(life)
}

// depreciateBook applies one year at rate. The book value is floored at 0:
// with a rate above 1 (life 1) it would otherwise swing negative and back.
func depreciateBook(book, rate decimal.Decimal) decimal.Decimal {
	next := book.Sub(book.Mul(rate))
	if next.IsNegative() {
		return decimal.Zero
	}
	return next
}
