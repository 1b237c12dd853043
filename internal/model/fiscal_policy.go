package model

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var ErrMissingFiscalPolicy = errors.New("no fiscal policy for year")

// FiscalPolicy stores the corporate tax rate and the tax holiday window for one year
type FiscalPolicy struct {
	Year         int             `gorm:"primaryKey;autoIncrement:false" json:"year"`
	TaxRate      decimal.Decimal `gorm:"type:decimal(10,4);not null" json:"tax_rate"` // e.g. 0.22 = 22%
	HolidayStart time.Time       `gorm:"type:date;not null" json:"tax_holiday_start"`
	HolidayEnd   time.Time       `gorm:"type:date;not null" json:"tax_holiday_end"`
}

func (p FiscalPolicy) Validate() error {
	if p.TaxRate.IsNegative() || p.TaxRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("fiscal policy %d: tax rate %s out of range [0, 1]", p.Year, p.TaxRate)
	}
	if p.HolidayEnd.Before(p.HolidayStart) {
		return fmt.Errorf("fiscal policy %d: tax holiday ends before it starts", p.Year)
	}
	return nil
}

// CoversHoliday reports whether t falls inside the tax holiday window, bounds inclusive.
func (p FiscalPolicy) CoversHoliday(t time.Time) bool {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	start := time.Date(p.HolidayStart.Year(), p.HolidayStart.Month(), p.HolidayStart.Day(), 0, 0, 0, 0, time.UTC)
	end := time.Date(p.HolidayEnd.Year(), p.HolidayEnd.Month(), p.HolidayEnd.Day(), 0, 0, 0, 0, time.UTC)
	return !day.Before(start) && !day.After(end)
}

// PolicyIndex maps a fiscal year to its policy
type PolicyIndex map[int]FiscalPolicy

func IndexPolicies(policies []FiscalPolicy) PolicyIndex {
	idx := make(PolicyIndex, len(policies))
	for _, p := range policies {
		idx[p.Year] = p
	}
	return idx
}

// Lookup fails loudly for a year without a policy.
func (idx PolicyIndex) Lookup(year int) (FiscalPolicy, error) {
	p, ok := idx[year]
	if !ok {
		return FiscalPolicy{}, fmt.Errorf("%w %d", ErrMissingFiscalPolicy, year)
	}
	return p, nil
}
