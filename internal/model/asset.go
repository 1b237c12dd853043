package model

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// BaseYear is the first fiscal year covered by the dataset. Depreciation
// simulations start here.
const BaseYear = 2023

// DepreciationMethod enum constants
type DepreciationMethod string

const (
	MethodStraightLine     DepreciationMethod = "straight_line"
	MethodDecliningBalance DepreciationMethod = "declining_balance"
)

var ErrUnknownMethod = errors.New("unknown depreciation method")

// ParseDepreciationMethod accepts the canonical codes and the bookkeeping
// labels used in the source ledgers.
func ParseDepreciationMethod(s string) (DepreciationMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "straight_line", "straight-line", "garis lurus":
		return MethodStraightLine, nil
	case "declining_balance", "declining-balance", "saldo menurun":
		return MethodDecliningBalance, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

func (m DepreciationMethod) Label() string {
	switch m {
	case MethodStraightLine:
		return "Straight-line"
	case MethodDecliningBalance:
		return "Declining-balance"
	}
	return string(m)
}

// Asset is a fixed asset held on the books
type Asset struct {
	ID               string             `gorm:"type:varchar(20);primaryKey" json:"id"`
	Category         string             `gorm:"type:varchar(100);not null;index" json:"category"`
	AcquisitionValue decimal.Decimal    `gorm:"type:decimal(20,2);not null" json:"acquisition_value"` // IDR
	UsefulLife       int                `gorm:"not null" json:"useful_life"`                          // Years
	Method           DepreciationMethod `gorm:"type:varchar(30);not null" json:"method"`
}

// Validate checks the invariants that the depreciation calculator relies on.
func (a Asset) Validate() error {
	if a.ID == "" {
		return errors.New("asset id is required")
	}
	if a.UsefulLife <= 0 {
		return fmt.Errorf("asset %s: useful life must be positive, got %d", a.ID, a.UsefulLife)
	}
	if a.AcquisitionValue.IsNegative() {
		return fmt.Errorf("asset %s: acquisition value must not be negative", a.ID)
	}
	if _, err := ParseDepreciationMethod(string(a.Method)); err != nil {
		return fmt.Errorf("asset %s: %w", a.ID, err)
	}
	return nil
}
