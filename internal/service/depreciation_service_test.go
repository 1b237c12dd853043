package service

import (
	"errors"
	"testing"

	"finreport/internal/model"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDepreciationStraightLine(t *testing.T) {
	svc := NewDepreciationService()
	a001 := model.Asset{ID: "A001", Category: "Mesin", AcquisitionValue: dec("500000000"), UsefulLife: 10, Method: model.MethodStraightLine}

	for year := 2023; year <= 2027; year++ {
		got, err := svc.Depreciation(a001, year)
		if err != nil {
			t.Fatalf("Depreciation(%d) error = %v", year, err)
		}
		if !got.Equal(dec("50000000")) {
			t.Errorf("Depreciation(%d) = %s, want 50000000", year, got)
		}
	}
	if got, _ := svc.Depreciation(a001, 2090); !got.Equal(dec("50000000")) {
		t.Errorf("Depreciation(2090) = %s, want time-invariant 50000000", got)
	}
}

func TestDepreciationDecliningBalance(t *testing.T) {
	svc := NewDepreciationService()
	tests := []struct {
		name  string
		asset model.Asset
		want  string
	}{
		{"A003", model.Asset{ID: "A003", AcquisitionValue: dec("1000000000"), UsefulLife: 20, Method: model.MethodDecliningBalance}, "100000000"},
		{"A005", model.Asset{ID: "A005", AcquisitionValue: dec("750000000"), UsefulLife: 12, Method: model.MethodDecliningBalance}, "125000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for year := 2023; year <= 2027; year++ {
				got, err := svc.Depreciation(tt.asset, year)
				if err != nil {
					t.Fatalf("Depreciation(%d) error = %v", year, err)
				}
				if !got.Equal(dec(tt.want)) {
					t.Errorf("Depreciation(%d) = %s, want %s", year, got, tt.want)
				}
			}
		})
	}
}

func TestDecliningBalanceNonIncreasingAndNonNegative(t *testing.T) {
	svc := NewDepreciationService()
	for _, life := range []int{1, 2, 3, 5, 12} {
		asset := model.Asset{ID: "X", AcquisitionValue: dec("1000000"), UsefulLife: life, Method: model.MethodDecliningBalance}
		prev := decimal.Zero
		for year := 2023; year <= 2040; year++ {
			got, err := svc.Depreciation(asset, year)
			if err != nil {
				t.Fatalf("life %d: Depreciation(%d) error = %v", life, year, err)
			}
			if got.IsNegative() {
				t.Errorf("life %d: Depreciation(%d) = %s is negative", life, year, got)
			}
			if year > 2023 && got.GreaterThan(prev) {
				t.Errorf("life %d: Depreciation(%d) = %s exceeds previous %s", life, year, got, prev)
			}
			prev = got
		}
	}
}

func TestDecliningBalanceStopsOnceBookValueExhausted(t *testing.T) {
	svc := NewDepreciationService()
	// rate = 2/2 wipes the book value after one year
	asset := model.Asset{ID: "X", AcquisitionValue: dec("1000"), UsefulLife: 2, Method: model.MethodDecliningBalance}

	first, _ := svc.Depreciation(asset, 2023)
	if !first.Equal(dec("1000")) {
		t.Errorf("Depreciation(2023) = %s, want 1000", first)
	}
	second, _ := svc.Depreciation(asset, 2024)
	if !second.IsZero() {
		t.Errorf("Depreciation(2024) = %s, want 0", second)
	}
}

func TestDecliningBalanceLifeOneStaysExhausted(t *testing.T) {
	svc := NewDepreciationService()
	// rate = 2 would take the book value to -V and back to V without a floor
	asset := model.Asset{ID: "X", AcquisitionValue: dec("1000000"), UsefulLife: 1, Method: model.MethodDecliningBalance}

	want := []string{"2000000", "0", "0", "0", "0"}
	schedule, err := svc.Schedule(asset, 2023, 2027)
	if err != nil {
		t.Fatalf("Schedule() error = %v", err)
	}
	for i, w := range want {
		year := 2023 + i
		got, err := svc.Depreciation(asset, year)
		if err != nil {
			t.Fatalf("Depreciation(%d) error = %v", year, err)
		}
		if !got.Equal(dec(w)) {
			t.Errorf("Depreciation(%d) = %s, want %s", year, got, w)
		}
		if !schedule[i].Amount.Equal(dec(w)) {
			t.Errorf("Schedule %d = %s, want %s", year, schedule[i].Amount, w)
		}
	}
}

func TestScheduleMatchesDepreciation(t *testing.T) {
	svc := NewDepreciationService()
	assets := []model.Asset{
		{ID: "SL", AcquisitionValue: dec("200000000"), UsefulLife: 8, Method: model.MethodStraightLine},
		{ID: "DB", AcquisitionValue: dec("750000000"), UsefulLife: 12, Method: model.MethodDecliningBalance},
		{ID: "DB1", AcquisitionValue: dec("10"), UsefulLife: 1, Method: model.MethodDecliningBalance},
	}
	for _, a := range assets {
		schedule, err := svc.Schedule(a, 2025, 2032)
		if err != nil {
			t.Fatalf("%s: Schedule() error = %v", a.ID, err)
		}
		if len(schedule) != 8 {
			t.Fatalf("%s: schedule length = %d, want 8", a.ID, len(schedule))
		}
		for _, ya := range schedule {
			want, _ := svc.Depreciation(a, ya.Year)
			if !ya.Amount.Equal(want) {
				t.Errorf("%s %d: schedule %s, Depreciation %s", a.ID, ya.Year, ya.Amount, want)
			}
		}
	}
}

func TestDepreciationErrors(t *testing.T) {
	svc := NewDepreciationService()
	ok := model.Asset{ID: "A", AcquisitionValue: dec("100"), UsefulLife: 5, Method: model.MethodStraightLine}

	if _, err := svc.Depreciation(ok, 2022); !errors.Is(err, ErrYearBeforeBase) {
		t.Errorf("year before base: error = %v", err)
	}
	zeroLife := ok
	zeroLife.UsefulLife = 0
	if _, err := svc.Depreciation(zeroLife, 2023); !errors.Is(err, ErrInvalidUsefulLife) {
		t.Errorf("zero life: error = %v", err)
	}
	if _, err := svc.Schedule(ok, 2027, 2023); !errors.Is(err, ErrInvalidYearRange) {
		t.Errorf("inverted range: error = %v", err)
	}

	unknown := ok
	unknown.Method = model.DepreciationMethod("units_of_production")
	got, err := svc.Depreciation(unknown, 2024)
	if err != nil || !got.IsZero() {
		t.Errorf("unknown method = %s, %v; want 0, nil", got, err)
	}
}

func TestTotalForYearAndTable(t *testing.T) {
	svc := NewDepreciationService()
	ds := loadEmbedded(t)

	total, err := svc.TotalForYear(ds.Assets, 2023)
	if err != nil {
		t.Fatalf("TotalForYear() error = %v", err)
	}
	// 50M + 60M + 100M + 25M + 125M
	if !total.Equal(dec("360000000")) {
		t.Errorf("TotalForYear(2023) = %s, want 360000000", total)
	}

	table, err := svc.Table(ds.Assets, 2023, 2027)
	if err != nil {
		t.Fatalf("Table() error = %v", err)
	}
	if len(table.Assets) != 5 || len(table.Totals) != 5 {
		t.Fatalf("table has %d assets and %d totals", len(table.Assets), len(table.Totals))
	}
	for _, ya := range table.Totals {
		want, _ := svc.TotalForYear(ds.Assets, ya.Year)
		if !ya.Amount.Equal(want) {
			t.Errorf("total %d = %s, want %s", ya.Year, ya.Amount, want)
		}
	}
}
