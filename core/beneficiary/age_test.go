package beneficiary

import (
	"testing"
	"time"

	"github.com/trezcool/divyang/core"
)

func TestCalculateAge(t *testing.T) {
	date := func(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name string
		dob  time.Time
		asOf time.Time
		want int
	}{
		{name: "day before birthday", dob: date(2000, 6, 15), asOf: date(2024, 6, 14), want: 23},
		{name: "on birthday", dob: date(2000, 6, 15), asOf: date(2024, 6, 15), want: 24},
		{name: "day after birthday", dob: date(2000, 6, 15), asOf: date(2024, 6, 16), want: 24},
		{name: "earlier month", dob: date(2000, 6, 15), asOf: date(2024, 5, 30), want: 23},
		{name: "later month", dob: date(2000, 6, 15), asOf: date(2024, 7, 1), want: 24},
		{name: "born today", dob: date(2024, 6, 15), asOf: date(2024, 6, 15), want: 0},
		{name: "leap day before feb 29", dob: date(2004, 2, 29), asOf: date(2023, 2, 28), want: 18},
		{name: "leap day on mar 1", dob: date(2004, 2, 29), asOf: date(2023, 3, 1), want: 19},
		{name: "future dob", dob: date(2030, 1, 1), asOf: date(2024, 6, 15), want: -6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateAge(tt.dob, tt.asOf); got != tt.want {
				t.Errorf("CalculateAge() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBeneficiary_Age(t *testing.T) {
	b := Beneficiary{DateOfBirth: core.NewDate(2000, time.June, 15)}
	if got := b.Age(time.Date(2024, time.June, 15, 23, 59, 0, 0, time.UTC)); got != 24 {
		t.Errorf("Age() = %v, want 24", got)
	}
}

func TestClampPercentage(t *testing.T) {
	val := func(i int) *int { return &i }

	tests := []struct {
		name string
		p    *int
		want *int
	}{
		{name: "nil", p: nil, want: nil},
		{name: "below", p: val(-5), want: val(0)},
		{name: "within", p: val(40), want: val(40)},
		{name: "above", p: val(140), want: val(100)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClampPercentage(tt.p)
			if (got == nil) != (tt.want == nil) || (got != nil && *got != *tt.want) {
				t.Errorf("ClampPercentage() = %v, want %v", got, tt.want)
			}
		})
	}
}
