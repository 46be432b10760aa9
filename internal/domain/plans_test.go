package domain

import (
	"errors"
	"testing"
)

func TestPlanList(t *testing.T) {
	list := PlanList()
	if len(list) != 2 {
		t.Fatalf("plans = %d, want 2", len(list))
	}
	if list[0].ID != "45_days" || list[1].ID != "90_days" {
		t.Fatalf("order = %s, %s", list[0].ID, list[1].ID)
	}
}

func TestReturnPaise(t *testing.T) {
	p45, _ := PlanByID("45_days")
	p90, _ := PlanByID("90_days")

	cases := []struct {
		plan      Plan
		principal int64
		want      int64
	}{
		{p45, 19900, 9950},
		{p45, 500000, 250000},
		{p45, 33333, 16667}, // rounds half up
		{p90, 29900, 29900},
		{p90, 1000000, 1000000},
	}
	for _, tc := range cases {
		if got := tc.plan.ReturnPaise(tc.principal); got != tc.want {
			t.Errorf("%s return on %d = %d, want %d", tc.plan.ID, tc.principal, got, tc.want)
		}
	}
}

func TestValidateQuickAmount(t *testing.T) {
	p, _ := PlanByID("45_days")
	if err := p.ValidateQuickAmount(19900); err != nil {
		t.Fatal(err)
	}
	if err := p.ValidateQuickAmount(20000); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("err = %v, want ErrInvalidAmount", err)
	}
}

func TestValidateCustomAmount(t *testing.T) {
	p, _ := PlanByID("90_days")
	for _, amt := range []int64{29900, 500000, 1000000} {
		if err := p.ValidateCustomAmount(amt); err != nil {
			t.Fatalf("amount %d: %v", amt, err)
		}
	}
	for _, amt := range []int64{0, 29899, 1000001} {
		if err := p.ValidateCustomAmount(amt); !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %d: err = %v, want ErrInvalidAmount", amt, err)
		}
	}
}

func TestPlanByIDUnknown(t *testing.T) {
	if _, ok := PlanByID("180_days"); ok {
		t.Fatal("unknown plan id resolved")
	}
}
