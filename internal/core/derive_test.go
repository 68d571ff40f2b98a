package core_test

import (
	"context"
	"testing"

	"printshop/internal/core"

	"github.com/shopspring/decimal"
)

func TestInkUnitsForPages(t *testing.T) {
	tests := []struct {
		pages int
		want  int
	}{
		{0, 0},
		{1, 1},
		{99, 1},
		{100, 1},
		{101, 2},
		{250, 3},
		{1000, 10},
	}
	for _, tt := range tests {
		if got := core.InkUnitsForPages(tt.pages); got != tt.want {
			t.Errorf("InkUnitsForPages(%d) = %d, want %d", tt.pages, got, tt.want)
		}
	}
}

func TestPaymentStatusFor(t *testing.T) {
	cost := decimal.NewFromFloat(50.00)

	if got := core.PaymentStatusFor(decimal.NewFromFloat(50.00), cost); got != core.PaymentComplete {
		t.Errorf("exact amount: got %s, want Complete", got)
	}
	if got := core.PaymentStatusFor(decimal.NewFromFloat(60.00), cost); got != core.PaymentComplete {
		t.Errorf("overpayment: got %s, want Complete", got)
	}
	if got := core.PaymentStatusFor(decimal.NewFromFloat(49.99), cost); got != core.PaymentInsufficient {
		t.Errorf("underpayment: got %s, want Insufficient", got)
	}
}

func TestRole_Valid(t *testing.T) {
	for _, role := range []core.Role{core.RoleAdmin, core.RoleStaff, core.RoleCustomer} {
		if !role.Valid() {
			t.Errorf("expected role %q to be valid", role)
		}
	}
	for _, role := range []core.Role{"", "admin", "Manager"} {
		if role.Valid() {
			t.Errorf("expected role %q to be invalid", role)
		}
	}
}

// Month validation happens before any query, so a nil pool never gets
// touched for an out-of-range month.
func TestReportService_MonthValidation(t *testing.T) {
	reports := core.NewReportService(nil)
	ctx := context.Background()

	for _, month := range []int{0, 13, -1} {
		if _, err := reports.MonthlyRevenue(ctx, 2025, month); !core.IsKind(err, core.KindValidation) {
			t.Errorf("MonthlyRevenue month=%d: expected validation error, got %v", month, err)
		}
		if _, err := reports.MonthlySalesTable(ctx, 2025, month); !core.IsKind(err, core.KindValidation) {
			t.Errorf("MonthlySalesTable month=%d: expected validation error, got %v", month, err)
		}
	}
}

func TestErrorKinds(t *testing.T) {
	err := core.NewError(core.KindInsufficientStock, "insufficient Paper: requested %d, available %d", 500, 120)

	if !core.IsKind(err, core.KindInsufficientStock) {
		t.Error("expected insufficient-stock kind to match")
	}
	if core.IsKind(err, core.KindNotFound) {
		t.Error("kind must not match a different kind")
	}

	// The kind survives wrapping.
	wrapped := core.WrapError(core.KindStore, err, "job creation failed")
	if !core.IsKind(wrapped, core.KindStore) {
		t.Error("expected outermost kind to match")
	}
}

func TestJobIntake_NormalizeAndValidate(t *testing.T) {
	tests := []struct {
		name      string
		intake    core.JobIntake
		expectErr bool
	}{
		{
			name:   "happy path",
			intake: core.JobIntake{CustomerName: "Jane Cooper", PageCount: 120, CostPerPage: "0.25", Confidence: 0.9},
		},
		{
			name:   "dollar sign stripped",
			intake: core.JobIntake{CustomerName: "Jane Cooper", PageCount: 10, CostPerPage: "$0.30"},
		},
		{
			name:      "missing customer",
			intake:    core.JobIntake{CustomerName: "  ", PageCount: 10, CostPerPage: "0.25"},
			expectErr: true,
		},
		{
			name:      "zero pages",
			intake:    core.JobIntake{CustomerName: "Jane Cooper", PageCount: 0, CostPerPage: "0.25"},
			expectErr: true,
		},
		{
			name:      "garbage cost",
			intake:    core.JobIntake{CustomerName: "Jane Cooper", PageCount: 10, CostPerPage: "cheap"},
			expectErr: true,
		},
		{
			// "null" cost normalizes to zero, which is allowed.
			name:   "null cost",
			intake: core.JobIntake{CustomerName: "Jane Cooper", PageCount: 10, CostPerPage: "null"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.intake.Normalize()
			err := tt.intake.Validate()
			if tt.expectErr && err == nil {
				t.Error("expected validation error, got nil")
			}
			if !tt.expectErr && err != nil {
				t.Errorf("unexpected validation error: %v", err)
			}
		})
	}
}
