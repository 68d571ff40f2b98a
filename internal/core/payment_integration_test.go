package core_test

import (
	"context"
	"testing"

	"printshop/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestPaymentLifecycleIntegration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)
	payments := core.NewPaymentService(pool)

	job, err := jobs.CreateJob(ctx, testCustomerID, 250, decimal.RequireFromString("0.20"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	// Exact payment settles the job.
	receipt, err := payments.CreatePayment(ctx, testCustomerID, job.JobID, decimal.RequireFromString("50.00"), "Cash")
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if receipt.Payment.Status != core.PaymentComplete {
		t.Errorf("status = %s, want Complete", receipt.Payment.Status)
	}
	if !receipt.Balance.IsZero() {
		t.Errorf("balance = %s, want 0", receipt.Balance)
	}
	if receipt.Payment.Reference == uuid.Nil {
		t.Error("expected a non-nil payment reference")
	}

	// One payment per job.
	_, err = payments.CreatePayment(ctx, testCustomerID, job.JobID, decimal.RequireFromString("50.00"), "Card")
	if !core.IsKind(err, core.KindDuplicate) {
		t.Errorf("second payment: expected duplicate error, got %v", err)
	}

	// Deleting the payment re-opens the job.
	if err := payments.DeletePayment(ctx, receipt.Payment.TransactionID); err != nil {
		t.Fatalf("DeletePayment failed: %v", err)
	}
	receipt, err = payments.CreatePayment(ctx, testCustomerID, job.JobID, decimal.RequireFromString("30.00"), "Cash")
	if err != nil {
		t.Fatalf("payment after delete failed: %v", err)
	}
	if receipt.Payment.Status != core.PaymentInsufficient {
		t.Errorf("status = %s, want Insufficient", receipt.Payment.Status)
	}
	if !receipt.Balance.Equal(decimal.RequireFromString("-20.00")) {
		t.Errorf("balance = %s, want -20.00", receipt.Balance)
	}

	// Raising the amount re-derives the status against the job cost.
	changed, err := payments.UpdatePayment(ctx, receipt.Payment.TransactionID, decimal.RequireFromString("60.00"), "")
	if err != nil {
		t.Fatalf("UpdatePayment failed: %v", err)
	}
	if !changed {
		t.Error("expected amount update to report a change")
	}
	p, err := payments.GetPayment(ctx, receipt.Payment.TransactionID)
	if err != nil {
		t.Fatalf("GetPayment failed: %v", err)
	}
	if p.Status != core.PaymentComplete {
		t.Errorf("status after raise = %s, want Complete", p.Status)
	}
	if p.Method != "Cash" {
		t.Errorf("method changed unexpectedly: %q", p.Method)
	}

	// Method-only update leaves the amount and status alone.
	if _, err := payments.UpdatePayment(ctx, p.TransactionID, decimal.Zero, "Card"); err != nil {
		t.Fatalf("method update failed: %v", err)
	}
	p, err = payments.GetPayment(ctx, p.TransactionID)
	if err != nil {
		t.Fatalf("GetPayment failed: %v", err)
	}
	if p.Method != "Card" || !p.Amount.Equal(decimal.RequireFromString("60.00")) {
		t.Errorf("after method update: method=%q amount=%s, want Card / 60.00", p.Method, p.Amount)
	}

	// Skipping both fields is a no-op.
	changed, err = payments.UpdatePayment(ctx, p.TransactionID, decimal.Zero, "")
	if err != nil {
		t.Fatalf("no-op update errored: %v", err)
	}
	if changed {
		t.Error("no-op update must not report a change")
	}
}

func TestPaymentOwnerMismatch(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)
	payments := core.NewPaymentService(pool)

	job, err := jobs.CreateJob(ctx, testCustomerID, 100, decimal.RequireFromString("0.20"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	// Jane's job billed against the admin account reads as a missing job.
	_, err = payments.CreatePayment(ctx, 1, job.JobID, decimal.RequireFromString("20.00"), "Cash")
	if !core.IsKind(err, core.KindNotFound) {
		t.Errorf("owner mismatch: expected not-found, got %v", err)
	}
}

func TestUpdatePaymentAfterJobDeleted(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)
	payments := core.NewPaymentService(pool)

	job, err := jobs.CreateJob(ctx, testCustomerID, 250, decimal.RequireFromString("0.20"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	receipt, err := payments.CreatePayment(ctx, testCustomerID, job.JobID, decimal.RequireFromString("30.00"), "Cash")
	if err != nil {
		t.Fatalf("CreatePayment failed: %v", err)
	}
	if err := jobs.DeleteJob(ctx, job.JobID); err != nil {
		t.Fatalf("DeleteJob failed: %v", err)
	}

	// With the job gone there is no cost to compare against, so the
	// stored status stands even for a large amount.
	if _, err := payments.UpdatePayment(ctx, receipt.Payment.TransactionID, decimal.RequireFromString("999.00"), ""); err != nil {
		t.Fatalf("UpdatePayment failed: %v", err)
	}
	p, err := payments.GetPayment(ctx, receipt.Payment.TransactionID)
	if err != nil {
		t.Fatalf("GetPayment failed: %v", err)
	}
	if p.Status != core.PaymentInsufficient {
		t.Errorf("status = %s, want Insufficient preserved", p.Status)
	}
	if !p.Amount.Equal(decimal.RequireFromString("999.00")) {
		t.Errorf("amount = %s, want 999.00", p.Amount)
	}
}
