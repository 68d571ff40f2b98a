package core_test

import (
	"context"
	"testing"

	"printshop/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

const testCustomerID = 3 // Jane Cooper, seeded by setupTestDB

func stockQuantity(t *testing.T, pool *pgxpool.Pool, itemType string) int {
	t.Helper()
	var q int
	err := pool.QueryRow(context.Background(),
		"SELECT COALESCE(SUM(quantity), 0) FROM inventory WHERE item_type = $1", itemType,
	).Scan(&q)
	if err != nil {
		t.Fatalf("failed to read %s stock: %v", itemType, err)
	}
	return q
}

func consumptionRowCount(t *testing.T, pool *pgxpool.Pool) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		"SELECT COUNT(*) FROM inventoryconsumption",
	).Scan(&n)
	if err != nil {
		t.Fatalf("failed to count consumption rows: %v", err)
	}
	return n
}

func TestCreateJobConsumesStock(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)

	// 250 pages: 250 sheets of paper, 3 units of ink.
	job, err := jobs.CreateJob(ctx, testCustomerID, 250, decimal.RequireFromString("0.20"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if !job.JobCost.Equal(decimal.RequireFromString("50.00")) {
		t.Errorf("job cost = %s, want 50.00", job.JobCost)
	}
	if job.CustomerName != "Jane Cooper" {
		t.Errorf("customer name = %q, want Jane Cooper", job.CustomerName)
	}

	if got := stockQuantity(t, pool, core.ItemPaper); got != 750 {
		t.Errorf("paper after job = %d, want 750", got)
	}
	if got := stockQuantity(t, pool, core.ItemInk); got != 17 {
		t.Errorf("ink after job = %d, want 17", got)
	}
	if got := consumptionRowCount(t, pool); got != 2 {
		t.Errorf("consumption rows = %d, want 2 (paper + ink)", got)
	}

	// The status report reconstructs initial stock from the log.
	report, err := inventory.StatusReport(ctx)
	if err != nil {
		t.Fatalf("StatusReport failed: %v", err)
	}
	for _, st := range report {
		switch st.ItemType {
		case core.ItemPaper:
			if st.Initial != 1000 || st.Consumed != 250 || st.Remaining != 750 {
				t.Errorf("paper status = %+v, want initial 1000, consumed 250, remaining 750", st)
			}
		case core.ItemInk:
			if st.Initial != 20 || st.Consumed != 3 || st.Remaining != 17 {
				t.Errorf("ink status = %+v, want initial 20, consumed 3, remaining 17", st)
			}
		}
	}
}

func TestCreateJobInsufficientStockRollsBack(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)

	// 1500 pages exceeds the 1000 sheets on the shelf.
	_, err := jobs.CreateJob(ctx, testCustomerID, 1500, decimal.RequireFromString("0.10"))
	if !core.IsKind(err, core.KindInsufficientStock) {
		t.Fatalf("expected insufficient-stock error, got %v", err)
	}

	// Paper passes but ink fails: the paper deduction must roll back too.
	if err := inventory.TopUp(ctx, 1, 4000); err != nil {
		t.Fatalf("TopUp failed: %v", err)
	}
	_, err = jobs.CreateJob(ctx, testCustomerID, 2500, decimal.RequireFromString("0.10"))
	if !core.IsKind(err, core.KindInsufficientStock) {
		t.Fatalf("expected insufficient ink error, got %v", err)
	}

	if got := stockQuantity(t, pool, core.ItemPaper); got != 5000 {
		t.Errorf("paper = %d after failed jobs, want 5000 untouched", got)
	}
	if got := stockQuantity(t, pool, core.ItemInk); got != 20 {
		t.Errorf("ink = %d after failed jobs, want 20 untouched", got)
	}
	if got := consumptionRowCount(t, pool); got != 0 {
		t.Errorf("consumption rows = %d after failed jobs, want 0", got)
	}

	list, err := jobs.ListJobs(ctx)
	if err != nil {
		t.Fatalf("ListJobs failed: %v", err)
	}
	if len(list) != 0 {
		t.Errorf("job rows = %d after failed jobs, want 0", len(list))
	}
}

func TestUpdateJobSettlesStockDifference(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)

	job, err := jobs.CreateJob(ctx, testCustomerID, 100, decimal.RequireFromString("0.20"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}

	// Grow to 250 pages: 150 more sheets, 2 more ink units.
	changed, err := jobs.UpdateJob(ctx, job.JobID, 250, decimal.Zero)
	if err != nil {
		t.Fatalf("UpdateJob(grow) failed: %v", err)
	}
	if !changed {
		t.Error("expected grow update to report a change")
	}
	if got := stockQuantity(t, pool, core.ItemPaper); got != 750 {
		t.Errorf("paper after grow = %d, want 750", got)
	}
	if got := stockQuantity(t, pool, core.ItemInk); got != 17 {
		t.Errorf("ink after grow = %d, want 17", got)
	}

	// Shrink to 50 pages: 200 sheets and 2 ink units come back.
	if _, err := jobs.UpdateJob(ctx, job.JobID, 50, decimal.Zero); err != nil {
		t.Fatalf("UpdateJob(shrink) failed: %v", err)
	}
	if got := stockQuantity(t, pool, core.ItemPaper); got != 950 {
		t.Errorf("paper after shrink = %d, want 950", got)
	}
	if got := stockQuantity(t, pool, core.ItemInk); got != 19 {
		t.Errorf("ink after shrink = %d, want 19", got)
	}

	// Cost recomputes from the final values: 50 pages at the original 0.20.
	got, err := jobs.GetJob(ctx, job.JobID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if !got.JobCost.Equal(decimal.RequireFromString("10.00")) {
		t.Errorf("job cost after shrink = %s, want 10.00", got.JobCost)
	}

	// Cost-only change leaves stock alone.
	if _, err := jobs.UpdateJob(ctx, job.JobID, 0, decimal.RequireFromString("0.50")); err != nil {
		t.Fatalf("UpdateJob(cost only) failed: %v", err)
	}
	if got := stockQuantity(t, pool, core.ItemPaper); got != 950 {
		t.Errorf("paper after cost-only update = %d, want 950", got)
	}
	got, err = jobs.GetJob(ctx, job.JobID)
	if err != nil {
		t.Fatalf("GetJob failed: %v", err)
	}
	if !got.JobCost.Equal(decimal.RequireFromString("25.00")) {
		t.Errorf("job cost after reprice = %s, want 25.00", got.JobCost)
	}

	// Skipping both fields is a no-op.
	changed, err = jobs.UpdateJob(ctx, job.JobID, 0, decimal.Zero)
	if err != nil {
		t.Fatalf("no-op update errored: %v", err)
	}
	if changed {
		t.Error("no-op update must not report a change")
	}
}

func TestDeleteJobKeepsConsumption(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)

	job, err := jobs.CreateJob(ctx, testCustomerID, 100, decimal.RequireFromString("0.20"))
	if err != nil {
		t.Fatalf("CreateJob failed: %v", err)
	}
	if err := jobs.DeleteJob(ctx, job.JobID); err != nil {
		t.Fatalf("DeleteJob failed: %v", err)
	}

	// The materials were spent printing; deletion does not restock.
	if got := stockQuantity(t, pool, core.ItemPaper); got != 900 {
		t.Errorf("paper after delete = %d, want 900 (no restock)", got)
	}
	if got := consumptionRowCount(t, pool); got != 2 {
		t.Errorf("consumption rows after delete = %d, want 2 preserved", got)
	}

	if _, err := jobs.GetJob(ctx, job.JobID); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
}

func TestCheckStockForJob(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)

	check, err := inventory.CheckStockForJob(ctx, 500)
	if err != nil {
		t.Fatalf("CheckStockForJob failed: %v", err)
	}
	if !check.Sufficient || len(check.Shortages) != 0 {
		t.Errorf("500 pages should be coverable, got %+v", check)
	}

	// 5000 pages needs 5000 sheets (have 1000) and 50 ink (have 20).
	check, err = inventory.CheckStockForJob(ctx, 5000)
	if err != nil {
		t.Fatalf("CheckStockForJob failed: %v", err)
	}
	if check.Sufficient {
		t.Fatal("5000 pages must not be coverable")
	}
	if len(check.Shortages) != 2 {
		t.Fatalf("shortages = %d, want 2", len(check.Shortages))
	}
	for _, sh := range check.Shortages {
		switch sh.ItemType {
		case core.ItemPaper:
			if sh.Required != 5000 || sh.Available != 1000 {
				t.Errorf("paper shortage = %+v, want required 5000, available 1000", sh)
			}
		case core.ItemInk:
			if sh.Required != 50 || sh.Available != 20 {
				t.Errorf("ink shortage = %+v, want required 50, available 20", sh)
			}
		default:
			t.Errorf("unexpected shortage item %q", sh.ItemType)
		}
	}
}

func TestCheckStockReadsJobDrawRow(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)

	// A second Paper row does not make a bigger job feasible: jobs draw
	// from the first row only, and the check must agree with that.
	if _, err := inventory.AddItem(ctx, core.ItemPaper, 500, decimal.RequireFromString("0.05")); err != nil {
		t.Fatalf("AddItem failed: %v", err)
	}

	check, err := inventory.CheckStockForJob(ctx, 1200)
	if err != nil {
		t.Fatalf("CheckStockForJob failed: %v", err)
	}
	if check.Sufficient {
		t.Fatal("1200 pages must not be reported coverable")
	}
	foundPaper := false
	for _, sh := range check.Shortages {
		if sh.ItemType == core.ItemPaper {
			foundPaper = true
			if sh.Required != 1200 || sh.Available != 1000 {
				t.Errorf("paper shortage = %+v, want required 1200, available 1000", sh)
			}
		}
	}
	if !foundPaper {
		t.Fatal("expected a paper shortage")
	}

	// Creating the job fails the same way the check reports.
	if _, err := jobs.CreateJob(ctx, testCustomerID, 1200, decimal.RequireFromString("0.10")); !core.IsKind(err, core.KindInsufficientStock) {
		t.Errorf("CreateJob: expected insufficient-stock error, got %v", err)
	}

	// A job the first row covers still passes both.
	check, err = inventory.CheckStockForJob(ctx, 800)
	if err != nil {
		t.Fatalf("CheckStockForJob failed: %v", err)
	}
	if !check.Sufficient {
		t.Errorf("800 pages should be coverable, got %+v", check)
	}
	if _, err := jobs.CreateJob(ctx, testCustomerID, 800, decimal.RequireFromString("0.10")); err != nil {
		t.Errorf("CreateJob(800) failed: %v", err)
	}
}

func TestManualConsumptionIntegration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	inventory := core.NewInventoryService(pool)

	if err := inventory.RecordConsumption(ctx, 2, 5); err != nil {
		t.Fatalf("RecordConsumption failed: %v", err)
	}
	detail, err := inventory.ItemDetail(ctx, 2)
	if err != nil {
		t.Fatalf("ItemDetail failed: %v", err)
	}
	if detail.Remaining != 15 || detail.Consumed != 5 || detail.Initial != 20 {
		t.Errorf("ink detail = %+v, want remaining 15, consumed 5, initial 20", detail)
	}

	// Over-consumption is rejected before anything is written.
	if err := inventory.RecordConsumption(ctx, 2, 100); !core.IsKind(err, core.KindInsufficientStock) {
		t.Errorf("expected insufficient-stock error, got %v", err)
	}
	if got := stockQuantity(t, pool, core.ItemInk); got != 15 {
		t.Errorf("ink = %d after rejected consumption, want 15", got)
	}

	if err := inventory.RecordConsumption(ctx, 99, 1); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("unknown item: expected not-found, got %v", err)
	}
}
