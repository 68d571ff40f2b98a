package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PrintJobService manages the print job lifecycle. Creation and page
// changes run atomically with their inventory side effects: a job row
// never exists without its paper and ink having been deducted.
type PrintJobService interface {
	// CreateJob books a job for a customer, deducting paper per page and
	// ink per started block of PagesPerInkUnit pages in one transaction.
	CreateJob(ctx context.Context, userID, pages int, costPerPage decimal.Decimal) (*PrintJob, error)

	// UpdateJob changes page count and/or cost per page. A zero newPages
	// or zero newCostPerPage leaves that field untouched; it reports false
	// when both are skipped. Page increases re-validate stock for the
	// increase only; decreases return stock. The job cost is recomputed
	// from the final values either way.
	UpdateJob(ctx context.Context, jobID, newPages int, newCostPerPage decimal.Decimal) (bool, error)

	// DeleteJob removes the job row. Consumed paper and ink are NOT
	// returned: the materials were spent printing and the log keeps the
	// record.
	DeleteJob(ctx context.Context, jobID int) error

	// GetJob returns one job with its customer name joined in.
	GetJob(ctx context.Context, jobID int) (*PrintJob, error)

	// ListJobs returns every job with customer names, in ID order.
	ListJobs(ctx context.Context) ([]PrintJob, error)

	// ListJobsForUser returns one customer's jobs in ID order.
	ListJobsForUser(ctx context.Context, userID int) ([]PrintJob, error)
}

type printJobService struct {
	pool      *pgxpool.Pool
	inventory InventoryService
}

// NewPrintJobService constructs a PrintJobService backed by PostgreSQL.
// The inventory service supplies the TX-scoped stock operations.
func NewPrintJobService(pool *pgxpool.Pool, inventory InventoryService) PrintJobService {
	return &printJobService{pool: pool, inventory: inventory}
}

func (s *printJobService) CreateJob(ctx context.Context, userID, pages int, costPerPage decimal.Decimal) (*PrintJob, error) {
	if pages <= 0 {
		return nil, NewError(KindValidation, "page count must be positive, got %d", pages)
	}
	if costPerPage.IsNegative() {
		return nil, NewError(KindValidation, "cost per page cannot be negative, got %s", costPerPage)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, storeErr(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var customerName string
	if err := tx.QueryRow(ctx,
		"SELECT full_name FROM users WHERE user_id = $1", userID,
	).Scan(&customerName); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewError(KindNotFound, "user id=%d not found", userID)
		}
		return nil, storeErr(err, "failed to resolve user id=%d", userID)
	}

	if err := s.inventory.ConsumeForJobTx(ctx, tx, pages); err != nil {
		return nil, err
	}

	job := &PrintJob{
		UserID:       userID,
		CustomerName: customerName,
		PageCount:    pages,
		CostPerPage:  costPerPage,
		JobCost:      costPerPage.Mul(decimal.NewFromInt(int64(pages))),
	}
	err = tx.QueryRow(ctx, `
		INSERT INTO printjob (user_id, page_count, cost_per_page, job_cost)
		VALUES ($1, $2, $3, $4)
		RETURNING job_id, time_stamp`,
		userID, pages, costPerPage, job.JobCost,
	).Scan(&job.JobID, &job.CreatedAt)
	if err != nil {
		return nil, storeErr(err, "failed to insert print job")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, storeErr(err, "failed to commit print job")
	}
	return job, nil
}

func (s *printJobService) UpdateJob(ctx context.Context, jobID, newPages int, newCostPerPage decimal.Decimal) (bool, error) {
	if newPages < 0 {
		return false, NewError(KindValidation, "page count must be positive, got %d", newPages)
	}
	if newCostPerPage.IsNegative() {
		return false, NewError(KindValidation, "cost per page cannot be negative, got %s", newCostPerPage)
	}
	if newPages == 0 && newCostPerPage.IsZero() {
		return false, nil
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, storeErr(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var oldPages int
	var oldCost decimal.Decimal
	err = tx.QueryRow(ctx,
		"SELECT page_count, cost_per_page FROM printjob WHERE job_id = $1 FOR UPDATE",
		jobID,
	).Scan(&oldPages, &oldCost)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, NewError(KindNotFound, "print job id=%d not found", jobID)
		}
		return false, storeErr(err, "failed to lock print job id=%d", jobID)
	}

	finalPages := oldPages
	if newPages > 0 {
		finalPages = newPages
	}
	finalCost := oldCost
	if !newCostPerPage.IsZero() {
		finalCost = newCostPerPage
	}

	// Signed deltas: positive consumes extra stock, negative returns it.
	pageDiff := finalPages - oldPages
	inkDiff := InkUnitsForPages(finalPages) - InkUnitsForPages(oldPages)
	if err := s.inventory.AdjustForJobTx(ctx, tx, pageDiff, inkDiff); err != nil {
		return false, err
	}

	jobCost := finalCost.Mul(decimal.NewFromInt(int64(finalPages)))
	if _, err := tx.Exec(ctx, `
		UPDATE printjob
		SET page_count = $1, cost_per_page = $2, job_cost = $3, time_stamp = NOW()
		WHERE job_id = $4`,
		finalPages, finalCost, jobCost, jobID,
	); err != nil {
		return false, storeErr(err, "failed to update print job id=%d", jobID)
	}

	if err := tx.Commit(ctx); err != nil {
		return false, storeErr(err, "failed to commit job update")
	}
	return true, nil
}

func (s *printJobService) DeleteJob(ctx context.Context, jobID int) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM printjob WHERE job_id = $1", jobID)
	if err != nil {
		return storeErr(err, "failed to delete print job id=%d", jobID)
	}
	if tag.RowsAffected() == 0 {
		return NewError(KindNotFound, "print job id=%d not found", jobID)
	}
	return nil
}

const jobSelect = `
	SELECT j.job_id, j.user_id, COALESCE(u.full_name, ''),
	       j.page_count, j.cost_per_page, j.job_cost, j.time_stamp
	FROM printjob j
	LEFT JOIN users u ON u.user_id = j.user_id`

func (s *printJobService) GetJob(ctx context.Context, jobID int) (*PrintJob, error) {
	j := &PrintJob{}
	err := s.pool.QueryRow(ctx, jobSelect+" WHERE j.job_id = $1", jobID).Scan(
		&j.JobID, &j.UserID, &j.CustomerName,
		&j.PageCount, &j.CostPerPage, &j.JobCost, &j.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewError(KindNotFound, "print job id=%d not found", jobID)
		}
		return nil, storeErr(err, "failed to fetch print job id=%d", jobID)
	}
	return j, nil
}

func (s *printJobService) ListJobs(ctx context.Context) ([]PrintJob, error) {
	rows, err := s.pool.Query(ctx, jobSelect+" ORDER BY j.job_id")
	if err != nil {
		return nil, storeErr(err, "failed to query print jobs")
	}
	defer rows.Close()
	return scanJobs(rows)
}

func (s *printJobService) ListJobsForUser(ctx context.Context, userID int) ([]PrintJob, error) {
	rows, err := s.pool.Query(ctx, jobSelect+" WHERE j.user_id = $1 ORDER BY j.job_id", userID)
	if err != nil {
		return nil, storeErr(err, "failed to query print jobs for user id=%d", userID)
	}
	defer rows.Close()
	return scanJobs(rows)
}

func scanJobs(rows pgx.Rows) ([]PrintJob, error) {
	var jobs []PrintJob
	for rows.Next() {
		var j PrintJob
		if err := rows.Scan(
			&j.JobID, &j.UserID, &j.CustomerName,
			&j.PageCount, &j.CostPerPage, &j.JobCost, &j.CreatedAt,
		); err != nil {
			return nil, storeErr(err, "failed to scan print job")
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating print job rows")
	}
	return jobs, nil
}
