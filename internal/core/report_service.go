package core

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// ── Report types ──────────────────────────────────────────────────────────────

// TopCustomer is one row of the top-customers ranking.
type TopCustomer struct {
	UserID   int
	FullName string
	JobCount int
}

// FinancialSummary is the one-month management overview. Cost covers
// only consumption logged in that month; Assets is the current shelf
// value and has no period filter.
type FinancialSummary struct {
	Year   int
	Month  int
	Sales  decimal.Decimal
	Assets decimal.Decimal
	Cost   decimal.Decimal
	Profit decimal.Decimal // Sales − Cost
	Margin decimal.Decimal // Profit / Sales × 100, zero when Sales is zero
}

// TrendPoint is one month's realized revenue for the trend chart. All
// twelve months are present; empty months carry a zero total.
type TrendPoint struct {
	Month int
	Total decimal.Decimal
}

// GrowthPoint is one month's revenue with its percentage change against
// the chronologically previous month that had revenue. HasPrevious is
// false when no such month exists (or the previous total was zero).
type GrowthPoint struct {
	Month       int
	Total       decimal.Decimal
	Change      decimal.Decimal
	HasPrevious bool
}

// SalesRow is one transaction line of the monthly sales table.
type SalesRow struct {
	TransactionID int
	CustomerName  string
	Amount        decimal.Decimal
	Method        string
	Status        PaymentStatus
	Date          time.Time
}

// ── Interface ─────────────────────────────────────────────────────────────────

// ReportService provides read-only period reporting over payments,
// jobs and stock.
type ReportService interface {
	// MonthlyRevenue sums Complete payments recorded in the given month.
	MonthlyRevenue(ctx context.Context, year, month int) (decimal.Decimal, error)

	// TopCustomers ranks customers by job count descending, ID order on
	// ties. A non-positive limit falls back to the default of 5.
	TopCustomers(ctx context.Context, limit int) ([]TopCustomer, error)

	// FinancialSummary combines monthly sales, current inventory value
	// and monthly consumption cost into one overview.
	FinancialSummary(ctx context.Context, year, month int) (*FinancialSummary, error)

	// SalesTrend returns per-month revenue for a full year, zero-filled.
	SalesTrend(ctx context.Context, year int) ([]TrendPoint, error)

	// SalesGrowth returns month-over-month revenue change for the year.
	// January compares against December of the prior year when that month
	// had revenue.
	SalesGrowth(ctx context.Context, year int) ([]GrowthPoint, error)

	// MonthlySalesTable lists the month's payment transactions with
	// customer names, in chronological order.
	MonthlySalesTable(ctx context.Context, year, month int) ([]SalesRow, error)
}

const defaultTopCustomerLimit = 5

// ── Implementation ────────────────────────────────────────────────────────────

type reportService struct {
	pool *pgxpool.Pool
}

// NewReportService constructs a ReportService backed by the given pool.
func NewReportService(pool *pgxpool.Pool) ReportService {
	return &reportService{pool: pool}
}

// validateMonth rejects out-of-range months before any query runs.
func validateMonth(month int) error {
	if month < 1 || month > 12 {
		return NewError(KindValidation, "month must be between 1 and 12, got %d", month)
	}
	return nil
}

func (s *reportService) MonthlyRevenue(ctx context.Context, year, month int) (decimal.Decimal, error) {
	if err := validateMonth(month); err != nil {
		return decimal.Zero, err
	}

	var revenue decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(amount), 0)
		FROM payment
		WHERE payment_status = $1
		  AND EXTRACT(YEAR  FROM time_stamp)::int = $2
		  AND EXTRACT(MONTH FROM time_stamp)::int = $3`,
		string(PaymentComplete), year, month,
	).Scan(&revenue)
	if err != nil {
		return decimal.Zero, storeErr(err, "failed to compute monthly revenue for %d-%02d", year, month)
	}
	return revenue, nil
}

func (s *reportService) TopCustomers(ctx context.Context, limit int) ([]TopCustomer, error) {
	if limit <= 0 {
		limit = defaultTopCustomerLimit
	}

	rows, err := s.pool.Query(ctx, `
		SELECT u.user_id, u.full_name, COUNT(j.job_id) AS job_count
		FROM printjob j
		JOIN users u ON u.user_id = j.user_id
		GROUP BY u.user_id, u.full_name
		ORDER BY job_count DESC, u.user_id
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, storeErr(err, "failed to query top customers")
	}
	defer rows.Close()

	var top []TopCustomer
	for rows.Next() {
		var tc TopCustomer
		if err := rows.Scan(&tc.UserID, &tc.FullName, &tc.JobCount); err != nil {
			return nil, storeErr(err, "failed to scan top customer row")
		}
		top = append(top, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating top customer rows")
	}
	return top, nil
}

func (s *reportService) FinancialSummary(ctx context.Context, year, month int) (*FinancialSummary, error) {
	sales, err := s.MonthlyRevenue(ctx, year, month)
	if err != nil {
		return nil, err
	}

	summary := &FinancialSummary{Year: year, Month: month, Sales: sales}

	err = s.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(quantity * unit_cost), 0) FROM inventory",
	).Scan(&summary.Assets)
	if err != nil {
		return nil, storeErr(err, "failed to compute inventory value")
	}

	err = s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(c.quantity_used * i.unit_cost), 0)
		FROM inventoryconsumption c
		JOIN inventory i ON i.inventory_id = c.inventory_id
		WHERE EXTRACT(YEAR  FROM c.time_stamp)::int = $1
		  AND EXTRACT(MONTH FROM c.time_stamp)::int = $2`,
		year, month,
	).Scan(&summary.Cost)
	if err != nil {
		return nil, storeErr(err, "failed to compute monthly consumption cost")
	}

	summary.Profit = summary.Sales.Sub(summary.Cost)
	if !summary.Sales.IsZero() {
		summary.Margin = summary.Profit.Div(summary.Sales).Mul(decimal.NewFromInt(100))
	}
	return summary, nil
}

func (s *reportService) SalesTrend(ctx context.Context, year int) ([]TrendPoint, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT EXTRACT(MONTH FROM time_stamp)::int AS month, SUM(amount)
		FROM payment
		WHERE payment_status = $1
		  AND EXTRACT(YEAR FROM time_stamp)::int = $2
		GROUP BY month
		ORDER BY month`,
		string(PaymentComplete), year,
	)
	if err != nil {
		return nil, storeErr(err, "failed to query sales trend for %d", year)
	}
	defer rows.Close()

	trend := make([]TrendPoint, 12)
	for i := range trend {
		trend[i] = TrendPoint{Month: i + 1, Total: decimal.Zero}
	}
	for rows.Next() {
		var month int
		var total decimal.Decimal
		if err := rows.Scan(&month, &total); err != nil {
			return nil, storeErr(err, "failed to scan trend row")
		}
		trend[month-1].Total = total
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating trend rows")
	}
	return trend, nil
}

func (s *reportService) SalesGrowth(ctx context.Context, year int) ([]GrowthPoint, error) {
	// December of the prior year is included so January has a baseline.
	rows, err := s.pool.Query(ctx, `
		SELECT EXTRACT(YEAR  FROM time_stamp)::int AS y,
		       EXTRACT(MONTH FROM time_stamp)::int AS m,
		       SUM(amount)
		FROM payment
		WHERE payment_status = $1
		  AND (EXTRACT(YEAR FROM time_stamp)::int = $2
		       OR (EXTRACT(YEAR FROM time_stamp)::int = $2 - 1 AND EXTRACT(MONTH FROM time_stamp)::int = 12))
		GROUP BY y, m
		ORDER BY y, m`,
		string(PaymentComplete), year,
	)
	if err != nil {
		return nil, storeErr(err, "failed to query sales growth for %d", year)
	}
	defer rows.Close()

	var growth []GrowthPoint
	var prevTotal decimal.Decimal
	havePrev := false
	for rows.Next() {
		var y, m int
		var total decimal.Decimal
		if err := rows.Scan(&y, &m, &total); err != nil {
			return nil, storeErr(err, "failed to scan growth row")
		}
		if y == year {
			gp := GrowthPoint{Month: m, Total: total}
			if havePrev && !prevTotal.IsZero() {
				gp.HasPrevious = true
				gp.Change = total.Sub(prevTotal).Div(prevTotal).Mul(decimal.NewFromInt(100))
			}
			growth = append(growth, gp)
		}
		prevTotal = total
		havePrev = true
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating growth rows")
	}
	return growth, nil
}

func (s *reportService) MonthlySalesTable(ctx context.Context, year, month int) ([]SalesRow, error) {
	if err := validateMonth(month); err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, `
		SELECT p.transaction_id, COALESCE(u.full_name, ''), p.amount, p.method, p.payment_status, p.time_stamp
		FROM payment p
		LEFT JOIN users u ON u.user_id = p.user_id
		WHERE EXTRACT(YEAR  FROM p.time_stamp)::int = $1
		  AND EXTRACT(MONTH FROM p.time_stamp)::int = $2
		ORDER BY p.time_stamp, p.transaction_id`,
		year, month,
	)
	if err != nil {
		return nil, storeErr(err, "failed to query monthly sales table for %d-%02d", year, month)
	}
	defer rows.Close()

	var table []SalesRow
	for rows.Next() {
		var sr SalesRow
		if err := rows.Scan(&sr.TransactionID, &sr.CustomerName, &sr.Amount, &sr.Method, &sr.Status, &sr.Date); err != nil {
			return nil, storeErr(err, "failed to scan sales table row")
		}
		table = append(table, sr)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating sales table rows")
	}
	return table, nil
}
