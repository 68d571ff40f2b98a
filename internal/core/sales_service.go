package core

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// SalesService provides the all-time financial aggregates shown on the
// sales analysis menu.
type SalesService interface {
	// OperationCost is the value of everything ever consumed: each log
	// row priced at its item's current unit cost. Returned stock enters
	// the sum negatively, so returns reduce the cost.
	OperationCost(ctx context.Context) (decimal.Decimal, error)

	// TotalRevenue is the sum of Complete payments. Insufficient
	// payments do not count as realized revenue.
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)

	// Profit is the sum of all job costs minus OperationCost. Billed
	// work counts whether or not it has been paid; this mirrors how the
	// shop has always read its books.
	Profit(ctx context.Context) (decimal.Decimal, error)
}

type salesService struct {
	pool *pgxpool.Pool
}

// NewSalesService constructs a SalesService backed by PostgreSQL.
func NewSalesService(pool *pgxpool.Pool) SalesService {
	return &salesService{pool: pool}
}

func (s *salesService) OperationCost(ctx context.Context) (decimal.Decimal, error) {
	var cost decimal.Decimal
	err := s.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(c.quantity_used * i.unit_cost), 0)
		FROM inventoryconsumption c
		JOIN inventory i ON i.inventory_id = c.inventory_id`,
	).Scan(&cost)
	if err != nil {
		return decimal.Zero, storeErr(err, "failed to compute operation cost")
	}
	return cost, nil
}

func (s *salesService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	var revenue decimal.Decimal
	err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(amount), 0) FROM payment WHERE payment_status = $1",
		string(PaymentComplete),
	).Scan(&revenue)
	if err != nil {
		return decimal.Zero, storeErr(err, "failed to compute total revenue")
	}
	return revenue, nil
}

func (s *salesService) Profit(ctx context.Context) (decimal.Decimal, error) {
	var billed decimal.Decimal
	err := s.pool.QueryRow(ctx,
		"SELECT COALESCE(SUM(job_cost), 0) FROM printjob",
	).Scan(&billed)
	if err != nil {
		return decimal.Zero, storeErr(err, "failed to sum job costs")
	}

	cost, err := s.OperationCost(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return billed.Sub(cost), nil
}
