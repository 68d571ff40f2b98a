package app

import (
	"context"

	"printshop/internal/core"

	"github.com/shopspring/decimal"
)

// ApplicationService is the single interface the console adapter calls.
// It decouples presentation from business logic. Implementations must
// contain no fmt.Println, no ANSI codes, and no display logic of any kind.
type ApplicationService interface {
	// Login verifies console credentials and returns the session used for
	// menu gating. Customer accounts are rejected.
	Login(ctx context.Context, fullName, password string) (*UserSession, error)

	// ── User management ──

	// CreateUser registers a staff or customer account.
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResult, error)

	// UpdateUser applies a partial account update. Changed is false when
	// the request carried no fields.
	UpdateUser(ctx context.Context, req UpdateUserRequest) (*UpdateResult, error)

	// DeleteUser removes an account, leaving its jobs and payments in place.
	DeleteUser(ctx context.Context, userID int) error

	// GetUser returns one account by ID.
	GetUser(ctx context.Context, userID int) (*UserResult, error)

	// SearchUsers finds accounts by case-insensitive name substring.
	SearchUsers(ctx context.Context, namePattern string) (*UserListResult, error)

	// SearchCustomers is SearchUsers restricted to customer accounts.
	SearchCustomers(ctx context.Context, namePattern string) (*UserListResult, error)

	// ListUsers returns all accounts.
	ListUsers(ctx context.Context) (*UserListResult, error)

	// ── Print jobs ──

	// CheckStock reports whether paper and ink cover a job of the given
	// page count, for showing shortages before a create attempt.
	CheckStock(ctx context.Context, pages int) (*core.StockCheck, error)

	// CreateJob books a print job and deducts stock atomically.
	CreateJob(ctx context.Context, req CreateJobRequest) (*JobResult, error)

	// UpdateJob changes pages and/or price, settling stock differences.
	UpdateJob(ctx context.Context, req UpdateJobRequest) (*UpdateResult, error)

	// DeleteJob removes a job without returning its consumed stock.
	DeleteJob(ctx context.Context, jobID int) error

	// GetJob returns one job by ID.
	GetJob(ctx context.Context, jobID int) (*JobResult, error)

	// ListJobs returns all jobs with customer names.
	ListJobs(ctx context.Context) (*JobListResult, error)

	// ListJobsForUser returns one customer's jobs.
	ListJobsForUser(ctx context.Context, userID int) (*JobListResult, error)

	// ── Payments ──

	// CreatePayment records the single payment allowed per job and
	// returns the receipt with the derived status and balance.
	CreatePayment(ctx context.Context, req CreatePaymentRequest) (*core.PaymentReceipt, error)

	// UpdatePayment changes amount and/or method, re-deriving the status.
	UpdatePayment(ctx context.Context, req UpdatePaymentRequest) (*UpdateResult, error)

	// DeletePayment removes a payment, re-opening its job for payment.
	DeletePayment(ctx context.Context, transactionID int) error

	// GetPayment returns one payment by transaction ID.
	GetPayment(ctx context.Context, transactionID int) (*PaymentResult, error)

	// ListPayments returns all payments with customer names.
	ListPayments(ctx context.Context) (*PaymentListResult, error)

	// ── Inventory ──

	// AddInventoryItem registers a new consumable.
	AddInventoryItem(ctx context.Context, req AddItemRequest) (*ItemResult, error)

	// TopUpInventory restocks an item without logging consumption.
	TopUpInventory(ctx context.Context, inventoryID, amount int) error

	// RecordConsumption manually books usage against an item.
	RecordConsumption(ctx context.Context, inventoryID, used int) error

	// ListInventory returns the raw inventory rows.
	ListInventory(ctx context.Context) (*InventoryListResult, error)

	// InventoryStatus returns the derived initial/consumed/left view.
	InventoryStatus(ctx context.Context) (*StockStatusResult, error)

	// InventoryDetail returns the derived view of one item.
	InventoryDetail(ctx context.Context, inventoryID int) (*core.StockStatus, error)

	// ── Sales analysis ──

	// OperationCost is the priced sum of the consumption log.
	OperationCost(ctx context.Context) (decimal.Decimal, error)

	// TotalRevenue sums Complete payments.
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)

	// Profit is total job cost minus operation cost.
	Profit(ctx context.Context) (decimal.Decimal, error)

	// MonthlyRevenue sums Complete payments for one month.
	MonthlyRevenue(ctx context.Context, year, month int) (decimal.Decimal, error)

	// TopCustomers ranks customers by job count.
	TopCustomers(ctx context.Context, limit int) ([]core.TopCustomer, error)

	// CountCustomers returns the number of customer accounts.
	CountCustomers(ctx context.Context) (int, error)

	// ── Report generation ──

	// FinancialSummary is the one-month sales/assets/cost/margin overview.
	FinancialSummary(ctx context.Context, year, month int) (*core.FinancialSummary, error)

	// SalesTrend returns a zero-filled year of monthly revenue.
	SalesTrend(ctx context.Context, year int) ([]core.TrendPoint, error)

	// SalesGrowth returns month-over-month revenue change for a year.
	SalesGrowth(ctx context.Context, year int) ([]core.GrowthPoint, error)

	// MonthlySalesTable lists one month's transactions with customer names.
	MonthlySalesTable(ctx context.Context, year, month int) ([]core.SalesRow, error)

	// ── AI intake ──

	// AIEnabled reports whether the order intake assistant is configured.
	AIEnabled() bool

	// DraftJobIntake sends a free-text order description to the AI agent
	// and returns either a drafted job or a clarification request.
	DraftJobIntake(ctx context.Context, text string) (*IntakeResult, error)
}
