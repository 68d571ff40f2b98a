package app

import (
	"context"
	"fmt"
	"strings"

	"printshop/internal/ai"
	"printshop/internal/core"

	"github.com/shopspring/decimal"
)

type appService struct {
	users     core.UserService
	inventory core.InventoryService
	jobs      core.PrintJobService
	payments  core.PaymentService
	sales     core.SalesService
	reports   core.ReportService
	agent     *ai.Agent // nil when OPENAI_API_KEY is unset
}

// NewAppService constructs an appService that satisfies ApplicationService.
// agent may be nil; AI intake is then reported as disabled.
func NewAppService(
	users core.UserService,
	inventory core.InventoryService,
	jobs core.PrintJobService,
	payments core.PaymentService,
	sales core.SalesService,
	reports core.ReportService,
	agent *ai.Agent,
) ApplicationService {
	return &appService{
		users:     users,
		inventory: inventory,
		jobs:      jobs,
		payments:  payments,
		sales:     sales,
		reports:   reports,
		agent:     agent,
	}
}

func (s *appService) Login(ctx context.Context, fullName, password string) (*UserSession, error) {
	u, err := s.users.Authenticate(ctx, fullName, password)
	if err != nil {
		return nil, err
	}
	return &UserSession{UserID: u.ID, FullName: u.FullName, Role: u.Role}, nil
}

// ── User management ───────────────────────────────────────────────────────────

func (s *appService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResult, error) {
	u, err := s.users.CreateUser(ctx, req.FullName, req.Email, req.Password, req.Role)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: u}, nil
}

func (s *appService) UpdateUser(ctx context.Context, req UpdateUserRequest) (*UpdateResult, error) {
	changed, err := s.users.UpdateUser(ctx, req.UserID, core.UserPatch{
		FullName: req.FullName,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Changed: changed}, nil
}

func (s *appService) DeleteUser(ctx context.Context, userID int) error {
	return s.users.DeleteUser(ctx, userID)
}

func (s *appService) GetUser(ctx context.Context, userID int) (*UserResult, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &UserResult{User: u}, nil
}

func (s *appService) SearchUsers(ctx context.Context, namePattern string) (*UserListResult, error) {
	users, err := s.users.SearchUsers(ctx, namePattern)
	if err != nil {
		return nil, err
	}
	return &UserListResult{Users: users}, nil
}

func (s *appService) SearchCustomers(ctx context.Context, namePattern string) (*UserListResult, error) {
	users, err := s.users.SearchCustomers(ctx, namePattern)
	if err != nil {
		return nil, err
	}
	return &UserListResult{Users: users}, nil
}

func (s *appService) ListUsers(ctx context.Context) (*UserListResult, error) {
	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return &UserListResult{Users: users}, nil
}

// ── Print jobs ────────────────────────────────────────────────────────────────

func (s *appService) CheckStock(ctx context.Context, pages int) (*core.StockCheck, error) {
	return s.inventory.CheckStockForJob(ctx, pages)
}

func (s *appService) CreateJob(ctx context.Context, req CreateJobRequest) (*JobResult, error) {
	job, err := s.jobs.CreateJob(ctx, req.UserID, req.PageCount, req.CostPerPage)
	if err != nil {
		return nil, err
	}
	return &JobResult{Job: job}, nil
}

func (s *appService) UpdateJob(ctx context.Context, req UpdateJobRequest) (*UpdateResult, error) {
	changed, err := s.jobs.UpdateJob(ctx, req.JobID, req.PageCount, req.CostPerPage)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Changed: changed}, nil
}

func (s *appService) DeleteJob(ctx context.Context, jobID int) error {
	return s.jobs.DeleteJob(ctx, jobID)
}

func (s *appService) GetJob(ctx context.Context, jobID int) (*JobResult, error) {
	job, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	return &JobResult{Job: job}, nil
}

func (s *appService) ListJobs(ctx context.Context) (*JobListResult, error) {
	jobs, err := s.jobs.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	return &JobListResult{Jobs: jobs}, nil
}

func (s *appService) ListJobsForUser(ctx context.Context, userID int) (*JobListResult, error) {
	jobs, err := s.jobs.ListJobsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &JobListResult{Jobs: jobs}, nil
}

// ── Payments ──────────────────────────────────────────────────────────────────

func (s *appService) CreatePayment(ctx context.Context, req CreatePaymentRequest) (*core.PaymentReceipt, error) {
	return s.payments.CreatePayment(ctx, req.UserID, req.JobID, req.Amount, req.Method)
}

func (s *appService) UpdatePayment(ctx context.Context, req UpdatePaymentRequest) (*UpdateResult, error) {
	changed, err := s.payments.UpdatePayment(ctx, req.TransactionID, req.Amount, req.Method)
	if err != nil {
		return nil, err
	}
	return &UpdateResult{Changed: changed}, nil
}

func (s *appService) DeletePayment(ctx context.Context, transactionID int) error {
	return s.payments.DeletePayment(ctx, transactionID)
}

func (s *appService) GetPayment(ctx context.Context, transactionID int) (*PaymentResult, error) {
	p, err := s.payments.GetPayment(ctx, transactionID)
	if err != nil {
		return nil, err
	}
	return &PaymentResult{Payment: p}, nil
}

func (s *appService) ListPayments(ctx context.Context) (*PaymentListResult, error) {
	payments, err := s.payments.ListPayments(ctx)
	if err != nil {
		return nil, err
	}
	return &PaymentListResult{Payments: payments}, nil
}

// ── Inventory ─────────────────────────────────────────────────────────────────

func (s *appService) AddInventoryItem(ctx context.Context, req AddItemRequest) (*ItemResult, error) {
	item, err := s.inventory.AddItem(ctx, req.ItemType, req.Quantity, req.UnitCost)
	if err != nil {
		return nil, err
	}
	return &ItemResult{Item: item}, nil
}

func (s *appService) TopUpInventory(ctx context.Context, inventoryID, amount int) error {
	return s.inventory.TopUp(ctx, inventoryID, amount)
}

func (s *appService) RecordConsumption(ctx context.Context, inventoryID, used int) error {
	return s.inventory.RecordConsumption(ctx, inventoryID, used)
}

func (s *appService) ListInventory(ctx context.Context) (*InventoryListResult, error) {
	items, err := s.inventory.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	return &InventoryListResult{Items: items}, nil
}

func (s *appService) InventoryStatus(ctx context.Context) (*StockStatusResult, error) {
	report, err := s.inventory.StatusReport(ctx)
	if err != nil {
		return nil, err
	}
	return &StockStatusResult{Report: report}, nil
}

func (s *appService) InventoryDetail(ctx context.Context, inventoryID int) (*core.StockStatus, error) {
	return s.inventory.ItemDetail(ctx, inventoryID)
}

// ── Sales analysis ────────────────────────────────────────────────────────────

func (s *appService) OperationCost(ctx context.Context) (decimal.Decimal, error) {
	return s.sales.OperationCost(ctx)
}

func (s *appService) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return s.sales.TotalRevenue(ctx)
}

func (s *appService) Profit(ctx context.Context) (decimal.Decimal, error) {
	return s.sales.Profit(ctx)
}

func (s *appService) MonthlyRevenue(ctx context.Context, year, month int) (decimal.Decimal, error) {
	return s.reports.MonthlyRevenue(ctx, year, month)
}

func (s *appService) TopCustomers(ctx context.Context, limit int) ([]core.TopCustomer, error) {
	return s.reports.TopCustomers(ctx, limit)
}

func (s *appService) CountCustomers(ctx context.Context) (int, error) {
	return s.users.CountCustomers(ctx)
}

// ── Report generation ─────────────────────────────────────────────────────────

func (s *appService) FinancialSummary(ctx context.Context, year, month int) (*core.FinancialSummary, error) {
	return s.reports.FinancialSummary(ctx, year, month)
}

func (s *appService) SalesTrend(ctx context.Context, year int) ([]core.TrendPoint, error) {
	return s.reports.SalesTrend(ctx, year)
}

func (s *appService) SalesGrowth(ctx context.Context, year int) ([]core.GrowthPoint, error) {
	return s.reports.SalesGrowth(ctx, year)
}

func (s *appService) MonthlySalesTable(ctx context.Context, year, month int) ([]core.SalesRow, error) {
	return s.reports.MonthlySalesTable(ctx, year, month)
}

// ── AI intake ─────────────────────────────────────────────────────────────────

func (s *appService) AIEnabled() bool {
	return s.agent != nil
}

func (s *appService) DraftJobIntake(ctx context.Context, text string) (*IntakeResult, error) {
	if s.agent == nil {
		return nil, fmt.Errorf("AI intake is not configured (OPENAI_API_KEY is unset)")
	}

	customers, err := s.users.SearchCustomers(ctx, "")
	if err != nil {
		return nil, err
	}
	var lines []string
	for _, c := range customers {
		lines = append(lines, fmt.Sprintf("- %s (account #%d)", c.FullName, c.ID))
	}

	response, err := s.agent.InterpretOrder(ctx, text, strings.Join(lines, "\n"))
	if err != nil {
		return nil, err
	}

	if response.IsClarificationRequest {
		return &IntakeResult{
			IsClarification:      true,
			ClarificationMessage: response.Clarification.Message,
		}, nil
	}
	return &IntakeResult{Intake: response.Intake}, nil
}
