package repl

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"printshop/internal/app"
	"printshop/internal/core"

	"github.com/shopspring/decimal"
)

// Run starts the interactive console: a login loop followed by the
// role-gated menu tree. It returns when the operator logs out.
func Run(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	fmt.Println("Print Shop Manager")
	fmt.Println(strings.Repeat("-", 70))

	session := login(ctx, svc, reader)
	if session == nil {
		return
	}

	for {
		fmt.Println()
		fmt.Println("MAIN MENU")
		fmt.Println("  1. User Management")
		fmt.Println("  2. Print Job Management")
		fmt.Println("  3. Payment Management")
		fmt.Println("  4. Inventory Management")
		fmt.Println("  5. Sales Analysis")
		fmt.Println("  6. Report Generation")
		fmt.Println("  0. Exit")

		choice := prompt(reader, "Choice: ")
		if name, denied := deniedMenu(session, choice); denied {
			fmt.Printf("Access denied: %s requires the Admin role.\n", name)
			continue
		}
		switch choice {
		case "1":
			userMenu(ctx, svc, reader)
		case "2":
			jobMenu(ctx, svc, reader)
		case "3":
			paymentMenu(ctx, svc, reader)
		case "4":
			inventoryMenu(ctx, svc, reader)
		case "5":
			salesMenu(ctx, svc, reader)
		case "6":
			reportMenu(ctx, svc, reader)
		case "0":
			fmt.Println("Goodbye!")
			return
		default:
			fmt.Println("Invalid choice, try again.")
		}
	}
}

// restrictedMenus are the main-menu choices limited to the Admin role:
// user management and all financial views.
var restrictedMenus = map[string]string{
	"1": "User Management",
	"5": "Sales Analysis",
	"6": "Report Generation",
}

// deniedMenu reports whether the session may not open the given
// main-menu choice, naming the menu for the denial message.
func deniedMenu(session *app.UserSession, choice string) (string, bool) {
	name, restricted := restrictedMenus[choice]
	if !restricted || session.IsAdmin() {
		return "", false
	}
	return name, true
}

// login keeps prompting until credentials check out or the operator
// gives up with 'q'.
func login(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) *app.UserSession {
	for {
		name := prompt(reader, "Full name (q to quit): ")
		if name == "" {
			continue
		}
		if strings.EqualFold(name, "q") {
			return nil
		}
		password := prompt(reader, "Password: ")

		session, err := svc.Login(ctx, name, password)
		if err != nil {
			fmt.Printf("Login failed: %s\n", errMessage(err))
			continue
		}
		fmt.Printf("\nWelcome, %s (%s)\n", session.FullName, session.Role)
		return session
	}
}

// ── Submenus ──────────────────────────────────────────────────────────────────

func userMenu(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	for {
		fmt.Println()
		fmt.Println("USER MANAGEMENT")
		fmt.Println("  1. Add User")
		fmt.Println("  2. Update User")
		fmt.Println("  3. Delete User")
		fmt.Println("  4. Search Users by Name")
		fmt.Println("  5. View All Users")
		fmt.Println("  6. View User Details")
		fmt.Println("  0. Back")

		switch prompt(reader, "Choice: ") {
		case "1":
			handleCreateUser(ctx, svc, reader)
		case "2":
			handleUpdateUser(ctx, svc, reader)
		case "3":
			id, ok := promptID(reader, "User ID to delete: ")
			if !ok {
				continue
			}
			if err := svc.DeleteUser(ctx, id); err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("User %d deleted. Their jobs and payments are kept on record.\n", id)
		case "4":
			pattern := prompt(reader, "Name contains: ")
			result, err := svc.SearchUsers(ctx, pattern)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printUsers(result.Users, reader)
		case "5":
			result, err := svc.ListUsers(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printUsers(result.Users, reader)
		case "6":
			id, ok := promptID(reader, "User ID: ")
			if !ok {
				continue
			}
			result, err := svc.GetUser(ctx, id)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printUserDetail(result.User)
		case "0":
			return
		default:
			fmt.Println("Invalid choice, try again.")
		}
	}
}

func jobMenu(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	for {
		fmt.Println()
		fmt.Println("PRINT JOB MANAGEMENT")
		fmt.Println("  1. Create Print Job")
		fmt.Println("  2. Update Print Job")
		fmt.Println("  3. Delete Print Job")
		fmt.Println("  4. View All Jobs")
		fmt.Println("  5. View Jobs for a Customer")
		if svc.AIEnabled() {
			fmt.Println("  6. Draft Job from Description (AI)")
		}
		fmt.Println("  0. Back")

		choice := prompt(reader, "Choice: ")
		switch choice {
		case "1":
			handleCreateJob(ctx, svc, reader)
		case "2":
			handleUpdateJob(ctx, svc, reader)
		case "3":
			id, ok := promptID(reader, "Job ID to delete: ")
			if !ok {
				continue
			}
			if err := svc.DeleteJob(ctx, id); err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Job %d deleted. Consumed paper and ink stay booked.\n", id)
		case "4":
			result, err := svc.ListJobs(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printJobs(result.Jobs, reader)
		case "5":
			id, ok := promptID(reader, "Customer ID: ")
			if !ok {
				continue
			}
			result, err := svc.ListJobsForUser(ctx, id)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printJobs(result.Jobs, reader)
		case "6":
			if !svc.AIEnabled() {
				fmt.Println("Invalid choice, try again.")
				continue
			}
			handleJobIntake(ctx, svc, reader)
		case "0":
			return
		default:
			fmt.Println("Invalid choice, try again.")
		}
	}
}

func paymentMenu(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	for {
		fmt.Println()
		fmt.Println("PAYMENT MANAGEMENT")
		fmt.Println("  1. Record Payment")
		fmt.Println("  2. Update Payment")
		fmt.Println("  3. Delete Payment")
		fmt.Println("  4. View All Payments")
		fmt.Println("  5. View Payment Details")
		fmt.Println("  0. Back")

		switch prompt(reader, "Choice: ") {
		case "1":
			handleCreatePayment(ctx, svc, reader)
		case "2":
			handleUpdatePayment(ctx, svc, reader)
		case "3":
			id, ok := promptID(reader, "Transaction ID to delete: ")
			if !ok {
				continue
			}
			if err := svc.DeletePayment(ctx, id); err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Payment %d deleted. The job can take a new payment.\n", id)
		case "4":
			result, err := svc.ListPayments(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printPayments(result.Payments)
		case "5":
			id, ok := promptID(reader, "Transaction ID: ")
			if !ok {
				continue
			}
			result, err := svc.GetPayment(ctx, id)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printPaymentDetail(result.Payment)
		case "0":
			return
		default:
			fmt.Println("Invalid choice, try again.")
		}
	}
}

func inventoryMenu(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	for {
		fmt.Println()
		fmt.Println("INVENTORY MANAGEMENT")
		fmt.Println("  1. Add Item")
		fmt.Println("  2. Top Up Stock")
		fmt.Println("  3. Record Consumption")
		fmt.Println("  4. Stock Status Report")
		fmt.Println("  5. Item Details")
		fmt.Println("  6. View Items")
		fmt.Println("  0. Back")

		switch prompt(reader, "Choice: ") {
		case "1":
			handleAddItem(ctx, svc, reader)
		case "2":
			id, ok := promptID(reader, "Item ID: ")
			if !ok {
				continue
			}
			amount, ok := promptID(reader, "Amount to add: ")
			if !ok {
				continue
			}
			if err := svc.TopUpInventory(ctx, id, amount); err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Item %d topped up by %d.\n", id, amount)
		case "3":
			id, ok := promptID(reader, "Item ID: ")
			if !ok {
				continue
			}
			used, ok := promptID(reader, "Quantity used: ")
			if !ok {
				continue
			}
			if err := svc.RecordConsumption(ctx, id, used); err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Consumption of %d recorded for item %d.\n", used, id)
		case "4":
			result, err := svc.InventoryStatus(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printStockStatus(result.Report)
		case "5":
			id, ok := promptID(reader, "Item ID: ")
			if !ok {
				continue
			}
			status, err := svc.InventoryDetail(ctx, id)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printStockStatus([]core.StockStatus{*status})
		case "6":
			result, err := svc.ListInventory(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printInventory(result.Items)
		case "0":
			return
		default:
			fmt.Println("Invalid choice, try again.")
		}
	}
}

func salesMenu(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	for {
		fmt.Println()
		fmt.Println("SALES ANALYSIS")
		fmt.Println("  1. Operation Cost")
		fmt.Println("  2. Total Revenue")
		fmt.Println("  3. Profit")
		fmt.Println("  4. Monthly Revenue")
		fmt.Println("  5. Top Customers")
		fmt.Println("  6. Customer Count")
		fmt.Println("  0. Back")

		switch prompt(reader, "Choice: ") {
		case "1":
			cost, err := svc.OperationCost(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Total operation cost: %s\n", cost.StringFixed(2))
		case "2":
			revenue, err := svc.TotalRevenue(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Total revenue (complete payments): %s\n", revenue.StringFixed(2))
		case "3":
			profit, err := svc.Profit(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Profit (billed work minus operation cost): %s\n", profit.StringFixed(2))
		case "4":
			year, month, ok := promptYearMonth(reader)
			if !ok {
				continue
			}
			revenue, err := svc.MonthlyRevenue(ctx, year, month)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Revenue for %d-%02d: %s\n", year, month, revenue.StringFixed(2))
		case "5":
			top, err := svc.TopCustomers(ctx, 0)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printTopCustomers(top)
		case "6":
			n, err := svc.CountCustomers(ctx)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			fmt.Printf("Registered customers: %d\n", n)
		case "0":
			return
		default:
			fmt.Println("Invalid choice, try again.")
		}
	}
}

func reportMenu(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	for {
		fmt.Println()
		fmt.Println("REPORT GENERATION")
		fmt.Println("  1. Financial Summary")
		fmt.Println("  2. Sales Trend Chart")
		fmt.Println("  3. Sales Growth Graph")
		fmt.Println("  4. Monthly Sales Table")
		fmt.Println("  0. Back")

		switch prompt(reader, "Choice: ") {
		case "1":
			year, month, ok := promptYearMonth(reader)
			if !ok {
				continue
			}
			summary, err := svc.FinancialSummary(ctx, year, month)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printFinancialSummary(summary)
		case "2":
			year, ok := promptID(reader, "Year: ")
			if !ok {
				continue
			}
			trend, err := svc.SalesTrend(ctx, year)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printSalesTrend(year, trend)
		case "3":
			year, ok := promptID(reader, "Year: ")
			if !ok {
				continue
			}
			growth, err := svc.SalesGrowth(ctx, year)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printSalesGrowth(year, growth)
		case "4":
			year, month, ok := promptYearMonth(reader)
			if !ok {
				continue
			}
			table, err := svc.MonthlySalesTable(ctx, year, month)
			if err != nil {
				fmt.Printf("Error: %s\n", errMessage(err))
				continue
			}
			printSalesTable(year, month, table)
		case "0":
			return
		default:
			fmt.Println("Invalid choice, try again.")
		}
	}
}

// ── Input helpers ─────────────────────────────────────────────────────────────

func prompt(reader *bufio.Reader, label string) string {
	fmt.Print(label)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// promptID reads a positive integer; ok is false on bad input.
func promptID(reader *bufio.Reader, label string) (int, bool) {
	raw := prompt(reader, label)
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		fmt.Printf("Invalid number: %s\n", raw)
		return 0, false
	}
	return n, true
}

// promptOptionalInt reads an integer, treating blank as 0 (skip).
func promptOptionalInt(reader *bufio.Reader, label string) (int, bool) {
	raw := prompt(reader, label)
	if raw == "" {
		return 0, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		fmt.Printf("Invalid number: %s\n", raw)
		return 0, false
	}
	return n, true
}

// promptDecimal reads a decimal amount; ok is false on bad input. Blank
// input returns zero, which the services read as "skip" on updates.
func promptDecimal(reader *bufio.Reader, label string) (decimal.Decimal, bool) {
	raw := prompt(reader, label)
	if raw == "" {
		return decimal.Zero, true
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || d.IsNegative() {
		fmt.Printf("Invalid amount: %s\n", raw)
		return decimal.Zero, false
	}
	return d, true
}

func promptYearMonth(reader *bufio.Reader) (int, int, bool) {
	year, ok := promptID(reader, "Year: ")
	if !ok {
		return 0, 0, false
	}
	month, ok := promptID(reader, "Month (1-12): ")
	if !ok {
		return 0, 0, false
	}
	return year, month, true
}

// errMessage maps service error kinds to operator-facing wording; the
// loop itself never crashes on a failed action.
func errMessage(err error) string {
	switch {
	case core.IsKind(err, core.KindInsufficientStock):
		return fmt.Sprintf("not enough stock — %v", err)
	case core.IsKind(err, core.KindDuplicate):
		return fmt.Sprintf("already exists — %v", err)
	case core.IsKind(err, core.KindStore):
		return fmt.Sprintf("storage failure — %v", err)
	default:
		return err.Error()
	}
}
