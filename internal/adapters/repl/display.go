package repl

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"printshop/internal/core"

	"github.com/shopspring/decimal"
)

const pageSize = 10

// paginate renders rows pageSize at a time; Enter continues, q stops.
func paginate(reader *bufio.Reader, total int, renderRow func(int)) {
	for i := 0; i < total; i++ {
		renderRow(i)
		if (i+1)%pageSize == 0 && i+1 < total {
			fmt.Print("  -- [Enter] for more, q to stop -- ")
			input, _ := reader.ReadString('\n')
			if strings.EqualFold(strings.TrimSpace(input), "q") {
				return
			}
		}
	}
}

func printUsers(users []core.User, reader *bufio.Reader) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 72))
	fmt.Printf("  USERS (%d)\n", len(users))
	fmt.Println(strings.Repeat("=", 72))
	if len(users) == 0 {
		fmt.Println("  No users found.")
		fmt.Println(strings.Repeat("=", 72))
		return
	}
	fmt.Printf("  %-5s %-28s %-10s %s\n", "ID", "NAME", "ROLE", "EMAIL")
	fmt.Println(strings.Repeat("-", 72))
	paginate(reader, len(users), func(i int) {
		u := users[i]
		fmt.Printf("  %-5d %-28s %-10s %s\n", u.ID, u.FullName, u.Role, u.Email)
	})
	fmt.Println(strings.Repeat("=", 72))
}

func printUserDetail(u *core.User) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("  ID:      %d\n", u.ID)
	fmt.Printf("  Name:    %s\n", u.FullName)
	fmt.Printf("  Email:   %s\n", u.Email)
	fmt.Printf("  Role:    %s\n", u.Role)
	fmt.Printf("  Since:   %s\n", u.CreatedAt.Format("2006-01-02"))
	fmt.Println(strings.Repeat("-", 50))
}

func printJobs(jobs []core.PrintJob, reader *bufio.Reader) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 76))
	fmt.Printf("  PRINT JOBS (%d)\n", len(jobs))
	fmt.Println(strings.Repeat("=", 76))
	if len(jobs) == 0 {
		fmt.Println("  No jobs found.")
		fmt.Println(strings.Repeat("=", 76))
		return
	}
	fmt.Printf("  %-5s %-24s %8s %10s %12s  %s\n", "ID", "CUSTOMER", "PAGES", "PER PAGE", "JOB COST", "DATE")
	fmt.Println(strings.Repeat("-", 76))
	paginate(reader, len(jobs), func(i int) {
		j := jobs[i]
		name := j.CustomerName
		if name == "" {
			name = "(deleted account)"
		}
		fmt.Printf("  %-5d %-24s %8d %10s %12s  %s\n",
			j.JobID, name, j.PageCount,
			j.CostPerPage.StringFixed(2), j.JobCost.StringFixed(2),
			j.CreatedAt.Format("2006-01-02"))
	})
	fmt.Println(strings.Repeat("=", 76))
}

func printJobDetail(j *core.PrintJob) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("  Job:       %d\n", j.JobID)
	fmt.Printf("  Customer:  %s (ID %d)\n", j.CustomerName, j.UserID)
	fmt.Printf("  Pages:     %d\n", j.PageCount)
	fmt.Printf("  Per page:  %s\n", j.CostPerPage.StringFixed(2))
	fmt.Printf("  Job cost:  %s\n", j.JobCost.StringFixed(2))
	fmt.Printf("  Ink used:  %d unit(s)\n", core.InkUnitsForPages(j.PageCount))
	fmt.Printf("  Date:      %s\n", j.CreatedAt.Format("2006-01-02"))
	fmt.Println(strings.Repeat("-", 50))
}

func printPayments(payments []core.Payment) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 80))
	fmt.Printf("  PAYMENTS (%d)\n", len(payments))
	fmt.Println(strings.Repeat("=", 80))
	if len(payments) == 0 {
		fmt.Println("  No payments found.")
		fmt.Println(strings.Repeat("=", 80))
		return
	}
	fmt.Printf("  %-5s %-22s %-6s %10s %-8s %-12s %s\n", "ID", "CUSTOMER", "JOB", "AMOUNT", "METHOD", "STATUS", "DATE")
	fmt.Println(strings.Repeat("-", 80))
	for _, p := range payments {
		name := p.CustomerName
		if name == "" {
			name = "(deleted account)"
		}
		fmt.Printf("  %-5d %-22s %-6d %10s %-8s %-12s %s\n",
			p.TransactionID, name, p.JobID,
			p.Amount.StringFixed(2), p.Method, p.Status,
			p.CreatedAt.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 80))
}

func printPaymentDetail(p *core.Payment) {
	fmt.Println()
	fmt.Println(strings.Repeat("-", 50))
	fmt.Printf("  Transaction:  %d\n", p.TransactionID)
	fmt.Printf("  Customer:     %s (ID %d)\n", p.CustomerName, p.UserID)
	fmt.Printf("  Job:          %d\n", p.JobID)
	fmt.Printf("  Amount:       %s\n", p.Amount.StringFixed(2))
	fmt.Printf("  Method:       %s\n", p.Method)
	fmt.Printf("  Status:       %s\n", p.Status)
	fmt.Printf("  Reference:    %s\n", p.Reference)
	fmt.Printf("  Date:         %s\n", p.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Println(strings.Repeat("-", 50))
}

func printReceipt(r *core.PaymentReceipt) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("  RECEIPT %s\n", r.Payment.Reference)
	fmt.Println(strings.Repeat("=", 50))
	fmt.Printf("  Job cost:  %s\n", r.JobCost.StringFixed(2))
	fmt.Printf("  Paid:      %s (%s)\n", r.Payment.Amount.StringFixed(2), r.Payment.Method)
	fmt.Printf("  Status:    %s\n", r.Payment.Status)
	if r.Balance.IsNegative() {
		fmt.Printf("  Owed:      %s\n", r.Balance.Neg().StringFixed(2))
	} else {
		fmt.Printf("  Change:    %s\n", r.Balance.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 50))
}

func printInventory(items []core.InventoryItem) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  INVENTORY (%d)\n", len(items))
	fmt.Println(strings.Repeat("=", 62))
	if len(items) == 0 {
		fmt.Println("  No items found.")
		fmt.Println(strings.Repeat("=", 62))
		return
	}
	fmt.Printf("  %-5s %-18s %10s %12s  %s\n", "ID", "TYPE", "QTY", "UNIT COST", "UPDATED")
	fmt.Println(strings.Repeat("-", 62))
	for _, it := range items {
		fmt.Printf("  %-5d %-18s %10d %12s  %s\n",
			it.ID, it.ItemType, it.Quantity, it.UnitCost.StringFixed(2),
			it.UpdatedAt.Format("2006-01-02"))
	}
	fmt.Println(strings.Repeat("=", 62))
}

func printStockStatus(report []core.StockStatus) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  %-58s\n", "STOCK STATUS")
	fmt.Println(strings.Repeat("=", 62))
	if len(report) == 0 {
		fmt.Println("  No items found.")
		fmt.Println(strings.Repeat("=", 62))
		return
	}
	fmt.Printf("  %-5s %-18s %10s %10s %10s\n", "ID", "TYPE", "INITIAL", "CONSUMED", "LEFT")
	fmt.Println(strings.Repeat("-", 62))
	for _, st := range report {
		fmt.Printf("  %-5d %-18s %10d %10d %10d\n",
			st.ID, st.ItemType, st.Initial, st.Consumed, st.Remaining)
	}
	fmt.Println(strings.Repeat("=", 62))
}

func printTopCustomers(top []core.TopCustomer) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 52))
	fmt.Println("  TOP CUSTOMERS BY JOB COUNT")
	fmt.Println(strings.Repeat("=", 52))
	if len(top) == 0 {
		fmt.Println("  No jobs recorded yet.")
		fmt.Println(strings.Repeat("=", 52))
		return
	}
	fmt.Printf("  %-5s %-30s %8s\n", "ID", "NAME", "JOBS")
	fmt.Println(strings.Repeat("-", 52))
	for _, tc := range top {
		fmt.Printf("  %-5d %-30s %8d\n", tc.UserID, tc.FullName, tc.JobCount)
	}
	fmt.Println(strings.Repeat("=", 52))
}

func printFinancialSummary(s *core.FinancialSummary) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 52))
	fmt.Printf("  FINANCIAL SUMMARY — %d-%02d\n", s.Year, s.Month)
	fmt.Println(strings.Repeat("=", 52))
	fmt.Printf("  %-28s %15s\n", "Monthly sales", s.Sales.StringFixed(2))
	fmt.Printf("  %-28s %15s\n", "Inventory value", s.Assets.StringFixed(2))
	fmt.Printf("  %-28s %15s\n", "Consumption cost", s.Cost.StringFixed(2))
	fmt.Printf("  %-28s %15s\n", "Profit", s.Profit.StringFixed(2))
	fmt.Printf("  %-28s %14s%%\n", "Margin", s.Margin.StringFixed(1))
	fmt.Println(strings.Repeat("=", 52))
}

const chartWidth = 40

// chartBar scales a month's total against the year's maximum into a
// bar of at most width characters. Non-zero totals always show at
// least one character.
func chartBar(total, max decimal.Decimal, width int) string {
	if max.IsZero() || total.IsZero() || total.IsNegative() {
		return ""
	}
	n := int(total.Div(max).Mul(decimal.NewFromInt(int64(width))).IntPart())
	if n < 1 {
		n = 1
	}
	if n > width {
		n = width
	}
	return strings.Repeat("#", n)
}

func printSalesTrend(year int, trend []core.TrendPoint) {
	max := decimal.Zero
	for _, tp := range trend {
		if tp.Total.GreaterThan(max) {
			max = tp.Total
		}
	}

	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  SALES TREND — %d\n", year)
	fmt.Println(strings.Repeat("=", 62))
	if max.IsZero() {
		fmt.Println("  No completed payments recorded this year.")
		fmt.Println(strings.Repeat("=", 62))
		return
	}
	for _, tp := range trend {
		fmt.Printf("  %-4s |%-*s %12s\n",
			time.Month(tp.Month).String()[:3],
			chartWidth, chartBar(tp.Total, max, chartWidth),
			tp.Total.StringFixed(2))
	}
	fmt.Println(strings.Repeat("=", 62))
}

func printSalesGrowth(year int, growth []core.GrowthPoint) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 62))
	fmt.Printf("  SALES GROWTH — %d\n", year)
	fmt.Println(strings.Repeat("=", 62))
	if len(growth) == 0 {
		fmt.Println("  No completed payments recorded this year.")
		fmt.Println(strings.Repeat("=", 62))
		return
	}
	fmt.Printf("  %-6s %14s %12s\n", "MONTH", "REVENUE", "CHANGE")
	fmt.Println(strings.Repeat("-", 62))
	for _, gp := range growth {
		change := "n/a"
		if gp.HasPrevious {
			change = gp.Change.StringFixed(1)
			if !gp.Change.IsNegative() {
				change = "+" + change
			}
			change += "%"
		}
		fmt.Printf("  %-6s %14s %12s\n",
			time.Month(gp.Month).String()[:3],
			gp.Total.StringFixed(2), change)
	}
	fmt.Println(strings.Repeat("=", 62))
}

func printSalesTable(year, month int, table []core.SalesRow) {
	fmt.Println()
	fmt.Println(strings.Repeat("=", 76))
	fmt.Printf("  MONTHLY SALES — %d-%02d\n", year, month)
	fmt.Println(strings.Repeat("=", 76))
	if len(table) == 0 {
		fmt.Println("  No transactions recorded this month.")
		fmt.Println(strings.Repeat("=", 76))
		return
	}
	fmt.Printf("  %-5s %-24s %10s %-8s %-12s %s\n", "ID", "CUSTOMER", "AMOUNT", "METHOD", "STATUS", "DATE")
	fmt.Println(strings.Repeat("-", 76))
	total := decimal.Zero
	for _, sr := range table {
		name := sr.CustomerName
		if name == "" {
			name = "(deleted account)"
		}
		fmt.Printf("  %-5d %-24s %10s %-8s %-12s %s\n",
			sr.TransactionID, name, sr.Amount.StringFixed(2),
			sr.Method, sr.Status, sr.Date.Format("2006-01-02"))
		if sr.Status == core.PaymentComplete {
			total = total.Add(sr.Amount)
		}
	}
	fmt.Println(strings.Repeat("-", 76))
	fmt.Printf("  %-31s %10s\n", "COMPLETED TOTAL", total.StringFixed(2))
	fmt.Println(strings.Repeat("=", 76))
}
