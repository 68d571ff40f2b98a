package repl

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"printshop/internal/app"
	"printshop/internal/core"
)

// handleCreateUser walks through account registration. Customers get no
// password prompt; the service stores the placeholder for them.
func handleCreateUser(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	name := prompt(reader, "Full name: ")
	if name == "" {
		fmt.Println("Cancelled: name is required.")
		return
	}

	var role core.Role
	switch prompt(reader, "Role (1=Admin, 2=Staff, 3=Customer): ") {
	case "1":
		role = core.RoleAdmin
	case "2":
		role = core.RoleStaff
	case "3":
		role = core.RoleCustomer
	default:
		fmt.Println("Cancelled: unknown role.")
		return
	}

	email := prompt(reader, "Email (optional): ")

	var password string
	if role != core.RoleCustomer {
		password = prompt(reader, "Password: ")
	}

	result, err := svc.CreateUser(ctx, app.CreateUserRequest{
		FullName: name,
		Email:    email,
		Password: password,
		Role:     role,
	})
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	fmt.Printf("User created (ID: %d, Role: %s)\n", result.User.ID, result.User.Role)
}

// handleUpdateUser prompts per field; blank keeps the current value.
func handleUpdateUser(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	id, ok := promptID(reader, "User ID: ")
	if !ok {
		return
	}
	current, err := svc.GetUser(ctx, id)
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	printUserDetail(current.User)
	fmt.Println("Leave a field blank to keep it.")

	req := app.UpdateUserRequest{UserID: id}
	if v := prompt(reader, "New full name: "); v != "" {
		req.FullName = &v
	}
	if v := prompt(reader, "New email: "); v != "" {
		req.Email = &v
	}
	if v := prompt(reader, "New password: "); v != "" {
		req.Password = &v
	}
	if v := prompt(reader, "New role (Admin/Staff/Customer): "); v != "" {
		role := core.Role(v)
		req.Role = &role
	}

	result, err := svc.UpdateUser(ctx, req)
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	if !result.Changed {
		fmt.Println("No changes supplied.")
		return
	}
	fmt.Printf("User %d updated.\n", id)
}

// pickCustomer searches by name and lets the operator choose an account ID.
func pickCustomer(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) (int, bool) {
	pattern := prompt(reader, "Customer name contains (blank for all): ")
	result, err := svc.SearchCustomers(ctx, pattern)
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return 0, false
	}
	if len(result.Users) == 0 {
		fmt.Println("No matching customers.")
		return 0, false
	}
	for _, u := range result.Users {
		fmt.Printf("  [%d] %s\n", u.ID, u.FullName)
	}
	return promptID(reader, "Customer ID: ")
}

// handleCreateJob runs the create-job wizard: pick a customer, check
// stock for the page count, then book the job.
func handleCreateJob(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	userID, ok := pickCustomer(ctx, svc, reader)
	if !ok {
		return
	}

	pages, ok := promptID(reader, "Page count: ")
	if !ok {
		return
	}

	check, err := svc.CheckStock(ctx, pages)
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	if !check.Sufficient {
		for _, sh := range check.Shortages {
			fmt.Printf("Short on %s: need %d, have %d\n", sh.ItemType, sh.Required, sh.Available)
		}
		fmt.Println("Job not created.")
		return
	}

	cost, ok := promptDecimal(reader, "Cost per page: ")
	if !ok {
		return
	}

	result, err := svc.CreateJob(ctx, app.CreateJobRequest{
		UserID:      userID,
		PageCount:   pages,
		CostPerPage: cost,
	})
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	printJobDetail(result.Job)
}

// handleUpdateJob shows the current job and applies a partial change.
func handleUpdateJob(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	id, ok := promptID(reader, "Job ID: ")
	if !ok {
		return
	}
	current, err := svc.GetJob(ctx, id)
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	printJobDetail(current.Job)
	fmt.Println("Leave a field blank to keep it.")

	pages, ok := promptOptionalInt(reader, "New page count: ")
	if !ok {
		return
	}
	cost, ok := promptDecimal(reader, "New cost per page: ")
	if !ok {
		return
	}

	result, err := svc.UpdateJob(ctx, app.UpdateJobRequest{
		JobID:       id,
		PageCount:   pages,
		CostPerPage: cost,
	})
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	if !result.Changed {
		fmt.Println("No changes supplied.")
		return
	}
	updated, err := svc.GetJob(ctx, id)
	if err != nil {
		fmt.Printf("Job %d updated.\n", id)
		return
	}
	printJobDetail(updated.Job)
}

// handleCreatePayment records the one payment a job can take.
func handleCreatePayment(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	userID, ok := pickCustomer(ctx, svc, reader)
	if !ok {
		return
	}

	jobs, err := svc.ListJobsForUser(ctx, userID)
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	if len(jobs.Jobs) == 0 {
		fmt.Println("This customer has no jobs.")
		return
	}
	for _, j := range jobs.Jobs {
		fmt.Printf("  [%d] %d pages, cost %s\n", j.JobID, j.PageCount, j.JobCost.StringFixed(2))
	}

	jobID, ok := promptID(reader, "Job ID: ")
	if !ok {
		return
	}
	amount, ok := promptDecimal(reader, "Amount: ")
	if !ok {
		return
	}
	method := prompt(reader, "Method (e.g. Cash, Card): ")

	receipt, err := svc.CreatePayment(ctx, app.CreatePaymentRequest{
		UserID: userID,
		JobID:  jobID,
		Amount: amount,
		Method: method,
	})
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	printReceipt(receipt)
}

// handleUpdatePayment applies a partial payment change.
func handleUpdatePayment(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	id, ok := promptID(reader, "Transaction ID: ")
	if !ok {
		return
	}
	current, err := svc.GetPayment(ctx, id)
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	printPaymentDetail(current.Payment)
	fmt.Println("Leave a field blank to keep it.")

	amount, ok := promptDecimal(reader, "New amount: ")
	if !ok {
		return
	}
	method := prompt(reader, "New method: ")

	result, err := svc.UpdatePayment(ctx, app.UpdatePaymentRequest{
		TransactionID: id,
		Amount:        amount,
		Method:        method,
	})
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	if !result.Changed {
		fmt.Println("No changes supplied.")
		return
	}
	fmt.Printf("Payment %d updated.\n", id)
}

// handleAddItem registers a consumable.
func handleAddItem(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	itemType := prompt(reader, "Item type (e.g. Paper, Ink): ")
	quantity, ok := promptOptionalInt(reader, "Opening quantity: ")
	if !ok {
		return
	}
	unitCost, ok := promptDecimal(reader, "Unit cost: ")
	if !ok {
		return
	}

	result, err := svc.AddInventoryItem(ctx, app.AddItemRequest{
		ItemType: itemType,
		Quantity: quantity,
		UnitCost: unitCost,
	})
	if err != nil {
		fmt.Printf("Error: %s\n", errMessage(err))
		return
	}
	fmt.Printf("Item created (ID: %d, %s, qty %d)\n", result.Item.ID, result.Item.ItemType, result.Item.Quantity)
}

// handleJobIntake routes a free-text order description through the AI
// assistant, looping on clarification requests, then books the drafted
// job after confirmation.
func handleJobIntake(ctx context.Context, svc app.ApplicationService, reader *bufio.Reader) {
	input := prompt(reader, "Describe the order: ")
	if input == "" {
		return
	}

	fmt.Println("[AI] Processing...")
	accumulatedInput := input

	rounds := 0
	for {
		rounds++
		if rounds > 3 {
			fmt.Println("Could not draft a job from the description. Use the create wizard instead.")
			return
		}

		result, err := svc.DraftJobIntake(ctx, accumulatedInput)
		if err != nil {
			fmt.Printf("Error: %s\n", errMessage(err))
			return
		}

		if result.IsClarification {
			fmt.Printf("\n[AI]: %s\n", result.ClarificationMessage)
			followUp := prompt(reader, "> ")
			if followUp == "" || strings.EqualFold(followUp, "cancel") {
				fmt.Println("Cancelled.")
				return
			}
			accumulatedInput = fmt.Sprintf("Original order: %s\nClarification requested: %s\nUser response: %s",
				accumulatedInput, result.ClarificationMessage, followUp)
			fmt.Println("[AI] Thinking...")
			continue
		}

		intake := result.Intake
		fmt.Printf("\nCUSTOMER:   %s\n", intake.CustomerName)
		fmt.Printf("PAGES:      %d\n", intake.PageCount)
		fmt.Printf("PER PAGE:   %s\n", intake.CostPerPage)
		if intake.Notes != "" {
			fmt.Printf("NOTES:      %s\n", intake.Notes)
		}
		fmt.Printf("CONFIDENCE: %.2f\n", intake.Confidence)
		if intake.Confidence < 0.6 {
			fmt.Println("\nWARNING: Low confidence draft.")
		}

		matches, err := svc.SearchCustomers(ctx, intake.CustomerName)
		if err != nil {
			fmt.Printf("Error: %s\n", errMessage(err))
			return
		}
		var userID int
		switch len(matches.Users) {
		case 0:
			fmt.Printf("No customer account matches %q. Create the account first.\n", intake.CustomerName)
			return
		case 1:
			userID = matches.Users[0].ID
			fmt.Printf("Matched account #%d %s\n", userID, matches.Users[0].FullName)
		default:
			for _, u := range matches.Users {
				fmt.Printf("  [%d] %s\n", u.ID, u.FullName)
			}
			id, ok := promptID(reader, "Customer ID: ")
			if !ok {
				return
			}
			userID = id
		}

		choice := strings.ToLower(prompt(reader, "\nBook this job? (y/n): "))
		if choice != "y" && choice != "yes" {
			fmt.Println("Cancelled.")
			return
		}

		created, err := svc.CreateJob(ctx, app.CreateJobRequest{
			UserID:      userID,
			PageCount:   intake.PageCount,
			CostPerPage: intake.Cost(),
		})
		if err != nil {
			fmt.Printf("Job FAILED: %s\n", errMessage(err))
			return
		}
		printJobDetail(created.Job)
		return
	}
}
