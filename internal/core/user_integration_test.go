package core_test

import (
	"context"
	"os"
	"strings"
	"testing"

	"printshop/internal/core"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

// setupTestDB connects to TEST_DATABASE_URL and resets it to a known
// state: an admin, a staff member, one customer, and fresh paper/ink
// stock. Tests are skipped when the variable is unset.
//
// Seeded IDs: user 1 = Root Admin, 2 = Counter Staff, 3 = Jane Cooper;
// inventory 1 = Paper (1000 @ 0.05), 2 = Ink (20 @ 12.00).
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	_ = godotenv.Load("../../.env")
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set — skipping integration test to protect live database")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `
		TRUNCATE TABLE payment, printjob, inventoryconsumption, inventory, users RESTART IDENTITY CASCADE;

		INSERT INTO users (full_name, email, password, role) VALUES
		    ('Root Admin',    'root@printshop.local',    'root',    'Admin'),
		    ('Counter Staff', 'counter@printshop.local', 'counter', 'Staff'),
		    ('Jane Cooper',   'jane@example.com',        'N/A',     'Customer');

		INSERT INTO inventory (item_type, quantity, unit_cost) VALUES
		    ('Paper', 1000, 0.05),
		    ('Ink',     20, 12.00);
	`)
	if err != nil {
		t.Fatalf("failed to reset test database: %v", err)
	}

	return pool
}

func TestUserLifecycleIntegration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := core.NewUserService(pool)

	// Customer accounts never store a real password.
	cust, err := users.CreateUser(ctx, "Arun Mehta", "arun@example.com", "hunter2", core.RoleCustomer)
	if err != nil {
		t.Fatalf("CreateUser(customer) failed: %v", err)
	}
	if cust.Password != core.CustomerPasswordPlaceholder {
		t.Errorf("customer password = %q, want placeholder %q", cust.Password, core.CustomerPasswordPlaceholder)
	}

	// Staff accounts require one.
	if _, err := users.CreateUser(ctx, "New Hire", "", "", core.RoleStaff); !core.IsKind(err, core.KindValidation) {
		t.Errorf("staff without password: expected validation error, got %v", err)
	}

	// Non-empty emails are unique. The kind carries the classification;
	// the message stays neutral about the cause.
	_, err = users.CreateUser(ctx, "Someone Else", "arun@example.com", "", core.RoleCustomer)
	if !core.IsKind(err, core.KindDuplicate) {
		t.Errorf("duplicate email: expected duplicate error, got %v", err)
	}
	if err != nil && !strings.Contains(err.Error(), "failed to insert user") {
		t.Errorf("duplicate email message = %q, want the neutral insert wording", err)
	}

	// Empty emails are not.
	if _, err := users.CreateUser(ctx, "No Email One", "", "", core.RoleCustomer); err != nil {
		t.Fatalf("first empty-email account failed: %v", err)
	}
	if _, err := users.CreateUser(ctx, "No Email Two", "", "", core.RoleCustomer); err != nil {
		t.Fatalf("second empty-email account failed: %v", err)
	}

	// Partial update touches only the supplied field.
	newEmail := "arun.mehta@example.com"
	changed, err := users.UpdateUser(ctx, cust.ID, core.UserPatch{Email: &newEmail})
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if !changed {
		t.Error("expected UpdateUser to report a change")
	}
	got, err := users.GetUser(ctx, cust.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.Email != newEmail {
		t.Errorf("email = %q, want %q", got.Email, newEmail)
	}
	if got.FullName != "Arun Mehta" {
		t.Errorf("full name changed unexpectedly: %q", got.FullName)
	}

	// Empty patch is a no-op, not an error.
	changed, err = users.UpdateUser(ctx, cust.ID, core.UserPatch{})
	if err != nil {
		t.Fatalf("empty patch errored: %v", err)
	}
	if changed {
		t.Error("empty patch must not report a change")
	}

	if err := users.DeleteUser(ctx, cust.ID); err != nil {
		t.Fatalf("DeleteUser failed: %v", err)
	}
	if _, err := users.GetUser(ctx, cust.ID); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("expected not-found after delete, got %v", err)
	}
	if err := users.DeleteUser(ctx, cust.ID); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("second delete: expected not-found, got %v", err)
	}
}

func TestSearchAndCountIntegration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := core.NewUserService(pool)

	// Case-insensitive substring match.
	found, err := users.SearchUsers(ctx, "jane")
	if err != nil {
		t.Fatalf("SearchUsers failed: %v", err)
	}
	if len(found) != 1 || found[0].FullName != "Jane Cooper" {
		t.Errorf("SearchUsers(jane) = %+v, want Jane Cooper", found)
	}

	// Customer search excludes console accounts.
	found, err = users.SearchCustomers(ctx, "o")
	if err != nil {
		t.Fatalf("SearchCustomers failed: %v", err)
	}
	for _, u := range found {
		if u.Role != core.RoleCustomer {
			t.Errorf("SearchCustomers returned non-customer %q (%s)", u.FullName, u.Role)
		}
	}

	n, err := users.CountCustomers(ctx)
	if err != nil {
		t.Fatalf("CountCustomers failed: %v", err)
	}
	if n != 1 {
		t.Errorf("CountCustomers = %d, want 1", n)
	}
}

func TestAuthenticateIntegration(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()
	users := core.NewUserService(pool)

	u, err := users.Authenticate(ctx, "Root Admin", "root")
	if err != nil {
		t.Fatalf("Authenticate(admin) failed: %v", err)
	}
	if u.Role != core.RoleAdmin {
		t.Errorf("role = %s, want Admin", u.Role)
	}

	if _, err := users.Authenticate(ctx, "Root Admin", "wrong"); !core.IsKind(err, core.KindNotFound) {
		t.Errorf("bad password: expected not-found, got %v", err)
	}

	// Customers exist in the table but cannot use the console, even with
	// the placeholder that is literally their stored password.
	if _, err := users.Authenticate(ctx, "Jane Cooper", core.CustomerPasswordPlaceholder); !core.IsKind(err, core.KindValidation) {
		t.Errorf("customer sign-in: expected validation error, got %v", err)
	}
}
