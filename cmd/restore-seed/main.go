// restore-seed is a one-shot tool to restore the demo data set.
// Run it to reset the shop to a known state: one admin, one staff
// member, a couple of customers, and fresh paper/ink stock.
//
// Usage: go run ./cmd/restore-seed
package main

import (
	"context"
	"log"
	"os"

	"printshop/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("Failed to begin transaction: %v", err)
	}
	defer tx.Rollback(ctx)

	log.Println("Clearing payments, jobs and consumption history...")
	_, err = tx.Exec(ctx, `
		TRUNCATE TABLE payment, printjob, inventoryconsumption RESTART IDENTITY;
	`)
	if err != nil {
		log.Fatalf("Failed to clear transaction data: %v", err)
	}

	log.Println("Restoring accounts...")
	_, err = tx.Exec(ctx, `
		TRUNCATE TABLE users RESTART IDENTITY CASCADE;
		INSERT INTO users (full_name, email, password, role) VALUES
		    ('System Admin', 'admin@printshop.local', 'admin',  'Admin'),
		    ('Front Desk',   'desk@printshop.local',  'desk',   'Staff'),
		    ('Jane Cooper',  'jane@example.com',      'N/A',    'Customer'),
		    ('Arun Mehta',   '',                      'N/A',    'Customer');
	`)
	if err != nil {
		log.Fatalf("Failed to restore accounts: %v", err)
	}

	log.Println("Restoring stock...")
	_, err = tx.Exec(ctx, `
		TRUNCATE TABLE inventory RESTART IDENTITY CASCADE;
		INSERT INTO inventory (item_type, quantity, unit_cost) VALUES
		    ('Paper', 5000, 0.05),
		    ('Ink',     60, 12.00);
	`)
	if err != nil {
		log.Fatalf("Failed to restore stock: %v", err)
	}

	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("Failed to commit: %v", err)
	}

	log.Println("Seed data restored successfully.")
	os.Exit(0)
}
