package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"printshop/internal/adapters/repl"
	"printshop/internal/ai"
	"printshop/internal/app"
	"printshop/internal/core"
	"printshop/internal/db"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()
	pool, err := db.NewPool(ctx)
	if err != nil {
		log.Fatalf("Unable to connect to database: %v", err)
	}
	defer pool.Close()

	users := core.NewUserService(pool)
	inventory := core.NewInventoryService(pool)
	jobs := core.NewPrintJobService(pool, inventory)
	payments := core.NewPaymentService(pool)
	sales := core.NewSalesService(pool)
	reports := core.NewReportService(pool)

	var agent *ai.Agent
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		agent = ai.NewAgent(apiKey)
	} else {
		log.Println("OPENAI_API_KEY is not set — AI job intake disabled")
	}

	svc := app.NewAppService(users, inventory, jobs, payments, sales, reports, agent)

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "intake":
			if len(os.Args) < 3 {
				log.Fatal("Usage: app intake \"<order description>\"")
			}
			result, err := svc.DraftJobIntake(ctx, os.Args[2])
			if err != nil {
				log.Fatalf("Intake error: %v", err)
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			enc.Encode(result)

		case "stock":
			result, err := svc.InventoryStatus(ctx)
			if err != nil {
				log.Fatalf("Failed to fetch stock status: %v", err)
			}
			printStock(result.Report)

		default:
			log.Fatalf("Unknown command: %s", os.Args[1])
		}
		return
	}

	repl.Run(ctx, svc, bufio.NewReader(os.Stdin))
}

func printStock(report []core.StockStatus) {
	fmt.Printf("%-5s %-18s %10s %10s %10s\n", "ID", "TYPE", "INITIAL", "CONSUMED", "LEFT")
	fmt.Println(strings.Repeat("-", 60))
	for _, st := range report {
		fmt.Printf("%-5d %-18s %10d %10d %10d\n", st.ID, st.ItemType, st.Initial, st.Consumed, st.Remaining)
	}
	fmt.Println(strings.Repeat("-", 60))
}
