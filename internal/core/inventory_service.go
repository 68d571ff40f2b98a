package core

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// InventoryService manages consumable stock (paper, ink) and the
// append-only consumption log that print jobs write into.
type InventoryService interface {
	// Standalone operations (manage their own transactions).

	// AddItem registers a new consumable with its opening quantity.
	AddItem(ctx context.Context, itemType string, quantity int, unitCost decimal.Decimal) (*InventoryItem, error)
	// TopUp increases an item's on-shelf quantity without touching the
	// consumption log. Restocking is not consumption.
	TopUp(ctx context.Context, inventoryID, amount int) error
	// RecordConsumption manually books usage: decrements stock and appends
	// a log row in one transaction.
	RecordConsumption(ctx context.Context, inventoryID, used int) error
	// ListItems returns every inventory row in ID order.
	ListItems(ctx context.Context) ([]InventoryItem, error)
	// ItemDetail returns the derived view of a single item.
	ItemDetail(ctx context.Context, inventoryID int) (*StockStatus, error)
	// StatusReport reconstructs initial stock per item as remaining plus
	// the summed consumption log.
	StatusReport(ctx context.Context) ([]StockStatus, error)
	// CheckStockForJob reports whether paper and ink can cover a job of
	// the given page count, and by how much each falls short. It reads
	// the same stock row job creation draws from.
	CheckStockForJob(ctx context.Context, pages int) (*StockCheck, error)

	// TX-scoped operations: work within a caller-provided transaction.
	// Used by PrintJobService to keep stock changes atomic with job rows.

	// ConsumeForJobTx deducts paper for each page and ink per started
	// block of PagesPerInkUnit pages, logging both consumptions.
	ConsumeForJobTx(ctx context.Context, tx pgx.Tx, pages int) error
	// AdjustForJobTx applies signed paper/ink deltas for a job update.
	// Positive deltas consume stock (validated), negative deltas return
	// it; both append signed log rows.
	AdjustForJobTx(ctx context.Context, tx pgx.Tx, pageDiff, inkDiff int) error
}

type inventoryService struct {
	pool *pgxpool.Pool
}

// NewInventoryService constructs an InventoryService backed by PostgreSQL.
func NewInventoryService(pool *pgxpool.Pool) InventoryService {
	return &inventoryService{pool: pool}
}

// ── Standalone operations ─────────────────────────────────────────────────────

func (s *inventoryService) AddItem(ctx context.Context, itemType string, quantity int, unitCost decimal.Decimal) (*InventoryItem, error) {
	if itemType == "" {
		return nil, NewError(KindValidation, "item type is required")
	}
	if quantity < 0 {
		return nil, NewError(KindValidation, "quantity cannot be negative, got %d", quantity)
	}
	if unitCost.IsNegative() {
		return nil, NewError(KindValidation, "unit cost cannot be negative, got %s", unitCost)
	}

	item := &InventoryItem{ItemType: itemType, Quantity: quantity, UnitCost: unitCost}
	err := s.pool.QueryRow(ctx, `
		INSERT INTO inventory (item_type, quantity, unit_cost)
		VALUES ($1, $2, $3)
		RETURNING inventory_id, time_stamp`,
		itemType, quantity, unitCost,
	).Scan(&item.ID, &item.UpdatedAt)
	if err != nil {
		return nil, storeErr(err, "failed to insert inventory item %q", itemType)
	}
	return item, nil
}

func (s *inventoryService) TopUp(ctx context.Context, inventoryID, amount int) error {
	if amount <= 0 {
		return NewError(KindValidation, "top-up amount must be positive, got %d", amount)
	}
	tag, err := s.pool.Exec(ctx, `
		UPDATE inventory
		SET quantity = quantity + $1, time_stamp = NOW()
		WHERE inventory_id = $2`,
		amount, inventoryID,
	)
	if err != nil {
		return storeErr(err, "failed to top up inventory id=%d", inventoryID)
	}
	if tag.RowsAffected() == 0 {
		return NewError(KindNotFound, "inventory item id=%d not found", inventoryID)
	}
	return nil
}

func (s *inventoryService) RecordConsumption(ctx context.Context, inventoryID, used int) error {
	if used <= 0 {
		return NewError(KindValidation, "consumed quantity must be positive, got %d", used)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return storeErr(err, "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	var itemType string
	var quantity int
	err = tx.QueryRow(ctx,
		"SELECT item_type, quantity FROM inventory WHERE inventory_id = $1 FOR UPDATE",
		inventoryID,
	).Scan(&itemType, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NewError(KindNotFound, "inventory item id=%d not found", inventoryID)
		}
		return storeErr(err, "failed to lock inventory id=%d", inventoryID)
	}
	if used > quantity {
		return NewError(KindInsufficientStock, "insufficient %s: requested %d, available %d", itemType, used, quantity)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inventory
		SET quantity = quantity - $1, time_stamp = NOW()
		WHERE inventory_id = $2`,
		used, inventoryID,
	); err != nil {
		return storeErr(err, "failed to decrement inventory id=%d", inventoryID)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO inventoryconsumption (inventory_id, quantity_used)
		VALUES ($1, $2)`,
		inventoryID, used,
	); err != nil {
		return storeErr(err, "failed to insert consumption row for inventory id=%d", inventoryID)
	}

	if err := tx.Commit(ctx); err != nil {
		return storeErr(err, "failed to commit consumption")
	}
	return nil
}

func (s *inventoryService) ListItems(ctx context.Context) ([]InventoryItem, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT inventory_id, item_type, quantity, unit_cost, time_stamp
		FROM inventory
		ORDER BY inventory_id`)
	if err != nil {
		return nil, storeErr(err, "failed to query inventory")
	}
	defer rows.Close()

	var items []InventoryItem
	for rows.Next() {
		var it InventoryItem
		if err := rows.Scan(&it.ID, &it.ItemType, &it.Quantity, &it.UnitCost, &it.UpdatedAt); err != nil {
			return nil, storeErr(err, "failed to scan inventory item")
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating inventory rows")
	}
	return items, nil
}

const stockStatusQuery = `
	SELECT i.inventory_id, i.item_type, i.quantity,
	       COALESCE(SUM(c.quantity_used), 0) AS consumed
	FROM inventory i
	LEFT JOIN inventoryconsumption c ON c.inventory_id = i.inventory_id`

func (s *inventoryService) ItemDetail(ctx context.Context, inventoryID int) (*StockStatus, error) {
	st := &StockStatus{}
	err := s.pool.QueryRow(ctx, stockStatusQuery+`
		WHERE i.inventory_id = $1
		GROUP BY i.inventory_id, i.item_type, i.quantity`,
		inventoryID,
	).Scan(&st.ID, &st.ItemType, &st.Remaining, &st.Consumed)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, NewError(KindNotFound, "inventory item id=%d not found", inventoryID)
		}
		return nil, storeErr(err, "failed to fetch inventory detail id=%d", inventoryID)
	}
	st.Initial = st.Remaining + st.Consumed
	return st, nil
}

func (s *inventoryService) StatusReport(ctx context.Context) ([]StockStatus, error) {
	rows, err := s.pool.Query(ctx, stockStatusQuery+`
		GROUP BY i.inventory_id, i.item_type, i.quantity
		ORDER BY i.inventory_id`)
	if err != nil {
		return nil, storeErr(err, "failed to query stock status")
	}
	defer rows.Close()

	var report []StockStatus
	for rows.Next() {
		var st StockStatus
		if err := rows.Scan(&st.ID, &st.ItemType, &st.Remaining, &st.Consumed); err != nil {
			return nil, storeErr(err, "failed to scan stock status row")
		}
		st.Initial = st.Remaining + st.Consumed
		report = append(report, st)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err, "error iterating stock status rows")
	}
	return report, nil
}

func (s *inventoryService) CheckStockForJob(ctx context.Context, pages int) (*StockCheck, error) {
	if pages <= 0 {
		return nil, NewError(KindValidation, "page count must be positive, got %d", pages)
	}

	needs := []StockShortage{
		{ItemType: ItemPaper, Required: pages},
		{ItemType: ItemInk, Required: InkUnitsForPages(pages)},
	}

	check := &StockCheck{Sufficient: true}
	for _, need := range needs {
		// Jobs draw from the first row of each material; the check must
		// read the same row or it would pass jobs that then fail.
		var available int
		err := s.pool.QueryRow(ctx, `
			SELECT quantity
			FROM inventory
			WHERE item_type = $1
			ORDER BY inventory_id
			LIMIT 1`,
			need.ItemType,
		).Scan(&available)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return nil, storeErr(err, "failed to query %s stock", need.ItemType)
		}
		if available < need.Required {
			need.Available = available
			check.Sufficient = false
			check.Shortages = append(check.Shortages, need)
		}
	}
	return check, nil
}

// ── TX-scoped operations ──────────────────────────────────────────────────────

func (s *inventoryService) ConsumeForJobTx(ctx context.Context, tx pgx.Tx, pages int) error {
	return s.AdjustForJobTx(ctx, tx, pages, InkUnitsForPages(pages))
}

func (s *inventoryService) AdjustForJobTx(ctx context.Context, tx pgx.Tx, pageDiff, inkDiff int) error {
	if err := s.adjustMaterialTx(ctx, tx, ItemPaper, pageDiff); err != nil {
		return err
	}
	return s.adjustMaterialTx(ctx, tx, ItemInk, inkDiff)
}

// adjustMaterialTx locks the material row, applies a signed quantity
// delta and appends the signed consumption log entry. A zero delta is a
// no-op so job updates that do not change pages leave the log alone.
func (s *inventoryService) adjustMaterialTx(ctx context.Context, tx pgx.Tx, itemType string, delta int) error {
	if delta == 0 {
		return nil
	}

	var inventoryID, quantity int
	err := tx.QueryRow(ctx, `
		SELECT inventory_id, quantity
		FROM inventory
		WHERE item_type = $1
		ORDER BY inventory_id
		LIMIT 1
		FOR UPDATE`,
		itemType,
	).Scan(&inventoryID, &quantity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return NewError(KindInsufficientStock, "insufficient %s: requested %d, available 0", itemType, delta)
		}
		return storeErr(err, "failed to lock %s stock", itemType)
	}
	if delta > 0 && delta > quantity {
		return NewError(KindInsufficientStock, "insufficient %s: requested %d, available %d", itemType, delta, quantity)
	}

	if _, err := tx.Exec(ctx, `
		UPDATE inventory
		SET quantity = quantity - $1, time_stamp = NOW()
		WHERE inventory_id = $2`,
		delta, inventoryID,
	); err != nil {
		return storeErr(err, "failed to adjust %s stock", itemType)
	}
	if _, err := tx.Exec(ctx, `
		INSERT INTO inventoryconsumption (inventory_id, quantity_used)
		VALUES ($1, $2)`,
		inventoryID, delta,
	); err != nil {
		return storeErr(err, "failed to log %s consumption", itemType)
	}
	return nil
}
