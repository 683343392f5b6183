package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/printworks/pricing-service/internal/pkg/cuid2"
)

// ErrCartNotOpen is returned when a cart operation targets a cart that was
// already checked out or does not exist.
var ErrCartNotOpen = fmt.Errorf("cart is not open")

// CreateCart opens a new cart, optionally bound to a customer.
func CreateCart(ctx context.Context, customerID *string) (*Cart, error) {
	cart := &Cart{
		ID:         cuid2.GeneratePrefixedId("crt", cuid2.PrefixedIdOptions{TimeSortable: true}),
		CustomerID: customerID,
		Status:     "open",
		CreatedAt:  time.Now(),
	}

	_, err := Pool().Exec(ctx, `
		INSERT INTO carts (id, customer_id, status, created_at)
		VALUES ($1, $2, $3, $4)
	`, cart.ID, cart.CustomerID, cart.Status, cart.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cart: %w", err)
	}
	return cart, nil
}

// GetCart returns one cart by ID, or (nil, nil) if it does not exist.
func GetCart(ctx context.Context, cartID string) (*Cart, error) {
	var cart Cart
	err := Pool().QueryRow(ctx, `
		SELECT id, customer_id, status, created_at, checked_out_at
		FROM carts WHERE id = $1
	`, cartID).Scan(&cart.ID, &cart.CustomerID, &cart.Status, &cart.CreatedAt, &cart.CheckedOut)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error querying cart: %w", err)
	}
	return &cart, nil
}

// InsertCartItem adds a priced line to an open cart. The breakdown snapshot
// and its signature are stored verbatim; checkout re-verifies the signature
// before freezing the line onto an order.
func (item *CartItem) Insert(ctx context.Context) error {
	if item.ID == "" {
		item.ID = cuid2.GeneratePrefixedId("cti", cuid2.PrefixedIdOptions{TimeSortable: true})
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}

	tag, err := Pool().Exec(ctx, `
		INSERT INTO cart_items (id, cart_id, product_id, quantity, selection, components, signature, final_total, created_at)
		SELECT $1, c.id, $3, $4, $5, $6, $7, $8, $9
		FROM carts c
		WHERE c.id = $2 AND c.status = 'open'
	`, item.ID, item.CartID, item.ProductID, item.Quantity,
		item.SelectionJSON, item.ComponentsJSON, item.Signature, item.FinalTotal, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrCartNotOpen
	}
	return nil
}

// ListCartItems returns all lines of a cart in insertion order.
func ListCartItems(ctx context.Context, cartID string) ([]CartItem, error) {
	rows, err := Pool().Query(ctx, `
		SELECT id, cart_id, product_id, quantity, selection, components, signature, final_total, created_at
		FROM cart_items
		WHERE cart_id = $1
		ORDER BY created_at, id
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("error querying cart items: %w", err)
	}
	defer rows.Close()

	var items []CartItem
	for rows.Next() {
		var item CartItem
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
			&item.SelectionJSON, &item.ComponentsJSON, &item.Signature,
			&item.FinalTotal, &item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// CreateOrderFromCart checks out a cart in one transaction: the cart flips
// to checked_out, every line is copied onto the order, and the order total
// is the sum of the frozen line totals. A cart that is not open fails with
// ErrCartNotOpen.
func CreateOrderFromCart(ctx context.Context, cartID string) (*Order, error) {
	pool := Pool()

	tx, err := pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	var customerID *string
	tag, err := tx.Exec(ctx, `
		UPDATE carts SET status = 'checked_out', checked_out_at = $2
		WHERE id = $1 AND status = 'open'
	`, cartID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to close cart: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, ErrCartNotOpen
	}
	if err := tx.QueryRow(ctx, `SELECT customer_id FROM carts WHERE id = $1`, cartID).Scan(&customerID); err != nil {
		return nil, fmt.Errorf("error reading cart owner: %w", err)
	}

	order := &Order{
		ID:         cuid2.GeneratePrefixedId("ord", cuid2.PrefixedIdOptions{TimeSortable: true}),
		CartID:     cartID,
		CustomerID: customerID,
		CreatedAt:  now,
	}

	rows, err := tx.Query(ctx, `
		SELECT id, product_id, quantity, components, signature, final_total
		FROM cart_items WHERE cart_id = $1
		ORDER BY created_at, id
	`, cartID)
	if err != nil {
		return nil, fmt.Errorf("error querying cart items: %w", err)
	}

	var lines []OrderItem
	for rows.Next() {
		var cartItemID string
		item := OrderItem{OrderID: order.ID}
		if err := rows.Scan(&cartItemID, &item.ProductID, &item.Quantity,
			&item.ComponentsJSON, &item.Signature, &item.FinalTotal); err != nil {
			rows.Close()
			return nil, fmt.Errorf("error scanning cart item: %w", err)
		}
		item.ID = cuid2.GeneratePrefixedId("oit", cuid2.PrefixedIdOptions{TimeSortable: true})
		lines = append(lines, item)
		order.Total += item.FinalTotal
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error reading cart items: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("cart %s is empty", cartID)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO orders (id, cart_id, customer_id, total, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, order.ID, order.CartID, order.CustomerID, order.Total, order.CreatedAt); err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}

	batch := &pgx.Batch{}
	for _, line := range lines {
		batch.Queue(`
			INSERT INTO order_items (id, order_id, product_id, quantity, components, signature, final_total)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, line.ID, line.OrderID, line.ProductID, line.Quantity,
			line.ComponentsJSON, line.Signature, line.FinalTotal)
	}
	results := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return nil, fmt.Errorf("failed to insert order item: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return nil, fmt.Errorf("failed to flush order items: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}
	return order, nil
}
