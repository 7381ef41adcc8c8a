package order

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrEmptyCart = errors.New("cart is empty")

type Repository interface {
	// CreateFromCart snapshots the caller's cart into a paid order and
	// empties the cart, all in one transaction.
	CreateFromCart(ctx context.Context, userID, paymentID, gatewayOrderID string, addr Address) (*Order, error)
	ListByUser(ctx context.Context, userID string) ([]Order, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) CreateFromCart(ctx context.Context, userID, paymentID, gatewayOrderID string, addr Address) (*Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx, `
		SELECT ci.coin_id, co.price::text, ci.quantity
		FROM cart_items ci
		JOIN carts ca ON ca.id = ci.cart_id
		JOIN coins co ON co.id = ci.coin_id
		WHERE ca.user_id = $1
		ORDER BY ci.id
		FOR UPDATE OF ci
	`, userID)
	if err != nil {
		return nil, err
	}

	var items []Item
	total := decimal.Zero
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.CoinID, &price, &it.Quantity); err != nil {
			rows.Close()
			return nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			rows.Close()
			return nil, err
		}
		items = append(items, it)
		total = total.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	ord := &Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     total,
		PaymentID:       paymentID,
		RazorpayOrderID: gatewayOrderID,
		PaymentStatus:   StatusPaid,
		ShippingAddress: addr,
		CreatedAt:       time.Now().UTC(),
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO orders (id, user_id, total_amount, payment_id, razorpay_order_id, payment_status,
		                    ship_address, ship_city, ship_state, ship_postal_code, ship_country, created_at)
		VALUES ($1,$2,$3,NULLIF($4,''),NULLIF($5,''),$6,$7,$8,$9,$10,$11,$12)
	`, ord.ID, ord.UserID, ord.TotalAmount.String(), ord.PaymentID, ord.RazorpayOrderID,
		ord.PaymentStatus, addr.Address, addr.City, addr.State, addr.PostalCode, addr.Country, ord.CreatedAt)
	if err != nil {
		return nil, err
	}

	for _, it := range items {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, coin_id, price, quantity) VALUES ($1,$2,$3,$4)
		`, ord.ID, it.CoinID, it.Price.String(), it.Quantity); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items ci USING carts ca
		WHERE ci.cart_id = ca.id AND ca.user_id = $1
	`, userID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at=NOW() WHERE user_id=$1`, userID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ord, nil
}

func (r *PGRepo) ListByUser(ctx context.Context, userID string) ([]Order, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, total_amount::text, COALESCE(payment_id,''), COALESCE(razorpay_order_id,''),
		       payment_status, ship_address, ship_city, ship_state, ship_postal_code, ship_country, created_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Order{}
	for rows.Next() {
		var o Order
		var total string
		if err := rows.Scan(&o.ID, &o.UserID, &total, &o.PaymentID, &o.RazorpayOrderID,
			&o.PaymentStatus, &o.ShippingAddress.Address, &o.ShippingAddress.City,
			&o.ShippingAddress.State, &o.ShippingAddress.PostalCode, &o.ShippingAddress.Country,
			&o.CreatedAt); err != nil {
			return nil, err
		}
		if o.TotalAmount, err = decimal.NewFromString(total); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		items, err := r.itemsFor(ctx, out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Items = items
	}
	return out, nil
}

func (r *PGRepo) itemsFor(ctx context.Context, orderID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT coin_id, price::text, quantity FROM order_items WHERE order_id = $1 ORDER BY id
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.CoinID, &price, &it.Quantity); err != nil {
			return nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
