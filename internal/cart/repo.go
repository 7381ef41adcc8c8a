package cart

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNotFound     = errors.New("cart not found")
	ErrItemNotFound = errors.New("item not in cart")
)

// Repository owns the per-account cart. Every mutation returns the resolved
// remaining cart. Get and Clear never fail for a missing cart.
type Repository interface {
	Get(ctx context.Context, userID string) ([]Item, error)
	AddItem(ctx context.Context, userID, coinID string) ([]Item, error)
	SetQuantity(ctx context.Context, userID, coinID string, quantity int) ([]Item, error)
	RemoveItem(ctx context.Context, userID, coinID string) ([]Item, error)
	Clear(ctx context.Context, userID string) ([]Item, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

func (r *PGRepo) Get(ctx context.Context, userID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.resolve(ctx, userID)
}

func (r *PGRepo) AddItem(ctx context.Context, userID, coinID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		cartID, err := lockOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}

		var quantity int
		err = tx.QueryRow(ctx, `
			SELECT quantity FROM cart_items WHERE cart_id=$1 AND coin_id=$2
		`, cartID, coinID).Scan(&quantity)
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			if _, err := tx.Exec(ctx, `
				INSERT INTO cart_items (cart_id, coin_id, quantity) VALUES ($1,$2,1)
			`, cartID, coinID); err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			if _, err := tx.Exec(ctx, `
				UPDATE cart_items SET quantity = quantity + 1 WHERE cart_id=$1 AND coin_id=$2
			`, cartID, coinID); err != nil {
				return err
			}
		}

		_, err = tx.Exec(ctx, `UPDATE carts SET updated_at=NOW() WHERE id=$1`, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, userID)
}

func (r *PGRepo) SetQuantity(ctx context.Context, userID, coinID string, quantity int) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		cartID, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			UPDATE cart_items SET quantity=$3 WHERE cart_id=$1 AND coin_id=$2
		`, cartID, coinID, quantity)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrItemNotFound
		}
		_, err = tx.Exec(ctx, `UPDATE carts SET updated_at=NOW() WHERE id=$1`, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, userID)
}

func (r *PGRepo) RemoveItem(ctx context.Context, userID, coinID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		cartID, err := lockCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `
			DELETE FROM cart_items WHERE cart_id=$1 AND coin_id=$2
		`, cartID, coinID)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return ErrItemNotFound
		}
		_, err = tx.Exec(ctx, `UPDATE carts SET updated_at=NOW() WHERE id=$1`, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return r.resolve(ctx, userID)
}

func (r *PGRepo) Clear(ctx context.Context, userID string) ([]Item, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		cartID, err := lockOrCreateCart(ctx, tx, userID)
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cartID); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE carts SET updated_at=NOW() WHERE id=$1`, cartID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return []Item{}, nil
}

// resolve joins the cart's line items with current listing name/price/image.
// A missing cart resolves to an empty collection.
func (r *PGRepo) resolve(ctx context.Context, userID string) ([]Item, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.coin_id, co.name, co.price::text, co.image, ci.quantity
		FROM cart_items ci
		JOIN carts ca ON ca.id = ci.cart_id
		JOIN coins co ON co.id = ci.coin_id
		WHERE ca.user_id = $1
		ORDER BY ci.id
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []Item{}
	for rows.Next() {
		var it Item
		var price string
		if err := rows.Scan(&it.CoinID, &it.Name, &price, &it.Image, &it.Quantity); err != nil {
			return nil, err
		}
		if it.Price, err = decimal.NewFromString(price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func lockCart(ctx context.Context, tx pgx.Tx, userID string) (string, error) {
	var cartID string
	err := tx.QueryRow(ctx, `
		SELECT id FROM carts WHERE user_id=$1 FOR UPDATE
	`, userID).Scan(&cartID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrNotFound
	}
	return cartID, err
}

func lockOrCreateCart(ctx context.Context, tx pgx.Tx, userID string) (string, error) {
	cartID, err := lockCart(ctx, tx, userID)
	if errors.Is(err, ErrNotFound) {
		err = tx.QueryRow(ctx, `
			INSERT INTO carts (user_id, updated_at) VALUES ($1, NOW()) RETURNING id
		`, userID).Scan(&cartID)
	}
	return cartID, err
}

func (r *PGRepo) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
