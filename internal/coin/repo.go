package coin

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("coin not found")

// Query carries the optional catalog filters. Nil means "not filtered";
// predicates combine with AND.
type Query struct {
	Type     string
	MinPrice *decimal.Decimal
	MaxPrice *decimal.Decimal
	MinAge   *int
	MaxAge   *int
}

type Repository interface {
	Create(ctx context.Context, c *Coin) error
	GetByID(ctx context.Context, id string) (*Coin, error)
	List(ctx context.Context, q Query) ([]Coin, error)
}

type PGRepo struct{ db *pgxpool.Pool }

func NewPGRepo(db *pgxpool.Pool) *PGRepo { return &PGRepo{db: db} }

const coinColumns = `
	c.id, c.name, c.type, c.age, c.price::text, c.description, c.image,
	COALESCE(c.material,''), COALESCE(c.condition,''), COALESCE(c.diameter,''), COALESCE(c.weight,''),
	c.seller_id, u.name, COALESCE(c.buyer_id::text,''), c.created_at`

func (r *PGRepo) Create(ctx context.Context, c *Coin) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err := r.db.Exec(ctx, `
		INSERT INTO coins (id, name, type, age, price, description, image,
		                   material, condition, diameter, weight, seller_id, created_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,NULLIF($8,''),NULLIF($9,''),NULLIF($10,''),NULLIF($11,''),$12,NOW())
	`, c.ID, c.Name, c.Type, c.Age, c.Price.String(), c.Description, c.Image,
		c.Material, c.Condition, c.Diameter, c.Weight, c.SellerID)
	return err
}

func (r *PGRepo) GetByID(ctx context.Context, id string) (*Coin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	row := r.db.QueryRow(ctx, `
		SELECT `+coinColumns+`
		FROM coins c
		JOIN users u ON u.id = c.seller_id
		WHERE c.id = $1
	`, id)
	c, err := scanCoin(row)
	if err != nil {
		return nil, ErrNotFound
	}
	return c, nil
}

func (r *PGRepo) List(ctx context.Context, q Query) ([]Coin, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var minPrice, maxPrice *string
	if q.MinPrice != nil {
		s := q.MinPrice.String()
		minPrice = &s
	}
	if q.MaxPrice != nil {
		s := q.MaxPrice.String()
		maxPrice = &s
	}

	rows, err := r.db.Query(ctx, `
		SELECT `+coinColumns+`
		FROM coins c
		JOIN users u ON u.id = c.seller_id
		WHERE ($1 = '' OR c.type = $1)
		  AND ($2::numeric IS NULL OR c.price >= $2::numeric)
		  AND ($3::numeric IS NULL OR c.price <= $3::numeric)
		  AND ($4::int IS NULL OR c.age >= $4)
		  AND ($5::int IS NULL OR c.age <= $5)
		ORDER BY c.created_at DESC
	`, q.Type, minPrice, maxPrice, q.MinAge, q.MaxAge)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Coin{}
	for rows.Next() {
		c, err := scanCoin(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanCoin(row pgx.Row) (*Coin, error) {
	var c Coin
	var price string
	if err := row.Scan(&c.ID, &c.Name, &c.Type, &c.Age, &price, &c.Description, &c.Image,
		&c.Material, &c.Condition, &c.Diameter, &c.Weight,
		&c.SellerID, &c.SellerName, &c.BuyerID, &c.CreatedAt); err != nil {
		return nil, err
	}
	d, err := decimal.NewFromString(price)
	if err != nil {
		return nil, err
	}
	c.Price = d
	return &c, nil
}
