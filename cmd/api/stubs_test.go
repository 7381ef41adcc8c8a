package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coinbazaar/internal/account"
	"coinbazaar/internal/auth"
	"coinbazaar/internal/cart"
	"coinbazaar/internal/coin"
	"coinbazaar/internal/order"
)

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

//
// ---------- STUBS & FAKES ----------
//

// stubAccounts implements account.Repository in memory, keyed by email.
type stubAccounts struct {
	byEmail map[string]*account.Account
}

func newStubAccounts() *stubAccounts {
	return &stubAccounts{byEmail: map[string]*account.Account{}}
}

func (s *stubAccounts) Create(ctx context.Context, a *account.Account) error {
	if _, ok := s.byEmail[a.Email]; ok {
		return account.ErrAlreadyExist
	}
	cp := *a
	s.byEmail[a.Email] = &cp
	return nil
}

func (s *stubAccounts) GetByID(ctx context.Context, id string) (*account.Account, error) {
	for _, a := range s.byEmail {
		if a.ID == id {
			cp := *a
			return &cp, nil
		}
	}
	return nil, account.ErrNotFound
}

func (s *stubAccounts) GetByEmail(ctx context.Context, email string) (*account.Account, error) {
	a, ok := s.byEmail[email]
	if !ok {
		return nil, account.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

// stubCoins implements coin.Repository in memory, newest first on List.
type stubCoins struct {
	items map[string]*coin.Coin
	seq   int
	order map[string]int
}

func newStubCoins() *stubCoins {
	return &stubCoins{items: map[string]*coin.Coin{}, order: map[string]int{}}
}

func (s *stubCoins) Create(ctx context.Context, c *coin.Coin) error {
	cp := *c
	s.items[c.ID] = &cp
	s.seq++
	s.order[c.ID] = s.seq
	return nil
}

func (s *stubCoins) GetByID(ctx context.Context, id string) (*coin.Coin, error) {
	c, ok := s.items[id]
	if !ok {
		return nil, coin.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *stubCoins) List(ctx context.Context, q coin.Query) ([]coin.Coin, error) {
	out := []coin.Coin{}
	for _, c := range s.items {
		if q.Type != "" && c.Type != q.Type {
			continue
		}
		if q.MinPrice != nil && c.Price.LessThan(*q.MinPrice) {
			continue
		}
		if q.MaxPrice != nil && c.Price.GreaterThan(*q.MaxPrice) {
			continue
		}
		if q.MinAge != nil && c.Age < *q.MinAge {
			continue
		}
		if q.MaxAge != nil && c.Age > *q.MaxAge {
			continue
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return s.order[out[i].ID] > s.order[out[j].ID] })
	return out, nil
}

type cartLine struct {
	coinID   string
	quantity int
}

// stubCarts implements cart.Repository in memory and resolves line items
// against a stubCoins catalog.
type stubCarts struct {
	coins  *stubCoins
	lines  map[string][]cartLine
	exists map[string]bool
}

func newStubCarts(coins *stubCoins) *stubCarts {
	return &stubCarts{coins: coins, lines: map[string][]cartLine{}, exists: map[string]bool{}}
}

func (s *stubCarts) resolve(userID string) ([]cart.Item, error) {
	items := []cart.Item{}
	for _, ln := range s.lines[userID] {
		c, ok := s.coins.items[ln.coinID]
		if !ok {
			return nil, fmt.Errorf("unknown coin %s", ln.coinID)
		}
		items = append(items, cart.Item{
			CoinID:   ln.coinID,
			Name:     c.Name,
			Price:    c.Price,
			Image:    c.Image,
			Quantity: ln.quantity,
		})
	}
	return items, nil
}

func (s *stubCarts) Get(ctx context.Context, userID string) ([]cart.Item, error) {
	return s.resolve(userID)
}

func (s *stubCarts) AddItem(ctx context.Context, userID, coinID string) ([]cart.Item, error) {
	if _, ok := s.coins.items[coinID]; !ok {
		return nil, fmt.Errorf("unknown coin %s", coinID)
	}
	s.exists[userID] = true
	found := false
	for i, ln := range s.lines[userID] {
		if ln.coinID == coinID {
			s.lines[userID][i].quantity++
			found = true
			break
		}
	}
	if !found {
		s.lines[userID] = append(s.lines[userID], cartLine{coinID: coinID, quantity: 1})
	}
	return s.resolve(userID)
}

func (s *stubCarts) SetQuantity(ctx context.Context, userID, coinID string, quantity int) ([]cart.Item, error) {
	if !s.exists[userID] {
		return nil, cart.ErrNotFound
	}
	for i, ln := range s.lines[userID] {
		if ln.coinID == coinID {
			s.lines[userID][i].quantity = quantity
			return s.resolve(userID)
		}
	}
	return nil, cart.ErrItemNotFound
}

func (s *stubCarts) RemoveItem(ctx context.Context, userID, coinID string) ([]cart.Item, error) {
	if !s.exists[userID] {
		return nil, cart.ErrNotFound
	}
	for i, ln := range s.lines[userID] {
		if ln.coinID == coinID {
			s.lines[userID] = append(s.lines[userID][:i], s.lines[userID][i+1:]...)
			return s.resolve(userID)
		}
	}
	return nil, cart.ErrItemNotFound
}

func (s *stubCarts) Clear(ctx context.Context, userID string) ([]cart.Item, error) {
	s.exists[userID] = true
	s.lines[userID] = nil
	return []cart.Item{}, nil
}

// stubOrders implements order.Repository against a stubCarts, mirroring the
// snapshot-and-clear checkout.
type stubOrders struct {
	carts  *stubCarts
	orders map[string][]order.Order
}

func newStubOrders(carts *stubCarts) *stubOrders {
	return &stubOrders{carts: carts, orders: map[string][]order.Order{}}
}

func (s *stubOrders) CreateFromCart(ctx context.Context, userID, paymentID, gatewayOrderID string, addr order.Address) (*order.Order, error) {
	resolved, err := s.carts.resolve(userID)
	if err != nil {
		return nil, err
	}
	if len(resolved) == 0 {
		return nil, order.ErrEmptyCart
	}

	ord := order.Order{
		ID:              uuid.NewString(),
		UserID:          userID,
		PaymentID:       paymentID,
		RazorpayOrderID: gatewayOrderID,
		PaymentStatus:   order.StatusPaid,
		ShippingAddress: addr,
		CreatedAt:       time.Now().UTC(),
	}
	for _, it := range resolved {
		ord.Items = append(ord.Items, order.Item{CoinID: it.CoinID, Price: it.Price, Quantity: it.Quantity})
		ord.TotalAmount = ord.TotalAmount.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}

	s.carts.lines[userID] = nil
	s.carts.exists[userID] = true
	s.orders[userID] = append([]order.Order{ord}, s.orders[userID]...)
	return &ord, nil
}

func (s *stubOrders) ListByUser(ctx context.Context, userID string) ([]order.Order, error) {
	out := s.orders[userID]
	if out == nil {
		out = []order.Order{}
	}
	return out, nil
}

// fakeGoogle returns a fixed profile or error.
type fakeGoogle struct {
	profile *auth.GoogleProfile
	err     error
}

func (f *fakeGoogle) Verify(ctx context.Context, idToken, accessToken string) (*auth.GoogleProfile, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.profile, nil
}

// stubGateway accepts exactly one signature and records created orders.
type stubGateway struct {
	okSig   string
	created []map[string]interface{}
}

func (s *stubGateway) CreateOrder(ctx context.Context, amount decimal.Decimal, receipt string) (map[string]interface{}, error) {
	gw := map[string]interface{}{
		"id":       "order_" + uuid.NewString()[:8],
		"amount":   amount.String(),
		"currency": "INR",
		"receipt":  receipt,
	}
	s.created = append(s.created, gw)
	return gw, nil
}

func (s *stubGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == s.okSig
}

//
// ---------- HELPERS ----------
//

// asUser injects the identity the auth middleware would have set.
func asUser(id, name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", id)
		c.Set("userName", name)
		c.Next()
	}
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeJSON(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Message string `json:"message"`
	}
	decodeJSON(t, w, &body)
	return body.Message
}
