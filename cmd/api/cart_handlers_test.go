package main

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"coinbazaar/internal/cart"
)

func cartRouter(carts *stubCarts) *gin.Engine {
	r := gin.New()
	r.Use(asUser("buyer-1", "Grace"))
	r.GET("/cart", getCartHandler(carts))
	r.POST("/cart", addToCartHandler(carts))
	r.PUT("/cart/:coinId", updateCartItemHandler(carts))
	r.DELETE("/cart/:coinId", removeCartItemHandler(carts))
	r.DELETE("/cart", clearCartHandler(carts))
	return r
}

func TestGetCart_MissingCartIsEmpty(t *testing.T) {
	t.Parallel()

	r := cartRouter(newStubCarts(newStubCoins()))
	w := doJSON(t, r, http.MethodGet, "/cart", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := w.Body.String(); body != "[]" {
		t.Fatalf("body = %q, want []", body)
	}
}

func TestAddToCart_RepeatIncrementsQuantity(t *testing.T) {
	t.Parallel()

	coins := newStubCoins()
	coinID := seedCoin(t, coins, "Denarius", "Ancient", 2000, "500.00")
	r := cartRouter(newStubCarts(coins))

	body := `{"coinId":"` + coinID + `"}`
	if w := doJSON(t, r, http.MethodPost, "/cart", body); w.Code != http.StatusOK {
		t.Fatalf("first add: %d", w.Code)
	}
	w := doJSON(t, r, http.MethodPost, "/cart", body)
	if w.Code != http.StatusOK {
		t.Fatalf("second add: %d", w.Code)
	}

	var items []cart.Item
	decodeJSON(t, w, &items)
	if len(items) != 1 {
		t.Fatalf("items = %+v, want one line", items)
	}
	if items[0].Quantity != 2 || items[0].Name != "Denarius" {
		t.Fatalf("line = %+v", items[0])
	}
}

func TestAddToCart_RequiresCoinID(t *testing.T) {
	t.Parallel()

	r := cartRouter(newStubCarts(newStubCoins()))
	w := doJSON(t, r, http.MethodPost, "/cart", `{}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if msg := messageOf(t, w); msg != "coinId is required" {
		t.Fatalf("message = %q", msg)
	}
}

func TestUpdateCartItem(t *testing.T) {
	t.Parallel()

	coins := newStubCoins()
	coinID := seedCoin(t, coins, "Morgan", "Silver", 130, "85.00")
	carts := newStubCarts(coins)
	r := cartRouter(carts)

	doJSON(t, r, http.MethodPost, "/cart", `{"coinId":"`+coinID+`"}`)

	w := doJSON(t, r, http.MethodPut, "/cart/"+coinID, `{"quantity":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var items []cart.Item
	decodeJSON(t, w, &items)
	if len(items) != 1 || items[0].Quantity != 4 {
		t.Fatalf("items = %+v", items)
	}

	if w := doJSON(t, r, http.MethodPut, "/cart/"+coinID, `{"quantity":0}`); w.Code != http.StatusBadRequest {
		t.Fatalf("zero quantity: %d, want 400", w.Code)
	}
}

func TestUpdateCartItem_MissingItem(t *testing.T) {
	t.Parallel()

	coins := newStubCoins()
	inCart := seedCoin(t, coins, "Morgan", "Silver", 130, "85.00")
	other := seedCoin(t, coins, "Aureus", "Ancient", 1900, "1200.00")
	r := cartRouter(newStubCarts(coins))

	doJSON(t, r, http.MethodPost, "/cart", `{"coinId":"`+inCart+`"}`)

	w := doJSON(t, r, http.MethodPut, "/cart/"+other, `{"quantity":2}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if msg := messageOf(t, w); msg != "Item not in cart" {
		t.Fatalf("message = %q", msg)
	}
}

func TestRemoveCartItem_NoCartYet(t *testing.T) {
	t.Parallel()

	coins := newStubCoins()
	coinID := seedCoin(t, coins, "Morgan", "Silver", 130, "85.00")
	r := cartRouter(newStubCarts(coins))

	w := doJSON(t, r, http.MethodDelete, "/cart/"+coinID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if msg := messageOf(t, w); msg != "Cart not found" {
		t.Fatalf("message = %q", msg)
	}
}

func TestRemoveCartItem(t *testing.T) {
	t.Parallel()

	coins := newStubCoins()
	keep := seedCoin(t, coins, "Morgan", "Silver", 130, "85.00")
	drop := seedCoin(t, coins, "Aureus", "Ancient", 1900, "1200.00")
	r := cartRouter(newStubCarts(coins))

	doJSON(t, r, http.MethodPost, "/cart", `{"coinId":"`+keep+`"}`)
	doJSON(t, r, http.MethodPost, "/cart", `{"coinId":"`+drop+`"}`)

	w := doJSON(t, r, http.MethodDelete, "/cart/"+drop, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	var items []cart.Item
	decodeJSON(t, w, &items)
	if len(items) != 1 || items[0].CoinID != keep {
		t.Fatalf("items = %+v", items)
	}
}

func TestClearCart_Idempotent(t *testing.T) {
	t.Parallel()

	coins := newStubCoins()
	coinID := seedCoin(t, coins, "Morgan", "Silver", 130, "85.00")
	r := cartRouter(newStubCarts(coins))

	doJSON(t, r, http.MethodPost, "/cart", `{"coinId":"`+coinID+`"}`)

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodDelete, "/cart", "")
		if w.Code != http.StatusOK {
			t.Fatalf("clear #%d: %d", i+1, w.Code)
		}
		if body := w.Body.String(); body != "[]" {
			t.Fatalf("clear #%d body = %q, want []", i+1, body)
		}
	}
}
