package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"coinbazaar/internal/account"
	"coinbazaar/internal/auth"
	"coinbazaar/internal/cart"
	"coinbazaar/internal/coin"
	"coinbazaar/internal/config"
	"coinbazaar/internal/db"
	"coinbazaar/internal/order"
	"coinbazaar/internal/payment"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[api] config: %v", err)
	}

	if err := db.Migrate(cfg.PostgresDSN); err != nil {
		log.Fatalf("[api] migrate: %v", err)
	}
	pool, err := db.Connect(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[api] db: %v", err)
	}
	defer pool.Close()

	keys, err := auth.NewKeys(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("[api] auth: %v", err)
	}

	r := newRouter(deps{
		accounts: account.NewPGRepo(pool),
		coins:    coin.NewPGRepo(pool),
		carts:    cart.NewPGRepo(pool),
		orders:   order.NewPGRepo(pool),
		keys:     keys,
		google:   auth.NewGoogleVerifier(cfg.GoogleClientID),
		gateway:  payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
	})

	log.Printf("[api] listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
