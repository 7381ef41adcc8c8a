package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"coinbazaar/internal/account"
	"coinbazaar/internal/auth"
	"coinbazaar/internal/cart"
	"coinbazaar/internal/coin"
	"coinbazaar/internal/httpx"
	"coinbazaar/internal/order"
	"coinbazaar/internal/payment"
)

type deps struct {
	accounts account.Repository
	coins    coin.Repository
	carts    cart.Repository
	orders   order.Repository
	keys     *auth.Keys
	google   auth.GoogleVerifier
	gateway  payment.Gateway
}

func newRouter(d deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger(), httpx.Metrics())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.POST("/auth/signup", signupHandler(d.accounts, d.keys, d.google))
	api.POST("/auth/login", loginHandler(d.accounts, d.keys, d.google))
	api.GET("/coins", listCoinsHandler(d.coins))
	api.GET("/coins/:id", getCoinHandler(d.coins))

	authed := api.Group("")
	authed.Use(httpx.Auth(d.keys))
	authed.POST("/coins", createCoinHandler(d.coins))
	authed.GET("/cart", getCartHandler(d.carts))
	authed.POST("/cart", addToCartHandler(d.carts))
	authed.PUT("/cart/:coinId", updateCartItemHandler(d.carts))
	authed.DELETE("/cart/:coinId", removeCartItemHandler(d.carts))
	authed.DELETE("/cart", clearCartHandler(d.carts))
	authed.POST("/payment/create-order", createPaymentOrderHandler(d.gateway))
	authed.POST("/payment/verify", verifyPaymentHandler(d.gateway, d.orders))
	authed.GET("/orders", listOrdersHandler(d.orders))

	return r
}
