package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"coinbazaar/internal/cart"
)

func getCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := carts.Get(c.Request.Context(), c.GetString("userID"))
		if err != nil {
			serverError(c, "cart.get", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func addToCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			CoinID string `json:"coinId"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.CoinID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "coinId is required"})
			return
		}
		items, err := carts.AddItem(c.Request.Context(), c.GetString("userID"), req.CoinID)
		if err != nil {
			serverError(c, "cart.add", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func updateCartItemHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "quantity must be at least 1"})
			return
		}
		items, err := carts.SetQuantity(c.Request.Context(), c.GetString("userID"), c.Param("coinId"), req.Quantity)
		if err != nil {
			respondCartError(c, "cart.update", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func removeCartItemHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := carts.RemoveItem(c.Request.Context(), c.GetString("userID"), c.Param("coinId"))
		if err != nil {
			respondCartError(c, "cart.remove", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func clearCartHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := carts.Clear(c.Request.Context(), c.GetString("userID"))
		if err != nil {
			serverError(c, "cart.clear", err)
			return
		}
		c.JSON(http.StatusOK, items)
	}
}

func respondCartError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, cart.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Cart not found"})
	case errors.Is(err, cart.ErrItemNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Item not in cart"})
	default:
		serverError(c, op, err)
	}
}
