package main

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"coinbazaar/internal/order"
	"coinbazaar/internal/payment"
)

func createPaymentOrderHandler(gateway payment.Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Amount decimal.Decimal `json:"amount"`
		}
		if err := c.ShouldBindJSON(&req); err != nil || req.Amount.Sign() <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "amount must be positive"})
			return
		}

		receipt := "order_" + strconv.FormatInt(time.Now().UnixMilli(), 10)
		gw, err := gateway.CreateOrder(c.Request.Context(), req.Amount, receipt)
		if err != nil {
			serverError(c, "payment.create", err)
			return
		}
		c.JSON(http.StatusOK, gw)
	}
}

type verifyPaymentRequest struct {
	RazorpayPaymentID string        `json:"razorpay_payment_id"`
	RazorpayOrderID   string        `json:"razorpay_order_id"`
	RazorpaySignature string        `json:"razorpay_signature"`
	ShippingAddress   order.Address `json:"shippingAddress"`
}

func verifyPaymentHandler(gateway payment.Gateway, orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req verifyPaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		if !gateway.VerifySignature(req.RazorpayOrderID, req.RazorpayPaymentID, req.RazorpaySignature) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment signature"})
			return
		}

		ord, err := orders.CreateFromCart(c.Request.Context(), c.GetString("userID"),
			req.RazorpayPaymentID, req.RazorpayOrderID, req.ShippingAddress)
		if err != nil {
			if errors.Is(err, order.ErrEmptyCart) {
				c.JSON(http.StatusBadRequest, gin.H{"message": "Cart is empty"})
				return
			}
			serverError(c, "payment.verify", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": ord})
	}
}

func listOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		out, err := orders.ListByUser(c.Request.Context(), c.GetString("userID"))
		if err != nil {
			serverError(c, "orders.list", err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
