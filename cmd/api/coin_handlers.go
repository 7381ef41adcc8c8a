package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"coinbazaar/internal/coin"
)

func createCoinHandler(coins coin.Repository) gin.HandlerFunc {
	validate := validator.New()
	return func(c *gin.Context) {
		var req coin.CreateCoinRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		if err := validate.Struct(req); err != nil {
			var vErrs validator.ValidationErrors
			if errors.As(err, &vErrs) && len(vErrs) > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"message": vErrs[0].Field() + " is required"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		listing := &coin.Coin{
			ID:          uuid.NewString(),
			Name:        req.Name,
			Type:        req.Type,
			Age:         *req.Age,
			Price:       *req.Price,
			Description: req.Description,
			Image:       req.Image,
			Material:    req.Material,
			Condition:   req.Condition,
			Diameter:    req.Diameter,
			Weight:      req.Weight,
			SellerID:    c.GetString("userID"),
			SellerName:  c.GetString("userName"),
		}
		if err := coins.Create(c.Request.Context(), listing); err != nil {
			serverError(c, "coins.create", err)
			return
		}
		c.JSON(http.StatusCreated, listing)
	}
}

func listCoinsHandler(coins coin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := coin.Query{Type: c.Query("type")}

		for param, dst := range map[string]**decimal.Decimal{
			"minPrice": &q.MinPrice,
			"maxPrice": &q.MaxPrice,
		} {
			if s := c.Query(param); s != "" {
				d, err := decimal.NewFromString(s)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + param})
					return
				}
				*dst = &d
			}
		}
		for param, dst := range map[string]**int{
			"minAge": &q.MinAge,
			"maxAge": &q.MaxAge,
		} {
			if s := c.Query(param); s != "" {
				n, err := strconv.Atoi(s)
				if err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid " + param})
					return
				}
				*dst = &n
			}
		}

		out, err := coins.List(c.Request.Context(), q)
		if err != nil {
			serverError(c, "coins.list", err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func getCoinHandler(coins coin.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		listing, err := coins.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, coin.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": "Coin not found"})
				return
			}
			serverError(c, "coins.get", err)
			return
		}
		c.JSON(http.StatusOK, listing)
	}
}
