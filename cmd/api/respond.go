package main

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

func serverError(c *gin.Context, op string, err error) {
	slog.Error("request failed", "op", op, "rid", ridOf(c), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
}

func ridOf(c *gin.Context) string {
	rid, _ := c.Get("rid")
	s, _ := rid.(string)
	return s
}
