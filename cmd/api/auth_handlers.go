package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"coinbazaar/internal/account"
	"coinbazaar/internal/auth"
)

type signupRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	Picture     string `json:"picture"`
	Token       string `json:"token"`
	AccessToken string `json:"accessToken"`
}

type userResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

func signupHandler(accounts account.Repository, keys *auth.Keys, google auth.GoogleVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		if req.Token != "" {
			acc, status, msg := findOrCreateGoogleAccount(c, accounts, google, req.Token, req.AccessToken)
			if acc == nil {
				if status != 0 {
					c.JSON(status, gin.H{"message": msg})
				}
				return
			}
			respondWithToken(c, keys, acc)
			return
		}

		if req.Name == "" || req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email, and password are required"})
			return
		}
		if _, err := accounts.GetByEmail(c.Request.Context(), req.Email); err == nil {
			c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			serverError(c, "signup.hash", err)
			return
		}
		acc := &account.Account{
			ID:           uuid.NewString(),
			Name:         req.Name,
			Email:        req.Email,
			PasswordHash: hash,
			Picture:      req.Picture,
		}
		if err := accounts.Create(c.Request.Context(), acc); err != nil {
			if errors.Is(err, account.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"message": "User already exists"})
				return
			}
			serverError(c, "signup.create", err)
			return
		}
		respondWithToken(c, keys, acc)
	}
}

func loginHandler(accounts account.Repository, keys *auth.Keys, google auth.GoogleVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req signupRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}

		if req.Token != "" {
			acc, status, msg := findOrCreateGoogleAccount(c, accounts, google, req.Token, req.AccessToken)
			if acc == nil {
				if status != 0 {
					c.JSON(status, gin.H{"message": msg})
				}
				return
			}
			respondWithToken(c, keys, acc)
			return
		}

		if req.Email == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Provide either Google token or email/password"})
			return
		}
		acc, err := accounts.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || acc.PasswordHash == "" || !auth.CheckPassword(acc.PasswordHash, req.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid credentials"})
			return
		}
		respondWithToken(c, keys, acc)
	}
}

// findOrCreateGoogleAccount resolves a verified Google identity to a local
// account, creating one on first sight. Repeat calls are idempotent, so both
// signup and login accept a Google token.
func findOrCreateGoogleAccount(c *gin.Context, accounts account.Repository, google auth.GoogleVerifier, token, accessToken string) (*account.Account, int, string) {
	ctx := c.Request.Context()
	profile, err := google.Verify(ctx, token, accessToken)
	if err != nil {
		if errors.Is(err, auth.ErrAccessTokenRequired) {
			return nil, http.StatusBadRequest, "Access token required"
		}
		return nil, http.StatusUnauthorized, "Invalid Google token"
	}

	acc, err := accounts.GetByEmail(ctx, profile.Email)
	if err == nil {
		return acc, 0, ""
	}
	if !errors.Is(err, account.ErrNotFound) {
		serverError(c, "google.lookup", err)
		return nil, 0, ""
	}

	acc = &account.Account{
		ID:       uuid.NewString(),
		Name:     profile.Name,
		Email:    profile.Email,
		GoogleID: profile.Sub,
		Picture:  profile.Picture,
	}
	if err := accounts.Create(ctx, acc); err != nil {
		// lost a race with a concurrent first login
		if errors.Is(err, account.ErrAlreadyExist) {
			if existing, err := accounts.GetByEmail(ctx, profile.Email); err == nil {
				return existing, 0, ""
			}
		}
		serverError(c, "google.create", err)
		return nil, 0, ""
	}
	return acc, 0, ""
}

func respondWithToken(c *gin.Context, keys *auth.Keys, acc *account.Account) {
	token, err := keys.Sign(auth.Claims{
		ID:      acc.ID,
		Name:    acc.Name,
		Email:   acc.Email,
		Picture: acc.Picture,
	}, auth.TokenTTL)
	if err != nil {
		serverError(c, "auth.sign", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  userResponse{ID: acc.ID, Name: acc.Name, Email: acc.Email, Picture: acc.Picture},
	})
}
