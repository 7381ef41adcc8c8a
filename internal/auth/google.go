package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"google.golang.org/api/idtoken"
)

const userinfoURL = "https://openidconnect.googleapis.com/v1/userinfo"

// ErrAccessTokenRequired means the identity token lacked profile fields and
// no access token was supplied to look them up.
var ErrAccessTokenRequired = errors.New("access token required to fetch full user info")

// GoogleProfile is what a verified identity token resolves to.
type GoogleProfile struct {
	Sub     string
	Email   string
	Name    string
	Picture string
}

// GoogleVerifier verifies a federated identity token against the configured
// client id and resolves the user's profile.
type GoogleVerifier interface {
	Verify(ctx context.Context, idToken, accessToken string) (*GoogleProfile, error)
}

type googleVerifier struct {
	clientID string
	http     *http.Client
}

func NewGoogleVerifier(clientID string) GoogleVerifier {
	return &googleVerifier{
		clientID: clientID,
		http:     &http.Client{Timeout: 5 * time.Second},
	}
}

func (g *googleVerifier) Verify(ctx context.Context, token, accessToken string) (*GoogleProfile, error) {
	payload, err := idtoken.Validate(ctx, token, g.clientID)
	if err != nil {
		return nil, fmt.Errorf("verify id token: %w", err)
	}
	p := &GoogleProfile{
		Sub:     payload.Subject,
		Email:   claimString(payload.Claims, "email"),
		Name:    claimString(payload.Claims, "name"),
		Picture: claimString(payload.Claims, "picture"),
	}
	if p.Name == "" || p.Picture == "" {
		if accessToken == "" {
			return nil, ErrAccessTokenRequired
		}
		if err := g.enrich(ctx, accessToken, p); err != nil {
			return nil, err
		}
	}
	if p.Name == "" {
		// last resort: local part of the email
		p.Name = strings.SplitN(p.Email, "@", 2)[0]
	}
	return p, nil
}

func (g *googleVerifier) enrich(ctx context.Context, accessToken string, p *GoogleProfile) error {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	req.Header.Set("Authorization", "Bearer "+accessToken)
	res, err := g.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("userinfo lookup failed: %s", res.Status)
	}
	var info struct {
		Name    string `json:"name"`
		Picture string `json:"picture"`
	}
	if err := json.NewDecoder(res.Body).Decode(&info); err != nil {
		return err
	}
	if info.Name != "" {
		p.Name = info.Name
	}
	if info.Picture != "" {
		p.Picture = info.Picture
	}
	return nil
}

func claimString(claims map[string]interface{}, key string) string {
	s, _ := claims[key].(string)
	return s
}
