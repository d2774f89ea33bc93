package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"portfolio-api/config"
)

// httpClient wird für alle Anfragen an den Identity-Provider verwendet.
var httpClient = &http.Client{Timeout: 15 * time.Second}

// ErrUpstreamRejected signalisiert eine Non-200-Antwort des Providers.
// Der genaue Grund wird bewusst nicht nach außen gereicht.
var ErrUpstreamRejected = errors.New("identity provider rejected the request")

// TokenPair ist das normalisierte Access/Refresh-Token-Paar.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Client ist der dünne Proxy zum Token-Endpunkt des Identity-Providers.
type Client struct {
	Config *config.Config
	Logger *zap.Logger
}

// NewClient erstellt einen neuen Identity-Client.
func NewClient(cfg *config.Config, logger *zap.Logger) *Client {
	return &Client{Config: cfg, Logger: logger}
}

// PasswordGrant tauscht E-Mail und Passwort gegen ein Token-Paar.
func (c *Client) PasswordGrant(ctx context.Context, email, password string) (*TokenPair, error) {
	return c.tokenRequest(ctx, "password", map[string]string{
		"email":    email,
		"password": password,
	})
}

// RefreshGrant tauscht ein Refresh-Token gegen ein frisches Token-Paar.
func (c *Client) RefreshGrant(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return c.tokenRequest(ctx, "refresh_token", map[string]string{
		"refresh_token": refreshToken,
	})
}

func (c *Client) tokenRequest(ctx context.Context, grantType string, payload map[string]string) (*TokenPair, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/auth/v1/token?grant_type=%s", c.Config.AuthBaseURL, grantType)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("apikey", c.Config.AuthServiceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.Logger.Warn("Identity provider returned non-success status",
			zap.String("grant_type", grantType),
			zap.Int("status", resp.StatusCode))
		return nil, ErrUpstreamRejected
	}

	var pair TokenPair
	if err := json.NewDecoder(resp.Body).Decode(&pair); err != nil {
		return nil, err
	}
	return &pair, nil
}
