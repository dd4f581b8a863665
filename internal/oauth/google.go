// Package oauth resolves Google OAuth access tokens to user identities.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

var ErrInvalidAccessToken = errors.New("invalid google access token")

// UserInfo is the subset of the Google userinfo response the app uses.
type UserInfo struct {
	Subject    string `json:"sub"`
	Email      string `json:"email"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
}

// GoogleClient calls the userinfo endpoint on behalf of a mobile client
// that already holds an access token.
type GoogleClient struct {
	userInfoURL string
	timeout     time.Duration
	httpClient  *http.Client
}

func NewGoogleClient(userInfoURL string, timeout time.Duration) *GoogleClient {
	return &GoogleClient{
		userInfoURL: userInfoURL,
		timeout:     timeout,
		httpClient:  http.DefaultClient,
	}
}

func (c *GoogleClient) UserInfo(ctx context.Context, accessToken string) (UserInfo, error) {
	if accessToken == "" {
		return UserInfo{}, ErrInvalidAccessToken
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	client := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, nil)
	if err != nil {
		return UserInfo{}, err
	}

	resp, err := client.Do(req)
	if err != nil {
		return UserInfo{}, fmt.Errorf("fetching google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return UserInfo{}, ErrInvalidAccessToken
	}
	if resp.StatusCode != http.StatusOK {
		return UserInfo{}, fmt.Errorf("google userinfo: unexpected status %d", resp.StatusCode)
	}

	var info UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return UserInfo{}, fmt.Errorf("decoding google userinfo: %w", err)
	}

	return info, nil
}
