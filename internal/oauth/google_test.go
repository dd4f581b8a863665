package oauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserInfoServer(t *testing.T, handler http.HandlerFunc) *GoogleClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewGoogleClient(srv.URL, time.Second)
}

func TestUserInfo_Success(t *testing.T) {
	c := newUserInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ya29.token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"sub":"1098","email":"ayse@example.com","given_name":"Ayşe","family_name":"Yılmaz"}`))
	})

	info, err := c.UserInfo(context.Background(), "ya29.token")
	require.NoError(t, err)
	assert.Equal(t, "1098", info.Subject)
	assert.Equal(t, "ayse@example.com", info.Email)
	assert.Equal(t, "Ayşe", info.GivenName)
	assert.Equal(t, "Yılmaz", info.FamilyName)
}

func TestUserInfo_Unauthorized(t *testing.T) {
	c := newUserInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := c.UserInfo(context.Background(), "expired")
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestUserInfo_EmptyToken(t *testing.T) {
	c := NewGoogleClient("http://unused.invalid", time.Second)
	_, err := c.UserInfo(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidAccessToken)
}

func TestUserInfo_ServerError(t *testing.T) {
	c := newUserInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := c.UserInfo(context.Background(), "token")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrInvalidAccessToken))
}

func TestUserInfo_Timeout(t *testing.T) {
	c := newUserInfoServer(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	})
	c.timeout = 20 * time.Millisecond

	_, err := c.UserInfo(context.Background(), "token")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
