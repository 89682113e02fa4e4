package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luoxbin/nearhub-desktop/core/httpclient"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func jsonResponse(status int, body string) *http.Response {
	rec := httptest.NewRecorder()
	rec.Header().Set("Content-Type", "application/json")
	rec.WriteHeader(status)
	rec.Body.WriteString(body)
	return rec.Result()
}

func refresherClient(fn roundTripFunc) *httpclient.Client {
	return httpclient.NewClient(httpclient.WithHTTPClient(&http.Client{Transport: fn}))
}

func TestCookieRefresherSuccess(t *testing.T) {
	var gotMethod, gotURL string
	client := refresherClient(func(req *http.Request) (*http.Response, error) {
		gotMethod = req.Method
		gotURL = req.URL.String()
		return jsonResponse(http.StatusOK, `{"token":"new-token"}`), nil
	})
	r := NewCookieRefresher(client, "https://api.nearhub.app/auth/refresh")

	token, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "new-token", token)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, "https://api.nearhub.app/auth/refresh", gotURL)
}

func TestCookieRefresherAccessTokenField(t *testing.T) {
	client := refresherClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"accessToken":"alt-token"}`), nil
	})
	r := NewCookieRefresher(client, "https://api.nearhub.app/auth/refresh")

	token, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alt-token", token)
}

func TestCookieRefresherMissingToken(t *testing.T) {
	client := refresherClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{}`), nil
	})
	r := NewCookieRefresher(client, "https://api.nearhub.app/auth/refresh")

	_, err := r.Refresh(context.Background())
	assert.True(t, errors.Is(err, ErrNoRefreshToken))
}

func TestCookieRefresherHTTPFailure(t *testing.T) {
	client := refresherClient(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusUnauthorized, `{"code":"AUTH_INVALID"}`), nil
	})
	r := NewCookieRefresher(client, "https://api.nearhub.app/auth/refresh")

	_, err := r.Refresh(context.Background())
	assert.Error(t, err)
}

func TestCookieRefresherMissingURL(t *testing.T) {
	r := NewCookieRefresher(refresherClient(func(*http.Request) (*http.Response, error) {
		t.Fatal("不应发起请求")
		return nil, nil
	}), "")
	_, err := r.Refresh(context.Background())
	assert.Error(t, err)
}
