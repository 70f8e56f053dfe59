package command

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"commentshub/cmd/cli/authentication"
	"commentshub/cmd/cli/command/client"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func signedToken(t *testing.T, userID int64) string {
	t.Helper()
	claims := tokenClaims{
		UserID:   userID,
		Username: "test1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("whatever"))
	require.NoError(t, err)
	return s
}

func TestReadClaims(t *testing.T) {
	claims, err := readClaims(signedToken(t, 42))
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "test1", claims.Username)

	_, err = readClaims("garbage")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("7", "comment")
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)

	for _, bad := range []string{"0", "-1", "x", ""} {
		_, err := parseID(bad, "comment")
		assert.Error(t, err, bad)
	}
}

func TestWithAuth_NotLoggedIn(t *testing.T) {
	keyring.MockInit()
	err := withAuth(func(*client.HTTPClient) error { return nil })
	assert.ErrorIs(t, err, authentication.ErrNotLoggedIn)
}

func TestWithAuth_RefreshesOnce(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, authentication.StoreTokens(&authentication.StoredCredentials{AccessToken: "old", RefreshToken: "r1"}))

	var refreshes atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/token/refresh/":
			refreshes.Add(1)
			_, _ = io.WriteString(w, `{"access":"new","refresh":"r2"}`)
		case "/comments/1/":
			if r.Header.Get("Authorization") != "Bearer new" {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`)
				return
			}
			_, _ = io.WriteString(w, `{"id":1,"user":1,"text":"hi","home":"","reply":null,"replies":[]}`)
		}
	}))
	defer srv.Close()

	prev := apiURL
	apiURL = srv.URL
	defer func() { apiURL = prev }()

	var text string
	err := withAuth(func(c *client.HTTPClient) error {
		comment, err := c.GetComment(1)
		if err != nil {
			return err
		}
		text = comment.Text
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, "hi", text)
	assert.Equal(t, int32(1), refreshes.Load())

	creds, err := authentication.GetTokens()
	require.NoError(t, err)
	assert.Equal(t, "new", creds.AccessToken)
	assert.Equal(t, "r2", creds.RefreshToken)
}
