package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return hex.EncodeToString(mac.Sum(nil))
}

func runSignature(t *testing.T, secret, body, header string) (error, string) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	if header != "" {
		req.Header.Set(HeaderSignature, header)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seenBody string
	next := func(c echo.Context) error {
		raw, err := io.ReadAll(c.Request().Body)
		require.NoError(t, err)
		seenBody = string(raw)
		return c.NoContent(http.StatusOK)
	}

	err := VerifySignature(secret)(next)(c)
	return err, seenBody
}

func TestVerifySignature(t *testing.T) {
	const secret = "shhh"
	const body = `{"from":"+15550001111","body":"help"}`

	t.Run("should pass a correctly signed request and preserve the body", func(t *testing.T) {
		err, seenBody := runSignature(t, secret, body, sign(secret, body))
		require.NoError(t, err)
		assert.Equal(t, body, seenBody)
	})

	t.Run("should accept the sha256= prefix", func(t *testing.T) {
		err, _ := runSignature(t, secret, body, "sha256="+sign(secret, body))
		require.NoError(t, err)
	})

	t.Run("should reject a missing signature", func(t *testing.T) {
		err, _ := runSignature(t, secret, body, "")
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httperror.GetStatusCode(err))
	})

	t.Run("should reject a wrong signature", func(t *testing.T) {
		err, _ := runSignature(t, secret, body, sign("other-secret", body))
		require.Error(t, err)
		assert.Equal(t, http.StatusUnauthorized, httperror.GetStatusCode(err))
	})

	t.Run("should reject a signature over a different body", func(t *testing.T) {
		err, _ := runSignature(t, secret, body, sign(secret, body+"tampered"))
		require.Error(t, err)
	})

	t.Run("should skip verification when no secret is configured", func(t *testing.T) {
		err, seenBody := runSignature(t, "", body, "")
		require.NoError(t, err)
		assert.Equal(t, body, seenBody)
	})
}
