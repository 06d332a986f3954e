package middleware

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strings"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/labstack/echo/v4"
)

// HeaderSignature carries the provider's HMAC-SHA256 of the raw body.
const HeaderSignature = "X-Webhook-Signature"

// VerifySignature rejects webhook deliveries whose body signature does not
// match the shared secret. An empty secret disables verification, for local
// development only.
func VerifySignature(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if secret == "" {
				return next(c)
			}

			req := c.Request()
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return httperror.NewHTTPError(http.StatusBadRequest, "failed to read request body")
			}
			// The handler still needs the body after we consume it here
			req.Body = io.NopCloser(bytes.NewReader(body))

			provided := strings.TrimPrefix(req.Header.Get(HeaderSignature), "sha256=")
			if provided == "" {
				return httperror.NewHTTPError(http.StatusUnauthorized, "missing webhook signature")
			}

			mac := hmac.New(sha256.New, []byte(secret))
			mac.Write(body)
			expected := hex.EncodeToString(mac.Sum(nil))

			if !hmac.Equal([]byte(provided), []byte(expected)) {
				return httperror.NewHTTPError(http.StatusUnauthorized, "invalid webhook signature")
			}

			return next(c)
		}
	}
}
