package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/HSouheill/yoga_blog_backend/models"
	"github.com/HSouheill/yoga_blog_backend/security"
)

const (
	// AdminPinHeader carries the PIN for clients that do not keep a session token
	AdminPinHeader  = "X-Admin-PIN"
	adminContextKey = "admin"
	maxPinPeekBytes = 64 << 10
)

// AdminVerifier checks admin credentials; *services.AdminGate satisfies it
type AdminVerifier interface {
	Verify(pin string) error
	ValidateToken(token string) error
}

// RequireAdmin admits requests carrying a valid admin token or the admin PIN.
// The PIN may come from the X-Admin-PIN header, a "pin" form field or a
// "pin" field of a JSON body.
func RequireAdmin(gate AdminVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()

			if auth := req.Header.Get(echo.HeaderAuthorization); auth != "" {
				token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
				if token != auth && gate.ValidateToken(token) == nil {
					c.Set(adminContextKey, true)
					return next(c)
				}
			}

			pin := submittedPin(c)
			if pin != "" && gate.Verify(pin) == nil {
				c.Set(adminContextKey, true)
				return next(c)
			}

			c.Logger().Warnf("Admin access denied ip=%s path=%s headers=%v",
				c.RealIP(), req.URL.Path, security.SanitizeHeaders(req.Header))
			return c.JSON(http.StatusUnauthorized, models.Response{
				Status:  http.StatusUnauthorized,
				Message: "Incorrect PIN.",
			})
		}
	}
}

// IsAdmin reports whether RequireAdmin admitted the request
func IsAdmin(c echo.Context) bool {
	ok, _ := c.Get(adminContextKey).(bool)
	return ok
}

func submittedPin(c echo.Context) string {
	if pin := strings.TrimSpace(c.Request().Header.Get(AdminPinHeader)); pin != "" {
		return pin
	}

	if strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		return peekJSONPin(c.Request())
	}

	return strings.TrimSpace(c.FormValue("pin"))
}

// peekJSONPin reads the pin field of a JSON body and restores the body for the handler
func peekJSONPin(req *http.Request) string {
	if req.Body == nil {
		return ""
	}
	original := req.Body
	body, err := io.ReadAll(io.LimitReader(original, maxPinPeekBytes))
	req.Body = struct {
		io.Reader
		io.Closer
	}{io.MultiReader(bytes.NewReader(body), original), original}
	if err != nil {
		return ""
	}

	var payload struct {
		Pin string `json:"pin"`
	}
	if json.Unmarshal(body, &payload) != nil {
		return ""
	}
	return strings.TrimSpace(payload.Pin)
}
