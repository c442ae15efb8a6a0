package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/eventsystem/event-booking/internal/utils"
)

const testSecret = "auth-test-secret"

// newProtectedServer builds an Echo instance with one route wrapped in the
// middleware under test.  The handler records the user_id and role it sees.
func newProtectedServer(t *testing.T, mw ...echo.MiddlewareFunc) (*echo.Echo, *map[string]interface{}) {
	t.Helper()
	seen := map[string]interface{}{}
	e := echo.New()
	g := e.Group("", mw...)
	g.GET("/protected", func(c echo.Context) error {
		seen["user_id"] = c.Get("user_id")
		seen["role"] = c.Get("role")
		return c.NoContent(http.StatusOK)
	})
	return e, &seen
}

func TestJWTAuth(t *testing.T) {
	e, seen := newProtectedServer(t, JWTAuth(testSecret))

	t.Run("valid token passes and sets claims", func(t *testing.T) {
		tok, err := utils.NewAccessToken(testSecret, 5, "ADMIN", 15)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if (*seen)["role"] != "ADMIN" {
			t.Fatalf("role claim = %v, want ADMIN", (*seen)["role"])
		}
		// JSON numbers round-trip through MapClaims as float64.
		if got, ok := (*seen)["user_id"].(float64); !ok || got != 5 {
			t.Fatalf("user_id claim = %v, want 5", (*seen)["user_id"])
		}
	})

	t.Run("missing header is rejected", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		tok, err := utils.NewAccessToken("some-other-secret", 5, "ADMIN", 15)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", rec.Code)
		}
	})
}

func TestRequireRole(t *testing.T) {
	e, _ := newProtectedServer(t, JWTAuth(testSecret), RequireRole("ADMIN"))

	request := func(role string) int {
		tok, err := utils.NewAccessToken(testSecret, 9, role, 15)
		if err != nil {
			t.Fatalf("NewAccessToken: %v", err)
		}
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+tok.Token)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := request("ADMIN"); code != http.StatusOK {
		t.Fatalf("ADMIN status = %d, want 200", code)
	}
	if code := request("CUSTOMER"); code != http.StatusForbidden {
		t.Fatalf("CUSTOMER status = %d, want 403", code)
	}
}
