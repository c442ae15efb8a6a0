package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestNormalizeTime(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
		ok   bool
	}{
		{"full form", "09:30:00", "09:30:00", true},
		{"short form gets seconds", "18:00", "18:00:00", true},
		{"midnight", "00:00", "00:00:00", true},
		{"last second of day", "23:59:59", "23:59:59", true},
		{"hour out of range", "24:00", "", false},
		{"minute out of range", "10:60", "", false},
		{"not zero padded", "9:30", "", false},
		{"garbage", "soon", "", false},
		{"empty", "", "", false},
		{"too many parts", "10:00:00:00", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := normalizeTime(tc.in)
			if ok != tc.ok {
				t.Fatalf("normalizeTime(%q) ok = %v, want %v", tc.in, ok, tc.ok)
			}
			if got != tc.want {
				t.Fatalf("normalizeTime(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidEmail(t *testing.T) {
	good := []string{"a@example.com", "first.last@sub.example.org"}
	for _, s := range good {
		if !validEmail(s) {
			t.Errorf("validEmail(%q) = false, want true", s)
		}
	}
	bad := []string{"", "not-an-email", "a@", "Alice <a@example.com>", "a @example.com"}
	for _, s := range bad {
		if validEmail(s) {
			t.Errorf("validEmail(%q) = true, want false", s)
		}
	}
}

func TestGetUserID(t *testing.T) {
	e := echo.New()

	newCtx := func() echo.Context {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		return e.NewContext(req, httptest.NewRecorder())
	}

	t.Run("float64 from JWT claims", func(t *testing.T) {
		c := newCtx()
		c.Set("user_id", float64(42))
		got, err := getUserID(c)
		if err != nil || got != 42 {
			t.Fatalf("getUserID = (%d, %v), want (42, nil)", got, err)
		}
	})

	t.Run("missing value", func(t *testing.T) {
		if _, err := getUserID(newCtx()); err == nil {
			t.Fatal("expected error for missing user_id")
		}
	})
}

func TestPathID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	c := e.NewContext(req, httptest.NewRecorder())
	c.SetParamNames("id")
	c.SetParamValues("7")
	id, err := pathID(c)
	if err != nil || id != 7 {
		t.Fatalf("pathID = (%d, %v), want (7, nil)", id, err)
	}

	c.SetParamValues("abc")
	if _, err := pathID(c); err == nil {
		t.Fatal("expected error for non-numeric id")
	}
}
