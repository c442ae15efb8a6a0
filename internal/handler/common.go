// Package handler contains the HTTP handlers of the API.  Handlers bind
// and validate input, consult the rules package for the write-gating
// decisions, and only then touch the repositories.  Rule rejections are
// returned as 409 responses carrying the decision's reason and, when
// available, the field it is attributable to.
package handler

import (
	"errors"
	"net/http"
	"net/mail"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eventsystem/event-booking/internal/rules"
)

// maximum lengths mirroring the column sizes in the schema
const (
	maxNameLen        = 100
	maxLocationLen    = 200
	maxDescriptionLen = 500
	maxEmailLen       = 100
)

// getUserID extracts the user_id placed in the context by the JWT
// middleware and converts it to uint64.  JSON numbers arrive as float64.
func getUserID(c echo.Context) (uint64, error) {
	switch t := c.Get("user_id").(type) {
	case uint64:
		return t, nil
	case int64:
		return uint64(t), nil
	case float64:
		return uint64(t), nil
	case string:
		if n, err := strconv.ParseUint(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// pathID parses the :id route parameter.
func pathID(c echo.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}

// fieldError renders a 400 validation failure attributed to one field.
func fieldError(c echo.Context, field, msg string) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": msg, "field": field})
}

// rejected renders a 409 for a blocking rule decision.
func rejected(c echo.Context, d rules.Decision) error {
	body := echo.Map{"error": d.Reason}
	if d.Field != "" {
		body["field"] = d.Field
	}
	return c.JSON(http.StatusConflict, body)
}

// validEmail reports whether s parses as a bare RFC 5322 address.
func validEmail(s string) bool {
	a, err := mail.ParseAddress(s)
	return err == nil && a.Address == s
}

// normalizeTime accepts "HH:MM" or "HH:MM:SS" and returns the zero-padded
// "HH:MM:SS" form used everywhere else, or false when the input is not a
// valid wall-clock time.
func normalizeTime(s string) (string, bool) {
	parts := strings.Split(s, ":")
	if len(parts) == 2 {
		parts = append(parts, "00")
	}
	if len(parts) != 3 {
		return "", false
	}
	bounds := [3]int{23, 59, 59}
	for i, p := range parts {
		if len(p) != 2 {
			return "", false
		}
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 || n > bounds[i] {
			return "", false
		}
	}
	return strings.Join(parts, ":"), true
}
