// Package rules holds the write-gating decisions of the application:
// whether an event's time interval may be scheduled, whether a booking
// may be admitted and whether a venue or event may be deleted.  Each
// check is a pure predicate over a freshly fetched snapshot; rejections
// are Decision values, never errors, so callers have to branch on them.
// Errors are reserved for store failures.
package rules

// Decision is the outcome of a rule check.  When OK is false, Reason
// carries a human-readable explanation and Field optionally names the
// input field the rejection is attributable to, so the transport layer
// can render field-level feedback.
type Decision struct {
	OK     bool   `json:"ok"`
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// Allowed returns an admitting decision.
func Allowed() Decision {
	return Decision{OK: true}
}

// Rejected returns a blocking decision with the given reason.
func Rejected(reason string) Decision {
	return Decision{Reason: reason}
}

// RejectedField returns a blocking decision attributed to a single
// input field.
func RejectedField(field, reason string) Decision {
	return Decision{Field: field, Reason: reason}
}
