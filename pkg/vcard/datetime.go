package vcard

import "strings"

// DateTimeKind discriminates the representations a native DateTime
// structure may take.
type DateTimeKind int

const (
	// DateTimeUnspecified means the card carries no value in this slot.
	DateTimeUnspecified DateTimeKind = iota
	// DateTimeExplicit is a structured date and/or time.
	DateTimeExplicit
	// DateTimeFreeText is an arbitrary textual value, e.g. "circa 1960".
	DateTimeFreeText
)

// DateTimeValue is the owned decoding of a native DateTime. Exactly
// the fields implied by Kind are meaningful; the rest are zero.
type DateTimeValue struct {
	Kind DateTimeKind

	// Explicit representation.
	Date string
	Time string
	UTC  bool

	// Free-text representation.
	Text string
}

// Unspecified reports whether the slot was absent or empty.
func (v DateTimeValue) Unspecified() bool {
	switch v.Kind {
	case DateTimeUnspecified:
		return true
	case DateTimeFreeText:
		return v.Text == ""
	case DateTimeExplicit:
		return v.Date == "" && v.Time == ""
	}
	return true
}

// String renders the value for display, matching the frontend's
// conventions: free text verbatim, otherwise "DATE TIME UTC" with
// absent parts omitted, or "Not specified".
func (v DateTimeValue) String() string {
	if v.Unspecified() {
		return "Not specified"
	}
	if v.Kind == DateTimeFreeText {
		return v.Text
	}

	var b strings.Builder
	b.WriteString(v.Date)
	if v.Time != "" {
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(v.Time)
	}
	if v.UTC {
		b.WriteString(" UTC")
	}
	return b.String()
}
