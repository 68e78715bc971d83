// Package vcard defines the contract with the native vCard parsing
// library: its error code space, the decoded value types, and the
// Library interface through which every native call is made. The
// parsing and validation algorithms themselves live behind that
// interface and are never reimplemented here.
package vcard

// Handle is an opaque, exclusively owned native card resource.
//
// A Handle is created by Library.Create and destroyed by
// Library.Delete, exactly once each. The accessors return owned
// copies decoded at creation time; no raw native memory is ever
// reachable through a Handle.
type Handle interface {
	// FormattedName returns the card's FN value, or "" when the
	// property chain is missing or malformed.
	FormattedName() string

	// Birthday returns the decoded BDAY slot.
	Birthday() DateTimeValue

	// Anniversary returns the decoded ANNIVERSARY slot.
	Anniversary() DateTimeValue

	// OptionalPropertyCount returns the number of properties beyond
	// FN, BDAY and ANNIVERSARY; 0 when the list is absent.
	OptionalPropertyCount() int
}

// Library is the native ABI: five operations over an opaque card
// record. Implementations must preserve the error code space verbatim.
//
// Ownership discipline: every Handle returned by Create must be passed
// to Delete exactly once. Delete is not idempotent; a second call on
// the same Handle is undefined behavior in the native implementation.
type Library interface {
	// Create parses the file at path into a new Handle. On any non-OK
	// code the returned Handle is nil and nothing needs to be freed.
	Create(path string) (Handle, ErrorCode)

	// Validate checks a Handle against the vCard rules. It neither
	// mutates nor frees the Handle.
	Validate(h Handle) ErrorCode

	// Write serializes the Handle's current content to path,
	// overwriting it.
	Write(path string, h Handle) ErrorCode

	// Delete frees the Handle. Call exactly once, then never use the
	// Handle again.
	Delete(h Handle)

	// Render produces the card's textual form, or "" for a nil Handle.
	Render(h Handle) string
}
