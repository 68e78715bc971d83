package native

import (
	"unsafe"

	"github.com/rs/zerolog/log"

	"github.com/captaindpt/vcard-manager/pkg/vcard"
)

// Decoding of the mirrored structures into owned Go values. The
// library may hand back partially populated cards on malformed input,
// so every link of every pointer chain is checked; a broken link
// yields the zero value and a debug log entry, never a crash.

// goString copies a NUL-terminated C string. Returns "" for nil.
func goString(p *byte) string {
	if p == nil {
		return ""
	}
	n := 0
	for ptr := unsafe.Pointer(p); *(*byte)(unsafe.Add(ptr, n)) != 0; n++ {
	}
	return string(unsafe.Slice(p, n))
}

// decodeFormattedName walks card -> fn -> values -> head -> data and
// returns the FN text, or "" if any link is missing.
func decodeFormattedName(card *cCard) string {
	switch {
	case card == nil:
		return ""
	case card.fn == nil:
		log.Debug().Msg("card has no FN property")
		return ""
	case card.fn.values == nil:
		log.Debug().Msg("FN property has no value list")
		return ""
	case card.fn.values.head == nil:
		log.Debug().Msg("FN value list is empty")
		return ""
	case card.fn.values.head.data == nil:
		log.Debug().Msg("FN head node has no data")
		return ""
	}
	return goString((*byte)(card.fn.values.head.data))
}

// decodeDateTime converts an optional DateTime structure. A nil
// pointer means the slot is unspecified. The isText flag selects the
// free-text representation; both flavors tolerate nil strings.
func decodeDateTime(dt *cDateTime) vcard.DateTimeValue {
	if dt == nil {
		return vcard.DateTimeValue{Kind: vcard.DateTimeUnspecified}
	}
	if dt.isText {
		return vcard.DateTimeValue{
			Kind: vcard.DateTimeFreeText,
			Text: goString(dt.text),
		}
	}
	return vcard.DateTimeValue{
		Kind: vcard.DateTimeExplicit,
		Date: goString(dt.date),
		Time: goString(dt.time),
		UTC:  dt.utc,
	}
}

// decodeOptionalCount returns the optional property list's length
// field, or 0 when the list is absent.
func decodeOptionalCount(card *cCard) int {
	if card == nil || card.optionalProperties == nil {
		return 0
	}
	return int(card.optionalProperties.length)
}

// cardHandle is the owned view of one native card. The summary fields
// are decoded eagerly when the handle is created so that no caller
// ever touches native memory.
type cardHandle struct {
	card *cCard

	name        string
	birthday    vcard.DateTimeValue
	anniversary vcard.DateTimeValue
	optional    int
}

var _ vcard.Handle = (*cardHandle)(nil)

// newCardHandle wraps a native card pointer and decodes its summary.
func newCardHandle(card *cCard) *cardHandle {
	h := &cardHandle{card: card}
	if card == nil {
		return h
	}
	h.name = decodeFormattedName(card)
	h.birthday = decodeDateTime(card.birthday)
	h.anniversary = decodeDateTime(card.anniversary)
	h.optional = decodeOptionalCount(card)
	return h
}

func (h *cardHandle) FormattedName() string            { return h.name }
func (h *cardHandle) Birthday() vcard.DateTimeValue    { return h.birthday }
func (h *cardHandle) Anniversary() vcard.DateTimeValue { return h.anniversary }
func (h *cardHandle) OptionalPropertyCount() int       { return h.optional }
