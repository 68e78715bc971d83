package native

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"

	"github.com/captaindpt/vcard-manager/pkg/vcard"
)

// cString builds a NUL-terminated byte buffer and returns a pointer
// to its first byte, standing in for a C string.
func cString(t *testing.T, s string) *byte {
	t.Helper()
	buf := append([]byte(s), 0)
	return &buf[0]
}

// cardWithName builds a card whose FN chain is fully populated.
func cardWithName(t *testing.T, name string) *cCard {
	t.Helper()
	node := &cNode{data: unsafe.Pointer(cString(t, name))}
	values := &cList{head: node, tail: node, length: 1}
	return &cCard{fn: &cProperty{name: cString(t, "FN"), values: values}}
}

func TestGoString(t *testing.T) {
	assert.Equal(t, "", goString(nil))
	assert.Equal(t, "", goString(cString(t, "")))
	assert.Equal(t, "John Doe", goString(cString(t, "John Doe")))
}

func TestDecodeFormattedName(t *testing.T) {
	assert.Equal(t, "Alice Example", decodeFormattedName(cardWithName(t, "Alice Example")))
}

func TestDecodeFormattedName_BrokenChains(t *testing.T) {
	// Every truncation of the pointer chain must yield "" not a panic.
	cases := map[string]*cCard{
		"nil card":      nil,
		"no fn":         {},
		"no value list": {fn: &cProperty{}},
		"empty list":    {fn: &cProperty{values: &cList{}}},
		"nil node data": {fn: &cProperty{values: &cList{head: &cNode{}, length: 1}}},
	}

	for name, card := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, "", decodeFormattedName(card))
		})
	}
}

func TestDecodeDateTime_Nil(t *testing.T) {
	got := decodeDateTime(nil)
	assert.Equal(t, vcard.DateTimeUnspecified, got.Kind)
	assert.True(t, got.Unspecified())
}

func TestDecodeDateTime_Text(t *testing.T) {
	dt := &cDateTime{isText: true, text: cString(t, "circa 1960")}
	got := decodeDateTime(dt)
	assert.Equal(t, vcard.DateTimeFreeText, got.Kind)
	assert.Equal(t, "circa 1960", got.Text)
}

func TestDecodeDateTime_TextWithNilString(t *testing.T) {
	got := decodeDateTime(&cDateTime{isText: true})
	assert.Equal(t, vcard.DateTimeFreeText, got.Kind)
	assert.True(t, got.Unspecified())
}

func TestDecodeDateTime_Explicit(t *testing.T) {
	dt := &cDateTime{
		utc:  true,
		date: cString(t, "19850412"),
		time: cString(t, "231000"),
	}
	got := decodeDateTime(dt)
	assert.Equal(t, vcard.DateTimeExplicit, got.Kind)
	assert.Equal(t, "19850412", got.Date)
	assert.Equal(t, "231000", got.Time)
	assert.True(t, got.UTC)
	assert.Equal(t, "19850412 231000 UTC", got.String())
}

func TestDecodeOptionalCount(t *testing.T) {
	assert.Equal(t, 0, decodeOptionalCount(nil))
	assert.Equal(t, 0, decodeOptionalCount(&cCard{}))
	assert.Equal(t, 3, decodeOptionalCount(&cCard{optionalProperties: &cList{length: 3}}))
}

func TestNewCardHandle_EagerDecode(t *testing.T) {
	card := cardWithName(t, "Bob Builder")
	card.birthday = &cDateTime{date: cString(t, "19790115")}
	card.optionalProperties = &cList{length: 2}

	h := newCardHandle(card)
	assert.Equal(t, "Bob Builder", h.FormattedName())
	assert.Equal(t, "19790115", h.Birthday().Date)
	assert.Equal(t, vcard.DateTimeUnspecified, h.Anniversary().Kind)
	assert.Equal(t, 2, h.OptionalPropertyCount())
}

func TestNewCardHandle_NilCard(t *testing.T) {
	h := newCardHandle(nil)
	assert.Equal(t, "", h.FormattedName())
	assert.True(t, h.Birthday().Unspecified())
	assert.True(t, h.Anniversary().Unspecified())
	assert.Equal(t, 0, h.OptionalPropertyCount())
}
