//go:build darwin || freebsd || linux

// Package native loads the vCard parsing library over a
// foreign-function boundary and exposes it through the vcard.Library
// contract. Struct decoding happens eagerly at handle creation; raw
// native pointers never leave this package.
package native

import (
	"fmt"

	"github.com/ebitengine/purego"
	"github.com/rs/zerolog/log"

	"github.com/captaindpt/vcard-manager/pkg/vcard"
)

// Lib is the dynamically loaded native library.
type Lib struct {
	handle uintptr

	createCard   func(fileName string, obj **cCard) int32
	validateCard func(obj *cCard) int32
	writeCard    func(fileName string, obj *cCard) int32
	deleteCard   func(obj *cCard)
	cardToString func(obj *cCard) string
}

var _ vcard.Library = (*Lib)(nil)

// Open loads the shared object at path and resolves the five ABI
// functions. The returned Lib stays valid for the life of the process.
func Open(path string) (*Lib, error) {
	handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("failed to load native library %s: %w", path, err)
	}

	l := &Lib{handle: handle}
	purego.RegisterLibFunc(&l.createCard, handle, "createCard")
	purego.RegisterLibFunc(&l.validateCard, handle, "validateCard")
	purego.RegisterLibFunc(&l.writeCard, handle, "writeCard")
	purego.RegisterLibFunc(&l.deleteCard, handle, "deleteCard")
	purego.RegisterLibFunc(&l.cardToString, handle, "cardToString")

	log.Info().Str("path", path).Msg("Native vCard library loaded")
	return l, nil
}

// Create parses path into a new handle. The caller owns the handle
// and must pass it to Delete exactly once.
func (l *Lib) Create(path string) (vcard.Handle, vcard.ErrorCode) {
	var card *cCard
	code := vcard.ErrorCode(l.createCard(path, &card))
	if code != vcard.OK {
		return nil, code
	}
	if card == nil {
		// OK with a nil out pointer violates the contract.
		log.Error().Str("path", path).Msg("createCard returned OK but no card")
		return nil, vcard.OtherError
	}
	return newCardHandle(card), vcard.OK
}

// Validate checks the card without mutating or freeing it.
func (l *Lib) Validate(h vcard.Handle) vcard.ErrorCode {
	card := l.unwrap(h)
	if card == nil {
		return vcard.OtherError
	}
	return vcard.ErrorCode(l.validateCard(card))
}

// Write serializes the card to path, overwriting it.
func (l *Lib) Write(path string, h vcard.Handle) vcard.ErrorCode {
	card := l.unwrap(h)
	if card == nil {
		return vcard.WriteError
	}
	return vcard.ErrorCode(l.writeCard(path, card))
}

// Delete frees the native card. The handle must not be used afterward.
func (l *Lib) Delete(h vcard.Handle) {
	ch, ok := h.(*cardHandle)
	if !ok || ch == nil || ch.card == nil {
		log.Warn().Msg("Delete called on nil or foreign handle")
		return
	}
	l.deleteCard(ch.card)
	ch.card = nil
}

// Render returns the card's textual form, or "" for a nil handle.
func (l *Lib) Render(h vcard.Handle) string {
	card := l.unwrap(h)
	if card == nil {
		return ""
	}
	return l.cardToString(card)
}

// unwrap recovers the native pointer from a handle produced by this
// library, or nil for anything else.
func (l *Lib) unwrap(h vcard.Handle) *cCard {
	ch, ok := h.(*cardHandle)
	if !ok || ch == nil {
		return nil
	}
	return ch.card
}
