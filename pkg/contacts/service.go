// Package contacts implements the write path over the card
// directory: composing card content, confirming it through the native
// library before it is trusted, and resynchronizing the cache. The
// cache itself stays read-only from the caller's perspective; this
// service is the external collaborator the cache contract describes.
package contacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/captaindpt/vcard-manager/pkg/cardcache"
	"github.com/captaindpt/vcard-manager/pkg/vcard"
)

// stagingDir is a dot-directory inside the managed directory where
// candidate content is validated before replacing a live card. The
// cache scans non-recursively, so nothing in it is ever cached, and
// renames out of it stay on one filesystem.
const stagingDir = ".staging"

// Summary is an owned copy of a card's display fields, safe to hold
// across cache refreshes.
type Summary struct {
	Filename           string
	FormattedName      string
	Birthday           vcard.DateTimeValue
	Anniversary        vcard.DateTimeValue
	OptionalProperties int
}

// Service creates and edits cards in the cache's managed directory.
type Service struct {
	lib   vcard.Library
	cache *cardcache.Cache
}

// NewService creates a contact service over lib and cache.
func NewService(lib vcard.Library, cache *cardcache.Cache) *Service {
	return &Service{lib: lib, cache: cache}
}

// Create writes a new minimal card with the given formatted name. The
// filename gets the recognized extension appended when missing. On
// native rejection the file is removed and the error carries the
// verbatim code.
func (s *Service) Create(filename, formattedName string) error {
	formattedName = strings.TrimSpace(formattedName)
	if formattedName == "" {
		return fmt.Errorf("formatted name cannot be empty")
	}

	filename, err := s.normalize(filename)
	if err != nil {
		return err
	}

	path := filepath.Join(s.cache.Dir(), filename)
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("file %s already exists", filename)
	}

	if err := os.WriteFile(path, []byte(minimalCard(formattedName)), 0o644); err != nil {
		return fmt.Errorf("failed to write card file: %w", err)
	}

	if err := s.confirm(path); err != nil {
		// Don't leave a rejected file behind.
		if rmErr := os.Remove(path); rmErr != nil {
			log.Warn().Err(rmErr).Str("file", filename).Msg("Failed to remove rejected card file")
		}
		return err
	}

	s.cache.Update(filename)
	log.Info().Str("file", filename).Str("name", formattedName).Msg("Card created")
	return nil
}

// SetFormattedName rewrites an existing card with a new FN value. The
// candidate content is validated in a staging file first, so on any
// failure the prior on-disk content is preserved.
func (s *Service) SetFormattedName(filename, formattedName string) error {
	formattedName = strings.TrimSpace(formattedName)
	if formattedName == "" {
		return fmt.Errorf("formatted name cannot be empty")
	}

	filename, err := s.normalize(filename)
	if err != nil {
		return err
	}

	path := filepath.Join(s.cache.Dir(), filename)
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("cannot edit %s: %w", filename, err)
	}

	staging := filepath.Join(s.cache.Dir(), stagingDir)
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return fmt.Errorf("failed to create staging directory: %w", err)
	}

	// The staging file keeps the card extension; the native library
	// refuses to parse anything else.
	tmp := filepath.Join(staging, uuid.NewString()+s.cache.Extension())
	if err := os.WriteFile(tmp, []byte(minimalCard(formattedName)), 0o644); err != nil {
		return fmt.Errorf("failed to write staging file: %w", err)
	}

	if err := s.confirm(tmp); err != nil {
		if rmErr := os.Remove(tmp); rmErr != nil {
			log.Warn().Err(rmErr).Str("file", tmp).Msg("Failed to remove staging file")
		}
		return err
	}

	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace card file: %w", err)
	}

	s.cache.Update(filename)
	log.Info().Str("file", filename).Str("name", formattedName).Msg("Card updated")
	return nil
}

// Summary copies a cached card's display fields out of its borrowed
// handle.
func (s *Service) Summary(filename string) (Summary, error) {
	h, ok := s.cache.Get(filename)
	if !ok {
		return Summary{}, fmt.Errorf("no valid card named %s", filename)
	}
	return Summary{
		Filename:           filename,
		FormattedName:      h.FormattedName(),
		Birthday:           h.Birthday(),
		Anniversary:        h.Anniversary(),
		OptionalProperties: h.OptionalPropertyCount(),
	}, nil
}

// Render returns the card's textual form via the native library.
func (s *Service) Render(filename string) (string, error) {
	h, ok := s.cache.Get(filename)
	if !ok {
		return "", fmt.Errorf("no valid card named %s", filename)
	}
	return s.lib.Render(h), nil
}

// confirm runs create+validate on path through the native library.
// The one-shot inspection handle is deleted before returning.
func (s *Service) confirm(path string) error {
	h, code := s.lib.Create(path)
	if code != vcard.OK {
		return vcard.NewCodeError("createCard", filepath.Base(path), code)
	}
	defer s.lib.Delete(h)

	if vcode := s.lib.Validate(h); vcode != vcard.OK {
		return vcard.NewCodeError("validateCard", filepath.Base(path), vcode)
	}
	return nil
}

// normalize trims the filename, rejects path traversal, and appends
// the recognized extension when absent.
func (s *Service) normalize(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}
	if filepath.Base(filename) != filename {
		return "", fmt.Errorf("filename must not contain path separators")
	}
	if !strings.EqualFold(filepath.Ext(filename), s.cache.Extension()) {
		filename += s.cache.Extension()
	}
	return filename, nil
}

// minimalCard composes the smallest well-formed card for a name.
func minimalCard(formattedName string) string {
	return "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:" + formattedName + "\r\nEND:VCARD\r\n"
}
