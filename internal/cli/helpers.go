package cli

import (
	"fmt"

	"github.com/captaindpt/vcard-manager/pkg/cardcache"
	"github.com/captaindpt/vcard-manager/pkg/vcard"
	"github.com/captaindpt/vcard-manager/pkg/vcard/native"
)

// openLibrary loads the native parsing library from the configured
// path.
func openLibrary() (vcard.Library, error) {
	lib, err := native.Open(cfg.LibraryPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load native library: %w", err)
	}
	return lib, nil
}

// openCache loads the native library and builds a freshly reconciled
// cache. The caller must Close the cache.
func openCache() (*cardcache.Cache, vcard.Library, error) {
	lib, err := openLibrary()
	if err != nil {
		return nil, nil, err
	}

	cache := cardcache.New(cfg.CardsDir, lib, cardcache.WithExtension(cfg.Extension))
	if err := cache.Refresh(); err != nil {
		cache.Close()
		return nil, nil, err
	}
	return cache, lib, nil
}
