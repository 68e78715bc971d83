package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captaindpt/vcard-manager/internal/config"
	"github.com/captaindpt/vcard-manager/pkg/vcard/vcardtest"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.CardsDir = t.TempDir()
	cfg.RefreshSchedule = "@every 1h" // keep the tick out of timing-sensitive tests
	return cfg
}

func writeCard(t *testing.T, dir, name, fn string) {
	t.Helper()
	content := "BEGIN:VCARD\r\nVERSION:4.0\r\nFN:" + fn + "\r\nEND:VCARD\r\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestDaemon_RunAndShutdown(t *testing.T) {
	cfg := testConfig(t)
	writeCard(t, cfg.CardsDir, "a.vcf", "A")
	lib := vcardtest.NewLibrary()

	d, err := New(cfg, lib)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// The initial pass populates the cache.
	assert.Eventually(t, func() bool {
		return d.Cache().Size() == 1
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("daemon did not stop")
	}

	// Shutdown freed every handle exactly once.
	assert.Zero(t, lib.LiveHandles())
	assert.Zero(t, lib.DoubleDeletes())
	assert.Equal(t, lib.CreatedHandles(), lib.DeleteCalls())
}

func TestDaemon_WatcherPicksUpNewCard(t *testing.T) {
	cfg := testConfig(t)
	lib := vcardtest.NewLibrary()

	d, err := New(cfg, lib)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// Wait for startup, then drop a card in.
	assert.Eventually(t, func() bool {
		return d.Cache().Size() == 0 && len(d.Cache().List()) == 0
	}, time.Second, 10*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	writeCard(t, cfg.CardsDir, "late.vcf", "Late Arrival")

	assert.Eventually(t, func() bool {
		_, ok := d.Cache().Get("late.vcf")
		return ok
	}, 3*time.Second, 25*time.Millisecond)

	cancel()
	<-done
}

func TestDaemon_MissingDirectoryFails(t *testing.T) {
	cfg := testConfig(t)
	cfg.CardsDir = filepath.Join(cfg.CardsDir, "missing")
	lib := vcardtest.NewLibrary()

	d, err := New(cfg, lib)
	require.NoError(t, err)

	err = d.Run(context.Background())
	assert.ErrorContains(t, err, "initial reconciliation failed")
}
