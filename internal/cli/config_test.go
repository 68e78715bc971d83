package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/captaindpt/vcard-manager/internal/config"
)

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	oldCfgFile := cfgFile
	cfgFile = path
	defer func() { cfgFile = oldCfgFile }()

	output := &bytes.Buffer{}
	configInitCmd.SetOut(output)

	err := runConfigInit(configInitCmd, nil)
	require.NoError(t, err)
	assert.Contains(t, output.String(), path)

	_, err = os.Stat(path)
	require.NoError(t, err)

	loaded, err := config.NewLoader(path).Load()
	require.NoError(t, err)
	assert.Equal(t, config.DefaultConfig().Extension, loaded.Extension)
}

func TestConfigShowCommand(t *testing.T) {
	oldCfg := cfg
	cfg = config.DefaultConfig()
	defer func() { cfg = oldCfg }()

	output := &bytes.Buffer{}
	configShowCmd.SetOut(output)

	err := runConfigShow(configShowCmd, nil)
	require.NoError(t, err)

	text := output.String()
	assert.Contains(t, text, cfg.CardsDir)
	assert.Contains(t, text, cfg.Extension)
	assert.Contains(t, text, cfg.RefreshSchedule)
}
