package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedConfig(t *testing.T) {
	require.NoError(t, LoadConfig(""))

	assert.Equal(t, "fail", cfg.Decoder.UnknownOptions)
	assert.Equal(t, uint32(64<<20), cfg.Decoder.MaxBlockLength)
	assert.Equal(t, "15:04:05.000000", cfg.Packets.TimeFormat)
	assert.Equal(t, 4096, cfg.Browse.MaxPayload)
	assert.Equal(t, []string{"Index", "Time", "Interface", "Proto", "Src", "SrcPort", "Dst", "DstPort", "CapLen", "Len"}, defaultColumns())

	col := columnConfig("Direction")
	require.NotNil(t, col)
	assert.False(t, col.Default)
	assert.Nil(t, columnConfig("NotAColumn"))
}

func TestConfigOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
decoder:
  unknownOptions: keep
browse:
  maxPayload: 16
`), 0o600))

	require.NoError(t, LoadConfig(path))
	assert.Equal(t, "keep", cfg.Decoder.UnknownOptions)
	assert.Equal(t, 16, cfg.Browse.MaxPayload)
	// keys missing from the file keep their embedded value
	assert.Equal(t, uint32(64<<20), cfg.Decoder.MaxBlockLength)
	assert.Equal(t, "15:04:05.000000", cfg.Packets.TimeFormat)

	// loading again starts over from the embedded config
	require.NoError(t, LoadConfig(""))
	assert.Equal(t, "fail", cfg.Decoder.UnknownOptions)
}

func TestConfigErrors(t *testing.T) {
	err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "can't read config file")

	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("decoder: [unterminated"), 0o600))
	err = LoadConfig(path)
	assert.ErrorContains(t, err, "can't parse config file")

	require.NoError(t, LoadConfig(""))
}
