package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServeOptions(t *testing.T) {
	t.Parallel()

	configPath := writeFile(t, "config.yaml", memoryConfig)

	cmd := newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", configPath}))
	opts, err := serveOptions(cmd)
	require.NoError(t, err)
	assert.Len(t, opts, 1)

	cmd = newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", configPath, "--address", "127.0.0.1:9090"}))
	opts, err = serveOptions(cmd)
	require.NoError(t, err)
	assert.Len(t, opts, 2)

	cmd = newServeCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--config", writeFile(t, "bad.yaml", "storage:\n  type: s3\n")}))
	_, err = serveOptions(cmd)
	assert.ErrorContains(t, err, "failed to load configuration")
}

func TestServeCmd_RequiresConfig(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "", "serve")
	assert.ErrorContains(t, err, `required flag(s) "config" not set`)
}
