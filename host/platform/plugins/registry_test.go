package plugins

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liuran001/MusicHost-Go/host/config"
	logpkg "github.com/liuran001/MusicHost-Go/host/logger"
)

func noopFactory(*config.Config, *logpkg.Logger) (*Contribution, error) {
	return &Contribution{}, nil
}

func TestRegister(t *testing.T) {
	t.Cleanup(func() { unregister("test-plugin") })

	require.NoError(t, Register("test-plugin", noopFactory))
	assert.Error(t, Register("test-plugin", noopFactory))
	assert.Error(t, Register("", noopFactory))
	assert.Error(t, Register("other", nil))

	factory, ok := Get("test-plugin")
	require.True(t, ok)
	contrib, err := factory(config.Default(), logpkg.Discard())
	require.NoError(t, err)
	assert.Empty(t, contrib.AllPlatforms())

	assert.Contains(t, Names(), "test-plugin")
	_, ok = Get("missing")
	assert.False(t, ok)
}

func TestAllPlatformsNil(t *testing.T) {
	var c *Contribution
	assert.Nil(t, c.AllPlatforms())
}
