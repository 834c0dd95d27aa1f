package pluginhost

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigJitStack(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader("jit_stack 8192\n"))
	require.NoError(t, err)
	assert.Equal(t, 8192, cfg.JitStack)
}

func TestParseConfigDefaults(t *testing.T) {
	cfg, err := ParseConfig(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, defaultJitStack, cfg.JitStack)
}

func TestParseConfigIgnoresCommentsAndUnknownKeys(t *testing.T) {
	src := "# a comment\nhostname example.com\njit_stack 2048\n"
	cfg, err := ParseConfig(strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, 2048, cfg.JitStack)
}

func TestParseConfigBadValue(t *testing.T) {
	_, err := ParseConfig(strings.NewReader("jit_stack notanumber\n"))
	assert.Error(t, err)
}
