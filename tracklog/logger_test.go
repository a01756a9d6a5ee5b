package tracklog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsNilConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)
}

func TestNewBuildsConsoleLogger(t *testing.T) {
	l, err := New(DefaultConfig("tracklink"))
	require.NoError(t, err)
	require.NotNil(t, l)

	l.Info("engine started")
	assert.NoError(t, l.Sync())
}

func TestWithComponentAddsField(t *testing.T) {
	l, err := New(DefaultConfig("tracklink"))
	require.NoError(t, err)

	scoped := l.WithComponent("resolver")
	require.NotNil(t, scoped)
	scoped.Warn("no progress this iteration")
}

func TestSetLevelChangesAtomicLevel(t *testing.T) {
	l, err := New(DefaultConfig("tracklink"))
	require.NoError(t, err)

	l.SetLevel(ERROR)
	assert.Equal(t, ERROR.ToZapLevel(), l.atomicLevel.Level())
}

func TestNewCLIDefaultsToInfo(t *testing.T) {
	l, err := NewCLI("tracklink")
	require.NoError(t, err)
	assert.Equal(t, INFO.ToZapLevel(), l.atomicLevel.Level())
}
