package distcache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixSetGetOrderIndependent(t *testing.T) {
	m := NewMatrix()
	m.Set("ann", "anna", 0.8)

	v, ok := m.Get("anna", "ann")
	assert.True(t, ok)
	assert.Equal(t, 0.8, v)
}

func TestMatrixGetMissing(t *testing.T) {
	m := NewMatrix()
	_, ok := m.Get("a", "b")
	assert.False(t, ok)
}

func TestMatrixClearResetsSize(t *testing.T) {
	m := NewMatrix()
	m.Set("a", "b", 1.0)
	assert.Equal(t, 1, m.Size())
	m.Clear()
	assert.Equal(t, 0, m.Size())
}

func TestMatrixSizeCountsDistinctPairs(t *testing.T) {
	m := NewMatrix()
	m.Set("a", "b", 1.0)
	m.Set("b", "a", 0.5) // same canonical pair, overwrites
	m.Set("a", "c", 1.0)
	assert.Equal(t, 2, m.Size())
}
