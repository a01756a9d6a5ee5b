package trackerr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSetsCorrelationAndTimestamp(t *testing.T) {
	e := New(CodeConfiguration, "engine", "bad weight count")
	assert.Equal(t, CodeConfiguration, e.Code)
	assert.Equal(t, "engine", e.Component)
	assert.NotEmpty(t, e.CorrelationID)
	assert.NotEmpty(t, e.Timestamp)
}

func TestWrapCarriesCause(t *testing.T) {
	cause := errors.New("boom")
	e := Wrap(CodeSchemaMismatch, "ingest", "column missing", cause)
	assert.ErrorIs(t, e, cause)
	assert.Contains(t, e.Error(), "boom")
	assert.Equal(t, "boom", e.Original)
}

func TestIsMatchesByCodeOnly(t *testing.T) {
	a := New(CodeResolverNonProgress, "resolver", "standby deadlock")
	b := New(CodeResolverNonProgress, "resolver", "a different message")
	c := New(CodeEmptyFrameSet, "engine", "no frames")

	assert.True(t, errors.Is(a, b))
	assert.False(t, errors.Is(a, c))
}

func TestConstructorHelpers(t *testing.T) {
	cases := []struct {
		name string
		err  *TrackingError
		code Code
	}{
		{"configuration", Configuration("trackcfg", "unknown metric"), CodeConfiguration},
		{"schema", SchemaMismatch("ingest", "field type mismatch"), CodeSchemaMismatch},
		{"empty", EmptyFrameSet("engine", "need at least two frames"), CodeEmptyFrameSet},
		{"resolver", ResolverNonProgress("resolver", "no iteration made progress"), CodeResolverNonProgress},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.code, tc.err.Code)
		})
	}
}

func TestWithDetailsChains(t *testing.T) {
	e := Configuration("scorer", "min_weight_ratio out of range").WithDetails(map[string]interface{}{
		"min_weight_ratio": 1.5,
	})
	assert.Equal(t, 1.5, e.Details["min_weight_ratio"])
}

func TestMarshalJSON(t *testing.T) {
	e := New(CodeEmptyFrameSet, "engine", "no frames")
	b, err := e.MarshalJSON()
	require.NoError(t, err)
	assert.Contains(t, string(b), `"code":"empty_frame_set"`)
}
