package actf

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type customActf struct {
	Identity
	code string
}

func (c customActf) IDCode() string { return c.code }

func TestLookupBuiltins(t *testing.T) {
	t.Cleanup(resetRegistryForTests)

	for _, code := range []string{"id_", "lgs", "gss", "tans", "sin", "relu", "selu", "srlu", "exp"} {
		fn, err := Lookup(code)
		require.NoError(t, err, code)
		assert.Equal(t, code, fn.IDCode())
	}
}

func TestLookupUnknown(t *testing.T) {
	_, err := Lookup("nope")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestRegister(t *testing.T) {
	t.Cleanup(resetRegistryForTests)

	require.NoError(t, Register(customActf{code: "cst"}))

	fn, err := Lookup("cst")
	require.NoError(t, err)
	assert.Equal(t, 2.5, fn.F(2.5))

	err = Register(customActf{code: "cst"})
	assert.ErrorIs(t, err, ErrExists)

	assert.Contains(t, Codes(), "cst")
}

func TestRegisterInvalidCode(t *testing.T) {
	t.Cleanup(resetRegistryForTests)

	tests := []struct {
		name string
		fn   Function
	}{
		{name: "nil", fn: nil},
		{name: "empty", fn: customActf{code: ""}},
		{name: "whitespace", fn: customActf{code: "a b"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, Register(tc.fn), ErrInvalidCode)
		})
	}
}

func TestCodesSorted(t *testing.T) {
	codes := Codes()
	require.NotEmpty(t, codes)
	assert.IsIncreasing(t, codes)
}

func TestMustRegisterPanicsOnDuplicate(t *testing.T) {
	t.Cleanup(resetRegistryForTests)
	assert.Panics(t, func() { MustRegister(LGS) })
}
