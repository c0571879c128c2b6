package semver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	v, err := Parse("1.0.45")
	require.NoError(t, err)
	require.Equal(t, Version{Major: 1, Minor: 0, Patch: 45}, v)

	v, err = Parse("v1.0.39.2")
	require.NoError(t, err)
	require.Equal(t, 2, v.Revision)
	require.Equal(t, "1.0.39.2", v.String())

	v, err = Parse("2.1-beta")
	require.NoError(t, err)
	require.Equal(t, "2.1.0-beta", v.String())

	_, err = Parse("latest")
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	a, _ := Parse("1.0.40")
	b, _ := Parse("1.0.45")
	pre, _ := Parse("1.0.45-rc1")

	require.Equal(t, -1, a.Compare(b))
	require.Equal(t, 1, b.Compare(a))
	require.Equal(t, 0, b.Compare(b))
	require.Equal(t, 1, b.Compare(pre))
	require.Equal(t, -1, pre.Compare(b))
}

func TestAnyCompatible(t *testing.T) {
	supported := []Version{{Major: 1, Minor: 0, Patch: 0}}

	v, _ := Parse("1.0.45")
	require.True(t, AnyCompatible(supported, v))

	v, _ = Parse("0.100.0")
	require.False(t, AnyCompatible(supported, v))

	v, _ = Parse("2.0.0")
	require.False(t, AnyCompatible(supported, v))
}
