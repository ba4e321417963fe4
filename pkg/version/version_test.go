package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetOverridesRelease(t *testing.T) {
	prev := release
	t.Cleanup(func() { release = prev })

	Set("")
	require.Equal(t, prev, release)

	Set("v0.3.0")
	require.Equal(t, "v0.3.0", release)
	require.NotEmpty(t, Version())
}

func TestBuildCarriesVersion(t *testing.T) {
	b := Build()
	require.Equal(t, Version(), b.Version)
	require.LessOrEqual(t, len(b.Revision), 12)
}
