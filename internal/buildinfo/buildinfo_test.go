package buildinfo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShortPrefersVersion(t *testing.T) {
	old := Version
	t.Cleanup(func() { Version = old })

	Version = "v1.2.0"
	assert.Equal(t, "v1.2.0", Short())
	assert.Contains(t, String(), "lumen v1.2.0")
}

func TestShortFallsBackToCommit(t *testing.T) {
	oldV, oldC := Version, Commit
	t.Cleanup(func() { Version, Commit = oldV, oldC })

	Version, Commit = "dev", "abc1234"
	assert.Equal(t, "abc1234", Short())
	assert.Contains(t, String(), "commit abc1234")
}
