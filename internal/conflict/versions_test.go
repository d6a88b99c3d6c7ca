package conflict_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravensync/kmlsync/internal/conflict"
)

func TestDirVersionListerListsAndMarksResolved(t *testing.T) {
	dir := t.TempDir()
	cloudPath := filepath.Join(dir, "a.kml")
	require.NoError(t, os.WriteFile(cloudPath, []byte("current"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.kml.~v100"), []byte("v1"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.kml"), []byte("x"), 0o600))

	lister := conflict.DirVersionLister{}

	versions, err := lister.ListUnresolvedVersions(cloudPath)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, "a.kml.~v100", versions[0].FileName)

	require.NoError(t, lister.MarkResolved(versions[0]))
	_, statErr := os.Stat(versions[0].FileURL)
	assert.True(t, os.IsNotExist(statErr))
}

func TestDirVersionListerMissingDirReturnsEmpty(t *testing.T) {
	lister := conflict.DirVersionLister{}
	versions, err := lister.ListUnresolvedVersions("/nonexistent/a.kml")
	require.NoError(t, err)
	assert.Empty(t, versions)
}
