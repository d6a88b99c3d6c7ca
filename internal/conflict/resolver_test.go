package conflict_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ravensync/kmlsync/internal/conflict"
	"github.com/ravensync/kmlsync/internal/coordination"
	"github.com/ravensync/kmlsync/internal/model"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestResolveInitialCollisionPreservesLocalContent(t *testing.T) {
	localDir := t.TempDir()
	localPath := filepath.Join(localDir, "x.kml")
	require.NoError(t, os.WriteFile(localPath, []byte("device history"), 0o600))

	r := conflict.NewResolver(coordination.NewCoordinator(), conflict.DirVersionLister{}, "phone", localDir, testLogger())

	freshURL, err := r.ResolveInitialCollision(context.Background(), model.LocalItem{
		MetadataItem: model.MetadataItem{FileName: "x.kml", FileURL: localPath, LastModificationDate: time.Now()},
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(localDir, "x_phone_1.kml"), freshURL)

	data, err := os.ReadFile(freshURL)
	require.NoError(t, err)
	assert.Equal(t, "device history", string(data))

	// The original local file is untouched — it still exists and still
	// holds its original content, ready to be overwritten by the normal
	// cloud→local incremental path.
	orig, err := os.ReadFile(localPath)
	require.NoError(t, err)
	assert.Equal(t, "device history", string(orig))
}

func TestResolveVersionConflictPicksLatestAndPreservesLoser(t *testing.T) {
	cloudDir := t.TempDir()
	cloudPath := filepath.Join(cloudDir, "b.kml")
	require.NoError(t, os.WriteFile(cloudPath, []byte("current"), 0o600))

	older := filepath.Join(cloudDir, "b.kml.~v1000000000")
	newer := filepath.Join(cloudDir, "b.kml.~v2000000000")
	require.NoError(t, os.WriteFile(older, []byte("older version"), 0o600))
	require.NoError(t, os.WriteFile(newer, []byte("newest version"), 0o600))

	r := conflict.NewResolver(coordination.NewCoordinator(), conflict.DirVersionLister{}, "phone", "", testLogger())

	reload, err := r.ResolveVersionConflict(context.Background(), model.CloudItem{
		MetadataItem: model.MetadataItem{FileName: "b.kml", FileURL: cloudPath, LastModificationDate: time.Now()},
	})
	require.NoError(t, err)
	assert.True(t, reload)

	data, err := os.ReadFile(cloudPath)
	require.NoError(t, err)
	assert.Equal(t, "newest version", string(data))

	preserved, err := os.ReadFile(filepath.Join(cloudDir, "b_1.kml"))
	require.NoError(t, err)
	assert.Equal(t, "current", string(preserved))

	_, err = os.Stat(older)
	assert.True(t, os.IsNotExist(err), "version marker should be removed after resolution")
	_, err = os.Stat(newer)
	assert.True(t, os.IsNotExist(err), "version marker should be removed after resolution")
}

func TestResolveVersionConflictNoVersionsIsNoop(t *testing.T) {
	cloudDir := t.TempDir()
	cloudPath := filepath.Join(cloudDir, "c.kml")
	require.NoError(t, os.WriteFile(cloudPath, []byte("solo"), 0o600))

	r := conflict.NewResolver(coordination.NewCoordinator(), conflict.DirVersionLister{}, "phone", "", testLogger())

	reload, err := r.ResolveVersionConflict(context.Background(), model.CloudItem{
		MetadataItem: model.MetadataItem{FileName: "c.kml", FileURL: cloudPath},
	})
	require.NoError(t, err)
	assert.False(t, reload)
}
