package artifact

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func touch(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(filepath.Base(path)), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestStatMissing(t *testing.T) {
	info, err := Stat(filepath.Join(t.TempDir(), "shot.png"))
	require.NoError(t, err)
	assert.False(t, info.Exists)
}

func TestStatDirectory(t *testing.T) {
	_, err := Stat(t.TempDir())
	assert.Error(t, err)
}

func TestStatExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	touch(t, path, time.Now())

	info, err := Stat(path)
	require.NoError(t, err)
	assert.True(t, info.Exists)
	assert.Equal(t, int64(len("shot.png")), info.Size)
}

func TestUpToDate(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	target := filepath.Join(dir, "shot.png")
	older := filepath.Join(dir, "older.txt")
	newer := filepath.Join(dir, "newer.txt")
	touch(t, older, now.Add(-time.Hour))
	touch(t, newer, now.Add(time.Hour))

	ok, err := UpToDate(target)
	require.NoError(t, err)
	assert.False(t, ok, "missing target is stale")

	touch(t, target, now)

	ok, err = UpToDate(target)
	require.NoError(t, err)
	assert.True(t, ok, "existing target without prerequisites is fresh")

	ok, err = UpToDate(target, older)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = UpToDate(target, older, newer)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = UpToDate(target, filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	data := []byte("not really a png")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	got, err := Digest(path)
	require.NoError(t, err)

	want := blake3.Sum256(data)
	assert.Equal(t, hex.EncodeToString(want[:]), got)
}

func TestDigestMissing(t *testing.T) {
	_, err := Digest(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}
