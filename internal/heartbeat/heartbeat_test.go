package heartbeat

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWriteRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hb.json")
	at := time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC)

	require.NoError(t, Write(path, Record{PluginID: "ext", PID: 42, At: at}))

	rec, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, "ext", rec.PluginID)
	assert.Equal(t, 42, rec.PID)
	assert.True(t, rec.At.Equal(at))
	assert.Equal(t, 12*time.Second, rec.Age(at.Add(12*time.Second)))
}

func TestReadFallsBackToMtime(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hb.json")
	require.NoError(t, os.WriteFile(path, []byte("touched"), 0644))
	mtime := time.Now().Add(-time.Minute).Truncate(time.Second)
	require.NoError(t, os.Chtimes(path, mtime, mtime))

	rec, err := Read(path)
	require.NoError(t, err)
	assert.True(t, rec.At.Equal(mtime), "got %v want %v", rec.At, mtime)
}

func TestReadMissing(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, os.IsNotExist(err))
}

func TestBeatToleratesUnwritableStore(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	// The parent of the heartbeat path is a regular file, so every write fails.
	e := NewEmitter(filepath.Join(blocker, "hb.json"), "ext", time.Second, nil)
	assert.False(t, e.Beat())
}

func TestRunBeatsUntilCancelled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "heartbeats", "ext.json")
	e := NewEmitter(path, "ext", 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	require.Eventually(t, func() bool {
		_, err := os.Stat(path)
		return err == nil
	}, time.Second, 5*time.Millisecond)

	first, err := Read(path)
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		rec, err := Read(path)
		return err == nil && rec.At.After(first.At)
	}, time.Second, 5*time.Millisecond, "heartbeat should keep advancing")

	cancel()
	assert.NoError(t, <-done)
}
