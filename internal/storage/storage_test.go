package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/manav03panchal/dailytracker/internal/model"
	"github.com/manav03panchal/dailytracker/internal/storage"
	"github.com/manav03panchal/dailytracker/internal/storage/storagetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openBadger(t *testing.T) storage.Store {
	s, err := storage.OpenBadger(storage.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestBadgerContract(t *testing.T) {
	storagetest.Run(t, openBadger)
}

func TestBadgerPersists(t *testing.T) {
	ctx := context.Background()
	dir := filepath.Join(t.TempDir(), "badger")

	s, err := storage.OpenBadger(storage.Options{Path: dir})
	require.NoError(t, err)
	assert.Equal(t, dir, s.Path())
	require.NoError(t, s.InsertTask(ctx, storagetest.Task("t", 1)))
	require.NoError(t, s.InsertLog(ctx, storagetest.Log("l", "t", 3, 5)))
	require.NoError(t, s.Close())

	s, err = storage.OpenBadger(storage.Options{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	logs, err := s.ListLogs(ctx, storage.LogQuery{TaskID: "t"})
	require.NoError(t, err)
	assert.Equal(t, []model.Log{storagetest.Log("l", "t", 3, 5)}, logs)
}

func TestBadgerClosed(t *testing.T) {
	s, err := storage.OpenBadger(storage.Options{InMemory: true})
	require.NoError(t, err)
	assert.Equal(t, "", s.Path())
	assert.NotNil(t, s.Badger())
	require.NoError(t, s.Close())

	_, err = s.ListTasks(context.Background())
	assert.ErrorIs(t, err, storage.ErrClosed)
}

func TestCancelledContext(t *testing.T) {
	s := openBadger(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.InsertTask(ctx, storagetest.Task("t", 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestOpenBackends(t *testing.T) {
	t.Setenv(storage.EnvDatabase, "")

	s, err := storage.Open(context.Background(), storage.Options{Backend: storage.BackendBadger, InMemory: true})
	require.NoError(t, err)
	_, ok := s.(*storage.BadgerStore)
	assert.True(t, ok)
	require.NoError(t, s.Close())

	_, err = storage.Open(context.Background(), storage.Options{Backend: "nope", InMemory: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
	assert.Contains(t, err.Error(), storage.BackendBadger)
}

func TestApplyEnv(t *testing.T) {
	tests := []struct {
		name string
		env  string
		in   storage.Options
		want storage.Options
	}{
		{"unset", "", storage.Options{Path: "/a"}, storage.Options{Path: "/a"}},
		{"memory", ":memory:", storage.Options{Path: "/a"}, storage.Options{InMemory: true}},
		{"path", "/tmp/x.db", storage.Options{}, storage.Options{Path: "/tmp/x.db"}},
		{"memory_path_option", "", storage.Options{Path: ":memory:"}, storage.Options{InMemory: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(storage.EnvDatabase, tt.env)
			assert.Equal(t, tt.want, storage.ApplyEnv(tt.in))
		})
	}
}

func TestDefaultPath(t *testing.T) {
	assert.Contains(t, storage.DefaultPath(storage.BackendSQLite), storage.AppName)
	assert.Equal(t, "tracker.db", filepath.Base(storage.DefaultPath(storage.BackendSQLite)))
	assert.Equal(t, "badger", filepath.Base(storage.DefaultPath(storage.BackendBadger)))
}

func TestLogQueryMatches(t *testing.T) {
	l := &model.Log{TaskID: "t", Timestamp: 100}

	assert.True(t, storage.LogQuery{}.Matches(l))
	assert.True(t, storage.LogQuery{TaskID: "t", Start: 100, End: 101}.Matches(l))
	assert.False(t, storage.LogQuery{TaskID: "u"}.Matches(l))
	assert.False(t, storage.LogQuery{End: 100}.Matches(l))
	assert.False(t, storage.LogQuery{Start: 101}.Matches(l))
}
