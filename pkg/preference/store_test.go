package preference

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore checks the round trip every backend must support.
func exerciseStore(t *testing.T, store Store) {
	t.Helper()
	ctx := context.Background()

	code, found, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, code)

	require.NoError(t, store.Save(ctx, "pt"))
	code, found, err = store.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pt", code)

	require.NoError(t, store.Save(ctx, "en"))
	code, _, err = store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "en", code)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore(""))
}

func TestMemoryStoreSeeded(t *testing.T) {
	code, found, err := NewMemoryStore("pt").Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pt", code)
}

func TestFileStore(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "nested", "prefs.json"), DefaultKey)
	require.NoError(t, err)
	exerciseStore(t, store)
}

func TestFileStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")

	first, err := NewFileStore(path, DefaultKey)
	require.NoError(t, err)
	require.NoError(t, first.Save(context.Background(), "pt"))
	require.NoError(t, first.Close())

	second, err := NewFileStore(path, DefaultKey)
	require.NoError(t, err)
	code, found, err := second.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pt", code)
}

func TestFileStorePreservesOtherKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"theme":"dark"}`), 0600))

	store, err := NewFileStore(path, DefaultKey)
	require.NoError(t, err)
	require.NoError(t, store.Save(context.Background(), "pt"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"theme": "dark"`)
	assert.Contains(t, string(data), `"preferredLanguage": "pt"`)
}

func TestFileStoreCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.json")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0600))

	store, err := NewFileStore(path, DefaultKey)
	require.NoError(t, err)

	_, _, err = store.Load(context.Background())
	assert.Error(t, err)
}

func TestFileStoreRequiresPath(t *testing.T) {
	_, err := NewFileStore("", DefaultKey)
	assert.Error(t, err)
}

func TestSQLiteStore(t *testing.T) {
	store, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "prefs.db"), DefaultKey)
	require.NoError(t, err)
	defer store.Close()

	exerciseStore(t, store)
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	ctx := context.Background()

	first, err := OpenSQLite(ctx, path, DefaultKey)
	require.NoError(t, err)
	require.NoError(t, first.Save(ctx, "pt"))
	require.NoError(t, first.Close())

	second, err := OpenSQLite(ctx, path, DefaultKey)
	require.NoError(t, err)
	defer second.Close()

	code, found, err := second.Load(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pt", code)
}

func TestRedisStoreLoad(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, DefaultKey)

	mock.ExpectGet(DefaultKey).SetVal("pt")

	code, found, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "pt", code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreLoadMissing(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, DefaultKey)

	mock.ExpectGet(DefaultKey).RedisNil()

	code, found, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreLoadError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, DefaultKey)

	mock.ExpectGet(DefaultKey).SetErr(errors.New("connection refused"))

	_, _, err := store.Load(context.Background())
	assert.Error(t, err)
}

func TestRedisStoreSave(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewRedisStore(client, "portfolio:lang")

	mock.ExpectSet("portfolio:lang", "pt", 0).SetVal("OK")

	require.NoError(t, store.Save(context.Background(), "pt"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpen(t *testing.T) {
	tmpDir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name      string
		opts      Options
		wantError bool
	}{
		{name: "file", opts: Options{Backend: BackendFile, Path: filepath.Join(tmpDir, "prefs.json")}},
		{name: "default backend", opts: Options{Path: filepath.Join(tmpDir, "default.json")}},
		{name: "sqlite", opts: Options{Backend: BackendSQLite, Path: filepath.Join(tmpDir, "prefs.db")}},
		{name: "memory", opts: Options{Backend: BackendMemory}},
		{name: "redis without address", opts: Options{Backend: BackendRedis}, wantError: true},
		{name: "unknown", opts: Options{Backend: "etcd"}, wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, err := Open(ctx, tt.opts)
			if tt.wantError {
				assert.Error(t, err)
				assert.Nil(t, store)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, store)
			assert.NoError(t, store.Close())
		})
	}
}
