package ledger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"topfived/internal/testutil"
	"topfived/internal/voting"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileManager_SaveCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.dat")
	store := NewKVStore()
	_ = store.Set(voting.AnonymousIDsKey, `["user1:abc"]`)

	fm := NewFileManager(&testutil.MockCompressor{}, store, &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var file File
	require.NoError(t, json.Unmarshal(raw, &file))
	assert.Equal(t, fileVersion, file.Version)
	assert.Equal(t, `["user1:abc"]`, file.Entries[voting.AnonymousIDsKey])
	assert.False(t, store.Dirty())
}

func TestFileManager_SaveLeavesNoTmp(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledger.dat")

	fm := NewFileManager(&testutil.MockCompressor{}, NewKVStore(), &testutil.MockLogger{})
	require.NoError(t, fm.SaveToFile(path))

	_, err := os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileManager_LoadMissingFile(t *testing.T) {
	fm := NewFileManager(&testutil.MockCompressor{}, NewKVStore(), &testutil.MockLogger{})
	assert.NoError(t, fm.LoadFromFile(filepath.Join(t.TempDir(), "absent.dat")))
}

func TestFileManager_Roundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.dat")
	comp, err := NewZstdCompressor()
	require.NoError(t, err)
	defer comp.Close()

	src := NewKVStore()
	_ = src.Set(voting.AnonymousIDsKey, `["user1:abc","user2:def"]`)
	_ = src.Set(voting.LedgerKey("tablet"), `["user3:ghi"]`)
	require.NoError(t, NewFileManager(comp, src, &testutil.MockLogger{}).SaveToFile(path))

	dst := NewKVStore()
	require.NoError(t, NewFileManager(comp, dst, &testutil.MockLogger{}).LoadFromFile(path))

	assert.Equal(t, src.Snapshot(), dst.Snapshot())
	assert.Equal(t, 3, dst.IdentityCount())
}

func TestFileManager_ImportsBareIdentityArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.dat")
	require.NoError(t, os.WriteFile(path, []byte(`["user1:abc","user2:def"]`), 0644))

	store := NewKVStore()
	logger := &testutil.MockLogger{}
	fm := NewFileManager(&testutil.MockCompressor{}, store, logger)
	require.NoError(t, fm.LoadFromFile(path))

	v, ok := store.Get(voting.AnonymousIDsKey)
	assert.True(t, ok)
	assert.Equal(t, `["user1:abc","user2:def"]`, v)
	assert.Equal(t, 2, logger.Count("warn"))
}

func TestFileManager_LoadCorrupted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corrupt.dat")
	require.NoError(t, os.WriteFile(path, []byte("not json"), 0644))

	fm := NewFileManager(&testutil.MockCompressor{}, NewKVStore(), &testutil.MockLogger{})
	assert.Error(t, fm.LoadFromFile(path))
}

func TestFileManager_CompressErrorKeepsDirty(t *testing.T) {
	store := NewKVStore()
	_ = store.Set("k", "v")
	comp := &testutil.MockCompressor{
		CompressFn: func([]byte) ([]byte, error) { return nil, errors.New("compress failed") },
	}

	fm := NewFileManager(comp, store, &testutil.MockLogger{})
	err := fm.SaveToFile(filepath.Join(t.TempDir(), "ledger.dat"))

	assert.EqualError(t, err, "compress failed")
	assert.True(t, store.Dirty())
}

func TestFileManager_DecompressError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.dat")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	comp := &testutil.MockCompressor{
		DecompressFn: func([]byte) ([]byte, error) { return nil, errors.New("decompress failed") },
	}

	fm := NewFileManager(comp, NewKVStore(), &testutil.MockLogger{})
	assert.EqualError(t, fm.LoadFromFile(path), "decompress failed")
}

func TestNewFileManagerProvider_CleanupClosesCompressor(t *testing.T) {
	compressor := &testutil.MockCompressor{}
	fm, cleanup := NewFileManagerProvider(compressor, NewKVStore(), &testutil.MockLogger{})
	require.NotNil(t, fm)
	assert.False(t, compressor.Closed)

	cleanup()
	assert.True(t, compressor.Closed)
}
