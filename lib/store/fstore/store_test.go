package fstore

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwerner/flatkv/lib/codec"
	"github.com/mwerner/flatkv/lib/store"
	storetesting "github.com/mwerner/flatkv/lib/store/testing"
)

func newTestStore(t *testing.T) (store.IDocumentStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.json")
	s, err := New(path, DefaultOptions())
	require.NoError(t, err)
	return s, path
}

func TestFileStoreConformance(t *testing.T) {
	storetesting.RunDocumentStoreTests(t, "FileStore", func() store.IDocumentStore {
		s, err := New(filepath.Join(t.TempDir(), "test.json"), DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		return s
	})
}

func TestFileStoreStrictReadsConformance(t *testing.T) {
	storetesting.RunDocumentStoreTests(t, "FileStoreStrict", func() store.IDocumentStore {
		opts := DefaultOptions()
		opts.StrictReads = true
		s, err := New(filepath.Join(t.TempDir(), "test.json"), opts)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		return s
	})
}

func TestFileStoreJSONIterConformance(t *testing.T) {
	storetesting.RunDocumentStoreTests(t, "FileStoreJSONIter", func() store.IDocumentStore {
		opts := DefaultOptions()
		opts.Codec = codec.NewJSONIterCodec()
		s, err := New(filepath.Join(t.TempDir(), "test.json"), opts)
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}
		return s
	})
}

// --------------------------------------------------------------------------
// Initialization
// --------------------------------------------------------------------------

func TestNewCreatesParentDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deeply", "nested", "dirs", "test.json")

	_, err := New(path, DefaultOptions())
	require.NoError(t, err)

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewInitializesEmptyDocument(t *testing.T) {
	_, path := newTestStore(t)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))
	assert.Empty(t, doc)
}

func TestNewIsIdempotent(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Set("key", "value"))

	// constructing against an already-populated path never resets data
	s2, err := New(path, DefaultOptions())
	require.NoError(t, err)

	value, loaded, err := s2.Get("key")
	require.NoError(t, err)
	require.True(t, loaded)
	assert.Equal(t, "value", value)
}

func TestNewSweepsTempResidue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.json")
	residue := path + ".tmp-leftover"
	require.NoError(t, os.WriteFile(residue, []byte("{\"half\": tr"), 0o644))

	_, err := New(path, DefaultOptions())
	require.NoError(t, err)

	_, err = os.Stat(residue)
	assert.True(t, os.IsNotExist(err), "expected temp residue to be removed")
}

func TestNewSweepsTempResidueWithMetacharactersInPath(t *testing.T) {
	// bracket and question mark are glob metacharacters, the sweep must
	// treat them as plain filename bytes
	dir := t.TempDir()
	path := filepath.Join(dir, "data[0]?.json")
	residue := path + ".tmp-leftover"
	require.NoError(t, os.WriteFile(residue, []byte("{\"half\": tr"), 0o644))

	s, err := New(path, DefaultOptions())
	require.NoError(t, err)

	_, err = os.Stat(residue)
	assert.True(t, os.IsNotExist(err), "expected temp residue to be removed")

	// the store itself works at such a path
	require.NoError(t, s.Set("key", "value"))
	value, loaded, err := s.Get("key")
	require.NoError(t, err)
	require.True(t, loaded)
	assert.Equal(t, "value", value)
}

// --------------------------------------------------------------------------
// File layout
// --------------------------------------------------------------------------

func TestLockFileIsSibling(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Set("key", "value"))

	lockPath := filepath.Join(filepath.Dir(path), "test.lock")
	_, err := os.Stat(lockPath)
	assert.NoError(t, err)
}

func TestNoTempFilesInSteadyState(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Set("key", "value"))
	require.NoError(t, s.Delete("key"))

	matches, err := filepath.Glob(path + ".tmp-*")
	require.NoError(t, err)
	assert.Empty(t, matches)
}

func TestDocumentIsPrettyPrintedJSON(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, s.Set("user:123", map[string]any{"email": "user@example.com"}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Contains(t, string(content), "\n  \"user:123\"")

	var doc map[string]any
	require.NoError(t, json.Unmarshal(content, &doc))
}

func TestWithSuffix(t *testing.T) {
	assert.Equal(t, "/data/users.lock", withSuffix("/data/users.json", ".lock"))
	assert.Equal(t, "/data/users.lock", withSuffix("/data/users", ".lock"))
	assert.Equal(t, "relative.lock", withSuffix("relative.json", ".lock"))
}

// --------------------------------------------------------------------------
// Error handling
// --------------------------------------------------------------------------

func TestCorruptDocumentIsSurfaced(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, _, err := s.Get("key")
	require.Error(t, err)
	assert.Equal(t, store.RetCCorruptDocument, store.CodeOf(err))

	// mutations fail before any write, the corrupt file is not papered over
	err = s.Set("key", "value")
	require.Error(t, err)
	assert.Equal(t, store.RetCCorruptDocument, store.CodeOf(err))

	content, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "{not json", string(content))
}

func TestMissingFileReadsAsEmpty(t *testing.T) {
	s, path := newTestStore(t)
	require.NoError(t, os.Remove(path))

	_, loaded, err := s.Get("key")
	require.NoError(t, err)
	assert.False(t, loaded)
}

// failingCodec wraps a codec and fails encoding once armed. Used to verify
// that a failed serialization leaves the persisted document untouched.
type failingCodec struct {
	inner codec.ICodec
	armed bool
}

func (c *failingCodec) Encode(doc store.Document) ([]byte, error) {
	if c.armed {
		return nil, errors.New("injected encode failure")
	}
	return c.inner.Encode(doc)
}

func (c *failingCodec) Decode(b []byte) (store.Document, error) {
	return c.inner.Decode(b)
}

func (c *failingCodec) Name() string { return "failing" }

func TestFailedSerializationLeavesDocumentIntact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")
	fc := &failingCodec{inner: codec.NewJSONCodec()}

	opts := DefaultOptions()
	opts.Codec = fc
	s, err := New(path, opts)
	require.NoError(t, err)
	require.NoError(t, s.Set("key", "original"))

	before, err := os.ReadFile(path)
	require.NoError(t, err)

	fc.armed = true
	err = s.Set("key", "never persisted")
	require.Error(t, err)
	assert.Equal(t, store.RetCInternalError, store.CodeOf(err))

	// byte-identical to before the failed write
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

// --------------------------------------------------------------------------
// Cross-instance cooperation
// --------------------------------------------------------------------------

func TestIncrementPreservesLargeCounters(t *testing.T) {
	s, path := newTestStore(t)

	// beyond 2^53 a float64 detour would silently round the counter
	const base = int64(1) << 53
	require.NoError(t, s.Set("stats", map[string]any{"value": base}))

	value, err := s.Increment("stats", "value", 1)
	require.NoError(t, err)
	assert.Equal(t, base+1, value)

	// and the exact value survives the file round trip
	s2, err := New(path, DefaultOptions())
	require.NoError(t, err)
	value, err = s2.Increment("stats", "value", 1)
	require.NoError(t, err)
	assert.Equal(t, base+2, value)
}

func TestTwoInstancesShareOneDocument(t *testing.T) {
	_, path := newTestStore(t)

	a, err := New(path, DefaultOptions())
	require.NoError(t, err)
	b, err := New(path, DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, a.Set("from-a", "value"))

	value, loaded, err := b.Get("from-a")
	require.NoError(t, err)
	require.True(t, loaded)
	assert.Equal(t, "value", value)

	_, err = b.Increment("stats", "hits", 3)
	require.NoError(t, err)
	hits, err := a.Increment("stats", "hits", 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), hits)
}
