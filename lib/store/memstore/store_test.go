package memstore

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwerner/flatkv/lib/store"
	storetesting "github.com/mwerner/flatkv/lib/store/testing"
)

func TestMemStoreConformance(t *testing.T) {
	storetesting.RunDocumentStoreTests(t, "MemStore", func() store.IDocumentStore {
		return New()
	})
}

func TestMemStoreFetchedValueDoesNotAliasStore(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("k", map[string]any{"a": int64(1)}))

	value, loaded, err := s.Get("k")
	require.NoError(t, err)
	require.True(t, loaded)

	m, ok := store.AsMapping(value)
	require.True(t, ok)
	m["evil"] = true

	fresh, _, err := s.Get("k")
	require.NoError(t, err)
	fm, ok := store.AsMapping(fresh)
	require.True(t, ok)
	assert.NotContains(t, fm, "evil", "caller-side mutation must not leak into the store")
	assert.Equal(t, map[string]any{"a": int64(1)}, fm)
}

// a reader holding a record fetched earlier must not race with concurrent
// updates of the same key
func TestMemStoreReaderHoldsRecordDuringUpdates(t *testing.T) {
	s := New()
	require.NoError(t, s.Set("user:1", map[string]any{"email": "a@example.com"}))

	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; ; i++ {
			select {
			case <-done:
				return
			default:
			}
			assert.NoError(t, s.Update("user:1", map[string]any{"seq": int64(i)}))
		}
	}()

	for i := 0; i < 500; i++ {
		value, loaded, err := s.Get("user:1")
		require.NoError(t, err)
		require.True(t, loaded)

		record, ok := store.AsMapping(value)
		require.True(t, ok)
		assert.Equal(t, "a@example.com", record["email"])
		// scribbling on the snapshot is harmless
		record["scratch"] = i
	}
	close(done)
	wg.Wait()

	final, _, err := s.Get("user:1")
	require.NoError(t, err)
	fm, ok := store.AsMapping(final)
	require.True(t, ok)
	assert.NotContains(t, fm, "scratch")
	assert.Equal(t, "a@example.com", fm["email"])
}

func TestMemStoreConcurrentIncrements(t *testing.T) {
	s := New()

	const workers = 16
	const iterations = 200

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < iterations; j++ {
				_, err := s.Increment("counter", "value", 1)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	value, loaded, err := s.Get("counter")
	require.NoError(t, err)
	require.True(t, loaded)

	record, ok := store.AsMapping(value)
	require.True(t, ok)

	total, ok := store.CoerceInt64(record["value"])
	require.True(t, ok)
	assert.Equal(t, int64(workers*iterations), total)
}
